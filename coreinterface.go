package xtensa

import "time"

// Architecture, core type and instruction set descriptors, mirroring
// the static identification fields a multi-architecture debug-probe
// front end reads off any CoreInterface implementation (spec.md §6).
const (
	Architecture   = "xtensa"
	CoreType       = "xtensa-ocd"
	InstructionSet = "xtensa"
	HasFPU         = false
)

// CoreInterface is the upward surface spec.md §6 defines for driving a
// halted core: lifecycle, register access, single-step and hardware
// breakpoint management, independent of any particular transport.
type CoreInterface interface {
	Halt(timeout time.Duration) error
	Run() error
	Step() error
	Reset() error
	ResetAndHalt(timeout time.Duration) error

	Status() (HaltReason, error)
	CoreHalted() bool
	WaitForCoreHalted(timeout time.Duration) error

	ReadCoreReg(id RegID) (uint32, error)
	WriteCoreReg(id RegID, v uint32) error

	AvailableBreakpointUnits() int
	HWBreakpoints() []*uint32
	EnableBreakpoints(enable bool) error
	SetHWBreakpoint(slot int, addr uint32) error
	ClearHWBreakpoint(slot int) error

	DebugCoreStop() error
}

var _ CoreInterface = (*Core)(nil)
