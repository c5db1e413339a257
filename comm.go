package xtensa

import (
	"fmt"
	"log"
)

// DefaultHWBreakpoints is the hardware breakpoint unit count used when a
// caller does not supply one. The real value is chip-dependent
// (spec.md §9 open question); resolving it via constructor injection
// rather than a hard-coded constant is this package's answer to that
// question.
const DefaultHWBreakpoints = 2

// CommInterface is Component D: the communication interface that
// orchestrates scratch-register save/restore, typed register I/O,
// memory I/O via instruction injection, single-step, reset-and-halt,
// OCD entry/exit and exception diagnostics. It owns one XDM and
// assumes exclusive, single-threaded access for the duration of any
// call (spec.md §5).
type CommInterface struct {
	xdm XDM

	debugLevel      DebugLevel
	hwBreakpointNum int

	saved  *savedRegisters
	halted bool // advisory; ground truth is the XDM

	// exceptionPrint guards against recursive diagnostic gathering
	// when the diagnostics themselves trigger an injected instruction
	// that faults (spec.md §3, §4.2.8).
	exceptionPrint bool
}

// NewCommInterface wraps xdm and performs the construction steps of
// spec.md §4.2.1. debugLevel and hwBreakpoints of zero fall back to
// their documented defaults. On failure the xdm is returned to the
// caller alongside the error, exactly as spec.md requires, so the
// caller can retry or tear the transport down itself.
func NewCommInterface(xdm XDM, debugLevel DebugLevel, hwBreakpoints int) (*CommInterface, XDM, error) {
	if debugLevel == 0 {
		debugLevel = DefaultDebugLevel
	}
	if !debugLevel.valid() {
		return nil, xdm, fmt.Errorf("xtensa: invalid debug level %d, want 2-7", debugLevel)
	}
	if hwBreakpoints <= 0 {
		hwBreakpoints = DefaultHWBreakpoints
	}

	// This first call is the earliest point a dead scan chain or
	// unresponsive probe shows up: no XDM session exists yet to have a
	// protocol-level failure, so a failure here is classified as a
	// transport failure, not an XdmError.
	if _, err := xdm.IsInOCDMode(); err != nil {
		return nil, xdm, &TransportError{Err: err}
	}

	return &CommInterface{
		xdm:             xdm,
		debugLevel:      debugLevel,
		hwBreakpointNum: hwBreakpoints,
		saved:           newSavedRegisters(),
	}, nil, nil
}

// CoreHalted returns the host's advisory belief about halted state.
func (c *CommInterface) CoreHalted() bool { return c.halted }

// EnterOCD requests a debug halt and logs entry. It only queues the
// request -- per spec.md §4.1 Halt() "returns once the request is
// queued (not necessarily halted)" -- so the halted flag is set only
// by a subsequent WaitForCoreHalted, never here. Idempotent while
// already halted.
func (c *CommInterface) EnterOCD() error {
	halted, err := c.xdm.IsHalted()
	if err != nil {
		return &XdmError{Err: err}
	}
	if halted {
		log.Printf("[xtensa] enter ocd: core already halted")
		return nil
	}
	if err := c.xdm.Halt(); err != nil {
		return &XdmError{Err: err}
	}
	log.Printf("[xtensa] entered OCD mode")
	return nil
}

// LeaveOCD restores any saved registers, resumes the core, and clears
// the OCD enable bit.
func (c *CommInterface) LeaveOCD() error {
	if err := c.resumeCore(); err != nil {
		return err
	}
	if err := c.xdm.LeaveOCDMode(); err != nil {
		return &XdmError{Err: err}
	}
	log.Printf("[xtensa] left OCD mode")
	return nil
}

// resumeCore restores saved registers, resumes execution, and clears
// the host's halted flag and the saved-register map atomically. Shared
// by LeaveOCD and the facade's Run.
func (c *CommInterface) resumeCore() error {
	if err := c.restoreAll(); err != nil {
		return err
	}
	if err := c.xdm.Resume(); err != nil {
		return &XdmError{Err: err}
	}
	c.halted = false
	return nil
}

// saveRegister captures r's current value in the saved map on first
// use. It returns a token that restoreRegister treats as a no-op when
// the register was already saved or is on the never-save list
// (spec.md §3, §4.2.2, §9).
func (c *CommInterface) saveRegister(r RegID) (saveToken, error) {
	if r.neverSave() || c.saved.has(r) {
		return saveToken{reg: r, fresh: false}, nil
	}
	v, err := c.readRegister(r)
	if err != nil {
		return saveToken{}, err
	}
	c.saved.vals[r] = v
	c.saved.order = append(c.saved.order, r)
	return saveToken{reg: r, fresh: true}, nil
}

// restoreRegister is a no-op for a token from an already-saved (or
// never-saved) register; otherwise it writes the captured value back
// and drops it from the map.
func (c *CommInterface) restoreRegister(tok saveToken) error {
	if !tok.fresh {
		return nil
	}
	v, ok := c.saved.vals[tok.reg]
	if !ok {
		return nil
	}
	if err := c.writeRegister(tok.reg, v); err != nil {
		return err
	}
	delete(c.saved.vals, tok.reg)
	return nil
}

// restoreAll writes back every captured register and clears the map,
// guaranteeing A3 (the scratch register) restores last per spec.md §3.
func (c *CommInterface) restoreAll() error {
	var a3Val uint32
	haveA3 := false
	a3 := Cpu(3)

	for _, r := range c.saved.order {
		v, ok := c.saved.vals[r]
		if !ok {
			continue
		}
		if r == a3 {
			a3Val, haveA3 = v, true
			continue
		}
		if err := c.writeRegister(r, v); err != nil {
			c.saved.clear()
			return err
		}
	}
	if haveA3 {
		if err := c.writeRegister(a3, a3Val); err != nil {
			c.saved.clear()
			return err
		}
	}
	c.saved.clear()
	return nil
}
