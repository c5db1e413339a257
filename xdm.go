package xtensa

// Transport is the opaque downward collaborator (spec.md §6): byte-level
// JTAG scan-chain access. Only an XDM implementation touches it; this
// package never calls it directly. It is declared here purely so a
// concrete XDM's constructor can be typed against it in caller code —
// the JTAG TAP state machine itself is out of scope (spec.md §1).
type Transport interface {
	// ScanIR shifts nbits into the instruction register, returning the
	// bits shifted out.
	ScanIR(bits []byte, nbits int) ([]byte, error)
	// ScanDR shifts nbits into the data register, returning the bits
	// shifted out.
	ScanDR(bits []byte, nbits int) ([]byte, error)
	// Close releases the transport.
	Close() error
}

// XDM is the external collaborator contract of spec.md §4.1: low-level
// operations on the Xtensa Debug Module. Every operation either
// succeeds or returns an error; ExecException is the one error kind
// this package gives special handling (diag.go).
type XDM interface {
	Halt() error
	Resume() error
	IsHalted() (bool, error)
	IsInOCDMode() (bool, error)
	LeaveOCDMode() error
	HaltOnReset(enable bool) error
	TargetResetAssert() error
	TargetResetDeassert() error

	ReadDDR() (uint32, error)
	WriteDDR(v uint32) error
	ExecuteInstruction(i Instr) error
	WriteInstruction(i Instr) error
	ReadDDRAndExecute() (uint32, error)
	WriteDDRAndExecute(v uint32) error
	ClearExecException() error
}
