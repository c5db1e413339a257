package xtensa

import "time"

// pollInterval is the ~1ms cadence spec.md §4.2.7 and §5 describe for
// polling is_halted().
const pollInterval = time.Millisecond

// knownGoodPS is the processor state spec.md §4.2.6 step 6 establishes
// after a reset-and-halt: WOE set, CALLINC=0, INTLEVEL=1, suitable for
// subsequently running debugger-injected code.
const knownGoodPS uint32 = 0x40021

// WaitForCoreHalted implements spec.md §4.2.7: poll is_halted() at
// ~1ms cadence until true or timeout elapses. On success it sets the
// host's halted flag and forces INTLEVEL low (clears the low 4 bits of
// PS, ORs in 1) so that subsequent injected exceptions are actually
// delivered regardless of the core's prior interrupt-priority
// configuration.
func (c *CommInterface) WaitForCoreHalted(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		halted, err := c.xdm.IsHalted()
		if err != nil {
			return &XdmError{Err: err}
		}
		if halted {
			c.halted = true
			return c.forceIntLevelLow()
		}
		if time.Now().After(deadline) {
			return ErrTimeout
		}
		time.Sleep(pollInterval)
	}
}

// forceIntLevelLow clears PS's low 4 bits (INTLEVEL) and sets bit 0,
// per spec.md §4.2.7.
func (c *CommInterface) forceIntLevelLow() error {
	ps, err := c.readRegister(CurrentPS)
	if err != nil {
		return err
	}
	ps = (ps &^ 0xF) | 1
	return c.writeRegister(CurrentPS, ps)
}

// ResetAndHalt implements spec.md §4.2.6: assert reset, arm
// halt-on-reset, deassert reset, wait for the halt with the caller's
// timeout, disarm halt-on-reset, then establish a known-good PS.
func (c *CommInterface) ResetAndHalt(timeout time.Duration) error {
	if err := c.xdm.TargetResetAssert(); err != nil {
		return &XdmError{Err: err}
	}
	if err := c.xdm.HaltOnReset(true); err != nil {
		return &XdmError{Err: err}
	}
	if err := c.xdm.TargetResetDeassert(); err != nil {
		return &XdmError{Err: err}
	}
	if err := c.WaitForCoreHalted(timeout); err != nil {
		return err
	}
	if err := c.xdm.HaltOnReset(false); err != nil {
		return &XdmError{Err: err}
	}
	return c.writeRegister(CurrentPS, knownGoodPS)
}
