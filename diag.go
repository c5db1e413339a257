package xtensa

import (
	"errors"
	"log"
)

// handleExecError implements spec.md §4.2.8: when an injected
// instruction faults, gather diagnostics as a side effect and return
// the original error unmodified. Diagnostics never mask the original
// failure, and a fault raised while gathering diagnostics is caught by
// exceptionPrint rather than recursing.
func (c *CommInterface) handleExecError(err error) error {
	if !errors.Is(err, ErrExecException) {
		// Not an exec fault: transport failures and other XDM errors
		// propagate unmodified, with no diagnostic side effect.
		return err
	}

	if c.exceptionPrint {
		log.Printf("[xtensa] exec exception while already gathering diagnostics, not recursing")
		return err
	}
	c.exceptionPrint = true
	c.printExecException()
	c.exceptionPrint = false

	return err
}

// printExecException clears the sticky EXEC_EXCEPTION bit to re-enable
// injection, then reads and logs EXCCAUSE, EXCVADDR and DEBUGCAUSE.
// Failures here are logged, not returned: this path only ever runs to
// produce diagnostic side effects for an error the caller already has.
func (c *CommInterface) printExecException() {
	if err := c.xdm.ClearExecException(); err != nil {
		log.Printf("[xtensa] diag: clear exec exception failed: %v", err)
		return
	}

	cause, err := c.readSpecialRegister(SRExcCause)
	if err != nil {
		log.Printf("[xtensa] diag: read EXCCAUSE failed: %v", err)
		return
	}
	vaddr, err := c.readSpecialRegister(SRExcVAddr)
	if err != nil {
		log.Printf("[xtensa] diag: read EXCVADDR failed: %v", err)
		return
	}
	dbgCause, err := c.readSpecialRegister(SRDebugCause)
	if err != nil {
		log.Printf("[xtensa] diag: read DEBUGCAUSE failed: %v", err)
		return
	}

	log.Printf("[xtensa] exec exception: EXCCAUSE=%#x EXCVADDR=%#x DEBUGCAUSE=%#x",
		cause, vaddr, dbgCause)
}
