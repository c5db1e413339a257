package xtensa

import (
	"errors"
	"testing"
)

func TestExecExceptionPropagatesUnmodified(t *testing.T) {
	_, xdm := newTestComm(t)
	xdm.FaultNextExec()

	err := xdm.ExecuteInstruction(WSR(3, uint16(SRDDR)))
	if !errors.Is(err, ErrExecException) {
		t.Fatalf("ExecuteInstruction error = %v, want ErrExecException", err)
	}
	if !xdm.ExecFaultSet() {
		t.Error("sticky EXEC_EXCEPTION bit not set after fault")
	}
}

func TestExecExceptionDiagnosticsClearStickyBit(t *testing.T) {
	comm, xdm := newTestComm(t)
	xdm.FaultNextExec()

	_, err := comm.readCPURegister(3)
	if !errors.Is(err, ErrExecException) {
		t.Fatalf("readCPURegister error = %v, want ErrExecException", err)
	}
	if xdm.ExecFaultSet() {
		t.Error("sticky EXEC_EXCEPTION bit still set after diagnostic handling cleared it")
	}
}

func TestHandleExecErrorIgnoresOtherErrors(t *testing.T) {
	comm, _ := newTestComm(t)
	other := errors.New("boom")
	if got := comm.handleExecError(other); got != other {
		t.Errorf("handleExecError(other) = %v, want unchanged %v", got, other)
	}
}

func TestHandleExecErrorDoesNotRecurse(t *testing.T) {
	comm, _ := newTestComm(t)
	comm.exceptionPrint = true
	err := comm.handleExecError(&XdmError{Err: ErrExecException})
	if !errors.Is(err, ErrExecException) {
		t.Fatalf("handleExecError = %v, want ErrExecException", err)
	}
	if !comm.exceptionPrint {
		t.Error("exceptionPrint cleared unexpectedly by a nested call")
	}
}
