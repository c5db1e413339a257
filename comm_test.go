package xtensa

import (
	"errors"
	"testing"
)

func newTestComm(t *testing.T) (*CommInterface, *FakeXDM) {
	t.Helper()
	xdm := NewFakeXDM()
	comm, _, err := NewCommInterface(xdm, 0, 0)
	if err != nil {
		t.Fatalf("NewCommInterface: %v", err)
	}
	return comm, xdm
}

func TestNewCommInterfaceDefaults(t *testing.T) {
	comm, _ := newTestComm(t)
	if comm.debugLevel != DefaultDebugLevel {
		t.Errorf("debugLevel = %d, want %d", comm.debugLevel, DefaultDebugLevel)
	}
	if comm.hwBreakpointNum != DefaultHWBreakpoints {
		t.Errorf("hwBreakpointNum = %d, want %d", comm.hwBreakpointNum, DefaultHWBreakpoints)
	}
}

func TestNewCommInterfaceInvalidDebugLevel(t *testing.T) {
	xdm := NewFakeXDM()
	if _, gotXdm, err := NewCommInterface(xdm, 1, 0); err == nil {
		t.Fatal("expected error for debug level 1")
	} else if gotXdm != xdm {
		t.Error("xdm not returned to caller on construction failure")
	}
}

func TestNewCommInterfaceWrapsProbeFailureAsTransportError(t *testing.T) {
	xdm := NewFakeXDM()
	probeErr := errors.New("scan chain unresponsive")
	xdm.FailOCDModeQuery(probeErr)

	_, gotXdm, err := NewCommInterface(xdm, 0, 0)
	if gotXdm != xdm {
		t.Error("xdm not returned to caller on construction failure")
	}
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("NewCommInterface error = %v (%T), want *TransportError", err, err)
	}
	if !errors.Is(err, probeErr) {
		t.Errorf("error does not unwrap to the original probe error")
	}
}

func TestEnterOCDDoesNotMarkHalted(t *testing.T) {
	comm, xdm := newTestComm(t)
	xdm.halted = false
	if err := comm.EnterOCD(); err != nil {
		t.Fatalf("EnterOCD: %v", err)
	}
	if comm.CoreHalted() {
		t.Error("CoreHalted() = true after EnterOCD, want false until WaitForCoreHalted")
	}
}

func TestSaveRestoreRegisterNesting(t *testing.T) {
	comm, xdm := newTestComm(t)
	xdm.SetAReg(3, 0xAAAAAAAA)

	tok1, err := comm.saveRegister(Cpu(3))
	if err != nil {
		t.Fatalf("saveRegister: %v", err)
	}
	if !tok1.fresh {
		t.Fatal("first saveRegister(a3) should be fresh")
	}

	tok2, err := comm.saveRegister(Cpu(3))
	if err != nil {
		t.Fatalf("saveRegister (nested): %v", err)
	}
	if tok2.fresh {
		t.Fatal("nested saveRegister(a3) should not be fresh")
	}

	// Nested caller clobbers a3 and restores: a no-op since not fresh.
	xdm.SetAReg(3, 0xDEADBEEF)
	if err := comm.restoreRegister(tok2); err != nil {
		t.Fatalf("restoreRegister (nested): %v", err)
	}
	if xdm.AReg(3) != 0xDEADBEEF {
		t.Errorf("a3 = %#x after no-op restore, want unchanged", xdm.AReg(3))
	}

	// Outer restore brings back the original pre-halt value.
	if err := comm.restoreRegister(tok1); err != nil {
		t.Fatalf("restoreRegister (outer): %v", err)
	}
	if xdm.AReg(3) != 0xAAAAAAAA {
		t.Errorf("a3 = %#x after outer restore, want %#x", xdm.AReg(3), 0xAAAAAAAA)
	}
}

func TestRestoreAllRestoresA3Last(t *testing.T) {
	comm, xdm := newTestComm(t)
	xdm.SetAReg(2, 0x11)
	xdm.SetAReg(3, 0x22)

	if _, err := comm.saveRegister(Cpu(2)); err != nil {
		t.Fatalf("saveRegister(a2): %v", err)
	}
	if _, err := comm.saveRegister(Cpu(3)); err != nil {
		t.Fatalf("saveRegister(a3): %v", err)
	}

	xdm.SetAReg(2, 0x99)
	xdm.SetAReg(3, 0x99)

	if err := comm.restoreAll(); err != nil {
		t.Fatalf("restoreAll: %v", err)
	}
	if xdm.AReg(2) != 0x11 {
		t.Errorf("a2 = %#x, want 0x11", xdm.AReg(2))
	}
	if xdm.AReg(3) != 0x22 {
		t.Errorf("a3 = %#x, want 0x22", xdm.AReg(3))
	}
	if len(comm.saved.vals) != 0 || len(comm.saved.order) != 0 {
		t.Error("saved map not cleared after restoreAll")
	}
}
