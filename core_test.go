package xtensa

import (
	"testing"
	"time"
)

func newTestCore(t *testing.T) (*Core, *FakeXDM) {
	t.Helper()
	comm, xdm := newTestComm(t)
	return NewCore(comm, 0), xdm
}

func TestClassifyDebugCause(t *testing.T) {
	cases := []struct {
		cause uint32
		want  HaltReason
	}{
		{0, Unknown},
		{debugCauseICount, Step},
		{debugCauseIBreak, HwBreakpoint},
		{debugCauseBreak, SwBreakpoint},
		{debugCauseBreakN, SwBreakpoint},
		{debugCauseDBreak, Watchpoint},
		{debugCauseDebugInt, Request},
		{debugCauseICount | debugCauseIBreak, Multiple},
	}
	for _, c := range cases {
		if got := classifyDebugCause(c.cause); got != c.want {
			t.Errorf("classifyDebugCause(%#x) = %v, want %v", c.cause, got, c.want)
		}
	}
}

func TestStatusRunning(t *testing.T) {
	core, xdm := newTestCore(t)
	xdm.halted = false
	status, err := core.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status != Running {
		t.Errorf("Status() = %v, want Running", status)
	}
}

func TestStatusHalted(t *testing.T) {
	core, xdm := newTestCore(t)
	xdm.halted = true
	xdm.SetSpecialReg(SRDebugCause, debugCauseDBreak)
	status, err := core.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status != Watchpoint {
		t.Errorf("Status() = %v, want Watchpoint", status)
	}
}

func TestRunSkipsSoftwareBreakOpcode(t *testing.T) {
	core, xdm := newTestCore(t)
	xdm.halted = true
	xdm.SetSpecialReg(SRDebugCause, debugCauseBreak)
	xdm.SetSpecialReg(core.comm.debugLevel.pc(), 0x40000000)

	if err := core.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	pc := xdm.SpecialRegValue(core.comm.debugLevel.pc())
	if pc != 0x40000003 {
		t.Errorf("PC = %#x after Run past BREAK, want %#x", pc, 0x40000003)
	}
}

func TestRunSkipsBreakNOpcode(t *testing.T) {
	core, xdm := newTestCore(t)
	xdm.halted = true
	xdm.SetSpecialReg(SRDebugCause, debugCauseBreakN)
	xdm.SetSpecialReg(core.comm.debugLevel.pc(), 0x40000000)

	if err := core.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	pc := xdm.SpecialRegValue(core.comm.debugLevel.pc())
	if pc != 0x40000002 {
		t.Errorf("PC = %#x after Run past BREAK.N, want %#x", pc, 0x40000002)
	}
}

func TestRunDoesNotSkipWhenPCAlreadyWritten(t *testing.T) {
	core, xdm := newTestCore(t)
	xdm.halted = true
	xdm.SetSpecialReg(SRDebugCause, debugCauseBreak)

	if err := core.WriteCoreReg(CurrentPC, 0x40001000); err != nil {
		t.Fatalf("WriteCoreReg: %v", err)
	}
	if err := core.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	pc := xdm.SpecialRegValue(core.comm.debugLevel.pc())
	if pc != 0x40001000 {
		t.Errorf("PC = %#x after Run, want unchanged %#x (pc_written should suppress the skip)", pc, 0x40001000)
	}
}

func TestHWBreakpointSlotOutOfRange(t *testing.T) {
	core, _ := newTestCore(t)
	if err := core.SetHWBreakpoint(core.AvailableBreakpointUnits(), 0x1000); err == nil {
		t.Fatal("expected error for out-of-range breakpoint slot")
	}
}

func TestHWBreakpointShadowOnlyWhenDisabled(t *testing.T) {
	core, xdm := newTestCore(t)
	if err := core.SetHWBreakpoint(0, 0x40002000); err != nil {
		t.Fatalf("SetHWBreakpoint: %v", err)
	}
	if xdm.SpecialRegValue(SRIBreakA0) != 0x40002000 {
		t.Errorf("IBREAKA0 = %#x, want %#x", xdm.SpecialRegValue(SRIBreakA0), 0x40002000)
	}
	if xdm.SpecialRegValue(SRIBreakEnable) != 0 {
		t.Errorf("IBREAKENABLE = %#x, want 0 while breakpoints disabled", xdm.SpecialRegValue(SRIBreakEnable))
	}

	if err := core.EnableBreakpoints(true); err != nil {
		t.Fatalf("EnableBreakpoints: %v", err)
	}
	if xdm.SpecialRegValue(SRIBreakEnable) != 1 {
		t.Errorf("IBREAKENABLE = %#x, want 1 after enabling slot 0", xdm.SpecialRegValue(SRIBreakEnable))
	}

	if err := core.ClearHWBreakpoint(0); err != nil {
		t.Fatalf("ClearHWBreakpoint: %v", err)
	}
	if xdm.SpecialRegValue(SRIBreakEnable) != 0 {
		t.Errorf("IBREAKENABLE = %#x, want 0 after clearing the only set slot", xdm.SpecialRegValue(SRIBreakEnable))
	}
}

func TestResetAndHaltClearsPCWritten(t *testing.T) {
	core, xdm := newTestCore(t)
	xdm.halted = true
	if err := core.WriteCoreReg(CurrentPC, 0x40003000); err != nil {
		t.Fatalf("WriteCoreReg: %v", err)
	}
	if err := core.ResetAndHalt(time.Second); err != nil {
		t.Fatalf("ResetAndHalt: %v", err)
	}
	if core.pcWritten {
		t.Error("pcWritten still true after ResetAndHalt")
	}
}
