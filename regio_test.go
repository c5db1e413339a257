package xtensa

import "testing"

func TestCPURegisterRoundTrip(t *testing.T) {
	comm, _ := newTestComm(t)
	if err := comm.writeCPURegister(4, 0x12345678); err != nil {
		t.Fatalf("writeCPURegister: %v", err)
	}
	got, err := comm.readCPURegister(4)
	if err != nil {
		t.Fatalf("readCPURegister: %v", err)
	}
	if got != 0x12345678 {
		t.Errorf("readCPURegister(4) = %#x, want %#x", got, 0x12345678)
	}
}

func TestSpecialRegisterRoundTrip(t *testing.T) {
	comm, _ := newTestComm(t)
	if err := comm.writeRegister(Special(SRExcVAddr), 0xCAFEBABE); err != nil {
		t.Fatalf("writeRegister: %v", err)
	}
	got, err := comm.readRegister(Special(SRExcVAddr))
	if err != nil {
		t.Fatalf("readRegister: %v", err)
	}
	if got != 0xCAFEBABE {
		t.Errorf("readRegister(EXCVADDR) = %#x, want %#x", got, 0xCAFEBABE)
	}
}

func TestSpecialRegisterRoundTripPreservesScratch(t *testing.T) {
	comm, xdm := newTestComm(t)
	xdm.SetAReg(3, 0x5555AAAA)

	if err := comm.writeRegister(Special(SRExcCause), 7); err != nil {
		t.Fatalf("writeRegister: %v", err)
	}
	if xdm.AReg(3) != 0x5555AAAA {
		t.Errorf("a3 = %#x after writeRegister, want unchanged %#x", xdm.AReg(3), 0x5555AAAA)
	}

	got, err := comm.readRegister(Special(SRExcCause))
	if err != nil {
		t.Fatalf("readRegister: %v", err)
	}
	if got != 7 {
		t.Errorf("readRegister(EXCCAUSE) = %d, want 7", got)
	}
	if xdm.AReg(3) != 0x5555AAAA {
		t.Errorf("a3 = %#x after readRegister, want unchanged %#x", xdm.AReg(3), 0x5555AAAA)
	}
}

func TestCurrentPCPSResolveByDebugLevel(t *testing.T) {
	comm, xdm := newTestComm(t)
	xdm.SetSpecialReg(comm.debugLevel.pc(), 0x40000100)
	xdm.SetSpecialReg(comm.debugLevel.ps(), 0x00060020)

	pc, err := comm.readRegister(CurrentPC)
	if err != nil {
		t.Fatalf("readRegister(CurrentPC): %v", err)
	}
	if pc != 0x40000100 {
		t.Errorf("CurrentPC = %#x, want %#x", pc, 0x40000100)
	}

	if err := comm.writeRegister(CurrentPS, 0x40021); err != nil {
		t.Fatalf("writeRegister(CurrentPS): %v", err)
	}
	if xdm.SpecialRegValue(comm.debugLevel.ps()) != 0x40021 {
		t.Errorf("EPSk = %#x, want 0x40021", xdm.SpecialRegValue(comm.debugLevel.ps()))
	}
}
