package xtensa

// This file implements spec.md §4.2.3: typed register I/O built on the
// DDR mailbox and a scratch a-register (A3 by convention). readRegister
// and writeRegister are the dispatch points every other register access
// in this package funnels through, including the save/restore protocol
// in comm.go.

// readRegister reads any RegID, dispatching to the CPU or special-
// register protocol and resolving virtual CurrentPC/CurrentPS lazily
// against the interface's configured debug level.
func (c *CommInterface) readRegister(r RegID) (uint32, error) {
	switch r.Kind {
	case KindCPU:
		return c.readCPURegister(r.N)
	case KindSpecial:
		return c.readSpecialRegister(r.Code)
	case KindCurrentPC:
		return c.readSpecialRegister(c.debugLevel.pc())
	case KindCurrentPS:
		return c.readSpecialRegister(c.debugLevel.ps())
	default:
		return 0, ErrRegisterNotAvailable
	}
}

// writeRegister writes any RegID, following the same dispatch as
// readRegister.
func (c *CommInterface) writeRegister(r RegID, v uint32) error {
	switch r.Kind {
	case KindCPU:
		return c.writeCPURegister(r.N, v)
	case KindSpecial:
		return c.writeSpecialRegister(r.Code, v)
	case KindCurrentPC:
		return c.writeSpecialRegister(c.debugLevel.pc(), v)
	case KindCurrentPS:
		return c.writeSpecialRegister(c.debugLevel.ps(), v)
	default:
		return ErrRegisterNotAvailable
	}
}

// readCPURegister reads a-register n: WSR a_n -> DDR; read DDR.
func (c *CommInterface) readCPURegister(n uint8) (uint32, error) {
	if err := c.exec(WSR(n, uint16(SRDDR))); err != nil {
		return 0, err
	}
	v, err := c.xdm.ReadDDR()
	if err != nil {
		return 0, &XdmError{Err: err}
	}
	return v, nil
}

// writeCPURegister writes a-register n: DDR = v; RSR DDR -> a_n.
func (c *CommInterface) writeCPURegister(n uint8, v uint32) error {
	if err := c.writeDDR(v); err != nil {
		return err
	}
	return c.exec(RSR(uint16(SRDDR), n))
}

// readSpecialRegister reads special register s via scratch A3:
// save A3; RSR s -> A3; read A3 (as a CPU register); restore A3.
func (c *CommInterface) readSpecialRegister(s SpecialReg) (uint32, error) {
	tok, err := c.saveRegister(Cpu(3))
	if err != nil {
		return 0, err
	}
	if err := c.exec(RSR(uint16(s), 3)); err != nil {
		c.restoreRegister(tok)
		return 0, err
	}
	v, err := c.readCPURegister(3)
	if rerr := c.restoreRegister(tok); rerr != nil && err == nil {
		err = rerr
	}
	if err != nil {
		return 0, err
	}
	return v, nil
}

// writeSpecialRegister writes special register s <- v via scratch A3:
// save A3; DDR = v; RSR DDR -> A3; WSR A3 -> s; restore A3.
func (c *CommInterface) writeSpecialRegister(s SpecialReg, v uint32) error {
	tok, err := c.saveRegister(Cpu(3))
	if err != nil {
		return err
	}
	if err := c.writeDDR(v); err != nil {
		c.restoreRegister(tok)
		return err
	}
	if err := c.exec(RSR(uint16(SRDDR), 3)); err != nil {
		c.restoreRegister(tok)
		return err
	}
	if err := c.exec(WSR(3, uint16(s))); err != nil {
		c.restoreRegister(tok)
		return err
	}
	return c.restoreRegister(tok)
}

// exec injects i and, on ErrExecException, runs the diagnostic
// collection of spec.md §4.2.8 before returning the original error
// unmodified.
func (c *CommInterface) exec(i Instr) error {
	if err := c.xdm.ExecuteInstruction(i); err != nil {
		return c.handleExecError(err)
	}
	return nil
}

// writeDDR stages a word into DDR, wrapping transport/xdm failures.
func (c *CommInterface) writeDDR(v uint32) error {
	if err := c.xdm.WriteDDR(v); err != nil {
		return &XdmError{Err: err}
	}
	return nil
}
