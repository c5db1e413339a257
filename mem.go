package xtensa

import "encoding/binary"

// This file implements spec.md §4.2.4: memory I/O built on
// LDDR32.P/SDDR32.P, the load/store-with-post-increment primitives, plus
// the unaligned-RMW helper they both fall back to at buffer edges.
//
// Per spec.md §7, a read or write either covers the full requested
// range or fails; there is no partial-success reporting. Per spec.md
// §9's documented caveat, A3 is not forced back to its pre-halt value
// on an error path — only success paths call restoreRegister here,
// matching the open question spec.md leaves unresolved.

// Read reads len(dst) bytes from target memory starting at addr,
// injecting LDDR32.P to walk 32-bit words regardless of alignment.
func (c *CommInterface) Read(addr uint32, dst []byte) error {
	if len(dst) == 0 {
		return nil
	}

	tok, err := c.saveRegister(Cpu(3))
	if err != nil {
		return err
	}

	aligned := addr &^ 3
	if err := c.writeCPURegister(3, aligned); err != nil {
		return err
	}
	if err := c.exec(LDDR32P(3)); err != nil {
		return err
	}

	pos := 0
	off := int(addr % 4)

	if off != 0 {
		n := 4 - off
		if n > len(dst) {
			n = len(dst)
		}
		var word [4]byte
		if off+len(dst) <= 4 {
			v, err := c.readDDRPlain()
			if err != nil {
				return err
			}
			binary.LittleEndian.PutUint32(word[:], v)
			copy(dst, word[off:off+n])
			return c.restoreRegister(tok)
		}
		v, err := c.readDDRExec()
		if err != nil {
			return err
		}
		binary.LittleEndian.PutUint32(word[:], v)
		copy(dst[:n], word[off:off+n])
		pos = n
	}

	remaining := len(dst) - pos
	for remaining > 0 {
		chunk := remaining
		if chunk > 4 {
			chunk = 4
		}
		last := remaining <= 4

		var v uint32
		var err error
		if last {
			v, err = c.readDDRPlain()
		} else {
			v, err = c.readDDRExec()
		}
		if err != nil {
			return err
		}

		var word [4]byte
		binary.LittleEndian.PutUint32(word[:], v)
		copy(dst[pos:pos+chunk], word[:chunk])
		pos += chunk
		remaining -= chunk
	}

	return c.restoreRegister(tok)
}

// Write writes data to target memory starting at addr. A misaligned
// head and the final (< 4 or exactly-4) tail always go through the
// unaligned read-modify-write helper; only a genuinely interior run of
// full words uses the SDDR32.P streaming-store fast path.
func (c *CommInterface) Write(addr uint32, data []byte) error {
	if len(data) == 0 {
		return nil
	}

	cur := addr
	pos := 0

	if cur%4 != 0 {
		off := cur % 4
		n := int(4 - off)
		if n > len(data) {
			n = len(data)
		}
		if err := c.writeMemoryUnaligned8(cur, data[pos:pos+n]); err != nil {
			return err
		}
		pos += n
		cur += uint32(n)
	}

	remaining := len(data) - pos

	if remaining > 4 {
		tok, err := c.saveRegister(Cpu(3))
		if err != nil {
			return err
		}
		if err := c.writeCPURegister(3, cur); err != nil {
			return err
		}
		if err := c.xdm.WriteInstruction(SDDR32P(3)); err != nil {
			return &XdmError{Err: err}
		}
		for remaining > 4 {
			word := binary.LittleEndian.Uint32(data[pos : pos+4])
			if err := c.writeDDRExec(word); err != nil {
				return err
			}
			pos += 4
			cur += 4
			remaining -= 4
		}
		if err := c.restoreRegister(tok); err != nil {
			return err
		}
	}

	if remaining > 0 {
		if err := c.writeMemoryUnaligned8(cur, data[pos:pos+remaining]); err != nil {
			return err
		}
	}

	return nil
}

// writeMemoryUnaligned8 reads the aligned word containing addr, patches
// len(data) bytes at addr's offset into it, and writes the word back
// with a single SDDR32.P. It panics if the patch would cross a word
// boundary -- callers must size each call to fit within one word.
func (c *CommInterface) writeMemoryUnaligned8(addr uint32, data []byte) error {
	off := addr % 4
	if off+uint32(len(data)) > 4 {
		panic("xtensa: unaligned memory patch crosses a word boundary")
	}
	aligned := addr - off

	var word [4]byte
	if err := c.Read(aligned, word[:]); err != nil {
		return err
	}
	copy(word[off:off+uint32(len(data))], data)

	tok, err := c.saveRegister(Cpu(3))
	if err != nil {
		return err
	}
	if err := c.writeCPURegister(3, aligned); err != nil {
		return err
	}
	v := binary.LittleEndian.Uint32(word[:])
	if err := c.writeDDR(v); err != nil {
		return err
	}
	if err := c.exec(SDDR32P(3)); err != nil {
		return err
	}
	return c.restoreRegister(tok)
}

// readDDRPlain drains DDR without triggering re-execution of the
// staged instruction.
func (c *CommInterface) readDDRPlain() (uint32, error) {
	v, err := c.xdm.ReadDDR()
	if err != nil {
		return 0, &XdmError{Err: err}
	}
	return v, nil
}

// readDDRExec atomically reads DDR and triggers re-execution of the
// previously staged instruction, refilling DDR for the next read.
func (c *CommInterface) readDDRExec() (uint32, error) {
	v, err := c.xdm.ReadDDRAndExecute()
	if err != nil {
		return 0, c.handleExecError(err)
	}
	return v, nil
}

// writeDDRExec writes v into DDR and triggers re-execution of the
// staged store instruction.
func (c *CommInterface) writeDDRExec(v uint32) error {
	if err := c.xdm.WriteDDRAndExecute(v); err != nil {
		return c.handleExecError(err)
	}
	return nil
}
