package xtensa

import "time"

// stepWaitTimeout is the short bound spec.md §4.2.5 and §5 give a
// single step: the core should halt again almost immediately once
// ICOUNT overflows.
const stepWaitTimeout = 100 * time.Millisecond

// SingleStep arms the ICOUNT/ICOUNTLEVEL mechanism for exactly one
// instruction, resumes, waits for the resulting halt, then disarms
// further stepping.
func (c *CommInterface) SingleStep() error {
	if err := c.writeSpecialRegister(SRICountLevel, uint32(c.debugLevel)); err != nil {
		return err
	}
	// 0xFFFFFFFE (-2 as uint32): ICOUNT overflows after exactly one
	// instruction retires.
	if err := c.writeSpecialRegister(SRICount, 0xFFFFFFFE); err != nil {
		return err
	}
	if err := c.resumeCore(); err != nil {
		return err
	}
	if err := c.WaitForCoreHalted(stepWaitTimeout); err != nil {
		return err
	}
	// Disarm: place the counter above any debug level the core could
	// reach, so it cannot overflow again until rearmed.
	return c.writeSpecialRegister(SRICount, uint32(c.debugLevel)+1)
}
