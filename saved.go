package xtensa

// savedRegisters is the map described in spec.md §3/§9: captured
// pre-halt values of registers the host has temporarily overwritten,
// restored before resume. DDR, ICOUNT and ICOUNTLEVEL can never appear
// in it. A3 is always restored last (see CommInterface.restoreAll).
type savedRegisters struct {
	vals map[RegID]uint32
	// order records the sequence registers were first saved in, so
	// restoreAll can replay it and still guarantee a3 goes last.
	order []RegID
}

func newSavedRegisters() *savedRegisters {
	return &savedRegisters{vals: make(map[RegID]uint32)}
}

func (s *savedRegisters) has(r RegID) bool {
	_, ok := s.vals[r]
	return ok
}

// saveToken is the opaque capability §4.2.2 describes: returned by
// save, consumed by restore. A token for a register that was already
// present (or on the never-save list) carries fresh=false and makes
// restore a no-op, so nested operations can request the same scratch
// register without double-saving or double-restoring it.
type saveToken struct {
	reg   RegID
	fresh bool
}

// clear empties the map atomically, as spec.md §3 requires happens on
// resume once registers are restored.
func (s *savedRegisters) clear() {
	s.vals = make(map[RegID]uint32)
	s.order = nil
}
