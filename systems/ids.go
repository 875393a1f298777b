package systems

// IDSequence hands out increasing identifiers starting at 1.
// Each simulation owns its sequences; there is no process-wide counter.
type IDSequence struct {
	last uint64
}

// Next returns the next identifier.
func (s *IDSequence) Next() uint64 {
	s.last++
	return s.last
}

// Last returns the most recently issued identifier, or 0.
func (s *IDSequence) Last() uint64 { return s.last }
