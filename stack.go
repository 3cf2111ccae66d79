package slide2d

/// A growable stack of node indices used for non-recursive tree traversal.
type growableStack struct {
	entries []int
}

func makeGrowableStack() growableStack {
	return growableStack{
		entries: make([]int, 0, 16),
	}
}

func (s *growableStack) Count() int {
	return len(s.entries)
}

func (s *growableStack) Push(value int) {
	s.entries = append(s.entries, value)
}

/// Remove the top element from the stack and return its value.
/// Must not be called on an empty stack.
func (s *growableStack) Pop() int {
	assert(len(s.entries) > 0)
	value := s.entries[len(s.entries)-1]
	s.entries = s.entries[:len(s.entries)-1]
	return value
}
