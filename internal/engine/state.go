package engine

// State is everything one conversation changes: how far each rule's reply
// list has rotated and the memory queue. It round-trips through JSON so a
// conversation can be stored and resumed.
type State struct {
	// Rotation holds, per keyword and rule index, how many replies have
	// been used. The current head is Replies[offset % len(Replies)].
	Rotation map[string][]int `json:"rotation,omitempty"`
	// Memory is a queue of batches; Recall pops the last entry of the
	// oldest batch.
	Memory [][]string `json:"memory,omitempty"`
}

// NewState returns an empty conversation state.
func NewState() *State {
	return &State{Rotation: make(map[string][]int)}
}

func (s *State) offset(kw string, rule int) int {
	offsets := s.Rotation[kw]
	if rule < len(offsets) {
		return offsets[rule]
	}
	return 0
}

func (s *State) advance(kw string, rule, n int) {
	if s.Rotation == nil {
		s.Rotation = make(map[string][]int)
	}
	offsets := s.Rotation[kw]
	for len(offsets) <= rule {
		offsets = append(offsets, 0)
	}
	offsets[rule] = wrap(offsets[rule]+1, n)
	s.Rotation[kw] = offsets
}

// wrap maps an offset into [0, n). Stored offsets may come from an
// edited or damaged session row.
func wrap(o, n int) int {
	return ((o % n) + n) % n
}

// PushMemory appends a batch to the queue. Empty batches are ignored.
func (s *State) PushMemory(batch []string) {
	if len(batch) == 0 {
		return
	}
	s.Memory = append(s.Memory, append([]string(nil), batch...))
}

// Recall pops the last entry of the oldest batch, dropping the batch once
// it is empty. It reports false when nothing is remembered.
func (s *State) Recall() (string, bool) {
	for len(s.Memory) > 0 {
		batch := s.Memory[0]
		if len(batch) == 0 {
			s.Memory = s.Memory[1:]
			continue
		}
		text := batch[len(batch)-1]
		batch = batch[:len(batch)-1]
		if len(batch) == 0 {
			s.Memory = s.Memory[1:]
		} else {
			s.Memory[0] = batch
		}
		return text, true
	}
	return "", false
}

// Pending reports how many memory entries are waiting to be recalled.
func (s *State) Pending() int {
	n := 0
	for _, b := range s.Memory {
		n += len(b)
	}
	return n
}

// Clone returns a deep copy.
func (s *State) Clone() *State {
	c := NewState()
	for kw, offsets := range s.Rotation {
		c.Rotation[kw] = append([]int(nil), offsets...)
	}
	for _, b := range s.Memory {
		c.Memory = append(c.Memory, append([]string(nil), b...))
	}
	return c
}

// Reset forgets rotation and memory.
func (s *State) Reset() {
	s.Rotation = make(map[string][]int)
	s.Memory = nil
}
