package engine

// Frame is one undo record. It is either a MoveFrame or a PushFrame.
type Frame interface {
	// Before returns the player as it was before the recorded move.
	Before() Player
	frame()
}

// MoveFrame records a move that relocated only the player.
type MoveFrame struct {
	Player Player
}

// PushFrame records a move that also pushed a box; Boxes is the full box list
// from before the push.
type PushFrame struct {
	Player Player
	Boxes  []Box
}

func (f MoveFrame) Before() Player { return f.Player }
func (f PushFrame) Before() Player { return f.Player }

func (MoveFrame) frame() {}
func (PushFrame) frame() {}

// History is a persistent stack of frames. A nil *History is the empty stack.
// Push and Pop never modify the receiver, so states that share a history tail
// stay independent.
type History struct {
	top   Frame
	below *History
	depth int
}

// Push returns a new stack with f on top.
func (h *History) Push(f Frame) *History {
	return &History{top: f, below: h, depth: h.Len() + 1}
}

// Pop returns the top frame and the remaining stack. ok is false on an empty
// stack.
func (h *History) Pop() (f Frame, rest *History, ok bool) {
	if h == nil {
		return nil, nil, false
	}
	return h.top, h.below, true
}

// Peek returns the top frame without removing it.
func (h *History) Peek() (Frame, bool) {
	if h == nil {
		return nil, false
	}
	return h.top, true
}

// Len returns the number of frames.
func (h *History) Len() int {
	if h == nil {
		return 0
	}
	return h.depth
}

// Frames returns the frames oldest first.
func (h *History) Frames() []Frame {
	frames := make([]Frame, h.Len())
	for i, n := len(frames)-1, h; n != nil; i, n = i-1, n.below {
		frames[i] = n.top
	}
	return frames
}

// HistoryOf builds a stack from frames given oldest first.
func HistoryOf(frames []Frame) *History {
	var h *History
	for _, f := range frames {
		h = h.Push(f)
	}
	return h
}

// undo pops one frame and restores the player and, for pushes, the boxes.
func undo(s *State) *State {
	if s.Status != Ready {
		return s
	}
	f, rest, ok := s.History.Pop()
	if !ok {
		return s
	}

	next := s.with()
	next.History = rest
	switch f := f.(type) {
	case MoveFrame:
		next.Player = f.Player
	case PushFrame:
		next.Player = f.Player
		next.Boxes = f.Boxes
	}
	return next
}
