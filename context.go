package rulecore

// ContextFrame holds the data visible to the current scope plus any
// iteration metadata installed by map/filter/reduce/all/some/none (spec
// §3). Frames are pushed and popped only by the built-in iteration
// operators and try, through withFrame, which pops on every return path.
type ContextFrame struct {
	data Value

	hasIndex bool
	index    int64

	hasKey bool
	key    string

	hasCurrent bool
	current    Value

	hasAccumulator bool
	accumulator    Value
}

func newFrame(data Value) ContextFrame {
	return ContextFrame{data: data}
}

// ContextStack is a stack of ContextFrames, innermost (current) on top. A
// fresh stack is built per evaluate call and grows/shrinks as iteration
// operators enter and leave scopes; it is guaranteed to return to its
// original size after evaluation completes, success or failure (spec §4.6,
// §8 "stack discipline").
type ContextStack struct {
	frames []ContextFrame
}

// NewContextStack creates a one-frame stack rooted at data.
func NewContextStack(data Value) *ContextStack {
	return &ContextStack{frames: []ContextFrame{newFrame(data)}}
}

// Push enters a new scope.
func (c *ContextStack) Push(f ContextFrame) {
	c.frames = append(c.frames, f)
}

// Pop leaves the current scope. Callers must pair every Push with exactly
// one Pop, including on error paths (e.g. via defer).
func (c *ContextStack) Pop() {
	c.frames = c.frames[:len(c.frames)-1]
}

// Len reports the current stack depth, used by tests to verify stack
// discipline (spec §8).
func (c *ContextStack) Len() int { return len(c.frames) }

// Current returns the top (innermost) frame.
func (c *ContextStack) Current() *ContextFrame {
	return &c.frames[len(c.frames)-1]
}

// GetAtLevel returns the frame k steps up from current; 0 is current, 1 is
// parent, etc. Both k and -k mean the same distance up (sign is ignored),
// matching the wire format's [[k]] jump notation (spec §3, §4.6).
func (c *ContextStack) GetAtLevel(k int) (*ContextFrame, error) {
	if k < 0 {
		k = -k
	}
	idx := len(c.frames) - 1 - k
	if idx < 0 || idx >= len(c.frames) {
		return nil, errContextLevel(k)
	}
	return &c.frames[idx], nil
}

// GetIndex is the fast path for val(["[k]","index"]): the index metadata
// of the frame k levels up, if present.
func (c *ContextStack) GetIndex(k int) (int64, bool) {
	f, err := c.GetAtLevel(k)
	if err != nil || !f.hasIndex {
		return 0, false
	}
	return f.index, true
}
