package less

import "log/slog"

// Frame is one scope in the environment stack: a variable store, an
// optional associated block, the selector list active at this nesting
// level, positional arguments bound for "@arguments", and the
// cycle-detection set used by reduce's variable resolution.
//
// StoreParent is the secondary outward chain a mixin carries from its
// declaration site (§3.3/§4.1 "scope capture"): when a mixin block is
// called, the call site pushes a frame whose StoreParent points at the
// mixin's Block.Scope, so names the mixin body references but the call
// site doesn't define still resolve against where the mixin was written,
// not just where it was called.
type Frame struct {
	Parent      *Frame
	StoreParent *Frame

	Store     map[string]Value
	Block     *Block
	Selectors []string
	// Queries holds the multiplied @media query list active at this
	// frame, set only on frames pushed for a BlockMedia.
	Queries   []string
	Arguments []Value

	seenNames map[string]bool

	// Imports maps an import prop's id to its resolved import record, once
	// resolution has completed for this frame's nesting level. Only the
	// frame the @import prop was compiled in needs an entry; nested frames
	// look outward through Parent.
	Imports map[uint64]*importRecord
}

// NewFrame allocates a frame enclosed by parent (nil for the root frame).
func NewFrame(parent *Frame) *Frame {
	return &Frame{
		Parent: parent,
		Store:  make(map[string]Value),
	}
}

// Push returns a new frame nested under f, associated with block (may be
// nil).
func (f *Frame) Push(block *Block) *Frame {
	child := NewFrame(f)
	child.Block = block

	return child
}

// Set binds name to v in this frame.
func (f *Frame) Set(name string, v Value) {
	f.Store[name] = v
}

// Get resolves name by walking the primary parent chain first; any
// StoreParent encountered along that walk is queued and, only if the name
// isn't found on the primary chain, each queued chain is walked in FIFO
// order (also enqueuing further StoreParents it encounters), per §4.1.
func (f *Frame) Get(name string) (Value, bool) {
	if name == "@arguments" {
		if args, ok := f.getArguments(); ok {
			return args, true
		}
	}

	var queue []*Frame

	for cur := f; cur != nil; cur = cur.Parent {
		if v, ok := cur.Store[name]; ok {
			return v, true
		}

		if cur.StoreParent != nil {
			queue = append(queue, cur.StoreParent)
		}
	}

	for i := 0; i < len(queue); i++ {
		for cur := queue[i]; cur != nil; cur = cur.Parent {
			if v, ok := cur.Store[name]; ok {
				return v, true
			}

			if cur.StoreParent != nil {
				queue = append(queue, cur.StoreParent)
			}
		}
	}

	return nil, false
}

// getArguments returns the first "arguments" slice found walking the same
// chain order as Get.
func (f *Frame) getArguments() (Value, bool) {
	var queue []*Frame

	for cur := f; cur != nil; cur = cur.Parent {
		if cur.Arguments != nil {
			return List{Delim: " ", Items: cur.Arguments}, true
		}

		if cur.StoreParent != nil {
			queue = append(queue, cur.StoreParent)
		}
	}

	for i := 0; i < len(queue); i++ {
		for cur := queue[i]; cur != nil; cur = cur.Parent {
			if cur.Arguments != nil {
				return List{Delim: " ", Items: cur.Arguments}, true
			}

			if cur.StoreParent != nil {
				queue = append(queue, cur.StoreParent)
			}
		}
	}

	return nil, false
}

// StartSeen marks name as being actively resolved in this frame, for
// self-referential-cycle detection across a single reduce of a variable.
// It reports false (and leaves state unchanged) if name is already being
// resolved, the caller's signal to raise "infinite variable recursion".
func (f *Frame) StartSeen(name string) bool {
	if f.seenNames == nil {
		f.seenNames = make(map[string]bool)
	}

	if f.seenNames[name] {
		return false
	}

	f.seenNames[name] = true

	return true
}

// EndSeen clears the in-progress marker set by StartSeen. Called whether
// or not the nested reduce succeeded, so sibling references to the same
// name don't trip a false-positive cycle.
func (f *Frame) EndSeen(name string) {
	delete(f.seenNames, name)
}

// LogValue implements slog.LogValuer so frames can be logged cheaply
// without dumping their full variable store.
func (f *Frame) LogValue() slog.Value {
	blockID := uint64(0)
	if f.Block != nil {
		blockID = f.Block.ID
	}

	return slog.GroupValue(
		slog.Int("vars", len(f.Store)),
		slog.Uint64("block", blockID),
		slog.Bool("has-store-parent", f.StoreParent != nil),
	)
}
