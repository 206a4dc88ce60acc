package beanio

// NodeIndex is an arena index into a Tree, replacing an owning parent
// pointer (§9, "Cyclic parent-child tree pointers"): a Selector holds the
// index of its parent rather than a Go pointer back up the tree, so the
// tree itself owns all allocation and there is no reference cycle for the
// garbage collector to reason about.
type NodeIndex int

// NoParent marks the root Selector, which has no parent.
const NoParent NodeIndex = -1

// Selector is the contract shared by Group and Record (§4.1): the runtime
// state machine choosing which child consumes the next record on read, or
// which child a bean belongs to on write.
type Selector interface {
	Name() string
	Order() int
	MinOccurs() int
	MaxOccurs() int
	Count() int
	Index() NodeIndex
	ParentIndex() NodeIndex
	IsGroup() bool

	// MatchNextRead advances the state machine one record when the next raw
	// record has already been peeked into ctx. Returns the terminal Record
	// that consumed it, or nil if this Selector cannot accept it.
	MatchNextRead(ctx *UnmarshallingContext) (Selector, error)
	// MatchNextWrite is the write-side symmetric match: does the bean in ctx
	// belong to a child of this Selector?
	MatchNextWrite(ctx *MarshallingContext) (Selector, error)
	// MatchAnyRead is the relaxed match used in error recovery: returns any
	// Record whose identifier pattern matches, even if ordering would
	// otherwise forbid it.
	MatchAnyRead(ctx *UnmarshallingContext) Selector
	// MatchAnyWrite is MatchAnyRead's write-side symmetric counterpart
	// (added, §4.1): reports which Record would have accepted ctx's bean had
	// maxOccurs allowed it, for write-side diagnostics.
	MatchAnyWrite(ctx *MarshallingContext) Selector
	// Skip records the event without binding, incrementing logical position
	// but not count.
	Skip(ctx *UnmarshallingContext)
	// Close is the finalization check: returns a Selector whose minOccurs is
	// unsatisfied, else nil.
	Close() Selector
	// Reset recursively zeroes occurrence counters.
	Reset()
	// IsMaxOccursReached reports count >= maxOccurs.
	IsMaxOccursReached() bool

	setCount(n int)
}

// base holds the fields common to Group and Record.
type base struct {
	tree        *Tree
	index       NodeIndex
	parentIndex NodeIndex
	name        string
	order       int
	minOccurs   int
	maxOccurs   int
	count       int
}

func (b *base) Name() string          { return b.name }
func (b *base) Order() int            { return b.order }
func (b *base) MinOccurs() int        { return b.minOccurs }
func (b *base) MaxOccurs() int        { return b.maxOccurs }
func (b *base) Count() int            { return b.count }
func (b *base) Index() NodeIndex      { return b.index }
func (b *base) ParentIndex() NodeIndex { return b.parentIndex }
func (b *base) setCount(n int)        { b.count = n }

func (b *base) isMaxOccursReached() bool {
	return b.maxOccurs != Unbounded && b.count >= b.maxOccurs
}

func (b *base) satisfiesMin() bool {
	return b.count >= b.minOccurs
}

// Tree is the arena owning every Selector in one Stream's parser tree.
// Parent/child relationships are expressed as NodeIndex values into Tree,
// never as Go pointers back up the tree.
type Tree struct {
	nodes []Selector
	root  NodeIndex
}

// NewTree creates an empty arena.
func NewTree() *Tree {
	return &Tree{root: NoParent}
}

// Node returns the Selector at idx.
func (t *Tree) Node(idx NodeIndex) Selector {
	if idx == NoParent {
		return nil
	}
	return t.nodes[idx]
}

// Root returns the tree's root Selector (always a Group).
func (t *Tree) Root() Selector { return t.Node(t.root) }

func (t *Tree) add(s Selector) NodeIndex {
	t.nodes = append(t.nodes, s)
	return NodeIndex(len(t.nodes) - 1)
}

// Reset recursively zeroes every Selector's occurrence counter (§3,
// lifecycle: "reset() which clears all occurrence counters depth-first").
func (t *Tree) Reset() {
	for _, n := range t.nodes {
		n.Reset()
	}
}

// Close runs the root Selector's finalization check.
func (t *Tree) Close() Selector {
	if t.Root() == nil {
		return nil
	}
	return t.Root().Close()
}

// CardinalityError builds the §7 cardinality error matching sel's kind
// (Group vs Record) and current state. Returns nil if sel is nil.
func CardinalityError(sel Selector) error {
	if sel == nil {
		return nil
	}
	if sel.IsGroup() {
		return ErrGroupTooFew.New(sel.Name(), sel.Count(), sel.MinOccurs())
	}
	return ErrRecordTooFew.New(sel.Name(), sel.Count(), sel.MinOccurs())
}
