package beanio

// Group is a Selector that contains an ordered or unordered set of child
// Selectors (Group or Record), §3/§4.1.
type Group struct {
	base
	ordered  bool
	children []NodeIndex
	pos      int // cursor into the ascending sequence of distinct Order values
}

// NewGroup allocates a Group in tree and returns its index.
func NewGroup(tree *Tree, parent NodeIndex, name string, order, minOccurs, maxOccurs int, ordered bool) NodeIndex {
	g := &Group{
		base: base{
			tree:        tree,
			parentIndex: parent,
			name:        name,
			order:       order,
			minOccurs:   minOccurs,
			maxOccurs:   maxOccurs,
		},
		ordered: ordered,
	}
	idx := tree.add(g)
	g.index = idx
	return idx
}

// AddChild appends a child Selector index, in declaration order.
func (g *Group) AddChild(idx NodeIndex) { g.children = append(g.children, idx) }

func (g *Group) IsGroup() bool { return true }

// orderedPositions returns the distinct Order values among children, in
// ascending order, computed freshly each call since children never change
// after Build().
func (g *Group) orderedPositions() []int {
	seen := make(map[int]bool)
	var out []int
	for _, idx := range g.children {
		o := g.tree.Node(idx).Order()
		if !seen[o] {
			seen[o] = true
			out = append(out, o)
		}
	}
	// insertion sort; child counts are small (mapping files are hand-authored)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

func (g *Group) childrenAt(order int) []NodeIndex {
	var out []NodeIndex
	for _, idx := range g.children {
		if g.tree.Node(idx).Order() == order {
			out = append(out, idx)
		}
	}
	return out
}

// MatchNextRead implements the Group matching rule (§4.1): ordered groups
// try children at the current cursor position in declaration order; the
// first non-nil match wins. If none match and every child at the cursor has
// satisfied minOccurs, the cursor advances and the attempt repeats;
// otherwise the match fails. Unordered groups try every child regardless of
// cursor.
//
// A Group's count is its number of occurrences, not of records matched: the
// first record it matches starts its occurrence, and because the cursor never
// wraps back to the first position, a Group occurs at most once between
// Resets.
func (g *Group) MatchNextRead(ctx *UnmarshallingContext) (Selector, error) {
	if g.count == 0 && g.isMaxOccursReached() {
		return nil, nil
	}
	if !g.ordered {
		for _, idx := range g.children {
			child := g.tree.Node(idx)
			sel, err := child.MatchNextRead(ctx)
			if err != nil {
				return nil, err
			}
			if sel != nil {
				g.count = 1
				return sel, nil
			}
		}
		return nil, nil
	}

	positions := g.orderedPositions()
	for g.pos < len(positions) {
		order := positions[g.pos]
		for _, idx := range g.childrenAt(order) {
			child := g.tree.Node(idx)
			sel, err := child.MatchNextRead(ctx)
			if err != nil {
				return nil, err
			}
			if sel != nil {
				g.count = 1
				return sel, nil
			}
		}
		// No child at this position matched. Advance only if every child at
		// this position has satisfied its minOccurs; otherwise the group as a
		// whole fails to match (ordering forbids looking further ahead).
		allSatisfied := true
		for _, idx := range g.childrenAt(order) {
			child := g.tree.Node(idx)
			if child.Count() < child.MinOccurs() {
				allSatisfied = false
				break
			}
		}
		if !allSatisfied {
			return nil, nil
		}
		g.pos++
	}
	return nil, nil
}

// MatchNextWrite is the write-side symmetric match: does ctx's bean belong
// to a child of this Group?
func (g *Group) MatchNextWrite(ctx *MarshallingContext) (Selector, error) {
	if g.count == 0 && g.isMaxOccursReached() {
		return nil, nil
	}
	for _, idx := range g.children {
		child := g.tree.Node(idx)
		sel, err := child.MatchNextWrite(ctx)
		if err != nil {
			return nil, err
		}
		if sel != nil {
			g.count = 1
			return sel, nil
		}
	}
	return nil, nil
}

// MatchAnyRead returns any descendant Record whose identifier pattern
// matches, ignoring ordering, for error-recovery classification (§4.1).
func (g *Group) MatchAnyRead(ctx *UnmarshallingContext) Selector {
	for _, idx := range g.children {
		if sel := g.tree.Node(idx).MatchAnyRead(ctx); sel != nil {
			return sel
		}
	}
	return nil
}

// MatchAnyWrite is MatchAnyRead's write-side counterpart (ADDED, §4.1).
func (g *Group) MatchAnyWrite(ctx *MarshallingContext) Selector {
	for _, idx := range g.children {
		if sel := g.tree.Node(idx).MatchAnyWrite(ctx); sel != nil {
			return sel
		}
	}
	return nil
}

// Skip records the event without binding, delegating down to whichever
// child would have matched.
func (g *Group) Skip(ctx *UnmarshallingContext) {
	for _, idx := range g.children {
		if sel := g.tree.Node(idx).MatchAnyRead(ctx); sel != nil {
			sel.Skip(ctx)
			return
		}
	}
}

// Close propagates down children in document order and returns the first
// unsatisfied descendant, else nil if the Group itself and every descendant
// is satisfied (§4.1).
func (g *Group) Close() Selector {
	for _, idx := range g.children {
		if sel := g.tree.Node(idx).Close(); sel != nil {
			return sel
		}
	}
	if !g.satisfiesMin() {
		return g
	}
	return nil
}

// Reset recursively zeroes this Group's and every descendant's counters.
func (g *Group) Reset() {
	g.count = 0
	g.pos = 0
	for _, idx := range g.children {
		g.tree.Node(idx).Reset()
	}
}

func (g *Group) IsMaxOccursReached() bool { return g.isMaxOccursReached() }
