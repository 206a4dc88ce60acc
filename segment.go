package beanio

// Segment is a logical grouping of fields/beans inside a record, optionally
// bound to a collection property (§3, §4.2).
type Segment struct {
	Name         string
	PropertyName string
	Accessor     PropertyAccessor
	Collection   CollectionKind
	MinOccurs    int
	MaxOccurs    int
	XMLWrapper   string
	Children     []ContentNode
}

// stride reports, over this Segment's direct content (recursing into
// non-repeating nested Segments), how many delimited token slots
// (tokenStride) and how many fixed-length characters (charStride) one
// occurrence consumes. A nested Segment that is itself a collection is not
// recursed into and adds nothing to the stride, so a repeating Segment
// nested inside another repeating Segment is not laid out correctly in a
// flat record.
func (s *Segment) stride() (tokenStride, charStride int) {
	for _, c := range s.Children {
		switch n := c.(type) {
		case *Field:
			tokenStride++
			charStride += n.Descriptor.Length
		case *Segment:
			if n.Collection == CollectionNone {
				t, ch := n.stride()
				tokenStride += t
				charStride += ch
			}
		}
	}
	return
}

// occurrence bundles the three coordinate systems a repeating Segment may
// need to shift a child Field's descriptor by: char position (fixed-length),
// token index (delimited), and a plain occurrence count (XML repeating
// siblings, via FieldDescriptor.Occurrence).
type occurrence struct {
	charShift  int
	tokenShift int
	index      int
}

// occurrencePresent reports whether any Field under s has text available at
// the given occurrence, used to decide whether another repetition exists
// when reading a trailing repeating group from a flat record.
func (s *Segment) occurrencePresent(view RecordView, occ occurrence) bool {
	for _, c := range s.Children {
		switch n := c.(type) {
		case *Field:
			fd := n.shiftedDescriptor(occ.charShift, occ.tokenShift, occ.index)
			if _, present := view.GetText(fd); present {
				return true
			}
		case *Segment:
			if n.occurrencePresent(view, occ) {
				return true
			}
		}
	}
	return false
}

func (s *Segment) unmarshalChildren(ctx *UnmarshallingContext, view RecordView, bean interface{}, occ occurrence) {
	for _, c := range s.Children {
		switch n := c.(type) {
		case *Field:
			n.unmarshalAt(ctx, view, bean, n.shiftedDescriptor(occ.charShift, occ.tokenShift, occ.index))
		case *Segment:
			n.unmarshalIntoShifted(ctx, view, bean, occ)
		case *Property:
			n.UnmarshalInto(ctx, view, bean)
		}
	}
}

func (s *Segment) marshalChildren(ctx *MarshallingContext, view RecordView, bean interface{}, occ occurrence) error {
	for _, c := range s.Children {
		switch n := c.(type) {
		case *Field:
			if err := n.marshalAt(ctx, view, bean, n.shiftedDescriptor(occ.charShift, occ.tokenShift, occ.index)); err != nil {
				return err
			}
		case *Segment:
			if err := n.marshalFromShifted(ctx, view, bean, occ); err != nil {
				return err
			}
		case *Property:
			if err := n.MarshalFrom(ctx, view, bean); err != nil {
				return err
			}
		}
	}
	return nil
}

// UnmarshalInto implements §4.2's Record/Segment composition: a segment
// visits its children in their defined position order, and if bound to a
// collection property, repeats that visitation once per occurrence found in
// the raw record (up to MaxOccurs), appending a fresh bean each time.
func (s *Segment) UnmarshalInto(ctx *UnmarshallingContext, view RecordView, parentBean interface{}) {
	s.unmarshalIntoShifted(ctx, view, parentBean, occurrence{})
}

func (s *Segment) unmarshalIntoShifted(ctx *UnmarshallingContext, view RecordView, parentBean interface{}, base occurrence) {
	if s.Collection == CollectionNone {
		bean := parentBean
		if s.PropertyName != "" {
			bean = s.Accessor.New()
		}
		s.unmarshalChildren(ctx, view, bean, base)
		if s.PropertyName != "" {
			_ = s.Accessor.Set(parentBean, s.PropertyName, bean)
		}
		return
	}

	tokenStride, charStride := s.stride()
	var items []interface{}
	for i := 0; s.MaxOccurs == Unbounded || i < s.MaxOccurs; i++ {
		occ := occurrence{
			charShift:  base.charShift + i*charStride,
			tokenShift: base.tokenShift + i*tokenStride,
			index:      i,
		}
		if !s.occurrencePresent(view, occ) {
			break
		}
		bean := s.Accessor.New()
		s.unmarshalChildren(ctx, view, bean, occ)
		items = append(items, bean)
	}
	_ = s.Accessor.Set(parentBean, s.PropertyName, items)
}

// MarshalFrom is the write-side symmetric composition: it writes the
// Segment's children into view from bean, repeating once per element of a
// bound collection property, subject to MaxOccurs (§4.2).
func (s *Segment) MarshalFrom(ctx *MarshallingContext, view RecordView, parentBean interface{}) error {
	return s.marshalFromShifted(ctx, view, parentBean, occurrence{})
}

func (s *Segment) marshalFromShifted(ctx *MarshallingContext, view RecordView, parentBean interface{}, base occurrence) error {
	if s.Collection == CollectionNone {
		bean := parentBean
		if s.PropertyName != "" {
			v, err := s.Accessor.Get(parentBean, s.PropertyName)
			if err != nil {
				return err
			}
			bean = v
		}
		return s.marshalChildren(ctx, view, bean, base)
	}

	v, err := s.Accessor.Get(parentBean, s.PropertyName)
	if err != nil {
		return err
	}
	items, _ := v.([]interface{})
	tokenStride, charStride := s.stride()
	for i, item := range items {
		if s.MaxOccurs != Unbounded && i >= s.MaxOccurs {
			break
		}
		occ := occurrence{
			charShift:  base.charShift + i*charStride,
			tokenShift: base.tokenShift + i*tokenStride,
			index:      i,
		}
		if err := s.marshalChildren(ctx, view, item, occ); err != nil {
			return err
		}
	}
	return nil
}
