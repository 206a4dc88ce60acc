package beanio

// Record is a leaf Selector: a single physical record definition (§3/§4.1).
type Record struct {
	base

	format   RecordFormat
	root     *Segment
	accessor PropertyAccessor

	minLength int
	maxLength int

	// idFields are the Segment-tree fields flagged RecordIdentifier,
	// collected at Build() time so matching never needs to re-walk the tree.
	idFields []*Field
}

// NewRecord allocates a Record in tree and returns its index.
func NewRecord(tree *Tree, parent NodeIndex, name string, order, minOccurs, maxOccurs int, format RecordFormat, root *Segment, accessor PropertyAccessor, minLength, maxLength int) NodeIndex {
	r := &Record{
		base: base{
			tree:        tree,
			parentIndex: parent,
			name:        name,
			order:       order,
			minOccurs:   minOccurs,
			maxOccurs:   maxOccurs,
		},
		format:    format,
		root:      root,
		accessor:  accessor,
		minLength: minLength,
		maxLength: maxLength,
	}
	r.idFields = collectIdentifierFields(root, nil)
	idx := tree.add(r)
	r.index = idx
	return idx
}

func collectIdentifierFields(seg *Segment, out []*Field) []*Field {
	if seg == nil {
		return out
	}
	for _, child := range seg.Children {
		switch n := child.(type) {
		case *Field:
			if n.RecordIdentifier {
				out = append(out, n)
			}
		case *Segment:
			out = collectIdentifierFields(n, out)
		}
	}
	return out
}

func (r *Record) IsGroup() bool { return false }

// identifies reports whether view's identifier fields all parse and equal
// their declared literal/regex, per §4.1's Record matching rule.
func (r *Record) identifies(view RecordView) bool {
	for _, f := range r.idFields {
		text, present := view.GetText(f.Descriptor)
		if !present {
			return false
		}
		if f.Trim {
			text = trimASCII(text)
		}
		if f.Literal != "" && text != f.Literal {
			return false
		}
		if f.Regex != nil && !f.Regex.MatchString(text) {
			return false
		}
		if f.Literal == "" && f.Regex == nil {
			// A rid field with neither literal nor regex still must parse
			// cleanly through its TypeHandler to participate in matching.
			if f.Handler != nil {
				if _, err := f.Handler.Parse(text); err != nil {
					return false
				}
			}
		}
	}
	return true
}

// MatchNextRead implements the Record matching rule (§4.1): the
// RecordFormat's Validate step must accept the raw record, and every
// recordIdentifier field must match. On match, recordStarted fires, count++,
// the Segment is fully unmarshalled, and the bound bean is left in ctx's bean
// stack for the caller to read back; the caller fires recordCompleted.
func (r *Record) MatchNextRead(ctx *UnmarshallingContext) (Selector, error) {
	raw := ctx.Raw()
	if err := r.format.Validate(raw, r.minLength, r.maxLength); err != nil {
		return nil, nil
	}
	view := ctx.View()
	if !r.identifies(view) {
		return nil, nil
	}

	// Identification succeeded: this Record owns the current raw record
	// regardless of maxOccurs, so a breach is reported as record-too-many
	// rather than mistaken for "no match" (which would let a Group look past
	// this position or misclassify the record as unexpected).
	ctx.recordStarted(r.name)
	if r.isMaxOccursReached() {
		ctx.addRecordError(ErrRecordTooMany.New(r.name, r.count, r.maxOccurs))
		return r, nil
	}

	r.count++
	bean := r.accessor.New()
	if seg := r.root; seg != nil {
		seg.UnmarshalInto(ctx, view, bean)
	}
	ctx.PushBean(bean)
	return r, nil
}

// MatchNextWrite reports whether ctx's bean belongs to this Record's bound
// variant (§4.1, "Property.defines(bean)"), serializing it into a fresh
// RecordView on match.
func (r *Record) MatchNextWrite(ctx *MarshallingContext) (Selector, error) {
	if r.isMaxOccursReached() {
		return nil, nil
	}
	bean := ctx.Bean()
	if !r.accessor.Defines(bean) {
		return nil, nil
	}
	r.count++
	view := r.format.NewView()
	if seg := r.root; seg != nil {
		if err := seg.MarshalFrom(ctx, view, bean); err != nil {
			return nil, err
		}
	}
	ctx.SetView(view)
	raw, err := r.format.Encode(view)
	if err != nil {
		return nil, err
	}
	if err := ctx.writeRecord(raw); err != nil {
		return nil, err
	}
	return r, nil
}

// MatchAnyRead returns this Record if its identifier pattern matches,
// ignoring ordering and maxOccurs, for error-recovery classification.
func (r *Record) MatchAnyRead(ctx *UnmarshallingContext) Selector {
	if err := r.format.Validate(ctx.Raw(), r.minLength, r.maxLength); err != nil {
		return nil
	}
	if r.identifies(ctx.View()) {
		return r
	}
	return nil
}

// MatchAnyWrite returns this Record if it would have accepted ctx's bean,
// ignoring maxOccurs (ADDED, §4.1).
func (r *Record) MatchAnyWrite(ctx *MarshallingContext) Selector {
	if r.accessor.Defines(ctx.Bean()) {
		return r
	}
	return nil
}

// Skip records the event without binding: logical position advances (not
// tracked per-Record beyond count) but count itself is not incremented.
func (r *Record) Skip(ctx *UnmarshallingContext) {
	ctx.recordSkipped()
}

// Close returns this Record if count < minOccurs, else nil (§4.1, §7
// record-too-few).
func (r *Record) Close() Selector {
	if !r.satisfiesMin() {
		return r
	}
	return nil
}

func (r *Record) Reset() { r.count = 0 }

func (r *Record) IsMaxOccursReached() bool { return r.isMaxOccursReached() }

func trimASCII(s string) string {
	start, end := 0, len(s)
	for start < end && isASCIISpace(s[start]) {
		start++
	}
	for end > start && isASCIISpace(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isASCIISpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\v' || b == '\f'
}
