package beanio

import (
	"fmt"
	"regexp"
)

// BuildOptions parametrizes Build with the host-supplied pieces the core
// never derives through reflection (§9): PropertyAccessor per bean class and
// TypeHandler overrides beyond the global built-in registry.
type BuildOptions struct {
	// Accessors maps a SegmentConfig/RecordConfig's Class to the
	// PropertyAccessor bean instances of that class bind through.
	Accessors map[string]PropertyAccessor
	// TypeHandlers, if non-nil, chains ahead of GlobalTypeHandlers for this
	// stream (§4.5, per-stream registries).
	TypeHandlers *TypeHandlerRegistry
}

// Build turns a StreamConfig into a runtime Stream: a Tree of Group/Record
// Selectors wired with Segment/Field content trees, PropertyAccessors, and
// resolved TypeHandlers/RecordFormat (§3, "Build(StreamConfig) -> Stream").
//
// It also performs the one build-time validation the teacher's own loader
// never needed for its flat definitions: detecting two Records in the same
// Group whose identifier fields could never disambiguate them, i.e. two
// Records with identical literal-only identifier sets.
func Build(cfg *StreamConfig, opts BuildOptions) (*Stream, error) {
	if opts.Accessors == nil {
		opts.Accessors = map[string]PropertyAccessor{}
	}
	handlers := opts.TypeHandlers
	if handlers == nil {
		handlers = NewTypeHandlerRegistry(GlobalTypeHandlers)
	}

	format, err := NewRecordFormat(cfg)
	if err != nil {
		return nil, err
	}

	tree := NewTree()
	b := &builder{tree: tree, handlers: handlers, accessors: opts.Accessors, format: format}

	rootOrdered := cfg.IsOrdered()
	rootIdx := NewGroup(tree, NoParent, cfg.Name, 0, 1, 1, rootOrdered)
	tree.root = rootIdx
	root := tree.Node(rootIdx).(*Group)

	if err := b.buildGroupChildren(root, &cfg.Root, rootOrdered); err != nil {
		return nil, err
	}

	if err := b.checkAmbiguousIdentifiers(root); err != nil {
		return nil, err
	}

	return &Stream{
		Name:   cfg.Name,
		Mode:   cfg.Mode,
		Tree:   tree,
		Format: format,
	}, nil
}

type builder struct {
	tree      *Tree
	handlers  *TypeHandlerRegistry
	accessors map[string]PropertyAccessor
	format    RecordFormat
}

func (b *builder) accessorFor(class string) PropertyAccessor {
	if a, ok := b.accessors[class]; ok {
		return a
	}
	return MapAccessor{}
}

// buildGroupChildren populates parent (already added to the tree) with
// Groups and Records built from gc, recursing into nested GroupConfig.
func (b *builder) buildGroupChildren(parent *Group, gc *GroupConfig, parentOrdered bool) error {
	ordered := gc.isOrdered(parentOrdered)
	for i := range gc.Groups {
		child := &gc.Groups[i]
		childOrdered := child.isOrdered(ordered)
		idx := NewGroup(b.tree, parent.index, child.Name, child.Order, child.MinOccurs, defaultMax(child.MaxOccurs), childOrdered)
		g := b.tree.Node(idx).(*Group)
		if err := b.buildGroupChildren(g, child, childOrdered); err != nil {
			return err
		}
		parent.AddChild(idx)
	}
	for i := range gc.Records {
		rc := &gc.Records[i]
		idx, err := b.buildRecord(parent.index, rc)
		if err != nil {
			return err
		}
		parent.AddChild(idx)
	}
	return nil
}

func (b *builder) buildRecord(parentIdx NodeIndex, rc *RecordConfig) (NodeIndex, error) {
	accessor := b.accessorFor(rc.Class)
	root, err := b.buildSegment(&rc.Segment, accessor)
	if err != nil {
		return NoParent, err
	}
	idx := NewRecord(b.tree, parentIdx, rc.Name, rc.Order, rc.MinOccurs, defaultMax(rc.MaxOccurs), b.format, root, accessor, rc.MinLength, rc.MaxLength)
	return idx, nil
}

func (b *builder) buildSegment(sc *SegmentConfig, parentAccessor PropertyAccessor) (*Segment, error) {
	accessor := parentAccessor
	if sc.Class != "" {
		accessor = b.accessorFor(sc.Class)
	}
	seg := &Segment{
		Name:         sc.Name,
		PropertyName: sc.Name,
		Accessor:     accessor,
		Collection:   sc.Collection,
		MinOccurs:    sc.MinOccurs,
		MaxOccurs:    defaultMax(sc.MaxOccurs),
		XMLWrapper:   sc.XMLWrapper,
	}

	// seg.XMLWrapper is threaded into each child Field's descriptor here
	// rather than consulted at bind time: a Field addresses its own wrapper
	// element directly (FieldDescriptor.XMLWrapper) so xmlView never needs to
	// walk back up to the owning Segment.
	for i := range sc.Fields {
		f, err := b.buildField(&sc.Fields[i], accessor, seg.XMLWrapper)
		if err != nil {
			return nil, err
		}
		seg.Children = append(seg.Children, f)
	}
	for i := range sc.Segments {
		child, err := b.buildSegment(&sc.Segments[i], accessor)
		if err != nil {
			return nil, err
		}
		seg.Children = append(seg.Children, child)
	}
	for i := range sc.Properties {
		pc := &sc.Properties[i]
		seg.Children = append(seg.Children, &Property{
			Name:         pc.Name,
			PropertyName: pc.Name,
			Value:        pc.Value,
			Accessor:     accessor,
		})
	}
	return seg, nil
}

func (b *builder) buildField(fc *FieldConfig, accessor PropertyAccessor, xmlWrapper string) (*Field, error) {
	handler, err := b.handlers.Resolve(fc.TypeHandler, effectiveType(fc), fc.Format)
	if err != nil {
		return nil, err
	}

	var re *regexp.Regexp
	if fc.Regex != "" {
		re, err = regexp.Compile(fc.Regex)
		if err != nil {
			return nil, ErrMalformedMapping.New(err.Error())
		}
	}

	var padding rune
	if fc.Padding != "" {
		padding = []rune(fc.Padding)[0]
	}

	f := &Field{
		Name:             fc.Name,
		PropertyName:     fc.Name,
		Padding:          padding,
		Justify:          fc.Justify,
		Literal:          fc.Literal,
		Regex:            re,
		Default:          fc.Default,
		Required:         fc.Required,
		Trim:             fc.Trim,
		Nillable:         fc.Nillable,
		RecordIdentifier: fc.RID,
		Truncate:         fc.Truncate,
		Handler:          handler,
		Accessor:         accessor,
		Descriptor: FieldDescriptor{
			Position:   fc.Position,
			Length:     fc.Length,
			Index:      fc.Position,
			HasIndex:   true,
			XMLName:    xmlNameOf(fc),
			XMLType:    effectiveXMLType(fc),
			Nillable:   fc.Nillable,
			XMLWrapper: xmlWrapper,
		},
	}
	return f, nil
}

func effectiveType(fc *FieldConfig) string {
	if fc.Type != "" {
		return fc.Type
	}
	return "string"
}

func xmlNameOf(fc *FieldConfig) string {
	if fc.XMLName != "" {
		return fc.XMLName
	}
	return fc.Name
}

func effectiveXMLType(fc *FieldConfig) XMLFieldType {
	if fc.XMLType != "" {
		return fc.XMLType
	}
	return XMLTypeElement
}

func defaultMax(n int) int {
	if n == 0 {
		return 1
	}
	return n
}

// checkAmbiguousIdentifiers walks every Group in the tree and, within each
// Group's direct Record children at the same Order (any Order, in an
// unordered Group), flags two Records whose identifier fields
// are both literal-only (no regex, no type-dependent parse) and identical —
// such records could never be disambiguated by MatchNextRead regardless of
// input, which the teacher's flat per-file definitions never had to guard
// against (§3.1, supplemented build-time check).
func (b *builder) checkAmbiguousIdentifiers(root *Group) error {
	return b.walkGroups(root)
}

func (b *builder) walkGroups(g *Group) error {
	var records []*Record
	for _, idx := range g.children {
		node := b.tree.Node(idx)
		switch n := node.(type) {
		case *Record:
			records = append(records, n)
		case *Group:
			if err := b.walkGroups(n); err != nil {
				return err
			}
		}
	}
	for i := 0; i < len(records); i++ {
		for j := i + 1; j < len(records); j++ {
			sameOrder := !g.ordered || records[i].Order() == records[j].Order()
			if sameOrder && identifierSignature(records[i]) != "" && identifierSignature(records[i]) == identifierSignature(records[j]) {
				return ErrAmbiguousIdentifier.New(records[i].Order())
			}
		}
	}
	return nil
}

// identifierSignature returns a string uniquely determined by a Record's
// literal identifier fields, or "" if any identifier field is non-literal
// (regex-only or type-parsed), since those can't be compared for equality
// at build time.
func identifierSignature(r *Record) string {
	if len(r.idFields) == 0 {
		return ""
	}
	sig := ""
	for _, f := range r.idFields {
		if f.Literal == "" {
			return ""
		}
		sig += fmt.Sprintf("%s=%s@%d;", f.Descriptor.XMLName, f.Literal, f.Descriptor.Position)
	}
	return sig
}
