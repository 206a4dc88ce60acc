package beanio

import (
	"fmt"
	"sync"
)

// FieldDescriptor locates a Field's raw text within a RecordView. Each
// RecordFormat reads only the members relevant to it: Position for
// fixed-length, Index for delimited, XMLName/XMLType/Nillable for XML.
type FieldDescriptor struct {
	Position int // fixed-length character offset
	Length   int // fixed-length field length
	Index    int // delimited token index
	HasIndex bool

	XMLName  string
	XMLType  XMLFieldType
	Nillable bool
	// Occurrence selects the nth sibling element sharing XMLName, used only
	// by the XML RecordFormat to bind repeating elements (§4.2, collection
	// binding applied to XML's naturally repeating-sibling shape).
	Occurrence int
	// XMLWrapper names the enclosing Segment's wrapper element. It is read
	// only when XMLType is XMLTypeNested: the field binds against a child of
	// that wrapper element instead of directly against the record's own
	// element (§3, "nesting is permitted only in XML").
	XMLWrapper string
}

// RecordView is a format-typed, decoded view of one raw record. Fields read
// and write through it instead of touching raw bytes directly; Segments bind
// repeating (collection) children by shifting each Field's descriptor, not by
// deriving offset views.
type RecordView interface {
	// GetText returns the text at fd, and whether it was present at all
	// (false for "past EOL"/missing, distinct from present-but-empty).
	GetText(fd FieldDescriptor) (text string, present bool)
	// SetText writes text at fd.
	SetText(fd FieldDescriptor, text string)
	// WithOffset returns a view of the same underlying record for offset n.
	// The delimited, fixed-length and XML views all return themselves
	// unchanged, and Segment does not call it.
	WithOffset(n int) RecordView
}

// RecordFormat is a format-specific record-framing codec (§4.4): delimited,
// fixed-length, or XML, each a small state machine around Validate/Decode/
// Encode.
type RecordFormat interface {
	Name() string
	// Validate checks record framing (length range for fixed-length,
	// well-formedness for delimited/XML) without fully decoding.
	Validate(raw []byte, minLength, maxLength int) error
	// Decode parses raw into a RecordView Fields can read from.
	Decode(raw []byte) (RecordView, error)
	// Encode serializes a RecordView (built up by Fields during marshal)
	// back into raw bytes.
	Encode(view RecordView) ([]byte, error)
	// NewView returns an empty, writable RecordView for marshalling.
	NewView() RecordView
}

// RecordFormatUnmarshalFunc is a registered factory turning a raw
// StreamConfig (and sub-config) into a concrete RecordFormat, continuing the
// teacher's "registry of unmarshal funcs keyed by name" idiom
// (RecordReaderRegistry in the teacher).
type RecordFormatUnmarshalFunc func(cfg *StreamConfig) (RecordFormat, error)

var (
	recordFormatRegistryMu sync.RWMutex
	recordFormatRegistry   = make(map[string]RecordFormatUnmarshalFunc)
)

// RegisterRecordFormat registers a RecordFormat factory under name, the way
// delimited.go/fixedwidth.go/xmlformat.go each do in their init().
func RegisterRecordFormat(name string, fn RecordFormatUnmarshalFunc) {
	recordFormatRegistryMu.Lock()
	defer recordFormatRegistryMu.Unlock()
	recordFormatRegistry[name] = fn
}

// NewRecordFormat resolves and constructs the RecordFormat named by
// cfg.Format.
func NewRecordFormat(cfg *StreamConfig) (RecordFormat, error) {
	recordFormatRegistryMu.RLock()
	fn, ok := recordFormatRegistry[cfg.Format]
	recordFormatRegistryMu.RUnlock()
	if !ok {
		return nil, ErrUnknownRecordFormat.New(cfg.Format)
	}
	f, err := fn(cfg)
	if err != nil {
		return nil, fmt.Errorf("beanio: building record format %q: %w", cfg.Format, err)
	}
	return f, nil
}
