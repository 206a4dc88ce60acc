package beanio

import (
	"encoding/json"
	"fmt"
)

// Unbounded marks an unbounded maxOccurs, the Go rendition of the mapping
// file's `unbounded` maxOccurs literal (§6).
const Unbounded = -1

// Mode constrains which half of the engine a Stream may exercise (§3).
type Mode string

const (
	ModeRead      Mode = "read"
	ModeWrite     Mode = "write"
	ModeReadWrite Mode = "readwrite"
)

// Justify selects left/right padding for a fixed-length or padded field
// (§6, field/justify).
type Justify string

const (
	JustifyLeft  Justify = "left"
	JustifyRight Justify = "right"
)

// XMLFieldType selects how a field's value is carried in an XML record
// (§4.4): attribute, element text, or a nested element.
type XMLFieldType string

const (
	XMLTypeAttribute XMLFieldType = "attribute"
	XMLTypeElement   XMLFieldType = "element"
	XMLTypeNested    XMLFieldType = "nested"
)

// CollectionKind selects how a repeated Segment binds into a property: none
// (single value) or a collection (§6, segment/bean/collection). A Segment
// binds both CollectionSlice and CollectionMap as a []interface{} of item
// beans; no map is built.
type CollectionKind string

const (
	CollectionNone  CollectionKind = ""
	CollectionSlice CollectionKind = "slice"
	CollectionMap   CollectionKind = "map"
)

// StreamConfig is the root configuration-tree node for one `stream` mapping
// element (§6). It is the immutable description Build() turns into a runtime
// parser tree.
type StreamConfig struct {
	Name           string       `json:"name" yaml:"name"`
	Format         string       `json:"format" yaml:"format"` // delimited | fixed | csv | xml
	Mode           Mode         `json:"mode" yaml:"mode"`
	Ordered        *bool        `json:"ordered,omitempty" yaml:"ordered,omitempty"` // default true
	ResourceBundle string       `json:"resourceBundle,omitempty" yaml:"resourceBundle,omitempty"`
	MinOccurs      int          `json:"minOccurs,omitempty" yaml:"minOccurs,omitempty"`
	MaxOccurs      int          `json:"maxOccurs,omitempty" yaml:"maxOccurs,omitempty"`
	XMLName        string       `json:"xmlName,omitempty" yaml:"xmlName,omitempty"`
	XMLNamespace   string       `json:"xmlNamespace,omitempty" yaml:"xmlNamespace,omitempty"`
	XMLPrefix      string       `json:"xmlPrefix,omitempty" yaml:"xmlPrefix,omitempty"`
	XMLType        XMLFieldType `json:"xmlType,omitempty" yaml:"xmlType,omitempty"`

	// Format-specific framing options, applicable when Format selects them.
	Delimiter string `json:"delimiter,omitempty" yaml:"delimiter,omitempty"`
	Escape    string `json:"escape,omitempty" yaml:"escape,omitempty"`
	Quote     string `json:"quote,omitempty" yaml:"quote,omitempty"`
	// Encoding names a golang.org/x/text/encoding charset ("" means UTF-8) to
	// transcode raw record bytes at the RecordFormat boundary (§4.4).
	Encoding string `json:"encoding,omitempty" yaml:"encoding,omitempty"`

	Root GroupConfig `json:"root" yaml:"root"`
}

// IsOrdered returns the effective ordered flag, defaulting to true.
func (s *StreamConfig) IsOrdered() bool {
	if s.Ordered == nil {
		return true
	}
	return *s.Ordered
}

// GroupConfig mirrors the `group` mapping element (§6) plus the root Group
// implicit in `stream`.
type GroupConfig struct {
	Name      string         `json:"name" yaml:"name"`
	Order     int            `json:"order,omitempty" yaml:"order,omitempty"`
	MinOccurs int            `json:"minOccurs,omitempty" yaml:"minOccurs,omitempty"`
	MaxOccurs int            `json:"maxOccurs,omitempty" yaml:"maxOccurs,omitempty"`
	Ordered   *bool          `json:"ordered,omitempty" yaml:"ordered,omitempty"`
	XMLName   string         `json:"xmlName,omitempty" yaml:"xmlName,omitempty"`
	Groups    []GroupConfig  `json:"groups,omitempty" yaml:"groups,omitempty"`
	Records   []RecordConfig `json:"records,omitempty" yaml:"records,omitempty"`
}

func (g *GroupConfig) isOrdered(parentOrdered bool) bool {
	if g.Ordered == nil {
		return parentOrdered
	}
	return *g.Ordered
}

// RecordConfig mirrors the `record` mapping element (§6).
type RecordConfig struct {
	Name      string `json:"name" yaml:"name"`
	Order     int    `json:"order,omitempty" yaml:"order,omitempty"`
	MinOccurs int    `json:"minOccurs,omitempty" yaml:"minOccurs,omitempty"`
	MaxOccurs int    `json:"maxOccurs,omitempty" yaml:"maxOccurs,omitempty"`
	MinLength int    `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength int    `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Class     string `json:"class,omitempty" yaml:"class,omitempty"`
	XMLName   string `json:"xmlName,omitempty" yaml:"xmlName,omitempty"`

	Segment SegmentConfig `json:"segment" yaml:"segment"`
}

// SegmentConfig mirrors the `segment`/`bean` mapping elements (§6). A
// SegmentConfig with Class set and no further Fields/Segments/Properties
// (other than the collection/getter/setter attrs) plays the role of `bean`.
type SegmentConfig struct {
	Name       string           `json:"name,omitempty" yaml:"name,omitempty"`
	Class      string           `json:"class,omitempty" yaml:"class,omitempty"`
	Getter     string           `json:"getter,omitempty" yaml:"getter,omitempty"`
	Setter     string           `json:"setter,omitempty" yaml:"setter,omitempty"`
	Collection CollectionKind   `json:"collection,omitempty" yaml:"collection,omitempty"`
	MinOccurs  int              `json:"minOccurs,omitempty" yaml:"minOccurs,omitempty"`
	MaxOccurs  int              `json:"maxOccurs,omitempty" yaml:"maxOccurs,omitempty"`
	XMLWrapper string           `json:"xmlWrapper,omitempty" yaml:"xmlWrapper,omitempty"`
	Nillable   bool             `json:"nillable,omitempty" yaml:"nillable,omitempty"`
	Fields     []FieldConfig    `json:"fields,omitempty" yaml:"fields,omitempty"`
	Segments   []SegmentConfig  `json:"segments,omitempty" yaml:"segments,omitempty"`
	Properties []PropertyConfig `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// FieldConfig mirrors the `field` mapping element (§6).
type FieldConfig struct {
	Name       string       `json:"name" yaml:"name"`
	Getter     string       `json:"getter,omitempty" yaml:"getter,omitempty"`
	Setter     string       `json:"setter,omitempty" yaml:"setter,omitempty"`
	Collection string       `json:"collection,omitempty" yaml:"collection,omitempty"`
	Position   int          `json:"position" yaml:"position"`
	MinLength  int          `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength  int          `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Regex      string       `json:"regex,omitempty" yaml:"regex,omitempty"`
	Literal    string       `json:"literal,omitempty" yaml:"literal,omitempty"`
	TypeHandler string      `json:"typeHandler,omitempty" yaml:"typeHandler,omitempty"`
	Type       string       `json:"type,omitempty" yaml:"type,omitempty"`
	Format     string       `json:"format,omitempty" yaml:"format,omitempty"`
	Default    string       `json:"default,omitempty" yaml:"default,omitempty"`
	Required   bool         `json:"required,omitempty" yaml:"required,omitempty"`
	Trim       bool         `json:"trim,omitempty" yaml:"trim,omitempty"`
	RID        bool         `json:"rid,omitempty" yaml:"rid,omitempty"`
	Ignore     bool         `json:"ignore,omitempty" yaml:"ignore,omitempty"`
	Length     int          `json:"length,omitempty" yaml:"length,omitempty"`
	Padding    string       `json:"padding,omitempty" yaml:"padding,omitempty"`
	Justify    Justify      `json:"justify,omitempty" yaml:"justify,omitempty"`
	Truncate   bool         `json:"truncate,omitempty" yaml:"truncate,omitempty"`
	Nillable   bool         `json:"nillable,omitempty" yaml:"nillable,omitempty"`
	XMLName    string       `json:"xmlName,omitempty" yaml:"xmlName,omitempty"`
	XMLType    XMLFieldType `json:"xmlType,omitempty" yaml:"xmlType,omitempty"`
}

// PropertyConfig mirrors the constant `property` mapping element (§6).
type PropertyConfig struct {
	Name  string      `json:"name" yaml:"name"`
	Type  string      `json:"type,omitempty" yaml:"type,omitempty"`
	Value interface{} `json:"value" yaml:"value"`
}

// TypeHandlerConfig mirrors the `typeHandler` mapping element (§6).
type TypeHandlerConfig struct {
	Name       string            `json:"name" yaml:"name"`
	Type       string            `json:"type,omitempty" yaml:"type,omitempty"`
	Class      string            `json:"class,omitempty" yaml:"class,omitempty"`
	Format     string            `json:"format,omitempty" yaml:"format,omitempty"`
	Properties map[string]string `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// ImportScheme is the recognized scheme prefix set for `import` elements
// (§6); a missing scheme is a fatal configuration error.
type ImportScheme string

const (
	SchemeClasspath ImportScheme = "classpath:"
	SchemeFile      ImportScheme = "file:"
)

// ImportConfig mirrors the `import` mapping element (§6).
type ImportConfig struct {
	Resource string `json:"resource" yaml:"resource"`
}

// Scheme extracts the recognized scheme prefix from Resource, or an error if
// none of the recognized schemes prefix it.
func (i ImportConfig) Scheme() (ImportScheme, string, error) {
	for _, s := range []ImportScheme{SchemeClasspath, SchemeFile} {
		if len(i.Resource) > len(s) && i.Resource[:len(s)] == string(s) {
			return s, i.Resource[len(s):], nil
		}
	}
	return "", "", fmt.Errorf("import resource %q has no recognized scheme (classpath: or file:)", i.Resource)
}

// DecodeStreamConfigJSON is the JSON convenience decoder for a StreamConfig,
// for tests and embedding. It performs no schema validation — the
// schema-validated mapping-file loader remains out of scope.
func DecodeStreamConfigJSON(data []byte) (*StreamConfig, error) {
	var cfg StreamConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, ErrMalformedMapping.New(err.Error())
	}
	return &cfg, nil
}
