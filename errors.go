package beanio

import (
	"fmt"
	"strings"

	errors "gopkg.in/src-d/go-errors.v1"
)

// Error kinds form the taxonomy for the parser tree: framing,
// identification, field validation, cardinality, configuration, and fatal
// I/O. Callers test identity with Kind.Is(err) rather than string matching
// or type assertions.
var (
	// Framing
	ErrMalformedRecord = errors.NewKind("malformed record: %s")
	ErrRecordLength    = errors.NewKind("record length %d outside [%d,%d]")

	// Identification
	ErrUnexpectedRecord   = errors.NewKind("unexpected record %q")
	ErrAmbiguousIdentifier = errors.NewKind("ambiguous record identifier among siblings at order %d")
	ErrNoMatchingSelector = errors.NewKind("no selector matches")

	// Field validation
	ErrFieldRequired    = errors.NewKind("required")
	ErrFieldLiteral     = errors.NewKind("expected literal %q, got %q")
	ErrFieldRegex       = errors.NewKind("value %q does not match pattern %q")
	ErrFieldTypeHandler = errors.NewKind("%s")
	ErrFieldTooLong     = errors.NewKind("value exceeds field length %d")
	ErrFieldTooShort    = errors.NewKind("value shorter than field length %d")

	// Cardinality
	ErrRecordTooFew  = errors.NewKind("record %q occurred %d times, minimum is %d")
	ErrRecordTooMany = errors.NewKind("record %q occurred %d times, maximum is %d")
	ErrGroupTooFew   = errors.NewKind("group %q occurred %d times, minimum is %d")
	ErrGroupTooMany  = errors.NewKind("group %q occurred %d times, maximum is %d")

	// Configuration
	ErrMalformedMapping    = errors.NewKind("malformed mapping: %s")
	ErrUnresolvedImport    = errors.NewKind("unresolved import %q")
	ErrCircularImport      = errors.NewKind("circular import detected for resource %q")
	ErrUnknownTypeHandler  = errors.NewKind("unknown type handler %q")
	ErrUnknownRecordFormat = errors.NewKind("unknown record format %q")

	// Fatal I/O
	ErrIO = errors.NewKind("I/O failure: %s")
)

// FieldError is a single field-level validation failure accumulated on a
// context during processing of one record.
type FieldError struct {
	FieldName string
	Err       error
}

// RecordError is a record-level (framing/identification/cardinality) failure.
type RecordError struct {
	Err error
}

// InvalidRecord is the atomic error report exposed after recordCompleted. It
// carries every field error and every record-level error observed while
// processing a single record, in declaration (positional) order.
type InvalidRecord struct {
	RecordName   string
	Line         int
	FieldErrors  []FieldError
	RecordErrors []RecordError
}

func (ir *InvalidRecord) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Invalid record '%s'", ir.RecordName)
	for _, re := range ir.RecordErrors {
		fmt.Fprintf(&b, "\n ==> %s", re.Err.Error())
	}
	for _, fe := range ir.FieldErrors {
		fmt.Fprintf(&b, "\n ==> Invalid '%s':  %s", fe.FieldName, fe.Err.Error())
	}
	return b.String()
}

// HasErrors reports whether any field or record error was accumulated.
func (ir *InvalidRecord) HasErrors() bool {
	return ir != nil && (len(ir.FieldErrors) > 0 || len(ir.RecordErrors) > 0)
}
