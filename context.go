package beanio

import "fmt"

// UnmarshallingContext carries per-record read-side state across the
// depth-first traversal of the parser tree (§4.6): the raw record's
// format-typed view, current line/record number, current record name, a
// field-error multimap and a record-error list, a bean stack for nested
// segments, and a state map for snapshot/restore.
type UnmarshallingContext struct {
	streamName string

	view RecordView
	raw  []byte

	line       int
	recordName string

	fieldErrors  []FieldError
	recordErrors []RecordError

	beanStack []interface{}

	state map[string]string
}

// NewUnmarshallingContext creates an empty context for streamName.
func NewUnmarshallingContext(streamName string) *UnmarshallingContext {
	return &UnmarshallingContext{
		streamName: streamName,
		state:      make(map[string]string),
	}
}

// SetRaw installs the next raw record and its decoded view, ready for the
// root Selector to consume via matchNext/matchAny/skip.
func (c *UnmarshallingContext) SetRaw(raw []byte, view RecordView, line int) {
	c.raw = raw
	c.view = view
	c.line = line
}

// View returns the current record's decoded view.
func (c *UnmarshallingContext) View() RecordView { return c.view }

// Raw returns the current record's undecoded bytes.
func (c *UnmarshallingContext) Raw() []byte { return c.raw }

// Line returns the current line/record number.
func (c *UnmarshallingContext) Line() int { return c.line }

// recordStarted resets the per-record error accumulators and records the
// record name, per §4.2.
func (c *UnmarshallingContext) recordStarted(name string) {
	c.recordName = name
	c.fieldErrors = nil
	c.recordErrors = nil
}

// addFieldError accumulates a field-level validation failure. Unmarshalling
// continues after this call — errors are surfaced atomically at
// recordCompleted (§4.2, §7).
func (c *UnmarshallingContext) addFieldError(fieldName string, err error) {
	c.fieldErrors = append(c.fieldErrors, FieldError{FieldName: fieldName, Err: err})
}

// addRecordError accumulates a record-level (framing/identification/
// cardinality) failure.
func (c *UnmarshallingContext) addRecordError(err error) {
	c.recordErrors = append(c.recordErrors, RecordError{Err: err})
}

// HasFieldErrors reports whether any field error was accumulated for the
// current record.
func (c *UnmarshallingContext) HasFieldErrors() bool { return len(c.fieldErrors) > 0 }

// HasRecordErrors reports whether any record-level error was accumulated for
// the current record.
func (c *UnmarshallingContext) HasRecordErrors() bool { return len(c.recordErrors) > 0 }

// recordCompleted produces the atomic InvalidRecord report for the record
// just processed, or nil if no errors were accumulated.
func (c *UnmarshallingContext) recordCompleted() *InvalidRecord {
	if !c.HasFieldErrors() && !c.HasRecordErrors() {
		return nil
	}
	ir := &InvalidRecord{
		RecordName:   c.recordName,
		Line:         c.line,
		FieldErrors:  c.fieldErrors,
		RecordErrors: c.recordErrors,
	}
	c.fieldErrors = nil
	c.recordErrors = nil
	return ir
}

// recordSkipped clears any per-record state without producing a report, the
// counterpart to a Selector's skip().
func (c *UnmarshallingContext) recordSkipped() {
	c.fieldErrors = nil
	c.recordErrors = nil
}

// PushBean pushes the bean currently being populated by a nested segment.
func (c *UnmarshallingContext) PushBean(bean interface{}) { c.beanStack = append(c.beanStack, bean) }

// PopBean pops the most recently pushed bean.
func (c *UnmarshallingContext) PopBean() {
	if len(c.beanStack) > 0 {
		c.beanStack = c.beanStack[:len(c.beanStack)-1]
	}
}

// CurrentBean returns the bean on top of the stack, or nil if empty.
func (c *UnmarshallingContext) CurrentBean() interface{} {
	if len(c.beanStack) == 0 {
		return nil
	}
	return c.beanStack[len(c.beanStack)-1]
}

// snapshotKey formats the checkpoint key "<namespace>.<selectorName>.count"
// described in §4.6 and §6.
func snapshotKey(namespace, selectorName string) string {
	return fmt.Sprintf("%s.%s.count", namespace, selectorName)
}

// MarshallingContext carries per-record write-side state (§4.6): the current
// outbound bean, a target buffer per format, and a writeRecord operation
// that flushes the buffer to the downstream writer and clears it.
type MarshallingContext struct {
	streamName string

	bean interface{}
	view RecordView

	writer  RecordWriter
	pending []byte

	state map[string]string
}

// NewMarshallingContext creates an empty context for streamName writing
// through w.
func NewMarshallingContext(streamName string, w RecordWriter) *MarshallingContext {
	return &MarshallingContext{
		streamName: streamName,
		writer:     w,
		state:      make(map[string]string),
	}
}

// SetBean installs the next outbound bean for the root Selector to dispatch.
func (c *MarshallingContext) SetBean(bean interface{}) { c.bean = bean }

// Bean returns the outbound bean currently being dispatched.
func (c *MarshallingContext) Bean() interface{} { return c.bean }

// SetView installs the RecordView the matched Record is serializing into.
func (c *MarshallingContext) SetView(v RecordView) { c.view = v }

// View returns the RecordView currently being populated.
func (c *MarshallingContext) View() RecordView { return c.view }

// writeRecord flushes the buffer to the downstream RecordWriter and clears
// the context regardless of outcome (§4.2).
func (c *MarshallingContext) writeRecord(raw []byte) error {
	defer func() {
		c.bean = nil
		c.view = nil
		c.pending = nil
	}()
	if c.writer == nil {
		return ErrIO.New("no RecordWriter configured")
	}
	return c.writer.Write(raw)
}
