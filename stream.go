package beanio

import (
	"bufio"
	"io"
)

// RecordReader supplies the next raw record's bytes and line number (§4.6,
// the abstraction Stream reads through rather than assuming any one framing).
// ReadRecord returns io.EOF once input is exhausted.
type RecordReader interface {
	ReadRecord() (raw []byte, line int, err error)
}

// RecordWriter accepts one encoded record's raw bytes (§4.6).
type RecordWriter interface {
	Write(raw []byte) error
}

// LineRecordReader is the default RecordReader for delimited/fixed-length
// streams: one physical line is one raw record, grounded directly on the
// teacher's Parser.Parse read loop (bufio.Scanner + bufio.ScanLines).
type LineRecordReader struct {
	scanner *bufio.Scanner
	line    int
}

// NewLineRecordReader wraps r in a line-oriented RecordReader.
func NewLineRecordReader(r io.Reader) *LineRecordReader {
	s := bufio.NewScanner(r)
	s.Split(bufio.ScanLines)
	return &LineRecordReader{scanner: s}
}

func (lr *LineRecordReader) ReadRecord() ([]byte, int, error) {
	if !lr.scanner.Scan() {
		if err := lr.scanner.Err(); err != nil {
			return nil, lr.line, err
		}
		return nil, lr.line, io.EOF
	}
	lr.line++
	buf := make([]byte, len(lr.scanner.Bytes()))
	copy(buf, lr.scanner.Bytes())
	return buf, lr.line, nil
}

// lineRecordWriter is the write-side symmetric counterpart: one record per
// line, newline-terminated.
type lineRecordWriter struct {
	w io.Writer
}

// NewLineRecordWriter wraps w in a line-oriented RecordWriter.
func NewLineRecordWriter(w io.Writer) RecordWriter {
	return &lineRecordWriter{w: w}
}

func (lw *lineRecordWriter) Write(raw []byte) error {
	if _, err := lw.w.Write(raw); err != nil {
		return ErrIO.New(err.Error())
	}
	_, err := lw.w.Write([]byte("\n"))
	if err != nil {
		return ErrIO.New(err.Error())
	}
	return nil
}

// Stream is the runtime product of Build: a parser Tree bound to one
// RecordFormat, ready to drive Reader/Writer sessions (§3).
type Stream struct {
	Name   string
	Mode   Mode
	Tree   *Tree
	Format RecordFormat
}

// NewReader opens a read session over r.
func (s *Stream) NewReader(r io.Reader) *Reader {
	return &Reader{
		stream: s,
		input:  NewLineRecordReader(r),
		ctx:    NewUnmarshallingContext(s.Name),
	}
}

// NewReaderFrom opens a read session over an arbitrary RecordReader (e.g. an
// XML stream reader that frames on element boundaries instead of lines).
func (s *Stream) NewReaderFrom(rr RecordReader) *Reader {
	return &Reader{
		stream: s,
		input:  rr,
		ctx:    NewUnmarshallingContext(s.Name),
	}
}

// NewWriter opens a write session over w.
func (s *Stream) NewWriter(w io.Writer) *Writer {
	writer := NewLineRecordWriter(w)
	return &Writer{
		stream: s,
		ctx:    NewMarshallingContext(s.Name, writer),
	}
}

// Reset zeroes every Selector's occurrence counter, readying the Tree for a
// fresh pass over a new input (§3 lifecycle).
func (s *Stream) Reset() { s.Tree.Reset() }

// Checkpoint snapshots every Selector's occurrence count under namespace
// (§4.6).
func (s *Stream) Checkpoint(namespace string) CheckpointState {
	return SnapshotState(s.Tree, namespace)
}

// Restore replays a prior Checkpoint, failing fast if state is missing an
// entry for any Selector currently in the Tree (§4.6).
func (s *Stream) Restore(namespace string, state CheckpointState) error {
	return RestoreState(s.Tree, namespace, state)
}

// Reader drives raw records from a RecordReader through the Tree, producing
// bound beans and accumulating InvalidRecord reports (§4.1, §4.2).
type Reader struct {
	stream *Stream
	input  RecordReader
	ctx    *UnmarshallingContext
}

// Read consumes the next raw record and returns the bean it was bound to.
// A non-nil invalid report means the record was matched but failed
// validation; bean is still returned as far as it could be populated. A
// record that fails to decode, or that no Selector accepts, also yields a
// non-nil invalid report, with a nil bean. Read
// returns io.EOF once the input is exhausted, after which the caller should
// call Close to check outstanding cardinality requirements.
func (r *Reader) Read() (bean interface{}, invalid *InvalidRecord, err error) {
	raw, line, err := r.input.ReadRecord()
	if err != nil {
		return nil, nil, err
	}

	view, decErr := r.stream.Format.Decode(raw)
	if decErr != nil {
		logger.WithFields(traceFields(r.stream.Name, "", line, "")).
			WithError(decErr).Warn("malformed record")
		return nil, &InvalidRecord{
			Line:         line,
			RecordErrors: []RecordError{{Err: decErr}},
		}, nil
	}
	r.ctx.SetRaw(raw, view, line)

	root := r.stream.Tree.Root()
	matched, err := root.MatchNextRead(r.ctx)
	if err != nil {
		return nil, nil, err
	}
	if matched == nil {
		if any := root.MatchAnyRead(r.ctx); any != nil {
			any.Skip(r.ctx)
			return nil, &InvalidRecord{
				Line:         line,
				RecordErrors: []RecordError{{Err: ErrUnexpectedRecord.New(any.Name())}},
			}, nil
		}
		return nil, &InvalidRecord{
			Line:         line,
			RecordErrors: []RecordError{{Err: ErrNoMatchingSelector.New()}},
		}, nil
	}

	bean = r.ctx.CurrentBean()
	r.ctx.PopBean()
	invalid = r.ctx.recordCompleted()
	return bean, invalid, nil
}

// Close checks the Tree's outstanding minOccurs requirements and returns a
// CardinalityError if any Selector is unsatisfied (§4.1, §7).
func (r *Reader) Close() error {
	return CardinalityError(r.stream.Tree.Close())
}

// Writer drives beans through the Tree, serializing each into a raw record
// via the bound RecordFormat and flushing it to the underlying RecordWriter
// (§4.1, §4.2).
type Writer struct {
	stream *Stream
	ctx    *MarshallingContext
}

// Write dispatches bean to whichever Record's PropertyAccessor defines it,
// encodes it, and flushes the result.
func (w *Writer) Write(bean interface{}) error {
	w.ctx.SetBean(bean)
	root := w.stream.Tree.Root()
	matched, err := root.MatchNextWrite(w.ctx)
	if err != nil {
		return err
	}
	if matched == nil {
		if any := root.MatchAnyWrite(w.ctx); any != nil {
			return ErrRecordTooMany.New(any.Name(), any.Count(), any.MaxOccurs())
		}
		return ErrNoMatchingSelector.New()
	}
	return nil
}

// Close checks the Tree's outstanding minOccurs requirements, the write-side
// counterpart to Reader.Close.
func (w *Writer) Close() error {
	return CardinalityError(w.stream.Tree.Close())
}
