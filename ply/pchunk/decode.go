package pchunk

import (
	"bytes"

	"github.com/iancoleman/orderedmap"
	"github.com/pkg/errors"

	"plystream/ply/pheader"
	"plystream/ply/prow"
	"plystream/ply/pshape"
	"plystream/ply/pvalue"
)

// Reader is the chunked driver. Feed it bytes as they arrive and pull
// records out; calls never block, they either make progress or report
// that more bytes are needed. A Reader owns its buffer and cursor and
// is not safe for concurrent use.
type Reader struct {
	buf        []byte
	start      int
	header     *pheader.Header
	shapes     map[string]*pshape.Shape
	maxListLen uint64
	element    int
	remaining  uint64
	decoder    *prow.Decoder
	partial    prow.Partial
	rows       *pshape.RowVisitor
}

func NewReader() *Reader {
	return &Reader{
		shapes:     map[string]*pshape.Shape{},
		maxListLen: pvalue.MaxListLen,
		rows:       pshape.NewRowVisitor(),
	}
}

// SetShape binds a record shape to every element with the given name.
// Must be called before that element's records are decoded; by default
// elements decode with their identity shape.
func (r *Reader) SetShape(element string, shape *pshape.Shape) {
	r.shapes[element] = shape
}

// SetMaxListLen tunes the list-length safety cap.
func (r *Reader) SetMaxListLen(n uint64) {
	r.maxListLen = n
}

// Feed appends a chunk to the buffer. Once all declared records have
// been delivered further chunks are ignored. A malformed header fails
// here as soon as the offending line is present.
func (r *Reader) Feed(bs []byte) error {
	if r.done() {
		return nil
	}
	r.buf = append(r.buf, bs...)
	return r.ensureHeader()
}

// Header returns the parsed header, or nil while more bytes are
// needed.
func (r *Reader) Header() *pheader.Header {
	return r.header
}

// CurrentElement returns the element the cursor is on, or nil before
// the header completes or after the last element drains.
func (r *Reader) CurrentElement() *pheader.Element {
	if r.header == nil || r.element >= len(r.header.Elements) {
		return nil
	}
	return &r.header.Elements[r.element]
}

// TryNextRecord decodes one record if the buffer holds a complete one.
// (nil, nil) means more bytes are needed, or the current element is
// drained and awaits AdvanceToNextElement.
func (r *Reader) TryNextRecord() (*orderedmap.OrderedMap, error) {
	ok, err := r.DecodeNextInto(r.rows)
	if err != nil || !ok {
		return nil, err
	}
	return r.rows.Row(), nil
}

// TryNextBatch decodes up to max records of the current element,
// stopping at the first incomplete one. An empty batch means more
// bytes are needed, or the current element is drained and awaits
// AdvanceToNextElement.
func (r *Reader) TryNextBatch(max int) ([]*orderedmap.OrderedMap, error) {
	batch := make([]*orderedmap.OrderedMap, 0, max)
	for len(batch) < max {
		row, err := r.TryNextRecord()
		if err != nil {
			return nil, err
		}
		if row == nil {
			break
		}
		batch = append(batch, row)
	}
	return batch, nil
}

// DecodeNextInto drives a caller-supplied visitor over the next
// complete record. It reports false without error when more bytes are
// needed or the current element is drained.
func (r *Reader) DecodeNextInto(visitor pshape.Visitor) (bool, error) {
	if err := r.ensureHeader(); err != nil {
		return false, err
	}
	if r.header == nil || r.remaining == 0 {
		return false, nil
	}

	if r.header.Format == pheader.FormatASCII {
		terminator := bytes.IndexByte(r.buf[r.start:], '\n')
		if terminator < 0 {
			return false, nil
		}
		line := r.buf[r.start : r.start+terminator]
		if err := r.decoder.DecodeASCII(line, visitor); err != nil {
			return false, err
		}
		r.consume(terminator + 1)
		r.remaining--
		return true, nil
	}

	size, complete, err := r.decoder.MeasureBinary(r.buf[r.start:], &r.partial)
	if err != nil {
		return false, err
	}
	if !complete {
		return false, nil
	}
	consumed, err := r.decoder.DecodeBinary(r.buf[r.start:r.start+size], visitor)
	if err != nil {
		return false, err
	}
	r.consume(consumed)
	r.remaining--
	return true, nil
}

// AdvanceToNextElement moves the cursor to the next declared element.
// It fails while the current element still has records to deliver.
func (r *Reader) AdvanceToNextElement() error {
	if r.header == nil {
		return errors.New("AdvanceToNextElement error: header not complete")
	}
	if r.remaining > 0 {
		return ElementNotFinishedError{
			Element:   r.header.Elements[r.element].Name,
			Remaining: r.remaining,
		}
	}
	if r.element >= len(r.header.Elements) {
		return nil
	}
	r.element++
	return r.initElement()
}

// Finish declares the buffered bytes final and reports what, if
// anything, the stream still owed.
func (r *Reader) Finish() error {
	if err := r.ensureHeader(); err != nil {
		return err
	}
	if r.header == nil {
		return TruncatedHeaderError{}
	}
	if r.remaining > 0 {
		element := r.header.Elements[r.element]
		return TruncatedBodyError{
			Element:  element.Name,
			Expected: element.Count,
			Received: element.Count - r.remaining,
		}
	}
	undelivered := []string{}
	for i := r.element + 1; i < len(r.header.Elements); i++ {
		if r.header.Elements[i].Count > 0 {
			undelivered = append(undelivered, r.header.Elements[i].Name)
		}
	}
	if len(undelivered) > 0 {
		return MissingElementsError{Remaining: undelivered}
	}
	return nil
}

func (r *Reader) ensureHeader() error {
	if r.header != nil {
		return nil
	}
	header, consumed, err := pheader.TryParse(r.buf[r.start:])
	if err != nil {
		return err
	}
	if header == nil {
		return nil
	}
	r.header = header
	r.consume(consumed)
	r.element = 0
	return r.initElement()
}

func (r *Reader) initElement() error {
	if r.element >= len(r.header.Elements) {
		r.remaining = 0
		r.decoder = nil
		return nil
	}
	element := r.header.Elements[r.element]
	shape, ok := r.shapes[element.Name]
	if !ok {
		shape = pshape.FromElement(element)
	}
	decoder, err := prow.NewDecoder(element, shape, r.header.Format, r.maxListLen)
	if err != nil {
		return err
	}
	r.decoder = decoder
	r.remaining = element.Count
	r.partial = prow.Partial{}
	return nil
}

// consume drops n bytes off the buffer head; physical compaction is
// amortized so the head never drifts past half the buffer.
func (r *Reader) consume(n int) {
	r.start += n
	if r.start > len(r.buf)/2 {
		r.buf = append(r.buf[:0], r.buf[r.start:]...)
		r.start = 0
	}
}

func (r *Reader) done() bool {
	if r.header == nil {
		return false
	}
	if r.element >= len(r.header.Elements) {
		return true
	}
	return r.element == len(r.header.Elements)-1 && r.remaining == 0
}
