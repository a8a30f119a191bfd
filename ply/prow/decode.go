package prow

import (
	"bytes"
	"encoding/binary"
	"strings"

	"plystream/ply/pheader"
	"plystream/ply/pshape"
	"plystream/ply/pvalue"
)

type (
	// Decoder decodes records of one element against a prebuilt field
	// plan. Construct one per element batch; it is not safe for
	// concurrent use.
	Decoder struct {
		plan        *pshape.Plan
		ascii       bool
		steps       []decodeStep
		fixedSize   int // -1 for ASCII or when the element has list properties
		maxListLen  uint64
		recordIndex uint64
	}

	// Partial remembers how far MeasureBinary got into an incomplete
	// record, so re-entry continues instead of restarting.
	Partial struct {
		Property int
		Offset   int
	}

	decodeStep struct {
		deliver   bool
		target    string
		property  string
		isList    bool
		itemKind  pvalue.Kind
		itemSize  int
		countSize int
		readItem  readFunc
		readCount readFunc
		skipItems skipFunc
		rawCount  pvalue.BinaryReadFunc // binary only, for measuring
	}

	cursor struct {
		bs     []byte
		off    int
		tokens []string
		tok    int
	}

	readFunc func(c *cursor) (pvalue.Value, error)
	skipFunc func(c *cursor, n uint64) error
)

// NewDecoder builds the plan for (element, shape) and resolves every
// property's codec for the given format.
func NewDecoder(element pheader.Element, shape *pshape.Shape, format pheader.Format, maxListLen uint64) (*Decoder, error) {
	plan, err := pshape.Build(element, shape)
	if err != nil {
		return nil, err
	}
	if maxListLen == 0 {
		maxListLen = pvalue.MaxListLen
	}

	decoder := Decoder{
		plan:       plan,
		ascii:      format == pheader.FormatASCII,
		steps:      make([]decodeStep, 0, len(plan.Entries)),
		fixedSize:  -1,
		maxListLen: maxListLen,
	}
	for _, entry := range plan.Entries {
		decoder.steps = append(decoder.steps, newDecodeStep(entry, format))
	}
	if !decoder.ascii {
		if size, fixed := element.FixedSize(); fixed {
			decoder.fixedSize = size
		}
	}
	return &decoder, nil
}

func newDecodeStep(entry pshape.PlanEntry, format pheader.Format) decodeStep {
	property := entry.Property
	step := decodeStep{
		deliver:  entry.Deliver,
		target:   entry.Target,
		property: property.Name,
		isList:   property.IsList,
		itemKind: property.Kind,
		itemSize: property.Kind.Size(),
	}
	if format == pheader.FormatASCII {
		step.readItem = asciiRead(property.Kind)
		step.skipItems = asciiSkip()
		if property.IsList {
			step.readCount = asciiRead(property.CountKind)
		}
		return step
	}
	order := format.ByteOrder()
	step.readItem = binaryRead(property.Kind, order)
	step.skipItems = binarySkip(property.Kind.Size())
	if property.IsList {
		step.countSize = property.CountKind.Size()
		step.rawCount = pvalue.BinaryRead(property.CountKind, order)
		step.readCount = binaryRead(property.CountKind, order)
	}
	return step
}

func binaryRead(kind pvalue.Kind, order binary.ByteOrder) readFunc {
	read := pvalue.BinaryRead(kind, order)
	size := kind.Size()
	return func(c *cursor) (pvalue.Value, error) {
		if c.off+size > len(c.bs) {
			return pvalue.Value{}, errShortData
		}
		v := read(c.bs[c.off:])
		c.off += size
		return v, nil
	}
}

func binarySkip(size int) skipFunc {
	return func(c *cursor, n uint64) error {
		need := c.off + int(n)*size
		if need > len(c.bs) {
			return errShortData
		}
		c.off = need
		return nil
	}
}

func asciiRead(kind pvalue.Kind) readFunc {
	parse := pvalue.ASCIIParse(kind)
	return func(c *cursor) (pvalue.Value, error) {
		if c.tok >= len(c.tokens) {
			return pvalue.Value{}, errShortData
		}
		v, err := parse(c.tokens[c.tok])
		if err != nil {
			return pvalue.Value{}, err
		}
		c.tok++
		return v, nil
	}
}

func asciiSkip() skipFunc {
	return func(c *cursor, n uint64) error {
		if c.tok+int(n) > len(c.tokens) {
			return errShortData
		}
		c.tok += int(n)
		return nil
	}
}

// DecodeBinary decodes one complete record from the front of bs and
// returns the bytes consumed.
func (d *Decoder) DecodeBinary(bs []byte, visitor pshape.Visitor) (int, error) {
	c := cursor{bs: bs}
	if err := d.decode(&c, visitor); err != nil {
		return 0, err
	}
	d.recordIndex++
	return c.off, nil
}

// DecodeASCII decodes one record line. The line excludes its
// terminator; a trailing carriage return is tolerated.
func (d *Decoder) DecodeASCII(line []byte, visitor pshape.Visitor) error {
	line = bytes.TrimSuffix(line, []byte("\r"))
	c := cursor{tokens: strings.Fields(string(line))}
	if err := d.decode(&c, visitor); err != nil {
		return err
	}
	if c.tok != len(c.tokens) {
		return TrailingGarbageError{Element: d.plan.Element.Name, RecordIndex: d.recordIndex}
	}
	d.recordIndex++
	return nil
}

func (d *Decoder) decode(c *cursor, visitor pshape.Visitor) error {
	visitor.BeginRecord()
	for i := range d.steps {
		step := &d.steps[i]
		if !step.isList {
			if !step.deliver {
				// Advance past the scalar without decoding it.
				if err := step.skipItems(c, 1); err != nil {
					return d.classify(err, step, c)
				}
				continue
			}
			v, err := step.readItem(c)
			if err != nil {
				return d.classify(err, step, c)
			}
			if err := visitor.VisitScalar(step.target, v); err != nil {
				return err
			}
			continue
		}

		count, err := step.readCount(c)
		if err != nil {
			return d.classify(err, step, c)
		}
		n := count.AsUint64()
		if n > d.maxListLen {
			return ListTooLargeError{
				Element:     d.plan.Element.Name,
				Property:    step.property,
				RecordIndex: d.recordIndex,
				Length:      n,
			}
		}
		if !step.deliver {
			if err := step.skipItems(c, n); err != nil {
				return d.classify(err, step, c)
			}
			continue
		}
		items := make([]pvalue.Value, 0, n)
		for j := uint64(0); j < n; j++ {
			v, err := step.readItem(c)
			if err != nil {
				return d.classify(err, step, c)
			}
			items = append(items, v)
		}
		if err := visitor.VisitList(step.target, step.itemKind, items); err != nil {
			return err
		}
	}

	for _, field := range d.plan.Absent {
		if field.HasDefault {
			if err := visitor.VisitDefault(field.Name, field.Default); err != nil {
				return err
			}
			continue
		}
		if err := visitor.VisitAbsent(field.Name); err != nil {
			return err
		}
	}
	return visitor.EndRecord()
}

// classify turns codec-level failures into the record-level taxonomy.
// Anything else (a visitor error in particular) passes through as-is.
func (d *Decoder) classify(err error, step *decodeStep, c *cursor) error {
	if err == errShortData {
		return ShortRecordError{Element: d.plan.Element.Name, RecordIndex: d.recordIndex}
	}
	if pvalue.IsRangeError(err) {
		token := ""
		if c.tok < len(c.tokens) {
			token = c.tokens[c.tok]
		}
		return OverflowASCIIError{
			Element:     d.plan.Element.Name,
			Property:    step.property,
			RecordIndex: d.recordIndex,
			Token:       token,
		}
	}
	return err
}

// MeasureBinary reports whether bs starts with one complete record and
// its byte size. For elements with list properties the walk resumes
// from the partial cursor left by the previous attempt.
func (d *Decoder) MeasureBinary(bs []byte, partial *Partial) (int, bool, error) {
	if d.fixedSize >= 0 {
		if len(bs) < d.fixedSize {
			return 0, false, nil
		}
		return d.fixedSize, true, nil
	}

	off := partial.Offset
	for i := partial.Property; i < len(d.steps); i++ {
		step := &d.steps[i]
		if !step.isList {
			if len(bs) < off+step.itemSize {
				partial.Property, partial.Offset = i, off
				return 0, false, nil
			}
			off += step.itemSize
			continue
		}
		if len(bs) < off+step.countSize {
			partial.Property, partial.Offset = i, off
			return 0, false, nil
		}
		n := step.rawCount(bs[off:]).AsUint64()
		if n > d.maxListLen {
			return 0, false, ListTooLargeError{
				Element:     d.plan.Element.Name,
				Property:    step.property,
				RecordIndex: d.recordIndex,
				Length:      n,
			}
		}
		need := off + step.countSize + int(n)*step.itemSize
		if len(bs) < need {
			partial.Property, partial.Offset = i, off
			return 0, false, nil
		}
		off = need
	}
	partial.Property, partial.Offset = 0, 0
	return off, true, nil
}

// RecordIndex returns how many records this decoder has decoded.
func (d *Decoder) RecordIndex() uint64 {
	return d.recordIndex
}
