package prow

import (
	"plystream/ply/pheader"
	"plystream/ply/pshape"
	"plystream/ply/pvalue"
)

type (
	// Encoder emits records of one element, symmetric to Decoder.
	Encoder struct {
		element     pheader.Element
		ascii       bool
		steps       []encodeStep
		maxListLen  uint64
		recordIndex uint64
	}

	encodeStep struct {
		name        string
		isList      bool
		itemKind    pvalue.Kind
		countKind   pvalue.Kind
		countMax    uint64
		appendItem  appendFunc
		appendCount appendFunc
	}

	appendFunc func(dst []byte, v pvalue.Value) []byte
)

// NewEncoder resolves every property's write function for the format.
func NewEncoder(element pheader.Element, format pheader.Format) *Encoder {
	encoder := Encoder{
		element:    element,
		ascii:      format == pheader.FormatASCII,
		steps:      make([]encodeStep, 0, len(element.Properties)),
		maxListLen: pvalue.MaxListLen,
	}
	for _, property := range element.Properties {
		step := encodeStep{
			name:     property.Name,
			isList:   property.IsList,
			itemKind: property.Kind,
		}
		if encoder.ascii {
			step.appendItem = appendFunc(pvalue.ASCIIAppend(property.Kind))
			if property.IsList {
				step.countKind = property.CountKind
				step.countMax = property.CountKind.MaxUint()
				step.appendCount = appendFunc(pvalue.ASCIIAppend(property.CountKind))
			}
		} else {
			order := format.ByteOrder()
			step.appendItem = appendFunc(pvalue.BinaryAppend(property.Kind, order))
			if property.IsList {
				step.countKind = property.CountKind
				step.countMax = property.CountKind.MaxUint()
				step.appendCount = appendFunc(pvalue.BinaryAppend(property.CountKind, order))
			}
		}
		encoder.steps = append(encoder.steps, step)
	}
	return &encoder
}

// AppendRecord pulls one record from the emitter in property order and
// appends its wire form to dst. ASCII records end with a bare newline
// and separate tokens with single spaces.
func (e *Encoder) AppendRecord(dst []byte, emitter pshape.Emitter) ([]byte, error) {
	for i := range e.steps {
		step := &e.steps[i]
		if e.ascii && i > 0 {
			dst = append(dst, ' ')
		}
		if !step.isList {
			v, err := emitter.EmitScalar(step.name, step.itemKind)
			if err != nil {
				return nil, err
			}
			dst = step.appendItem(dst, v)
			continue
		}

		items, err := emitter.EmitList(step.name, step.itemKind)
		if err != nil {
			return nil, err
		}
		length := uint64(len(items))
		if length > step.countMax || length > e.maxListLen {
			return nil, ListTooLargeError{
				Element:     e.element.Name,
				Property:    step.name,
				RecordIndex: e.recordIndex,
				Length:      length,
			}
		}
		dst = step.appendCount(dst, pvalue.NewUint(step.countKind, length))
		for _, item := range items {
			if e.ascii {
				dst = append(dst, ' ')
			}
			dst = step.appendItem(dst, item)
		}
	}
	if e.ascii {
		dst = append(dst, '\n')
	}
	e.recordIndex++
	return dst, nil
}
