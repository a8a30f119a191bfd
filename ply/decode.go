package ply

import (
	"io"

	"github.com/iancoleman/orderedmap"
	"github.com/pkg/errors"

	"plystream/ply/pchunk"
	"plystream/ply/pshape"
)

// readChunkSize is the fixed read size the blocking facade feeds the
// chunked driver with.
const readChunkSize = 4096

// batchSize bounds how many records one drain iteration pulls.
const batchSize = 512

// DecodePLY decodes a whole in-memory PLY file.
func DecodePLY(bs []byte) (*File, error) {
	reader := pchunk.NewReader()
	if err := reader.Feed(bs); err != nil {
		return nil, err
	}
	return drain(reader, "")
}

// DecodeReader reads r to EOF in fixed-size chunks, feeding each chunk
// to the chunked driver, which parses the header as soon as its bytes
// are in. Records are decoded only after EOF; reads and record
// decoding are not interleaved.
func DecodeReader(r io.Reader) (*File, error) {
	reader := pchunk.NewReader()
	buf := make([]byte, readChunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if feedErr := reader.Feed(buf[:n]); feedErr != nil {
				return nil, feedErr
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "DecodeReader error: read")
		}
	}
	return drain(reader, "")
}

// DecodeElement decodes one named element under a caller-declared
// shape (renames, aliases, optional and defaulted fields). Elements
// before it in the stream are decoded and discarded; a duplicate
// element name binds the shape to every occurrence and returns the
// first.
func DecodeElement(bs []byte, element string, shape *pshape.Shape) ([]*orderedmap.OrderedMap, error) {
	reader := pchunk.NewReader()
	reader.SetShape(element, shape)
	if err := reader.Feed(bs); err != nil {
		return nil, err
	}
	file, err := drain(reader, element)
	if err != nil {
		return nil, err
	}
	for _, data := range file.Elements {
		if data.Name == element {
			return data.Rows, nil
		}
	}
	return nil, errors.Errorf(`DecodeElement error: header has no element "%s"`, element)
}

// drain drives the chunked reader over every element. When keep is
// non-empty only that element's rows are retained.
func drain(reader *pchunk.Reader, keep string) (*File, error) {
	file := File{}
	for {
		element := reader.CurrentElement()
		if element == nil {
			break
		}
		rows := []*orderedmap.OrderedMap{}
		for {
			batch, err := reader.TryNextBatch(batchSize)
			if err != nil {
				return nil, err
			}
			if len(batch) == 0 {
				break
			}
			if keep == "" || element.Name == keep {
				rows = append(rows, batch...)
			}
		}
		name := element.Name
		if err := reader.AdvanceToNextElement(); err != nil {
			// The element did not drain; report why the stream ended.
			if finishErr := reader.Finish(); finishErr != nil {
				return nil, finishErr
			}
			return nil, err
		}
		file.Elements = append(file.Elements, ElementData{Name: name, Rows: rows})
	}
	if err := reader.Finish(); err != nil {
		return nil, err
	}
	file.Header = *reader.Header()
	return &file, nil
}
