package ply

import (
	"fmt"
	"io"

	"github.com/pkg/errors"

	"plystream/ply/pheader"
	"plystream/ply/prow"
	"plystream/ply/pshape"
)

// CountMismatchError reports a header element count that disagrees
// with the rows supplied for it.
type CountMismatchError struct {
	Element  string
	Expected uint64
	Got      uint64
}

func (r CountMismatchError) Error() string {
	return fmt.Sprintf(
		`element "%s" declares %d records but %d rows were supplied`,
		r.Element, r.Expected, r.Got,
	)
}

// EncodePLY emits the header and every element's records in the
// header's format. Row sets must line up with the header's element
// table positionally.
func EncodePLY(file *File) ([]byte, error) {
	if len(file.Elements) != len(file.Header.Elements) {
		return nil, errors.Errorf(
			"EncodePLY error: header declares %d elements but %d row sets were supplied",
			len(file.Header.Elements), len(file.Elements),
		)
	}

	bs, err := pheader.Encode(file.Header)
	if err != nil {
		return nil, err
	}

	for i, element := range file.Header.Elements {
		data := file.Elements[i]
		if data.Name != element.Name {
			return nil, errors.Errorf(
				`EncodePLY error: row set %d is named "%s" but the header declares "%s"`,
				i, data.Name, element.Name,
			)
		}
		if uint64(len(data.Rows)) != element.Count {
			return nil, CountMismatchError{
				Element:  element.Name,
				Expected: element.Count,
				Got:      uint64(len(data.Rows)),
			}
		}
		encoder := prow.NewEncoder(element, file.Header.Format)
		for _, row := range data.Rows {
			bs, err = encoder.AppendRecord(bs, pshape.RowEmitter{Row: row})
			if err != nil {
				return nil, errors.Wrapf(err, `EncodePLY error: element "%s"`, element.Name)
			}
		}
	}
	return bs, nil
}

// EncodeWriter writes the encoded file to w.
func EncodeWriter(w io.Writer, file *File) error {
	bs, err := EncodePLY(file)
	if err != nil {
		return err
	}
	if _, err := w.Write(bs); err != nil {
		return errors.Wrap(err, "EncodeWriter error: write")
	}
	return nil
}
