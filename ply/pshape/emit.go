package pshape

import (
	"fmt"

	"github.com/iancoleman/orderedmap"
	"github.com/pkg/errors"

	"plystream/ply/pvalue"
)

// RowEmitter feeds the encoder from an ordered-map row, converting the
// row's native Go values to the declared property kinds.
type RowEmitter struct {
	Row *orderedmap.OrderedMap
}

func (r RowEmitter) EmitScalar(name string, kind pvalue.Kind) (pvalue.Value, error) {
	raw, ok := r.Row.Get(name)
	if !ok {
		return pvalue.Value{}, fmt.Errorf(`RowEmitter.EmitScalar error: row has no field "%s"`, name)
	}
	v, err := pvalue.FromNative(kind, raw)
	if err != nil {
		return pvalue.Value{}, errors.Wrapf(err, `RowEmitter.EmitScalar error: field "%s"`, name)
	}
	return v, nil
}

func (r RowEmitter) EmitList(name string, kind pvalue.Kind) ([]pvalue.Value, error) {
	raw, ok := r.Row.Get(name)
	if !ok {
		return nil, fmt.Errorf(`RowEmitter.EmitList error: row has no field "%s"`, name)
	}
	natives, err := listNatives(raw)
	if err != nil {
		return nil, errors.Wrapf(err, `RowEmitter.EmitList error: field "%s"`, name)
	}
	items := make([]pvalue.Value, 0, len(natives))
	for _, native := range natives {
		item, err := pvalue.FromNative(kind, native)
		if err != nil {
			return nil, errors.Wrapf(err, `RowEmitter.EmitList error: field "%s"`, name)
		}
		items = append(items, item)
	}
	return items, nil
}

// listNatives widens the slice types a row may carry for a list field:
// the decode-side typed slices plus the []any encoding/json produces.
func listNatives(raw any) ([]any, error) {
	switch t := raw.(type) {
	case []any:
		return t, nil
	case []int64:
		natives := make([]any, len(t))
		for i, v := range t {
			natives[i] = v
		}
		return natives, nil
	case []uint64:
		natives := make([]any, len(t))
		for i, v := range t {
			natives[i] = v
		}
		return natives, nil
	case []float64:
		natives := make([]any, len(t))
		for i, v := range t {
			natives[i] = v
		}
		return natives, nil
	}
	return nil, fmt.Errorf(`unable to treat value of type "%T" as a list`, raw)
}
