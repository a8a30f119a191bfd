// Package ply reads and writes PLY (Polygon File Format) files. The
// blocking facades here sit on the chunked driver in pchunk; decoded
// records are insertion-ordered maps so files round-trip through JSON
// with fields in property order.
package ply

import (
	"encoding/json"
	"fmt"

	"github.com/iancoleman/orderedmap"

	"plystream/ply/pheader"
)

type (
	// File is a fully decoded PLY file: the header plus one row set
	// per element, in header order.
	File struct {
		Header   pheader.Header
		Elements []ElementData
	}

	// ElementData is the decoded rows of one element.
	ElementData struct {
		Name string
		Rows []*orderedmap.OrderedMap
	}
)

// IsPLYFile reports whether bs opens with the PLY magic line.
func IsPLYFile(bs []byte) bool {
	return pheader.IsValidMagic(bs)
}

// MarshalJSON emits the editable envelope the CLI converts to:
// {"header": ..., "elements": {name: [rows...]}}.
func (f File) MarshalJSON() ([]byte, error) {
	elements := orderedmap.New()
	for _, data := range f.Elements {
		elements.Set(data.Name, data.Rows)
	}
	envelope := orderedmap.New()
	envelope.Set("header", f.Header)
	envelope.Set("elements", elements)
	return json.Marshal(envelope)
}

func (f *File) UnmarshalJSON(bs []byte) error {
	var raw struct {
		Header   pheader.Header  `json:"header"`
		Elements json.RawMessage `json:"elements"`
	}
	if err := json.Unmarshal(bs, &raw); err != nil {
		return err
	}
	elements := orderedmap.New()
	if len(raw.Elements) > 0 {
		if err := json.Unmarshal(raw.Elements, elements); err != nil {
			return err
		}
	}

	f.Header = raw.Header
	f.Elements = nil
	for _, name := range elements.Keys() {
		value, _ := elements.Get(name)
		items, ok := value.([]any)
		if !ok {
			return fmt.Errorf(`File.UnmarshalJSON error: element "%s" is not an array`, name)
		}
		rows := make([]*orderedmap.OrderedMap, 0, len(items))
		for _, item := range items {
			row, err := toRow(item)
			if err != nil {
				return fmt.Errorf(`File.UnmarshalJSON error: element "%s": %v`, name, err)
			}
			rows = append(rows, row)
		}
		f.Elements = append(f.Elements, ElementData{Name: name, Rows: rows})
	}
	return nil
}

func toRow(item any) (*orderedmap.OrderedMap, error) {
	switch t := item.(type) {
	case orderedmap.OrderedMap:
		return &t, nil
	case *orderedmap.OrderedMap:
		return t, nil
	}
	return nil, fmt.Errorf(`row is not an object (got "%T")`, item)
}
