// Package pheader models the PLY header: the body format, the element
// table, and each element's property layout.
package pheader

import (
	"encoding/binary"
	"fmt"

	"plystream/ds"
	"plystream/ply/pvalue"
)

type (
	// Format is the body encoding declared on the header's format line.
	Format byte

	// Property is one field of an element: a fixed-width scalar, or a
	// length-prefixed list when IsList is set.
	Property struct {
		Name      string      `json:"name"`
		Kind      pvalue.Kind `json:"type"`
		IsList    bool        `json:"is_list,omitempty"`
		CountKind pvalue.Kind `json:"count_type,omitempty"`
	}

	// Element is a named record type with a declared record count and
	// an ordered property layout.
	Element struct {
		Name       string     `json:"name"`
		Count      uint64     `json:"count"`
		Properties []Property `json:"properties"`
	}

	Header struct {
		Format   Format    `json:"format"`
		Version  string    `json:"version"`
		Elements []Element `json:"elements"`
		Comments []string  `json:"comments,omitempty"`
		ObjInfo  []string  `json:"obj_info,omitempty"`
	}
)

const (
	FormatASCII Format = iota
	FormatBinaryLittleEndian
	FormatBinaryBigEndian
)

var formatNames = map[Format]string{
	FormatASCII:              "ascii",
	FormatBinaryLittleEndian: "binary_little_endian",
	FormatBinaryBigEndian:    "binary_big_endian",
}

func ParseFormat(word string) (Format, error) {
	for format, name := range formatNames {
		if name == word {
			return format, nil
		}
	}
	return 0, fmt.Errorf(`ParseFormat error: unknown format keyword "%s"`, word)
}

func (f Format) String() string {
	name, ok := formatNames[f]
	if !ok {
		panic(ds.ErrUnreachableCode{Caller: "Format.String"})
	}
	return name
}

// ByteOrder returns the byte order of a binary format. Calling it on
// the ASCII format is a programming error.
func (f Format) ByteOrder() binary.ByteOrder {
	switch f {
	case FormatBinaryLittleEndian:
		return binary.LittleEndian
	case FormatBinaryBigEndian:
		return binary.BigEndian
	}
	panic(ds.ErrUnreachableCode{Caller: "Format.ByteOrder"})
}

func (f Format) MarshalJSON() ([]byte, error) {
	return []byte(`"` + f.String() + `"`), nil
}

func (f *Format) UnmarshalJSON(bs []byte) error {
	if len(bs) < 2 || bs[0] != '"' || bs[len(bs)-1] != '"' {
		return fmt.Errorf(`Format.UnmarshalJSON error: not a string: %s`, string(bs))
	}
	format, err := ParseFormat(string(bs[1 : len(bs)-1]))
	if err != nil {
		return err
	}
	*f = format
	return nil
}

// FixedSize returns the byte size of one record when the element has
// no list properties, and whether that size is fixed at all.
func (e Element) FixedSize() (int, bool) {
	size := 0
	for _, property := range e.Properties {
		if property.IsList {
			return 0, false
		}
		size += property.Kind.Size()
	}
	return size, true
}

// TokensPerRecord returns the ASCII token count of one record when the
// element has no list properties.
func (e Element) TokensPerRecord() (int, bool) {
	_, fixed := e.FixedSize()
	return len(e.Properties), fixed
}

// GetElement returns the first element with the given name. Element
// names may repeat; consumers that care about duplicates match by
// position in Elements instead.
func (h Header) GetElement(name string) (Element, bool) {
	for _, element := range h.Elements {
		if element.Name == name {
			return element, true
		}
	}
	return Element{}, false
}

func (h Header) HasElement(name string) bool {
	_, ok := h.GetElement(name)
	return ok
}
