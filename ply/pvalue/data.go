// Package pvalue holds the PLY scalar kinds and the codec functions
// that read and write them in each body format.
package pvalue

import (
	"fmt"

	"plystream/ds"
)

type (
	// Kind is one of the eight PLY scalar kinds.
	Kind byte

	// Value carries one decoded scalar. Exactly one of the payload
	// fields is meaningful, selected by Kind.
	Value struct {
		Kind  Kind
		Int   int64
		Uint  uint64
		Float float64
	}
)

const (
	KindChar Kind = iota
	KindUChar
	KindShort
	KindUShort
	KindInt
	KindUInt
	KindFloat
	KindDouble
)

// MaxListLen is the default safety cap on list lengths.
const MaxListLen = 1<<31 - 1

var kindNames = map[Kind]string{
	KindChar:   "char",
	KindUChar:  "uchar",
	KindShort:  "short",
	KindUShort: "ushort",
	KindInt:    "int",
	KindUInt:   "uint",
	KindFloat:  "float",
	KindDouble: "double",
}

var kindSynonyms = map[string]Kind{
	"char": KindChar, "int8": KindChar,
	"uchar": KindUChar, "uint8": KindUChar,
	"short": KindShort, "int16": KindShort,
	"ushort": KindUShort, "uint16": KindUShort,
	"int": KindInt, "int32": KindInt,
	"uint": KindUInt, "uint32": KindUInt,
	"float": KindFloat, "float32": KindFloat,
	"double": KindDouble, "float64": KindDouble,
}

// ParseKind recognizes a scalar keyword, including the numeric-width
// synonyms (`int8`, `float32`, ...).
func ParseKind(word string) (Kind, error) {
	kind, ok := kindSynonyms[word]
	if !ok {
		return 0, fmt.Errorf(`ParseKind error: unknown scalar keyword "%s"`, word)
	}
	return kind, nil
}

// String returns the canonical keyword used when emitting headers.
func (k Kind) String() string {
	name, ok := kindNames[k]
	if !ok {
		panic(ds.ErrUnreachableCode{Caller: "Kind.String"})
	}
	return name
}

func (k Kind) Size() int {
	switch k {
	case KindChar, KindUChar:
		return 1
	case KindShort, KindUShort:
		return 2
	case KindInt, KindUInt, KindFloat:
		return 4
	case KindDouble:
		return 8
	}
	panic(ds.ErrUnreachableCode{Caller: "Kind.Size"})
}

func (k Kind) IsSigned() bool {
	return k == KindChar || k == KindShort || k == KindInt
}

func (k Kind) IsUnsigned() bool {
	return k == KindUChar || k == KindUShort || k == KindUInt
}

func (k Kind) IsFloat() bool {
	return k == KindFloat || k == KindDouble
}

// MaxUint is the largest value an unsigned kind can carry. Used to
// validate list length prefixes on the write path.
func (k Kind) MaxUint() uint64 {
	return 1<<(uint(k.Size())*8) - 1
}

func (k Kind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

func (k *Kind) UnmarshalJSON(bs []byte) error {
	if len(bs) < 2 || bs[0] != '"' || bs[len(bs)-1] != '"' {
		return fmt.Errorf(`Kind.UnmarshalJSON error: not a string: %s`, string(bs))
	}
	kind, err := ParseKind(string(bs[1 : len(bs)-1]))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

func NewInt(kind Kind, v int64) Value {
	return Value{Kind: kind, Int: v}
}

func NewUint(kind Kind, v uint64) Value {
	return Value{Kind: kind, Uint: v}
}

func NewFloat(kind Kind, v float64) Value {
	return Value{Kind: kind, Float: v}
}

// Native converts the value to the Go type rows are built from:
// int64 for signed kinds, uint64 for unsigned, float64 for floats.
func (v Value) Native() any {
	switch {
	case v.Kind.IsSigned():
		return v.Int
	case v.Kind.IsUnsigned():
		return v.Uint
	default:
		return v.Float
	}
}

// AsUint64 reads the value as an unsigned magnitude. Only meaningful
// for unsigned kinds; list count prefixes go through here.
func (v Value) AsUint64() uint64 {
	return v.Uint
}

// FromNative builds a value of the requested kind from the Go types a
// row may carry: the decode-side natives plus the float64/int that
// encoding/json produces.
func FromNative(kind Kind, x any) (Value, error) {
	switch {
	case kind.IsFloat():
		switch t := x.(type) {
		case float64:
			return NewFloat(kind, t), nil
		case float32:
			return NewFloat(kind, float64(t)), nil
		case int:
			return NewFloat(kind, float64(t)), nil
		case int64:
			return NewFloat(kind, float64(t)), nil
		case uint64:
			return NewFloat(kind, float64(t)), nil
		}
	case kind.IsSigned():
		switch t := x.(type) {
		case int64:
			return NewInt(kind, t), nil
		case int:
			return NewInt(kind, int64(t)), nil
		case uint64:
			return NewInt(kind, int64(t)), nil
		case float64:
			return NewInt(kind, int64(t)), nil
		}
	default:
		switch t := x.(type) {
		case uint64:
			return NewUint(kind, t), nil
		case int64:
			return NewUint(kind, uint64(t)), nil
		case int:
			return NewUint(kind, uint64(t)), nil
		case float64:
			return NewUint(kind, uint64(t)), nil
		}
	}
	return Value{}, fmt.Errorf(`FromNative error: unable to carry value "%v" of type "%T" as %s`, x, x, kind)
}
