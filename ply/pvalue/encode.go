package pvalue

import (
	"encoding/binary"
	"math"
	"strconv"

	"plystream/ds"
)

type (
	// BinaryAppendFunc appends one scalar's fixed-width bytes to dst.
	BinaryAppendFunc func(dst []byte, v Value) []byte

	// ASCIIAppendFunc appends one scalar's decimal token to dst.
	ASCIIAppendFunc func(dst []byte, v Value) []byte
)

// BinaryAppend resolves the write function for a kind in a byte order,
// mirroring BinaryRead.
func BinaryAppend(kind Kind, order binary.ByteOrder) BinaryAppendFunc {
	switch kind {
	case KindChar:
		return func(dst []byte, v Value) []byte { return append(dst, byte(int8(v.Int))) }
	case KindUChar:
		return func(dst []byte, v Value) []byte { return append(dst, byte(v.Uint)) }
	case KindShort:
		return func(dst []byte, v Value) []byte { return appendUint16(dst, order, uint16(v.Int)) }
	case KindUShort:
		return func(dst []byte, v Value) []byte { return appendUint16(dst, order, uint16(v.Uint)) }
	case KindInt:
		return func(dst []byte, v Value) []byte { return appendUint32(dst, order, uint32(v.Int)) }
	case KindUInt:
		return func(dst []byte, v Value) []byte { return appendUint32(dst, order, uint32(v.Uint)) }
	case KindFloat:
		return func(dst []byte, v Value) []byte {
			return appendUint32(dst, order, math.Float32bits(float32(v.Float)))
		}
	case KindDouble:
		return func(dst []byte, v Value) []byte {
			return appendUint64(dst, order, math.Float64bits(v.Float))
		}
	}
	panic(ds.ErrUnreachableCode{Caller: "BinaryAppend"})
}

// ASCIIAppend resolves the token write function for a kind. Floats are
// formatted with the shortest representation that round-trips at the
// kind's width; infinities and NaN spell as "inf", "-inf" and "nan".
func ASCIIAppend(kind Kind) ASCIIAppendFunc {
	switch kind {
	case KindChar, KindShort, KindInt:
		return func(dst []byte, v Value) []byte { return strconv.AppendInt(dst, v.Int, 10) }
	case KindUChar, KindUShort, KindUInt:
		return func(dst []byte, v Value) []byte { return strconv.AppendUint(dst, v.Uint, 10) }
	case KindFloat:
		return func(dst []byte, v Value) []byte { return appendFloatToken(dst, v.Float, 32) }
	case KindDouble:
		return func(dst []byte, v Value) []byte { return appendFloatToken(dst, v.Float, 64) }
	}
	panic(ds.ErrUnreachableCode{Caller: "ASCIIAppend"})
}

func appendFloatToken(dst []byte, v float64, bits int) []byte {
	switch {
	case math.IsInf(v, 1):
		return append(dst, "inf"...)
	case math.IsInf(v, -1):
		return append(dst, "-inf"...)
	case math.IsNaN(v):
		return append(dst, "nan"...)
	}
	return strconv.AppendFloat(dst, v, 'g', -1, bits)
}

func appendUint16(dst []byte, order binary.ByteOrder, v uint16) []byte {
	var bs [2]byte
	order.PutUint16(bs[:], v)
	return append(dst, bs[:]...)
}

func appendUint32(dst []byte, order binary.ByteOrder, v uint32) []byte {
	var bs [4]byte
	order.PutUint32(bs[:], v)
	return append(dst, bs[:]...)
}

func appendUint64(dst []byte, order binary.ByteOrder, v uint64) []byte {
	var bs [8]byte
	order.PutUint64(bs[:], v)
	return append(dst, bs[:]...)
}
