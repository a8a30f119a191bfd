package pvalue

import (
	"encoding/binary"
	"math"
	"strconv"

	"plystream/ds"
)

type (
	// BinaryReadFunc decodes one scalar from the front of bs. The
	// caller guarantees len(bs) >= the kind's size.
	BinaryReadFunc func(bs []byte) Value

	// ASCIIParseFunc decodes one whitespace-delimited token.
	ASCIIParseFunc func(token string) (Value, error)
)

// BinaryRead resolves the read function for a kind in a byte order.
// Resolution happens once per element; the returned function carries
// no format dispatch.
func BinaryRead(kind Kind, order binary.ByteOrder) BinaryReadFunc {
	switch kind {
	case KindChar:
		return func(bs []byte) Value { return NewInt(KindChar, int64(int8(bs[0]))) }
	case KindUChar:
		return func(bs []byte) Value { return NewUint(KindUChar, uint64(bs[0])) }
	case KindShort:
		return func(bs []byte) Value { return NewInt(KindShort, int64(int16(order.Uint16(bs)))) }
	case KindUShort:
		return func(bs []byte) Value { return NewUint(KindUShort, uint64(order.Uint16(bs))) }
	case KindInt:
		return func(bs []byte) Value { return NewInt(KindInt, int64(int32(order.Uint32(bs)))) }
	case KindUInt:
		return func(bs []byte) Value { return NewUint(KindUInt, uint64(order.Uint32(bs))) }
	case KindFloat:
		return func(bs []byte) Value { return NewFloat(KindFloat, float64(math.Float32frombits(order.Uint32(bs)))) }
	case KindDouble:
		return func(bs []byte) Value { return NewFloat(KindDouble, math.Float64frombits(order.Uint64(bs))) }
	}
	panic(ds.ErrUnreachableCode{Caller: "BinaryRead"})
}

// ASCIIParse resolves the token parse function for a kind. Integer
// tokens are base 10; floats take the standard decimal/exponent
// grammar plus inf and nan. Out-of-range tokens surface the strconv
// range error for the caller to classify.
func ASCIIParse(kind Kind) ASCIIParseFunc {
	switch kind {
	case KindChar, KindShort, KindInt:
		bits := kind.Size() * 8
		return func(token string) (Value, error) {
			v, err := strconv.ParseInt(token, 10, bits)
			if err != nil {
				return Value{}, err
			}
			return NewInt(kind, v), nil
		}
	case KindUChar, KindUShort, KindUInt:
		bits := kind.Size() * 8
		return func(token string) (Value, error) {
			v, err := strconv.ParseUint(token, 10, bits)
			if err != nil {
				return Value{}, err
			}
			return NewUint(kind, v), nil
		}
	case KindFloat, KindDouble:
		bits := kind.Size() * 8
		return func(token string) (Value, error) {
			v, err := strconv.ParseFloat(token, bits)
			if err != nil {
				return Value{}, err
			}
			return NewFloat(kind, v), nil
		}
	}
	panic(ds.ErrUnreachableCode{Caller: "ASCIIParse"})
}

// IsRangeError reports whether a token failed to parse because it was
// outside the declared scalar's range.
func IsRangeError(err error) bool {
	numErr, ok := err.(*strconv.NumError)
	return ok && numErr.Err == strconv.ErrRange
}
