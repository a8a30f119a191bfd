package pvalue

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	for word, expected := range map[string]Kind{
		"char": KindChar, "int8": KindChar,
		"uchar": KindUChar, "uint8": KindUChar,
		"short": KindShort, "int16": KindShort,
		"ushort": KindUShort, "uint16": KindUShort,
		"int": KindInt, "int32": KindInt,
		"uint": KindUInt, "uint32": KindUInt,
		"float": KindFloat, "float32": KindFloat,
		"double": KindDouble, "float64": KindDouble,
	} {
		kind, err := ParseKind(word)
		require.NoError(t, err)
		assert.Equal(t, expected, kind, word)
	}

	_, err := ParseKind("quadruple")
	assert.Error(t, err)
}

func TestKindCanonicalNames(t *testing.T) {
	assert.Equal(t, "char", KindChar.String())
	assert.Equal(t, "uchar", KindUChar.String())
	assert.Equal(t, "ushort", KindUShort.String())
	assert.Equal(t, "float", KindFloat.String())
	assert.Equal(t, "double", KindDouble.String())
}

func TestKindSize(t *testing.T) {
	assert.Equal(t, 1, KindChar.Size())
	assert.Equal(t, 2, KindShort.Size())
	assert.Equal(t, 4, KindFloat.Size())
	assert.Equal(t, 8, KindDouble.Size())
}

func TestBinaryReadSigned(t *testing.T) {
	read := BinaryRead(KindChar, binary.LittleEndian)
	assert.Equal(t, int64(-1), read([]byte{0xFF}).Int)

	read = BinaryRead(KindShort, binary.BigEndian)
	assert.Equal(t, int64(-2), read([]byte{0xFF, 0xFE}).Int)

	read = BinaryRead(KindInt, binary.LittleEndian)
	bs := make([]byte, 4)
	binary.LittleEndian.PutUint32(bs, 0xFFFFFFFF)
	assert.Equal(t, int64(-1), read(bs).Int)
}

func TestBinaryReadFloat(t *testing.T) {
	bs := make([]byte, 4)
	binary.LittleEndian.PutUint32(bs, math.Float32bits(1.5))
	read := BinaryRead(KindFloat, binary.LittleEndian)
	assert.Equal(t, 1.5, read(bs).Float)

	bs = make([]byte, 8)
	binary.BigEndian.PutUint64(bs, math.Float64bits(-0.25))
	read = BinaryRead(KindDouble, binary.BigEndian)
	assert.Equal(t, -0.25, read(bs).Float)
}

func TestBinaryRoundTripExtremes(t *testing.T) {
	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		for _, v := range []Value{
			NewInt(KindChar, math.MinInt8),
			NewInt(KindChar, math.MaxInt8),
			NewInt(KindShort, math.MinInt16),
			NewInt(KindInt, math.MaxInt32),
			NewUint(KindUChar, math.MaxUint8),
			NewUint(KindUShort, math.MaxUint16),
			NewUint(KindUInt, math.MaxUint32),
			NewFloat(KindFloat, math.MaxFloat32),
			NewFloat(KindDouble, math.MaxFloat64),
		} {
			bs := BinaryAppend(v.Kind, order)(nil, v)
			require.Len(t, bs, v.Kind.Size())
			assert.Equal(t, v, BinaryRead(v.Kind, order)(bs))
		}
	}
}

func TestASCIIParseIntegers(t *testing.T) {
	parse := ASCIIParse(KindUChar)
	v, err := parse("255")
	require.NoError(t, err)
	assert.Equal(t, uint64(255), v.Uint)

	_, err = parse("256")
	require.Error(t, err)
	assert.True(t, IsRangeError(err))

	_, err = parse("1.5")
	require.Error(t, err)
	assert.False(t, IsRangeError(err))
}

func TestASCIIParseFloatSpecials(t *testing.T) {
	parse := ASCIIParse(KindFloat)

	v, err := parse("inf")
	require.NoError(t, err)
	assert.True(t, math.IsInf(v.Float, 1))

	v, err = parse("-inf")
	require.NoError(t, err)
	assert.True(t, math.IsInf(v.Float, -1))

	v, err = parse("nan")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(v.Float))

	_, err = parse("1e40")
	require.Error(t, err)
	assert.True(t, IsRangeError(err))
}

func TestFromNative(t *testing.T) {
	v, err := FromNative(KindFloat, 1.5)
	require.NoError(t, err)
	assert.Equal(t, 1.5, v.Float)

	v, err = FromNative(KindInt, float64(-3))
	require.NoError(t, err)
	assert.Equal(t, int64(-3), v.Int)

	v, err = FromNative(KindUInt, uint64(7))
	require.NoError(t, err)
	assert.Equal(t, uint64(7), v.Uint)

	_, err = FromNative(KindInt, "not a number")
	assert.Error(t, err)
}
