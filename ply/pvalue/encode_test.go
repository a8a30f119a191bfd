package pvalue

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestASCIIAppendIntegers(t *testing.T) {
	bs := ASCIIAppend(KindChar)(nil, NewInt(KindChar, -128))
	assert.Equal(t, "-128", string(bs))

	bs = ASCIIAppend(KindUInt)(nil, NewUint(KindUInt, math.MaxUint32))
	assert.Equal(t, "4294967295", string(bs))
}

func TestASCIIAppendFloatSpecials(t *testing.T) {
	appendFloat := ASCIIAppend(KindFloat)
	assert.Equal(t, "inf", string(appendFloat(nil, NewFloat(KindFloat, math.Inf(1)))))
	assert.Equal(t, "-inf", string(appendFloat(nil, NewFloat(KindFloat, math.Inf(-1)))))
	assert.Equal(t, "nan", string(appendFloat(nil, NewFloat(KindFloat, math.NaN()))))
}

func TestASCIIAppendFloatRoundTrips(t *testing.T) {
	for _, v := range []float64{0, 1, -1.5, 0.1, float64(float32(3.14159)), 12345678.9} {
		token := string(ASCIIAppend(KindDouble)(nil, NewFloat(KindDouble, v)))
		parsed, err := strconv.ParseFloat(token, 64)
		require.NoError(t, err)
		assert.Equal(t, v, parsed, token)
	}

	v32 := float64(float32(0.30000001))
	token := string(ASCIIAppend(KindFloat)(nil, NewFloat(KindFloat, v32)))
	parsed, err := strconv.ParseFloat(token, 32)
	require.NoError(t, err)
	assert.Equal(t, v32, float64(float32(parsed)), token)
}
