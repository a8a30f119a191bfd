package pheader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plystream/ply/pvalue"
)

func testHeader() Header {
	return Header{
		Format:   FormatBinaryLittleEndian,
		Version:  "1.0",
		Comments: []string{"made by a test"},
		ObjInfo:  []string{"anything goes"},
		Elements: []Element{
			{
				Name:  "vertex",
				Count: 8,
				Properties: []Property{
					{Name: "x", Kind: pvalue.KindFloat},
					{Name: "y", Kind: pvalue.KindFloat},
					{Name: "z", Kind: pvalue.KindFloat},
				},
			},
			{
				Name:  "face",
				Count: 6,
				Properties: []Property{
					{Name: "vertex_indices", Kind: pvalue.KindInt, IsList: true, CountKind: pvalue.KindUChar},
				},
			},
		},
	}
}

func TestEncode(t *testing.T) {
	bs, err := Encode(testHeader())
	require.NoError(t, err)

	expected := "ply\n" +
		"format binary_little_endian 1.0\n" +
		"comment made by a test\n" +
		"obj_info anything goes\n" +
		"element vertex 8\n" +
		"property float x\n" +
		"property float y\n" +
		"property float z\n" +
		"element face 6\n" +
		"property list uchar int vertex_indices\n" +
		"end_header\n"
	assert.Equal(t, expected, string(bs))
}

func TestEncode_DefaultsVersion(t *testing.T) {
	bs, err := Encode(Header{Format: FormatASCII})
	require.NoError(t, err)
	assert.Equal(t, "ply\nformat ascii 1.0\nend_header\n", string(bs))
}

func TestEncode_RejectsDuplicateProperties(t *testing.T) {
	header := Header{
		Format: FormatASCII,
		Elements: []Element{
			{
				Name:  "vertex",
				Count: 1,
				Properties: []Property{
					{Name: "x", Kind: pvalue.KindFloat},
					{Name: "x", Kind: pvalue.KindFloat},
				},
			},
		},
	}
	_, err := Encode(header)
	assert.Error(t, err)
}

func TestEncode_ParseRoundTrip(t *testing.T) {
	header := testHeader()
	bs, err := Encode(header)
	require.NoError(t, err)

	parsed, consumed, err := TryParse(bs)
	require.NoError(t, err)
	require.NotNil(t, parsed)
	assert.Equal(t, len(bs), consumed)
	assert.Equal(t, header, *parsed)
}
