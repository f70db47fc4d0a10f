package xdr_test

import (
	"bytes"
	"testing"

	"github.com/nfsclient/nfs4/xdr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimitivesRoundTrip(t *testing.T) {
	var buf bytes.Buffer

	enc := xdr.NewEncoder(&buf)
	require.NoError(t, enc.Uint32(42))
	require.NoError(t, enc.Uint64(1<<40))
	require.NoError(t, enc.Bool(true))
	require.NoError(t, enc.String("hello"))
	require.NoError(t, enc.Bytes([]byte{1, 2, 3}))

	dec := xdr.NewDecoder(&buf)

	u32, err := dec.Uint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(42), u32)

	u64, err := dec.Uint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(1<<40), u64)

	b, err := dec.Bool()
	require.NoError(t, err)
	assert.True(t, b)

	s, err := dec.String()
	require.NoError(t, err)
	assert.Equal(t, "hello", s)

	opaque, err := dec.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, opaque)
}

func TestStringPadding(t *testing.T) {
	var buf bytes.Buffer

	enc := xdr.NewEncoder(&buf)
	require.NoError(t, enc.String("abc")) // 3 bytes + 1 pad byte

	assert.Equal(t, 8, buf.Len(), "4-byte length prefix + 4 padded data bytes")
}

type taggedUnion struct {
	Mode uint32 `xdr:"union"`
	A    uint32
	B    string
}

func TestStructReflectUnion(t *testing.T) {
	var buf bytes.Buffer

	in := taggedUnion{Mode: 1, B: "picked"}

	enc := xdr.NewEncoder(&buf)
	_, err := enc.Write(in)
	require.NoError(t, err)

	var out taggedUnion

	dec := xdr.NewDecoder(&buf)
	_, err = dec.Read(&out)
	require.NoError(t, err)

	assert.Equal(t, uint32(1), out.Mode)
	assert.Equal(t, "picked", out.B)
	assert.Zero(t, out.A)
}

func TestStructReflectUnionBadDiscriminant(t *testing.T) {
	var buf bytes.Buffer

	in := taggedUnion{Mode: 9}

	enc := xdr.NewEncoder(&buf)
	_, err := enc.Write(in)
	require.Error(t, err)

	var badErr *xdr.BadDiscriminantError
	assert.ErrorAs(t, err, &badErr)
}

func TestListRoundTrip(t *testing.T) {
	var buf bytes.Buffer

	enc := xdr.NewEncoder(&buf)
	items := []uint32{10, 20, 30}

	err := xdr.EncodeList(enc, items, func(e *xdr.Encoder, v uint32) error {
		return e.Uint32(v)
	})
	require.NoError(t, err)

	dec := xdr.NewDecoder(&buf)

	out, err := xdr.DecodeList(dec, func(d *xdr.Decoder) (uint32, error) {
		return d.Uint32()
	})
	require.NoError(t, err)
	assert.Equal(t, items, out)
}

func TestEmptyListRoundTrip(t *testing.T) {
	var buf bytes.Buffer

	enc := xdr.NewEncoder(&buf)

	err := xdr.EncodeList[uint32](enc, nil, func(e *xdr.Encoder, v uint32) error {
		return e.Uint32(v)
	})
	require.NoError(t, err)

	dec := xdr.NewDecoder(&buf)

	out, err := xdr.DecodeList(dec, func(d *xdr.Decoder) (uint32, error) {
		return d.Uint32()
	})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestPad(t *testing.T) {
	assert.Equal(t, 0, xdr.Pad(0))
	assert.Equal(t, 0, xdr.Pad(4))
	assert.Equal(t, 3, xdr.Pad(1))
	assert.Equal(t, 2, xdr.Pad(2))
	assert.Equal(t, 1, xdr.Pad(3))
}

func TestMarshalUnmarshal(t *testing.T) {
	data, err := xdr.Marshal(uint32(7), "abc", true)
	require.NoError(t, err)

	var (
		n uint32
		s string
		b bool
	)

	rest, err := xdr.Unmarshal(data, &n, &s, &b)
	require.NoError(t, err)
	assert.Empty(t, rest)
	assert.Equal(t, uint32(7), n)
	assert.Equal(t, "abc", s)
	assert.True(t, b)
}
