package attrs_test

import (
	"testing"

	"github.com/nfsclient/nfs4/attrs"
	"github.com/nfsclient/nfs4/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetEncodeDecodeRoundTrip(t *testing.T) {
	s := attrs.NewSet(attrs.Type, attrs.Size, attrs.Mode)

	words := s.Encode()

	back := attrs.DecodeSet(words)
	assert.True(t, back.Has(attrs.Type))
	assert.True(t, back.Has(attrs.Size))
	assert.True(t, back.Has(attrs.Mode))
	assert.False(t, back.Has(attrs.Owner))
}

func TestSetEncodeEmpty(t *testing.T) {
	s := attrs.NewSet()
	assert.Empty(t, s.Encode())
}

func TestSetEncodeCrossesWordBoundary(t *testing.T) {
	// MountedOnFileID = 55 lives in the second bitmap word (bits 32-63);
	// a naive word-count calculation can under-allocate for ids that are
	// an exact multiple of 32, or sit just past one.
	s := attrs.NewSet(attrs.MountedOnFileID)

	words := s.Encode()
	require.Len(t, words, 2)
	assert.Zero(t, words[0])
	assert.NotZero(t, words[1])

	back := attrs.DecodeSet(words)
	assert.True(t, back.Has(attrs.MountedOnFileID))
}

func TestSetEncodeExactWordMultiple(t *testing.T) {
	s := attrs.NewSet(32) // first bit of the second word
	words := s.Encode()
	require.Len(t, words, 2)
	assert.Equal(t, uint32(1), words[1])
}

func TestBuilderOrdersByAttributeID(t *testing.T) {
	// OwnerGroup (37) is staged before Mode (33) to verify Build sorts by
	// attribute id rather than call order.
	b := attrs.NewBuilder().SetOwnerGroup("staff").SetMode(0o644)

	built, err := b.Build()
	require.NoError(t, err)

	decoded, err := attrs.Decode(built)
	require.NoError(t, err)

	require.NotNil(t, decoded.Mode)
	assert.Equal(t, uint32(0o644), *decoded.Mode)
	assert.Equal(t, "staff", decoded.OwnerGroup)
}

func TestBuilderSetTimeModifyNow(t *testing.T) {
	b := attrs.NewBuilder().SetTimeModifyNow()

	built, err := b.Build()
	require.NoError(t, err)

	decoded, err := attrs.Decode(built)
	require.NoError(t, err)

	require.NotNil(t, decoded.TimeModify)
	assert.NotZero(t, decoded.TimeModify.Seconds)
}

func TestDecodeUnknownAttribute(t *testing.T) {
	// Attribute id 14 (aclsupport's neighbor, ACL's continuation) has no
	// case in Decode's switch; a mask naming it must fail loudly rather
	// than silently misparsing the rest of the value stream.
	attr := types.FAttr4{
		Mask: attrs.NewSet(14).Encode(),
		Vals: []byte{0, 0, 0, 0},
	}

	_, err := attrs.Decode(attr)
	require.Error(t, err)

	var unknownErr *attrs.UnknownAttrError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, 14, unknownErr.ID)
}

func TestFileAttrIsDir(t *testing.T) {
	a := &attrs.FileAttr{Type: types.NF4DIR}
	assert.True(t, a.IsDir())

	a.Type = types.NF4REG
	assert.False(t, a.IsDir())
}
