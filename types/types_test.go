package types_test

import (
	"bytes"
	"testing"

	"github.com/nfsclient/nfs4/types"
	"github.com/nfsclient/nfs4/xdr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeStatusKnown(t *testing.T) {
	s, err := types.DecodeStatus(0)
	require.NoError(t, err)
	assert.Equal(t, types.NFS4_OK, s)

	s, err = types.DecodeStatus(2)
	require.NoError(t, err)
	assert.Equal(t, types.NFS4ERR_NOENT, s)
	assert.Contains(t, s.Error(), "no such file")
}

func TestDecodeStatusUnknown(t *testing.T) {
	_, err := types.DecodeStatus(999999)
	require.Error(t, err)

	var unknownErr *types.UnknownStatusError
	assert.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, uint32(999999), unknownErr.Code)
}

func TestOperationIdString(t *testing.T) {
	assert.Equal(t, "putfh", types.OP4_PUTFH.String())
	assert.Equal(t, "readdir", types.OP4_READDIR.String())
	assert.Equal(t, "unknown", types.OperationId(0xfffe).String())
}

func TestStateIdRoundTrip(t *testing.T) {
	in := types.StateId{SeqId: 5, Other: [3]uint32{1, 2, 3}}

	var buf bytes.Buffer

	enc := xdr.NewEncoder(&buf)
	_, err := enc.Write(in)
	require.NoError(t, err)

	var out types.StateId

	dec := xdr.NewDecoder(&buf)
	_, err = dec.Read(&out)
	require.NoError(t, err)

	assert.Equal(t, in, out)
}

func TestAnonymousStateId(t *testing.T) {
	assert.Equal(t, uint32(0), types.AnonymousStateId.SeqId)
	assert.Equal(t, [3]uint32{0, 0, 0}, types.AnonymousStateId.Other)
}

func TestFhArgsRoundTrip(t *testing.T) {
	in := types.PutFhArgs{Fh: types.FileHandle{0xde, 0xad, 0xbe, 0xef}}

	var buf bytes.Buffer

	enc := xdr.NewEncoder(&buf)
	_, err := enc.Write(in)
	require.NoError(t, err)

	var out types.PutFhArgs

	dec := xdr.NewDecoder(&buf)
	_, err = dec.Read(&out)
	require.NoError(t, err)

	assert.Equal(t, in.Fh, out.Fh)
}
