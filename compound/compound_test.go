package compound_test

import (
	"bytes"
	"testing"

	"github.com/nfsclient/nfs4/compound"
	"github.com/nfsclient/nfs4/types"
	"github.com/nfsclient/nfs4/xdr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestEncode(t *testing.T) {
	req := compound.New("lookup")
	req.PutRootFh().LookUp("bin").GetFh()

	assert.Equal(t, 3, req.Len())

	data, err := req.Encode()
	require.NoError(t, err)

	dec := xdr.NewDecoder(bytes.NewReader(data))

	var tag string

	require.NoError(t, dec.Decode(&tag))
	assert.Equal(t, "lookup", tag)

	var minorVersion, numOps uint32

	require.NoError(t, dec.Decode(&minorVersion))
	assert.Equal(t, uint32(1), minorVersion)

	require.NoError(t, dec.Decode(&numOps))
	assert.Equal(t, uint32(3), numOps)

	var opcode uint32

	require.NoError(t, dec.Decode(&opcode))
	assert.Equal(t, uint32(types.OP4_PUTROOTFH), opcode)
}

// fakeCompoundReply builds the raw COMPOUND4res bytes a server would send,
// for DecodeReply/Reply.Next to walk.
func fakeCompoundReply(t *testing.T, tag string, results ...func(*xdr.Encoder) (types.OperationId, types.Status)) []byte {
	t.Helper()

	var buf bytes.Buffer

	enc := xdr.NewEncoder(&buf)
	require.NoError(t, enc.EncodeAll(uint32(types.NFS4_OK), tag, uint32(len(results))))

	for _, r := range results {
		op, status := r(enc)
		require.NoError(t, enc.EncodeAll(uint32(op), uint32(status)))
	}

	return buf.Bytes()
}

func TestReplyNextSuccess(t *testing.T) {
	data := fakeCompoundReply(t, "lookup",
		func(e *xdr.Encoder) (types.OperationId, types.Status) {
			return types.OP4_PUTROOTFH, types.NFS4_OK
		},
		func(e *xdr.Encoder) (types.OperationId, types.Status) {
			return types.OP4_GETFH, types.NFS4_OK
		},
	)

	// Patch in a GETFH result payload after its header, since
	// fakeCompoundReply only writes {opcode, status} pairs.
	fhResult := types.GetFhResult{Fh: types.FileHandle{1, 2, 3}}

	var tail bytes.Buffer

	enc := xdr.NewEncoder(&tail)
	require.NoError(t, enc.Encode(fhResult))

	data = append(data, tail.Bytes()...)

	reply, err := compound.DecodeReply(data)
	require.NoError(t, err)
	assert.Equal(t, types.NFS4_OK, reply.Status)
	assert.Equal(t, "lookup", reply.Tag)

	status, err := reply.Next(types.OP4_PUTROOTFH, nil)
	require.NoError(t, err)
	assert.Equal(t, types.NFS4_OK, status)

	fh, status, err := compound.Decode[types.GetFhResult](reply, types.OP4_GETFH)
	require.NoError(t, err)
	assert.Equal(t, types.NFS4_OK, status)
	assert.Equal(t, types.FileHandle{1, 2, 3}, fh.Fh)

	require.NoError(t, reply.Finish())
}

func TestReplyNextMismatch(t *testing.T) {
	data := fakeCompoundReply(t, "lookup",
		func(e *xdr.Encoder) (types.OperationId, types.Status) {
			return types.OP4_PUTROOTFH, types.NFS4_OK
		},
	)

	reply, err := compound.DecodeReply(data)
	require.NoError(t, err)

	_, err = reply.Next(types.OP4_GETFH, nil)
	require.Error(t, err)

	var mismatch *compound.CompoundMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, types.OP4_GETFH, mismatch.Expected)
	assert.Equal(t, types.OP4_PUTROOTFH, mismatch.Got)
}

func TestReplyNextOperationError(t *testing.T) {
	var buf bytes.Buffer

	enc := xdr.NewEncoder(&buf)
	require.NoError(t, enc.EncodeAll(uint32(types.NFS4ERR_NOENT), "lookup", uint32(1)))
	require.NoError(t, enc.EncodeAll(uint32(types.OP4_LOOKUP), uint32(types.NFS4ERR_NOENT)))

	reply, err := compound.DecodeReply(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, types.NFS4ERR_NOENT, reply.Status)

	_, err = reply.Next(types.OP4_LOOKUP, nil)
	require.Error(t, err)

	var opErr *compound.OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, types.OP4_LOOKUP, opErr.Op)
	assert.Equal(t, types.NFS4ERR_NOENT, opErr.Status)
}

func TestReplyNextExhausted(t *testing.T) {
	var buf bytes.Buffer

	enc := xdr.NewEncoder(&buf)
	require.NoError(t, enc.EncodeAll(uint32(types.NFS4_OK), "empty", uint32(0)))

	reply, err := compound.DecodeReply(buf.Bytes())
	require.NoError(t, err)

	_, err = reply.Next(types.OP4_PUTROOTFH, nil)
	assert.Error(t, err)
}
