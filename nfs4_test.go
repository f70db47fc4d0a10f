package nfs4

import (
	"bytes"
	"encoding/binary"
	"net"
	"testing"
	"time"

	"github.com/nfsclient/nfs4/attrs"
	"github.com/nfsclient/nfs4/rpc"
	"github.com/nfsclient/nfs4/types"
	"github.com/nfsclient/nfs4/xdr"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// fakeServer drives the server side of a net.Conn pair, replying to each
// RPC call with a scripted COMPOUND reply. It never inspects the call
// payload beyond the fixed RPC header: each scripted opResult carries the
// opcode Reply.Next expects to see at that position, and the payload type
// to decode there.
type fakeServer struct {
	conn net.Conn
	t    *testing.T
}

func (s *fakeServer) nextXid() uint32 {
	s.t.Helper()

	var hdr [4]byte

	_, err := readFullTest(s.conn, hdr[:])
	require.NoError(s.t, err)

	frag := binary.BigEndian.Uint32(hdr[:]) &^ (1 << 31)

	buf := make([]byte, frag)
	_, err = readFullTest(s.conn, buf)
	require.NoError(s.t, err)

	dec := xdr.NewDecoder(bytes.NewReader(buf))

	var header rpc.CallHeader

	_, err = dec.Read(&header)
	require.NoError(s.t, err)

	return header.Xid
}

// opResult is one {opcode, status, payload?} entry of a scripted reply.
// Op must match the operation the client's Reply.Next expects at that
// position, since Next now verifies the echoed opcode.
type opResult struct {
	op      types.OperationId
	payload interface{} // nil for a void result
}

func (s *fakeServer) reply(xid uint32, tag string, results ...opResult) {
	s.t.Helper()

	var compoundBody bytes.Buffer

	enc := xdr.NewEncoder(&compoundBody)
	require.NoError(s.t, enc.EncodeAll(uint32(types.NFS4_OK), tag, uint32(len(results))))

	for _, r := range results {
		require.NoError(s.t, enc.EncodeAll(uint32(r.op), uint32(types.NFS4_OK)))

		if r.payload != nil {
			require.NoError(s.t, enc.Encode(r.payload))
		}
	}

	replyHeader := rpc.ReplyHeader{Xid: xid, MsgType: rpc.ReplyMsg, ReplyStat: rpc.MsgAccepted}
	accepted := rpc.AcceptedReply{Verf: rpc.NullAuth, AcceptStat: rpc.AcceptSuccess}

	body, err := xdr.Marshal(replyHeader, accepted)
	require.NoError(s.t, err)

	body = append(body, compoundBody.Bytes()...)

	var hdr [4]byte
	binary.BigEndian.PutUint32(hdr[:], uint32(len(body))|(1<<31))

	_, err = s.conn.Write(hdr[:])
	require.NoError(s.t, err)

	_, err = s.conn.Write(body)
	require.NoError(s.t, err)
}

func readFullTest(conn net.Conn, buf []byte) (int, error) {
	total := 0

	for total < len(buf) {
		n, err := conn.Read(buf[total:])
		total += n

		if err != nil {
			return total, err
		}
	}

	return total, nil
}

var testRootFH = types.FileHandle{0xf0, 0x0d}

func testRootAttr(t *testing.T) types.FAttr4 {
	t.Helper()

	built, err := attrs.NewBuilder().SetMode(0o755).Build()
	require.NoError(t, err)

	return built
}

var testSessionID = func() [16]byte {
	var id [16]byte
	copy(id[:], "0123456789abcdef")

	return id
}()

// serveHandshake plays the server side of Dial's EXCHANGE_ID,
// CREATE_SESSION, and RECLAIM_COMPLETE+PUTROOTFH+GETFH+GETATTR exchange.
func serveHandshake(t *testing.T, s *fakeServer) {
	t.Helper()

	xid := s.nextXid()
	s.reply(xid, "exchange_id", opResult{op: types.OP4_EXCHANGE_ID, payload: types.ExchangeIdResult{
		ClientId:    1,
		SequenceId:  1,
		ServerOwner: types.ServerOwner{MajorId: "fake-server"},
	}})

	xid = s.nextXid()
	s.reply(xid, "create_session", opResult{op: types.OP4_CREATE_SESSION, payload: types.CreateSessionResult{
		SessionId:  testSessionID,
		SequenceId: 1,
	}})

	xid = s.nextXid()
	s.reply(xid, "setup",
		opResult{op: types.OP4_SEQUENCE, payload: types.SequenceResult{SessionId: testSessionID, SequenceId: 1}},
		opResult{op: types.OP4_RECLAIM_COMPLETE},
		opResult{op: types.OP4_PUTROOTFH},
		opResult{op: types.OP4_GETFH, payload: types.GetFhResult{Fh: testRootFH}},
		opResult{op: types.OP4_GETATTR, payload: types.GetAttrResult{Attr: testRootAttr(t)}},
	)
}

func dialOverPipe(t *testing.T) (*Client, *fakeServer) {
	t.Helper()

	clientConn, serverConn := net.Pipe()

	server := &fakeServer{conn: serverConn, t: t}

	go serveHandshake(t, server)

	o := &options{
		dialTimeout:      time.Second,
		readWriteTimeout: 5 * time.Second,
		log:              logrus.NewEntry(logrus.StandardLogger()),
	}

	c, err := newClient(clientConn, o)
	require.NoError(t, err)

	return c, server
}

func TestDialHandshakeEstablishesRootAndSession(t *testing.T) {
	c, _ := dialOverPipe(t)
	defer c.rpc.Close() //nolint:errcheck

	require.Equal(t, testRootFH, c.RootHandle())
	require.Equal(t, testSessionID, c.sessionID)
	require.Equal(t, uint32(2), c.seqID) // setup compound's SEQUENCE result was SequenceId 1, so next is 2
}

func TestLookUpAfterHandshake(t *testing.T) {
	c, s := dialOverPipe(t)
	defer c.rpc.Close() //nolint:errcheck

	childFH := types.FileHandle{0xca, 0xfe}

	replyDone := make(chan struct{})

	go func() {
		defer close(replyDone)

		xid := s.nextXid()
		s.reply(xid, "lookup",
			opResult{op: types.OP4_SEQUENCE, payload: types.SequenceResult{SessionId: testSessionID, SequenceId: 2}},
			opResult{op: types.OP4_PUTFH},
			opResult{op: types.OP4_LOOKUP},
			opResult{op: types.OP4_GETFH, payload: types.GetFhResult{Fh: childFH}},
			opResult{op: types.OP4_GETATTR, payload: types.GetAttrResult{Attr: testRootAttr(t)}},
		)
	}()

	fh, attr, err := c.LookUp(c.RootHandle(), "bin")
	require.NoError(t, err)
	require.Equal(t, childFH, fh)
	require.NotNil(t, attr)

	<-replyDone
}

func TestRemoveAfterHandshake(t *testing.T) {
	c, s := dialOverPipe(t)
	defer c.rpc.Close() //nolint:errcheck

	replyDone := make(chan struct{})

	go func() {
		defer close(replyDone)

		xid := s.nextXid()
		s.reply(xid, "remove",
			opResult{op: types.OP4_SEQUENCE, payload: types.SequenceResult{SessionId: testSessionID, SequenceId: 2}},
			opResult{op: types.OP4_PUTFH},
			opResult{op: types.OP4_REMOVE, payload: types.RemoveResult{CInfo: types.ChangeInfo{Atomic: true, Before: 1, After: 2}}},
		)
	}()

	err := c.Remove(c.RootHandle(), "stale.txt")
	require.NoError(t, err)

	<-replyDone
}

func TestWriteAllEmptyDataStillIssuesOneWrite(t *testing.T) {
	c, s := dialOverPipe(t)
	defer c.rpc.Close() //nolint:errcheck

	replyDone := make(chan struct{})

	go func() {
		defer close(replyDone)

		xid := s.nextXid()
		s.reply(xid, "write",
			opResult{op: types.OP4_SEQUENCE, payload: types.SequenceResult{SessionId: testSessionID, SequenceId: 2}},
			opResult{op: types.OP4_PUTFH},
			opResult{op: types.OP4_WRITE, payload: types.WriteResult{Count: 0, Committed: types.FILE_SYNC4}},
		)
	}()

	err := c.WriteAll(testRootFH, nil)
	require.NoError(t, err)

	<-replyDone
}
