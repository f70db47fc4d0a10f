package compound

import (
	"bytes"
	"fmt"

	"github.com/nfsclient/nfs4/types"
	"github.com/nfsclient/nfs4/xdr"
)

// Reply walks a decoded COMPOUND4res body one operation at a time, in
// the same order the Request appended them.
type Reply struct {
	Status types.Status
	Tag    string

	dec       *xdr.Decoder
	remaining int
}

// DecodeReply parses the COMPOUND4res header (status, tag, resarray
// length) out of the raw bytes following a successful RPC accept_stat.
func DecodeReply(data []byte) (*Reply, error) {
	dec := xdr.NewDecoder(bytes.NewReader(data))

	var rawStatus uint32

	if err := dec.Decode(&rawStatus); err != nil {
		return nil, fmt.Errorf("decode compound status: %w", err)
	}

	status, err := types.DecodeStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	var tag string

	if err := dec.Decode(&tag); err != nil {
		return nil, fmt.Errorf("decode compound tag: %w", err)
	}

	var n uint32

	if err := dec.Decode(&n); err != nil {
		return nil, fmt.Errorf("decode compound resarray length: %w", err)
	}

	return &Reply{Status: status, Tag: tag, dec: dec, remaining: int(n)}, nil
}

// Next decodes the header of the next operation result (its opcode and
// status), checks that opcode against op (the operation the caller
// expects to find at this position, in the same order it appended them
// to the Request), and, if the operation succeeded, decodes its result
// payload into out. out may be nil for operations whose success carries
// no extra data (PUTFH, SAVEFH, RESTOREFH); for an operation that does
// return data, a nil out leaves that payload unread in the stream, which
// is only harmless for the last result in the reply. A failed operation (status != NFS4_OK) never has a
// result payload on the wire, matching the server's OperationResponse
// behavior of writing nothing after a non-OK status.
//
// A reply whose operation order doesn't match the request it answers —
// a wire-corrupted reply, or a server that skipped/reordered an
// operation — is never silently decoded into the wrong struct: it
// raises CompoundMismatchError instead.
func (r *Reply) Next(op types.OperationId, out interface{}) (types.Status, error) {
	if r.remaining <= 0 {
		return 0, fmt.Errorf("compound: no more operation results")
	}

	r.remaining--

	var rawOp, rawStatus uint32

	if err := r.dec.DecodeAll(&rawOp, &rawStatus); err != nil {
		return 0, fmt.Errorf("decode operation result header: %w", err)
	}

	gotOp := types.OperationId(rawOp)
	if gotOp != op {
		return 0, &CompoundMismatchError{Expected: op, Got: gotOp}
	}

	status, err := types.DecodeStatus(rawStatus)
	if err != nil {
		return 0, err
	}

	if status != types.NFS4_OK {
		return status, &OperationError{Op: op, Status: status}
	}

	if out == nil {
		return status, nil
	}

	if err := r.dec.Decode(out); err != nil {
		return status, fmt.Errorf("decode %s result: %w", op, err)
	}

	return status, nil
}

// Skip consumes the next operation result's header without decoding its
// payload, for operations the caller appended only for their side effect
// (SAVEFH, RESTOREFH). A payload, if the operation returns one, is left
// unread, as with Next and a nil out.
func (r *Reply) Skip(op types.OperationId) (types.Status, error) {
	return r.Next(op, nil)
}

// Finish reports an error if the Reply still has unconsumed operation
// results. Every fs.go/handshake.go method calls this once it has
// walked every result it expects, so a reply with more results than the
// request had operations (a mistyped or truncated decode having run
// short of the actual resarray) is never silently left partially read.
func (r *Reply) Finish() error {
	if r.remaining != 0 {
		return fmt.Errorf("compound: %d unconsumed operation result(s)", r.remaining)
	}

	return nil
}

// OperationError reports that one operation inside a COMPOUND failed.
// The operations appended after it in the Request never ran.
type OperationError struct {
	Op     types.OperationId
	Status types.Status
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("nfs4: %s: %s", e.Op, e.Status.Error())
}

func (e *OperationError) Unwrap() error {
	return e.Status
}

// CompoundMismatchError reports that a COMPOUND reply's next operation
// result didn't match the operation the caller expected at that
// position in the resarray.
type CompoundMismatchError struct {
	Expected types.OperationId
	Got      types.OperationId
}

func (e *CompoundMismatchError) Error() string {
	return fmt.Sprintf("nfs4: compound reply mismatch: expected %s, got %s", e.Expected, e.Got)
}

// Decode is a generic convenience wrapper around Reply.Next for
// operations whose result type is known at the call site.
func Decode[T any](r *Reply, op types.OperationId) (T, types.Status, error) {
	var out T

	status, err := r.Next(op, &out)

	return out, status, err
}
