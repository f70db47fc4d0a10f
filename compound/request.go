// Package compound builds NFSv4.1 COMPOUND requests and decodes their
// replies. A Request accumulates a tag and an ordered list of operations;
// Encode produces the COMPOUND4args wire form. A Reply walks the
// COMPOUND4res wire form op by op in the same order, handing each result
// to the caller through Next or the generic Decode helper.
package compound

import (
	"bytes"

	"github.com/nfsclient/nfs4/types"
	"github.com/nfsclient/nfs4/xdr"
)

const minorVersion = uint32(1)

type entry struct {
	op   types.OperationId
	args interface{}
}

// Request is a COMPOUND4args builder. Operations are appended in the
// order the server must execute them; PUTFH/PUTROOTFH/SAVEFH/RESTOREFH
// establish the current filehandle the operations after them act on.
type Request struct {
	tag string
	ops []entry
}

// New starts a Request tagged with tag, which appears verbatim in
// server logs and in the reply for correlation.
func New(tag string) *Request {
	return &Request{tag: tag}
}

// Append adds one operation with its already-typed arguments.
func (r *Request) Append(op types.OperationId, args interface{}) *Request {
	r.ops = append(r.ops, entry{op: op, args: args})

	return r
}

// Len reports how many operations have been appended.
func (r *Request) Len() int {
	return len(r.ops)
}

// Encode serializes the COMPOUND4args body: tag, minorversion, and the
// argarray of {opcode, opargs} pairs.
func (r *Request) Encode() ([]byte, error) {
	var buf bytes.Buffer

	enc := xdr.NewEncoder(&buf)

	if err := enc.EncodeAll(r.tag, minorVersion, uint32(len(r.ops))); err != nil {
		return nil, err
	}

	for _, e := range r.ops {
		if err := enc.EncodeAll(uint32(e.op), e.args); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}
