package rpc

import (
	"bytes"

	"github.com/nfsclient/nfs4/xdr"
)

// SysCred is an AUTH_SYS (RFC 5531 section 9.2) credential body. It is
// the mirror image of the teacher's credential decoder: this client
// writes the fields a server there would parse with Decode.
type SysCred struct {
	Stamp            uint32
	Hostname         string
	UID              uint32
	GID              uint32
	AdditionalGroups []uint32
}

// Encode serializes the credential body without the opaque_auth framing
// that wraps it (callers pack the result into Auth.Body).
func (c *SysCred) Encode() ([]byte, error) {
	var buf bytes.Buffer

	enc := xdr.NewEncoder(&buf)

	if err := enc.EncodeAll(c.Stamp, c.Hostname, c.UID, c.GID, c.AdditionalGroups); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// NullAuth is the zero-length AUTH_NONE verifier this client sends
// alongside its AUTH_SYS credential; NFSv4.1 session security is
// carried by the session id and slot sequencing, not by RPC verifiers.
var NullAuth = Auth{Flavor: AuthFlavorNull, Body: []byte{}}
