package nfs4

import (
	"fmt"

	"github.com/nfsclient/nfs4/attrs"
	"github.com/nfsclient/nfs4/compound"
	"github.com/nfsclient/nfs4/types"
)

// foreChannelAttrs are the forechannel attributes this client proposes
// in CREATE_SESSION for the channel it sends COMPOUND requests over.
var foreChannelAttrs = types.ChannelAttrs{
	HeaderPadSize:         0,
	MaxRequestSize:        1049620,
	MaxResponseSize:       1049480,
	MaxResponseSizeCached: 7584,
	MaxOperations:         16,
	MaxRequests:           64,
}

// backChannelAttrs are the backchannel attributes this client proposes.
// The client never serves callbacks, but CREATE_SESSION still requires
// a backchannel to be negotiated, so these are the nominal, much
// smaller numbers a callback-less client offers.
var backChannelAttrs = types.ChannelAttrs{
	HeaderPadSize:         0,
	MaxRequestSize:        4096,
	MaxResponseSize:       4096,
	MaxResponseSizeCached: 0,
	MaxOperations:         16,
	MaxRequests:           16,
}

// nfsCallbackProgram is the well-known RPC program number a server uses
// to call back to an NFSv4.1 client (NFS_CB).
const nfsCallbackProgram = 0x40000000

// handshake performs EXCHANGE_ID, CREATE_SESSION, and an initial
// sequenced COMPOUND of RECLAIM_COMPLETE + PUTROOTFH + GETATTR to
// confirm the session and resolve the export's root file handle.
func (c *Client) handshake() error {
	if err := c.exchangeID(); err != nil {
		return fmt.Errorf("nfs4: exchange_id: %w", err)
	}

	if err := c.createSession(); err != nil {
		return fmt.Errorf("nfs4: create_session: %w", err)
	}

	if err := c.reclaimCompleteAndProbeRoot(); err != nil {
		return fmt.Errorf("nfs4: session setup: %w", err)
	}

	return nil
}

func (c *Client) exchangeID() error {
	req := compound.New("exchange_id").ExchangeId(types.ExchangeIdArgs{
		ClientOwner: types.ClientOwner{
			Verifier: bootVerifier,
			OwnerId:  clientOwnerID(),
		},
		Flags: 0,
		StateProtect: types.StateProtect4{
			How:  types.SP4_NONE,
			Void: types.Void{},
		},
	})

	reply, err := c.send(req)
	if err != nil {
		return err
	}

	result, _, err := compound.Decode[types.ExchangeIdResult](reply, types.OP4_EXCHANGE_ID)
	if err != nil {
		return err
	}

	if err := reply.Finish(); err != nil {
		return err
	}

	c.clientID = result.ClientId
	c.seqID = result.SequenceId

	return nil
}

func (c *Client) createSession() error {
	req := compound.New("create_session").CreateSession(types.CreateSessionArgs{
		ClientId:      c.clientID,
		SequenceId:    c.seqID,
		Flags:         0,
		ForeChanAttrs: foreChannelAttrs,
		BackChanAttrs: backChannelAttrs,
		CbProgram:     nfsCallbackProgram,
		SecParms:      nil,
	})

	reply, err := c.send(req)
	if err != nil {
		return err
	}

	result, _, err := compound.Decode[types.CreateSessionResult](reply, types.OP4_CREATE_SESSION)
	if err != nil {
		return err
	}

	if err := reply.Finish(); err != nil {
		return err
	}

	c.sessionID = result.SessionId
	// The first SEQUENCE op on a freshly created session always uses
	// sequence id 1 for slot 0, regardless of the client's exchange_id
	// sequence id (RFC 5661 section 18.36).
	c.seqID = 1

	return nil
}

func (c *Client) reclaimCompleteAndProbeRoot() error {
	req := c.newRequest("setup")
	req.ReclaimComplete(false).PutRootFh().GetFh().GetAttr(attrs.HandshakeAttrsSet.Encode())

	reply, err := c.sendSequenced(req)
	if err != nil {
		return err
	}

	if _, err := reply.Next(types.OP4_RECLAIM_COMPLETE, nil); err != nil {
		return err
	}

	if _, err := reply.Next(types.OP4_PUTROOTFH, nil); err != nil {
		return err
	}

	fhResult, _, err := compound.Decode[types.GetFhResult](reply, types.OP4_GETFH)
	if err != nil {
		return err
	}

	attrResult, _, err := compound.Decode[types.GetAttrResult](reply, types.OP4_GETATTR)
	if err != nil {
		return err
	}

	if err := reply.Finish(); err != nil {
		return err
	}

	attr, err := attrs.Decode(attrResult.Attr)
	if err != nil {
		return err
	}

	c.rootFH = fhResult.Fh
	c.supportedAttrs = attr.SupportedAttrs

	c.maxRead = defaultChunkSize
	if attr.MaxRead != nil {
		c.maxRead = *attr.MaxRead
	}

	c.maxWrite = defaultChunkSize
	if attr.MaxWrite != nil {
		c.maxWrite = *attr.MaxWrite
	}

	return nil
}
