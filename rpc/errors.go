package rpc

import "fmt"

// DeniedError is returned when the server denies an RPC call outright,
// before it ever reaches the NFS program (bad RPC version or rejected
// credentials).
type DeniedError struct {
	Reject RejectedReply
}

func (e *DeniedError) Error() string {
	switch e.Reject.RejectStat {
	case RejectRPCMismatch:
		return fmt.Sprintf("rpc: version mismatch, server supports %d..%d", e.Reject.Mismatch.Low, e.Reject.Mismatch.High)
	case RejectAuthError:
		return fmt.Sprintf("rpc: auth rejected, code %d", e.Reject.AuthStat)
	default:
		return fmt.Sprintf("rpc: call denied, reject_stat %d", e.Reject.RejectStat)
	}
}

// AcceptError is returned when the server accepts the RPC call (auth
// succeeded) but cannot execute the procedure.
type AcceptError struct {
	Stat uint32
}

func (e *AcceptError) Error() string {
	switch e.Stat {
	case AcceptProgUnavail:
		return "rpc: program unavailable"
	case AcceptProgMismatch:
		return "rpc: program version mismatch"
	case AcceptProcUnavail:
		return "rpc: procedure unavailable"
	case AcceptGarbageArgs:
		return "rpc: server could not decode arguments"
	case AcceptSystemErr:
		return "rpc: system error"
	default:
		return fmt.Sprintf("rpc: accept_stat %d", e.Stat)
	}
}

// XidMismatchError is logged, not returned, when a reply's xid does not
// match the call it was read for; see the session client's Open Question
// decision on xid verification.
type XidMismatchError struct {
	Want, Got uint32
}

func (e *XidMismatchError) Error() string {
	return fmt.Sprintf("rpc: xid mismatch: want %d got %d", e.Want, e.Got)
}
