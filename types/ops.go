package types

// Proc identifies an RPC procedure within the NFS program.
type Proc uint32

const (
	PROC4_NULL     = Proc(0)
	PROC4_COMPOUND = Proc(1)
)

// OperationId is the wire discriminant of one operation inside a COMPOUND
// request or reply. Values and gaps are exactly those of RFC 5661 minus
// the NFSv4.0-only operations the session model supersedes (OPEN_CONFIRM,
// RENEW, SETCLIENTID, SETCLIENTID_CONFIRM, RELEASE_LOCKOWNER).
type OperationId uint32

const (
	OP4_ACCESS          = OperationId(3)
	OP4_CLOSE           = OperationId(4)
	OP4_COMMIT          = OperationId(5)
	OP4_CREATE          = OperationId(6)
	OP4_DELEGPURGE      = OperationId(7)
	OP4_DELEGRETURN     = OperationId(8)
	OP4_GETATTR         = OperationId(9)
	OP4_GETFH           = OperationId(10)
	OP4_LINK            = OperationId(11)
	OP4_LOCK            = OperationId(12)
	OP4_LOCKT           = OperationId(13)
	OP4_LOCKU           = OperationId(14)
	OP4_LOOKUP          = OperationId(15)
	OP4_LOOKUPP         = OperationId(16)
	OP4_NVERIFY         = OperationId(17)
	OP4_OPEN            = OperationId(18)
	OP4_OPENATTR        = OperationId(19)
	OP4_OPEN_DOWNGRADE  = OperationId(21)
	OP4_PUTFH           = OperationId(22)
	OP4_PUTPUBFH        = OperationId(23)
	OP4_PUTROOTFH       = OperationId(24)
	OP4_READ            = OperationId(25)
	OP4_READDIR         = OperationId(26)
	OP4_READLINK        = OperationId(27)
	OP4_REMOVE          = OperationId(28)
	OP4_RENAME          = OperationId(29)
	OP4_RESTOREFH       = OperationId(31)
	OP4_SAVEFH          = OperationId(32)
	OP4_SECINFO         = OperationId(33)
	OP4_SETATTR         = OperationId(34)
	OP4_VERIFY          = OperationId(37)
	OP4_WRITE           = OperationId(38)

	OP4_BACKCHANNEL_CTL      = OperationId(40)
	OP4_BIND_CONN_TO_SESSION = OperationId(41)
	OP4_EXCHANGE_ID          = OperationId(42)
	OP4_CREATE_SESSION       = OperationId(43)
	OP4_DESTROY_SESSION      = OperationId(44)
	OP4_FREE_STATEID         = OperationId(45)
	OP4_GET_DIR_DELEGATION   = OperationId(46)
	OP4_GETDEVICEINFO        = OperationId(47)
	OP4_GETDEVICELIST        = OperationId(48)
	OP4_LAYOUTCOMMIT         = OperationId(49)
	OP4_LAYOUTGET            = OperationId(50)
	OP4_LAYOUTRETURN         = OperationId(51)
	OP4_SECINFO_NO_NAME      = OperationId(52)
	OP4_SEQUENCE             = OperationId(53)
	OP4_SET_SSV              = OperationId(54)
	OP4_TEST_STATEID         = OperationId(55)
	OP4_WANT_DELEGATION      = OperationId(56)
	OP4_DESTROY_CLIENTID     = OperationId(57)
	OP4_RECLAIM_COMPLETE     = OperationId(58)

	OP4_ALLOCATE       = OperationId(59)
	OP4_COPY           = OperationId(60)
	OP4_COPY_NOTIFY    = OperationId(61)
	OP4_DEALLOCATE     = OperationId(62)
	OP4_IO_ADVISE      = OperationId(63)
	OP4_LAYOUTERROR    = OperationId(64)
	OP4_LAYOUTSTATS    = OperationId(65)
	OP4_OFFLOAD_CANCEL = OperationId(66)
	OP4_OFFLOAD_STATUS = OperationId(67)
	OP4_READ_PLUS      = OperationId(68)
	OP4_SEEK           = OperationId(69)
	OP4_WRITE_SAME     = OperationId(70)
	OP4_CLONE          = OperationId(71)

	OP4_GETXATTR    = OperationId(72)
	OP4_SETXATTR    = OperationId(73)
	OP4_LISTXATTRS  = OperationId(74)
	OP4_REMOVEXATTR = OperationId(75)

	OP4_ILLEGAL = OperationId(10044)
)

var opNames = map[OperationId]string{
	OP4_ACCESS: "access", OP4_CLOSE: "close", OP4_COMMIT: "commit",
	OP4_CREATE: "create", OP4_DELEGPURGE: "delegpurge", OP4_DELEGRETURN: "delegreturn",
	OP4_GETATTR: "getattr", OP4_GETFH: "getfh", OP4_LINK: "link",
	OP4_LOCK: "lock", OP4_LOCKT: "lockt", OP4_LOCKU: "locku",
	OP4_LOOKUP: "lookup", OP4_LOOKUPP: "lookupp", OP4_NVERIFY: "nverify",
	OP4_OPEN: "open", OP4_OPENATTR: "openattr", OP4_OPEN_DOWNGRADE: "open_downgrade",
	OP4_PUTFH: "putfh", OP4_PUTPUBFH: "putpubfh", OP4_PUTROOTFH: "putrootfh",
	OP4_READ: "read", OP4_READDIR: "readdir", OP4_READLINK: "readlink",
	OP4_REMOVE: "remove", OP4_RENAME: "rename", OP4_RESTOREFH: "restorefh",
	OP4_SAVEFH: "savefh", OP4_SECINFO: "secinfo", OP4_SETATTR: "setattr",
	OP4_VERIFY: "verify", OP4_WRITE: "write",
	OP4_BACKCHANNEL_CTL: "backchannel_ctl", OP4_BIND_CONN_TO_SESSION: "bind_conn_to_session",
	OP4_EXCHANGE_ID: "exchange_id", OP4_CREATE_SESSION: "create_session",
	OP4_DESTROY_SESSION: "destroy_session", OP4_FREE_STATEID: "free_stateid",
	OP4_GET_DIR_DELEGATION: "get_dir_delegation", OP4_GETDEVICEINFO: "getdeviceinfo",
	OP4_GETDEVICELIST: "getdevicelist", OP4_LAYOUTCOMMIT: "layoutcommit",
	OP4_LAYOUTGET: "layoutget", OP4_LAYOUTRETURN: "layoutreturn",
	OP4_SECINFO_NO_NAME: "secinfo_no_name", OP4_SEQUENCE: "sequence",
	OP4_SET_SSV: "set_ssv", OP4_TEST_STATEID: "test_stateid",
	OP4_WANT_DELEGATION: "want_delegation", OP4_DESTROY_CLIENTID: "destroy_clientid",
	OP4_RECLAIM_COMPLETE: "reclaim_complete",
	OP4_ALLOCATE: "allocate", OP4_COPY: "copy", OP4_COPY_NOTIFY: "copy_notify",
	OP4_DEALLOCATE: "deallocate", OP4_IO_ADVISE: "io_advise", OP4_LAYOUTERROR: "layouterror",
	OP4_LAYOUTSTATS: "layoutstats", OP4_OFFLOAD_CANCEL: "offload_cancel",
	OP4_OFFLOAD_STATUS: "offload_status", OP4_READ_PLUS: "read_plus",
	OP4_SEEK: "seek", OP4_WRITE_SAME: "write_same", OP4_CLONE: "clone",
	OP4_GETXATTR: "getxattr", OP4_SETXATTR: "setxattr", OP4_LISTXATTRS: "listxattrs",
	OP4_REMOVEXATTR: "removexattr", OP4_ILLEGAL: "illegal",
}

func (op OperationId) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}

	return "unknown"
}
