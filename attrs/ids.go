package attrs

// Attribute identifiers, per RFC 5661 section 5. Only the ids Decode can
// read, plus the two write-only set-time ids, are named; Decode returns
// UnknownAttrError for any other id present in a mask.
const (
	SupportedAttrs   = 0  // bitmap4
	Type             = 1  // nfs_ftype4, enum int
	FhExpireType     = 2  // uint32
	Change           = 3  // changeid4, uint64
	Size             = 4  // uint64
	LinkSupport      = 5  // bool
	SymlinkSupport   = 6  // bool
	NamedAttr        = 7  // bool
	Fsid             = 8  // fsid4
	UniqueHandles    = 9  // bool
	LeaseTime        = 10 // uint32
	RdattrError      = 11 // nfsstat4
	ACL              = 12 // nfsace4<>
	ACLSupport       = 13 // uint32
	CaseInsensitive  = 16
	CasePreserving   = 17
	ChownRestricted  = 18 // bool
	FileHandle       = 19 // opaque<>
	FileID           = 20 // uint64
	MaxName          = 29 // uint32
	MaxRead          = 30 // uint64
	MaxWrite         = 31 // uint64
	Mode             = 33 // uint32
	NoTrunc          = 34 // bool
	NumLinks         = 35 // uint32
	Owner            = 36 // string
	OwnerGroup       = 37 // string
	Rawdev           = 41 // specdata4
	SpaceUsed        = 45 // uint64
	TimeAccess       = 47 // nfstime4
	TimeAccessSet    = 48 // settime4, write-only: never appears in a GETATTR reply
	TimeMetadata     = 52 // nfstime4
	TimeModify       = 53 // nfstime4
	TimeModifySet    = 54 // settime4, write-only: never appears in a GETATTR reply
	MountedOnFileID  = 55 // uint64
	SuppAttrExclCreat = 75 // bitmap4
	XAttrSupport     = 82 // bool
)

var names = map[int]string{
	SupportedAttrs: "supported_attrs", Type: "type", FhExpireType: "fh_expire_type",
	Change: "change", Size: "size", LinkSupport: "link_support",
	SymlinkSupport: "symlink_support", NamedAttr: "named_attr", Fsid: "fsid",
	UniqueHandles: "unique_handles", LeaseTime: "lease_time", RdattrError: "rdattr_error",
	ACL: "acl", ACLSupport: "aclsupport", CaseInsensitive: "case_insensitive",
	CasePreserving: "case_preserving", ChownRestricted: "chown_restricted",
	FileHandle: "filehandle", FileID: "fileid", MaxName: "maxname",
	MaxRead: "maxread", MaxWrite: "maxwrite", Mode: "mode", NoTrunc: "no_trunc",
	NumLinks: "numlinks", Owner: "owner", OwnerGroup: "owner_group", Rawdev: "rawdev",
	SpaceUsed: "space_used", TimeAccess: "time_access", TimeAccessSet: "time_access_set",
	TimeMetadata: "time_metadata",
	TimeModify: "time_modify", TimeModifySet: "time_modify_set",
	MountedOnFileID: "mounted_on_fileid", SuppAttrExclCreat: "suppattr_exclcreat",
	XAttrSupport: "xattr_support",
}

// NameByID returns the conventional attribute name for id, or the empty
// string if this client has no name for it.
func NameByID(id int) string {
	if name, ok := names[id]; ok {
		return name
	}

	return ""
}

// GetAttrsSet is the attribute set requested by GetAttr: everything a
// caller of the high-level API can read back.
var GetAttrsSet = NewSet(
	Type, FhExpireType, Change, Size, Fsid, RdattrError, FileHandle, FileID,
	Mode, NumLinks, Owner, OwnerGroup, Rawdev, SpaceUsed, TimeAccess,
	TimeMetadata, TimeModify, MountedOnFileID,
)

// ReadDirAttrsSet is the attribute set requested alongside each READDIR
// entry.
var ReadDirAttrsSet = GetAttrsSet

// HandshakeAttrsSet is the attribute set requested by the handshake's
// root probe: GetAttrsSet plus the three ids the handshake records on
// Client (supported_attrs, max_read, max_write) to drive later calls.
var HandshakeAttrsSet = NewSet(
	Type, FhExpireType, Change, Size, Fsid, RdattrError, FileHandle, FileID,
	Mode, NumLinks, Owner, OwnerGroup, Rawdev, SpaceUsed, TimeAccess,
	TimeMetadata, TimeModify, MountedOnFileID, SupportedAttrs, MaxRead, MaxWrite,
)
