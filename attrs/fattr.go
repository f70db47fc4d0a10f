package attrs

import (
	"bytes"
	"sort"

	"github.com/nfsclient/nfs4/clock"
	"github.com/nfsclient/nfs4/types"
	"github.com/nfsclient/nfs4/xdr"
)

// FileAttr is the typed view of a decoded FAttr4, holding only the
// attributes this client ever asks for. Pointer fields are nil when the
// server didn't return that attribute.
type FileAttr struct {
	Type            uint32
	FhExpireType    uint32
	Change          uint64
	Size            *uint64
	Fsid            *types.Fsid
	RdattrError     uint32
	FileHandle      []byte
	FileID          uint64
	Mode            *uint32
	NumLinks        uint32
	Owner           string
	OwnerGroup      string
	Rawdev          *types.Specdata
	SpaceUsed       uint64
	TimeAccess      *types.Time
	TimeMetadata    *types.Time
	TimeModify      *types.Time
	MountedOnFileID uint64
	SupportedAttrs  Set
	MaxRead         *uint64
	MaxWrite        *uint64
}

// IsDir reports whether the decoded type attribute is NF4DIR.
func (a *FileAttr) IsDir() bool {
	return a.Type == types.NF4DIR
}

// Decode unpacks the wire FAttr4's bitmap and concatenated values into a
// typed FileAttr. Unknown attribute ids present in the mask are skipped
// over by their own self-describing XDR shape only when this client
// knows how to size them; otherwise decoding stops and returns an error,
// since there is no generic "skip an opaque attribute of unknown type"
// rule in the protocol.
func Decode(attr types.FAttr4) (*FileAttr, error) { //nolint:gocyclo
	out := &FileAttr{}

	set := DecodeSet(attr.Mask)

	maxID := 0

	for id, on := range set {
		if on && id > maxID {
			maxID = id
		}
	}

	d := xdr.NewDecoder(bytes.NewReader(attr.Vals))

	for id := 0; id <= maxID; id++ {
		if !set[id] {
			continue
		}

		switch id {
		case SupportedAttrs:
			var v []uint32
			if _, err := d.Read(&v); err != nil {
				return nil, err
			}

			out.SupportedAttrs = DecodeSet(v)

		case SuppAttrExclCreat:
			var v []uint32
			if _, err := d.Read(&v); err != nil {
				return nil, err
			}

		case Type:
			if _, err := d.Read(&out.Type); err != nil {
				return nil, err
			}

		case FhExpireType:
			if _, err := d.Read(&out.FhExpireType); err != nil {
				return nil, err
			}

		case Change:
			if _, err := d.Read(&out.Change); err != nil {
				return nil, err
			}

		case Size:
			var v uint64
			if _, err := d.Read(&v); err != nil {
				return nil, err
			}

			out.Size = &v

		case LinkSupport, SymlinkSupport, NamedAttr, UniqueHandles,
			CaseInsensitive, CasePreserving, ChownRestricted, NoTrunc,
			XAttrSupport:
			var v bool
			if _, err := d.Read(&v); err != nil {
				return nil, err
			}

		case Fsid:
			var v types.Fsid
			if _, err := d.Read(&v); err != nil {
				return nil, err
			}

			out.Fsid = &v

		case LeaseTime:
			var v uint32
			if _, err := d.Read(&v); err != nil {
				return nil, err
			}

		case RdattrError:
			if _, err := d.Read(&out.RdattrError); err != nil {
				return nil, err
			}

		case ACL:
			var v []types.NfsAce4
			if _, err := d.Read(&v); err != nil {
				return nil, err
			}

		case ACLSupport:
			var v uint32
			if _, err := d.Read(&v); err != nil {
				return nil, err
			}

		case FileHandle:
			var v []byte
			if _, err := d.Read(&v); err != nil {
				return nil, err
			}

			out.FileHandle = v

		case FileID:
			if _, err := d.Read(&out.FileID); err != nil {
				return nil, err
			}

		case MaxName:
			var v uint32
			if _, err := d.Read(&v); err != nil {
				return nil, err
			}

		case MaxRead:
			var v uint64
			if _, err := d.Read(&v); err != nil {
				return nil, err
			}

			out.MaxRead = &v

		case MaxWrite:
			var v uint64
			if _, err := d.Read(&v); err != nil {
				return nil, err
			}

			out.MaxWrite = &v

		case Mode:
			var v uint32
			if _, err := d.Read(&v); err != nil {
				return nil, err
			}

			out.Mode = &v

		case NumLinks:
			if _, err := d.Read(&out.NumLinks); err != nil {
				return nil, err
			}

		case Owner:
			if _, err := d.Read(&out.Owner); err != nil {
				return nil, err
			}

		case OwnerGroup:
			if _, err := d.Read(&out.OwnerGroup); err != nil {
				return nil, err
			}

		case Rawdev:
			var v types.Specdata
			if _, err := d.Read(&v); err != nil {
				return nil, err
			}

			out.Rawdev = &v

		case SpaceUsed:
			if _, err := d.Read(&out.SpaceUsed); err != nil {
				return nil, err
			}

		case TimeAccess, TimeMetadata, TimeModify:
			var v types.Time
			if _, err := d.Read(&v); err != nil {
				return nil, err
			}

			switch id {
			case TimeAccess:
				out.TimeAccess = &v
			case TimeMetadata:
				out.TimeMetadata = &v
			case TimeModify:
				out.TimeModify = &v
			}

		case MountedOnFileID:
			if _, err := d.Read(&out.MountedOnFileID); err != nil {
				return nil, err
			}

		default:
			// An attribute this client never requests should never appear
			// in a reply's mask; if a server sends one anyway there is no
			// safe way to size-skip it.
			return nil, &UnknownAttrError{ID: id}
		}
	}

	return out, nil
}

// UnknownAttrError is returned by Decode when the server's reply mask
// names an attribute id this client has no decoder for.
type UnknownAttrError struct {
	ID int
}

func (e *UnknownAttrError) Error() string {
	name := NameByID(e.ID)
	if name == "" {
		name = "unknown"
	}

	return "attrs: cannot decode attribute " + name
}

// Builder assembles an FAttr4 for use in CREATE/OPEN createattrs or
// SETATTR. Values are staged by attribute id and serialized in ascending
// id order on Build, regardless of the order the Set* methods were
// called in, since the wire format requires that ordering.
type Builder struct {
	values map[int]interface{}
}

// NewBuilder returns an empty attribute Builder.
func NewBuilder() *Builder {
	return &Builder{values: map[int]interface{}{}}
}

// SetMode stages the mode attribute.
func (b *Builder) SetMode(mode uint32) *Builder {
	b.values[Mode] = mode

	return b
}

// SetSize stages the size attribute.
func (b *Builder) SetSize(size uint64) *Builder {
	b.values[Size] = size

	return b
}

// SetOwner stages the owner attribute.
func (b *Builder) SetOwner(owner string) *Builder {
	b.values[Owner] = owner

	return b
}

// SetOwnerGroup stages the owner_group attribute.
func (b *Builder) SetOwnerGroup(group string) *Builder {
	b.values[OwnerGroup] = group

	return b
}

// SetTimeModify stages a client-supplied modify time.
func (b *Builder) SetTimeModify(t types.Time) *Builder {
	b.values[TimeModify] = t

	return b
}

// SetTimeModifyNow stages the current time as the modify time.
func (b *Builder) SetTimeModifyNow() *Builder {
	now := clock.Now()

	return b.SetTimeModify(types.Time{
		Seconds:  uint64(now.Unix()),
		NSeconds: uint32(now.Nanosecond()),
	})
}

// Build serializes the staged attributes into an FAttr4, writing values
// in ascending attribute-id order.
func (b *Builder) Build() (types.FAttr4, error) {
	ids := make([]int, 0, len(b.values))
	for id := range b.values {
		ids = append(ids, id)
	}

	sort.Ints(ids)

	set := Set{}

	var buf bytes.Buffer

	enc := xdr.NewEncoder(&buf)

	for _, id := range ids {
		set[id] = true

		if _, err := enc.Write(b.values[id]); err != nil {
			return types.FAttr4{}, err
		}
	}

	return types.FAttr4{Mask: set.Encode(), Vals: buf.Bytes()}, nil
}
