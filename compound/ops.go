package compound

import "github.com/nfsclient/nfs4/types"

// The functions in this file are thin, typed wrappers over Request.Append
// for the operations the session client and the high-level filesystem
// methods need. Each mirrors one arm of the teacher's doOperation
// dispatch, in the client's direction.

func (r *Request) PutRootFh() *Request {
	return r.Append(types.OP4_PUTROOTFH, types.Void{})
}

func (r *Request) PutFh(fh types.FileHandle) *Request {
	return r.Append(types.OP4_PUTFH, types.PutFhArgs{Fh: fh})
}

func (r *Request) GetFh() *Request {
	return r.Append(types.OP4_GETFH, types.Void{})
}

func (r *Request) SaveFh() *Request {
	return r.Append(types.OP4_SAVEFH, types.Void{})
}

func (r *Request) RestoreFh() *Request {
	return r.Append(types.OP4_RESTOREFH, types.Void{})
}

func (r *Request) LookUp(name string) *Request {
	return r.Append(types.OP4_LOOKUP, types.LookupArgs{ObjName: name})
}

func (r *Request) LookUpParent() *Request {
	return r.Append(types.OP4_LOOKUPP, types.Void{})
}

func (r *Request) GetAttr(attrSet []uint32) *Request {
	return r.Append(types.OP4_GETATTR, types.GetAttrArgs{AttrRequest: attrSet})
}

func (r *Request) SetAttr(stateID types.StateId, attrs types.FAttr4) *Request {
	return r.Append(types.OP4_SETATTR, types.SetAttrArgs{StateId: stateID, Attrs: attrs})
}

func (r *Request) Access(mask uint32) *Request {
	return r.Append(types.OP4_ACCESS, types.AccessArgs{Access: mask})
}

func (r *Request) Read(stateID types.StateId, offset uint64, count uint32) *Request {
	return r.Append(types.OP4_READ, types.ReadArgs{StateId: stateID, Offset: offset, Count: count})
}

func (r *Request) Write(stateID types.StateId, offset uint64, stable uint32, data []byte) *Request {
	return r.Append(types.OP4_WRITE, types.WriteArgs{StateId: stateID, Offset: offset, Stable: stable, Data: data})
}

func (r *Request) Commit(offset uint64, count uint32) *Request {
	return r.Append(types.OP4_COMMIT, struct {
		Offset uint64
		Count  uint32
	}{offset, count})
}

func (r *Request) ReadDir(args types.ReadDirArgs) *Request {
	return r.Append(types.OP4_READDIR, args)
}

func (r *Request) Remove(name string) *Request {
	return r.Append(types.OP4_REMOVE, types.RemoveArgs{Target: name})
}

func (r *Request) Rename(oldName, newName string) *Request {
	return r.Append(types.OP4_RENAME, types.RenameArgs{OldName: oldName, NewName: newName})
}

// Create appends a CREATE operation for a non-regular file type
// (directories, symlinks, device nodes). Regular files are created
// through Open, not Create.
func (r *Request) Create(args types.CreateArgs) *Request {
	return r.Append(types.OP4_CREATE, args)
}

func (r *Request) Open(args types.OpenArgs) *Request {
	return r.Append(types.OP4_OPEN, args)
}

func (r *Request) Close(seqID uint32, stateID types.StateId) *Request {
	return r.Append(types.OP4_CLOSE, types.CloseArgs{SeqId: seqID, OpenStateId: stateID})
}

func (r *Request) ExchangeId(args types.ExchangeIdArgs) *Request {
	return r.Append(types.OP4_EXCHANGE_ID, args)
}

func (r *Request) CreateSession(args types.CreateSessionArgs) *Request {
	return r.Append(types.OP4_CREATE_SESSION, args)
}

func (r *Request) Sequence(args types.SequenceArgs) *Request {
	return r.Append(types.OP4_SEQUENCE, args)
}

func (r *Request) ReclaimComplete(oneFs bool) *Request {
	return r.Append(types.OP4_RECLAIM_COMPLETE, types.ReclaimCompleteArgs{OneFs: oneFs})
}

func (r *Request) DestroySession(sessionID [16]byte) *Request {
	return r.Append(types.OP4_DESTROY_SESSION, sessionID)
}
