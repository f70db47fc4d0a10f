package nfs4

import (
	"fmt"
	"math"
	"strings"

	"github.com/nfsclient/nfs4/attrs"
	"github.com/nfsclient/nfs4/compound"
	"github.com/nfsclient/nfs4/types"
)

// DirEntry is one entry returned by ReadDir.
type DirEntry struct {
	Name string
	Attr *attrs.FileAttr
}

// LookUp resolves path, a "/"-separated sequence of one or more name
// components (e.g. "files/a_file"), starting from the directory
// identified by dir. It issues one LOOKUP per component inside a
// single COMPOUND, ending with GETFH/GETATTR on the final component,
// and returns that component's file handle and attributes.
func (c *Client) LookUp(dir types.FileHandle, path string) (types.FileHandle, *attrs.FileAttr, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	components := splitPathComponents(path)

	req := c.newRequest("lookup")
	req.PutFh(dir)

	for _, name := range components {
		req.LookUp(name)
	}

	req.GetFh().GetAttr(c.getAttrBitmap())

	reply, err := c.sendSequenced(req)
	if err != nil {
		return nil, nil, err
	}

	if _, err := reply.Next(types.OP4_PUTFH, nil); err != nil {
		return nil, nil, err
	}

	for range components {
		if _, err := reply.Next(types.OP4_LOOKUP, nil); err != nil {
			return nil, nil, err
		}
	}

	fh, _, err := compound.Decode[types.GetFhResult](reply, types.OP4_GETFH)
	if err != nil {
		return nil, nil, err
	}

	attr, err := c.decodeGetAttr(reply)
	if err != nil {
		return nil, nil, err
	}

	if err := reply.Finish(); err != nil {
		return nil, nil, err
	}

	return fh.Fh, attr, nil
}

// splitPathComponents splits path on "/" and drops empty and "."
// segments, so "/a/b/c", "a//b/c", and "a/./b/c/" all resolve to the
// same walk of components {"a", "b", "c"}.
func splitPathComponents(path string) []string {
	parts := strings.Split(path, "/")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		if p == "" || p == "." {
			continue
		}

		out = append(out, p)
	}

	return out
}

// GetAttr fetches the attributes of fh.
func (c *Client) GetAttr(fh types.FileHandle) (*attrs.FileAttr, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	req := c.newRequest("getattr")
	req.PutFh(fh).GetAttr(c.getAttrBitmap())

	reply, err := c.sendSequenced(req)
	if err != nil {
		return nil, err
	}

	if _, err := reply.Next(types.OP4_PUTFH, nil); err != nil {
		return nil, err
	}

	attr, err := c.decodeGetAttr(reply)
	if err != nil {
		return nil, err
	}

	if err := reply.Finish(); err != nil {
		return nil, err
	}

	return attr, nil
}

func (c *Client) decodeGetAttr(reply *compound.Reply) (*attrs.FileAttr, error) {
	result, _, err := compound.Decode[types.GetAttrResult](reply, types.OP4_GETATTR)
	if err != nil {
		return nil, err
	}

	return attrs.Decode(result.Attr)
}

// defaultChunkSize is the READ/WRITE chunk size used before the
// handshake has negotiated max_read/max_write, and as a ceiling on a
// negotiated value too large to fit a uint32 count.
const defaultChunkSize = 1 << 20

// readChunkSize is the largest count ReadAll asks for in one READ,
// taken from the handshake's negotiated max_read.
func (c *Client) readChunkSize() uint32 {
	return boundedChunkSize(c.maxRead)
}

// writeChunkSize bounds a single WRITE operation's payload, taken from
// the handshake's negotiated max_write.
func (c *Client) writeChunkSize() uint32 {
	return boundedChunkSize(c.maxWrite)
}

func boundedChunkSize(negotiated uint64) uint32 {
	if negotiated == 0 {
		return defaultChunkSize
	}

	if negotiated > math.MaxUint32 {
		return defaultChunkSize
	}

	return uint32(negotiated)
}

// ReadAll reads the entire contents of the regular file identified by fh.
func (c *Client) ReadAll(fh types.FileHandle) ([]byte, error) {
	var out []byte

	offset := uint64(0)
	chunk := c.readChunkSize()

	for {
		data, eof, err := c.read(fh, offset, chunk)
		if err != nil {
			return nil, err
		}

		out = append(out, data...)
		offset += uint64(len(data))

		if eof || len(data) == 0 {
			return out, nil
		}
	}
}

func (c *Client) read(fh types.FileHandle, offset uint64, count uint32) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	req := c.newRequest("read")
	req.PutFh(fh).Read(types.AnonymousStateId, offset, count)

	reply, err := c.sendSequenced(req)
	if err != nil {
		return nil, false, err
	}

	if _, err := reply.Next(types.OP4_PUTFH, nil); err != nil {
		return nil, false, err
	}

	result, _, err := compound.Decode[types.ReadResult](reply, types.OP4_READ)
	if err != nil {
		return nil, false, err
	}

	if err := reply.Finish(); err != nil {
		return nil, false, err
	}

	return result.Data, result.Eof, nil
}

// WriteAll writes data to the regular file identified by fh, overwriting
// the bytes at offsets 0 through len(data)-1 and extending the file if it
// was shorter. It does not truncate: content past len(data) is left in
// place, and the file's size attribute is not set.
func (c *Client) WriteAll(fh types.FileHandle, data []byte) error {
	chunk := uint64(c.writeChunkSize())
	offset := uint64(0)

	for offset < uint64(len(data)) {
		end := offset + chunk
		if end > uint64(len(data)) {
			end = uint64(len(data))
		}

		n, err := c.write(fh, offset, data[offset:end])
		if err != nil {
			return err
		}

		if n == 0 {
			return fmt.Errorf("nfs4: write: server accepted 0 bytes")
		}

		offset += uint64(n)
	}

	if len(data) == 0 {
		_, err := c.write(fh, 0, nil)

		return err
	}

	return nil
}

func (c *Client) write(fh types.FileHandle, offset uint64, data []byte) (uint32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	req := c.newRequest("write")
	req.PutFh(fh).Write(types.AnonymousStateId, offset, types.FILE_SYNC4, data)

	reply, err := c.sendSequenced(req)
	if err != nil {
		return 0, err
	}

	if _, err := reply.Next(types.OP4_PUTFH, nil); err != nil {
		return 0, err
	}

	result, _, err := compound.Decode[types.WriteResult](reply, types.OP4_WRITE)
	if err != nil {
		return 0, err
	}

	if err := reply.Finish(); err != nil {
		return 0, err
	}

	return result.Count, nil
}

// CreateFile creates a new regular file named name inside dir with the
// given POSIX permission bits, and returns its file handle.
func (c *Client) CreateFile(dir types.FileHandle, name string, mode uint32) (types.FileHandle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	createAttrs, err := attrs.NewBuilder().SetMode(mode).Build()
	if err != nil {
		return nil, err
	}

	req := c.newRequest("create_file")
	req.PutFh(dir).Open(types.OpenArgs{
		SeqId:       0,
		ShareAccess: types.OPEN4_SHARE_ACCESS_BOTH,
		ShareDeny:   types.OPEN4_SHARE_DENY_NONE,
		Owner: types.OpenOwner4{
			ClientId: c.clientID,
			Owner:    clientOwnerID(),
		},
		OpenHow: types.OpenHow4{
			How: types.OPEN4_CREATE,
			Claim: types.CreateHow4{
				CreateMode:           types.UNCHECKED4,
				CreateAttrsUnchecked: createAttrs,
			},
		},
		OpenClaim: types.OpenClaim4{
			Claim: types.CLAIM_NULL,
			File:  name,
		},
	}).GetFh()

	reply, err := c.sendSequenced(req)
	if err != nil {
		return nil, err
	}

	if _, err := reply.Next(types.OP4_PUTFH, nil); err != nil {
		return nil, err
	}

	openResult, _, err := compound.Decode[types.OpenResult](reply, types.OP4_OPEN)
	if err != nil {
		return nil, err
	}

	fh, _, err := compound.Decode[types.GetFhResult](reply, types.OP4_GETFH)
	if err != nil {
		return nil, err
	}

	if err := reply.Finish(); err != nil {
		return nil, err
	}

	// The file now has open state the server is tracking under
	// openResult.StateId. This client never issues further I/O under
	// that state (reads and writes use the anonymous state id), so the
	// state is closed immediately to release it server-side.
	return fh.Fh, c.closeOpen(fh.Fh, openResult.StateId)
}

// closeOpen is called by CreateFile, which already holds c.mu.
func (c *Client) closeOpen(fh types.FileHandle, stateID types.StateId) error {
	req := c.newRequest("close")
	req.PutFh(fh).Close(0, stateID)

	reply, err := c.sendSequenced(req)
	if err != nil {
		return err
	}

	if _, err := reply.Next(types.OP4_PUTFH, nil); err != nil {
		return err
	}

	if _, err := reply.Next(types.OP4_CLOSE, nil); err != nil {
		return err
	}

	return reply.Finish()
}

// ReadDir lists the contents of the directory identified by fh.
func (c *Client) ReadDir(fh types.FileHandle) ([]DirEntry, error) {
	var entries []DirEntry

	cookie := uint64(0)
	cookieVerf := uint64(0)

	for {
		page, eof, nextCookie, nextVerf, err := c.readDirPage(fh, cookie, cookieVerf)
		if err != nil {
			return nil, err
		}

		entries = append(entries, page...)

		if eof {
			return entries, nil
		}

		cookie, cookieVerf = nextCookie, nextVerf
	}
}

func (c *Client) readDirPage(fh types.FileHandle, cookie, cookieVerf uint64) ([]DirEntry, bool, uint64, uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	req := c.newRequest("readdir")
	req.PutFh(fh).ReadDir(types.ReadDirArgs{
		Cookie:      cookie,
		CookieVerf:  cookieVerf,
		DirCount:    8192,
		MaxCount:    32768,
		AttrRequest: c.getAttrBitmap(),
	})

	reply, err := c.sendSequenced(req)
	if err != nil {
		return nil, false, 0, 0, err
	}

	if _, err := reply.Next(types.OP4_PUTFH, nil); err != nil {
		return nil, false, 0, 0, err
	}

	result, _, err := compound.Decode[types.ReadDirResult](reply, types.OP4_READDIR)
	if err != nil {
		return nil, false, 0, 0, err
	}

	if err := reply.Finish(); err != nil {
		return nil, false, 0, 0, err
	}

	entries := make([]DirEntry, 0, len(result.Reply.Entries))

	lastCookie := cookie

	for _, e := range result.Reply.Entries {
		attr, err := attrs.Decode(e.Attrs)
		if err != nil {
			return nil, false, 0, 0, err
		}

		entries = append(entries, DirEntry{Name: e.Name, Attr: attr})
		lastCookie = e.Cookie
	}

	return entries, result.Reply.Eof, lastCookie, result.CookieVerf, nil
}

// Remove deletes the file or empty directory named name inside dir.
func (c *Client) Remove(dir types.FileHandle, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	req := c.newRequest("remove")
	req.PutFh(dir).Remove(name)

	reply, err := c.sendSequenced(req)
	if err != nil {
		return err
	}

	if _, err := reply.Next(types.OP4_PUTFH, nil); err != nil {
		return err
	}

	if _, err := reply.Next(types.OP4_REMOVE, nil); err != nil {
		return err
	}

	return reply.Finish()
}

// Rename moves oldName inside oldDir to newName inside newDir.
func (c *Client) Rename(oldDir types.FileHandle, oldName string, newDir types.FileHandle, newName string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	req := c.newRequest("rename")
	req.PutFh(oldDir).SaveFh().PutFh(newDir).Rename(oldName, newName)

	reply, err := c.sendSequenced(req)
	if err != nil {
		return err
	}

	if _, err := reply.Next(types.OP4_PUTFH, nil); err != nil { // oldDir
		return err
	}

	if _, err := reply.Next(types.OP4_SAVEFH, nil); err != nil {
		return err
	}

	if _, err := reply.Next(types.OP4_PUTFH, nil); err != nil { // newDir
		return err
	}

	if _, err := reply.Next(types.OP4_RENAME, nil); err != nil {
		return err
	}

	return reply.Finish()
}

// SetAttr applies the attributes staged in b to fh.
func (c *Client) SetAttr(fh types.FileHandle, b *attrs.Builder) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	built, err := b.Build()
	if err != nil {
		return err
	}

	req := c.newRequest("setattr")
	req.PutFh(fh).SetAttr(types.AnonymousStateId, built)

	reply, err := c.sendSequenced(req)
	if err != nil {
		return err
	}

	if _, err := reply.Next(types.OP4_PUTFH, nil); err != nil {
		return err
	}

	if _, err := reply.Next(types.OP4_SETATTR, nil); err != nil {
		return err
	}

	return reply.Finish()
}
