package rpc

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/nfsclient/nfs4/bufpool"
	"github.com/nfsclient/nfs4/xdr"
)

const lastFragmentBit = uint32(1 << 31)

// WriteCall writes one RPC call as a single record-marked fragment: the
// CallHeader followed by the already-encoded procedure arguments.
func WriteCall(w io.Writer, header *CallHeader, args []byte) error {
	var body bufpool.Buf

	enc := xdr.NewEncoder(&body)

	if err := enc.Encode(*header); err != nil {
		return fmt.Errorf("encode call header: %w", err)
	}

	if _, err := body.Write(args); err != nil {
		return err
	}

	frag := uint32(body.Len()) | lastFragmentBit

	if err := binary.Write(w, binary.BigEndian, frag); err != nil {
		return err
	}

	_, err := w.Write(body.Bytes())

	return err
}

// ReadReply reads one RPC reply, reassembling however many record-marking
// fragments it was split across, and returns the decoded reply header
// together with the raw bytes remaining after it (the accepted/rejected
// reply body and, on success, the COMPOUND result payload).
func ReadReply(r io.Reader) (*ReplyHeader, []byte, error) {
	buf := bufpool.Get()
	defer buf.Discard()

	for {
		var fragWord [4]byte

		if _, err := io.ReadFull(r, fragWord[:]); err != nil {
			return nil, nil, err
		}

		frag := binary.BigEndian.Uint32(fragWord[:])
		last := frag&lastFragmentBit != 0
		size := int(frag &^ lastFragmentBit)

		dst := buf.Allocate(size)

		if _, err := io.ReadFull(r, dst); err != nil {
			return nil, nil, err
		}

		buf.Commit(size)

		if last {
			break
		}
	}

	dec := xdr.NewDecoder(&byteReader{data: buf.Bytes()})

	header := &ReplyHeader{}

	n, err := dec.Read(header)
	if err != nil {
		return nil, nil, fmt.Errorf("decode reply header: %w", err)
	}

	rest := append([]byte(nil), buf.Bytes()[n:]...)

	return header, rest, nil
}

// byteReader adapts a byte slice to io.Reader without allocating a
// bytes.Reader, since ReadReply already owns a pooled buffer it must not
// let escape past this function.
type byteReader struct {
	data []byte
	pos  int
}

func (b *byteReader) Read(p []byte) (int, error) {
	if b.pos >= len(b.data) {
		return 0, io.EOF
	}

	n := copy(p, b.data[b.pos:])
	b.pos += n

	return n, nil
}
