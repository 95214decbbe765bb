package io

import (
	"bytes"
	"io"

	"lukechampine.com/blake3"

	"github.com/marisago/marisa/common/exceptions"
)

// Reader copies the entire framed payload into memory, verifies the magic
// header and checksum, and exposes the blob region through Blob for
// sequential ReadFrom calls.
type Reader struct {
	body *bytes.Reader
}

// NewReader reads all of src, verifies it, and returns a Reader positioned
// at the first blob.
func NewReader(src io.Reader) (*Reader, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, exceptions.Cause(exceptions.KindIO, err, "io: read dictionary")
	}
	if len(data) < 16+ChecksumSize {
		return nil, exceptions.New(exceptions.KindInvalidFormat, "io: truncated dictionary")
	}
	if err := checkMagic(data[:16]); err != nil {
		return nil, err
	}
	body, checksum := data[16:len(data)-ChecksumSize], data[len(data)-ChecksumSize:]
	sum := blake3.Sum256(data[:len(data)-ChecksumSize])
	if !bytes.Equal(sum[:], checksum) {
		return nil, exceptions.New(exceptions.KindInvalidFormat, "io: checksum mismatch")
	}
	return &Reader{body: bytes.NewReader(body)}, nil
}

// Blob returns an io.Reader over the remaining, unread bytes of the body.
func (r *Reader) Blob() io.Reader { return r.body }
