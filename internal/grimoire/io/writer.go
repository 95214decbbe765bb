package io

import (
	"bytes"
	"io"

	"lukechampine.com/blake3"

	"github.com/marisago/marisa/common/exceptions"
)

// Writer frames a sequence of blob writes behind the magic header and
// appends a BLAKE3 checksum over the header and every blob once Close is
// called. Callers write blobs with WriteBlob (a func(io.Writer) (int64,
// error), the signature every grimoire vector/trie type's WriteTo
// satisfies) so the checksum sees exactly the bytes that will be read back.
type Writer struct {
	dest   io.Writer
	buf    bytes.Buffer
	closed bool
}

// NewWriter returns a Writer that buffers the framed payload in memory so
// the trailing checksum can be computed before anything touches dest. For
// multi-megabyte dictionaries this trades memory for the simplicity of a
// single linear pass; streaming the checksum would need a rewindable dest.
func NewWriter(dest io.Writer) *Writer {
	w := &Writer{dest: dest}
	w.buf.Write(Magic[:])
	return w
}

// WriteBlob writes one length-prefixed blob via fn.
func (w *Writer) WriteBlob(fn func(io.Writer) (int64, error)) error {
	_, err := fn(&w.buf)
	return err
}

// Close appends the BLAKE3 checksum and flushes everything to dest.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	sum := blake3.Sum256(w.buf.Bytes())
	w.buf.Write(sum[:])
	if _, err := w.dest.Write(w.buf.Bytes()); err != nil {
		return exceptions.Cause(exceptions.KindIO, err, "io: flush writer")
	}
	return nil
}

// Size returns the number of bytes that will be (or were) written,
// including header and checksum.
func (w *Writer) Size() int64 {
	n := int64(w.buf.Len())
	if !w.closed {
		n += ChecksumSize
	}
	return n
}
