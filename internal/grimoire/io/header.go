// Package io implements the three I/O backends — streamed Reader,
// streamed Writer, and memory-mapped Mapper — that share one framed byte
// format: a 16-byte magic header, a sequence of length-prefixed blobs, and
// a trailing BLAKE3 checksum over everything before it.
package io

import (
	"bytes"

	"github.com/marisago/marisa/common/exceptions"
)

// Magic is the file's leading 16 bytes. Any mismatch is a fatal load error.
var Magic = [16]byte{'W', 'e', ' ', 'l', 'o', 'v', 'e', ' ', 'M', 'a', 'r', 'i', 's', 'a', '.', '\n'}

// ChecksumSize is the width of the trailing integrity checksum.
const ChecksumSize = 32

func checkMagic(got []byte) error {
	if !bytes.Equal(got, Magic[:]) {
		return exceptions.New(exceptions.KindInvalidFormat, "io: magic header mismatch")
	}
	return nil
}
