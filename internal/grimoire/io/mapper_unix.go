//go:build unix

package io

import (
	"bytes"
	"os"

	"golang.org/x/sys/unix"
	"lukechampine.com/blake3"

	"github.com/marisago/marisa/common/exceptions"
)

// Mapper memory-maps a dictionary file read-only. Every Body() slice it
// hands out borrows the mapping; they must be released (the owning Trie
// torn down) strictly before Close unmaps the file.
type Mapper struct {
	file *os.File
	data []byte
}

// MapFile opens and mmaps path, verifying the magic header and checksum
// up front just like Reader does.
func MapFile(path string) (*Mapper, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, exceptions.Cause(exceptions.KindIO, err, "io: open for mmap")
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, exceptions.Cause(exceptions.KindIO, err, "io: stat mmap target")
	}
	size := info.Size()
	if size < 16+ChecksumSize {
		file.Close()
		return nil, exceptions.New(exceptions.KindInvalidFormat, "io: truncated dictionary")
	}
	data, err := unix.Mmap(int(file.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		file.Close()
		return nil, exceptions.Cause(exceptions.KindIO, err, "io: mmap")
	}
	if err := checkMagic(data[:16]); err != nil {
		unix.Munmap(data)
		file.Close()
		return nil, err
	}
	sum := blake3.Sum256(data[:size-ChecksumSize])
	if !bytes.Equal(sum[:], data[size-ChecksumSize:]) {
		unix.Munmap(data)
		file.Close()
		return nil, exceptions.New(exceptions.KindInvalidFormat, "io: checksum mismatch")
	}
	return &Mapper{file: file, data: data}, nil
}

// Body returns the blob region, excluding the magic header and checksum.
// The returned slice is only valid until Close.
func (m *Mapper) Body() []byte {
	return m.data[16 : len(m.data)-ChecksumSize]
}

// Close unmaps the file. Callers must ensure every slice/pointer derived
// from Body has been released first.
func (m *Mapper) Close() error {
	if m.data == nil {
		return nil
	}
	data := m.data
	m.data = nil
	if err := unix.Munmap(data); err != nil {
		m.file.Close()
		return exceptions.Cause(exceptions.KindIO, err, "io: munmap")
	}
	return m.file.Close()
}
