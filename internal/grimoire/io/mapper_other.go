//go:build !unix

package io

import "github.com/marisago/marisa/common/exceptions"

// Mapper is unimplemented on non-unix targets; mmap callers should fall
// back to Reader/read-based loading.
type Mapper struct{}

func MapFile(path string) (*Mapper, error) {
	return nil, exceptions.New(exceptions.KindIO, "io: mmap is unix-only on this build")
}

func (m *Mapper) Body() []byte { return nil }
func (m *Mapper) Close() error { return nil }
