package voxel

import (
	"bufio"
	"bytes"
	"io"
	"slices"
	"strings"

	"github.com/matzehuels/voxelgraph/pkg/errors"
)

// Format names.
const (
	FormatText   = "text"
	FormatBinary = "binary"
)

// Format decodes and encodes one on-disk voxel layout. Decoders receive the
// stream after decompression.
type Format interface {
	Name() string
	Decode(r *bufio.Reader, opts ReadOptions) (*Array, error)
	Encode(w io.Writer, a *Array) error
}

var formats = map[string]Format{
	FormatText:   textFormat{},
	FormatBinary: binaryFormat{},
}

// LookupFormat returns the registered format with the given name.
func LookupFormat(name string) (Format, error) {
	f, ok := formats[strings.ToLower(name)]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidFormat,
			"unknown voxel format %q (must be one of: %s)", name, strings.Join(FormatNames(), ", "))
	}
	return f, nil
}

// FormatNames lists the registered formats, sorted.
func FormatNames() []string {
	names := make([]string, 0, len(formats))
	for n := range formats {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// sniffFormat picks the binary format when the stream starts with its magic
// and falls back to text otherwise.
func sniffFormat(r *bufio.Reader) Format {
	head, _ := r.Peek(len(binaryMagic))
	if bytes.Equal(head, []byte(binaryMagic)) {
		return formats[FormatBinary]
	}
	return formats[FormatText]
}
