package voxel

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/matzehuels/voxelgraph/pkg/errors"
)

// Compression selects a stream wrapper around a voxel format.
type Compression string

// Supported compressions.
const (
	CompressionNone   Compression = "none"
	CompressionGzip   Compression = "gzip"
	CompressionZstd   Compression = "zstd"
	CompressionSnappy Compression = "snappy"
)

var (
	gzipMagic   = []byte{0x1f, 0x8b}
	zstdMagic   = []byte{0x28, 0xb5, 0x2f, 0xfd}
	snappyMagic = []byte("\xff\x06\x00\x00sNaPpY")
)

// ParseCompression maps a flag value to a Compression. The empty string
// means none.
func ParseCompression(s string) (Compression, error) {
	switch c := Compression(strings.ToLower(s)); c {
	case "", CompressionNone:
		return CompressionNone, nil
	case CompressionGzip, CompressionZstd, CompressionSnappy:
		return c, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat,
			"unknown compression %q (must be one of: none, gzip, zstd, snappy)", s)
	}
}

// detectCompression inspects the stream head without consuming it.
func detectCompression(r *bufio.Reader) Compression {
	head, _ := r.Peek(len(snappyMagic))
	switch {
	case bytes.HasPrefix(head, gzipMagic):
		return CompressionGzip
	case bytes.HasPrefix(head, zstdMagic):
		return CompressionZstd
	case bytes.HasPrefix(head, snappyMagic):
		return CompressionSnappy
	default:
		return CompressionNone
	}
}

// decompress returns a reader over the decoded stream and a release func.
func decompress(r *bufio.Reader) (io.Reader, func(), error) {
	switch detectCompression(r) {
	case CompressionGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "gzip header")
		}
		return zr, func() { zr.Close() }, nil
	case CompressionZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "zstd header")
		}
		return zr, zr.Close, nil
	case CompressionSnappy:
		return snappy.NewReader(r), func() {}, nil
	default:
		return r, func() {}, nil
	}
}

// compressor wraps w for the requested compression. Closing the returned
// writer flushes the compressed stream but leaves w open.
func compressor(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case "", CompressionNone:
		return nopWriteCloser{w}, nil
	case CompressionGzip:
		return gzip.NewWriter(w), nil
	case CompressionZstd:
		return zstd.NewWriter(w)
	case CompressionSnappy:
		return snappy.NewBufferedWriter(w), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown compression %q", c)
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
