package voxel

import (
	"io"
	"os"

	"github.com/matzehuels/voxelgraph/pkg/errors"
)

// WriteOptions selects the encoding produced by [Write].
type WriteOptions struct {
	Format      string      // FormatText (default) or FormatBinary
	Compression Compression // CompressionNone (default), gzip, zstd or snappy
}

// Write encodes a to w. The output is readable by [Read] without options.
func Write(w io.Writer, a *Array, opts WriteOptions) error {
	name := opts.Format
	if name == "" {
		name = FormatText
	}
	f, err := LookupFormat(name)
	if err != nil {
		return err
	}
	cw, err := compressor(w, opts.Compression)
	if err != nil {
		return err
	}
	if err := f.Encode(cw, a); err != nil {
		cw.Close()
		return err
	}
	return cw.Close()
}

// WriteFile writes a to path, creating or truncating it.
func WriteFile(path string, a *Array, opts WriteOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	if err := Write(f, a, opts); err != nil {
		f.Close()
		return errors.Prefix(err, "%s", path)
	}
	return f.Close()
}
