package voxel

import (
	"bufio"
	"io"
	"os"

	"github.com/matzehuels/voxelgraph/pkg/errors"
)

// ReadOptions controls label validation while reading.
type ReadOptions struct {
	// Phases, when positive, rejects labels outside [0, Phases) with
	// INVALID_PHASE_LABEL.
	Phases int

	// Tee, when set, receives every byte ReadFile reads from the file,
	// including bytes after the encoded array. The pipeline hashes the
	// input through it.
	Tee io.Writer
}

// ReadFile opens path and decodes it with [Read]. Error messages are
// prefixed with the path; a missing file reports FILE_NOT_FOUND.
func ReadFile(path string, opts ReadOptions) (*Array, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "file %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()

	var src io.Reader = f
	if opts.Tee != nil {
		src = io.TeeReader(f, opts.Tee)
	}
	a, err := Read(src, opts)
	if err != nil {
		return nil, errors.Prefix(err, "%s", path)
	}
	if opts.Tee != nil {
		if _, err := io.Copy(io.Discard, src); err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "read %s", path)
		}
	}
	return a, nil
}

// Read decodes a voxel array from r, detecting compression and format from
// the stream contents. It returns either a complete array or an error, never
// a partially filled array. Read does not close r.
func Read(r io.Reader, opts ReadOptions) (*Array, error) {
	src, release, err := decompress(bufio.NewReaderSize(r, 64*1024))
	if err != nil {
		return nil, err
	}
	defer release()

	br := bufio.NewReaderSize(src, 64*1024)
	return sniffFormat(br).Decode(br, opts)
}
