package voxel

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"

	"github.com/matzehuels/voxelgraph/pkg/errors"
)

// binaryMagic opens every binary voxel stream.
const binaryMagic = "VXG1"

// binaryHeaderLen is the magic plus three little-endian uint32 extents.
const binaryHeaderLen = len(binaryMagic) + 3*4

// binaryFormat stores one byte per voxel label in identifier order.
type binaryFormat struct{}

func (binaryFormat) Name() string { return FormatBinary }

func (binaryFormat) Decode(r *bufio.Reader, opts ReadOptions) (*Array, error) {
	var hdr [binaryHeaderLen]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "truncated binary header")
	}
	if string(hdr[:len(binaryMagic)]) != binaryMagic {
		return nil, errors.New(errors.ErrCodeMalformedInput, "bad binary magic %q", hdr[:len(binaryMagic)])
	}
	ext := hdr[len(binaryMagic):]
	dims := ArrayDimensions{
		X: int(binary.LittleEndian.Uint32(ext[0:4])),
		Y: int(binary.LittleEndian.Uint32(ext[4:8])),
		Z: int(binary.LittleEndian.Uint32(ext[8:12])),
	}.Normalize()
	if err := dims.Validate(); err != nil {
		return nil, err
	}

	// The header is untrusted: grow with the data actually received.
	volume := dims.Volume()
	var buf bytes.Buffer
	buf.Grow(min(volume, preallocLimit))
	n, err := io.CopyN(&buf, r, int64(volume))
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "read labels")
	}
	if int(n) != volume {
		return nil, errors.New(errors.ErrCodeDimensionMismatch,
			"declared %s = %d voxels, got %d labels", dims, volume, n)
	}
	raw := buf.Bytes()
	if _, err := r.ReadByte(); err == nil {
		return nil, errors.New(errors.ErrCodeDimensionMismatch,
			"more than the %d labels declared by %s", volume, dims)
	}

	labels := make([]int, volume)
	for i, b := range raw {
		labels[i] = int(b)
	}
	a, err := NewArray(dims, labels)
	if err != nil {
		return nil, err
	}
	if err := a.CheckPhases(opts.Phases); err != nil {
		return nil, err
	}
	return a, nil
}

func (binaryFormat) Encode(w io.Writer, a *Array) error {
	var hdr [binaryHeaderLen]byte
	copy(hdr[:], binaryMagic)
	ext := hdr[len(binaryMagic):]
	binary.LittleEndian.PutUint32(ext[0:4], uint32(a.Dims.X))
	binary.LittleEndian.PutUint32(ext[4:8], uint32(a.Dims.Y))
	binary.LittleEndian.PutUint32(ext[8:12], uint32(a.Dims.Z))

	raw := make([]byte, len(a.Labels))
	for i, l := range a.Labels {
		if l < 0 || l > 255 {
			return errors.New(errors.ErrCodeInvalidFormat,
				"label %d at node %d does not fit the binary format", l, i)
		}
		raw[i] = byte(l)
	}
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	_, err := w.Write(raw)
	return err
}
