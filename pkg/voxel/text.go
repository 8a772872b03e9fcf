package voxel

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/voxelgraph/pkg/errors"
)

// maxLineBytes bounds a single text line. A 2D row of a 10k×10k grid
// stays well under it.
const maxLineBytes = 1 << 30

// preallocLimit caps the label slice capacity reserved from the header so a
// hostile header cannot force a huge allocation up front.
const preallocLimit = 1 << 20

type textFormat struct{}

func (textFormat) Name() string { return FormatText }

// Decode parses the whitespace-delimited grammar: a dimension line with
// three non-negative integers, then phase labels in file order across any
// number of lines. Blank lines are ignored.
func (textFormat) Decode(r *bufio.Reader, opts ReadOptions) (*Array, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var (
		dims     ArrayDimensions
		haveDims bool
		volume   int
		labels   []int
		line     int
	)

	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}

		if !haveDims {
			d, err := parseDimensionLine(fields, line)
			if err != nil {
				return nil, err
			}
			dims = d.Normalize()
			if err := dims.Validate(); err != nil {
				return nil, err
			}
			volume = dims.Volume()
			labels = make([]int, 0, min(volume, preallocLimit))
			haveDims = true
			continue
		}

		for _, tok := range fields {
			v, err := strconv.Atoi(tok)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeMalformedInput,
					&errors.SyntaxError{Line: line, Token: tok, Msg: "not an integer"}, "data line")
			}
			if len(labels) == volume {
				return nil, errors.New(errors.ErrCodeDimensionMismatch,
					"line %d: more than the %d labels declared by %s", line, volume, dims)
			}
			if opts.Phases > 0 && (v < 0 || v >= opts.Phases) {
				return nil, errors.New(errors.ErrCodeInvalidPhaseLabel,
					"line %d: phase label %d outside [0,%d)", line, v, opts.Phases)
			}
			labels = append(labels, v)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "read line %d", line+1)
	}
	if !haveDims {
		return nil, errors.New(errors.ErrCodeMalformedInput, "missing dimension line")
	}
	return NewArray(dims, labels)
}

func parseDimensionLine(fields []string, line int) (ArrayDimensions, error) {
	if len(fields) != 3 {
		return ArrayDimensions{}, errors.Wrap(errors.ErrCodeMalformedInput,
			&errors.SyntaxError{Line: line, Msg: fmt.Sprintf("expected 3 extents, got %d", len(fields))},
			"dimension line")
	}
	var ext [3]int
	for i, tok := range fields {
		v, err := strconv.Atoi(tok)
		if err != nil {
			return ArrayDimensions{}, errors.Wrap(errors.ErrCodeMalformedInput,
				&errors.SyntaxError{Line: line, Token: tok, Msg: "extent is not an integer"}, "dimension line")
		}
		if v < 0 {
			return ArrayDimensions{}, errors.Wrap(errors.ErrCodeMalformedInput,
				&errors.SyntaxError{Line: line, Token: tok, Msg: "negative extent"}, "dimension line")
		}
		ext[i] = v
	}
	return ArrayDimensions{X: ext[0], Y: ext[1], Z: ext[2]}, nil
}

// Encode writes the dimension line followed by one line per X slice, each
// holding Y*Z labels in identifier order.
func (textFormat) Encode(w io.Writer, a *Array) error {
	bw := bufio.NewWriter(w)
	d := a.Dims
	fmt.Fprintf(bw, "%d %d %d\n", d.X, d.Y, d.Z)

	row := d.Y * d.Z
	buf := make([]byte, 0, 16)
	for i, l := range a.Labels {
		if i%row != 0 {
			bw.WriteByte(' ')
		}
		buf = strconv.AppendInt(buf[:0], int64(l), 10)
		bw.Write(buf)
		if (i+1)%row == 0 {
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}
