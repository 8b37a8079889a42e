// Package bitstream reads and writes unsigned integers of 1 to 64 bits, most
// significant bit first, on top of github.com/icza/bitio.
//
// The reader tells a clean end of stream apart from a truncated one: a read that
// finds fewer than 8 bits left, all of them zero, is the writer's padding and
// reports io.EOF. Anything longer than padding that cannot fill the requested
// width reports io.ErrUnexpectedEOF.
package bitstream

import (
	"bufio"
	"io"

	"github.com/icza/bitio"
	"github.com/pkg/errors"
)

var ErrNonZeroPadding = errors.New("bitstream: non-zero padding bits at end of stream")

const maxWidth = 64

func checkWidth(n uint8) error {
	if n == 0 || n > maxWidth {
		return errors.Errorf("bitstream: invalid width %d, must be between 1 and %d", n, maxWidth)
	}
	return nil
}

type Writer struct {
	bits    *bitio.Writer
	written uint64
}

// NewWriter returns a Writer on top of w. If w is not an io.ByteWriter the bits
// are buffered and only reach w on Close.
func NewWriter(w io.Writer) *Writer {
	return &Writer{bits: bitio.NewWriter(w)}
}

// WriteBits writes the n low bits of v. v must fit in n bits.
func (w *Writer) WriteBits(v uint64, n uint8) error {
	if err := checkWidth(n); err != nil {
		return err
	}
	if n < maxWidth && v>>n != 0 {
		return errors.Errorf("bitstream: value %d does not fit in %d bits", v, n)
	}

	if err := w.bits.WriteBits(v, n); err != nil {
		return errors.WithStack(err)
	}
	w.written += uint64(n)
	return nil
}

// WriteBool writes a single bit, 1 for true.
func (w *Writer) WriteBool(b bool) error {
	if err := w.bits.WriteBool(b); err != nil {
		return errors.WithStack(err)
	}
	w.written++
	return nil
}

// Align pads the stream with zero bits up to the next byte boundary.
func (w *Writer) Align() error {
	skipped, err := w.bits.Align()
	w.written += uint64(skipped)
	return errors.WithStack(err)
}

// Close aligns the stream and flushes any buffered bytes.
// The underlying writer is not closed.
func (w *Writer) Close() error {
	if err := w.Align(); err != nil {
		return err
	}
	return errors.WithStack(w.bits.Close())
}

// BitsWritten returns the number of bits written so far, padding included.
func (w *Writer) BitsWritten() uint64 {
	return w.written
}

type Reader struct {
	src  *byteCounter
	bits *bitio.Reader
	read uint64
}

func NewReader(r io.Reader) *Reader {
	src := &byteCounter{r: bufio.NewReader(r)}
	return &Reader{src: src, bits: bitio.NewReader(src)}
}

// ReadBits reads an n bit value.
//
// At the end of the stream it returns io.EOF when only zero padding is left,
// ErrNonZeroPadding when the trailing bits are not zero and io.ErrUnexpectedEOF
// when a whole byte or more was left but not enough for n bits.
func (r *Reader) ReadBits(n uint8) (uint64, error) {
	if err := checkWidth(n); err != nil {
		return 0, err
	}

	v, err := r.bits.ReadBits(n)
	if err == nil {
		r.read += uint64(n)
		return v, nil
	}
	if err != io.EOF && err != io.ErrUnexpectedEOF {
		return 0, errors.WithStack(err)
	}

	left := r.src.count*8 - r.read
	switch {
	case left >= 8:
		return 0, io.ErrUnexpectedEOF
	case left > 0 && r.src.last&(1<<left-1) != 0:
		return 0, ErrNonZeroPadding
	}
	return 0, io.EOF
}

// ReadBool reads a single bit.
func (r *Reader) ReadBool() (bool, error) {
	v, err := r.ReadBits(1)
	return v == 1, err
}

// BitsRead returns the number of bits handed out by successful reads.
func (r *Reader) BitsRead() uint64 {
	return r.read
}

// byteCounter remembers how many bytes bitio pulled and the value of the last one,
// which is enough to inspect the padding once the source runs dry.
type byteCounter struct {
	r     *bufio.Reader
	count uint64
	last  byte
}

func (c *byteCounter) ReadByte() (byte, error) {
	b, err := c.r.ReadByte()
	if err != nil {
		return 0, err
	}
	c.count++
	c.last = b
	return b, nil
}

func (c *byteCounter) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.count += uint64(n)
		c.last = p[n-1]
	}
	return n, err
}
