package lzw

import (
	"io"

	"github.com/pkg/errors"

	"github.com/ZaninAndrea/microlzw/pkg/bitstream"
)

// Encoder compresses the bytes written to it. Close must be called to flush the
// last code; it does not close the destination.
type Encoder struct {
	policy Policy
	dict   *Dictionary
	out    *bitstream.Writer

	// pending is the longest prefix of the unread input found in the dictionary so far.
	pending     []byte
	pendingCode Code

	stats  Stats
	err    error
	closed bool
}

// NewEncoder validates p, then writes the stream header to w.
func NewEncoder(w io.Writer, p Policy) (*Encoder, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	out := bitstream.NewWriter(w)
	if err := WriteHeader(out, p); err != nil {
		return nil, err
	}

	return &Encoder{
		policy:  p,
		dict:    NewDictionary(p),
		out:     out,
		pending: make([]byte, 0, 64),
	}, nil
}

// Write feeds p through the encoder. Codes are emitted as soon as the longest
// match ending before the current byte is known.
func (e *Encoder) Write(p []byte) (int, error) {
	if e.closed {
		return 0, newError(KindIO, "encode", errors.New("write to closed encoder"))
	}
	if e.err != nil {
		return 0, e.err
	}

	for i, b := range p {
		extended := append(e.pending, b)
		if code, ok := e.dict.LookupForward(extended); ok {
			e.pending = extended
			e.pendingCode = code
			continue
		}

		if err := e.emit(e.pendingCode); err != nil {
			e.err = err
			return i, err
		}
		if e.dict.MaybeReset() {
			e.stats.Resets++
		}
		if _, ok := e.dict.Insert(extended); ok {
			e.stats.Insertions++
		}

		e.pending = append(e.pending[:0], b)
		e.pendingCode = Code(b)
	}

	e.stats.Bytes += int64(len(p))
	return len(p), nil
}

// ReadFrom encodes everything r yields until io.EOF.
func (e *Encoder) ReadFrom(r io.Reader) (int64, error) {
	buf := make([]byte, 32*1024)
	var total int64
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if _, werr := e.Write(buf[:n]); werr != nil {
				return total, werr
			}
			total += int64(n)
		}
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, newError(KindIO, "encode", errors.WithStack(err))
		}
	}
}

// Close emits the code of the pending phrase, if any, and pads the stream with
// zero bits to a byte boundary.
func (e *Encoder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	if e.err != nil {
		return e.err
	}

	if len(e.pending) > 0 {
		if err := e.emit(e.pendingCode); err != nil {
			return err
		}
		e.pending = e.pending[:0]
	}

	if err := e.out.Close(); err != nil {
		return ioError("encode", err)
	}
	return nil
}

func (e *Encoder) emit(code Code) error {
	width := e.dict.Width()
	if err := e.out.WriteBits(uint64(code), width); err != nil {
		return ioError("encode", err)
	}
	e.stats.code(width)
	return nil
}

func (e *Encoder) Policy() Policy {
	return e.policy
}

func (e *Encoder) Stats() Stats {
	return e.stats
}

// Compress encodes src into dst under p.
func Compress(dst io.Writer, src io.Reader, p Policy) (Stats, error) {
	enc, err := NewEncoder(dst, p)
	if err != nil {
		return Stats{}, err
	}
	if _, err := enc.ReadFrom(src); err != nil {
		return enc.Stats(), err
	}
	if err := enc.Close(); err != nil {
		return enc.Stats(), err
	}
	return enc.Stats(), nil
}
