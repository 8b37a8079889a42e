package lzw

import (
	"github.com/pkg/errors"

	"github.com/ZaninAndrea/microlzw/pkg/bitstream"
)

// The header is the first bits of every stream, most significant bit first:
//   - 8 bits: MaxWidth, 0 for an unbounded dictionary or 8-16 for a bounded one.
//   - bounded only, 1 bit: OnFull, 0 = freeze, 1 = reset.
//   - bounded only, 1 bit: Width, 0 = growing, 1 = fixed.
//
// Unbounded streams always use growing codes.
const headerWidthBits = 8

// WriteHeader writes the header for p. Nothing is written when p is invalid.
func WriteHeader(w *bitstream.Writer, p Policy) error {
	if err := p.Validate(); err != nil {
		return err
	}

	if err := w.WriteBits(uint64(p.MaxWidth), headerWidthBits); err != nil {
		return ioError("header", err)
	}
	if !p.Bounded() {
		return nil
	}

	if err := w.WriteBool(p.OnFull == Reset); err != nil {
		return ioError("header", err)
	}
	if err := w.WriteBool(p.Width == WidthFixed); err != nil {
		return ioError("header", err)
	}
	return nil
}

// ReadHeader reads and validates a header. A MaxWidth outside 8-16 is reported as
// ErrInvalidConfig, a header cut short as ErrCorrupt.
func ReadHeader(r *bitstream.Reader) (Policy, error) {
	maxWidth, err := r.ReadBits(headerWidthBits)
	if err != nil {
		return Policy{}, ioError("header", err)
	}

	p := Policy{MaxWidth: uint8(maxWidth), Width: WidthGrowing}
	if p.Bounded() && (p.MaxWidth < MinCodeWidth || p.MaxWidth > MaxCodeWidth) {
		return Policy{}, newError(KindConfig, "header", errors.Errorf("max code width %d is outside %d-%d", p.MaxWidth, MinCodeWidth, MaxCodeWidth))
	}
	if !p.Bounded() {
		return p, nil
	}

	reset, err := r.ReadBool()
	if err != nil {
		return Policy{}, ioError("header", err)
	}
	if reset {
		p.OnFull = Reset
	}

	fixed, err := r.ReadBool()
	if err != nil {
		return Policy{}, ioError("header", err)
	}
	if fixed {
		p.Width = WidthFixed
	}

	return p, p.Validate()
}
