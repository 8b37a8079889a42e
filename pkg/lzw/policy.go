package lzw

import (
	"fmt"

	"github.com/pkg/errors"
)

const (
	// MinCodeWidth is the width of a fresh dictionary's codes and the smallest
	// accepted bound.
	MinCodeWidth uint8 = 8
	// MaxCodeWidth is the largest accepted bound.
	MaxCodeWidth uint8 = 16

	// DefaultCodeWidth is the bound used when none is configured.
	DefaultCodeWidth uint8 = 12

	// Unbounded as Policy.MaxWidth lets the dictionary grow for the whole stream.
	Unbounded uint8 = 0

	alphabetSize = 256
)

type WidthMode uint8

const (
	// WidthGrowing starts at 8 bits and adds a bit each time the dictionary
	// outgrows the current width.
	WidthGrowing WidthMode = iota
	// WidthFixed writes every code with Policy.MaxWidth bits.
	WidthFixed
)

func (m WidthMode) String() string {
	switch m {
	case WidthGrowing:
		return "growing"
	case WidthFixed:
		return "fixed"
	}
	return fmt.Sprintf("WidthMode(%d)", uint8(m))
}

// OnFull selects what a bounded dictionary does once it holds 2^MaxWidth entries.
type OnFull uint8

const (
	Freeze OnFull = iota
	Reset
)

func (o OnFull) String() string {
	switch o {
	case Freeze:
		return "freeze"
	case Reset:
		return "reset"
	}
	return fmt.Sprintf("OnFull(%d)", uint8(o))
}

// Policy is the per-stream dictionary configuration. It is stored in the stream
// header so the decoder rebuilds the dictionary under the same rules.
type Policy struct {
	// MaxWidth bounds the dictionary to 2^MaxWidth entries. Unbounded (0) disables
	// the bound; otherwise it must be between MinCodeWidth and MaxCodeWidth.
	MaxWidth uint8
	Width    WidthMode
	// OnFull only matters for a bounded dictionary.
	OnFull OnFull
}

// DefaultPolicy is a 12 bit bounded dictionary with growing codes that resets when full.
func DefaultPolicy() Policy {
	return Policy{MaxWidth: DefaultCodeWidth, Width: WidthGrowing, OnFull: Reset}
}

// UnboundedPolicy lets the dictionary and the code width grow without limit.
func UnboundedPolicy() Policy {
	return Policy{MaxWidth: Unbounded, Width: WidthGrowing}
}

func (p Policy) Bounded() bool {
	return p.MaxWidth != Unbounded
}

// Capacity returns the maximum number of entries, or 0 when unbounded.
func (p Policy) Capacity() int {
	if !p.Bounded() {
		return 0
	}
	return 1 << p.MaxWidth
}

func (p Policy) Validate() error {
	if p.Bounded() && (p.MaxWidth < MinCodeWidth || p.MaxWidth > MaxCodeWidth) {
		return newError(KindConfig, "policy", errors.Errorf("max code width must be between %d and %d, got %d", MinCodeWidth, MaxCodeWidth, p.MaxWidth))
	}
	if p.Width != WidthGrowing && p.Width != WidthFixed {
		return newError(KindConfig, "policy", errors.Errorf("unknown width mode %d", uint8(p.Width)))
	}
	if p.OnFull != Freeze && p.OnFull != Reset {
		return newError(KindConfig, "policy", errors.Errorf("unknown full dictionary behaviour %d", uint8(p.OnFull)))
	}
	if p.Width == WidthFixed && !p.Bounded() {
		return newError(KindConfig, "policy", errors.Errorf("fixed width codes need a bounded dictionary"))
	}
	return nil
}

func (p Policy) String() string {
	if !p.Bounded() {
		return fmt.Sprintf("unbounded/%s", p.Width)
	}
	return fmt.Sprintf("bounded(%d)/%s/%s", p.MaxWidth, p.Width, p.OnFull)
}

// initialWidth is the width of a fresh dictionary.
func (p Policy) initialWidth() uint8 {
	if p.Width == WidthFixed {
		return p.MaxWidth
	}
	return MinCodeWidth
}

// widthFor returns the width needed to transmit any code of a dictionary holding size entries.
func (p Policy) widthFor(size int) uint8 {
	if p.Width == WidthFixed {
		return p.MaxWidth
	}
	width := MinCodeWidth
	for size > 1<<width {
		width++
	}
	return width
}

// Stats counts what happened to one stream.
type Stats struct {
	// Bytes is the number of raw bytes consumed by the encoder or produced by the decoder.
	Bytes      int64
	Codes      int
	Insertions int
	Resets     int
	PeakWidth  uint8
}

func (s *Stats) code(width uint8) {
	s.Codes++
	if width > s.PeakWidth {
		s.PeakWidth = width
	}
}
