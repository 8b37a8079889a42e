package lzw

import (
	"errors"
	"io"

	pkgerrors "github.com/pkg/errors"

	"github.com/ZaninAndrea/microlzw/pkg/bitstream"
)

// Every error returned by this package is an *Error, and each *Error matches
// exactly one of the sentinels below through errors.Is:
//
//	switch {
//	case errors.Is(err, lzw.ErrCorrupt):
//		// the stream is damaged
//	case errors.Is(err, lzw.ErrInvalidConfig):
//		// bad policy, either requested or read from a header
//	case errors.Is(err, lzw.ErrIO):
//		// the reader or writer failed
//	}
//
// The clean end of a stream is not an error: Decoder.Next reports it as io.EOF
// and Decompress returns nil.
var (
	ErrIO            = errors.New("lzw: i/o failure")
	ErrInvalidConfig = errors.New("lzw: invalid configuration")
	ErrCorrupt       = errors.New("lzw: corrupt stream")
)

type Kind uint8

const (
	KindIO Kind = iota + 1
	KindConfig
	KindCorrupt
)

func (k Kind) sentinel() error {
	switch k {
	case KindIO:
		return ErrIO
	case KindConfig:
		return ErrInvalidConfig
	case KindCorrupt:
		return ErrCorrupt
	}
	return nil
}

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "i/o failure"
	case KindConfig:
		return "invalid configuration"
	case KindCorrupt:
		return "corrupt stream"
	}
	return "unknown"
}

type Error struct {
	Kind Kind
	// Op is the operation that failed, e.g. "encode" or "header".
	Op  string
	Err error
}

func newError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	str := "lzw: " + e.Kind.String()
	if e.Op != "" {
		str += " in " + e.Op
	}
	if e.Err != nil {
		str += ": " + e.Err.Error()
	}
	return str
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrCorrupt) and friends match on the error's kind.
func (e *Error) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// ioError classifies a failure coming out of the bit channel. An end of stream
// where a code or header field was still expected means the stream is damaged.
func ioError(op string, err error) *Error {
	var lzwErr *Error
	if errors.As(err, &lzwErr) {
		return lzwErr
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return newError(KindCorrupt, op, pkgerrors.Wrap(io.ErrUnexpectedEOF, "stream ends in the middle of a code"))
	}
	if errors.Is(err, bitstream.ErrNonZeroPadding) {
		return newError(KindCorrupt, op, err)
	}
	return newError(KindIO, op, pkgerrors.WithStack(err))
}
