package lzw

import (
	"io"
	"iter"

	"github.com/pkg/errors"

	"github.com/ZaninAndrea/microlzw/pkg/bitstream"
	"github.com/ZaninAndrea/microlzw/pkg/containers"
)

// Decoder rebuilds the encoder's dictionary from the code stream and returns the
// phrases it decodes.
//
// The decoder runs one insertion behind the encoder: the phrase learned after
// code k-1 ends with the first byte of code k, so it can only be inserted once
// code k is known. To read code k against the same dictionary the encoder used,
// the decoder applies the reset check before the read and reads at the width the
// dictionary will have after the pending insertion.
type Decoder struct {
	policy Policy
	dict   *Dictionary
	in     *bitstream.Reader

	prev    string
	started bool
	done    bool
	err     error

	stats Stats
}

// NewDecoder reads and validates the stream header from r.
func NewDecoder(r io.Reader) (*Decoder, error) {
	in := bitstream.NewReader(r)
	p, err := ReadHeader(in)
	if err != nil {
		return nil, err
	}

	return &Decoder{
		policy: p,
		dict:   NewDictionary(p),
		in:     in,
	}, nil
}

// Next returns the next decoded phrase, or io.EOF once the stream ends cleanly
// at a code boundary.
func (d *Decoder) Next() (string, error) {
	if d.err != nil {
		return "", d.err
	}
	if d.done {
		return "", io.EOF
	}

	entry, err := d.next()
	if err == io.EOF {
		d.done = true
		return "", io.EOF
	}
	if err != nil {
		d.err = err
		return "", err
	}

	d.stats.Bytes += int64(len(entry))
	return entry, nil
}

func (d *Decoder) next() (string, error) {
	if !d.started {
		code, err := d.readCode(d.dict.Width())
		if err != nil {
			return "", err
		}

		entry, ok := d.dict.LookupBackward(code)
		if !ok || code >= alphabetSize {
			return "", newError(KindCorrupt, "decode", errors.Errorf("first code %d is not a single byte", code))
		}
		d.prev = entry
		d.started = true
		return entry, nil
	}

	reset := d.dict.MaybeReset()
	code, err := d.readCode(d.dict.nextWidth())
	if err != nil {
		return "", err
	}
	if reset {
		d.stats.Resets++
	}

	var entry, candidate string
	if known, ok := d.dict.LookupBackward(code); ok {
		entry = known
		candidate = d.prev + known[:1]
	} else if code == d.dict.NextCode() && !d.dict.Full() {
		// The encoder emitted the phrase it had just learned: prev plus its own first byte.
		entry = d.prev + d.prev[:1]
		candidate = entry
	} else {
		return "", newError(KindCorrupt, "decode", errors.Errorf("code %d is not in a dictionary of %d entries", code, d.dict.Len()))
	}

	if _, ok := d.dict.insert(candidate); ok {
		d.stats.Insertions++
	}
	d.prev = entry
	return entry, nil
}

func (d *Decoder) readCode(width uint8) (Code, error) {
	v, err := d.in.ReadBits(width)
	if err == io.EOF {
		return 0, io.EOF
	}
	if err != nil {
		return 0, ioError("decode", err)
	}
	d.stats.code(width)
	return Code(v), nil
}

// Phrases iterates over the decoded phrases. Iteration stops after the first error.
func (d *Decoder) Phrases() iter.Seq[containers.Result[string]] {
	return func(yield func(containers.Result[string]) bool) {
		for {
			entry, err := d.Next()
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(containers.Err[string](err))
				return
			}
			if !yield(containers.Ok(entry)) {
				return
			}
		}
	}
}

// WriteTo decodes the whole stream into w.
func (d *Decoder) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for res := range d.Phrases() {
		if res.IsErr() {
			return total, res.Err
		}

		n, err := io.WriteString(w, res.Value)
		total += int64(n)
		if err != nil {
			return total, newError(KindIO, "decode", errors.WithStack(err))
		}
	}
	return total, nil
}

func (d *Decoder) Policy() Policy {
	return d.policy
}

func (d *Decoder) Stats() Stats {
	return d.stats
}

// Decompress decodes the stream in src into dst.
func Decompress(dst io.Writer, src io.Reader) (Stats, error) {
	dec, err := NewDecoder(src)
	if err != nil {
		return Stats{}, err
	}
	if _, err := dec.WriteTo(dst); err != nil {
		return dec.Stats(), err
	}
	return dec.Stats(), nil
}
