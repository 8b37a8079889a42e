package lzw

import (
	"bytes"
	"io"
	"math/rand"
	"testing"

	"github.com/ZaninAndrea/microlzw/pkg/bitstream"
)

func TestEncodeABABABA(t *testing.T) {
	var buf bytes.Buffer
	enc, err := NewEncoder(&buf, UnboundedPolicy())
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	if _, err := enc.Write([]byte("ABABABA")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	for phrase, want := range map[string]Code{"AB": 256, "BA": 257, "ABA": 258} {
		code, ok := enc.dict.LookupForward([]byte(phrase))
		if !ok || code != want {
			t.Errorf("%s has code %d (present %v), want %d", phrase, code, ok, want)
		}
	}

	// Header, then A at 8 bits; the dictionary grows to 257 entries right after,
	// so every later code is 9 bits wide. 258 is the self-referential code.
	r := bitstream.NewReader(bytes.NewReader(buf.Bytes()))
	expected := []struct {
		width uint8
		value uint64
	}{{8, 0}, {8, 'A'}, {9, 'B'}, {9, 256}, {9, 258}}
	for i, e := range expected {
		v, err := r.ReadBits(e.width)
		if err != nil || v != e.value {
			t.Fatalf("field %d: got %d, %v; want %d", i, v, err, e.value)
		}
	}
	if _, err := r.ReadBits(9); err != io.EOF {
		t.Fatalf("expected clean end after the last code, got %v", err)
	}
	if buf.Len() != 6 {
		t.Fatalf("stream is %d bytes, want 6", buf.Len())
	}

	dec, err := NewDecoder(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	var out bytes.Buffer
	if _, err := dec.WriteTo(&out); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if out.String() != "ABABABA" {
		t.Fatalf("decoded %q", out.String())
	}
	if phrase, _ := dec.dict.LookupBackward(257); phrase != "BA" {
		t.Fatalf("decoder code 257 = %q, want BA", phrase)
	}
}

func TestEncoderWidthTransition(t *testing.T) {
	var input []byte
	for i := 0; i < 300; i++ {
		input = append(input, byte('a'+i%20), byte('A'+i/20))
	}

	var buf bytes.Buffer
	enc, err := NewEncoder(&buf, UnboundedPolicy())
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}

	sawTransition := false
	width := enc.dict.Width()
	for _, b := range input {
		if _, err := enc.Write([]byte{b}); err != nil {
			t.Fatalf("Write: %v", err)
		}
		if enc.dict.Width() != width {
			if width == 8 && enc.dict.Width() == 9 {
				if enc.dict.Len() != 257 {
					t.Fatalf("width became 9 at size %d, want 257", enc.dict.Len())
				}
				sawTransition = true
			}
			width = enc.dict.Width()
		}
		if enc.dict.Len() <= 256 && width != 8 {
			t.Fatalf("width %d at size %d", width, enc.dict.Len())
		}
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !sawTransition {
		t.Fatalf("dictionary never grew past 256 entries (size %d)", enc.dict.Len())
	}

	var out bytes.Buffer
	if _, err := Decompress(&out, &buf); err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(out.Bytes(), input) {
		t.Fatalf("round trip mismatch")
	}
}

func TestEncoderResetsRepeatedByte(t *testing.T) {
	input := bytes.Repeat([]byte{0x58}, 100000)
	policy := Policy{MaxWidth: 9, OnFull: Reset}

	var buf bytes.Buffer
	encStats, err := Compress(&buf, bytes.NewReader(input), policy)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if encStats.Resets < 1 {
		t.Fatalf("expected at least one reset, got %+v", encStats)
	}
	if encStats.PeakWidth != 9 {
		t.Fatalf("peak width %d, want 9", encStats.PeakWidth)
	}

	var out bytes.Buffer
	decStats, err := Decompress(&out, &buf)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(out.Bytes(), input) {
		t.Fatalf("round trip mismatch: got %d bytes", out.Len())
	}
	if decStats.Resets != encStats.Resets || decStats.Insertions != encStats.Insertions || decStats.Codes != encStats.Codes {
		t.Fatalf("decoder stats %+v differ from encoder stats %+v", decStats, encStats)
	}
}

// The dictionary never exceeds its bound, and between resets the width only
// grows, always matching the size.
func TestEncoderDictionaryInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	input := make([]byte, 50000)
	for i := range input {
		input[i] = "abcd"[rng.Intn(4)]
	}

	for _, p := range []Policy{
		{MaxWidth: 10, OnFull: Reset},
		{MaxWidth: 10, OnFull: Freeze},
		{MaxWidth: 11, Width: WidthFixed, OnFull: Reset},
	} {
		t.Run(p.String(), func(t *testing.T) {
			enc, err := NewEncoder(io.Discard, p)
			if err != nil {
				t.Fatalf("NewEncoder: %v", err)
			}

			width := enc.dict.Width()
			resets := 0
			for _, b := range input {
				enc.Write([]byte{b})
				d := enc.dict

				if d.Len() > p.Capacity() {
					t.Fatalf("size %d exceeds capacity %d", d.Len(), p.Capacity())
				}
				if d.Width() != p.widthFor(d.Len()) {
					t.Fatalf("width %d does not match size %d", d.Width(), d.Len())
				}
				if enc.stats.Resets == resets && d.Width() < width {
					t.Fatalf("width shrank from %d to %d without a reset", width, d.Width())
				}
				width, resets = d.Width(), enc.stats.Resets
			}
			if err := enc.Close(); err != nil {
				t.Fatalf("Close: %v", err)
			}
		})
	}
}

func TestFreezeKeepsOnlyFirstPhrases(t *testing.T) {
	// Once frozen, new repetitive content cannot be learned and compresses poorly.
	// This is the expected cost of the freeze policy.
	var input []byte
	for i := 0; i < 4000; i++ {
		input = append(input, byte(i), byte(i>>3))
	}
	tail := bytes.Repeat([]byte("zzzz"), 2000)
	input = append(input, tail...)

	p := Policy{MaxWidth: 9, OnFull: Freeze}
	var buf bytes.Buffer
	stats, err := Compress(&buf, bytes.NewReader(input), p)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if stats.Insertions != 256 || stats.Resets != 0 {
		t.Fatalf("stats %+v, want 256 insertions and no reset", stats)
	}
	if stats.PeakWidth != 9 {
		t.Fatalf("peak width %d, want 9", stats.PeakWidth)
	}

	var out bytes.Buffer
	if _, err := Decompress(&out, &buf); err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(out.Bytes(), input) {
		t.Fatalf("round trip mismatch")
	}
}

func TestDegenerateBoundNeverInserts(t *testing.T) {
	input := []byte("abababababababababababab")
	for _, onFull := range []OnFull{Freeze, Reset} {
		t.Run(onFull.String(), func(t *testing.T) {
			var buf bytes.Buffer
			stats, err := Compress(&buf, bytes.NewReader(input), Policy{MaxWidth: 8, OnFull: onFull})
			if err != nil {
				t.Fatalf("Compress: %v", err)
			}
			if stats.Insertions != 0 || stats.Resets != 0 || stats.Codes != len(input) {
				t.Fatalf("stats %+v", stats)
			}

			var out bytes.Buffer
			if _, err := Decompress(&out, &buf); err != nil {
				t.Fatalf("Decompress: %v", err)
			}
			if !bytes.Equal(out.Bytes(), input) {
				t.Fatalf("round trip mismatch: %q", out.Bytes())
			}
		})
	}
}
