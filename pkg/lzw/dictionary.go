package lzw

// Code identifies a phrase within one dictionary.
type Code uint32

// Dictionary maps phrases to codes and back. The 256 single byte phrases are
// always present at codes 0-255; learned phrases get consecutive codes from 256.
//
// The encoder probes codes with LookupForward and the decoder indexes phrases with
// LookupBackward. Both views are updated together by Insert and MaybeReset, so an
// encoder and a decoder that apply the same operations hold the same entries.
type Dictionary struct {
	policy Policy

	codes   map[string]Code
	phrases []string
	width   uint8
}

func NewDictionary(p Policy) *Dictionary {
	d := &Dictionary{
		policy:  p,
		codes:   make(map[string]Code, alphabetSize),
		phrases: make([]string, alphabetSize, initialCapacity(p)),
		width:   p.initialWidth(),
	}
	for i := range alphabetSize {
		phrase := string([]byte{byte(i)})
		d.phrases[i] = phrase
		d.codes[phrase] = Code(i)
	}
	return d
}

func initialCapacity(p Policy) int {
	if p.Bounded() {
		return p.Capacity()
	}
	return 4096
}

// LookupForward returns the code of phrase.
func (d *Dictionary) LookupForward(phrase []byte) (Code, bool) {
	code, ok := d.codes[string(phrase)]
	return code, ok
}

// LookupBackward returns the phrase of code.
func (d *Dictionary) LookupBackward(code Code) (string, bool) {
	if int64(code) >= int64(len(d.phrases)) {
		return "", false
	}
	return d.phrases[code], true
}

// Insert assigns the next code to phrase. A full bounded dictionary ignores the
// insertion and reports false.
//
// In growing mode the width is widened right away when the new size needs it.
func (d *Dictionary) Insert(phrase []byte) (Code, bool) {
	return d.insert(string(phrase))
}

func (d *Dictionary) insert(phrase string) (Code, bool) {
	if d.Full() {
		return 0, false
	}

	code := Code(len(d.phrases))
	d.phrases = append(d.phrases, phrase)
	d.codes[phrase] = code

	if d.policy.Width == WidthGrowing {
		for len(d.phrases) > 1<<d.width {
			d.width++
		}
	}
	return code, true
}

// MaybeReset drops every learned phrase when the dictionary is full and the
// policy asks for a reset. It reports whether it did.
func (d *Dictionary) MaybeReset() bool {
	if d.policy.OnFull != Reset || !d.Full() || len(d.phrases) == alphabetSize {
		return false
	}

	for _, phrase := range d.phrases[alphabetSize:] {
		delete(d.codes, phrase)
	}
	clear(d.phrases[alphabetSize:])
	d.phrases = d.phrases[:alphabetSize]
	d.width = d.policy.initialWidth()
	return true
}

// Full reports whether a bounded dictionary has reached 2^MaxWidth entries.
func (d *Dictionary) Full() bool {
	return d.policy.Bounded() && len(d.phrases) >= d.policy.Capacity()
}

// Width is the number of bits needed to transmit a code of the current dictionary.
func (d *Dictionary) Width() uint8 {
	return d.width
}

// Len returns the number of entries, the 256 single byte phrases included.
func (d *Dictionary) Len() int {
	return len(d.phrases)
}

// NextCode is the code the next successful insertion will assign.
func (d *Dictionary) NextCode() Code {
	return Code(len(d.phrases))
}

// nextWidth is the width in effect once the next insertion has been attempted.
// The decoder inserts one step behind the encoder and reads every code at this width.
func (d *Dictionary) nextWidth() uint8 {
	if d.Full() {
		return d.width
	}
	return max(d.width, d.policy.widthFor(len(d.phrases)+1))
}
