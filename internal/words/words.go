// Package words defines the core data type flowing through the frontend
// pipeline: the Word, a single token with byte-exact provenance into the
// original input buffer, its normalized form, its resolved phone sequence
// and any markup annotations it was derived from.
package words

import (
	"encoding/json"
	"unicode"

	"github.com/mimir-speech/talfront/internal/phoneme"
)

// TagType names the markup element a Word was derived from.
type TagType string

const (
	TagSpeak   TagType = "speak"
	TagPhoneme TagType = "phoneme"
	TagSub     TagType = "sub"
	TagSayAs   TagType = "say-as"
	TagProsody TagType = "prosody"
)

// SSMLProps carries the markup annotations for a Word derived from SSML.
// Prosody values are free-form strings passed through to the synthesis
// backend; this layer does not validate them.
type SSMLProps struct {
	TagType TagType

	// Multi is set when a phoneme element's content spans more than one
	// orthographic word. The Word then keeps the full content as a single
	// logical unit so downstream translation does not re-split it.
	Multi bool

	// phoneme attributes
	Alphabet phoneme.Alphabet
	Ph       string

	// sub attributes. Content is the element's original text content; the
	// spoken words carry the alias, so realignment against raw markup
	// needs the content recorded separately.
	Alias   string
	Content string

	// say-as attribute
	InterpretAs string

	// prosody attributes
	Rate   string
	Pitch  string
	Volume string
}

// Word is one token of the input, annotated as it moves through the
// pipeline. Byte offsets are a half-open [start, end) range into the
// original input buffer.
type Word struct {
	OriginalSymbol  string
	Symbol          string
	PhoneSequence   phoneme.PhoneSeq
	StartByteOffset int
	EndByteOffset   int
	StartTimeMilli  int64
	SSML            *SSMLProps
}

// SentenceSeparator returns the sentinel Word delimiting sentences in a word
// stream. It carries no symbol and no offsets and must never be translated.
func SentenceSeparator() *Word { return &Word{} }

// IsSeparator reports whether w is the sentence separator sentinel.
func (w *Word) IsSeparator() bool {
	return w.OriginalSymbol == "" && w.Symbol == "" &&
		len(w.PhoneSequence) == 0 &&
		w.StartByteOffset == 0 && w.EndByteOffset == 0 &&
		w.SSML == nil
}

// IsSpoken reports whether w carries linguistic content, as opposed to a
// bare punctuation token or the separator sentinel.
func (w *Word) IsSpoken() bool {
	if w.OriginalSymbol == "" {
		return false
	}
	for _, r := range w.OriginalSymbol {
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			return true
		}
	}
	return false
}

// IsFromSSML reports whether w was derived from markup.
func (w *Word) IsFromSSML() bool { return w.SSML != nil }

// SpeechMark serializes w in the speech-mark format consumed by downstream
// alignment: the byte offsets let the caller map synthesized audio back to
// spans of the original input.
func (w *Word) SpeechMark() ([]byte, error) {
	return json.Marshal(struct {
		Time  int64  `json:"time"`
		Type  string `json:"type"`
		Start int    `json:"start"`
		End   int    `json:"end"`
		Value string `json:"value"`
	}{
		Time:  w.StartTimeMilli,
		Type:  "word",
		Start: w.StartByteOffset,
		End:   w.EndByteOffset,
		Value: w.OriginalSymbol,
	})
}
