// Package phoneme defines the phonetic alphabets used by the frontend and
// conversions between them.
//
// Three alphabets are supported: IPA, X-SAMPA and X-SAMPA annotated with
// syllable boundaries and stress marks. A phone sequence always belongs to
// exactly one alphabet — conversions between alphabets go through IPA as the
// canonical intermediate where needed.
package phoneme

import "fmt"

// Alphabet identifies the phonetic alphabet a phone sequence is written in.
type Alphabet string

const (
	// IPA is the International Phonetic Alphabet.
	IPA Alphabet = "ipa"

	// XSAMPA is the ASCII-only X-SAMPA encoding.
	XSAMPA Alphabet = "x-sampa"

	// XSAMPAWithStress is X-SAMPA annotated with syllable boundaries and
	// stress digits.
	XSAMPAWithStress Alphabet = "x-sampa+syll+stress"
)

// Valid reports whether a is one of the supported alphabets.
func (a Alphabet) Valid() bool {
	switch a {
	case IPA, XSAMPA, XSAMPAWithStress:
		return true
	}
	return false
}

// PhoneSeq is an ordered sequence of phones from a single alphabet.
type PhoneSeq []string

// ShortPause is the silence phone inserted for sentence-internal punctuation.
const ShortPause = "sp"

// SyllableBoundary separates syllables in the stress-annotated alphabet.
const SyllableBoundary = "."

// ipaToXSAMPA covers the Icelandic phone inventory.
var ipaToXSAMPA = map[string]string{
	"a":        "a",
	"ai":       "ai",
	"aiː":      "ai:",
	"au":       "au",
	"auː":      "au:",
	"aː":       "a:",
	"c":        "c",
	"cʰ":       "c_h",
	"ei":       "ei",
	"eiː":      "ei:",
	"f":        "f",
	"h":        "h",
	"i":        "i",
	"iː":       "i:",
	"j":        "j",
	"k":        "k",
	"kʰ":       "k_h",
	"l":        "l",
	"l̥":       "l_0",
	"m":        "m",
	"m̥":       "m_0",
	"n":        "n",
	"n̥":       "n_0",
	"ou":       "ou",
	"ouː":      "ou:",
	"p":        "p",
	"pʰ":       "p_h",
	"r":        "r",
	"r̥":       "r_0",
	"s":        "s",
	"t":        "t",
	"tʰ":       "t_h",
	"u":        "u",
	"uː":       "u:",
	"v":        "v",
	"x":        "x",
	"ç":        "C",
	"ð":        "D",
	"ŋ":        "N",
	"ŋ̊":       "N_0",
	"œ":        "9",
	"œy":       "9i",
	"œyː":      "9i:",
	"œː":       "9:",
	"ɔ":        "O",
	"ɔi":       "Oi",
	"ɔː":       "O:",
	"ɛ":        "E",
	"ɛː":       "E:",
	"ɣ":        "G",
	"ɪ":        "I",
	"ɪː":       "I:",
	"ɲ":        "J",
	"ɲ̊":       "J_0",
	"ʏ":        "Y",
	"ʏi":       "Yi",
	"ʏː":       "Y:",
	"θ":        "T",
	ShortPause: ShortPause,
}

// xsampaToIPA must be built in a variable initializer, not an init func:
// the package-level aligners are constructed from it, and variable
// initialization is ordered by dependency while init funcs run after all of
// it.
var xsampaToIPA = invert(ipaToXSAMPA)

func invert(m map[string]string) map[string]string {
	inv := make(map[string]string, len(m))
	for k, v := range m {
		inv[v] = k
	}
	return inv
}

// ConvertIPAToXSAMPA converts an IPA phone sequence to X-SAMPA. It fails on
// any phone outside the supported inventory.
func ConvertIPAToXSAMPA(phones PhoneSeq) (PhoneSeq, error) {
	out := make(PhoneSeq, 0, len(phones))
	for _, ph := range phones {
		xs, ok := ipaToXSAMPA[ph]
		if !ok {
			return nil, fmt.Errorf("unknown IPA phone %q", ph)
		}
		out = append(out, xs)
	}
	return out, nil
}

// MapIPAToXSAMPA converts an IPA phone sequence to X-SAMPA, passing any
// phone outside the supported inventory through unchanged. Caller-supplied
// embedded phone spans need this: a span already written in the target
// alphabet must survive verbatim.
func MapIPAToXSAMPA(phones PhoneSeq) PhoneSeq {
	out := make(PhoneSeq, 0, len(phones))
	for _, ph := range phones {
		if xs, ok := ipaToXSAMPA[ph]; ok {
			out = append(out, xs)
		} else {
			out = append(out, ph)
		}
	}
	return out
}

// ConvertXSAMPAToIPA converts an X-SAMPA phone sequence to IPA. It fails on
// any phone outside the supported inventory.
func ConvertXSAMPAToIPA(phones PhoneSeq) (PhoneSeq, error) {
	out := make(PhoneSeq, 0, len(phones))
	for _, ph := range phones {
		ipa, ok := xsampaToIPA[ph]
		if !ok {
			return nil, fmt.Errorf("unknown X-SAMPA phone %q", ph)
		}
		out = append(out, ipa)
	}
	return out, nil
}
