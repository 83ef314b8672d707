package phoneme

import "strings"

// xsampaNuclei is the set of X-SAMPA phones that can carry a syllable
// nucleus (monophthongs and diphthongs, short and long).
var xsampaNuclei = map[string]struct{}{
	"a": {}, "a:": {}, "ai": {}, "ai:": {}, "au": {}, "au:": {},
	"ei": {}, "ei:": {}, "i": {}, "i:": {}, "I": {}, "I:": {},
	"E": {}, "E:": {}, "O": {}, "O:": {}, "Oi": {}, "ou": {}, "ou:": {},
	"u": {}, "u:": {}, "Y": {}, "Y:": {}, "Yi": {},
	"9": {}, "9:": {}, "9i": {}, "9i:": {},
}

// WithStress annotates an X-SAMPA phone sequence with syllable boundaries
// and stress digits. Icelandic carries fixed initial stress, so the first
// nucleus is marked "1" and every later nucleus "0". A syllable boundary is
// placed before the onset consonant of each non-initial syllable, or directly
// between adjacent nuclei. Pause phones and existing boundaries pass through
// untouched.
//
// The word argument is the orthographic form the phones were produced from;
// it is unused today but kept so lexical exceptions can hook in later.
func WithStress(phones PhoneSeq, word string) PhoneSeq {
	_ = word
	out := make(PhoneSeq, 0, len(phones)+4)
	nuclei := 0
	lastNucleus := -1 // index into out of the most recent nucleus
	for _, ph := range phones {
		if ph == ShortPause || ph == SyllableBoundary {
			out = append(out, ph)
			continue
		}
		if _, ok := xsampaNuclei[ph]; !ok {
			out = append(out, ph)
			continue
		}
		nuclei++
		if nuclei > 1 {
			// New syllable: the boundary lands before this nucleus'
			// onset consonant when one exists, otherwise right here.
			at := len(out)
			if at > lastNucleus+1 {
				at--
			}
			out = append(out[:at], append(PhoneSeq{SyllableBoundary}, out[at:]...)...)
		}
		stress := "0"
		if nuclei == 1 {
			stress = "1"
		}
		out = append(out, ph+stress)
		lastNucleus = len(out) - 1
	}
	return out
}

// StripStress removes syllable boundaries and stress digits, recovering a
// plain X-SAMPA sequence.
func StripStress(phones PhoneSeq) PhoneSeq {
	out := make(PhoneSeq, 0, len(phones))
	for _, ph := range phones {
		if ph == SyllableBoundary {
			continue
		}
		trimmed := strings.TrimRight(ph, "01")
		if trimmed == "" {
			trimmed = ph
		}
		out = append(out, trimmed)
	}
	return out
}
