// Package g2p implements the grapheme-to-phoneme translator chain: the
// component that resolves a phone sequence for each Word in the normalized
// stream. Translators are composed first-match-wins, consult the lexicon
// before any model, and recognize caller-supplied embedded phone spans so
// explicit pronunciations are never re-translated.
package g2p

import (
	"fmt"
	"iter"
	"regexp"
	"strings"

	"github.com/mimir-speech/talfront/internal/phoneme"
	"github.com/mimir-speech/talfront/internal/version"
	"github.com/mimir-speech/talfront/internal/words"
)

// Translator turns graphemic text into a phone sequence.
type Translator interface {
	version.Versioned

	// Translate converts freeform text to phones in the requested
	// alphabet. An empty result is a miss, not an error; errors are
	// reserved for malformed input such as invalid embedded phone spans.
	Translate(text, lang string, alphabet phoneme.Alphabet) (phoneme.PhoneSeq, error)
}

// ASCII punctuation, minus the brace and bracket characters which delimit
// embedded phone spans and are structural rather than orthographic.
const punctuation = "!\"#$%&'()*+,-./:;<=>?@\\^_`|~"

var punctRe = regexp.MustCompile(`([!"#$%&'()*+,\-./:;<=>?@\\^_` + "`" + `|~])`)

// isolatePunctuation surrounds punctuation characters with spaces so they
// become independent translation units.
func isolatePunctuation(s string) string {
	return punctRe.ReplaceAllString(s, " $1 ")
}

// stripPunctuation removes punctuation characters entirely.
func stripPunctuation(s string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(punctuation, r) {
			return -1
		}
		return r
	}, s)
}

// translationUnits splits a punctuation-isolated symbol into the units fed
// to Translate, keeping a brace-delimited span together as one unit even
// when it spans several whitespace-separated pieces.
func translationUnits(symbol string) []string {
	var units []string
	var span []string
	open := false
	for _, piece := range strings.Fields(symbol) {
		switch {
		case open:
			span = append(span, piece)
			if strings.HasSuffix(piece, "}") {
				units = append(units, strings.Join(span, " "))
				span = nil
				open = false
			}
		case strings.HasPrefix(piece, "{") && !strings.HasSuffix(piece, "}"):
			span = append(span, piece)
			open = true
		default:
			units = append(units, piece)
		}
	}
	// An unterminated span is passed through as-is; the scanner state
	// machine deals with it.
	units = append(units, span...)
	return units
}

// TranslateWords runs each Word in the stream through t, deciding per Word
// whether translation applies. Separator sentinels pass through untouched,
// as does markup-derived content whose tag is already phonetic. In the
// stress-annotated alphabet every spoken word is followed by a synthetic
// syllable-boundary word for the synthesis backend's pacing.
func TranslateWords(t Translator, seq iter.Seq2[*words.Word, error], lang string, alphabet phoneme.Alphabet) iter.Seq2[*words.Word, error] {
	return func(yield func(*words.Word, error) bool) {
		for w, err := range seq {
			if err != nil {
				yield(nil, err)
				return
			}
			if shouldTranslate(w) {
				phones, err := translateSymbol(t, w.Symbol, lang, alphabet)
				if err != nil {
					yield(nil, fmt.Errorf("translating %q: %w", w.Symbol, err))
					return
				}
				w.PhoneSequence = phones
			} else if w.IsFromSSML() && w.SSML.TagType == words.TagPhoneme {
				// Carried-forward phoneme-tag phones are canonical IPA;
				// the stream must be uniform in the requested alphabet.
				w.PhoneSequence = convertEmbedded(w.PhoneSequence, alphabet)
			}
			if !yield(w, nil) {
				return
			}
			if w.IsSpoken() && alphabet == phoneme.XSAMPAWithStress {
				marker := &words.Word{PhoneSequence: phoneme.PhoneSeq{phoneme.SyllableBoundary}}
				if !yield(marker, nil) {
					return
				}
			}
		}
	}
}

// shouldTranslate implements the skip rules: never the separator sentinel,
// and never markup content whose tag already carries phones.
func shouldTranslate(w *words.Word) bool {
	if w.IsSeparator() {
		return false
	}
	if w.IsFromSSML() && w.SSML.TagType == words.TagPhoneme {
		return false
	}
	return true
}

func translateSymbol(t Translator, symbol, lang string, alphabet phoneme.Alphabet) (phoneme.PhoneSeq, error) {
	var phones phoneme.PhoneSeq
	for _, unit := range translationUnits(isolatePunctuation(symbol)) {
		seq, err := t.Translate(unit, lang, alphabet)
		if err != nil {
			return nil, err
		}
		phones = append(phones, seq...)
	}
	return phones, nil
}
