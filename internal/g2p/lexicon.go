package g2p

import (
	"strings"

	"github.com/mimir-speech/talfront/internal/lexicon"
	"github.com/mimir-speech/talfront/internal/phoneme"
	"github.com/mimir-speech/talfront/internal/version"
)

// LexiconTranslator resolves pronunciations from a static lexicon. Lookup is
// case-sensitive first, then falls back to the lowercase form; a total miss
// yields an empty sequence so a composed chain can try the next translator.
type LexiconTranslator struct {
	lex  *lexicon.InMemory
	hash string
}

// NewLexiconTranslator loads the lexicon at path, written in the given
// native alphabet. The file is read once; a missing or unreadable file is a
// startup error.
func NewLexiconTranslator(path string, native phoneme.Alphabet) (*LexiconTranslator, error) {
	lex, err := lexicon.Load(path, native)
	if err != nil {
		return nil, err
	}
	return &LexiconTranslator{
		lex:  lex,
		hash: version.Combine("g2p.LexiconTranslator", lex.VersionHash()),
	}, nil
}

// Translate resolves phones for text, honoring embedded phone spans.
func (t *LexiconTranslator) Translate(text, lang string, alphabet phoneme.Alphabet) (phoneme.PhoneSeq, error) {
	return scanEmbedded(text, alphabet, func(w string) (phoneme.PhoneSeq, error) {
		return t.lookup(w, alphabet)
	})
}

// lookup returns the pronunciation in the requested alphabet. The lexicon
// hands back IPA; conversion happens after the lookup, never before.
func (t *LexiconTranslator) lookup(w string, alphabet phoneme.Alphabet) (phoneme.PhoneSeq, error) {
	phones := t.lex.Get(w)
	if len(phones) == 0 {
		phones = t.lex.Get(strings.ToLower(w))
	}
	if len(phones) == 0 || alphabet == phoneme.IPA {
		return phones, nil
	}
	xs, err := phoneme.ConvertIPAToXSAMPA(phones)
	if err != nil {
		return nil, err
	}
	if alphabet == phoneme.XSAMPAWithStress {
		xs = phoneme.WithStress(xs, w)
	}
	return xs, nil
}

// VersionHash fingerprints the translator and its lexicon file.
func (t *LexiconTranslator) VersionHash() string { return t.hash }
