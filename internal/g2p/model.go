package g2p

import (
	"context"
	"strings"

	"github.com/mimir-speech/talfront/internal/g2p/engine"
	"github.com/mimir-speech/talfront/internal/phoneme"
	"github.com/mimir-speech/talfront/internal/version"
)

// ModelTranslator delegates to a grapheme-to-phoneme engine. It is the
// fallback of the chain: anything the lexicon cannot answer ends up here.
type ModelTranslator struct {
	engine engine.Engine
	hash   string
}

// NewModelTranslator wraps an engine.
func NewModelTranslator(e engine.Engine) *ModelTranslator {
	return &ModelTranslator{
		engine: e,
		hash:   version.Combine("g2p.ModelTranslator", e.VersionHash()),
	}
}

// Translate resolves phones for text, honoring embedded phone spans.
func (t *ModelTranslator) Translate(text, lang string, alphabet phoneme.Alphabet) (phoneme.PhoneSeq, error) {
	return scanEmbedded(text, alphabet, func(w string) (phoneme.PhoneSeq, error) {
		return t.transcribe(w, alphabet)
	})
}

// transcribe hands one word to the engine. Punctuation is stripped and the
// text lowercased first; empty input short-circuits without touching the
// engine at all. Syllable marking is requested only for the stress
// alphabet.
func (t *ModelTranslator) transcribe(w string, alphabet phoneme.Alphabet) (phoneme.PhoneSeq, error) {
	w = stripPunctuation(w)
	if strings.TrimSpace(w) == "" {
		return nil, nil
	}

	out, err := t.engine.Transcribe(context.Background(), strings.ToLower(w), alphabet == phoneme.XSAMPAWithStress)
	if err != nil {
		return nil, err
	}

	phones := phoneme.PhoneSeq(strings.Fields(out))
	if alphabet == phoneme.IPA {
		return phoneme.ConvertXSAMPAToIPA(phones)
	}
	return phones, nil
}

// VersionHash fingerprints the translator and its engine.
func (t *ModelTranslator) VersionHash() string { return t.hash }

// Close releases the underlying engine.
func (t *ModelTranslator) Close() error { return t.engine.Close() }
