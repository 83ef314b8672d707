// Package goruut implements the G2P engine using the in-process goruut
// phonemizer. Goruut produces unsegmented IPA per word; the phones are
// re-segmented with the greedy aligner and converted to X-SAMPA to satisfy
// the engine contract.
package goruut

import (
	"context"
	"fmt"
	"strings"

	"github.com/neurlang/goruut/lib"
	"github.com/neurlang/goruut/models/requests"
	"golang.org/x/text/unicode/norm"

	"github.com/mimir-speech/talfront/internal/phoneme"
	"github.com/mimir-speech/talfront/internal/version"
)

// Engine wraps a goruut phonemizer for a fixed language.
type Engine struct {
	p        *lib.Phonemizer
	language string
	hash     string
}

// New creates an engine for the given goruut language name (e.g.
// "Icelandic").
func New(language string) *Engine {
	return &Engine{
		p:        lib.NewPhonemizer(nil),
		language: language,
		hash:     version.Hash("goruut.Engine", []byte(language)),
	}
}

// Transcribe phonemizes text and returns whitespace-delimited X-SAMPA.
func (e *Engine) Transcribe(ctx context.Context, text string, markSyllables bool) (string, error) {
	// Goruut expects composed codepoints; combining marks in the input
	// would split phones the aligner then cannot recover.
	resp := e.p.Sentence(requests.PhonemizeSentence{
		Language: e.language,
		Sentence: norm.NFC.String(text),
	})

	var out []string
	for _, word := range resp.Words {
		ipa, err := phoneme.AlignIPA(word.Phonetic)
		if err != nil {
			return "", fmt.Errorf("goruut produced an unalignable phone string for %q: %w", text, err)
		}
		xs, err := phoneme.ConvertIPAToXSAMPA(ipa)
		if err != nil {
			return "", err
		}
		if markSyllables {
			xs = phoneme.WithStress(xs, text)
		}
		out = append(out, xs...)
	}
	return strings.Join(out, " "), nil
}

// Close is a no-op — the phonemizer holds no external resources.
func (e *Engine) Close() error { return nil }

// VersionHash fingerprints the engine configuration.
func (e *Engine) VersionHash() string { return e.hash }
