// Package pipeline chains text normalization and grapheme-to-phoneme
// translation into the full frontend run: raw text or SSML in, words with
// phone sequences and byte offsets out.
package pipeline

import (
	"context"
	"iter"
	"log/slog"

	"github.com/mimir-speech/talfront/internal/g2p"
	"github.com/mimir-speech/talfront/internal/normalize"
	"github.com/mimir-speech/talfront/internal/phoneme"
	"github.com/mimir-speech/talfront/internal/version"
	"github.com/mimir-speech/talfront/internal/words"
)

// Pipeline runs the frontend stages in order. Both stages are streaming:
// words flow through one at a time and errors surface at the word where
// they occur.
type Pipeline struct {
	normalizer normalize.Normalizer
	translator g2p.Translator
	language   string
}

// New assembles a pipeline for one language.
func New(normalizer normalize.Normalizer, translator g2p.Translator, language string) *Pipeline {
	return &Pipeline{
		normalizer: normalizer,
		translator: translator,
		language:   language,
	}
}

// Run normalizes the input and translates every spoken word into the
// requested phonetic alphabet.
func (p *Pipeline) Run(ctx context.Context, text string, isSSML bool, alphabet phoneme.Alphabet) iter.Seq2[*words.Word, error] {
	slog.Debug("frontend run",
		"language", p.language,
		"alphabet", alphabet,
		"ssml", isSSML,
		"bytes", len(text))
	normalized := p.normalizer.Normalize(ctx, text, isSSML)
	return g2p.TranslateWords(p.translator, normalized, p.language, alphabet)
}

// RunAll collects a full run into a slice. The first error aborts the run.
func (p *Pipeline) RunAll(ctx context.Context, text string, isSSML bool, alphabet phoneme.Alphabet) ([]*words.Word, error) {
	var out []*words.Word
	for w, err := range p.Run(ctx, text, isSSML, alphabet) {
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, nil
}

// VersionHash combines the fingerprints of both stages: a change to the
// normalizer, the translator chain, or any lexicon behind it changes the
// pipeline hash.
func (p *Pipeline) VersionHash() string {
	return version.Combine("pipeline.Pipeline",
		p.normalizer.VersionHash(),
		p.translator.VersionHash())
}
