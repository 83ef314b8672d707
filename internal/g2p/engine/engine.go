// Package engine defines the contract for grapheme-to-phoneme engines: the
// model-backed collaborators a ModelTranslator delegates to when the lexicon
// has no answer. Engines are opaque — in-process model or remote service —
// and always speak X-SAMPA.
package engine

import (
	"context"

	"github.com/mimir-speech/talfront/internal/version"
)

// Engine transcribes graphemic text to phones.
type Engine interface {
	version.Versioned

	// Transcribe converts text (already lowercased and stripped of
	// punctuation by the caller) to whitespace-delimited X-SAMPA phones.
	// When markSyllables is set the output carries syllable boundaries
	// and stress digits. Syllable marking is an explicit parameter, not
	// engine state, so concurrent calls with different alphabets cannot
	// interfere.
	Transcribe(ctx context.Context, text string, markSyllables bool) (string, error)

	// Close releases any resources held by the engine.
	Close() error
}
