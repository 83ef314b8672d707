// Package normalize turns raw input — plain text or SSML — into the Word
// stream consumed by the translator chain. Two normalizers exist: the basic
// one segments locally, the remote one delegates token rewriting to an
// external normalization service and realigns its output against the
// original buffer.
package normalize

import (
	"context"
	"iter"

	"github.com/mimir-speech/talfront/internal/version"
	"github.com/mimir-speech/talfront/internal/words"
)

// Normalizer produces the Word stream for one input buffer. The sequence is
// finite, single-pass and not restartable; byte offsets on the yielded Words
// are monotonically non-decreasing.
type Normalizer interface {
	version.Versioned

	Normalize(ctx context.Context, text string, isSSML bool) iter.Seq2[*words.Word, error]
}
