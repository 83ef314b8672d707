package normalize

import (
	"context"
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mimir-speech/talfront/internal/ssml"
	"github.com/mimir-speech/talfront/internal/version"
	"github.com/mimir-speech/talfront/internal/words"
)

// Basic segments text locally: words and sentence boundaries with byte-exact
// offsets into the input buffer. SSML input is parsed first and phoneme
// elements become brace-embedded spans in the tokenized text.
type Basic struct{}

// NewBasic creates the local normalizer.
func NewBasic() *Basic { return &Basic{} }

// Normalize yields one Word per token plus a separator sentinel at each
// sentence boundary.
func (b *Basic) Normalize(ctx context.Context, text string, isSSML bool) iter.Seq2[*words.Word, error] {
	return func(yield func(*words.Word, error) bool) {
		if isSSML {
			res, err := ssml.Parse(text)
			if err != nil {
				yield(nil, err)
				return
			}
			text = res.TextWithPhonemes()
		}
		for w := range tokenize(text) {
			if !yield(w, nil) {
				return
			}
		}
	}
}

// VersionHash fingerprints the normalizer implementation.
func (b *Basic) VersionHash() string { return version.Hash("normalize.Basic", nil) }

// endsSentence reports whether a trailing punctuation run closes the
// sentence. Closing quotes may follow the final mark.
func endsSentence(tok string) bool {
	return strings.ContainsAny(tok, ".!?…")
}

// clauseRunes are split off a token's edges as independent punctuation
// tokens.
const clauseRunes = ".,:;!?…"

// quoteRunes are split off a token's leading edge.
const quoteRunes = "\"'«»„“”‚‘’(["

// splitToken separates a raw whitespace-delimited token into a leading
// punctuation run, the core, and a trailing punctuation run. A token whose
// core still contains a period (an abbreviation like "t.d.") keeps its final
// period: the period belongs to the abbreviation, not the sentence.
func splitToken(tok string) (lead, core, trail string) {
	core = tok
	for core != "" {
		r, size := utf8.DecodeRuneInString(core)
		if !strings.ContainsRune(quoteRunes, r) {
			break
		}
		lead += core[:size]
		core = core[size:]
	}
	for core != "" {
		r, size := utf8.DecodeLastRuneInString(core)
		if !strings.ContainsRune(clauseRunes, r) && !strings.ContainsRune(")]\"'“”«»‘’", r) {
			break
		}
		trail = core[len(core)-size:] + trail
		core = core[:len(core)-size]
	}
	if trail == "." && strings.Contains(core, ".") {
		core += trail
		trail = ""
	}
	return lead, core, trail
}

// tokenize is the two-state scanner over the input buffer. Outside braces it
// emits one Word per token with punctuation split off the edges; a token
// opening a brace-delimited phone span switches to the accumulating state
// until a closing brace, and the whole span becomes a single Word whose
// symbol is the exact original slice, braces included. Consumed-byte
// counters advance incrementally — the buffer is never re-scanned.
func tokenize(text string) iter.Seq[*words.Word] {
	return func(yield func(*words.Word) bool) {
		emit := func(start, end int) bool {
			sym := text[start:end]
			return yield(&words.Word{
				OriginalSymbol:  sym,
				Symbol:          sym,
				StartByteOffset: start,
				EndByteOffset:   end,
			})
		}

		sentenceOpen := false
		braceOpen := false
		braceStart := 0

		pos := 0
		for pos < len(text) {
			r, size := utf8.DecodeRuneInString(text[pos:])
			if unicode.IsSpace(r) {
				pos += size
				continue
			}
			start := pos
			for pos < len(text) {
				r, size = utf8.DecodeRuneInString(text[pos:])
				if unicode.IsSpace(r) {
					break
				}
				pos += size
			}
			tok := text[start:pos]

			if !braceOpen && strings.HasPrefix(tok, "{") {
				braceOpen = true
				braceStart = start
			}
			if braceOpen {
				// Inside a span nothing is emitted until the closing
				// brace; a span left open at end of input has no anchor
				// and is dropped.
				end := strings.IndexByte(tok, '}')
				if end < 0 {
					continue
				}
				spanEnd := start + end + 1
				if !emit(braceStart, spanEnd) {
					return
				}
				sentenceOpen = true
				braceOpen = false
				// punctuation riding on the closing brace
				start = spanEnd
				tok = text[start:pos]
				if tok == "" {
					continue
				}
			}

			lead, core, trail := splitToken(tok)
			at := start
			if lead != "" {
				if !emit(at, at+len(lead)) {
					return
				}
				sentenceOpen = true
				at += len(lead)
			}
			if core != "" {
				if !emit(at, at+len(core)) {
					return
				}
				sentenceOpen = true
				at += len(core)
			}
			if trail != "" {
				if !emit(at, at+len(trail)) {
					return
				}
				if endsSentence(trail) {
					if !yield(words.SentenceSeparator()) {
						return
					}
					sentenceOpen = false
				} else {
					sentenceOpen = true
				}
			}
		}

		if sentenceOpen {
			yield(words.SentenceSeparator())
		}
	}
}
