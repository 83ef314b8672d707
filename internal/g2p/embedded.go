package g2p

import (
	"strings"

	"github.com/mimir-speech/talfront/internal/phoneme"
)

var braceStripper = strings.NewReplacer("{", "", "}", "")

// scanEmbedded is the embedded-phoneme layer shared by the concrete
// translators. It walks whitespace-separated pieces with a two-state
// machine: outside a span, a piece is either a complete brace-delimited
// phone span, the opening of one, an isolated pause token, or an ordinary
// word handed to translateWord; inside a span, raw phone text accumulates
// until a closing brace. Embedded spans are written in IPA — the canonical
// intermediate — and converted to the target alphabet on the way out.
func scanEmbedded(text string, alphabet phoneme.Alphabet, translateWord func(w string) (phoneme.PhoneSeq, error)) (phoneme.PhoneSeq, error) {
	// Sentence-internal pause punctuation becomes its own piece.
	text = strings.ReplaceAll(text, ",", " ,")
	text = strings.ReplaceAll(text, ".", " .")

	var phones phoneme.PhoneSeq
	var span phoneme.PhoneSeq
	open := false
	for _, piece := range strings.Fields(text) {
		if open {
			ph := piece
			if strings.HasSuffix(piece, "}") {
				ph = braceStripper.Replace(piece)
				open = false
			}
			if ph != "" {
				span = append(span, ph)
			}
			if !open {
				phones = append(phones, convertEmbedded(span, alphabet)...)
				span = nil
			}
			continue
		}

		switch {
		case strings.HasPrefix(piece, "{") && strings.HasSuffix(piece, "}"):
			// A whole span in a single piece: the content carries no
			// separators, so segment boundaries are recovered by the
			// aligner.
			seq, err := phoneme.AlignIPA(braceStripper.Replace(piece))
			if err != nil {
				return nil, err
			}
			phones = append(phones, convertEmbedded(seq, alphabet)...)
		case strings.HasPrefix(piece, "{"):
			open = true
			if ph := braceStripper.Replace(piece); ph != "" {
				span = append(span, ph)
			}
		case piece == "." || piece == ",":
			if alphabet == phoneme.XSAMPAWithStress {
				phones = append(phones, phoneme.SyllableBoundary)
			} else {
				phones = append(phones, phoneme.ShortPause)
			}
		default:
			seq, err := translateWord(piece)
			if err != nil {
				return nil, err
			}
			phones = append(phones, seq...)
		}
	}
	if len(span) > 0 {
		// Unterminated span: the accumulated phones are kept rather than
		// silently lost.
		phones = append(phones, convertEmbedded(span, alphabet)...)
	}
	return phones, nil
}

// convertEmbedded converts an embedded IPA span to the target alphabet. For
// the IPA target the span passes through verbatim; for the X-SAMPA targets
// the conversion is lenient, so a span the caller already wrote in X-SAMPA
// survives unchanged.
func convertEmbedded(seq phoneme.PhoneSeq, alphabet phoneme.Alphabet) phoneme.PhoneSeq {
	if alphabet == phoneme.IPA {
		return seq
	}
	xs := phoneme.MapIPAToXSAMPA(seq)
	if alphabet == phoneme.XSAMPAWithStress {
		xs = phoneme.WithStress(xs, "")
	}
	return xs
}
