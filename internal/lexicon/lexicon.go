// Package lexicon implements the static pronunciation dictionary: an
// in-memory map from orthographic word form to a canonical phone sequence,
// loaded once at startup from a Kaldi-style lexicon file and read-only
// afterward.
package lexicon

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/mimir-speech/talfront/internal/phoneme"
	"github.com/mimir-speech/talfront/internal/version"
)

// Lexicon maps orthographic word forms to phone sequences. Get returns IPA
// regardless of the file's native alphabet; a miss returns nil, never an
// error, so callers can fall through to the next translator.
type Lexicon interface {
	Get(grapheme string) phoneme.PhoneSeq
	GetXSAMPA(grapheme string) phoneme.PhoneSeq
}

var probRe = regexp.MustCompile(`^[0-1]\.[0-9]+$`)

// InMemory is a Lexicon backed by a plain map. Safe for concurrent reads
// once constructed.
type InMemory struct {
	entries map[string]phoneme.PhoneSeq
	native  phoneme.Alphabet
	hash    string
}

// Load reads a Kaldi-style lexicon file: one entry per line, the word form
// followed by whitespace-delimited phones. Some lexica carry a pronunciation
// probability in the second column; the first line is probed to detect that
// layout.
func Load(path string, native phoneme.Alphabet) (*InMemory, error) {
	if native != phoneme.IPA && native != phoneme.XSAMPA {
		return nil, fmt.Errorf("unsupported lexicon alphabet %q", native)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lexicon: %w", err)
	}

	lex := &InMemory{
		entries: make(map[string]phoneme.PhoneSeq),
		native:  native,
		hash:    version.Hash("lexicon.InMemory", data),
	}

	hasProbs := false
	probed := false
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 2 {
			return nil, fmt.Errorf("lexicon line %d: entry %q has no pronunciation", lineNum, fields[0])
		}
		if !probed {
			hasProbs = probRe.MatchString(fields[1])
			probed = true
		}
		pron := fields[1:]
		if hasProbs {
			if len(fields) < 3 {
				return nil, fmt.Errorf("lexicon line %d: entry %q has probability but no pronunciation", lineNum, fields[0])
			}
			pron = fields[2:]
		}
		lex.entries[fields[0]] = phoneme.PhoneSeq(pron)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning lexicon: %w", err)
	}
	return lex, nil
}

// Len returns the number of entries.
func (l *InMemory) Len() int { return len(l.entries) }

// Get returns the IPA phone sequence for grapheme, or nil on a miss.
func (l *InMemory) Get(grapheme string) phoneme.PhoneSeq {
	phones, ok := l.entries[grapheme]
	if !ok {
		return nil
	}
	if l.native != phoneme.IPA {
		converted, err := phoneme.ConvertXSAMPAToIPA(phones)
		if err != nil {
			return nil
		}
		return converted
	}
	return phones
}

// GetXSAMPA returns the X-SAMPA phone sequence for grapheme, or nil on a miss.
func (l *InMemory) GetXSAMPA(grapheme string) phoneme.PhoneSeq {
	phones, ok := l.entries[grapheme]
	if !ok {
		return nil
	}
	if l.native != phoneme.XSAMPA {
		converted, err := phoneme.ConvertIPAToXSAMPA(phones)
		if err != nil {
			return nil
		}
		return converted
	}
	return phones
}

// VersionHash fingerprints the lexicon file content.
func (l *InMemory) VersionHash() string { return l.hash }
