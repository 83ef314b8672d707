package g2p

import (
	"errors"
	"io"

	"github.com/mimir-speech/talfront/internal/phoneme"
	"github.com/mimir-speech/talfront/internal/version"
)

// Composed groups translators that are tried in order until one produces a
// non-empty result. There is no merging: the first match wins outright.
type Composed struct {
	translators []Translator
	hash        string
}

// NewComposed builds a composed translator. At least one child is required;
// an empty chain is a configuration error, not a silent no-op.
func NewComposed(translators ...Translator) (*Composed, error) {
	if len(translators) == 0 {
		return nil, errors.New("g2p: composed translator needs at least one translator")
	}
	children := make([]string, len(translators))
	for i, t := range translators {
		children[i] = t.VersionHash()
	}
	return &Composed{
		translators: translators,
		hash:        version.Combine("g2p.Composed", children...),
	}, nil
}

// Translate tries each child in order and returns the first non-empty
// result.
func (c *Composed) Translate(text, lang string, alphabet phoneme.Alphabet) (phoneme.PhoneSeq, error) {
	for _, t := range c.translators {
		phones, err := t.Translate(text, lang, alphabet)
		if err != nil {
			return nil, err
		}
		if len(phones) > 0 {
			return phones, nil
		}
	}
	return nil, nil
}

// VersionHash combines the children's fingerprints in construction order.
func (c *Composed) VersionHash() string { return c.hash }

// Close releases every child that holds resources.
func (c *Composed) Close() error {
	var errs []error
	for _, t := range c.translators {
		if closer, ok := t.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
