package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mimir-speech/talfront/internal/g2p"
	"github.com/mimir-speech/talfront/internal/normalize"
	"github.com/mimir-speech/talfront/internal/phoneme"
)

func testPipeline(t *testing.T) *Pipeline {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lexicon.txt")
	content := "hann\th a n\nsagði\ts a G D I\nhús\th u: s\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	lex, err := g2p.NewLexiconTranslator(path, phoneme.XSAMPA)
	require.NoError(t, err)
	translator, err := g2p.NewComposed(lex)
	require.NoError(t, err)

	return New(normalize.NewBasic(), translator, "is-IS")
}

func TestRunAll(t *testing.T) {
	p := testPipeline(t)

	got, err := p.RunAll(context.Background(), "Hann sagði {h a n t I r}.", false, phoneme.XSAMPA)
	require.NoError(t, err)
	require.Len(t, got, 5)

	assert.Equal(t, phoneme.PhoneSeq{"h", "a", "n"}, got[0].PhoneSequence)
	assert.Equal(t, phoneme.PhoneSeq{"s", "a", "G", "D", "I"}, got[1].PhoneSequence)
	assert.Equal(t, phoneme.PhoneSeq{"h", "a", "n", "t", "I", "r"}, got[2].PhoneSequence)
	assert.Equal(t, phoneme.PhoneSeq{"sp"}, got[3].PhoneSequence)
	assert.True(t, got[4].IsSeparator())

	assert.Equal(t, 12, got[2].StartByteOffset)
	assert.Equal(t, 25, got[2].EndByteOffset)
}

func TestRunAllSSML(t *testing.T) {
	p := testPipeline(t)

	got, err := p.RunAll(context.Background(),
		`<speak>hann <phoneme alphabet="x-sampa" ph="h u: s">kofi</phoneme></speak>`,
		true, phoneme.XSAMPA)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, phoneme.PhoneSeq{"h", "a", "n"}, got[0].PhoneSequence)
	assert.Equal(t, phoneme.PhoneSeq{"h", "u:", "s"}, got[1].PhoneSequence)
	assert.True(t, got[2].IsSeparator())
}

type fakeNormClient struct {
	sentences [][]normalize.TokenPair
}

func (f *fakeNormClient) NormalizeTokenwise(ctx context.Context, text string) ([][]normalize.TokenPair, error) {
	return f.sentences, nil
}

func (f *fakeNormClient) Close() error        { return nil }
func (f *fakeNormClient) VersionHash() string { return "fakeNormClient" }

// Phoneme-tag words come out of the remote realigner in IPA; the full run
// must still deliver one uniform alphabet.
func TestRunAllRemoteSSMLAlphabet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.txt")
	require.NoError(t, os.WriteFile(path, []byte("hann\th a n\n"), 0o644))
	lex, err := g2p.NewLexiconTranslator(path, phoneme.XSAMPA)
	require.NoError(t, err)
	translator, err := g2p.NewComposed(lex)
	require.NoError(t, err)

	client := &fakeNormClient{sentences: [][]normalize.TokenPair{{
		{Original: "hann", Normalized: "hann"},
		{Original: "kofi", Normalized: "kofi"},
	}}}
	p := New(normalize.NewRemote(client), translator, "is-IS")

	got, err := p.RunAll(context.Background(),
		`<speak>hann <phoneme alphabet="x-sampa" ph="h u: s">kofi</phoneme></speak>`,
		true, phoneme.XSAMPA)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, phoneme.PhoneSeq{"h", "a", "n"}, got[0].PhoneSequence)
	assert.Equal(t, phoneme.PhoneSeq{"h", "u:", "s"}, got[1].PhoneSequence, "carried phones arrive in the requested alphabet")
	assert.True(t, got[2].IsSeparator())
}

func TestRunAllAbortsOnError(t *testing.T) {
	p := testPipeline(t)

	_, err := p.RunAll(context.Background(), "<broken", true, phoneme.XSAMPA)
	assert.Error(t, err)
}

func TestVersionHashStable(t *testing.T) {
	a := testPipeline(t)
	b := testPipeline(t)
	assert.Equal(t, a.VersionHash(), b.VersionHash())
}
