package normalize

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mimir-speech/talfront/internal/phoneme"
	"github.com/mimir-speech/talfront/internal/version"
	"github.com/mimir-speech/talfront/internal/words"
)

// fakeClient returns canned sentences and records the text it was sent.
type fakeClient struct {
	sentences [][]TokenPair
	sent      string
	closed    bool
}

func (f *fakeClient) NormalizeTokenwise(ctx context.Context, text string) ([][]TokenPair, error) {
	f.sent = text
	return f.sentences, nil
}

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

func (f *fakeClient) VersionHash() string { return version.Hash("normalize.fakeClient", nil) }

func TestRemoteRealignsPlainText(t *testing.T) {
	client := &fakeClient{sentences: [][]TokenPair{{
		{"Mennirnir", "mennirnir"},
		{"notuðu", "notuðu"},
		{"áttavita", "áttavita"},
		{".", "."},
	}}}
	r := NewRemote(client)

	got := collectWords(t, r, "Mennirnir notuðu áttavita.", false)
	require.Len(t, got, 5)
	assert.Equal(t, "Mennirnir notuðu áttavita.", client.sent)

	assertSpans(t, got, []span{
		{"mennirnir", 0, 9},
		{"notuðu", 10, 17},
		{"áttavita", 18, 27},
		{".", 27, 28},
		{"", 0, 0},
	})
	assert.Equal(t, "Mennirnir", got[0].OriginalSymbol, "the original form survives alongside the normalization")
}

func TestRemoteTokenExpansion(t *testing.T) {
	client := &fakeClient{sentences: [][]TokenPair{{
		{"1984", "nítján hundruð áttatíu og fjögur"},
	}}}
	r := NewRemote(client)

	got := collectWords(t, r, "1984", false)
	require.Len(t, got, 2)
	assert.Equal(t, "1984", got[0].OriginalSymbol)
	assert.Equal(t, "nítján hundruð áttatíu og fjögur", got[0].Symbol)
	assert.Equal(t, 0, got[0].StartByteOffset)
	assert.Equal(t, 4, got[0].EndByteOffset)
}

func TestRemoteMultipleSentences(t *testing.T) {
	client := &fakeClient{sentences: [][]TokenPair{
		{{"Já", "já"}, {".", "."}},
		{{"Nei", "nei"}, {"!", "!"}},
	}}
	r := NewRemote(client)

	got := collectWords(t, r, "Já. Nei!", false)
	require.Len(t, got, 6)
	assert.True(t, got[2].IsSeparator())
	assert.True(t, got[5].IsSeparator())
	assert.Equal(t, 5, got[3].StartByteOffset)
	assert.Equal(t, 8, got[3].EndByteOffset)
}

func TestRemoteRealignMismatch(t *testing.T) {
	client := &fakeClient{sentences: [][]TokenPair{{
		{"annað", "annað"},
	}}}
	r := NewRemote(client)

	var seen error
	for _, err := range r.Normalize(context.Background(), "eitt", false) {
		if err != nil {
			seen = err
		}
	}
	require.Error(t, seen)
	assert.Contains(t, seen.Error(), "realign")
}

func TestRemoteSSMLOffsets(t *testing.T) {
	markup := `<speak>Halló <phoneme alphabet="x-sampa" ph="h ei m Y r">heimur</phoneme></speak>`
	client := &fakeClient{sentences: [][]TokenPair{{
		{"Halló", "halló"},
		{"heimur", "heimur"},
	}}}
	r := NewRemote(client)

	got := collectWords(t, r, markup, true)
	require.Len(t, got, 3)
	assert.Equal(t, "Halló heimur", client.sent, "the service sees plain text, never markup")

	first := got[0]
	assert.Equal(t, strings.Index(markup, "Halló"), first.StartByteOffset)
	assert.Equal(t, strings.Index(markup, "Halló")+len("Halló"), first.EndByteOffset)
	assert.Equal(t, "halló", first.Symbol)

	ph := got[1]
	assert.Equal(t, strings.Index(markup, "heimur</phoneme>"), ph.StartByteOffset)
	assert.Equal(t, strings.Index(markup, "heimur</phoneme>")+len("heimur"), ph.EndByteOffset)
	assert.Equal(t, phoneme.PhoneSeq{"h", "ei", "m", "ʏ", "r"}, ph.PhoneSequence)
	require.NotNil(t, ph.SSML)
	assert.Equal(t, words.TagPhoneme, ph.SSML.TagType)

	assert.True(t, got[2].IsSeparator())
}

func TestRemoteSSMLMultiWordPhoneme(t *testing.T) {
	markup := `<speak><phoneme alphabet="ipa" ph="apa">Hanna Birna</phoneme> kom</speak>`
	client := &fakeClient{sentences: [][]TokenPair{{
		{"Hanna", "hanna"},
		{"Birna", "birna"},
		{"kom", "kom"},
	}}}
	r := NewRemote(client)

	got := collectWords(t, r, markup, true)
	require.Len(t, got, 3)

	ph := got[0]
	assert.Equal(t, "Hanna Birna", ph.OriginalSymbol, "the element content stays one word")
	assert.Equal(t, strings.Index(markup, "Hanna"), ph.StartByteOffset)
	assert.Equal(t, strings.Index(markup, "Hanna")+len("Hanna Birna"), ph.EndByteOffset)
	require.NotNil(t, ph.SSML)
	assert.True(t, ph.SSML.Multi)

	assert.Equal(t, "kom", got[1].OriginalSymbol)
	assert.Equal(t, strings.Index(markup, "kom<"), got[1].StartByteOffset)
}

func TestRemoteSSMLSub(t *testing.T) {
	markup := `<speak>hann vó <sub alias="80 kíló">80kg</sub> í gær</speak>`
	client := &fakeClient{sentences: [][]TokenPair{{
		{"hann", "hann"},
		{"vó", "vó"},
		{"80", "áttatíu"},
		{"kíló", "kíló"},
		{"í", "í"},
		{"gær", "gær"},
	}}}
	r := NewRemote(client)

	got := collectWords(t, r, markup, true)
	require.Len(t, got, 7)
	assert.Equal(t, "hann vó 80 kíló í gær", client.sent, "the service sees the alias, not the content")

	contentStart := strings.Index(markup, "80kg")
	for _, w := range got[2:4] {
		assert.Equal(t, contentStart, w.StartByteOffset, "alias tokens share the content span")
		assert.Equal(t, contentStart+len("80kg"), w.EndByteOffset)
		require.NotNil(t, w.SSML)
		assert.Equal(t, words.TagSub, w.SSML.TagType)
	}
	assert.Equal(t, "áttatíu", got[2].Symbol)
	assert.Equal(t, "kíló", got[3].Symbol)

	assert.Equal(t, strings.Index(markup, "í gær"), got[4].StartByteOffset)
	assert.Equal(t, "gær", got[5].OriginalSymbol)
	assert.True(t, got[6].IsSeparator())
}

func TestRemoteClose(t *testing.T) {
	client := &fakeClient{}
	r := NewRemote(client)
	require.NoError(t, r.Close())
	assert.True(t, client.closed)
}

func TestRemoteVersionHash(t *testing.T) {
	r := NewRemote(&fakeClient{})
	assert.Equal(t, r.VersionHash(), NewRemote(&fakeClient{}).VersionHash())
}

func TestNewGRPCClientSchemeCheck(t *testing.T) {
	_, err := NewGRPCClient("http://localhost:8080")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scheme")

	c, err := NewGRPCClient("grpc://localhost:8080")
	require.NoError(t, err, "dialing is lazy, constructing must succeed")
	require.NoError(t, c.Close())
}
