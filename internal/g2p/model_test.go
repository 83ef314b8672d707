package g2p

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mimir-speech/talfront/internal/phoneme"
	"github.com/mimir-speech/talfront/internal/version"
)

// fakeEngine answers from a fixed table keyed by the transcribed text.
type fakeEngine struct {
	table  map[string]string
	marked map[string]string // used instead of table when syllable marking is on
	asked  []string
	closed bool
}

func (f *fakeEngine) Transcribe(ctx context.Context, text string, markSyllables bool) (string, error) {
	f.asked = append(f.asked, text)
	if markSyllables {
		return f.marked[text], nil
	}
	return f.table[text], nil
}

func (f *fakeEngine) Close() error {
	f.closed = true
	return nil
}

func (f *fakeEngine) VersionHash() string { return version.Hash("g2p.fakeEngine", nil) }

func TestModelTranslatorTranscribe(t *testing.T) {
	eng := &fakeEngine{table: map[string]string{"stormur": "s t O r m Y r"}}
	mt := NewModelTranslator(eng)

	phones, err := mt.Translate("stormur", "is-IS", phoneme.XSAMPA)
	require.NoError(t, err)
	assert.Equal(t, phoneme.PhoneSeq{"s", "t", "O", "r", "m", "Y", "r"}, phones)
}

func TestModelTranslatorLowercasesAndStrips(t *testing.T) {
	eng := &fakeEngine{table: map[string]string{"stormur": "s t O r m Y r"}}
	mt := NewModelTranslator(eng)

	_, err := mt.Translate("Stormur!", "is-IS", phoneme.XSAMPA)
	require.NoError(t, err)
	assert.Equal(t, []string{"stormur"}, eng.asked)
}

func TestModelTranslatorEmptyAfterStripping(t *testing.T) {
	eng := &fakeEngine{table: map[string]string{}}
	mt := NewModelTranslator(eng)

	phones, err := mt.Translate("!?", "is-IS", phoneme.XSAMPA)
	require.NoError(t, err)
	assert.Empty(t, phones)
	assert.Empty(t, eng.asked, "nothing left to transcribe, the engine is never called")
}

func TestModelTranslatorIPAConversion(t *testing.T) {
	eng := &fakeEngine{table: map[string]string{"tad": "t a: D"}}
	mt := NewModelTranslator(eng)

	phones, err := mt.Translate("tad", "is-IS", phoneme.IPA)
	require.NoError(t, err)
	assert.Equal(t, phoneme.PhoneSeq{"t", "aː", "ð"}, phones)
}

func TestModelTranslatorSyllableMarking(t *testing.T) {
	eng := &fakeEngine{
		table:  map[string]string{"stormur": "s t O r m Y r"},
		marked: map[string]string{"stormur": "s t O1 r . m Y0 r"},
	}
	mt := NewModelTranslator(eng)

	phones, err := mt.Translate("stormur", "is-IS", phoneme.XSAMPAWithStress)
	require.NoError(t, err)
	assert.Equal(t, phoneme.PhoneSeq{"s", "t", "O1", "r", ".", "m", "Y0", "r"}, phones)
}

func TestModelTranslatorClose(t *testing.T) {
	eng := &fakeEngine{}
	mt := NewModelTranslator(eng)
	require.NoError(t, mt.Close())
	assert.True(t, eng.closed)
}
