package words

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mimir-speech/talfront/internal/phoneme"
)

func TestIsSeparator(t *testing.T) {
	assert.True(t, SentenceSeparator().IsSeparator())
	assert.False(t, (&Word{OriginalSymbol: "hús"}).IsSeparator())
	assert.False(t, (&Word{PhoneSequence: phoneme.PhoneSeq{"sp"}}).IsSeparator())
	assert.False(t, (&Word{SSML: &SSMLProps{TagType: TagSub}}).IsSeparator())
}

func TestIsSpoken(t *testing.T) {
	tests := []struct {
		symbol string
		want   bool
	}{
		{"", false},
		{".", false},
		{"»", false},
		{"!?", false},
		{"á", true},
		{"hús", true},
		{"3.", true},
		{"t.d.", true},
	}
	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			w := &Word{OriginalSymbol: tt.symbol}
			assert.Equal(t, tt.want, w.IsSpoken())
		})
	}
}

func TestIsFromSSML(t *testing.T) {
	assert.False(t, (&Word{OriginalSymbol: "a"}).IsFromSSML())
	assert.True(t, (&Word{OriginalSymbol: "a", SSML: &SSMLProps{TagType: TagPhoneme}}).IsFromSSML())
}

func TestSpeechMark(t *testing.T) {
	w := &Word{
		OriginalSymbol:  "áttavita",
		Symbol:          "áttavita",
		StartByteOffset: 18,
		EndByteOffset:   27,
		StartTimeMilli:  1250,
	}
	mark, err := w.SpeechMark()
	require.NoError(t, err)
	assert.JSONEq(t, `{"time":1250,"type":"word","start":18,"end":27,"value":"áttavita"}`, string(mark))
}

func TestSpeechMarkFieldOrder(t *testing.T) {
	mark, err := (&Word{OriginalSymbol: "a", EndByteOffset: 1}).SpeechMark()
	require.NoError(t, err)
	assert.Equal(t, `{"time":0,"type":"word","start":0,"end":1,"value":"a"}`, string(mark))
}
