package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscript_UnmarshalString(t *testing.T) {
	var tr Transcript
	require.NoError(t, json.Unmarshal([]byte(`"I used a queue"`), &tr))
	assert.Equal(t, "I used a queue", tr.Text)
	assert.Zero(t, tr.Confidence)
}

func TestTranscript_UnmarshalObject(t *testing.T) {
	var tr Transcript
	require.NoError(t, json.Unmarshal([]byte(`{"text":"hello","confidence":0.87,"duration":4.2,"language":"en"}`), &tr))
	assert.Equal(t, "hello", tr.Text)
	assert.InDelta(t, 0.87, tr.Confidence, 1e-9)
	assert.InDelta(t, 4.2, tr.Duration, 1e-9)
	assert.Equal(t, "en", tr.Language)
}

func TestTranscript_TranscriptKeyWins(t *testing.T) {
	var tr Transcript
	require.NoError(t, json.Unmarshal([]byte(`{"transcript":"primary","text":"secondary"}`), &tr))
	assert.Equal(t, "primary", tr.Text)
}

func TestTranscript_UnrecognizedShapeIsEmpty(t *testing.T) {
	var tr Transcript
	require.NoError(t, json.Unmarshal([]byte(`42`), &tr))
	assert.Equal(t, Transcript{}, tr)
}

func TestAnswer_HasTranscript(t *testing.T) {
	assert.False(t, Answer{}.HasTranscript())
	assert.False(t, Answer{Transcript: &Transcript{}}.HasTranscript())
	assert.True(t, Answer{Transcript: &Transcript{Text: "hi"}}.HasTranscript())
}
