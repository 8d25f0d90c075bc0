package stub

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Dispatch(t *testing.T) {
	c := New()

	out, err := c.Generate(context.Background(), "Return ONLY valid JSON array, no additional text")
	require.NoError(t, err)
	var questions []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &questions))
	assert.Len(t, questions, 5)

	out, err = c.Generate(context.Background(), `respond with {"ats_friendly": ...}`)
	require.NoError(t, err)
	var analysis map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &analysis))
	assert.Contains(t, analysis, "ats_friendly")

	out, err = c.Generate(context.Background(), "evaluate this interview answer")
	require.NoError(t, err)
	var feedback map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &feedback))
	assert.EqualValues(t, 72, feedback["score"])
}
