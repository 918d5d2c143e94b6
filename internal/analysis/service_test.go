package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-studio/internal/llm"
	"github.com/jonathan/resume-studio/internal/scoring"
)

// stubClient returns canned responses per tier, recording calls.
type stubClient struct {
	responses map[llm.ModelTier]string
	errs      map[llm.ModelTier]error
	calls     []llm.ModelTier
}

func (c *stubClient) GenerateContent(_ context.Context, _ string, tier llm.ModelTier) (string, error) {
	return c.GenerateJSON(context.Background(), "", tier)
}

func (c *stubClient) GenerateJSON(_ context.Context, _ string, tier llm.ModelTier) (string, error) {
	c.calls = append(c.calls, tier)
	if err := c.errs[tier]; err != nil {
		return "", err
	}
	return c.responses[tier], nil
}

func (c *stubClient) GetModel(tier llm.ModelTier) string { return string(tier) }
func (c *stubClient) Close() error                       { return nil }

const sampleText = "John Doe john@x.com Experience: increased sales by 20% Education Skills"

func TestAnalyze_PrimarySuccess(t *testing.T) {
	client := &stubClient{responses: map[llm.ModelTier]string{
		llm.TierPrimary: `{"overall": 72, "keywordOptimization": 68, "formatting": 75, "structure": 70, "issues": ["No LinkedIn URL provided"]}`,
	}}

	score := NewService(client).Analyze(context.Background(), sampleText)

	require.NotNil(t, score)
	assert.Equal(t, 72, score.Overall)
	assert.Equal(t, 68, score.KeywordOptimization)
	assert.Equal(t, []string{"No LinkedIn URL provided"}, score.Issues)
	assert.Equal(t, []llm.ModelTier{llm.TierPrimary}, client.calls)
}

func TestAnalyze_FallsBackToSecondary(t *testing.T) {
	client := &stubClient{
		errs: map[llm.ModelTier]error{llm.TierPrimary: errors.New("deadline exceeded")},
		responses: map[llm.ModelTier]string{
			llm.TierSecondary: `{"overall": 61, "keywordOptimization": 60, "formatting": 65, "structure": 62, "issues": ["Summary is too brief"]}`,
		},
	}

	score := NewService(client).Analyze(context.Background(), sampleText)

	assert.Equal(t, 61, score.Overall)
	assert.Equal(t, []llm.ModelTier{llm.TierPrimary, llm.TierSecondary}, client.calls)
}

func TestAnalyze_BothTiersFail_UsesHeuristic(t *testing.T) {
	client := &stubClient{errs: map[llm.ModelTier]error{
		llm.TierPrimary:   errors.New("quota exceeded"),
		llm.TierSecondary: errors.New("quota exceeded"),
	}}

	score := NewService(client).Analyze(context.Background(), sampleText)

	require.NotNil(t, score)
	assert.Equal(t, scoring.HeuristicScore(sampleText), score)
	assert.Equal(t, []llm.ModelTier{llm.TierPrimary, llm.TierSecondary}, client.calls)
}

func TestAnalyze_MalformedThenRescued(t *testing.T) {
	client := &stubClient{responses: map[llm.ModelTier]string{
		llm.TierPrimary: "Here is my assessment:\n{\"overall\": 55, \"issues\": [\"Skills section not found\"]}",
	}}

	score := NewService(client).Analyze(context.Background(), sampleText)

	assert.Equal(t, 55, score.Overall)
	// missing sub-scores filled with defaults
	assert.Equal(t, 60, score.KeywordOptimization)
	assert.Equal(t, 70, score.Formatting)
	assert.Equal(t, 65, score.Structure)
}

func TestAnalyze_UnparseableFallsThrough(t *testing.T) {
	client := &stubClient{responses: map[llm.ModelTier]string{
		llm.TierPrimary:   "I could not produce a score for this document.",
		llm.TierSecondary: `{"overall": 58}`,
	}}

	score := NewService(client).Analyze(context.Background(), sampleText)

	assert.Equal(t, 58, score.Overall)
	assert.Equal(t, []string{"Analysis incomplete"}, score.Issues)
}

func TestParseScore_Defaults(t *testing.T) {
	score, err := parseScore(`{}`)
	require.NoError(t, err)

	assert.Equal(t, 60, score.Overall)
	assert.Equal(t, 60, score.KeywordOptimization)
	assert.Equal(t, 70, score.Formatting)
	assert.Equal(t, 65, score.Structure)
	assert.Equal(t, []string{"Analysis incomplete"}, score.Issues)
}

func TestParseScore_ClampsOutOfRange(t *testing.T) {
	score, err := parseScore(`{"overall": 150, "formatting": -10}`)
	require.NoError(t, err)

	assert.Equal(t, 100, score.Overall)
	assert.Equal(t, 0, score.Formatting)
}

func TestParseScore_CodeFences(t *testing.T) {
	score, err := parseScore("```json\n{\"overall\": 64}\n```")
	require.NoError(t, err)
	assert.Equal(t, 64, score.Overall)
}
