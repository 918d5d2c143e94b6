// Package analysis scores raw resume text as-is, without restructuring it.
// It backs the originalScore field: "how good was the resume the user
// actually gave us."
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/jonathan/resume-studio/internal/llm"
	"github.com/jonathan/resume-studio/internal/scoring"
	"github.com/jonathan/resume-studio/internal/types"
)

const analysisPromptTemplate = `You are an expert ATS (Applicant Tracking System) Resume Analyst. Analyze the following resume and provide:

1. An overall ATS compatibility score (0-100)
2. Detailed breakdown scores for:
   - Keyword Optimization (are industry keywords present?)
   - Formatting (is it ATS-parseable?)
   - Structure (are standard sections present?)
3. A list of specific issues that would hurt ATS parsing

Return ONLY valid JSON (no markdown, no explanation):
{
  "overall": 65,
  "keywordOptimization": 70,
  "formatting": 60,
  "structure": 65,
  "issues": [
    "Missing quantified achievements in experience section",
    "No LinkedIn URL provided",
    "Skills section not categorized"
  ]
}

Be REALISTIC with scoring - most raw resumes score 50-75. Only perfect resumes get 90+.

RESUME TO ANALYZE:
%s
`

// Service produces an originalScore for unmodified resume text via the model,
// degrading through the secondary tier to the local heuristic. From the
// caller's perspective Analyze never fails.
type Service struct {
	client llm.Client
}

// NewService creates an analysis service backed by the given LLM client.
func NewService(client llm.Client) *Service {
	return &Service{client: client}
}

// Analyze scores the text exactly as submitted. Callers must reject input
// shorter than 10 non-whitespace characters before invoking this; the
// service assumes analyzable text.
func (s *Service) Analyze(ctx context.Context, text string) *types.ScoreObject {
	prompt := fmt.Sprintf(analysisPromptTemplate, text)

	score, err := s.analyzeWithTier(ctx, prompt, llm.TierPrimary)
	if err == nil {
		return score
	}
	log.Printf("[analysis] primary model failed, retrying on secondary: %v", err)

	score, err = s.analyzeWithTier(ctx, prompt, llm.TierSecondary)
	if err == nil {
		return score
	}
	log.Printf("[analysis] secondary model failed, using heuristic score: %v", err)

	return scoring.HeuristicScore(text)
}

func (s *Service) analyzeWithTier(ctx context.Context, prompt string, tier llm.ModelTier) (*types.ScoreObject, error) {
	response, err := s.client.GenerateJSON(ctx, prompt, tier)
	if err != nil {
		return nil, err
	}
	return parseScore(response)
}

// rawScore mirrors the expected model output with pointers so missing fields
// can be told apart from zeros and defaulted.
type rawScore struct {
	Overall             *int     `json:"overall"`
	KeywordOptimization *int     `json:"keywordOptimization"`
	Formatting          *int     `json:"formatting"`
	Structure           *int     `json:"structure"`
	Issues              []string `json:"issues"`
}

func parseScore(response string) (*types.ScoreObject, error) {
	text := llm.CleanJSONBlock(response)

	var raw rawScore
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		rescued, rescueErr := llm.ExtractJSONObject(text)
		if rescueErr != nil {
			return nil, fmt.Errorf("failed to parse analysis response: %w", err)
		}
		if err := json.Unmarshal([]byte(rescued), &raw); err != nil {
			return nil, fmt.Errorf("failed to parse rescued analysis response: %w", err)
		}
	}

	score := &types.ScoreObject{
		Overall:             intOrDefault(raw.Overall, 60),
		KeywordOptimization: intOrDefault(raw.KeywordOptimization, 60),
		Formatting:          intOrDefault(raw.Formatting, 70),
		Structure:           intOrDefault(raw.Structure, 65),
		Issues:              raw.Issues,
	}
	if len(score.Issues) == 0 {
		score.Issues = []string{"Analysis incomplete"}
	}
	return scoring.ClampScore(score), nil
}

func intOrDefault(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
