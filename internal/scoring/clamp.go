package scoring

import "github.com/jonathan/resume-studio/internal/types"

// ClampScore bounds every numeric field of a score to [0,100]. Model-returned
// scores pass through this so an out-of-range value never reaches storage.
func ClampScore(s *types.ScoreObject) *types.ScoreObject {
	s.Overall = clamp(s.Overall, 0, 100)
	s.KeywordOptimization = clamp(s.KeywordOptimization, 0, 100)
	s.Formatting = clamp(s.Formatting, 0, 100)
	s.Structure = clamp(s.Structure, 0, 100)
	return s
}
