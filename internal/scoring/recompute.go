package scoring

import (
	"regexp"

	"github.com/jonathan/resume-studio/internal/types"
)

var digitPattern = regexp.MustCompile(`\d+`)

// RecomputeScore calculates the current ATS score for structured resume data.
// It runs synchronously after every manual edit so the editor gets instant
// feedback without a model round trip. The subtotals sum to at most 100 by
// construction: personal 20 + experience 30 + skills 20 + education 15 +
// summary 15.
func RecomputeScore(resume *types.StructuredResume) *types.ScoreObject {
	improvements := []string{}

	personal := 0
	info := resume.PersonalInfo
	if info.FullName != "" {
		personal += 4
	}
	if info.Email != "" {
		personal += 4
	}
	if info.Phone != "" {
		personal += 4
	}
	if info.LinkedIn != "" {
		personal += 4
	}
	if info.Location != "" {
		personal += 4
	}

	experience := 0
	if len(resume.Experience) > 0 {
		experience += 15
		if hasQuantifiedAchievement(resume.Experience) {
			experience += 15
		}
	}

	skills := 0
	if len(resume.Skills.Technical) > 0 {
		skills += 10
	}
	if len(resume.Skills.Tools) > 0 {
		skills += 5
	}
	if len(resume.Skills.Soft) > 0 {
		skills += 5
	}

	education := 0
	if len(resume.Education) > 0 {
		education = 15
	}

	summary := 0
	switch {
	case len(resume.Summary) > 50:
		summary = 15
	case len(resume.Summary) > 0:
		summary = 8
	}

	keywordBonus := 5
	if experience > 20 {
		keywordBonus = 10
	}

	if info.LinkedIn == "" {
		improvements = append(improvements, "Add LinkedIn profile URL")
	}
	if len(resume.Experience) == 0 {
		improvements = append(improvements, "Add work experience")
	}
	if len(resume.Skills.Technical) < 5 {
		improvements = append(improvements, "Add more technical skills")
	}
	if len(resume.Summary) < 50 {
		improvements = append(improvements, "Expand professional summary")
	}

	return &types.ScoreObject{
		Overall:             personal + experience + skills + education + summary,
		KeywordOptimization: skills + keywordBonus,
		Formatting:          100, // structured data is well-formed by construction
		Structure:           personal + education,
		Improvements:        improvements,
	}
}

func hasQuantifiedAchievement(entries []types.ExperienceEntry) bool {
	for _, entry := range entries {
		for _, achievement := range entry.Achievements {
			if digitPattern.MatchString(achievement) {
				return true
			}
		}
	}
	return false
}
