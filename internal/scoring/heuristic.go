// Package scoring provides deterministic ATS score calculations: a regex
// heuristic over raw text used as the terminal fallback when the model is
// unavailable, and a completeness-based recompute over structured data used
// after manual edits.
package scoring

import (
	"regexp"

	"github.com/jonathan/resume-studio/internal/types"
)

var (
	emailPattern      = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phonePattern      = regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	linkedinPattern   = regexp.MustCompile(`(?i)linkedin\.com`)
	quantifiedPattern = regexp.MustCompile(`(?i)\d+%|\$\d+|\d+ (users|customers|projects|team|members)`)
	experiencePattern = regexp.MustCompile(`(?i)experience|work history|employment`)
	educationPattern  = regexp.MustCompile(`(?i)education|academic`)
	skillsPattern     = regexp.MustCompile(`(?i)skills|technologies|expertise`)
)

// HeuristicScore derives an ATS score for raw resume text without any model
// call. It is the last link in the analysis fallback chain, so it must always
// produce a usable score.
func HeuristicScore(text string) *types.ScoreObject {
	issues := []string{}
	score := 50

	if emailPattern.MatchString(text) {
		score += 5
	} else {
		issues = append(issues, "No email address found")
	}

	if phonePattern.MatchString(text) {
		score += 5
	} else {
		issues = append(issues, "No phone number found")
	}

	if linkedinPattern.MatchString(text) {
		score += 5
	} else {
		issues = append(issues, "No LinkedIn profile found")
	}

	if quantifiedPattern.MatchString(text) {
		score += 10
	} else {
		issues = append(issues, "No quantified achievements found")
	}

	if experiencePattern.MatchString(text) {
		score += 5
	} else {
		issues = append(issues, "Experience section not clearly labeled")
	}

	if educationPattern.MatchString(text) {
		score += 5
	} else {
		issues = append(issues, "Education section not clearly labeled")
	}

	if skillsPattern.MatchString(text) {
		score += 5
	} else {
		issues = append(issues, "Skills section not found")
	}

	if len(text) < 500 {
		score -= 10
		issues = append(issues, "Resume content is too brief")
	} else if len(text) > 5000 {
		score -= 5
		issues = append(issues, "Resume may be too long for single page")
	}

	overall := clamp(score, 0, 100)

	keywordOptimization := 50
	if overall > 60 {
		keywordOptimization = 65
	}
	structure := 55
	if overall > 60 {
		structure = 70
	}

	return &types.ScoreObject{
		Overall:             overall,
		KeywordOptimization: keywordOptimization,
		Formatting:          70, // text heuristics cannot assess visual formatting
		Structure:           structure,
		Issues:              issues,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
