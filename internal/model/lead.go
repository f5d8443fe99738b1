// Package model defines the domain types shared across the lead qualification pipeline.
package model

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FitStrength is the rubric match classification of a lead.
type FitStrength string

const (
	FitHigh   FitStrength = "High"
	FitMedium FitStrength = "Medium"
	FitLow    FitStrength = "Low"
	// FitUnsure is the neutral value used when the evaluator output cannot be parsed.
	FitUnsure FitStrength = "Unsure"
)

// Judgement is the validator's verdict on an evaluation.
type Judgement string

const (
	JudgementCorrect   Judgement = "Correct"
	JudgementIncorrect Judgement = "Incorrect"
	JudgementUnsure    Judgement = "Unsure"
)

var titleCaser = cases.Title(language.English)

// normalizeLabel trims quotes and whitespace and title-cases a model-produced label.
func normalizeLabel(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'`+"`")
	s = strings.TrimSpace(s)
	return titleCaser.String(strings.ToLower(s))
}

// ParseFitStrength maps free-form model output onto the fit enumeration.
// Unknown labels map to FitUnsure.
func ParseFitStrength(s string) FitStrength {
	switch FitStrength(normalizeLabel(s)) {
	case FitHigh:
		return FitHigh
	case FitMedium:
		return FitMedium
	case FitLow:
		return FitLow
	default:
		return FitUnsure
	}
}

// ParseJudgement maps free-form model output onto the judgement enumeration.
// Unknown labels map to JudgementUnsure.
func ParseJudgement(s string) Judgement {
	switch Judgement(normalizeLabel(s)) {
	case JudgementCorrect:
		return JudgementCorrect
	case JudgementIncorrect:
		return JudgementIncorrect
	default:
		return JudgementUnsure
	}
}

// Lead is a fully processed and scored profile. JSON keys match what the
// dashboard already renders.
type Lead struct {
	Identifier          string      `json:"urn"`
	Name                string      `json:"name"`
	CompanyName         string      `json:"company_name"`
	CompanyWebsite      string      `json:"company_website"`
	Email               string      `json:"email"`
	Title               string      `json:"title"`
	ProfileURL          string      `json:"profile_url"`
	FitStrength         FitStrength `json:"icp_fit_strength"`
	FitReason           string      `json:"reason"`
	ValidationJudgement Judgement   `json:"validation_judgement"`
	ValidationReason    string      `json:"validation_reason"`
	ProfileSummary      string      `json:"profile_summary"`
	CompanySummary      string      `json:"company_summary"`
	ProcessedAt         time.Time   `json:"processed_at"`
}

// SkippedProfile records an identifier whose pipeline did not reach Done.
type SkippedProfile struct {
	Identifier string `json:"urn"`
	Name       string `json:"name"`
	Reason     string `json:"reason"`
	ProfileURL string `json:"profile_url"`
}
