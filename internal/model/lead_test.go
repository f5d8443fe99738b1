package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFitStrength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want FitStrength
	}{
		{"High", FitHigh},
		{"high", FitHigh},
		{"  MEDIUM ", FitMedium},
		{`"Low"`, FitLow},
		{"", FitUnsure},
		{"very high", FitUnsure},
		{"Unsure", FitUnsure},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ParseFitStrength(tt.in))
		})
	}
}

func TestParseJudgement(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Judgement
	}{
		{"Correct", JudgementCorrect},
		{"incorrect", JudgementIncorrect},
		{"UNSURE", JudgementUnsure},
		{"maybe", JudgementUnsure},
		{"", JudgementUnsure},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ParseJudgement(tt.in))
		})
	}
}

func TestLead_JSONKeys(t *testing.T) {
	t.Parallel()

	lead := Lead{
		Identifier:          "urn:li:person:1",
		Name:                "Ada",
		FitStrength:         FitHigh,
		FitReason:           "builds voice agents",
		ValidationJudgement: JudgementCorrect,
	}
	data, err := json.Marshal(lead)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	for _, key := range []string{
		"urn", "name", "company_name", "company_website", "email", "title", "profile_url",
		"icp_fit_strength", "reason", "validation_judgement", "validation_reason",
		"profile_summary", "company_summary",
	} {
		assert.Contains(t, m, key)
	}
	assert.Equal(t, "High", m["icp_fit_strength"])
}
