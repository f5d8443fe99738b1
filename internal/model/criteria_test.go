package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluationCriteria_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		c       EvaluationCriteria
		wantErr string
	}{
		{name: "description only", c: EvaluationCriteria{UseCaseDescription: "voice AI buyers"}},
		{name: "all fields", c: EvaluationCriteria{
			UseCaseDescription: "voice AI buyers",
			TargetRoles:        "CTO",
			TargetIndustries:   "SaaS",
			CompanySize:        CompanySizeMedium,
			AdditionalNotes:    "exclude agencies",
		}},
		{name: "blank description", c: EvaluationCriteria{UseCaseDescription: "   "}, wantErr: "use_case_description is required"},
		{name: "bad size", c: EvaluationCriteria{UseCaseDescription: "x", CompanySize: "huge"}, wantErr: "unknown company_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestEvaluationCriteria_Normalize(t *testing.T) {
	t.Parallel()

	c := EvaluationCriteria{UseCaseDescription: "  x  ", TargetRoles: " \n", CompanySize: " 11-50 "}
	c.Normalize()
	assert.Equal(t, "x", c.UseCaseDescription)
	assert.Empty(t, c.TargetRoles)
	assert.Equal(t, CompanySizeSmall, c.CompanySize)
}
