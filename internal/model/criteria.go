package model

import (
	"strings"

	"github.com/rotisserie/eris"
)

// CompanySize is a coarse employee-count bucket used by custom criteria.
type CompanySize string

const (
	CompanySizeAny        CompanySize = ""
	CompanySizeStartup    CompanySize = "1-10"
	CompanySizeSmall      CompanySize = "11-50"
	CompanySizeMedium     CompanySize = "51-200"
	CompanySizeLarge      CompanySize = "201-1000"
	CompanySizeEnterprise CompanySize = "1000+"
)

// Valid reports whether s is a known bucket (the empty bucket means "any").
func (s CompanySize) Valid() bool {
	switch s {
	case CompanySizeAny, CompanySizeStartup, CompanySizeSmall, CompanySizeMedium,
		CompanySizeLarge, CompanySizeEnterprise:
		return true
	default:
		return false
	}
}

// EvaluationCriteria is a user-supplied rubric. A nil *EvaluationCriteria means
// the built-in ICP rubric is used.
type EvaluationCriteria struct {
	UseCaseDescription string      `json:"use_case_description" yaml:"use_case_description"`
	TargetRoles        string      `json:"target_roles,omitempty" yaml:"target_roles,omitempty"`
	TargetIndustries   string      `json:"target_industries,omitempty" yaml:"target_industries,omitempty"`
	CompanySize        CompanySize `json:"company_size,omitempty" yaml:"company_size,omitempty"`
	AdditionalNotes    string      `json:"additional_notes,omitempty" yaml:"additional_notes,omitempty"`
}

// Normalize trims every field in place.
func (c *EvaluationCriteria) Normalize() {
	c.UseCaseDescription = strings.TrimSpace(c.UseCaseDescription)
	c.TargetRoles = strings.TrimSpace(c.TargetRoles)
	c.TargetIndustries = strings.TrimSpace(c.TargetIndustries)
	c.CompanySize = CompanySize(strings.TrimSpace(string(c.CompanySize)))
	c.AdditionalNotes = strings.TrimSpace(c.AdditionalNotes)
}

// Validate checks the required description and the size bucket.
func (c *EvaluationCriteria) Validate() error {
	if strings.TrimSpace(c.UseCaseDescription) == "" {
		return eris.New("criteria: use_case_description is required")
	}
	if !c.CompanySize.Valid() {
		return eris.Errorf("criteria: unknown company_size %q", c.CompanySize)
	}
	return nil
}
