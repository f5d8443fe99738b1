package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocument_Accessors(t *testing.T) {
	t.Parallel()

	profile := NewDocument([]byte(`{
		"full_name": "Ada Lovelace",
		"jobTitle": "Founder",
		"companyLinkedinUrl": "https://www.linkedin.com/company/engines/",
		"emails": ["ada@engines.io", "other@x.io"],
		"companyName": "Analytical Engines"
	}`))
	assert.Equal(t, "Ada Lovelace", profile.Name())
	assert.Equal(t, "Founder", profile.Title())
	assert.Equal(t, "https://www.linkedin.com/company/engines/", profile.CompanyLink())
	assert.Equal(t, "ada@engines.io", profile.Email())
	assert.Equal(t, "Analytical Engines", profile.ProfileCompanyName())

	backup := NewDocument([]byte(`{"basic_info": {"name": "Engines", "website": "https://engines.io"}}`))
	assert.Equal(t, "Engines", backup.CompanyName())
	assert.Equal(t, "https://engines.io", backup.Website())
}

func TestDocument_FirstSkipsEmptyAndNonScalar(t *testing.T) {
	t.Parallel()

	d := NewDocument([]byte(`{"fullName": "", "full_name": null, "name": {"first": "x"}, "headline": "  CTO  "}`))
	assert.Empty(t, d.Name())
	assert.Equal(t, "CTO", d.Title())
	assert.Empty(t, Document{}.First("x"))
}

func TestDocument_Empty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want bool
	}{
		{"", true},
		{"{}", true},
		{"[]", true},
		{"null", true},
		{"not json", true},
		{`{"a":1}`, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NewDocument([]byte(tt.raw)).Empty(), tt.raw)
	}
}

func TestFallbackCompany(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Acme", FallbackCompany("Acme").CompanyName())
	assert.Equal(t, "Unknown", FallbackCompany(" ").CompanyName())
	assert.JSONEq(t, `{"name":"Unknown"}`, string(FallbackCompany("").Raw()))
}
