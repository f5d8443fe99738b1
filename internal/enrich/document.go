package enrich

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
)

// Lookup paths tried in order. Provider schemas drift between actors and
// over time, so each field has several candidates.
var (
	namePaths        = []string{"fullName", "full_name", "name"}
	titlePaths       = []string{"headline", "jobTitle"}
	companyLinkPaths = []string{"companyLinkedin", "companyLinkedinUrl", "company_linkedin_url"}
	emailPaths       = []string{"email", "emails.0"}
	websitePaths     = []string{"website", "websiteUrl", "basic_info.website"}
	companyNamePaths = []string{"name", "basic_info.name"}
)

// Document is an opaque provider record. It keeps the raw bytes so the
// summarizer sees everything the provider captured.
type Document struct {
	raw []byte
}

// NewDocument wraps raw JSON.
func NewDocument(raw []byte) Document {
	return Document{raw: raw}
}

// FallbackCompany is used when no company source returns data.
func FallbackCompany(name string) Document {
	if strings.TrimSpace(name) == "" {
		name = "Unknown"
	}
	b, _ := json.Marshal(map[string]string{"name": name})
	return Document{raw: b}
}

// Raw returns the underlying JSON.
func (d Document) Raw() json.RawMessage {
	return json.RawMessage(d.raw)
}

// Empty reports whether the document carries no fields.
func (d Document) Empty() bool {
	if len(d.raw) == 0 || !gjson.ValidBytes(d.raw) {
		return true
	}
	r := gjson.ParseBytes(d.raw)
	if !r.IsObject() {
		return true
	}
	empty := true
	r.ForEach(func(_, _ gjson.Result) bool {
		empty = false
		return false
	})
	return empty
}

// First returns the first non-empty string among paths.
func (d Document) First(paths ...string) string {
	if len(d.raw) == 0 {
		return ""
	}
	for _, p := range paths {
		r := gjson.GetBytes(d.raw, p)
		if !r.Exists() || r.Type == gjson.Null {
			continue
		}
		if r.IsObject() || r.IsArray() {
			continue
		}
		if s := strings.TrimSpace(r.String()); s != "" {
			return s
		}
	}
	return ""
}

// Name returns the person's display name.
func (d Document) Name() string { return d.First(namePaths...) }

// Title returns the person's headline or job title.
func (d Document) Title() string { return d.First(titlePaths...) }

// CompanyLink returns the profile's current company page link.
func (d Document) CompanyLink() string { return d.First(companyLinkPaths...) }

// Email returns the first known email.
func (d Document) Email() string { return d.First(emailPaths...) }

// ProfileCompanyName returns the company name recorded on a profile.
func (d Document) ProfileCompanyName() string { return d.First("companyName") }

// Website returns the company website.
func (d Document) Website() string { return d.First(websitePaths...) }

// CompanyName returns the name recorded on a company document.
func (d Document) CompanyName() string { return d.First(companyNamePaths...) }
