// Package store persists finished leads keyed by their identifier. Drivers
// are SQLite, Postgres, Notion and Salesforce; every Upsert overwrites the
// record sharing the lead's identifier.
package store

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadscout/internal/model"
)

// LeadFilter specifies criteria for listing leads.
type LeadFilter struct {
	FitStrength model.FitStrength `json:"icp_fit_strength,omitempty"`
	Limit       int               `json:"limit,omitempty"`
	Offset      int               `json:"offset,omitempty"`
}

// LeadStore defines the persistence interface for qualified leads.
type LeadStore interface {
	// Exists reports whether a lead with this identifier has been stored.
	Exists(ctx context.Context, identifier string) (bool, error)
	// Get returns the stored lead or an error wrapping model.ErrNotFound.
	Get(ctx context.Context, identifier string) (*model.Lead, error)
	// Upsert inserts the lead or overwrites the one with the same identifier.
	Upsert(ctx context.Context, lead model.Lead) error
	List(ctx context.Context, filter LeadFilter) ([]model.Lead, error)

	Migrate(ctx context.Context) error
	Close() error
}

// leadColumns is the column order shared by the SQL drivers.
var leadColumns = []string{
	"urn",
	"name",
	"company_name",
	"company_website",
	"email",
	"title",
	"profile_url",
	"icp_fit_strength",
	"reason",
	"validation_judgement",
	"validation_reason",
	"profile_summary",
	"company_summary",
	"processed_at",
}

func selectColumns() string {
	return strings.Join(leadColumns, ", ")
}

// leadValues returns the lead's fields in leadColumns order, with processedAt
// standing in for the timestamp so each driver can encode it.
func leadValues(l model.Lead, processedAt any) []any {
	return []any{
		l.Identifier,
		l.Name,
		l.CompanyName,
		l.CompanyWebsite,
		l.Email,
		l.Title,
		l.ProfileURL,
		string(l.FitStrength),
		l.FitReason,
		string(l.ValidationJudgement),
		l.ValidationReason,
		l.ProfileSummary,
		l.CompanySummary,
		processedAt,
	}
}

// leadTargets returns scan destinations in leadColumns order.
func leadTargets(l *model.Lead, fit, judgement *string, processedAt any) []any {
	return []any{
		&l.Identifier,
		&l.Name,
		&l.CompanyName,
		&l.CompanyWebsite,
		&l.Email,
		&l.Title,
		&l.ProfileURL,
		fit,
		&l.FitReason,
		judgement,
		&l.ValidationReason,
		&l.ProfileSummary,
		&l.CompanySummary,
		processedAt,
	}
}

func checkIdentifier(driver, identifier string) error {
	if strings.TrimSpace(identifier) == "" {
		return eris.Errorf("%s: lead has no identifier", driver)
	}
	return nil
}

func notFound(driver, identifier string) error {
	return eris.Wrapf(model.ErrNotFound, "%s: lead %s", driver, identifier)
}

func (f LeadFilter) limit(def int) int {
	if f.Limit > 0 {
		return f.Limit
	}
	return def
}

// paginate applies Offset and Limit to an already ordered slice.
func paginate[T any](items []T, f LeadFilter) []T {
	if f.Offset >= len(items) {
		return nil
	}
	items = items[f.Offset:]
	if f.Limit > 0 && f.Limit < len(items) {
		items = items[:f.Limit]
	}
	return items
}

type scannable interface {
	Scan(dest ...any) error
}
