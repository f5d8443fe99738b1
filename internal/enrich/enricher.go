// Package enrich fetches raw profile, company and post-reaction records from
// the scraping provider.
package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadscout/internal/model"
	"github.com/sells-group/leadscout/internal/resilience"
	"github.com/sells-group/leadscout/pkg/apify"
)

const providerName = "apify"

// Enricher fetches provider records through per-actor circuit breakers.
type Enricher struct {
	client   apify.Client
	breakers *resilience.ServiceBreakers
}

// New creates an Enricher. breakers may be nil to disable circuit breaking.
func New(client apify.Client, breakers *resilience.ServiceBreakers) *Enricher {
	return &Enricher{client: client, breakers: breakers}
}

// run calls one actor, through its breaker when configured.
func (e *Enricher) run(ctx context.Context, actor string, input any) ([]json.RawMessage, error) {
	call := func(ctx context.Context) ([]json.RawMessage, error) {
		return e.client.RunSync(ctx, actor, input)
	}
	var (
		items []json.RawMessage
		err   error
	)
	if e.breakers != nil {
		items, err = resilience.ExecuteVal(ctx, e.breakers.Get(actor), call)
	} else {
		items, err = call(ctx)
	}
	if err != nil {
		return nil, model.NewUpstreamError(providerName, err)
	}
	return items, nil
}

// firstDocument returns the first non-empty item.
func firstDocument(items []json.RawMessage) (Document, bool) {
	for _, it := range items {
		d := NewDocument(it)
		if !d.Empty() {
			return d, true
		}
	}
	return Document{}, false
}

// FetchProfile returns the raw profile for a profile URL.
func (e *Enricher) FetchProfile(ctx context.Context, profileURL string) (Document, error) {
	items, err := e.run(ctx, apify.ActorProfileScraper, map[string]any{
		"profileUrls": []string{profileURL},
	})
	if err != nil {
		return Document{}, eris.Wrap(err, "enrich: fetch profile")
	}
	doc, ok := firstDocument(items)
	if !ok {
		return Document{}, eris.Wrapf(model.ErrNotFound, "enrich: no profile data for %s", profileURL)
	}
	return doc, nil
}

// FetchCompany returns the raw company record for a company page link. The
// primary actor is tried first; the backup actor, keyed by the company slug,
// runs only when the primary fails or returns nothing. ErrNotFound means
// neither source had data.
func (e *Enricher) FetchCompany(ctx context.Context, companyLink string) (Document, error) {
	companyLink = strings.TrimSpace(companyLink)
	if companyLink == "" {
		return Document{}, eris.Wrap(model.ErrNotFound, "enrich: profile has no company link")
	}
	log := zap.L().With(zap.String("company_link", companyLink))

	items, primaryErr := e.run(ctx, apify.ActorCompanyScraper, map[string]any{
		"url": []string{companyLink},
	})
	if primaryErr == nil {
		if doc, ok := firstDocument(items); ok {
			return doc, nil
		}
		log.Debug("enrich: primary company source empty, trying backup")
	} else {
		log.Debug("enrich: primary company source failed, trying backup", zap.Error(primaryErr))
	}

	items, backupErr := e.run(ctx, apify.ActorCompanyDetail, map[string]any{
		"identifier": []string{CompanyIdentifier(companyLink)},
	})
	if backupErr == nil {
		if doc, ok := firstDocument(items); ok {
			return doc, nil
		}
	}

	if primaryErr != nil && backupErr != nil {
		return Document{}, eris.Wrap(errors.Join(primaryErr, backupErr), "enrich: fetch company")
	}
	return Document{}, eris.Wrapf(model.ErrNotFound, "enrich: no company data for %s", companyLink)
}

// FetchReactions returns the reactors of a post as batch targets, in the
// order the provider lists them.
func (e *Enricher) FetchReactions(ctx context.Context, postID string) ([]model.Target, error) {
	items, err := e.run(ctx, apify.ActorPostReactions, map[string]any{
		"post_url":    postID,
		"page_number": 1,
	})
	if err != nil {
		return nil, eris.Wrap(err, "enrich: fetch post reactions")
	}

	targets := make([]model.Target, 0, len(items))
	for _, it := range items {
		d := NewDocument(it)
		t := model.Target{
			Identifier: d.First("reactor.urn"),
			Name:       d.First("reactor.name"),
			ProfileURL: d.First("reactor.profile_url"),
		}
		if t.Identifier == "" && t.ProfileURL != "" {
			t.Identifier, _ = model.ParseProfileHandle(t.ProfileURL)
		}
		if t.Identifier == "" {
			zap.L().Debug("enrich: dropping reaction without identifier", zap.String("post_id", postID))
			continue
		}
		if t.Name == "" {
			t.Name = "Unknown"
		}
		targets = append(targets, t)
	}
	return targets, nil
}

// CompanyIdentifier derives the company slug from a company page link,
// e.g. "https://www.linkedin.com/company/acme-inc/" → "acme-inc". The link is
// returned unchanged when no slug can be found.
func CompanyIdentifier(link string) string {
	s := strings.TrimSpace(link)
	path := s
	if u, err := url.Parse(s); err == nil && u.Path != "" {
		path = u.Path
	}
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i := 0; i < len(parts)-1; i++ {
		if parts[i] == "company" && parts[i+1] != "" {
			return parts[i+1]
		}
	}
	return s
}
