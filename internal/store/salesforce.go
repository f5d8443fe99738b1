package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadscout/internal/model"
	"github.com/sells-group/leadscout/pkg/salesforce"
)

// SalesforceStore implements LeadStore on Salesforce Lead records keyed by
// the LinkedIn URN custom field.
type SalesforceStore struct {
	client salesforce.Client
}

// NewSalesforce creates a SalesforceStore.
func NewSalesforce(client salesforce.Client) *SalesforceStore {
	return &SalesforceStore{client: client}
}

// Migrate is a no-op: custom fields are managed in Salesforce setup.
func (s *SalesforceStore) Migrate(context.Context) error { return nil }

func (s *SalesforceStore) Close() error { return nil }

func (s *SalesforceStore) Exists(ctx context.Context, identifier string) (bool, error) {
	lead, err := salesforce.FindLeadByURN(ctx, s.client, identifier)
	if err != nil {
		return false, eris.Wrap(err, "salesforce store: exists")
	}
	return lead != nil, nil
}

func (s *SalesforceStore) Get(ctx context.Context, identifier string) (*model.Lead, error) {
	rec, err := salesforce.FindLeadByURN(ctx, s.client, identifier)
	if err != nil {
		return nil, eris.Wrap(err, "salesforce store: get")
	}
	if rec == nil {
		return nil, notFound("salesforce store", identifier)
	}
	l := leadFromRecord(*rec)
	return &l, nil
}

// Upsert looks the Lead up by URN, then updates it or inserts a new one.
func (s *SalesforceStore) Upsert(ctx context.Context, lead model.Lead) error {
	if err := checkIdentifier("salesforce store", lead.Identifier); err != nil {
		return err
	}
	existing, err := salesforce.FindLeadByURN(ctx, s.client, lead.Identifier)
	if err != nil {
		return eris.Wrap(err, "salesforce store: upsert lookup")
	}
	fields := recordFields(lead)

	if existing != nil {
		return eris.Wrap(salesforce.UpdateLead(ctx, s.client, existing.ID, fields), "salesforce store: upsert")
	}
	if _, err := salesforce.CreateLead(ctx, s.client, fields); err != nil {
		return eris.Wrap(err, "salesforce store: upsert")
	}
	return nil
}

func (s *SalesforceStore) List(ctx context.Context, filter LeadFilter) ([]model.Lead, error) {
	recs, err := salesforce.ListLeads(ctx, s.client, 0)
	if err != nil {
		return nil, eris.Wrap(err, "salesforce store: list")
	}
	leads := make([]model.Lead, 0, len(recs))
	for _, r := range recs {
		if filter.FitStrength != "" && model.FitStrength(r.FitStrength) != filter.FitStrength {
			continue
		}
		leads = append(leads, leadFromRecord(r))
	}
	return paginate(leads, filter), nil
}

func recordFields(l model.Lead) map[string]any {
	first, last := salesforce.SplitName(l.Name)
	company := l.CompanyName
	if company == "" {
		company = "Unknown"
	}
	return map[string]any{
		"FirstName":                         first,
		"LastName":                          last,
		"Company":                           company,
		"Email":                             l.Email,
		"Title":                             l.Title,
		"Website":                           l.CompanyWebsite,
		salesforce.FieldURN:                 l.Identifier,
		salesforce.FieldProfileURL:          l.ProfileURL,
		salesforce.FieldFitStrength:         string(l.FitStrength),
		salesforce.FieldFitReason:           l.FitReason,
		salesforce.FieldValidationJudgement: string(l.ValidationJudgement),
		salesforce.FieldValidationReason:    l.ValidationReason,
		salesforce.FieldProfileSummary:      l.ProfileSummary,
		salesforce.FieldCompanySummary:      l.CompanySummary,
	}
}

func leadFromRecord(r salesforce.Lead) model.Lead {
	name := r.LastName
	if r.FirstName != "" {
		name = r.FirstName + " " + r.LastName
	}
	return model.Lead{
		Identifier:          r.URN,
		Name:                name,
		CompanyName:         r.Company,
		CompanyWebsite:      r.Website,
		Email:               r.Email,
		Title:               r.Title,
		ProfileURL:          r.ProfileURL,
		FitStrength:         model.FitStrength(r.FitStrength),
		FitReason:           r.FitReason,
		ValidationJudgement: model.Judgement(r.ValidationJudgement),
		ValidationReason:    r.ValidationReason,
		ProfileSummary:      r.ProfileSummary,
		CompanySummary:      r.CompanySummary,
	}
}
