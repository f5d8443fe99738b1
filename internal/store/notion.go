package store

import (
	"context"
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"

	"github.com/sells-group/leadscout/internal/model"
	"github.com/sells-group/leadscout/pkg/notion"
)

// Notion lead database property names.
const (
	propName                = "Name"
	propURN                 = "URN"
	propCompany             = "Company"
	propWebsite             = "Website"
	propEmail               = "Email"
	propTitle               = "Title"
	propProfileURL          = "Profile URL"
	propFitStrength         = "ICP Fit"
	propFitReason           = "Reason"
	propValidation          = "Validation"
	propValidationReason    = "Validation Reason"
	propProfileSummary      = "Profile Summary"
	propCompanySummary      = "Company Summary"
	propProcessedAt         = "Processed At"
	notionRichTextMaxLength = 2000
)

// NotionStore implements LeadStore on a Notion database, one page per lead.
type NotionStore struct {
	client notion.Client
	dbID   string
}

// NewNotion creates a NotionStore for the database dbID.
func NewNotion(client notion.Client, dbID string) *NotionStore {
	return &NotionStore{client: client, dbID: dbID}
}

// Migrate is a no-op: the database schema is managed in Notion.
func (s *NotionStore) Migrate(context.Context) error { return nil }

func (s *NotionStore) Close() error { return nil }

func (s *NotionStore) find(ctx context.Context, identifier string) (*notionapi.Page, error) {
	pages, err := notion.FindByText(ctx, s.client, s.dbID, propURN, identifier, 1)
	if err != nil {
		return nil, eris.Wrapf(err, "notion store: lookup lead %s", identifier)
	}
	if len(pages) == 0 {
		return nil, nil
	}
	return &pages[0], nil
}

func (s *NotionStore) Exists(ctx context.Context, identifier string) (bool, error) {
	page, err := s.find(ctx, identifier)
	return page != nil, err
}

func (s *NotionStore) Get(ctx context.Context, identifier string) (*model.Lead, error) {
	page, err := s.find(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, notFound("notion store", identifier)
	}
	l := leadFromPage(page.Properties)
	return &l, nil
}

// Upsert looks the lead up by URN, then updates that page or creates one.
func (s *NotionStore) Upsert(ctx context.Context, lead model.Lead) error {
	if err := checkIdentifier("notion store", lead.Identifier); err != nil {
		return err
	}
	page, err := s.find(ctx, lead.Identifier)
	if err != nil {
		return err
	}
	props := pageProperties(lead, page != nil)

	if page != nil {
		if _, err := s.client.UpdatePage(ctx, string(page.ID), &notionapi.PageUpdateRequest{Properties: props}); err != nil {
			return eris.Wrapf(err, "notion store: update lead %s", lead.Identifier)
		}
		return nil
	}

	_, err = s.client.CreatePage(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(s.dbID),
		},
		Properties: props,
	})
	if err != nil {
		return eris.Wrapf(err, "notion store: create lead %s", lead.Identifier)
	}
	return nil
}

func (s *NotionStore) List(ctx context.Context, filter LeadFilter) ([]model.Lead, error) {
	req := &notionapi.DatabaseQueryRequest{
		Sorts: []notionapi.SortObject{{Property: propProcessedAt, Direction: notionapi.SortOrderDESC}},
	}
	if filter.FitStrength != "" {
		req.Filter = notionapi.PropertyFilter{
			Property: propFitStrength,
			Select:   &notionapi.SelectFilterCondition{Equals: string(filter.FitStrength)},
		}
	}
	pages, err := notion.QueryAll(ctx, s.client, s.dbID, req)
	if err != nil {
		return nil, eris.Wrap(err, "notion store: list leads")
	}
	leads := make([]model.Lead, 0, len(pages))
	for _, p := range pages {
		leads = append(leads, leadFromPage(p.Properties))
	}
	return paginate(leads, filter), nil
}

func richText(s string) []notionapi.RichText {
	if s == "" {
		return []notionapi.RichText{}
	}
	return []notionapi.RichText{{Text: &notionapi.Text{Content: truncateRunes(s, notionRichTextMaxLength)}}}
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}

// clearedProperty serialises as {"<type>": null}, which Notion treats as
// removing the value. notionapi's typed properties cannot express null.
type clearedProperty struct {
	kind notionapi.PropertyType
}

func (p clearedProperty) GetID() string { return "" }
func (p clearedProperty) GetType() notionapi.PropertyType { return p.kind }

func (p clearedProperty) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{string(p.kind): nil})
}

// pageProperties maps l to page properties. On update, empty url, email and
// select values are cleared so a reprocessed lead drops stale values.
func pageProperties(l model.Lead, update bool) notionapi.Properties {
	processed := l.ProcessedAt
	if processed.IsZero() {
		processed = time.Now().UTC()
	}
	at := notionapi.Date(processed)

	props := notionapi.Properties{
		propName:             notionapi.TitleProperty{Title: richText(l.Name)},
		propURN:              notionapi.RichTextProperty{RichText: richText(l.Identifier)},
		propCompany:          notionapi.RichTextProperty{RichText: richText(l.CompanyName)},
		propTitle:            notionapi.RichTextProperty{RichText: richText(l.Title)},
		propFitReason:        notionapi.RichTextProperty{RichText: richText(l.FitReason)},
		propValidationReason: notionapi.RichTextProperty{RichText: richText(l.ValidationReason)},
		propProfileSummary:   notionapi.RichTextProperty{RichText: richText(l.ProfileSummary)},
		propCompanySummary:   notionapi.RichTextProperty{RichText: richText(l.CompanySummary)},
		propProcessedAt:      notionapi.DateProperty{Date: &notionapi.DateObject{Start: &at}},
	}
	// Notion rejects empty strings for url, email and select values.
	set := func(key string, empty bool, kind notionapi.PropertyType, prop notionapi.Property) {
		switch {
		case !empty:
			props[key] = prop
		case update:
			props[key] = clearedProperty{kind: kind}
		}
	}
	set(propWebsite, l.CompanyWebsite == "", notionapi.PropertyTypeURL,
		notionapi.URLProperty{URL: l.CompanyWebsite})
	set(propProfileURL, l.ProfileURL == "", notionapi.PropertyTypeURL,
		notionapi.URLProperty{URL: l.ProfileURL})
	set(propEmail, l.Email == "", notionapi.PropertyTypeEmail,
		notionapi.EmailProperty{Email: l.Email})
	set(propFitStrength, l.FitStrength == "", notionapi.PropertyTypeSelect,
		notionapi.SelectProperty{Select: notionapi.Option{Name: string(l.FitStrength)}})
	set(propValidation, l.ValidationJudgement == "", notionapi.PropertyTypeSelect,
		notionapi.SelectProperty{Select: notionapi.Option{Name: string(l.ValidationJudgement)}})
	return props
}

func leadFromPage(props notionapi.Properties) model.Lead {
	l := model.Lead{
		Identifier:          textProp(props[propURN]),
		Name:                textProp(props[propName]),
		CompanyName:         textProp(props[propCompany]),
		CompanyWebsite:      textProp(props[propWebsite]),
		Email:               textProp(props[propEmail]),
		Title:               textProp(props[propTitle]),
		ProfileURL:          textProp(props[propProfileURL]),
		FitStrength:         model.FitStrength(textProp(props[propFitStrength])),
		FitReason:           textProp(props[propFitReason]),
		ValidationJudgement: model.Judgement(textProp(props[propValidation])),
		ValidationReason:    textProp(props[propValidationReason]),
		ProfileSummary:      textProp(props[propProfileSummary]),
		CompanySummary:      textProp(props[propCompanySummary]),
	}
	if dp, ok := props[propProcessedAt].(*notionapi.DateProperty); ok && dp.Date != nil && dp.Date.Start != nil {
		l.ProcessedAt = time.Time(*dp.Date.Start)
	}
	return l
}

// textProp reads the plain value of a decoded page property.
func textProp(p notionapi.Property) string {
	switch v := p.(type) {
	case *notionapi.TitleProperty:
		return plainText(v.Title)
	case *notionapi.RichTextProperty:
		return plainText(v.RichText)
	case *notionapi.URLProperty:
		return v.URL
	case *notionapi.EmailProperty:
		return v.Email
	case *notionapi.SelectProperty:
		return v.Select.Name
	}
	return ""
}

func plainText(rt []notionapi.RichText) string {
	var b strings.Builder
	for _, t := range rt {
		switch {
		case t.PlainText != "":
			b.WriteString(t.PlainText)
		case t.Text != nil:
			b.WriteString(t.Text.Content)
		}
	}
	return b.String()
}
