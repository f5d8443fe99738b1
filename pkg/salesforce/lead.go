package salesforce

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// SObjectLead is the Salesforce object leads are written to.
const SObjectLead = "Lead"

// Custom fields on the Lead object.
const (
	FieldURN                 = "LinkedIn_URN__c"
	FieldProfileURL          = "LinkedIn_Profile__c"
	FieldFitStrength         = "ICP_Fit_Strength__c"
	FieldFitReason           = "ICP_Fit_Reason__c"
	FieldValidationJudgement = "Validation_Judgement__c"
	FieldValidationReason    = "Validation_Reason__c"
	FieldProfileSummary      = "Profile_Summary__c"
	FieldCompanySummary      = "Company_Summary__c"
)

// Lead is a Salesforce Lead record as read back by SOQL.
type Lead struct {
	ID                  string `json:"Id" salesforce:"Id"`
	FirstName           string `json:"FirstName" salesforce:"FirstName"`
	LastName            string `json:"LastName" salesforce:"LastName"`
	Company             string `json:"Company" salesforce:"Company"`
	Email               string `json:"Email" salesforce:"Email"`
	Title               string `json:"Title" salesforce:"Title"`
	Website             string `json:"Website" salesforce:"Website"`
	URN                 string `json:"LinkedIn_URN__c" salesforce:"LinkedIn_URN__c"`
	ProfileURL          string `json:"LinkedIn_Profile__c" salesforce:"LinkedIn_Profile__c"`
	FitStrength         string `json:"ICP_Fit_Strength__c" salesforce:"ICP_Fit_Strength__c"`
	FitReason           string `json:"ICP_Fit_Reason__c" salesforce:"ICP_Fit_Reason__c"`
	ValidationJudgement string `json:"Validation_Judgement__c" salesforce:"Validation_Judgement__c"`
	ValidationReason    string `json:"Validation_Reason__c" salesforce:"Validation_Reason__c"`
	ProfileSummary      string `json:"Profile_Summary__c" salesforce:"Profile_Summary__c"`
	CompanySummary      string `json:"Company_Summary__c" salesforce:"Company_Summary__c"`
}

// leadFields are the SOQL fields selected for Lead queries.
var leadFields = []string{
	"Id", "FirstName", "LastName", "Company", "Email", "Title", "Website",
	FieldURN, FieldProfileURL, FieldFitStrength, FieldFitReason,
	FieldValidationJudgement, FieldValidationReason, FieldProfileSummary, FieldCompanySummary,
}

// FindLeadByURN returns the Lead whose URN field equals urn exactly, or nil.
func FindLeadByURN(ctx context.Context, c Client, urn string) (*Lead, error) {
	soql := fmt.Sprintf(
		"SELECT %s FROM Lead WHERE %s = '%s' LIMIT 1",
		strings.Join(leadFields, ", "),
		FieldURN,
		escapeSoql(urn),
	)
	var leads []Lead
	if err := c.Query(ctx, soql, &leads); err != nil {
		return nil, eris.Wrapf(err, "sf: find lead by urn %s", urn)
	}
	if len(leads) == 0 {
		return nil, nil
	}
	return &leads[0], nil
}

// ListLeads returns up to limit Leads that carry a URN, newest first.
func ListLeads(ctx context.Context, c Client, limit int) ([]Lead, error) {
	if limit <= 0 {
		limit = 2000
	}
	soql := fmt.Sprintf(
		"SELECT %s FROM Lead WHERE %s != null ORDER BY LastModifiedDate DESC LIMIT %d",
		strings.Join(leadFields, ", "),
		FieldURN,
		limit,
	)
	var leads []Lead
	if err := c.Query(ctx, soql, &leads); err != nil {
		return nil, eris.Wrap(err, "sf: list leads")
	}
	return leads, nil
}

// CreateLead inserts a Lead and returns its Salesforce ID.
func CreateLead(ctx context.Context, c Client, fields map[string]any) (string, error) {
	if fields["LastName"] == nil || fields["LastName"] == "" {
		return "", eris.New("sf: lead LastName is required")
	}
	if fields["Company"] == nil || fields["Company"] == "" {
		return "", eris.New("sf: lead Company is required")
	}
	id, err := c.InsertOne(ctx, SObjectLead, fields)
	if err != nil {
		return "", eris.Wrap(err, "sf: create lead")
	}
	return id, nil
}

// UpdateLead overwrites fields on an existing Lead.
func UpdateLead(ctx context.Context, c Client, id string, fields map[string]any) error {
	if id == "" {
		return eris.New("sf: lead id is required")
	}
	if len(fields) == 0 {
		return eris.New("sf: no fields to update")
	}
	if err := c.UpdateOne(ctx, SObjectLead, id, fields); err != nil {
		return eris.Wrapf(err, "sf: update lead %s", id)
	}
	return nil
}

// SplitName splits a display name into first and last name. Salesforce
// requires a last name, so a single word becomes the last name.
func SplitName(name string) (first, last string) {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "", "Unknown"
	case 1:
		return "", parts[0]
	default:
		return strings.Join(parts[:len(parts)-1], " "), parts[len(parts)-1]
	}
}

// escapeSoql escapes backslashes and single quotes in SOQL string literals.
func escapeSoql(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "'", `\'`)
}
