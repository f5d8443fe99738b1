package salesforce

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindLeadByURN(t *testing.T) {
	var gotSOQL string
	c := &mockClient{
		queryFn: func(_ context.Context, soql string, out any) error {
			gotSOQL = soql
			leads := out.(*[]Lead)
			*leads = []Lead{{ID: "00Q1", URN: "o'brien", LastName: "O'Brien"}}
			return nil
		},
	}

	lead, err := FindLeadByURN(context.Background(), c, "o'brien")
	require.NoError(t, err)
	require.NotNil(t, lead)
	assert.Equal(t, "00Q1", lead.ID)
	assert.Contains(t, gotSOQL, `LinkedIn_URN__c = 'o\'brien'`)
	assert.Contains(t, gotSOQL, "LIMIT 1")
}

func TestFindLeadByURN_NoMatch(t *testing.T) {
	c := &mockClient{}

	lead, err := FindLeadByURN(context.Background(), c, "jane")
	require.NoError(t, err)
	assert.Nil(t, lead)
}

func TestFindLeadByURN_Error(t *testing.T) {
	c := &mockClient{
		queryFn: func(context.Context, string, any) error { return errors.New("boom") },
	}

	_, err := FindLeadByURN(context.Background(), c, "jane")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sf: find lead by urn jane")
}

func TestListLeads(t *testing.T) {
	var gotSOQL string
	c := &mockClient{
		queryFn: func(_ context.Context, soql string, out any) error {
			gotSOQL = soql
			*out.(*[]Lead) = []Lead{{ID: "a"}, {ID: "b"}}
			return nil
		},
	}

	leads, err := ListLeads(context.Background(), c, 0)
	require.NoError(t, err)
	assert.Len(t, leads, 2)
	assert.Contains(t, gotSOQL, "LIMIT 2000")
	assert.Contains(t, gotSOQL, "LinkedIn_URN__c != null")
}

func TestCreateLead(t *testing.T) {
	var gotObject string
	c := &mockClient{
		insertOneFn: func(_ context.Context, name string, record map[string]any) (string, error) {
			gotObject = name
			return "00Qnew", nil
		},
	}

	id, err := CreateLead(context.Background(), c, map[string]any{"LastName": "Doe", "Company": "Acme"})
	require.NoError(t, err)
	assert.Equal(t, "00Qnew", id)
	assert.Equal(t, SObjectLead, gotObject)
}

func TestCreateLead_RequiredFields(t *testing.T) {
	c := &mockClient{}

	_, err := CreateLead(context.Background(), c, map[string]any{"Company": "Acme"})
	assert.ErrorContains(t, err, "LastName is required")

	_, err = CreateLead(context.Background(), c, map[string]any{"LastName": "Doe"})
	assert.ErrorContains(t, err, "Company is required")
}

func TestUpdateLead(t *testing.T) {
	var gotID string
	c := &mockClient{
		updateOneFn: func(_ context.Context, _ string, id string, _ map[string]any) error {
			gotID = id
			return nil
		},
	}

	require.NoError(t, UpdateLead(context.Background(), c, "00Q1", map[string]any{FieldFitStrength: "Low"}))
	assert.Equal(t, "00Q1", gotID)

	assert.Error(t, UpdateLead(context.Background(), c, "", map[string]any{"a": 1}))
	assert.Error(t, UpdateLead(context.Background(), c, "00Q1", nil))
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		in, first, last string
	}{
		{"", "", "Unknown"},
		{"Cher", "", "Cher"},
		{"Jane Doe", "Jane", "Doe"},
		{"Mary Ann van Dyke", "Mary Ann van", "Dyke"},
	}
	for _, tt := range tests {
		first, last := SplitName(tt.in)
		assert.Equal(t, tt.first, first, tt.in)
		assert.Equal(t, tt.last, last, tt.in)
	}
}

func TestEscapeSoql(t *testing.T) {
	assert.Equal(t, `a\\b`, escapeSoql(`a\b`))
	assert.Equal(t, `it\'s`, escapeSoql("it's"))
}
