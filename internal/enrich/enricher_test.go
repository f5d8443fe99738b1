package enrich

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadscout/internal/model"
	"github.com/sells-group/leadscout/internal/resilience"
	"github.com/sells-group/leadscout/pkg/apify"
)

func TestFetchProfile(t *testing.T) {
	ctx := context.Background()
	mc := new(mockApify)
	mc.On("RunSync", ctx, apify.ActorProfileScraper, map[string]any{
		"profileUrls": []string{"https://www.linkedin.com/in/ada"},
	}).Return(items(`{}`, `{"fullName":"Ada"}`), nil).Once()

	doc, err := New(mc, nil).FetchProfile(ctx, "https://www.linkedin.com/in/ada")
	require.NoError(t, err)
	assert.Equal(t, "Ada", doc.Name())
	mc.AssertExpectations(t)
}

func TestFetchProfile_Empty(t *testing.T) {
	mc := new(mockApify)
	mc.On("RunSync", mock.Anything, apify.ActorProfileScraper, mock.Anything).Return(items(), nil).Once()

	_, err := New(mc, nil).FetchProfile(context.Background(), "u")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestFetchProfile_UpstreamError(t *testing.T) {
	mc := new(mockApify)
	mc.On("RunSync", mock.Anything, apify.ActorProfileScraper, mock.Anything).Return(nil, errors.New("status 502")).Once()

	_, err := New(mc, nil).FetchProfile(context.Background(), "u")
	require.Error(t, err)
	assert.True(t, model.IsUpstream(err))
	assert.Contains(t, err.Error(), "status 502")
}

func TestFetchCompany_PrimaryHit(t *testing.T) {
	mc := new(mockApify)
	mc.On("RunSync", mock.Anything, apify.ActorCompanyScraper, map[string]any{
		"url": []string{"https://www.linkedin.com/company/acme/"},
	}).Return(items(`{"name":"Acme","website":"https://acme.io"}`), nil).Once()

	doc, err := New(mc, nil).FetchCompany(context.Background(), "https://www.linkedin.com/company/acme/")
	require.NoError(t, err)
	assert.Equal(t, "Acme", doc.CompanyName())
	mc.AssertNotCalled(t, "RunSync", mock.Anything, apify.ActorCompanyDetail, mock.Anything)
}

func TestFetchCompany_FallsBackToBackup(t *testing.T) {
	tests := []struct {
		name       string
		primary    []any
		backupDocs []string
	}{
		{name: "primary empty", primary: []any{items(), nil}, backupDocs: []string{`{"basic_info":{"name":"Acme"}}`}},
		{name: "primary error", primary: []any{nil, errors.New("timeout")}, backupDocs: []string{`{"basic_info":{"name":"Acme"}}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mc := new(mockApify)
			mc.On("RunSync", mock.Anything, apify.ActorCompanyScraper, mock.Anything).Return(tt.primary...).Once()
			mc.On("RunSync", mock.Anything, apify.ActorCompanyDetail, map[string]any{
				"identifier": []string{"acme"},
			}).Return(items(tt.backupDocs...), nil).Once()

			doc, err := New(mc, nil).FetchCompany(context.Background(), "https://www.linkedin.com/company/acme")
			require.NoError(t, err)
			assert.Equal(t, "Acme", doc.CompanyName())
			mc.AssertExpectations(t)
		})
	}
}

func TestFetchCompany_NotFound(t *testing.T) {
	mc := new(mockApify)
	mc.On("RunSync", mock.Anything, apify.ActorCompanyScraper, mock.Anything).Return(nil, errors.New("boom")).Once()
	mc.On("RunSync", mock.Anything, apify.ActorCompanyDetail, mock.Anything).Return(items(), nil).Once()

	_, err := New(mc, nil).FetchCompany(context.Background(), "https://www.linkedin.com/company/acme")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = New(mc, nil).FetchCompany(context.Background(), "  ")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestFetchCompany_BothFail(t *testing.T) {
	mc := new(mockApify)
	mc.On("RunSync", mock.Anything, apify.ActorCompanyScraper, mock.Anything).Return(nil, errors.New("primary down")).Once()
	mc.On("RunSync", mock.Anything, apify.ActorCompanyDetail, mock.Anything).Return(nil, errors.New("backup down")).Once()

	_, err := New(mc, nil).FetchCompany(context.Background(), "https://www.linkedin.com/company/acme")
	require.Error(t, err)
	assert.True(t, model.IsUpstream(err))
	assert.Contains(t, err.Error(), "primary down")
	assert.Contains(t, err.Error(), "backup down")
}

func TestFetchReactions(t *testing.T) {
	ctx := context.Background()
	mc := new(mockApify)
	mc.On("RunSync", ctx, apify.ActorPostReactions, map[string]any{
		"post_url":    "7393603376913149952",
		"page_number": 1,
	}).Return(items(
		`{"reactor":{"urn":"ACoAA1","name":"Ada","profile_url":"https://www.linkedin.com/in/ada"}}`,
		`{"reactor":{"profile_url":"https://www.linkedin.com/in/Grace-H"}}`,
		`{"reaction_type":"LIKE"}`,
	), nil).Once()

	targets, err := New(mc, nil).FetchReactions(ctx, "7393603376913149952")
	require.NoError(t, err)
	require.Len(t, targets, 2)
	assert.Equal(t, model.Target{Identifier: "ACoAA1", Name: "Ada", ProfileURL: "https://www.linkedin.com/in/ada"}, targets[0])
	assert.Equal(t, "grace-h", targets[1].Identifier)
	assert.Equal(t, "Unknown", targets[1].Name)
}

func TestFetchReactions_Error(t *testing.T) {
	mc := new(mockApify)
	mc.On("RunSync", mock.Anything, apify.ActorPostReactions, mock.Anything).Return(nil, errors.New("401")).Once()

	_, err := New(mc, nil).FetchReactions(context.Background(), "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch post reactions")
}

func TestEnricher_CircuitOpensPerActor(t *testing.T) {
	mc := new(mockApify)
	mc.On("RunSync", mock.Anything, apify.ActorProfileScraper, mock.Anything).Return(nil, errors.New("down")).Times(2)

	breakers := resilience.NewServiceBreakers(resilience.CircuitBreakerConfig{FailureThreshold: 2})
	e := New(mc, breakers)

	for range 2 {
		_, err := e.FetchProfile(context.Background(), "u")
		require.Error(t, err)
	}
	_, err := e.FetchProfile(context.Background(), "u")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker is open")
	mc.AssertNumberOfCalls(t, "RunSync", 2)
	assert.Equal(t, resilience.CircuitClosed, breakers.Get(apify.ActorCompanyScraper).State())
}

func TestCompanyIdentifier(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "acme-inc", CompanyIdentifier("https://www.linkedin.com/company/acme-inc/"))
	assert.Equal(t, "acme", CompanyIdentifier("https://linkedin.com/company/acme/about?x=1"))
	assert.Equal(t, "12345", CompanyIdentifier("linkedin.com/company/12345"))
	assert.Equal(t, "acme", CompanyIdentifier("acme"))
}
