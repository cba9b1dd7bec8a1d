package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/personal-dashboard/internal/config"
	"github.com/deppfellow/personal-dashboard/internal/lib/upstream"
	"github.com/deppfellow/personal-dashboard/internal/model"
	"github.com/deppfellow/personal-dashboard/internal/server"
)

// fakeStore records the calls it receives.
type fakeStore struct {
	items     map[string]model.Expense
	deleted   []model.ExpenseKey
	updated   []model.ExpenseKey
	scanned   []model.ScanFilter
	updateErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: map[string]model.Expense{}}
}

func (f *fakeStore) PutItem(_ context.Context, e *model.Expense) error {
	f.items[e.ExpenseID.String()] = *e
	return nil
}

func (f *fakeStore) Scan(_ context.Context, filter model.ScanFilter) ([]model.Expense, error) {
	f.scanned = append(f.scanned, filter)
	out := []model.Expense{}
	for _, e := range f.items {
		if filter.Matches(&e) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) QueryByCategory(ctx context.Context, category string) ([]model.Expense, error) {
	return f.Scan(ctx, model.ScanFilter{Category: &category})
}

func (f *fakeStore) DeleteItem(_ context.Context, key model.ExpenseKey) error {
	f.deleted = append(f.deleted, key)
	delete(f.items, key.ID())
	return nil
}

func (f *fakeStore) UpdateItem(_ context.Context, key model.ExpenseKey, _ model.ExpenseUpdate) error {
	f.updated = append(f.updated, key)
	return f.updateErr
}

func (f *fakeStore) Ping(context.Context) error { return nil }

func newTestServer(secrets config.StaticSecrets, transport http.RoundTripper) *server.Server {
	log := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Integration: config.IntegrationConfig{
				GitHub:  config.GitHubConfig{BaseURL: "https://api.github.test"},
				News:    config.NewsConfig{BaseURL: "https://newsapi.test"},
				Weather: config.WeatherConfig{BaseURL: "https://weather.test"},
			},
		},
		Logger:     &log,
		HTTPClient: &http.Client{Transport: transport},
		Secrets:    secrets,
	}
}

func TestExpenseCreateStampsIDAndTimestamp(t *testing.T) {
	store := newFakeStore()
	svc := NewExpenseService(newTestServer(nil, nil), store).
		WithClock(func() time.Time { return time.UnixMilli(1714557600123) })

	expense, err := svc.Create(context.Background(), &model.CreateExpenseRequest{
		Description: "Coffee",
		Amount:      decimal.RequireFromString("3.10"),
		Category:    "food",
		Date:        "2024-05-01",
	})
	require.NoError(t, err)

	assert.Equal(t, "1714557600123", expense.ExpenseID.String())
	assert.True(t, expense.ExpenseID.Equal(expense.Timestamp))
	assert.Equal(t, "3.1", expense.Amount.String())
	assert.Contains(t, store.items, "1714557600123")
}

func TestExpenseListPassesCategoryThrough(t *testing.T) {
	store := newFakeStore()
	svc := NewExpenseService(newTestServer(nil, nil), store)

	_, err := svc.List(context.Background(), nil)
	require.NoError(t, err)

	empty := ""
	_, err = svc.List(context.Background(), &empty)
	require.NoError(t, err)

	require.Len(t, store.scanned, 2)
	assert.Nil(t, store.scanned[0].Category)
	require.NotNil(t, store.scanned[1].Category)
	assert.Equal(t, "", *store.scanned[1].Category)
}

func TestExpenseDeleteUsesIDOnlyKey(t *testing.T) {
	store := newFakeStore()
	svc := NewExpenseService(newTestServer(nil, nil), store)

	require.NoError(t, svc.Delete(context.Background(), decimal.NewFromInt(42)))

	require.Len(t, store.deleted, 1)
	assert.Equal(t, "42", store.deleted[0].ID())
	assert.Nil(t, store.deleted[0].Timestamp)
}

func TestExpenseUpdateSendsTimestampInKey(t *testing.T) {
	store := newFakeStore()
	store.updateErr = errors.New("the provided key element does not match the schema")
	svc := NewExpenseService(newTestServer(nil, nil), store)

	err := svc.Update(context.Background(), decimal.NewFromInt(7), model.ExpenseUpdate{model.FieldAmount: decimal.NewFromInt(1)})
	require.Error(t, err)
	assert.ErrorIs(t, err, store.updateErr)

	require.Len(t, store.updated, 1)
	require.NotNil(t, store.updated[0].Timestamp)
	assert.Zero(t, *store.updated[0].Timestamp)
}

func TestActivityCredentialsOrder(t *testing.T) {
	tests := []struct {
		name    string
		secrets config.StaticSecrets
		missing string
	}{
		{"nothing set", config.StaticSecrets{}, config.SecretGitHubPAT},
		{"token only", config.StaticSecrets{config.SecretGitHubPAT: "t"}, config.SecretGitHubUsername},
		{"username only", config.StaticSecrets{config.SecretGitHubUsername: "u"}, config.SecretGitHubPAT},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := httpmock.NewMockTransport()
			svc := NewActivityService(newTestServer(tt.secrets, transport))

			_, err := svc.Dashboard(context.Background())

			var missing *config.MissingSecretError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tt.missing, missing.Name)
			assert.Zero(t, transport.GetTotalCallCount())
		})
	}
}

func TestActivityDashboardDegradesPerSection(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder(http.MethodGet, "https://api.github.test/users/octo",
		httpmock.NewErrorResponder(errors.New("connection reset")))
	transport.RegisterResponder(http.MethodGet, "https://api.github.test/users/octo/events/public",
		httpmock.NewStringResponder(http.StatusOK, `[{"id":"9","type":"PushEvent","payload":{}}]`))
	transport.RegisterResponder(http.MethodGet, "https://api.github.test/users/octo/repos",
		httpmock.NewStringResponder(http.StatusOK, `[{"id":1,"name":"app","full_name":"octo/app"}]`))

	svc := NewActivityService(newTestServer(config.StaticSecrets{
		config.SecretGitHubPAT:      "t",
		config.SecretGitHubUsername: "octo",
	}, transport))

	dashboard, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Nil(t, dashboard.Profile)
	assert.NotNil(t, dashboard.RecentActivity)
	assert.Empty(t, dashboard.RecentActivity)
	require.Len(t, dashboard.Repositories, 1)
	assert.Equal(t, "octo/app", *dashboard.Repositories[0].FullName)
}

func TestNewsHeadlinesRequiresKey(t *testing.T) {
	transport := httpmock.NewMockTransport()
	svc := NewNewsService(newTestServer(config.StaticSecrets{}, transport))

	_, err := svc.Headlines(context.Background())

	var missing *config.MissingSecretError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, config.SecretNewsAPIKey, missing.Name)
	assert.Zero(t, transport.GetTotalCallCount())
}

func TestWeatherCurrent(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponderWithQuery(http.MethodGet, "https://weather.test/v1/current.json",
		map[string]string{"key": "k", "q": "Paris"},
		httpmock.NewStringResponder(http.StatusInternalServerError, `{}`))

	svc := NewWeatherService(newTestServer(config.StaticSecrets{config.SecretWeatherAPIKey: "k"}, transport))

	key, err := svc.APIKey()
	require.NoError(t, err)
	assert.Equal(t, "k", key)

	_, err = svc.Current(context.Background(), key, &model.WeatherRequest{Location: "Paris"})

	var upstreamErr *upstream.Error
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, upstream.KindStatus, upstreamErr.Kind)
}
