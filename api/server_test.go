package api

import (
	"encoding/json"
	"math"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seenimoa/fundlens/internal/config"
	"github.com/seenimoa/fundlens/internal/dataset"
	"github.com/seenimoa/fundlens/internal/datasource"
	"github.com/seenimoa/fundlens/internal/repository"
	"github.com/seenimoa/fundlens/internal/synthetic"
	"github.com/seenimoa/fundlens/pkg/models"
)

// ════════════════════════════════════════════════════════════════════
// Test Helpers
// ════════════════════════════════════════════════════════════════════

var testLoadedAt = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		Calculator: config.CalculatorConfig{TaxRate: 0.10},
	}
}

// testServer serves the curated catalog with no remote source.
func testServer(t *testing.T) *Server {
	t.Helper()
	return newTestServer(t, nil)
}

func newTestServer(t *testing.T, remote datasource.FundSource) *Server {
	t.Helper()
	funds, err := dataset.Curated()
	require.NoError(t, err)
	repo, err := repository.New(funds,
		repository.WithSource("curated"),
		repository.WithLoadedAt(testLoadedAt))
	require.NoError(t, err)

	facade := datasource.NewFacade(datasource.NewLocal(repo), remote, zerolog.Nop())
	srv := NewServer(testConfig(), Options{
		Facade:    facade,
		Synthetic: synthetic.NewDemo(rand.New(rand.NewPCG(1, 2))),
		Logger:    zerolog.Nop(),
	})
	srv.now = func() time.Time { return testLoadedAt.Add(3 * time.Hour) }
	return srv
}

// get sends a GET through the full router.
func get(t *testing.T, srv *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), "decode response")
	return v
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, rec.Code, "body %s", rec.Body.String())
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, msg string) {
	t.Helper()
	expectStatus(t, rec, status)
	resp := decode[ErrorResponse](t, rec)
	assert.Contains(t, resp.Message, msg)
}

func fundIDs(funds []models.Fund) []string {
	ids := make([]string, len(funds))
	for i, f := range funds {
		ids[i] = f.ID
	}
	return ids
}

// rssFeed serves body as an RSS feed.
func rssFeed(t *testing.T, body string) *httptest.Server {
	t.Helper()
	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(body))
	}))
	t.Cleanup(feed.Close)
	return feed
}

// ════════════════════════════════════════════════════════════════════
// Health
// ════════════════════════════════════════════════════════════════════

func TestHandleHealth(t *testing.T) {
	srv := testServer(t)
	rec := get(t, srv, "/health")
	expectStatus(t, rec, http.StatusOK)

	resp := decode[HealthResponse](t, rec)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 50, resp.Funds)
	assert.Equal(t, "local:curated", resp.Source)
	assert.Contains(t, resp.Loaded, "hour")
	assert.True(t, strings.HasSuffix(resp.Loaded, "ago"), resp.Loaded)
	assert.True(t, resp.LoadedAt.Equal(testLoadedAt), "LoadedAt %v", resp.LoadedAt)
}

// ════════════════════════════════════════════════════════════════════
// Fund listing
// ════════════════════════════════════════════════════════════════════

func TestListFunds(t *testing.T) {
	srv := testServer(t)

	tests := []struct {
		name   string
		target string
		check  func(t *testing.T, funds []models.Fund)
	}{
		{
			name:   "no filters returns the whole catalog",
			target: "/api/funds/",
			check: func(t *testing.T, funds []models.Fund) {
				require.Len(t, funds, 50)
				assert.Equal(t, "HDFC001", funds[0].ID, "dataset order")
			},
		},
		{
			name:   "category",
			target: "/api/funds?category=Debt",
			check: func(t *testing.T, funds []models.Fund) {
				assert.Len(t, funds, 6)
				for _, f := range funds {
					assert.Equal(t, models.CategoryDebt, f.Category, f.ID)
				}
			},
		},
		{
			name:   "return bound",
			target: "/api/funds?minReturn1Y=26",
			check: func(t *testing.T, funds []models.Fund) {
				for _, f := range funds {
					assert.GreaterOrEqual(t, f.Returns.OneYear, 26.0, f.ID)
				}
				assert.GreaterOrEqual(t, len(funds), 4)
			},
		},
		{
			name:   "fund ids override other filters",
			target: "/api/funds?fundIds=DSP002,HDFC001&category=Debt",
			check: func(t *testing.T, funds []models.Fund) {
				assert.Equal(t, []string{"HDFC001", "DSP002"}, fundIDs(funds))
			},
		},
		{
			name:   "no match is an empty array",
			target: "/api/funds?searchQuery=zzzz",
			check: func(t *testing.T, funds []models.Fund) {
				assert.NotNil(t, funds)
				assert.Empty(t, funds)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, srv, tt.target)
			expectStatus(t, rec, http.StatusOK)
			tt.check(t, decode[[]models.Fund](t, rec))
		})
	}
}

func TestListFundsEmptyArrayOnWire(t *testing.T) {
	rec := get(t, testServer(t), "/api/funds?searchQuery=zzzz")
	expectStatus(t, rec, http.StatusOK)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestListFundsMalformedBound(t *testing.T) {
	rec := get(t, testServer(t), "/api/funds?minReturn1Y=abc")
	expectError(t, rec, http.StatusBadRequest, "minReturn1Y")
}

func TestExportFundsCSV(t *testing.T) {
	rec := get(t, testServer(t), "/api/funds/export.csv?category=Debt")
	expectStatus(t, rec, http.StatusOK)

	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/csv"))
	funds, err := dataset.ReadCSV(rec.Body)
	require.NoError(t, err)
	assert.Len(t, funds, 6)
}

// ════════════════════════════════════════════════════════════════════
// Single fund
// ════════════════════════════════════════════════════════════════════

func TestGetFund(t *testing.T) {
	srv := testServer(t)

	for _, target := range []string{"/api/funds/HDFC001", "/api/funds/HDFC001/"} {
		rec := get(t, srv, target)
		expectStatus(t, rec, http.StatusOK)
		f := decode[models.Fund](t, rec)
		assert.Equal(t, "HDFC001", f.ID, target)
		assert.Equal(t, "HDFC Top 100 Fund", f.SchemeName, target)
	}
}

func TestGetFundNotFound(t *testing.T) {
	rec := get(t, testServer(t), "/api/funds/NOPE999")
	expectStatus(t, rec, http.StatusNotFound)
	assert.Equal(t, `{"message":"fund not found"}`, strings.TrimSpace(rec.Body.String()))
}

func TestNAVHistory(t *testing.T) {
	srv := testServer(t)

	rec := get(t, srv, "/api/funds/HDFC001/nav-history?days=30")
	expectStatus(t, rec, http.StatusOK)
	resp := decode[NAVHistoryResponse](t, rec)

	assert.True(t, resp.Synthetic, "NAV history must be flagged synthetic")
	require.Len(t, resp.Points, 30)
	last := resp.Points[len(resp.Points)-1]
	assert.InEpsilon(t, 825.67, last.NAV, 0.006)

	rec = get(t, srv, "/api/funds/HDFC001/nav-history")
	expectStatus(t, rec, http.StatusOK)
	resp = decode[NAVHistoryResponse](t, rec)
	assert.Equal(t, 365, resp.Days)
	assert.Len(t, resp.Points, 365)
}

func TestNAVHistoryBadDays(t *testing.T) {
	srv := testServer(t)
	for _, days := range []string{"0", "-5", "abc", "5000"} {
		rec := get(t, srv, "/api/funds/HDFC001/nav-history?days="+days)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "days=%s", days)
	}
	rec := get(t, srv, "/api/funds/NOPE/nav-history")
	expectStatus(t, rec, http.StatusNotFound)
}

func TestFundMetrics(t *testing.T) {
	rec := get(t, testServer(t), "/api/funds/HDFC001/metrics")
	expectStatus(t, rec, http.StatusOK)
	resp := decode[MetricsResponse](t, rec)

	assert.Equal(t, "HDFC001", resp.FundID)
	// The curated record carries no extended metrics.
	assert.True(t, resp.Synthetic)
	assert.Len(t, resp.Generated, 6)
	assert.GreaterOrEqual(t, resp.Beta, 0.7)
	assert.LessOrEqual(t, resp.Beta, 1.3)
}

func TestFundProfile(t *testing.T) {
	rec := get(t, testServer(t), "/api/funds/HDFC001/profile")
	expectStatus(t, rec, http.StatusOK)
	resp := decode[ProfileResponse](t, rec)

	assert.True(t, resp.AMC.Synthetic)
	assert.True(t, strings.HasPrefix(resp.AMC.Profile.Description, "HDFC Mutual Fund"), resp.AMC.Profile.Description)
	assert.Equal(t, "Prashant Jain", resp.Manager.Profile.Name)
}

func TestFundNewsDisabled(t *testing.T) {
	rec := get(t, testServer(t), "/api/funds/HDFC001/news")
	expectError(t, rec, http.StatusServiceUnavailable, "disabled")
}

func TestFundNewsFromFeed(t *testing.T) {
	feed := rssFeed(t, `<?xml version="1.0"?>
<rss version="2.0"><channel><title>MF</title>
<item><title>HDFC Mutual Fund launches new NFO</title><link>https://example.com/a</link>
<description>&lt;p&gt;Details inside&lt;/p&gt;</description><pubDate>Mon, 10 Mar 2025 10:00:00 +0530</pubDate></item>
<item><title>Gold prices rise</title><link>https://example.com/b</link>
<pubDate>Tue, 11 Mar 2025 10:00:00 +0530</pubDate></item>
</channel></rss>`)

	srv := testServer(t)
	srv.news = datasource.NewNews(config.NewsConfig{
		Feeds: []config.NewsFeed{{Name: "test", URL: feed.URL}},
		Limit: 10,
	}, zerolog.Nop())

	rec := get(t, srv, "/api/funds/HDFC001/news")
	expectStatus(t, rec, http.StatusOK)
	articles := decode[[]models.NewsArticle](t, rec)
	require.Len(t, articles, 1)
	assert.Equal(t, "Details inside", articles[0].Summary)
	assert.Equal(t, []string{"HDFC001"}, articles[0].FundIDs)
}

func TestFundNewsNegativeLimitUsesDefault(t *testing.T) {
	feed := rssFeed(t, `<?xml version="1.0"?>
<rss version="2.0"><channel><title>MF</title>
<item><title>HDFC Mutual Fund story one</title><link>https://example.com/1</link></item>
<item><title>HDFC Mutual Fund story two</title><link>https://example.com/2</link></item>
<item><title>HDFC Mutual Fund story three</title><link>https://example.com/3</link></item>
</channel></rss>`)

	srv := testServer(t)
	srv.news = datasource.NewNews(config.NewsConfig{
		Feeds: []config.NewsFeed{{Name: "test", URL: feed.URL}},
		Limit: 2,
	}, zerolog.Nop())

	for _, limit := range []string{"-5", "0", ""} {
		rec := get(t, srv, "/api/funds/HDFC001/news?limit="+limit)
		expectStatus(t, rec, http.StatusOK)
		assert.Len(t, decode[[]models.NewsArticle](t, rec), 2, "limit=%q", limit)
	}
	rec := get(t, srv, "/api/funds/HDFC001/news?limit=3")
	expectStatus(t, rec, http.StatusOK)
	assert.Len(t, decode[[]models.NewsArticle](t, rec), 3)
}

// ════════════════════════════════════════════════════════════════════
// Rankings, AMCs, compare, screens, stats
// ════════════════════════════════════════════════════════════════════

func TestTopFunds(t *testing.T) {
	srv := testServer(t)

	rec := get(t, srv, "/api/top-funds/")
	expectStatus(t, rec, http.StatusOK)
	funds := decode[[]models.Fund](t, rec)
	require.Len(t, funds, 10, "default limit")
	assert.Equal(t, []string{"NIPPON001", "SBI003", "ABSL001", "HDFC003"}, fundIDs(funds[:4]))

	rec = get(t, srv, "/api/top-funds?period=5y&limit=3&category=Debt")
	expectStatus(t, rec, http.StatusOK)
	funds = decode[[]models.Fund](t, rec)
	require.Len(t, funds, 3)
	for i := range funds {
		assert.Equal(t, models.CategoryDebt, funds[i].Category, funds[i].ID)
		if i > 0 {
			assert.LessOrEqual(t, funds[i].Returns.FiveYear, funds[i-1].Returns.FiveYear, "sorted by 5Y return")
		}
	}
}

func TestTopFundsBadParams(t *testing.T) {
	srv := testServer(t)
	tests := []struct {
		target string
		msg    string
	}{
		{"/api/top-funds?period=10Y", "unknown return period"},
		{"/api/top-funds?limit=0", "limit"},
		{"/api/top-funds?limit=ten", "limit"},
		{"/api/top-funds?category=Crypto", "unknown category"},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			expectError(t, get(t, srv, tt.target), http.StatusBadRequest, tt.msg)
		})
	}
}

func TestAMCs(t *testing.T) {
	rec := get(t, testServer(t), "/api/amcs")
	expectStatus(t, rec, http.StatusOK)
	amcs := decode[[]string](t, rec)
	require.Len(t, amcs, 12)
	assert.IsIncreasing(t, amcs)
}

func TestCompare(t *testing.T) {
	srv := testServer(t)

	rec := get(t, srv, "/api/compare?fundIds=DSP002,NOPE1,HDFC001&id=DSP002&id=AXIS003")
	expectStatus(t, rec, http.StatusOK)
	resp := decode[CompareResponse](t, rec)

	assert.Equal(t, []string{"DSP002", "HDFC001", "AXIS003"}, fundIDs(resp.Funds), "requested order")
	assert.Equal(t, []string{"NOPE1"}, resp.Missing)
	assert.Equal(t, "High", resp.RiskLabels["HDFC001"])
}

func TestCompareEmpty(t *testing.T) {
	rec := get(t, testServer(t), "/api/compare")
	expectStatus(t, rec, http.StatusOK)
	body := rec.Body.String()
	assert.Contains(t, body, `"funds":[]`)
	assert.Contains(t, body, `"missing":[]`)
}

func TestScreens(t *testing.T) {
	srv := testServer(t)

	rec := get(t, srv, "/api/screens")
	expectStatus(t, rec, http.StatusOK)
	assert.NotEmpty(t, decode[[]map[string]any](t, rec), "preset screens")

	rec = get(t, srv, "/api/screens/tax-savers")
	expectStatus(t, rec, http.StatusOK)
	resp := decode[ScreenResult](t, rec)
	assert.Equal(t, []string{"AXIS003", "MIRAE002"}, fundIDs(resp.Funds))

	expectError(t, get(t, srv, "/api/screens/moonshots"), http.StatusNotFound, "screen not found")
}

func TestStats(t *testing.T) {
	rec := get(t, testServer(t), "/api/stats/")
	expectStatus(t, rec, http.StatusOK)
	resp := decode[StatsResponse](t, rec)

	assert.Equal(t, 50, resp.Market.TotalFunds)
	require.NotNil(t, resp.Market.TopGainer)
	assert.Equal(t, "NIPPON001", resp.Market.TopGainer.ID)
	assert.GreaterOrEqual(t, resp.Market.CategoryCount, 2)
	assert.Contains(t, resp.Metrics, models.MetricBeta)
}

// ════════════════════════════════════════════════════════════════════
// Calculators
// ════════════════════════════════════════════════════════════════════

func TestLumpsumCalculator(t *testing.T) {
	rec := get(t, testServer(t), "/api/calculators/lumpsum?amount=100000&rate=10&years=2")
	expectStatus(t, rec, http.StatusOK)
	resp := decode[CalculatorResponse](t, rec)

	assert.InDelta(t, 121000, resp.Projection.MaturityValue, 1e-6)
	assert.InDelta(t, 21000, resp.Projection.EstimatedReturns, 1e-6)
	assert.InDelta(t, 2100, resp.PostTax.Tax, 1e-6)
	assert.InDelta(t, 118900, resp.PostTax.PostTaxValue, 1e-6)
	require.Len(t, resp.Schedule, 2)
	assert.InDelta(t, 110000, resp.Schedule[0].Value, 1e-6)
}

func TestSIPCalculator(t *testing.T) {
	srv := testServer(t)

	rec := get(t, srv, "/api/calculators/sip?amount=5000&rate=12&years=10")
	expectStatus(t, rec, http.StatusOK)
	resp := decode[CalculatorResponse](t, rec)

	assert.Equal(t, 600000.0, resp.Projection.TotalInvested)
	assert.Greater(t, resp.Projection.MaturityValue, resp.Projection.TotalInvested)
	require.NotEmpty(t, resp.Schedule)
	assert.InDelta(t, resp.Projection.MaturityValue, resp.Schedule[len(resp.Schedule)-1].Value, 1e-6)

	rec = get(t, srv, "/api/calculators/sip?amount=5000&rate=12&years=10&tax_rate=0")
	expectStatus(t, rec, http.StatusOK)
	assert.Equal(t, 0.0, decode[CalculatorResponse](t, rec).PostTax.Tax)
}

func TestCalculatorBadParams(t *testing.T) {
	srv := testServer(t)
	tests := []struct {
		target string
		msg    string
	}{
		{"/api/calculators/sip?rate=12&years=10", "amount is required"},
		{"/api/calculators/sip?amount=5000&years=10", "rate is required"},
		{"/api/calculators/sip?amount=5000&rate=12", "years is required"},
		{"/api/calculators/sip?amount=5000&rate=12&years=0", "years must be at least 1"},
		{"/api/calculators/lumpsum?amount=-1&rate=12&years=3", "amount must be positive"},
		{"/api/calculators/lumpsum?amount=NaN&rate=12&years=3", "amount must be a number"},
		{"/api/calculators/lumpsum?amount=100&rate=12&years=3&tax_rate=2", "tax rate"},
		{"/api/calculators/sip?amount=5000&rate=-150&years=5", "rate must be"},
		{"/api/calculators/lumpsum?amount=5000&rate=-100&years=5", "rate must be"},
		{"/api/calculators/lumpsum?amount=1e300&rate=1000&years=100", "out of range"},
		{"/api/calculators/sip?amount=1e300&rate=1000&years=100", "out of range"},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			expectError(t, get(t, srv, tt.target), http.StatusBadRequest, tt.msg)
		})
	}
}

func TestWriteJSONUnencodableValue(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusOK, map[string]float64{"value": math.NaN()})

	expectStatus(t, rec, http.StatusInternalServerError)
	assert.Equal(t, "internal error", decode[ErrorResponse](t, rec).Message)
}

// ════════════════════════════════════════════════════════════════════
// Config
// ════════════════════════════════════════════════════════════════════

func TestGetConfigHidesSecrets(t *testing.T) {
	srv := testServer(t)
	srv.cfg.Remote.APIKey = "sk-secret-remote-key"

	rec := get(t, srv, "/api/config")
	expectStatus(t, rec, http.StatusOK)
	require.NotContains(t, rec.Body.String(), "sk-secret-remote-key", "config response leaks the API key")

	rec = get(t, srv, "/api/config/keys")
	expectStatus(t, rec, http.StatusOK)
	keys := decode[[]config.KeyStatus](t, rec)
	require.Len(t, keys, 1)
	assert.True(t, keys[0].IsSet)
	assert.Equal(t, "sk-...key", keys[0].Masked)
}

// ════════════════════════════════════════════════════════════════════
// Remote fallback and routing
// ════════════════════════════════════════════════════════════════════

func TestRemoteFailureFallsBackToLocal(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"database down"}`))
	}))
	defer broken.Close()

	remote := datasource.NewRemote(config.RemoteConfig{Enabled: true, BaseURL: broken.URL + "/api"})
	srv := newTestServer(t, remote)

	rec := get(t, srv, "/api/funds/HDFC001")
	expectStatus(t, rec, http.StatusOK)
	assert.Equal(t, "HDFC001", decode[models.Fund](t, rec).ID)
	assert.Equal(t, datasource.ServedLocal, srv.data.LastServed())

	rec = get(t, srv, "/api/funds/NOPE")
	expectStatus(t, rec, http.StatusNotFound)
}

func TestRemoteNonListBodyFallsBackToLocal(t *testing.T) {
	odd := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"detail":"maintenance"}`))
	}))
	defer odd.Close()

	remote := datasource.NewRemote(config.RemoteConfig{Enabled: true, BaseURL: odd.URL + "/api"})
	srv := newTestServer(t, remote)

	rec := get(t, srv, "/api/funds?category=Debt")
	expectStatus(t, rec, http.StatusOK)
	assert.Len(t, decode[[]models.Fund](t, rec), 6)
	assert.Equal(t, datasource.ServedLocal, srv.data.LastServed())
}

func TestUnknownRoute(t *testing.T) {
	rec := get(t, testServer(t), "/api/nothing-here")
	expectError(t, rec, http.StatusNotFound, "not found")
}

func TestCORSHeaders(t *testing.T) {
	srv := testServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	srv.Router().ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
