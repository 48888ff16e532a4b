package datasource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seenimoa/fundlens/internal/config"
	"github.com/seenimoa/fundlens/internal/repository"
	"github.com/seenimoa/fundlens/pkg/models"
)

func testFund(id, name, amc string, cat models.Category, r1 float64) models.Fund {
	return models.Fund{
		ID: id, SchemeName: name, AMC: amc, SchemeCode: id,
		NAV: 50, Category: cat, ExpenseRatio: 1.2,
		AUM: 5000, AUMCategory: models.AUMMid,
		Returns:    models.Returns{OneYear: r1, ThreeYear: 10, FiveYear: 9},
		RiskRating: 3, InceptionDate: "2012-04-01",
	}
}

func localFunds() []models.Fund {
	return []models.Fund{
		testFund("HDFC001", "HDFC Top 100 Fund", "HDFC Mutual Fund", models.CategoryEquity, 18.45),
		testFund("SBI010", "SBI Magnum Gilt Fund", "SBI Mutual Fund", models.CategoryDebt, 7.2),
		testFund("DSP002", "DSP Focus Fund", "DSP", models.CategoryEquity, 18.76),
	}
}

func newLocal(t *testing.T) *Local {
	t.Helper()
	repo, err := repository.New(localFunds(), repository.WithSource("test"))
	require.NoError(t, err)
	return NewLocal(repo)
}

// fakeAPI serves the remote fund API from a fixed fund list.
type fakeAPI struct {
	funds    []models.Fund
	paged    bool
	pageSize int  // funds per page when paged; 0 means one page
	short    bool // advertise one more fund than is served
	fail     bool
	lastPath atomic.Value
	hits     atomic.Int32
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	write := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
	guard := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			f.hits.Add(1)
			f.lastPath.Store(r.URL.String())
			if f.fail {
				write(w, http.StatusServiceUnavailable, map[string]string{"message": "upstream down"})
				return
			}
			next(w, r)
		}
	}
	mux.HandleFunc("GET /api/funds/{$}", guard(func(w http.ResponseWriter, r *http.Request) {
		if !f.paged {
			write(w, http.StatusOK, f.funds)
			return
		}
		write(w, http.StatusOK, f.page(r))
	}))
	mux.HandleFunc("GET /api/funds/{id}/", guard(func(w http.ResponseWriter, r *http.Request) {
		for _, fund := range f.funds {
			if fund.ID == r.PathValue("id") {
				write(w, http.StatusOK, fund)
				return
			}
		}
		write(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
	}))
	mux.HandleFunc("GET /api/top-funds/", guard(func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusOK, f.funds[:1])
	}))
	mux.HandleFunc("GET /api/amcs/", guard(func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusOK, []string{"Remote AMC"})
	}))
	return mux
}

// page builds a {"count","next","results"} envelope. Page 2 links with a
// host-relative URL, later pages with an absolute one.
func (f *fakeAPI) page(r *http.Request) map[string]any {
	count := len(f.funds)
	if f.short {
		count++
	}
	size := f.pageSize
	if size <= 0 {
		size = len(f.funds)
	}
	n, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if n < 1 {
		n = 1
	}
	lo := min((n-1)*size, len(f.funds))
	hi := min(lo+size, len(f.funds))

	var next any
	if hi < len(f.funds) {
		path := fmt.Sprintf("/api/funds/?page=%d", n+1)
		if n+1 > 2 {
			path = "http://" + r.Host + path
		}
		next = path
	}
	return map[string]any{"count": count, "next": next, "results": f.funds[lo:hi]}
}

func newRemote(t *testing.T, api *fakeAPI) *Remote {
	t.Helper()
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)
	return NewRemote(config.RemoteConfig{Enabled: true, BaseURL: srv.URL + "/api/", TimeoutSec: 5})
}

// rawRemote answers every request with status and body.
func rawRemote(t *testing.T, status int, body string) *Remote {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return NewRemote(config.RemoteConfig{Enabled: true, BaseURL: srv.URL + "/api", TimeoutSec: 5})
}

func remoteFunds() []models.Fund {
	return []models.Fund{
		testFund("REM001", "Remote Flexi Cap Fund", "Remote AMC", models.CategoryEquity, 25),
		testFund("HDFC001", "HDFC Top 100 Fund", "HDFC Mutual Fund", models.CategoryEquity, 19.1),
	}
}

func manyFunds(n int) []models.Fund {
	funds := make([]models.Fund, n)
	for i := range funds {
		id := fmt.Sprintf("REM%03d", i+1)
		funds[i] = testFund(id, id+" Fund", "Remote AMC", models.CategoryEquity, float64(i))
	}
	return funds
}

// ── ErrHTTP ──

func TestErrHTTPError(t *testing.T) {
	e := &ErrHTTP{StatusCode: 404, Status: "404 Not Found", Body: "page not found"}
	assert.Equal(t, "HTTP 404 404 Not Found: page not found", e.Error())
	e.Message = "fund not found"
	assert.Equal(t, "HTTP 404: fund not found", e.Error())
}

// ── Local ──

func TestLocalSource(t *testing.T) {
	l := newLocal(t)
	ctx := context.Background()

	assert.Equal(t, "local:test", l.Name())

	funds, err := l.ListFunds(ctx, models.Criteria{Category: models.CategoryEquity})
	require.NoError(t, err)
	assert.Equal(t, []string{"HDFC001", "DSP002"}, ids(funds))

	_, err = l.GetFund(ctx, "NOPE")
	assert.ErrorIs(t, err, ErrFundNotFound)

	top, err := l.TopFunds(ctx, models.Period1Y, 1, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"DSP002"}, ids(top))
}

// ── Remote ──

func TestRemoteListFunds(t *testing.T) {
	for _, paged := range []bool{false, true} {
		t.Run(fmt.Sprintf("paged=%v", paged), func(t *testing.T) {
			api := &fakeAPI{funds: remoteFunds(), paged: paged}
			r := newRemote(t, api)

			funds, err := r.ListFunds(context.Background(), models.Criteria{
				Category: models.CategoryEquity,
				Return1Y: models.Bounds{Min: models.Float(15)},
			})
			require.NoError(t, err)
			assert.Equal(t, []string{"REM001", "HDFC001"}, ids(funds))

			path := api.lastPath.Load().(string)
			assert.Contains(t, path, "category=Equity")
			assert.Contains(t, path, "minReturn1Y=15")
		})
	}
}

func TestRemoteListFundsFollowsPages(t *testing.T) {
	api := &fakeAPI{funds: manyFunds(7), paged: true, pageSize: 3}
	r := newRemote(t, api)

	funds, err := r.ListFunds(context.Background(), models.Criteria{})
	require.NoError(t, err)
	require.Len(t, funds, 7)
	assert.Equal(t, "REM001", funds[0].ID)
	assert.Equal(t, "REM007", funds[6].ID)
	assert.Equal(t, int32(3), api.hits.Load())
	assert.Contains(t, api.lastPath.Load().(string), "page=3")
}

func TestRemoteListFundsRejectsShortList(t *testing.T) {
	api := &fakeAPI{funds: manyFunds(3), paged: true, short: true}
	r := newRemote(t, api)

	_, err := r.ListFunds(context.Background(), models.Criteria{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "got 3 of 4")
}

func TestRemoteListFundsStopsOnRepeatedPage(t *testing.T) {
	r := rawRemote(t, http.StatusOK, `{"count":10,"next":"/api/funds/?page=1","results":[{"id":"A"}]}`)

	_, err := r.ListFunds(context.Background(), models.Criteria{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "repeats")
}

func TestRemoteGetFund(t *testing.T) {
	r := newRemote(t, &fakeAPI{funds: remoteFunds()})
	ctx := context.Background()

	f, err := r.GetFund(ctx, "REM001")
	require.NoError(t, err)
	assert.Equal(t, "Remote Flexi Cap Fund", f.SchemeName)
	assert.Equal(t, 25.0, f.Returns.OneYear)

	_, err = r.GetFund(ctx, "MISSING")
	assert.ErrorIs(t, err, ErrFundNotFound)
}

func TestRemoteHTTPError(t *testing.T) {
	r := newRemote(t, &fakeAPI{funds: remoteFunds(), fail: true})

	_, err := r.AMCs(context.Background())
	var httpErr *ErrHTTP
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)
	assert.Equal(t, "upstream down", httpErr.Message)
}

func TestRemoteUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	r := NewRemote(config.RemoteConfig{BaseURL: url, TimeoutSec: 1})
	_, err := r.ListFunds(context.Background(), models.Criteria{})
	assert.Error(t, err)
}

func TestDecodeFundList(t *testing.T) {
	tests := []struct {
		body    string
		want    int
		wantErr bool
	}{
		{`[]`, 0, false},
		{` [{"id":"A"},{"id":"B"}]`, 2, false},
		{`{"count":1,"results":[{"id":"A"}]}`, 1, false},
		{`{"results":[]}`, 0, false},
		{`<html>`, 0, true},
		{``, 0, true},
		{`null`, 0, true},
		{`"funds"`, 0, true},
		{`{"detail":"maintenance"}`, 0, true},
		{`{"results":null}`, 0, true},
		{`{"results":{"id":"A"}}`, 0, true},
	}
	for _, tt := range tests {
		got, err := decodeFundList([]byte(tt.body))
		if tt.wantErr {
			assert.Error(t, err, "body %q", tt.body)
			continue
		}
		if assert.NoError(t, err, "body %q", tt.body) {
			assert.NotNil(t, got, "body %q", tt.body)
			assert.Len(t, got, tt.want, "body %q", tt.body)
		}
	}
}

func TestDecodeFundPage(t *testing.T) {
	page, err := decodeFundPage([]byte(`{"count":9,"next":"?page=2","results":[{"id":"A"}]}`))
	require.NoError(t, err)
	assert.Equal(t, 9, page.Count)
	assert.Equal(t, "?page=2", page.Next)

	page, err = decodeFundPage([]byte(`[{"id":"A"}]`))
	require.NoError(t, err)
	assert.Equal(t, -1, page.Count)
	assert.Empty(t, page.Next)
}

func TestResolveURL(t *testing.T) {
	current := "http://127.0.0.1:8000/api/funds/?category=Debt"
	tests := map[string]string{
		"/api/funds/?page=2":               "http://127.0.0.1:8000/api/funds/?page=2",
		"?page=2":                          "http://127.0.0.1:8000/api/funds/?page=2",
		"https://mirror.example/funds?p=3": "https://mirror.example/funds?p=3",
	}
	for ref, want := range tests {
		got, err := resolveURL(current, ref)
		require.NoError(t, err)
		assert.Equal(t, want, got, ref)
	}
}

// ── Facade ──

func TestFacadeWithoutRemote(t *testing.T) {
	f := NewFacade(newLocal(t), nil, zerolog.Nop())
	funds, err := f.ListFunds(context.Background(), models.Criteria{})
	require.NoError(t, err)
	assert.Len(t, funds, 3)
	assert.Equal(t, ServedLocal, f.LastServed())
	assert.False(t, f.HasRemote())
}

func TestFacadePrefersRemote(t *testing.T) {
	api := &fakeAPI{funds: remoteFunds()}
	f := NewFacade(newLocal(t), newRemote(t, api), zerolog.Nop())
	ctx := context.Background()

	amcs, err := f.AMCs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Remote AMC"}, amcs)
	assert.Equal(t, ServedRemote, f.LastServed())

	fund, err := f.GetFund(ctx, "HDFC001")
	require.NoError(t, err)
	assert.Equal(t, 19.1, fund.Returns.OneYear, "remote record expected")
}

func TestFacadeFallsBackOnAnyRemoteError(t *testing.T) {
	var buf strings.Builder
	api := &fakeAPI{funds: remoteFunds(), fail: true}
	f := NewFacade(newLocal(t), newRemote(t, api), zerolog.New(&buf))
	ctx := context.Background()

	funds, err := f.ListFunds(ctx, models.Criteria{Category: models.CategoryDebt})
	require.NoError(t, err)
	assert.Equal(t, []string{"SBI010"}, ids(funds))
	assert.Equal(t, ServedLocal, f.LastServed())
	assert.Contains(t, buf.String(), "serving local data")

	top, err := f.TopFunds(ctx, models.Period1Y, 2, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"DSP002", "HDFC001"}, ids(top))
}

func TestFacadeFallsBackOnNonListBody(t *testing.T) {
	for _, body := range []string{`{"detail":"maintenance"}`, `null`, `{"results":null}`} {
		t.Run(body, func(t *testing.T) {
			f := NewFacade(newLocal(t), rawRemote(t, http.StatusOK, body), zerolog.Nop())

			funds, err := f.ListFunds(context.Background(), models.Criteria{})
			require.NoError(t, err)
			assert.Len(t, funds, 3)
			assert.Equal(t, ServedLocal, f.LastServed())

			top, err := f.TopFunds(context.Background(), models.Period1Y, 1, "")
			require.NoError(t, err)
			assert.Equal(t, []string{"DSP002"}, ids(top))
			assert.Equal(t, ServedLocal, f.LastServed())
		})
	}
}

func TestFacadeFallsBackOnShortPagedList(t *testing.T) {
	api := &fakeAPI{funds: remoteFunds(), paged: true, short: true}
	f := NewFacade(newLocal(t), newRemote(t, api), zerolog.Nop())

	funds, err := f.ListFunds(context.Background(), models.Criteria{})
	require.NoError(t, err)
	assert.Len(t, funds, 3)
	assert.Equal(t, ServedLocal, f.LastServed())
}

func TestFacadeNotFoundOnBothSides(t *testing.T) {
	api := &fakeAPI{funds: remoteFunds()}
	f := NewFacade(newLocal(t), newRemote(t, api), zerolog.Nop())

	// Remote 404 falls back; local does not have it either.
	_, err := f.GetFund(context.Background(), "GHOST")
	assert.ErrorIs(t, err, ErrFundNotFound)

	// Remote 404 falls back to a fund only the local side knows.
	fund, err := f.GetFund(context.Background(), "SBI010")
	require.NoError(t, err)
	assert.Equal(t, "SBI010", fund.ID)
}

func TestFacadeCompare(t *testing.T) {
	f := NewFacade(newLocal(t), nil, zerolog.Nop())

	funds, missing, err := f.Compare(context.Background(), []string{"DSP002", " HDFC001 ", "NOPE", "DSP002", ""})
	require.NoError(t, err)
	assert.Equal(t, []string{"DSP002", "HDFC001"}, ids(funds))
	assert.Equal(t, []string{"NOPE"}, missing)

	funds, missing, err = f.Compare(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, funds)
	assert.NotNil(t, missing)
	assert.Empty(t, missing)
}

// ── News ──

const rssBody = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>MF News</title>
<item><title>HDFC Mutual Fund launches new NFO</title><link>https://example.com/1</link>
  <description>&lt;p&gt;The &lt;b&gt;fund house&lt;/b&gt; said...&lt;/p&gt;</description>
  <pubDate>Mon, 02 Mar 2026 09:00:00 +0530</pubDate></item>
<item><title>Debt funds see inflows</title><link>https://example.com/2</link>
  <description>SBI Magnum Gilt Fund among top picks</description>
  <pubDate>Tue, 03 Mar 2026 09:00:00 +0530</pubDate></item>
<item><title>Markets close flat</title><link>https://example.com/3</link>
  <pubDate>Sun, 01 Mar 2026 09:00:00 +0530</pubDate></item>
</channel></rss>`

const rssSecondFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>More News</title>
<item><title>HDFC Top 100 Fund changes benchmark</title><link>https://example.com/4</link>
  <pubDate>Wed, 04 Mar 2026 09:00:00 +0530</pubDate></item>
</channel></rss>`

// newsServer serves /rss and /second; /slow waits for release before
// answering, and /broken fails.
func newsServer(t *testing.T, hits *atomic.Int32, release <-chan struct{}) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/broken":
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		case "/slow":
			select {
			case <-release:
			case <-r.Context().Done():
				return
			}
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		if r.URL.Path == "/second" {
			fmt.Fprint(w, rssSecondFeed)
			return
		}
		fmt.Fprint(w, rssBody)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewsLatest(t *testing.T) {
	var hits atomic.Int32
	srv := newsServer(t, &hits, nil)
	n := NewNews(config.NewsConfig{
		Feeds: []config.NewsFeed{{Name: "Test", URL: srv.URL + "/rss"}, {Name: "Broken", URL: srv.URL + "/broken"}},
		Limit: 10,
	}, zerolog.Nop())

	articles, err := n.Latest(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, articles, 3)
	assert.Equal(t, "Debt funds see inflows", articles[0].Title, "newest first")
	assert.Equal(t, "The fund house said...", articles[1].Summary, "HTML stripped")

	before := hits.Load()
	_, err = n.Latest(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, before, hits.Load(), "second call should be served from cache")
}

func TestNewsLatestFetchesFeedsConcurrently(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	srv := newsServer(t, &hits, release)
	n := NewNews(config.NewsConfig{
		Feeds: []config.NewsFeed{{Name: "Slow", URL: srv.URL + "/slow"}, {Name: "Second", URL: srv.URL + "/second"}},
		Limit: 10,
	}, zerolog.Nop())

	type result struct {
		articles []models.NewsArticle
		err      error
	}
	done := make(chan result, 1)
	go func() {
		articles, err := n.Latest(context.Background(), 0)
		done <- result{articles, err}
	}()

	// The second feed is requested while the first is still blocked.
	assert.Eventually(t, func() bool { return hits.Load() == 2 }, 5*time.Second, 10*time.Millisecond)
	close(release)

	res := <-done
	require.NoError(t, res.err)
	require.Len(t, res.articles, 4)
	assert.Equal(t, "https://example.com/4", res.articles[0].URL)
}

func TestNewsNonPositiveLimitUsesDefault(t *testing.T) {
	var hits atomic.Int32
	srv := newsServer(t, &hits, nil)
	n := NewNews(config.NewsConfig{Feeds: []config.NewsFeed{{Name: "Test", URL: srv.URL + "/rss"}}, Limit: 2}, zerolog.Nop())
	ctx := context.Background()

	for _, limit := range []int{0, -1, -5} {
		articles, err := n.Latest(ctx, limit)
		require.NoError(t, err)
		assert.Len(t, articles, 2, "limit %d", limit)
	}
	articles, err := n.Latest(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, articles, 3)

	hdfc := testFund("HDFC001", "HDFC Top 100 Fund", "HDFC Mutual Fund", models.CategoryEquity, 18)
	one := NewNews(config.NewsConfig{Feeds: []config.NewsFeed{{Name: "Test", URL: srv.URL + "/rss"}}, Limit: 1}, zerolog.Nop())
	matched, err := one.FundNews(ctx, hdfc, -5)
	require.NoError(t, err)
	assert.Len(t, matched, 1)
}

func TestFundNewsSearchesPastDefaultLimit(t *testing.T) {
	var hits atomic.Int32
	srv := newsServer(t, &hits, nil)
	// With a default of one article only the newest (a debt fund story)
	// would be seen if FundNews searched the truncated list.
	n := NewNews(config.NewsConfig{Feeds: []config.NewsFeed{{Name: "Test", URL: srv.URL + "/rss"}}, Limit: 1}, zerolog.Nop())

	hdfc := testFund("HDFC001", "HDFC Top 100 Fund", "HDFC Mutual Fund", models.CategoryEquity, 18)
	articles, err := n.FundNews(context.Background(), hdfc, 5)
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "https://example.com/1", articles[0].URL)
}

func TestNewsAllFeedsFail(t *testing.T) {
	var hits atomic.Int32
	srv := newsServer(t, &hits, nil)
	n := NewNews(config.NewsConfig{Feeds: []config.NewsFeed{{Name: "Broken", URL: srv.URL + "/broken"}}}, zerolog.Nop())
	_, err := n.Latest(context.Background(), 5)
	assert.Error(t, err)

	empty := NewNews(config.NewsConfig{}, zerolog.Nop())
	_, err = empty.Latest(context.Background(), 5)
	assert.ErrorIs(t, err, ErrNoFeeds)
	_, err = empty.FundNews(context.Background(), models.Fund{}, 5)
	assert.True(t, errors.Is(err, ErrNoFeeds))
}

func TestFundNews(t *testing.T) {
	var hits atomic.Int32
	srv := newsServer(t, &hits, nil)
	n := NewNews(config.NewsConfig{Feeds: []config.NewsFeed{{Name: "Test", URL: srv.URL + "/rss"}}}, zerolog.Nop())
	ctx := context.Background()

	hdfc := localFunds()[0]
	articles, err := n.FundNews(ctx, hdfc, 5)
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "https://example.com/1", articles[0].URL)
	assert.Equal(t, []string{"HDFC001"}, articles[0].FundIDs)

	gilt := localFunds()[1]
	articles, err = n.FundNews(ctx, gilt, 5)
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "https://example.com/2", articles[0].URL)

	// Tagging works on copies; the cached articles stay untagged.
	all, err := n.Latest(ctx, 10)
	require.NoError(t, err)
	for _, a := range all {
		assert.Empty(t, a.FundIDs, a.URL)
	}
}

func TestFundKeywords(t *testing.T) {
	got := fundKeywords(models.Fund{SchemeName: "HDFC Top 100 Fund", AMC: "HDFC Mutual Fund"})
	assert.Equal(t, []string{"hdfc top 100 fund", "hdfc mutual fund", "hdfc"}, got)

	got = fundKeywords(models.Fund{SchemeName: "DSP Focus Fund", AMC: "DSP"})
	assert.Len(t, got, 2)
}

func TestSortArticlesByDate(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	a := []models.NewsArticle{
		{Title: "old", PublishedAt: base},
		{Title: "new", PublishedAt: base.Add(48 * time.Hour)},
		{Title: "mid", PublishedAt: base.Add(24 * time.Hour)},
	}
	sortArticlesByDate(a)
	assert.Equal(t, []string{"new", "mid", "old"}, []string{a[0].Title, a[1].Title, a[2].Title})
}

func ids(funds []models.Fund) []string {
	out := make([]string, len(funds))
	for i, f := range funds {
		out[i] = f.ID
	}
	return out
}
