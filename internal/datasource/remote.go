package datasource

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/go-resty/resty/v2"

	"github.com/seenimoa/fundlens/internal/config"
	"github.com/seenimoa/fundlens/internal/infra"
	"github.com/seenimoa/fundlens/internal/screener"
	"github.com/seenimoa/fundlens/pkg/models"
)

// maxPages bounds how many pages of a paginated fund list are followed.
const maxPages = 1000

// Remote fetches funds from the remote fund API. Calls are rate limited;
// there is no retry.
type Remote struct {
	client  *resty.Client
	limiter *infra.RateLimiter
	baseURL string
}

var _ FundSource = (*Remote)(nil)

// NewRemote creates a client for the API rooted at cfg.BaseURL, e.g.
// http://localhost:8000/api.
func NewRemote(cfg config.RemoteConfig) *Remote {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "fundlens")
	if cfg.TimeoutSec > 0 {
		client.SetTimeout(time.Duration(cfg.TimeoutSec) * time.Second)
	}
	if cfg.APIKey != "" {
		client.SetHeader("X-API-Key", cfg.APIKey)
	}

	return &Remote{
		client:  client,
		limiter: infra.NewRateLimiter(cfg.RatePerSec, 1),
		baseURL: cfg.BaseURL,
	}
}

// Name returns the data source name.
func (r *Remote) Name() string { return "remote:" + r.baseURL }

// ListFunds queries GET /funds/ with the canonical filter encoding. A
// paginated answer is followed through its next links; the list is
// rejected when it ends short of the advertised count.
func (r *Remote) ListFunds(ctx context.Context, c models.Criteria) ([]models.Fund, error) {
	first, err := r.fundPage(ctx, "/funds/", func(req *resty.Request) {
		req.SetQueryParamsFromValues(screener.Encode(c))
	})
	if err != nil {
		return nil, err
	}

	funds := first.Funds
	page := first
	visited := map[string]bool{}
	for pages := 1; page.Next != ""; pages++ {
		if pages >= maxPages {
			return nil, fmt.Errorf("fund list: more than %d pages", maxPages)
		}
		if visited[page.Next] {
			return nil, fmt.Errorf("fund list: page %s repeats", page.Next)
		}
		visited[page.Next] = true

		if page, err = r.fundPage(ctx, page.Next, nil); err != nil {
			return nil, err
		}
		funds = append(funds, page.Funds...)
	}

	if first.Count >= 0 && len(funds) < first.Count {
		return nil, fmt.Errorf("fund list incomplete: got %d of %d funds", len(funds), first.Count)
	}
	return funds, nil
}

// GetFund queries GET /funds/{id}/.
func (r *Remote) GetFund(ctx context.Context, id string) (*models.Fund, error) {
	body, err := r.get(ctx, "/funds/{id}/", func(req *resty.Request) {
		req.SetPathParam("id", id)
	})
	if err != nil {
		var httpErr *ErrHTTP
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrFundNotFound, id)
		}
		return nil, err
	}
	var f models.Fund
	if err := json.Unmarshal(body, &f); err != nil {
		return nil, fmt.Errorf("decode fund %s: %w", id, err)
	}
	if f.ID == "" {
		return nil, fmt.Errorf("decode fund %s: response has no id", id)
	}
	return &f, nil
}

// TopFunds queries GET /top-funds/.
func (r *Remote) TopFunds(ctx context.Context, period models.Period, limit int, category models.Category) ([]models.Fund, error) {
	body, err := r.get(ctx, "/top-funds/", func(req *resty.Request) {
		req.SetQueryParam("period", string(period))
		if limit > 0 {
			req.SetQueryParam("limit", strconv.Itoa(limit))
		}
		if category != "" {
			req.SetQueryParam("category", string(category))
		}
	})
	if err != nil {
		return nil, err
	}
	return decodeFundList(body)
}

// AMCs queries GET /amcs/.
func (r *Remote) AMCs(ctx context.Context) ([]string, error) {
	body, err := r.get(ctx, "/amcs/", nil)
	if err != nil {
		return nil, err
	}
	var amcs []string
	if err := json.Unmarshal(body, &amcs); err != nil {
		return nil, fmt.Errorf("decode amcs: %w", err)
	}
	return amcs, nil
}

// fundPage fetches one page of a fund list. Next is resolved against the
// URL that was requested.
func (r *Remote) fundPage(ctx context.Context, path string, build func(*resty.Request)) (fundPage, error) {
	resp, err := r.do(ctx, path, build)
	if err != nil {
		return fundPage{}, err
	}
	page, err := decodeFundPage(resp.Body())
	if err != nil {
		return fundPage{}, err
	}
	if page.Next != "" {
		if page.Next, err = resolveURL(resp.Request.URL, page.Next); err != nil {
			return fundPage{}, fmt.Errorf("fund list: bad next link: %w", err)
		}
	}
	return page, nil
}

func resolveURL(current, ref string) (string, error) {
	base, err := url.Parse(current)
	if err != nil {
		return "", err
	}
	next, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(next).String(), nil
}

// get performs one rate-limited GET and returns the body of a 2xx response.
func (r *Remote) get(ctx context.Context, path string, build func(*resty.Request)) ([]byte, error) {
	resp, err := r.do(ctx, path, build)
	if err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

// do performs one rate-limited GET. Non-2xx responses become *ErrHTTP.
// An absolute path bypasses the base URL.
func (r *Remote) do(ctx context.Context, path string, build func(*resty.Request)) (*resty.Response, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req := r.client.R().SetContext(ctx)
	if build != nil {
		build(req)
	}
	resp, err := req.Get(path)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	if resp.IsError() || resp.StatusCode() >= 300 {
		return nil, newErrHTTP(resp)
	}
	return resp, nil
}

func newErrHTTP(resp *resty.Response) *ErrHTTP {
	body := resp.Body()
	e := &ErrHTTP{
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
		Body:       string(body[:min(len(body), 1024)]),
	}
	var msg struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if json.Unmarshal(body, &msg) == nil {
		e.Message = msg.Message
		if e.Message == "" {
			e.Message = msg.Detail
		}
	}
	return e
}

// fundPage is one answer of a list endpoint.
type fundPage struct {
	Funds []models.Fund
	Count int // -1 when the answer carries no count
	Next  string
}

// decodeFundPage accepts a bare array or a paginated
// {"count", "next", "results"} envelope. Anything else, including null and
// an envelope without results, is an error.
func decodeFundPage(body []byte) (fundPage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var funds []models.Fund
		if err := json.Unmarshal(trimmed, &funds); err != nil {
			return fundPage{}, fmt.Errorf("decode fund list: %w", err)
		}
		return fundPage{Funds: funds, Count: -1}, nil
	}
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fundPage{}, errors.New("decode fund list: response is not a list or a page")
	}

	var env struct {
		Count   *int           `json:"count"`
		Next    *string        `json:"next"`
		Results *[]models.Fund `json:"results"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return fundPage{}, fmt.Errorf("decode fund list: %w", err)
	}
	if env.Results == nil {
		return fundPage{}, errors.New("decode fund list: page has no results")
	}

	page := fundPage{Funds: *env.Results, Count: -1}
	if env.Count != nil {
		page.Count = *env.Count
	}
	if env.Next != nil {
		page.Next = *env.Next
	}
	return page, nil
}

// decodeFundList decodes a single list answer, ignoring pagination.
func decodeFundList(body []byte) ([]models.Fund, error) {
	page, err := decodeFundPage(body)
	if err != nil {
		return nil, err
	}
	if page.Funds == nil {
		return []models.Fund{}, nil
	}
	return page.Funds, nil
}
