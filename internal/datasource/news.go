package datasource

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/fundlens/internal/config"
	"github.com/seenimoa/fundlens/internal/infra"
	"github.com/seenimoa/fundlens/pkg/models"
)

// ErrNoFeeds is returned when news is requested but no feed is configured.
var ErrNoFeeds = errors.New("no news feeds configured")

// News fetches mutual fund news from RSS feeds.
type News struct {
	feeds   []config.NewsFeed
	cache   *infra.Cache[[]models.NewsArticle]
	limiter *infra.RateLimiter
	parser  *gofeed.Parser
	limit   int
	log     zerolog.Logger
}

// NewNews creates a news source from cfg.
func NewNews(cfg config.NewsConfig, log zerolog.Logger) *News {
	ttl := time.Duration(cfg.CacheTTL) * time.Second
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &News{
		feeds:   cfg.Feeds,
		cache:   infra.NewCache[[]models.NewsArticle](ttl),
		limiter: infra.NewRateLimiter(2, 1),
		parser:  gofeed.NewParser(),
		limit:   cfg.Limit,
		log:     log.With().Str("component", "news").Logger(),
	}
}

// Latest returns recent articles from every feed, newest first, at most
// limit of them. limit <= 0 means the configured default. Feeds are fetched
// concurrently; feeds that fail are skipped and an error is returned only
// when all of them fail.
func (n *News) Latest(ctx context.Context, limit int) ([]models.NewsArticle, error) {
	all, err := n.all(ctx)
	if err != nil {
		return nil, err
	}
	return truncate(all, n.limitOr(limit)), nil
}

// all returns every cached or freshly fetched article, untruncated.
func (n *News) all(ctx context.Context) ([]models.NewsArticle, error) {
	if len(n.feeds) == 0 {
		return nil, ErrNoFeeds
	}
	if cached, ok := n.cache.Get("news:all"); ok {
		return cached, nil
	}

	results := make([][]models.NewsArticle, len(n.feeds))
	errs := make([]error, len(n.feeds))
	var g errgroup.Group
	for i, feed := range n.feeds {
		g.Go(func() error {
			articles, err := n.fetchRSS(ctx, feed)
			if err != nil {
				n.log.Warn().Err(err).Str("feed", feed.Name).Msg("news feed failed")
				errs[i] = err
				return nil
			}
			results[i] = articles
			return nil
		})
	}
	_ = g.Wait()

	var all []models.NewsArticle
	failed := 0
	for i := range n.feeds {
		if errs[i] != nil {
			failed++
			continue
		}
		all = append(all, results[i]...)
	}
	if failed == len(n.feeds) {
		return nil, fmt.Errorf("all news feeds failed: %w", errors.Join(errs...))
	}

	sortArticlesByDate(all)
	n.cache.Set("news:all", all)
	return all, nil
}

// FundNews returns articles that mention the fund's scheme name or its fund
// house, tagged with the fund id. limit behaves as in Latest.
func (n *News) FundNews(ctx context.Context, f models.Fund, limit int) ([]models.NewsArticle, error) {
	all, err := n.all(ctx)
	if err != nil {
		return nil, err
	}

	keywords := fundKeywords(f)
	matched := []models.NewsArticle{}
	for _, a := range all {
		if matchesAny(a.Title+" "+a.Summary, keywords) {
			a.FundIDs = []string{f.ID}
			matched = append(matched, a)
		}
	}
	return truncate(matched, n.limitOr(limit)), nil
}

func (n *News) limitOr(limit int) int {
	if limit <= 0 {
		return n.limit
	}
	return limit
}

// --- Internal helpers ---

// fetchRSS parses an RSS feed and returns articles.
func (n *News) fetchRSS(ctx context.Context, src config.NewsFeed) ([]models.NewsArticle, error) {
	if err := n.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	feed, err := n.parser.ParseURLWithContext(src.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse RSS %s: %w", src.Name, err)
	}

	articles := make([]models.NewsArticle, 0, len(feed.Items))
	for _, item := range feed.Items {
		a := models.NewsArticle{
			Title:   strings.TrimSpace(item.Title),
			URL:     item.Link,
			Source:  src.Name,
			Summary: cleanHTML(item.Description),
		}
		if item.PublishedParsed != nil {
			a.PublishedAt = *item.PublishedParsed
		}
		articles = append(articles, a)
	}
	return articles, nil
}

// cleanHTML strips HTML tags from a string using goquery.
func cleanHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}

// fundKeywords returns lower-case search terms for a fund.
// For example, "HDFC Top 100 Fund" by "HDFC Mutual Fund" gives
// ["hdfc top 100 fund", "hdfc mutual fund", "hdfc"].
func fundKeywords(f models.Fund) []string {
	keywords := []string{strings.ToLower(f.SchemeName)}
	amc := strings.ToLower(strings.TrimSpace(f.AMC))
	if amc == "" {
		return keywords
	}
	keywords = append(keywords, amc)
	short := strings.TrimSpace(strings.TrimSuffix(amc, "mutual fund"))
	if short != amc && len(short) >= 3 {
		keywords = append(keywords, short)
	}
	return keywords
}

// matchesAny checks if text contains any of the keywords (case-insensitive).
func matchesAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// sortArticlesByDate sorts articles by published date, newest first.
func sortArticlesByDate(articles []models.NewsArticle) {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].PublishedAt.After(articles[j].PublishedAt)
	})
}

func truncate(articles []models.NewsArticle, limit int) []models.NewsArticle {
	if limit > 0 && len(articles) > limit {
		return articles[:limit]
	}
	return articles
}
