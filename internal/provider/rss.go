package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cryptostatus/internal/domain"

	"github.com/mmcdole/gofeed"
	"go.opentelemetry.io/otel/trace"
)

// RSSProvider serves caption flavor text from a single RSS/Atom feed. It is
// used instead of NewsAPI when NEWS_RSS_URL is configured.
type RSSProvider struct {
	client   *http.Client
	parser   *gofeed.Parser
	feedURL  string
	query    string
	maxItems int
	tracer   trace.Tracer
}

func NewRSSProvider(tracer trace.Tracer, feedURL, query string) *RSSProvider {
	return &RSSProvider{
		client:   &http.Client{Timeout: 20 * time.Second},
		parser:   gofeed.NewParser(),
		feedURL:  strings.TrimSpace(feedURL),
		query:    strings.ToLower(strings.TrimSpace(query)),
		maxItems: 40,
		tracer:   tracer,
	}
}

// Articles returns the feed items. In NewsEverything mode only items that
// mention the query keyword are kept.
func (p *RSSProvider) Articles(ctx context.Context, mode domain.NewsMode) ([]domain.Article, error) {
	ctx, span := p.tracer.Start(ctx, "rss.articles")
	defer span.End()

	if p.feedURL == "" {
		return nil, fmt.Errorf("feed url is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.feedURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("rss fetch error %d: %s", resp.StatusCode, string(body))
	}

	feed, err := p.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}

	source := sanitizeText(feed.Title, 120)
	articles := make([]domain.Article, 0, min(p.maxItems, len(feed.Items)))
	for i, item := range feed.Items {
		if i >= p.maxItems {
			break
		}
		title := sanitizeText(item.Title, 300)
		if title == "" {
			continue
		}
		desc := sanitizeText(htmlStrip(item.Description), 420)
		if mode == domain.NewsEverything && p.query != "" &&
			!strings.Contains(strings.ToLower(title+" "+desc), p.query) {
			continue
		}
		articles = append(articles, domain.Article{
			Title:       title,
			Description: desc,
			SourceName:  source,
		})
	}

	return articles, nil
}

func htmlStrip(in string) string {
	if strings.TrimSpace(in) == "" {
		return ""
	}
	var b strings.Builder
	inside := false
	for _, r := range in {
		switch r {
		case '<':
			inside = true
			continue
		case '>':
			inside = false
			continue
		}
		if !inside {
			b.WriteRune(r)
		}
	}
	return b.String()
}
