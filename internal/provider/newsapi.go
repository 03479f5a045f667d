package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"cryptostatus/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// NewsAPIProvider queries newsapi.org for caption flavor text.
type NewsAPIProvider struct {
	client   *http.Client
	baseURL  string
	apiKey   string
	country  string
	category string
	query    string
	tracer   trace.Tracer
}

func NewNewsAPIProvider(tracer trace.Tracer, baseURL, apiKey, country, category, query string) *NewsAPIProvider {
	return &NewsAPIProvider{
		client:   http.DefaultClient,
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		country:  country,
		category: category,
		query:    query,
		tracer:   tracer,
	}
}

// Articles runs top-headlines (country + category) or everything (keyword,
// newest first) depending on mode.
func (p *NewsAPIProvider) Articles(ctx context.Context, mode domain.NewsMode) ([]domain.Article, error) {
	ctx, span := p.tracer.Start(ctx, "newsapi.articles", trace.WithAttributes(attribute.String("mode", mode.String())))
	defer span.End()

	params := url.Values{}
	path := "/v2/top-headlines"
	if mode == domain.NewsEverything {
		path = "/v2/everything"
		params.Set("q", p.query)
		params.Set("sortBy", "publishedAt")
	} else {
		params.Set("country", p.country)
		params.Set("category", p.category)
	}
	params.Set("apiKey", p.apiKey)

	body, err := getJSON(ctx, p.client, p.baseURL+path+"?"+params.Encode(), "newsapi")
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", mode, err)
	}

	var raw struct {
		Status   string `json:"status"`
		Code     string `json:"code"`
		Message  string `json:"message"`
		Articles []struct {
			Source struct {
				Name string `json:"name"`
			} `json:"source"`
			Title       string `json:"title"`
			Description string `json:"description"`
		} `json:"articles"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", mode, err)
	}
	if raw.Status != "ok" {
		return nil, fmt.Errorf("newsapi %s: %s %s", mode, raw.Code, raw.Message)
	}

	articles := make([]domain.Article, 0, len(raw.Articles))
	for _, a := range raw.Articles {
		title := sanitizeText(a.Title, 300)
		if title == "" {
			continue
		}
		articles = append(articles, domain.Article{
			Title:       title,
			Description: sanitizeText(a.Description, 420),
			SourceName:  sanitizeText(a.Source.Name, 120),
		})
	}
	return articles, nil
}

func sanitizeText(in string, maxLen int) string {
	in = strings.TrimSpace(in)
	if in == "" {
		return ""
	}
	in = strings.Join(strings.Fields(in), " ")
	if maxLen > 0 && len(in) > maxLen {
		in = strings.ToValidUTF8(in[:maxLen], "")
	}
	return in
}
