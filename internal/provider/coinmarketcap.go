package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"cryptostatus/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

// CoinMarketCapProvider reads the v1 ticker listing.
type CoinMarketCapProvider struct {
	client   *http.Client
	baseURL  string
	endpoint string
	limit    int
	tracer   trace.Tracer
}

func NewCoinMarketCapProvider(tracer trace.Tracer, baseURL, endpoint string, limit int) *CoinMarketCapProvider {
	return &CoinMarketCapProvider{
		client:   http.DefaultClient,
		baseURL:  baseURL,
		endpoint: endpoint,
		limit:    limit,
		tracer:   tracer,
	}
}

// FetchAssets issues a single ticker request. Any record missing a field fails
// the whole call.
func (p *CoinMarketCapProvider) FetchAssets(ctx context.Context) ([]domain.AssetRecord, error) {
	ctx, span := p.tracer.Start(ctx, "coinmarketcap.fetch-assets")
	defer span.End()

	reqURL, err := url.Parse(p.baseURL + p.endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid ticker url: %w", domain.ErrFetch, err)
	}
	q := reqURL.Query()
	q.Set("limit", strconv.Itoa(p.limit))
	reqURL.RawQuery = q.Encode()

	body, err := getJSON(ctx, p.client, reqURL.String(), "coinmarketcap")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetch, err)
	}

	var raw []struct {
		Rank            flexString `json:"rank"`
		Symbol          flexString `json:"symbol"`
		Name            flexString `json:"name"`
		PriceUSD        flexString `json:"price_usd"`
		PriceBTC        flexString `json:"price_btc"`
		PercentChange1h flexString `json:"percent_change_1h"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: parse ticker: %w", domain.ErrFetch, err)
	}

	records := make([]domain.AssetRecord, 0, len(raw))
	for i, row := range raw {
		rec := domain.AssetRecord{
			Rank:            string(row.Rank),
			Symbol:          string(row.Symbol),
			Name:            string(row.Name),
			PriceUSD:        string(row.PriceUSD),
			PriceBTC:        string(row.PriceBTC),
			PercentChange1h: string(row.PercentChange1h),
		}
		if missing := rec.MissingFields(); len(missing) > 0 {
			return nil, fmt.Errorf("%w: record %d (%q) missing %v", domain.ErrFetch, i, rec.Symbol, missing)
		}
		records = append(records, rec)
	}

	return records, nil
}

func getJSON(ctx context.Context, client *http.Client, url, name string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%s API error %d: %s", name, resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}

// flexString accepts a JSON string or number and keeps its literal text.
// null decodes to the empty string.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", string(data))
	}
	*f = flexString(n.String())
	return nil
}
