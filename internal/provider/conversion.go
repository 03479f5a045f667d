package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"cryptostatus/internal/domain"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace"
)

// averageWindows are tried in order; the shortest window present wins.
var averageWindows = []string{"avg_1h", "avg_6h", "avg_12h", "avg_24h"}

// ConversionFeed reads BTC averages per currency from a bitcoinaverage-style
// ticker ({"USD": {"avg_1h": ...}, "EUR": {...}}).
type ConversionFeed struct {
	client    *http.Client
	url       string
	local     string
	secondary string
	tracer    trace.Tracer
}

func NewConversionFeed(tracer trace.Tracer, url, localCurrency, secondaryCurrency string) *ConversionFeed {
	return &ConversionFeed{
		client:    http.DefaultClient,
		url:       url,
		local:     strings.ToUpper(localCurrency),
		secondary: strings.ToUpper(secondaryCurrency),
		tracer:    tracer,
	}
}

// FetchInputs never fails on absent currencies: they are left nil and the
// formatter decides. Transport and decode failures are returned.
func (f *ConversionFeed) FetchInputs(ctx context.Context) (domain.ConversionInputs, error) {
	ctx, span := f.tracer.Start(ctx, "conversion.fetch-inputs")
	defer span.End()

	body, err := getJSON(ctx, f.client, f.url, "conversion")
	if err != nil {
		return domain.ConversionInputs{}, fmt.Errorf("fetch conversion averages: %w", err)
	}

	var raw map[string]map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return domain.ConversionInputs{}, fmt.Errorf("parse conversion averages: %w", err)
	}

	return domain.ConversionInputs{
		USD:       average(raw, "USD"),
		EUR:       average(raw, "EUR"),
		Local:     average(raw, f.local),
		Secondary: average(raw, f.secondary),
	}, nil
}

func average(raw map[string]map[string]json.RawMessage, currency string) *decimal.Decimal {
	fields, ok := raw[currency]
	if !ok {
		return nil
	}
	for _, key := range averageWindows {
		msg, ok := fields[key]
		if !ok {
			continue
		}
		var s flexString
		if err := json.Unmarshal(msg, &s); err != nil || s == "" {
			continue
		}
		d, err := decimal.NewFromString(string(s))
		if err != nil {
			log.Warn().Str("currency", currency).Str("field", key).Str("value", string(s)).Msg("unparseable average")
			continue
		}
		return &d
	}
	return nil
}
