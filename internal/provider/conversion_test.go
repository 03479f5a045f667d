package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestConversionFeedFetchInputs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"USD": {"avg_1h": "6500.50", "avg_24h": "6400"},
			"EUR": {"avg_6h": 5600.25},
			"VES": {"avg_1h": null, "avg_12h": "1000000"},
			"PAB": {"avg_1h": "6600"},
			"ARS": {"avg_1h": "1"}
		}`))
	}))
	defer srv.Close()

	feed := NewConversionFeed(noop.NewTracerProvider().Tracer("test"), srv.URL, "ves", "pab")
	in, err := feed.FetchInputs(context.Background())
	require.NoError(t, err)
	require.Empty(t, in.Missing())

	assert.Equal(t, "6500.5", in.USD.String())
	assert.Equal(t, "5600.25", in.EUR.String())
	assert.Equal(t, "1000000", in.Local.String())
	assert.Equal(t, "6600", in.Secondary.String())
}

func TestConversionFeedLeavesAbsentCurrenciesNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"USD": {"avg_1h": "1"}, "EUR": {"avg_1h": "abc"}}`))
	}))
	defer srv.Close()

	feed := NewConversionFeed(noop.NewTracerProvider().Tracer("test"), srv.URL, "VES", "PAB")
	in, err := feed.FetchInputs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"eur", "local", "secondary"}, in.Missing())
}

func TestConversionFeedServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	feed := NewConversionFeed(noop.NewTracerProvider().Tracer("test"), srv.URL, "VES", "PAB")
	_, err := feed.FetchInputs(context.Background())
	assert.Error(t, err)
}
