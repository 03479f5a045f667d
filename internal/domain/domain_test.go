package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAssetRecordMissingFields(t *testing.T) {
	full := AssetRecord{Rank: "1", Symbol: "BTC", Name: "Bitcoin", PriceUSD: "1", PriceBTC: "1", PercentChange1h: "0.1"}
	assert.Empty(t, full.MissingFields())

	partial := AssetRecord{Rank: "1", Symbol: "BTC"}
	assert.Equal(t, []string{"name", "price_usd", "price_btc", "percent_change_1h"}, partial.MissingFields())
}

func TestConversionInputsMissing(t *testing.T) {
	one := decimal.NewFromInt(1)
	in := ConversionInputs{USD: &one, Local: &one}
	assert.Equal(t, []string{"eur", "secondary"}, in.Missing())

	in.EUR, in.Secondary = &one, &one
	assert.Empty(t, in.Missing())
}

func TestPublishResultOK(t *testing.T) {
	assert.True(t, PublishResult{ID: "1"}.OK())
	assert.False(t, PublishResult{Orphaned: []string{"1"}}.OK())
	assert.False(t, PublishResult{}.OK())
}
