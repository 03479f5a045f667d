package format

import (
	"errors"
	"testing"

	"cryptostatus/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func inputs() domain.ConversionInputs {
	return domain.ConversionInputs{USD: dec("1"), EUR: dec("1"), Local: dec("1000000"), Secondary: dec("1")}
}

func records() []domain.AssetRecord {
	return []domain.AssetRecord{
		{Rank: "1", Symbol: "BTC", Name: "Bitcoin", PriceUSD: "6543.2100", PriceBTC: "1.0", PercentChange1h: "0.12"},
		{Rank: "2", Symbol: "ETH", Name: "Ethereum", PriceUSD: "210.5", PriceBTC: "0.0321", PercentChange1h: "-1.5"},
		{Rank: "3", Symbol: "XRP", Name: "Ripple", PriceUSD: "0.45", PriceBTC: "0.00007", PercentChange1h: "2"},
		{Rank: "14", Symbol: "DASH", Name: "Dash", PriceUSD: "100", PriceBTC: "0.015", PercentChange1h: "0"},
	}
}

func TestCamelCase(t *testing.T) {
	cases := map[string]string{
		"Bitcoin Cash":         "BitcoinCash",
		"  multi   space name": "MultiSpaceName",
		"Bitcoin":              "Bitcoin",
		"bitcoin SV":           "bitcoinSV",
		"tab\tand\nnewline":    "tabAndNewline",
		"0x protocol":          "0xProtocol",
		"ends with space ":     "endsWithSpace",
		"":                     "",
	}
	for in, want := range cases {
		assert.Equal(t, want, CamelCase(in), "CamelCase(%q)", in)
	}
}

func TestTrimTrailingZeros(t *testing.T) {
	cases := map[string]string{
		"6543.200000": "6543.2",
		"100.000000":  "100",
		"0.032100":    "0.0321",
		"0.000000":    "0",
		"12.34":       "12.34",
		"100":         "100",
		"100.":        "100",
		"12.50,":      "12.50",
		"-3.10":       "-3.1",
		"":            "",
	}
	for in, want := range cases {
		assert.Equal(t, want, TrimTrailingZeros(in), "TrimTrailingZeros(%q)", in)
	}
}

func TestFlag(t *testing.T) {
	assert.Equal(t, "🇻🇪", flag("VES"))
	assert.Equal(t, "🇺🇸", flag("USD"))
	assert.Equal(t, "🇪🇺", flag("EUR"))
	assert.Equal(t, "🇵🇦", flag("PAB"))
	assert.Equal(t, "", flag("1X"))
}

func TestFormatFiltersAndOrdersAssets(t *testing.T) {
	f := New([]string{"BTC", "ETH", "DASH"}, "VES", "PAB")

	lines, err := f.Format(records(), inputs())
	require.NoError(t, err)

	require.Len(t, lines.Plain, 8)
	assert.Equal(t, []string{
		"#BTC 6543.21 USD | 0.12% ",
		"#ETH 210.5 USD | -1.5% ",
		"#DASH 100 USD | 0% ",
	}, lines.Plain[:3])
	assert.Equal(t, lines.Plain[:3], lines.Decorated[:3])
	for _, l := range lines.Plain {
		assert.NotContains(t, l, "XRP")
	}
}

func TestFormatSortsByRank(t *testing.T) {
	f := New([]string{"BTC", "ETH"}, "VES", "PAB")
	recs := records()
	recs[0], recs[1] = recs[1], recs[0]

	lines, err := f.Format(recs, inputs())
	require.NoError(t, err)
	assert.Equal(t, "#BTC 6543.21 USD | 0.12% ", lines.Plain[0])
	assert.Equal(t, "#ETH 210.5 USD | -1.5% ", lines.Plain[1])
}

func TestFormatConversionLines(t *testing.T) {
	f := New(nil, "VES", "PAB")

	lines, err := f.Format(nil, inputs())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"#PAB BTC 1 PAB ",
		"#USD BTC 1 USD ",
		"#EUR BTC 1 EUR ",
		"#VES BTC 1000000 BS ",
		"#VESUSD 1000000 BS  #VEN",
	}, lines.Plain)
	assert.Equal(t, []string{
		"#PAB 🇵🇦 BTC 1 PAB ",
		"#USD 🇺🇸 BTC 1 USD ",
		"#EUR 🇪🇺 BTC 1 EUR ",
		"#VES 🇻🇪 BTC 1000000 BS ",
		"#VESUSD 1000000 BS  #VEN",
	}, lines.Decorated)
}

func TestFormatConversionRounding(t *testing.T) {
	f := New(nil, "VES", "PAB")
	in := domain.ConversionInputs{
		USD:       dec("6500.505"),
		EUR:       dec("5600.10"),
		Local:     dec("41234567.5"),
		Secondary: dec("6499.495"),
	}

	lines, err := f.Format(nil, in)
	require.NoError(t, err)
	assert.Equal(t, "#PAB BTC 6499.5 PAB ", lines.Plain[0])
	assert.Equal(t, "#USD BTC 6500.51 USD ", lines.Plain[1])
	assert.Equal(t, "#EUR BTC 5600.1 EUR ", lines.Plain[2])
	assert.Equal(t, "#VES BTC 41234568 BS ", lines.Plain[3])
	// 41234567.5 / 6500 = 6343.7796...
	assert.Equal(t, "#VESUSD 6344 BS  #VEN", lines.Plain[4])
}

func TestFormatMissingConversionInput(t *testing.T) {
	f := New([]string{"BTC", "ETH", "DASH"}, "VES", "PAB")

	for _, drop := range []string{"usd", "eur", "local", "secondary"} {
		t.Run(drop, func(t *testing.T) {
			in := inputs()
			switch drop {
			case "usd":
				in.USD = nil
			case "eur":
				in.EUR = nil
			case "local":
				in.Local = nil
			case "secondary":
				in.Secondary = nil
			}

			lines, err := f.Format(records(), in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrFormat))
			assert.True(t, errors.Is(err, domain.ErrMissingConversion))
			assert.Empty(t, lines.Plain)
			assert.Empty(t, lines.Decorated)
		})
	}
}

func TestFormatRejectsIncompleteRecord(t *testing.T) {
	f := New([]string{"BTC"}, "VES", "PAB")
	recs := records()
	recs[2].PercentChange1h = ""

	lines, err := f.Format(recs, inputs())
	require.ErrorIs(t, err, domain.ErrFormat)
	assert.False(t, errors.Is(err, domain.ErrMissingConversion))
	assert.Empty(t, lines.Plain)
}

func TestFormatRejectsNonNumericPrice(t *testing.T) {
	f := New([]string{"BTC"}, "VES", "PAB")
	recs := records()
	recs[0].PriceUSD = "n/a"

	_, err := f.Format(recs, inputs())
	assert.ErrorIs(t, err, domain.ErrFormat)
}

func TestFormatZeroDenominator(t *testing.T) {
	f := New(nil, "VES", "PAB")
	in := inputs()
	in.USD, in.Secondary = dec("0"), dec("0")

	_, err := f.Format(nil, in)
	assert.ErrorIs(t, err, domain.ErrFormat)
}
