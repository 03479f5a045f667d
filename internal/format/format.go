package format

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"cryptostatus/internal/domain"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Display labels and region hashtags that differ from the currency code.
var (
	currencyLabels = map[string]string{"VES": "BS", "VEF": "BS"}
	regionTags     = map[string]string{"VES": "#VEN", "VEF": "#VEN"}
)

type Formatter struct {
	allowed   map[string]bool
	local     string
	secondary string
}

func New(allowedSymbols []string, localCurrency, secondaryCurrency string) *Formatter {
	allowed := make(map[string]bool, len(allowedSymbols))
	for _, s := range allowedSymbols {
		allowed[strings.ToUpper(s)] = true
	}
	return &Formatter{
		allowed:   allowed,
		local:     strings.ToUpper(localCurrency),
		secondary: strings.ToUpper(secondaryCurrency),
	}
}

type asset struct {
	rank     int
	symbol   string
	name     string
	priceUSD string
	priceBTC string
	change1h string
}

func (a asset) line() string {
	return fmt.Sprintf("#%s %s USD | %s%% ", a.symbol, a.priceUSD, a.change1h)
}

// Format turns records into the plain and decorated line sequences: allowed
// assets in rank order, then the conversion lines. It returns no lines at all
// when any record or conversion input is unusable.
func (f *Formatter) Format(records []domain.AssetRecord, in domain.ConversionInputs) (domain.Lines, error) {
	assets := make([]asset, 0, len(records))
	for _, rec := range records {
		if missing := rec.MissingFields(); len(missing) > 0 {
			return domain.Lines{}, fmt.Errorf("%w: record %q missing %v", domain.ErrFormat, rec.Symbol, missing)
		}
		if !f.allowed[strings.ToUpper(rec.Symbol)] {
			continue
		}
		a, err := newAsset(rec)
		if err != nil {
			return domain.Lines{}, err
		}
		log.Debug().
			Int("rank", a.rank).
			Str("symbol", a.symbol).
			Str("name", a.name).
			Str("price_usd", a.priceUSD).
			Str("price_btc", a.priceBTC).
			Msg("asset formatted")
		assets = append(assets, a)
	}
	sort.SliceStable(assets, func(i, j int) bool { return assets[i].rank < assets[j].rank })

	plainConv, decoratedConv, err := f.conversionLines(in)
	if err != nil {
		return domain.Lines{}, err
	}

	lines := domain.Lines{
		Plain:     make([]string, 0, len(assets)+len(plainConv)),
		Decorated: make([]string, 0, len(assets)+len(decoratedConv)),
	}
	for _, a := range assets {
		lines.Plain = append(lines.Plain, a.line())
		lines.Decorated = append(lines.Decorated, a.line())
	}
	lines.Plain = append(lines.Plain, plainConv...)
	lines.Decorated = append(lines.Decorated, decoratedConv...)
	return lines, nil
}

func newAsset(rec domain.AssetRecord) (asset, error) {
	rank, err := strconv.Atoi(strings.TrimSpace(rec.Rank))
	if err != nil {
		return asset{}, fmt.Errorf("%w: %s rank %q: %w", domain.ErrFormat, rec.Symbol, rec.Rank, err)
	}
	usd, err := decimal.NewFromString(rec.PriceUSD)
	if err != nil {
		return asset{}, fmt.Errorf("%w: %s price_usd %q: %w", domain.ErrFormat, rec.Symbol, rec.PriceUSD, err)
	}
	btc, err := decimal.NewFromString(rec.PriceBTC)
	if err != nil {
		return asset{}, fmt.Errorf("%w: %s price_btc %q: %w", domain.ErrFormat, rec.Symbol, rec.PriceBTC, err)
	}
	return asset{
		rank:     rank,
		symbol:   rec.Symbol,
		name:     CamelCase(rec.Name),
		priceUSD: TrimTrailingZeros(usd.StringFixed(2)),
		priceBTC: TrimTrailingZeros(btc.StringFixed(6)),
		change1h: rec.PercentChange1h,
	}, nil
}

// conversionLines renders, in order: BTC in the secondary currency, in USD, in
// EUR, in the local currency (whole units), and the local-per-USD rate
// local / ((usd + secondary) / 2).
func (f *Formatter) conversionLines(in domain.ConversionInputs) (plain, decorated []string, err error) {
	if missing := in.Missing(); len(missing) > 0 {
		return nil, nil, fmt.Errorf("%w: %w: %s", domain.ErrFormat, domain.ErrMissingConversion, strings.Join(missing, ", "))
	}

	denom := in.USD.Add(*in.Secondary).Div(decimal.NewFromInt(2))
	if denom.IsZero() {
		return nil, nil, fmt.Errorf("%w: usd and %s averages sum to zero", domain.ErrFormat, f.secondary)
	}
	rate := in.Local.Div(denom).StringFixed(0)

	priced := []struct {
		code  string
		value string
	}{
		{f.secondary, TrimTrailingZeros(in.Secondary.StringFixed(2))},
		{"USD", TrimTrailingZeros(in.USD.StringFixed(2))},
		{"EUR", TrimTrailingZeros(in.EUR.StringFixed(2))},
		{f.local, in.Local.StringFixed(0)},
	}
	for _, p := range priced {
		label := labelOf(p.code)
		plain = append(plain, fmt.Sprintf("#%s BTC %s %s ", p.code, p.value, label))
		decorated = append(decorated, fmt.Sprintf("#%s %s BTC %s %s ", p.code, flag(p.code), p.value, label))
	}

	rateLine := fmt.Sprintf("#%sUSD %s %s  %s", f.local, rate, labelOf(f.local), regionTag(f.local))
	plain = append(plain, rateLine)
	decorated = append(decorated, rateLine)
	return plain, decorated, nil
}

func labelOf(code string) string {
	if l, ok := currencyLabels[code]; ok {
		return l
	}
	return code
}

func regionTag(code string) string {
	if t, ok := regionTags[code]; ok {
		return t
	}
	if len(code) >= 2 {
		return "#" + code[:2]
	}
	return ""
}
