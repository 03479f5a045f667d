package domain

import (
	"github.com/shopspring/decimal"
)

// AssetRecord is one ticker entry as returned by the price API. All values are
// kept as the API sent them; formatting happens later.
type AssetRecord struct {
	Rank            string `json:"rank"`
	Symbol          string `json:"symbol"`
	Name            string `json:"name"`
	PriceUSD        string `json:"price_usd"`
	PriceBTC        string `json:"price_btc"`
	PercentChange1h string `json:"percent_change_1h"`
}

// MissingFields returns the JSON names of every empty field.
func (r AssetRecord) MissingFields() []string {
	var missing []string
	check := func(name, v string) {
		if v == "" {
			missing = append(missing, name)
		}
	}
	check("rank", r.Rank)
	check("symbol", r.Symbol)
	check("name", r.Name)
	check("price_usd", r.PriceUSD)
	check("price_btc", r.PriceBTC)
	check("percent_change_1h", r.PercentChange1h)
	return missing
}

// ConversionInputs are BTC market averages per currency. A nil field means the
// feed did not provide it.
type ConversionInputs struct {
	USD       *decimal.Decimal
	EUR       *decimal.Decimal
	Local     *decimal.Decimal
	Secondary *decimal.Decimal
}

// Missing returns the names of absent inputs.
func (c ConversionInputs) Missing() []string {
	var missing []string
	if c.USD == nil {
		missing = append(missing, "usd")
	}
	if c.EUR == nil {
		missing = append(missing, "eur")
	}
	if c.Local == nil {
		missing = append(missing, "local")
	}
	if c.Secondary == nil {
		missing = append(missing, "secondary")
	}
	return missing
}

// Lines holds the two parallel display sequences. Decorated lines carry flag
// emoji and are only drawn on the image; plain lines go into the text post.
type Lines struct {
	Plain     []string
	Decorated []string
}

// PostBundle is everything one run publishes.
type PostBundle struct {
	PlainBody     string
	DecoratedBody string
	// Thread holds one plain body per post; Thread[0] == PlainBody.
	Thread  []string
	Image   []byte
	Caption string
}

// PublishResult is the outcome of posting a thread: either ID is set, or
// Orphaned lists the posts that went out before the failure.
type PublishResult struct {
	ID       string
	Orphaned []string
}

func (r PublishResult) OK() bool {
	return r.ID != ""
}

// Article is a news item used as caption flavor text.
type Article struct {
	Title       string
	Description string
	SourceName  string
}

// NewsMode selects which news query feeds the caption.
type NewsMode int

const (
	NewsTopHeadlines NewsMode = iota
	NewsEverything
)

func (m NewsMode) String() string {
	if m == NewsEverything {
		return "everything"
	}
	return "top-headlines"
}
