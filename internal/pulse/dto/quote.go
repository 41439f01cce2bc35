package dto

// InstrumentType classifies a market symbol for provider-specific handling.
type InstrumentType string

const (
	InstrumentIndex     InstrumentType = "index"
	InstrumentForex     InstrumentType = "forex"
	InstrumentCommodity InstrumentType = "commodity"
	InstrumentBond      InstrumentType = "bond"
)

// QuoteRole names the driver a symbol feeds in the decision synthesizer.
type QuoteRole string

const (
	RoleEquity     QuoteRole = "equity"
	RoleGrowth     QuoteRole = "growth"
	RoleVolatility QuoteRole = "volatility"
	RoleRate       QuoteRole = "rate"
	RoleCommodity  QuoteRole = "commodity"
	RoleFX         QuoteRole = "fx"
	RoleNone       QuoteRole = "none"
)

// SymbolSpec describes one instrument to resolve on every pulse fetch.
type SymbolSpec struct {
	Label  string         `mapstructure:"label" json:"label"`
	Symbol string         `mapstructure:"symbol" json:"symbol"`
	Type   InstrumentType `mapstructure:"type" json:"type"`
	Role   QuoteRole      `mapstructure:"role" json:"role"`
}

// Quote is the last value and percent change of one instrument. Value and
// PctChange are either both set or both nil.
type Quote struct {
	Label     string   `json:"label"`
	Value     *float64 `json:"value"`
	PctChange *float64 `json:"pct"`
}

// NewQuote builds a resolved quote.
func NewQuote(label string, value, pct float64) Quote {
	return Quote{Label: label, Value: &value, PctChange: &pct}
}

// EmptyQuote builds the placeholder for a symbol whose providers all failed.
func EmptyQuote(label string) Quote {
	return Quote{Label: label}
}

// Available reports whether the quote carries data.
func (q Quote) Available() bool {
	return q.Value != nil && q.PctChange != nil
}

// MarketSnapshot is an ordered sequence of quotes, one per requested symbol.
type MarketSnapshot []Quote
