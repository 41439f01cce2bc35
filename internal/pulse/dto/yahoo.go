package dto

// YahooChartResponse is the subset of the Yahoo chart API payload the quote
// resolver consumes. Close entries may be null for non-trading points.
type YahooChartResponse struct {
	Chart YahooChart `json:"chart"`
}

type YahooChart struct {
	Result []YahooChartResult `json:"result"`
	Error  *YahooChartError   `json:"error"`
}

type YahooChartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type YahooChartResult struct {
	Indicators YahooIndicators `json:"indicators"`
}

type YahooIndicators struct {
	Quote []YahooQuoteSeries `json:"quote"`
}

type YahooQuoteSeries struct {
	Close []*float64 `json:"close"`
}
