package models

// Bar is one daily session as the provider reports it. Values stay as the
// provider's strings; the resolver is responsible for parsing the close.
type Bar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

// TimeSeries maps ISO dates (YYYY-MM-DD) to daily bars. Weekends and
// holidays are simply absent.
type TimeSeries map[string]Bar

type ErrorKind string

const (
	ErrAPILimitOrError ErrorKind = "API_LIMIT_OR_ERROR"
	ErrNoSeries        ErrorKind = "NO_SERIES"
	ErrOutOfRange      ErrorKind = "OUT_OF_RANGE"
	ErrInvalidPrice    ErrorKind = "INVALID_PRICE"
	ErrNoMatch         ErrorKind = "NO_MATCH"
)

// UnsupportedTickerReason is shown when a ticker has no canonical form and
// the price lookup was skipped.
const UnsupportedTickerReason = "Unavailable: unsupported ticker"

var errorReasons = map[ErrorKind]string{
	ErrAPILimitOrError: "Unavailable: price API limit reached or provider error",
	ErrNoSeries:        "Unavailable: no price history for this ticker",
	ErrOutOfRange:      "Unavailable: article date outside available price history",
	ErrInvalidPrice:    "Unavailable: provider returned an invalid close price",
	ErrNoMatch:         "Unavailable: no trading day found on or before article date",
}

// Reason returns the fixed display text for an error kind.
func (k ErrorKind) Reason() string {
	if r, ok := errorReasons[k]; ok {
		return r
	}
	return "Unavailable: unknown price error"
}

// PriceLookupResult is either a resolved trading day with its close, or an
// error kind. Values are never mutated once produced.
type PriceLookupResult struct {
	Date  string    `json:"date,omitempty"`
	Close float64   `json:"close,omitempty"`
	Error ErrorKind `json:"error,omitempty"`
}

func (r PriceLookupResult) OK() bool {
	return r.Error == ""
}

func Resolved(date string, close float64) PriceLookupResult {
	return PriceLookupResult{Date: date, Close: close}
}

func Failed(kind ErrorKind) PriceLookupResult {
	return PriceLookupResult{Error: kind}
}

// PriceInfo is the price section of an annotated prediction.
type PriceInfo struct {
	RequestedDate string  `json:"requestedDate"`
	TradingDay    string  `json:"tradingDay"`
	Close         float64 `json:"close"`
}
