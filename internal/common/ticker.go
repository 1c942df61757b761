package common

import (
	"strings"
)

// Ticker represents a parsed exchange-qualified ticker.
// Format: EXCHANGE:CODE (e.g., "ASX:GNP", "NYSE:AAPL")
type Ticker struct {
	Exchange string
	Code     string
	Raw      string
}

// KnownExchanges lists exchange prefixes accepted in the EXCHANGE.CODE form.
var KnownExchanges = map[string]bool{
	"ASX":    true,
	"NYSE":   true,
	"NASDAQ": true,
	"AMEX":   true,
	"LSE":    true,
	"TSX":    true,
	"XETRA":  true,
	"INDX":   true,
}

// ParseTicker parses a ticker string, applying defaultExchange to bare codes.
// Supports formats:
//   - "ASX:GNP" -> Exchange="ASX", Code="GNP"
//   - "ASX.GNP" -> Exchange="ASX", Code="GNP" (known exchanges only)
//   - "gnp"     -> Exchange=defaultExchange, Code="GNP"
//
// "BRK.B" stays a bare code because "BRK" is not an exchange.
func ParseTicker(ticker, defaultExchange string) Ticker {
	ticker = strings.TrimSpace(ticker)
	if ticker == "" {
		return Ticker{}
	}

	if idx := strings.Index(ticker, ":"); idx > 0 {
		return Ticker{
			Exchange: strings.ToUpper(ticker[:idx]),
			Code:     strings.ToUpper(ticker[idx+1:]),
			Raw:      ticker,
		}
	}

	if idx := strings.Index(ticker, "."); idx > 0 {
		if exchange := strings.ToUpper(ticker[:idx]); KnownExchanges[exchange] {
			return Ticker{
				Exchange: exchange,
				Code:     strings.ToUpper(ticker[idx+1:]),
				Raw:      ticker,
			}
		}
	}

	return Ticker{
		Exchange: strings.ToUpper(defaultExchange),
		Code:     strings.ToUpper(ticker),
		Raw:      ticker,
	}
}

// String returns the full exchange-qualified ticker string.
func (t Ticker) String() string {
	if t.Exchange == "" || t.Code == "" {
		return t.Code
	}
	return t.Exchange + ":" + t.Code
}

// ParseTickers parses a list of ticker strings, dropping empties.
func ParseTickers(tickers []string, defaultExchange string) []Ticker {
	result := make([]Ticker, 0, len(tickers))
	for _, t := range tickers {
		if parsed := ParseTicker(t, defaultExchange); parsed.Code != "" {
			result = append(result, parsed)
		}
	}
	return result
}
