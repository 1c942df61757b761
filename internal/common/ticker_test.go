package common

import (
	"testing"
)

func TestParseTicker(t *testing.T) {
	tests := []struct {
		input        string
		wantExchange string
		wantCode     string
		wantString   string
	}{
		// Exchange-qualified format with colon separator
		{"ASX:GNP", "ASX", "GNP", "ASX:GNP"},
		{"NYSE:AAPL", "NYSE", "AAPL", "NYSE:AAPL"},

		// Exchange-qualified format with dot separator (EXCHANGE.CODE)
		{"NASDAQ.MSFT", "NASDAQ", "MSFT", "NASDAQ:MSFT"},

		// Share classes are not exchanges
		{"BRK.B", "NYSE", "BRK.B", "NYSE:BRK.B"},

		// Bare code takes the default
		{"aapl", "NYSE", "AAPL", "NYSE:AAPL"},

		// Whitespace handling
		{"  ASX:GNP  ", "ASX", "GNP", "ASX:GNP"},

		// Empty input
		{"", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ParseTicker(tt.input, "nyse")

			if result.Exchange != tt.wantExchange {
				t.Errorf("Exchange = %q, want %q", result.Exchange, tt.wantExchange)
			}
			if result.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", result.Code, tt.wantCode)
			}
			if result.String() != tt.wantString {
				t.Errorf("String() = %q, want %q", result.String(), tt.wantString)
			}
		})
	}
}

func TestParseTicker_NoDefaultExchange(t *testing.T) {
	result := ParseTicker("msft", "")
	if result.String() != "MSFT" {
		t.Errorf("String() = %q, want %q", result.String(), "MSFT")
	}
}

func TestParseTickers(t *testing.T) {
	input := []string{"ASX:GNP", "NYSE:AAPL", "MSFT", "  ", ""}
	result := ParseTickers(input, "NASDAQ")

	if len(result) != 3 {
		t.Fatalf("ParseTickers returned %d tickers, want 3", len(result))
	}

	expected := []string{"ASX:GNP", "NYSE:AAPL", "NASDAQ:MSFT"}
	for i, ticker := range result {
		if ticker.String() != expected[i] {
			t.Errorf("result[%d] = %q, want %q", i, ticker.String(), expected[i])
		}
	}
}
