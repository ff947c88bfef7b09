package marketdata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

// Go HTTP testing: httptest.NewServer spins up a real listener on a random
// port. Pointing the client's base URL at it exercises the full request
// path — query encoding, status handling, body parsing — without touching
// the real AlphaVantage API.

const intradayBody = `{
	"Meta Data": {
		"1. Information": "Intraday (1min) open, high, low, close prices and volume",
		"2. Symbol": "AAPL",
		"3. Last Refreshed": "2024-01-01 09:31:00"
	},
	"Time Series (1min)": {
		"2024-01-01 09:31:00": {"1. open": "150.25", "4. close": "150.30"},
		"2024-01-01 09:30:00": {"1. open": "150.10", "4. close": "150.20"}
	}
}`

const dailyBody = `{
	"Meta Data": {
		"1. Information": "Daily Prices (open, high, low, close) and Volumes",
		"2. Symbol": "AAPL",
		"3. Last Refreshed": "2024-01-01"
	},
	"Time Series (Daily)": {
		"2024-01-01": {"1. open": "148.00", "4. close": "149.10"},
		"2023-12-29": {"1. open": "147.00", "4. close": "147.90"}
	}
}`

// AlphaVantage answers 200 with an informational note instead of data when
// it doesn't like a request — the client must treat that as missing fields.
const noteBody = `{"Note": "Thank you for using Alpha Vantage!"}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-key", nil, zap.NewNop())
}

func TestGetPrice_IntradaySuccess(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("function"); got != "TIME_SERIES_INTRADAY" {
			t.Errorf("unexpected function %q — intraday success must not fall through", got)
		}
		if got := r.URL.Query().Get("interval"); got != "1min" {
			t.Errorf("expected interval 1min, got %q", got)
		}
		w.Write([]byte(intradayBody))
	})

	got := c.GetPrice(context.Background(), "aapl")
	want := "The current real-time stock price for AAPL is $150.25 (last refreshed: 2024-01-01 09:31:00)."
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestGetPrice_FallsBackToDaily(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("function") {
		case "TIME_SERIES_INTRADAY":
			w.Write([]byte(noteBody))
		case "TIME_SERIES_DAILY":
			w.Write([]byte(dailyBody))
		default:
			t.Errorf("unexpected function %q", r.URL.Query().Get("function"))
		}
	})

	got := c.GetPrice(context.Background(), "AAPL")
	want := "Real-time price data is unavailable. The most recent daily stock price for AAPL is $148.00 (date: 2024-01-01)."
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestGetPrice_IntradayHTTPFailureFallsBack(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("function") == "TIME_SERIES_INTRADAY" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(dailyBody))
	})

	got := c.GetPrice(context.Background(), "AAPL")
	if got != "Real-time price data is unavailable. The most recent daily stock price for AAPL is $148.00 (date: 2024-01-01)." {
		t.Errorf("expected daily fallback sentence, got %q", got)
	}
}

func TestGetPrice_DailyMissingFields(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(noteBody))
	})

	got := c.GetPrice(context.Background(), "NOPE")
	want := "Could not retrieve daily stock price. Please check the ticker symbol and try again."
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestGetPrice_DailyHTTPFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	got := c.GetPrice(context.Background(), "AAPL")
	if got != MsgFetchFailed {
		t.Errorf("got %q\nwant %q", got, MsgFetchFailed)
	}
}

func TestSearchSymbol_PrefersUSUSD(t *testing.T) {
	// The US/USD candidate is deliberately second — the selection rule must
	// pick it over the earlier Frankfurt listing.
	body := `{"bestMatches": [
		{"1. symbol": "APC.FRK", "2. name": "Apple Inc", "4. region": "Frankfurt", "8. currency": "EUR"},
		{"1. symbol": "AAPL", "2. name": "Apple Inc", "4. region": "United States", "8. currency": "USD"},
		{"1. symbol": "AAPL.TRT", "2. name": "Apple CDR", "4. region": "Toronto", "8. currency": "CAD"}
	]}`

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("function"); got != "SYMBOL_SEARCH" {
			t.Errorf("expected SYMBOL_SEARCH, got %q", got)
		}
		if got := r.URL.Query().Get("keywords"); got != "apple inc" {
			t.Errorf("expected keywords 'apple inc', got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	})

	match, err := c.SearchSymbol(context.Background(), "apple inc")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if match.Symbol != "AAPL" {
		t.Errorf("expected AAPL, got %s", match.Symbol)
	}
	if match.Name != "Apple Inc" {
		t.Errorf("expected Apple Inc, got %s", match.Name)
	}
}

func TestSearchSymbol_FallsBackToFirstMatch(t *testing.T) {
	body := `{"bestMatches": [
		{"1. symbol": "SAP.DEX", "2. name": "SAP SE", "4. region": "XETRA", "8. currency": "EUR"},
		{"1. symbol": "SAP.FRK", "2. name": "SAP SE", "4. region": "Frankfurt", "8. currency": "EUR"}
	]}`

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	})

	match, err := c.SearchSymbol(context.Background(), "sap")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if match.Symbol != "SAP.DEX" {
		t.Errorf("expected first candidate SAP.DEX, got %s", match.Symbol)
	}
}

func TestSearchSymbol_NoMatches(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"bestMatches": []}`))
	})

	_, err := c.SearchSymbol(context.Background(), "no such company")
	if !errors.Is(err, ErrNoMatches) {
		t.Errorf("expected ErrNoMatches, got %v", err)
	}
}

func TestSearchSymbol_HTTPFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.SearchSymbol(context.Background(), "apple")
	if !errors.Is(err, ErrRequestFailed) {
		t.Errorf("expected ErrRequestFailed, got %v", err)
	}
}
