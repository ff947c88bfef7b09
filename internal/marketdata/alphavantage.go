// Package marketdata wraps the AlphaVantage HTTP API: symbol search plus
// intraday and daily price lookups. Responses are JSON with nested keys like
// "Meta Data" → "3. Last Refreshed" and timestamp-keyed series — gjson gives
// us guarded access to those without panicking on malformed bodies.
package marketdata

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/fleveque/stock-chat/internal/model"
	"github.com/fleveque/stock-chat/internal/storage"
)

// Sentinel errors for symbol search. The conversation layer maps these to
// the exact sentences users see in the transcript.
var (
	ErrNoMatches     = errors.New("no symbol matches")
	ErrRequestFailed = errors.New("alphavantage request failed")
)

// errMissingFields means the response came back 200 but without the expected
// nested keys — AlphaVantage does this for unknown symbols and rate-limit
// notices alike. It drives the intraday → daily fallback.
var errMissingFields = errors.New("expected fields missing from response")

// User-facing sentences. These are part of the product contract — tests
// assert them verbatim, so edit with care.
const (
	// MsgNoMatches and MsgFetchFailed surface verbatim when a company
	// search fails.
	MsgNoMatches   = "No matches found for the company name."
	MsgFetchFailed = "Failed to fetch data from AlphaVantage API."

	msgIntraday     = "The current real-time stock price for %s is $%s (last refreshed: %s)."
	msgDaily        = "Real-time price data is unavailable. The most recent daily stock price for %s is $%s (date: %s)."
	msgDailyMissing = "Could not retrieve daily stock price. Please check the ticker symbol and try again."
)

// Client is the AlphaVantage API client. One endpoint, three query shapes
// selected by the `function` parameter.
type Client struct {
	http     *resty.Client
	apiKey   string
	callRepo storage.CallRepository
	logger   *zap.Logger
}

// NewClient creates an AlphaVantage client. baseURL is the full query
// endpoint (https://www.alphavantage.co/query) — overridable so tests can
// point it at an httptest server. callRepo may be nil to skip call logging.
func NewClient(baseURL, apiKey string, callRepo storage.CallRepository, logger *zap.Logger) *Client {
	http := resty.New()
	http.SetBaseURL(baseURL)
	http.SetTimeout(30 * time.Second)

	return &Client{
		http:     http,
		apiKey:   apiKey,
		callRepo: callRepo,
		logger:   logger,
	}
}

// searchMatch mirrors AlphaVantage's numbered bestMatches keys.
type searchMatch struct {
	Symbol   string `json:"1. symbol"`
	Name     string `json:"2. name"`
	Region   string `json:"4. region"`
	Currency string `json:"8. currency"`
}

type searchResponse struct {
	BestMatches []searchMatch `json:"bestMatches"`
}

// SearchSymbol resolves a company name to a ticker via SYMBOL_SEARCH.
// Selection rule: the first candidate with region "United States" and
// currency "USD" wins; with no such candidate, the first match in the
// server's order is used. Returns ErrNoMatches for an empty candidate
// list and ErrRequestFailed for transport or non-2xx failures.
func (c *Client) SearchSymbol(ctx context.Context, companyName string) (*model.SymbolMatch, error) {
	var parsed searchResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"function": "SYMBOL_SEARCH",
			"keywords": companyName,
			"apikey":   c.apiKey,
		}).
		SetResult(&parsed).
		Get("")

	ok := err == nil && resp.IsSuccess()
	c.recordCall(ctx, companyName, "SYMBOL_SEARCH", ok)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: HTTP %d", ErrRequestFailed, resp.StatusCode())
	}

	if len(parsed.BestMatches) == 0 {
		return nil, ErrNoMatches
	}

	selected := parsed.BestMatches[0]
	for _, m := range parsed.BestMatches {
		if m.Region == "United States" && m.Currency == "USD" {
			selected = m
			break
		}
	}

	return &model.SymbolMatch{
		Symbol:   selected.Symbol,
		Name:     selected.Name,
		Region:   selected.Region,
		Currency: selected.Currency,
	}, nil
}

// GetPrice fetches the latest price for a ticker and always returns a
// human-readable sentence — never an error. The fallback chain is linear:
//
//	intraday (1min, compact) — success is terminal
//	  └─ missing fields or HTTP failure → daily (compact)
//	       ├─ success → "real-time unavailable" sentence
//	       ├─ missing fields → "could not retrieve" sentence
//	       └─ HTTP failure → "failed to fetch" sentence
func (c *Client) GetPrice(ctx context.Context, ticker string) string {
	quote, err := c.intradayQuote(ctx, ticker)
	if err == nil {
		return fmt.Sprintf(msgIntraday, strings.ToUpper(quote.Symbol), quote.Price, quote.Timestamp)
	}

	quote, err = c.dailyQuote(ctx, ticker)
	if err != nil {
		if errors.Is(err, errMissingFields) {
			return msgDailyMissing
		}
		return MsgFetchFailed
	}

	return fmt.Sprintf(msgDaily, strings.ToUpper(quote.Symbol), quote.Price, quote.Timestamp)
}

func (c *Client) intradayQuote(ctx context.Context, ticker string) (*model.PriceQuote, error) {
	body, err := c.timeSeries(ctx, ticker, map[string]string{
		"function":   "TIME_SERIES_INTRADAY",
		"symbol":     ticker,
		"interval":   "1min",
		"outputsize": "compact",
	})
	if err != nil {
		return nil, err
	}
	return extractQuote(body, ticker, "Time Series (1min)", model.GranularityIntraday)
}

func (c *Client) dailyQuote(ctx context.Context, ticker string) (*model.PriceQuote, error) {
	body, err := c.timeSeries(ctx, ticker, map[string]string{
		"function":   "TIME_SERIES_DAILY",
		"symbol":     ticker,
		"outputsize": "compact",
	})
	if err != nil {
		return nil, err
	}
	return extractQuote(body, ticker, "Time Series (Daily)", model.GranularityDaily)
}

func (c *Client) timeSeries(ctx context.Context, ticker string, params map[string]string) ([]byte, error) {
	params["apikey"] = c.apiKey

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get("")

	ok := err == nil && resp.IsSuccess()
	c.recordCall(ctx, ticker, params["function"], ok)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: HTTP %d", ErrRequestFailed, resp.StatusCode())
	}

	return resp.Body(), nil
}

// extractQuote pulls the latest timestamp and opening price out of a time
// series body. The series is keyed by timestamp, so we read the freshest
// key from "Meta Data" first, then index the series with it.
func extractQuote(body []byte, ticker, seriesKey string, granularity model.Granularity) (*model.PriceQuote, error) {
	lastRefreshed := gjson.GetBytes(body, `Meta Data.3\. Last Refreshed`)
	if !lastRefreshed.Exists() {
		return nil, fmt.Errorf("%w: no last refreshed timestamp", errMissingFields)
	}

	price := gjson.GetBytes(body, seriesKey+"."+lastRefreshed.String()+`.1\. open`)
	if !price.Exists() {
		return nil, fmt.Errorf("%w: no %q entry for %s", errMissingFields, seriesKey, lastRefreshed.String())
	}

	return &model.PriceQuote{
		Symbol:      ticker,
		Price:       price.String(),
		Timestamp:   lastRefreshed.String(),
		Granularity: granularity,
	}, nil
}

func (c *Client) recordCall(ctx context.Context, input, operation string, success bool) {
	if c.callRepo == nil {
		return
	}

	call := &model.APICall{
		Input:     input,
		Provider:  "alphavantage",
		Operation: operation,
		Success:   success,
	}

	if err := c.callRepo.Create(ctx, call); err != nil {
		c.logger.Error("recording market data call", zap.Error(err))
	}
}
