// Package service holds the quote client, portfolio enrichment, the
// analytics aggregator and the snapshot scheduler.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/Yaveenp/DevSecOps18-FProject/internal/models"
)

// QuoteProvider is the market-data contract the rest of the system depends on.
type QuoteProvider interface {
	GetQuote(ctx context.Context, ticker string) (models.Quote, error)
	TopGainers(ctx context.Context) ([]models.MarketMover, error)
}

const (
	DefaultBaseURL   = "https://www.alphavantage.co"
	DefaultTimeout   = 15 * time.Second
	DefaultRateLimit = 5 // requests per second
)

// flexFloat64 handles JSON values that may be either a number or a string.
type flexFloat64 float64

func (f *flexFloat64) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = flexFloat64(num)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" || s == "N/A" {
			*f = 0
			return nil
		}
		num, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexFloat64(num)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into float64", string(data))
}

// flexInt64 handles integer JSON values that may arrive as strings.
type flexInt64 int64

func (f *flexInt64) UnmarshalJSON(data []byte) error {
	var ff flexFloat64
	if err := ff.UnmarshalJSON(data); err != nil {
		return err
	}
	*f = flexInt64(ff)
	return nil
}

// APIError represents a quote-provider error.
type APIError struct {
	StatusCode int
	Message    string
	Symbol     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("quote provider error: %s (status: %d, symbol: %s)", e.Message, e.StatusCode, e.Symbol)
}

// AlphaVantageClient implements QuoteProvider against the Alpha Vantage API.
type AlphaVantageClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *logrus.Logger
}

// ClientOption configures the client.
type ClientOption func(*AlphaVantageClient)

func WithBaseURL(baseURL string) ClientOption {
	return func(c *AlphaVantageClient) { c.baseURL = baseURL }
}

func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *AlphaVantageClient) { c.httpClient.Timeout = timeout }
}

func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *AlphaVantageClient) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

func WithLogger(log *logrus.Logger) ClientOption {
	return func(c *AlphaVantageClient) { c.log = log }
}

func NewAlphaVantageClient(apiKey string, opts ...ClientOption) *AlphaVantageClient {
	c := &AlphaVantageClient{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		log:     logrus.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type globalQuote struct {
	Symbol           string      `json:"01. symbol"`
	Open             flexFloat64 `json:"02. open"`
	High             flexFloat64 `json:"03. high"`
	Low              flexFloat64 `json:"04. low"`
	Price            flexFloat64 `json:"05. price"`
	Volume           flexInt64   `json:"06. volume"`
	LatestTradingDay string      `json:"07. latest trading day"`
	PreviousClose    flexFloat64 `json:"08. previous close"`
	Change           flexFloat64 `json:"09. change"`
	ChangePercent    string      `json:"10. change percent"`
}

type mover struct {
	Ticker           string      `json:"ticker"`
	Price            flexFloat64 `json:"price"`
	ChangeAmount     flexFloat64 `json:"change_amount"`
	ChangePercentage string      `json:"change_percentage"`
	Volume           flexInt64   `json:"volume"`
}

// get performs a rate-limited GET against /query. Alpha Vantage reports rate
// limiting and bad requests in a 200 body, so those fields are checked before
// the payload is decoded.
func (c *AlphaVantageClient) get(ctx context.Context, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	params.Set("apikey", c.apiKey)
	reqURL := fmt.Sprintf("%s/query?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("quote request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read quote response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode), Symbol: params.Get("symbol")}
	}

	var diag struct {
		Note         string `json:"Note"`
		ErrorMessage string `json:"Error Message"`
		Information  string `json:"Information"`
	}
	if err := json.Unmarshal(body, &diag); err == nil {
		switch {
		case diag.Note != "":
			return &APIError{StatusCode: http.StatusTooManyRequests, Message: "rate limit exceeded", Symbol: params.Get("symbol")}
		case diag.ErrorMessage != "":
			return &APIError{StatusCode: http.StatusBadRequest, Message: diag.ErrorMessage, Symbol: params.Get("symbol")}
		case diag.Information != "":
			return &APIError{StatusCode: http.StatusTooManyRequests, Message: diag.Information, Symbol: params.Get("symbol")}
		}
	}

	return json.Unmarshal(body, result)
}

// GetQuote fetches a GLOBAL_QUOTE for one ticker. An empty quote object is an
// error: the caller decides whether that skips a holding or fails a request.
func (c *AlphaVantageClient) GetQuote(ctx context.Context, ticker string) (models.Quote, error) {
	params := url.Values{}
	params.Set("function", "GLOBAL_QUOTE")
	params.Set("symbol", ticker)

	var resp struct {
		Quote globalQuote `json:"Global Quote"`
	}
	if err := c.get(ctx, params, &resp); err != nil {
		return models.Quote{}, err
	}
	if resp.Quote.Symbol == "" {
		return models.Quote{}, &APIError{StatusCode: http.StatusNotFound, Message: "no data found for ticker", Symbol: ticker}
	}

	return models.Quote{
		Symbol:           resp.Quote.Symbol,
		Open:             float64(resp.Quote.Open),
		High:             float64(resp.Quote.High),
		Low:              float64(resp.Quote.Low),
		Price:            float64(resp.Quote.Price),
		Volume:           int64(resp.Quote.Volume),
		LatestTradingDay: resp.Quote.LatestTradingDay,
		PreviousClose:    float64(resp.Quote.PreviousClose),
		Change:           float64(resp.Quote.Change),
		ChangePercent:    resp.Quote.ChangePercent,
	}, nil
}

// TopGainers fetches the market-trends feed.
func (c *AlphaVantageClient) TopGainers(ctx context.Context) ([]models.MarketMover, error) {
	params := url.Values{}
	params.Set("function", "TOP_GAINERS_LOSERS")

	var resp struct {
		TopGainers []mover `json:"top_gainers"`
	}
	if err := c.get(ctx, params, &resp); err != nil {
		return nil, err
	}

	res := make([]models.MarketMover, 0, len(resp.TopGainers))
	for _, m := range resp.TopGainers {
		res = append(res, models.MarketMover{
			Ticker:           m.Ticker,
			Price:            float64(m.Price),
			ChangeAmount:     float64(m.ChangeAmount),
			ChangePercentage: m.ChangePercentage,
			Volume:           int64(m.Volume),
		})
	}
	return res, nil
}
