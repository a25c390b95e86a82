package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/chinmay1088/ktools/chains"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"go.uber.org/ratelimit"
)

var (
	// MaxNumOfFailingRequests is the number of requests after which the
	// breaker may open
	MaxNumOfFailingRequests = 10
	// FailingRatio opens the breaker once this share of requests failed
	FailingRatio = 0.6
)

// StatusError is returned for non-2xx responses
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", e.Code, e.Body)
}

func (e *StatusError) clientError() bool {
	return e.Code >= 400 && e.Code < 500
}

// Client handles calls to the Arweave gateway, the Koii bundler and the
// price service
type Client struct {
	httpClient *http.Client
	cfg        Config
	cb         *gobreaker.CircuitBreaker
	limiter    ratelimit.Limiter
}

// NewClient creates a new API client
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	cfg.Gateway = strings.TrimRight(cfg.Gateway, "/")
	cfg.Bundler = strings.TrimRight(cfg.Bundler, "/")
	cfg.PriceAPI = strings.TrimRight(cfg.PriceAPI, "/")

	limiter := ratelimit.NewUnlimited()
	if cfg.RateLimit > 0 {
		limiter = ratelimit.New(cfg.RateLimit)
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
		cb:         newCircuitBreaker(),
		limiter:    limiter,
	}
}

func newCircuitBreaker() *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "gateway",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return int(counts.Requests) > MaxNumOfFailingRequests && ratio >= FailingRatio
		},
	})
}

func (c *Client) Gateway() string {
	return c.cfg.Gateway
}

// GetPrice fetches the USD price of a coin by its CoinGecko id
func (c *Client) GetPrice(ctx context.Context, id string) (*PriceData, error) {
	endpoint := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd", c.cfg.PriceAPI, url.QueryEscape(id))

	var result map[string]map[string]decimal.Decimal
	if err := c.getJSON(ctx, endpoint, &result); err != nil {
		return nil, err
	}

	if priceData, exists := result[id]; exists {
		if usdPrice, exists := priceData["usd"]; exists {
			return &PriceData{
				Symbol: id,
				Price:  usdPrice,
				USD:    usdPrice,
			}, nil
		}
	}

	return nil, fmt.Errorf("price not found for symbol: %s", id)
}

// do sends a rate limited request through the circuit breaker
func (c *Client) do(ctx context.Context, method, endpoint string, body []byte, contentType string) ([]byte, error) {
	c.limiter.Take()

	out, err := c.cb.Execute(func() (interface{}, error) {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to send request: %w", err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			statusErr := &StatusError{Code: resp.StatusCode, Body: string(data)}
			// client errors say nothing about the gateway health
			if statusErr.clientError() {
				return statusErr, nil
			}
			return nil, statusErr
		}
		return data, nil
	})
	if err != nil {
		return nil, chains.NewNetworkError(method+" "+opName(endpoint), err)
	}
	if statusErr, ok := out.(*StatusError); ok {
		return nil, chains.NewNetworkError(method+" "+opName(endpoint), statusErr)
	}
	return out.([]byte), nil
}

func opName(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil {
		return endpoint
	}
	return u.Path
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, endpoint, nil, "")
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	body, err := c.get(ctx, endpoint)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// postJSON sends a POST request with JSON payload and decodes the response
// into out when out is not nil
func (c *Client) postJSON(ctx context.Context, endpoint string, payload, out interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, endpoint, jsonData, "application/json")
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
