package market

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
	"github.com/valyala/fasthttp"
)

const globalQuotePrice = `$["Global Quote"]["05. price"]`

// AuthHeaderFunc supplies an Authorization header value per request. It is
// nil when the feed needs only the API key.
type AuthHeaderFunc func(ctx context.Context) (string, error)

type AlphaVantage struct {
	client  *fasthttp.Client
	baseURL string
	apiKey  string
	timeout time.Duration
	auth    AuthHeaderFunc
}

func NewAlphaVantage(client *fasthttp.Client, baseURL, apiKey string, timeout time.Duration, auth AuthHeaderFunc) *AlphaVantage {
	return &AlphaVantage{
		client:  client,
		baseURL: baseURL,
		apiKey:  apiKey,
		timeout: timeout,
		auth:    auth,
	}
}

func (a *AlphaVantage) Name() string { return "alphavantage" }

func (a *AlphaVantage) Quote(ctx context.Context, symbol string) (decimal.Decimal, error) {
	q := url.Values{}
	q.Set("function", "GLOBAL_QUOTE")
	q.Set("symbol", symbol)
	q.Set("apikey", a.apiKey)

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(a.baseURL + "?" + q.Encode())
	req.Header.SetMethod(fasthttp.MethodGet)
	if a.auth != nil {
		header, err := a.auth(ctx)
		if err != nil {
			return decimal.Zero, fmt.Errorf("market feed token: %w", err)
		}
		req.Header.Set("Authorization", header)
	}

	if err := a.client.DoTimeout(req, resp, remaining(ctx, a.timeout)); err != nil {
		return decimal.Zero, fmt.Errorf("alphavantage %s: %w", symbol, err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return decimal.Zero, fmt.Errorf("alphavantage %s: status %d", symbol, resp.StatusCode())
	}
	return parseGlobalQuote(resp.Body())
}

func parseGlobalQuote(body []byte) (decimal.Decimal, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return decimal.Zero, fmt.Errorf("malformed quote response: %w", err)
	}
	val, err := jsonpath.Get(globalQuotePrice, doc)
	if err != nil {
		return decimal.Zero, fmt.Errorf("quote price missing: %w", err)
	}
	if list, ok := val.([]interface{}); ok && len(list) > 0 {
		val = list[0]
	}

	switch v := val.(type) {
	case string:
		return decimal.NewFromString(v)
	case json.Number:
		return decimal.NewFromString(v.String())
	}
	return decimal.Zero, fmt.Errorf("quote price has unexpected type %T", val)
}

// remaining caps the request timeout by the context deadline.
func remaining(ctx context.Context, limit time.Duration) time.Duration {
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < limit {
			if left <= 0 {
				return time.Millisecond
			}
			return left
		}
	}
	return limit
}
