package market

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"investmanager.com/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGlobalQuote(t *testing.T) {
	price, err := parseGlobalQuote([]byte(`{"Global Quote": {"01. symbol": "IBM", "05. price": "217.1600"}}`))
	require.NoError(t, err)
	assert.Equal(t, "217.16", price.String())

	price, err = parseGlobalQuote([]byte(`{"Global Quote": {"05. price": 0.1234567891}}`))
	require.NoError(t, err)
	assert.Equal(t, "0.1234567891", price.String())

	_, err = parseGlobalQuote([]byte(`{"Global Quote": {"05. price": true}}`))
	assert.Error(t, err)

	_, err = parseGlobalQuote([]byte(`{"Note": "API call frequency exceeded"}`))
	assert.Error(t, err)

	_, err = parseGlobalQuote([]byte(`<html>`))
	assert.Error(t, err)
}

func TestAlphaVantageQuote(t *testing.T) {
	var gotAuth, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, `{"Global Quote": {"05. price": "100.00"}}`)
	}))
	defer srv.Close()

	auth := func(context.Context) (string, error) { return "Bearer abc", nil }
	av := NewAlphaVantage(shared.FastClient(false, time.Second), srv.URL, "demo", time.Second, auth)

	price, err := av.Quote(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "100", price.String())
	assert.Equal(t, "Bearer abc", gotAuth)
	assert.Contains(t, gotQuery, "function=GLOBAL_QUOTE")
	assert.Contains(t, gotQuery, "symbol=AAPL")
	assert.Contains(t, gotQuery, "apikey=demo")
}

func TestAlphaVantageHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	av := NewAlphaVantage(shared.FastClient(false, time.Second), srv.URL, "demo", time.Second, nil)
	_, err := av.Quote(context.Background(), "AAPL")
	assert.Error(t, err)
}
