package marketApi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/KotFed0t/portfolio_dashboard_bot/config"
	"github.com/KotFed0t/portfolio_dashboard_bot/internal/externalApi"
	"github.com/KotFed0t/portfolio_dashboard_bot/pkg/circuitbreaker"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApi(t *testing.T, handler http.HandlerFunc) *MarketApi {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{}
	cfg.API.Timeout = time.Second
	cfg.API.MarketApi.Url = server.URL
	cfg.API.MarketApi.QuoteAsset = "usdt"
	cfg.API.CircuitBreaker.Timeout = time.Minute
	cfg.API.CircuitBreaker.FailureThreshold = 2
	return New(cfg)
}

func TestGetQuote(t *testing.T) {
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/ticker/price", r.URL.Path)
		assert.Equal(t, "BTCUSDT", r.URL.Query().Get("symbol"))
		_, _ = w.Write([]byte(`{"symbol":"BTCUSDT","price":"61234.56000000"}`))
	})

	quote, err := api.GetQuote(context.Background(), "btc")

	require.NoError(t, err)
	assert.Equal(t, "BTC", quote.Symbol)
	assert.True(t, quote.Price.Equal(decimal.RequireFromString("61234.56")))
}

func TestGetQuoteInvalidSymbol(t *testing.T) {
	var calls atomic.Int32
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":-1121,"msg":"Invalid symbol."}`))
	})

	for range 3 {
		_, err := api.GetQuote(context.Background(), "nope")
		require.ErrorIs(t, err, externalApi.ErrNotFound)
	}

	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, circuitbreaker.StateClosed, api.cb.State())
}

func TestGetQuoteServerErrorsOpenBreaker(t *testing.T) {
	var calls atomic.Int32
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	for range 2 {
		_, err := api.GetQuote(context.Background(), "btc")
		require.Error(t, err)
	}

	_, err := api.GetQuote(context.Background(), "btc")

	require.ErrorIs(t, err, circuitbreaker.ErrOpen)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGetQuoteOfQuoteAsset(t *testing.T) {
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	quote, err := api.GetQuote(context.Background(), "USDT")

	require.NoError(t, err)
	assert.True(t, quote.Price.Equal(decimal.NewFromInt(1)))
}

func TestGetQuotes(t *testing.T) {
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, `["BTCUSDT","ETHUSDT"]`, r.URL.Query().Get("symbols"))
		_, _ = w.Write([]byte(`[{"symbol":"BTCUSDT","price":"60000.1"},{"symbol":"ETHUSDT","price":"3000"}]`))
	})

	quotes, err := api.GetQuotes(context.Background(), []string{"btc", "ETH"})

	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.Equal(t, "BTC", quotes[0].Symbol)
	assert.Equal(t, "ETH", quotes[1].Symbol)
	assert.True(t, quotes[1].Price.Equal(decimal.NewFromInt(3000)))
}
