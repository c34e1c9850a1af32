package marketApi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/KotFed0t/portfolio_dashboard_bot/config"
	"github.com/KotFed0t/portfolio_dashboard_bot/internal/externalApi"
	"github.com/KotFed0t/portfolio_dashboard_bot/internal/model"
	"github.com/KotFed0t/portfolio_dashboard_bot/internal/model/marketModel"
	"github.com/KotFed0t/portfolio_dashboard_bot/pkg/circuitbreaker"
	"github.com/KotFed0t/portfolio_dashboard_bot/utils"
	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

const (
	tickerPriceUrl = "/api/v3/ticker/price"

	codeInvalidSymbol = -1121
)

type MarketApi struct {
	client     *resty.Client
	cb         *circuitbreaker.CircuitBreaker
	quoteAsset string
}

func New(cfg *config.Config) *MarketApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.MarketApi.Url)

	cb := circuitbreaker.New(circuitbreaker.Config{
		Name:             "marketApi",
		MaxRequests:      cfg.API.CircuitBreaker.MaxRequests,
		Interval:         cfg.API.CircuitBreaker.Interval,
		Timeout:          cfg.API.CircuitBreaker.Timeout,
		FailureThreshold: cfg.API.CircuitBreaker.FailureThreshold,
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, externalApi.ErrNotFound)
		},
		OnStateChange: func(from, to circuitbreaker.State) {
			slog.Warn("marketApi circuit breaker state changed", slog.String("from", from.String()), slog.String("to", to.String()))
		},
	})

	return &MarketApi{
		client:     client,
		cb:         cb,
		quoteAsset: strings.ToUpper(cfg.API.MarketApi.QuoteAsset),
	}
}

func (a *MarketApi) pair(symbol string) string {
	return strings.ToUpper(symbol) + a.quoteAsset
}

// GetQuote returns the price of symbol in the quote asset. Unknown symbols give externalApi.ErrNotFound.
func (a *MarketApi) GetQuote(ctx context.Context, symbol string) (model.Quote, error) {
	rqId := utils.GetRequestIDFromCtx(ctx)
	symbol = strings.ToUpper(symbol)

	slog.Debug("start MarketApi.GetQuote request", slog.String("rqID", rqId), slog.String("symbol", symbol))

	if symbol == a.quoteAsset {
		return model.Quote{Symbol: symbol, Price: decimal.NewFromInt(1)}, nil
	}

	var tickerPrice marketModel.TickerPrice
	err := a.get(ctx, map[string]string{"symbol": a.pair(symbol)}, &tickerPrice)
	if err != nil {
		return model.Quote{}, err
	}

	price, err := decimal.NewFromString(tickerPrice.Price)
	if err != nil {
		slog.Error("can't parse price", slog.String("err", err.Error()), slog.String("rqID", rqId), slog.String("price", tickerPrice.Price))
		return model.Quote{}, err
	}

	slog.Debug("MarketApi.GetQuote request complete", slog.String("rqID", rqId))

	return model.Quote{Symbol: symbol, Price: price}, nil
}

// GetQuotes fetches several symbols in one request. A single unknown symbol fails the whole request.
func (a *MarketApi) GetQuotes(ctx context.Context, symbols []string) ([]model.Quote, error) {
	rqId := utils.GetRequestIDFromCtx(ctx)

	slog.Debug("start MarketApi.GetQuotes request", slog.String("rqID", rqId), slog.Int("symbols", len(symbols)))

	if len(symbols) == 0 {
		return nil, nil
	}

	bySymbol := make(map[string]string, len(symbols))
	pairs := make([]string, 0, len(symbols))
	quotes := make([]model.Quote, 0, len(symbols))
	for _, symbol := range symbols {
		symbol = strings.ToUpper(symbol)
		if symbol == a.quoteAsset {
			quotes = append(quotes, model.Quote{Symbol: symbol, Price: decimal.NewFromInt(1)})
			continue
		}
		bySymbol[a.pair(symbol)] = symbol
		pairs = append(pairs, a.pair(symbol))
	}
	if len(pairs) == 0 {
		return quotes, nil
	}

	pairsJson, err := json.Marshal(pairs)
	if err != nil {
		return nil, err
	}

	var tickerPrices []marketModel.TickerPrice
	err = a.get(ctx, map[string]string{"symbols": string(pairsJson)}, &tickerPrices)
	if err != nil {
		return nil, err
	}

	for _, tickerPrice := range tickerPrices {
		symbol, ok := bySymbol[tickerPrice.Symbol]
		if !ok {
			continue
		}
		price, err := decimal.NewFromString(tickerPrice.Price)
		if err != nil {
			slog.Error("can't parse price", slog.String("err", err.Error()), slog.String("rqID", rqId), slog.String("symbol", tickerPrice.Symbol))
			continue
		}
		quotes = append(quotes, model.Quote{Symbol: symbol, Price: price})
	}

	slog.Debug("MarketApi.GetQuotes request complete", slog.String("rqID", rqId), slog.Int("quotes", len(quotes)))

	return quotes, nil
}

func (a *MarketApi) get(ctx context.Context, params map[string]string, result any) error {
	rqId := utils.GetRequestIDFromCtx(ctx)

	return a.cb.Execute(ctx, func() error {
		resp, err := a.client.R().
			SetContext(ctx).
			SetHeader("Accept", "application/json").
			SetQueryParams(params).
			Get(tickerPriceUrl)
		if err != nil {
			slog.Error("error while dialing MarketApi", slog.String("err", err.Error()), slog.String("rqID", rqId))
			return err
		}

		if resp.IsError() {
			apiErr := marketModel.ApiError{}
			_ = json.Unmarshal(resp.Body(), &apiErr)
			if apiErr.Code == codeInvalidSymbol {
				return externalApi.ErrNotFound
			}
			slog.Error(
				"MarketApi responded with error",
				slog.String("rqID", rqId),
				slog.Int("status", resp.StatusCode()),
				slog.String("msg", apiErr.Msg),
			)
			return fmt.Errorf("market api status %d: %s", resp.StatusCode(), apiErr.Msg)
		}

		err = json.Unmarshal(resp.Body(), result)
		if err != nil {
			slog.Error("can't unmarshall MarketApi response", slog.String("err", err.Error()), slog.String("rqID", rqId))
			return err
		}

		return nil
	})
}
