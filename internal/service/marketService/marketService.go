package marketService

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/KotFed0t/portfolio_dashboard_bot/internal/externalApi"
	"github.com/KotFed0t/portfolio_dashboard_bot/internal/model"
	"github.com/KotFed0t/portfolio_dashboard_bot/internal/service"
	"github.com/KotFed0t/portfolio_dashboard_bot/utils"
	"github.com/shopspring/decimal"
)

type MarketApi interface {
	GetQuote(ctx context.Context, symbol string) (model.Quote, error)
	GetQuotes(ctx context.Context, symbols []string) ([]model.Quote, error)
}

type Cache interface {
	GetQuote(ctx context.Context, symbol string) (model.Quote, error)
	SetQuotes(ctx context.Context, quotes []model.Quote) error
}

type Repository interface {
	GetTrackedSymbols(ctx context.Context) ([]string, error)
	UpdateAssetPrices(ctx context.Context, quotes []model.Quote) error
}

type MarketService struct {
	api   MarketApi
	cache Cache
	repo  Repository
}

func New(api MarketApi, cache Cache, repo Repository) *MarketService {
	return &MarketService{
		api:   api,
		cache: cache,
		repo:  repo,
	}
}

// Verify returns the canonical symbol if the market knows it, service.ErrSymbolNotFound otherwise.
func (s *MarketService) Verify(ctx context.Context, symbol string) (string, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "MarketService.Verify"

	slog.Debug("Verify start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	defer func() {
		slog.Debug("Verify finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	}()

	quote, err := s.quote(ctx, strings.ToUpper(strings.TrimSpace(symbol)))
	if err != nil {
		return "", err
	}

	return quote.Symbol, nil
}

// LastPrice returns the cached price of symbol, asking the market on a cache miss.
func (s *MarketService) LastPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	quote, err := s.quote(ctx, strings.ToUpper(symbol))
	if err != nil {
		return decimal.Zero, err
	}
	return quote.Price, nil
}

func (s *MarketService) quote(ctx context.Context, symbol string) (model.Quote, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "MarketService.quote"

	quote, err := s.cache.GetQuote(ctx, symbol)
	if err == nil {
		return quote, nil
	}

	quote, err = s.api.GetQuote(ctx, symbol)
	if err != nil {
		if errors.Is(err, externalApi.ErrNotFound) {
			return model.Quote{}, service.ErrSymbolNotFound
		}
		slog.Error("got error from api.GetQuote", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Quote{}, err
	}

	err = s.cache.SetQuotes(ctx, []model.Quote{quote})
	if err != nil {
		slog.Warn("can't cache quote", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	return quote, nil
}

// RefreshPrices re-quotes every tracked symbol and stores the prices in the cache and the database.
func (s *MarketService) RefreshPrices(ctx context.Context) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "MarketService.RefreshPrices"

	slog.Info("RefreshPrices start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		slog.Info("RefreshPrices finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	symbols, err := s.repo.GetTrackedSymbols(ctx)
	if err != nil {
		slog.Error("got error from repo.GetTrackedSymbols", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}
	if len(symbols) == 0 {
		return nil
	}

	quotes, err := s.api.GetQuotes(ctx, symbols)
	if errors.Is(err, externalApi.ErrNotFound) {
		// a delisted symbol fails the batch
		quotes, err = s.quoteOneByOne(ctx, symbols)
	}
	if err != nil {
		slog.Error("got error from api.GetQuotes", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	if err = s.cache.SetQuotes(ctx, quotes); err != nil {
		slog.Warn("can't cache quotes", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	err = s.repo.UpdateAssetPrices(ctx, quotes)
	if err != nil {
		slog.Error("got error from repo.UpdateAssetPrices", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	slog.Info("prices refreshed", slog.String("rqID", rqID), slog.Int("symbols", len(symbols)), slog.Int("quotes", len(quotes)))

	return nil
}

func (s *MarketService) quoteOneByOne(ctx context.Context, symbols []string) ([]model.Quote, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)

	quotes := make([]model.Quote, 0, len(symbols))
	for _, symbol := range symbols {
		quote, err := s.api.GetQuote(ctx, symbol)
		if err != nil {
			if errors.Is(err, externalApi.ErrNotFound) {
				slog.Warn("symbol is not quoted anymore", slog.String("rqID", rqID), slog.String("symbol", symbol))
				continue
			}
			return nil, err
		}
		quotes = append(quotes, quote)
	}
	return quotes, nil
}
