package investmentService

import (
	"context"
	"errors"
	"log/slog"

	"github.com/KotFed0t/portfolio_dashboard_bot/data/repository"
	"github.com/KotFed0t/portfolio_dashboard_bot/internal/model"
	"github.com/KotFed0t/portfolio_dashboard_bot/internal/service"
	"github.com/KotFed0t/portfolio_dashboard_bot/utils"
	"github.com/shopspring/decimal"
)

type Repository interface {
	WithinTransaction(ctx context.Context, tFunc func(ctx context.Context) error) error
	InsertUser(ctx context.Context, chatID int64) (userID int64, err error)
	GetUserID(ctx context.Context, chatID int64) (userID int64, err error)
	CreatePortfolio(ctx context.Context, userID int64, name string) (portfolioID int64, err error)
	DeletePortfolio(ctx context.Context, userID, portfolioID int64) error
	CheckPortfolioOwner(ctx context.Context, userID, portfolioID int64) error
	GetPortfolios(ctx context.Context, userID int64) ([]model.Portfolio, error)
	GetInvestmentTotals(ctx context.Context, userID int64) (totalBalance, currencyBalance decimal.Decimal, err error)
	GetAssetAggregates(ctx context.Context, portfolioID int64) ([]model.AssetAggregate, error)
	UpsertAsset(ctx context.Context, symbol string, price decimal.Decimal) (assetID int64, err error)
	InsertTransaction(ctx context.Context, assetID int64, draft model.TransactionDraft) error
	GetTransactions(ctx context.Context, portfolioID int64) ([]model.Transaction, error)
}

// PriceLookup returns the last known price of a verified symbol.
type PriceLookup interface {
	LastPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}

type InvestmentService struct {
	repo   Repository
	prices PriceLookup
}

func New(repo Repository, prices PriceLookup) *InvestmentService {
	return &InvestmentService{
		repo:   repo,
		prices: prices,
	}
}

// OpenAccount registers the chat owner on first use and returns the account bound to them.
func (s *InvestmentService) OpenAccount(ctx context.Context, chatID int64) (*Account, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "InvestmentService.OpenAccount"

	slog.Debug("OpenAccount start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("chatID", chatID))
	defer func() {
		slog.Debug("OpenAccount finished", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("chatID", chatID))
	}()

	userID, err := s.repo.InsertUser(ctx, chatID)
	if errors.Is(err, repository.ErrAlreadyExists) {
		userID, err = s.repo.GetUserID(ctx, chatID)
	}
	if err != nil {
		slog.Error("can't resolve user", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	return &Account{userID: userID, repo: s.repo, prices: s.prices}, nil
}

// Account is the portfolio service of a single user.
type Account struct {
	userID int64
	repo   Repository
	prices PriceLookup
}

func (a *Account) CreatePortfolio(ctx context.Context, name string) (model.Portfolio, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Account.CreatePortfolio"

	slog.Debug("CreatePortfolio start", slog.String("rqID", rqID), slog.String("op", op), slog.String("name", name))
	defer func() {
		slog.Debug("CreatePortfolio finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("name", name))
	}()

	portfolioID, err := a.repo.CreatePortfolio(ctx, a.userID, name)
	if err != nil {
		slog.Error("got error from repo.CreatePortfolio", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Portfolio{}, err
	}

	return model.Portfolio{ID: portfolioID, Name: name}, nil
}

func (a *Account) DeletePortfolio(ctx context.Context, portfolioID int64) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Account.DeletePortfolio"

	slog.Debug("DeletePortfolio start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("portfolioID", portfolioID))
	defer func() {
		slog.Debug("DeletePortfolio finished", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("portfolioID", portfolioID))
	}()

	err := a.repo.DeletePortfolio(ctx, a.userID, portfolioID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return service.ErrInvalidSelection
		}
		slog.Error("got error from repo.DeletePortfolio", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	return nil
}

// CreateTransaction stores a verified draft. The asset is created on first use with the last known price.
func (a *Account) CreateTransaction(ctx context.Context, draft model.TransactionDraft) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Account.CreateTransaction"

	slog.Debug("CreateTransaction start", slog.String("rqID", rqID), slog.String("op", op), slog.Any("draft", draft))
	defer func() {
		slog.Debug("CreateTransaction finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	price, err := a.prices.LastPrice(ctx, draft.Symbol)
	if err != nil {
		// the price refresh job fills it later
		slog.Warn("no price for symbol", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", draft.Symbol), slog.String("err", err.Error()))
		price = decimal.Zero
	}

	err = a.repo.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := a.checkOwner(ctx, draft.PortfolioID); err != nil {
			return err
		}

		assetID, err := a.repo.UpsertAsset(ctx, draft.Symbol, price)
		if err != nil {
			return err
		}

		return a.repo.InsertTransaction(ctx, assetID, draft)
	})
	if err != nil {
		slog.Error("can't create transaction", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	return nil
}

func (a *Account) FetchInvestmentSummary(ctx context.Context) (model.InvestmentSummary, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Account.FetchInvestmentSummary"

	slog.Debug("FetchInvestmentSummary start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		slog.Debug("FetchInvestmentSummary finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	portfolios, err := a.repo.GetPortfolios(ctx, a.userID)
	if err != nil {
		slog.Error("got error from repo.GetPortfolios", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.InvestmentSummary{}, err
	}

	totalBalance, currencyBalance, err := a.repo.GetInvestmentTotals(ctx, a.userID)
	if err != nil {
		slog.Error("got error from repo.GetInvestmentTotals", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.InvestmentSummary{}, err
	}

	return model.InvestmentSummary{
		TotalBalance:    totalBalance,
		CurrencyBalance: currencyBalance,
		Portfolios:      portfolios,
	}, nil
}

func (a *Account) FetchAssetAggregates(ctx context.Context, portfolioID int64) ([]model.AssetAggregate, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Account.FetchAssetAggregates"

	if err := a.checkOwner(ctx, portfolioID); err != nil {
		return nil, err
	}

	aggregates, err := a.repo.GetAssetAggregates(ctx, portfolioID)
	if err != nil {
		slog.Error("got error from repo.GetAssetAggregates", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	return aggregates, nil
}

func (a *Account) FetchTransactions(ctx context.Context, portfolioID int64) ([]model.Transaction, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Account.FetchTransactions"

	if err := a.checkOwner(ctx, portfolioID); err != nil {
		return nil, err
	}

	transactions, err := a.repo.GetTransactions(ctx, portfolioID)
	if err != nil {
		slog.Error("got error from repo.GetTransactions", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	return transactions, nil
}

func (a *Account) checkOwner(ctx context.Context, portfolioID int64) error {
	err := a.repo.CheckPortfolioOwner(ctx, a.userID, portfolioID)
	if errors.Is(err, repository.ErrNotFound) {
		return service.ErrInvalidSelection
	}
	return err
}
