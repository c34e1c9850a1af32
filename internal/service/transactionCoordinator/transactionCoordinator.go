package transactionCoordinator

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/KotFed0t/portfolio_dashboard_bot/internal/model"
	"github.com/KotFed0t/portfolio_dashboard_bot/internal/service"
	"github.com/KotFed0t/portfolio_dashboard_bot/utils"
)

// Row actions
const (
	ActionBuyToken  = "buy_token"
	ActionSellToken = "sell_token"
)

type Remote interface {
	CreatePortfolio(ctx context.Context, name string) (model.Portfolio, error)
	DeletePortfolio(ctx context.Context, portfolioID int64) error
	CreateTransaction(ctx context.Context, draft model.TransactionDraft) error
}

type SymbolVerifier interface {
	Verify(ctx context.Context, symbol string) (canonicalSymbol string, err error)
}

// Attempt is the outcome of one submission of a draft.
type Attempt struct {
	Draft  model.TransactionDraft
	Status model.DraftStatus
}

type TransactionCoordinator struct {
	remote   Remote
	verifier SymbolVerifier
}

func New(remote Remote, verifier SymbolVerifier) *TransactionCoordinator {
	return &TransactionCoordinator{
		remote:   remote,
		verifier: verifier,
	}
}

// CreatePortfolio creates the portfolio remotely and returns portfolios with the new one appended.
// portfolios itself is never modified.
func (c *TransactionCoordinator) CreatePortfolio(
	ctx context.Context,
	portfolios []model.Portfolio,
	name string,
) ([]model.Portfolio, model.Portfolio, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TransactionCoordinator.CreatePortfolio"

	slog.Debug("CreatePortfolio start", slog.String("rqID", rqID), slog.String("op", op), slog.String("name", name))
	defer func() {
		slog.Debug("CreatePortfolio finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("name", name))
	}()

	name = strings.TrimSpace(name)
	if name == "" {
		return portfolios, model.Portfolio{}, service.NewValidationError("name", "Portfolio name should not be empty")
	}

	created, err := c.remote.CreatePortfolio(ctx, name)
	if err != nil {
		slog.Error("got error from remote.CreatePortfolio", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return portfolios, model.Portfolio{}, service.NewRemoteServiceError(op, err)
	}

	next := make([]model.Portfolio, 0, len(portfolios)+1)
	next = append(next, portfolios...)
	next = append(next, created)

	return next, created, nil
}

// ValidateTransactionDraft checks symbol, quantity and amount in that order and reports the first failure.
func ValidateTransactionDraft(draft model.TransactionDraft) error {
	if strings.TrimSpace(draft.Symbol) == "" {
		return service.NewValidationError("symbol", "Symbol field should not be empty")
	}
	if !draft.Quantity.IsPositive() {
		return service.NewValidationError("quantity", "Quantity field should be a positive number")
	}
	if !draft.Amount.IsPositive() {
		return service.NewValidationError("amount", "Amount field should be a positive number")
	}
	if draft.Side != model.SideBuy && draft.Side != model.SideSell {
		return service.NewValidationError("side", "Transaction side should be Buy or Sell")
	}
	return nil
}

// SubmitTransaction validates, verifies and submits the draft.
// The returned attempt is either committed or rejected; a rejected attempt carries a non-nil error.
func (c *TransactionCoordinator) SubmitTransaction(ctx context.Context, draft model.TransactionDraft) (attempt Attempt, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TransactionCoordinator.SubmitTransaction"

	attempt = Attempt{Draft: draft, Status: model.DraftEditing}

	slog.Debug("SubmitTransaction start", slog.String("rqID", rqID), slog.String("op", op), slog.Any("draft", draft))
	defer func() {
		if err != nil {
			attempt.Status = model.DraftRejected
		}
		slog.Debug(
			"SubmitTransaction finished",
			slog.String("rqID", rqID),
			slog.String("op", op),
			slog.String("status", attempt.Status.String()),
		)
	}()

	attempt.Status = model.DraftValidating
	if err = ValidateTransactionDraft(draft); err != nil {
		return attempt, err
	}
	if draft.PortfolioID == 0 {
		return attempt, service.ErrInvalidSelection
	}

	attempt.Status = model.DraftVerifying
	canonical, err := c.verifier.Verify(ctx, strings.ToUpper(strings.TrimSpace(draft.Symbol)))
	if err != nil {
		if errors.Is(err, service.ErrSymbolNotFound) {
			slog.Warn("symbol not found", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", draft.Symbol))
			return attempt, err
		}
		slog.Error("got error from verifier.Verify", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return attempt, service.NewRemoteServiceError(op, err)
	}
	attempt.Draft.Symbol = canonical

	attempt.Status = model.DraftSubmitting
	err = c.remote.CreateTransaction(ctx, attempt.Draft)
	if err != nil {
		slog.Error("got error from remote.CreateTransaction", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return attempt, service.NewRemoteServiceError(op, err)
	}

	attempt.Status = model.DraftCommitted
	return attempt, nil
}

func (c *TransactionCoordinator) DeletePortfolio(ctx context.Context, portfolioID int64) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TransactionCoordinator.DeletePortfolio"

	slog.Debug("DeletePortfolio start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("portfolioID", portfolioID))
	defer func() {
		slog.Debug("DeletePortfolio finished", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("portfolioID", portfolioID))
	}()

	if portfolioID <= 0 {
		return service.ErrInvalidSelection
	}

	err := c.remote.DeletePortfolio(ctx, portfolioID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSelection) {
			return err
		}
		slog.Error("got error from remote.DeletePortfolio", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return service.NewRemoteServiceError(op, err)
	}

	return nil
}

// PrefillFromRow maps a row action to the dialog prefill. Unknown actions return false.
func PrefillFromRow(action string, row model.AssetRow) (model.DraftPrefill, bool) {
	var side model.Side
	switch action {
	case ActionBuyToken:
		side = model.SideBuy
	case ActionSellToken:
		side = model.SideSell
	default:
		return model.DraftPrefill{}, false
	}

	return model.DraftPrefill{
		Side:          side,
		Symbol:        row.Symbol,
		Price:         row.PriceText,
		Holdings:      row.HoldingsText,
		AverageCost:   row.AverageCostText,
		ProfitAndLoss: row.ProfitAndLossText,
	}, true
}

// NewDraft builds a draft from dialog input. A prefilled symbol wins over an empty input.
func NewDraft(portfolioID int64, prefill model.DraftPrefill, input model.DraftInput) model.TransactionDraft {
	side := prefill.Side
	if side == "" {
		side = model.SideBuy
	}

	symbol := input.Symbol
	if strings.TrimSpace(symbol) == "" {
		symbol = prefill.Symbol
	}

	return model.TransactionDraft{
		PortfolioID: portfolioID,
		Side:        side,
		Symbol:      symbol,
		Quantity:    input.Quantity,
		Amount:      input.Amount,
	}
}
