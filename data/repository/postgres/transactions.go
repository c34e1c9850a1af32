package postgres

import (
	"context"
	"log/slog"

	"github.com/KotFed0t/portfolio_dashboard_bot/internal/converter/dbConverter"
	"github.com/KotFed0t/portfolio_dashboard_bot/internal/model"
	"github.com/KotFed0t/portfolio_dashboard_bot/internal/model/dbModel"
	"github.com/KotFed0t/portfolio_dashboard_bot/utils"
)

func (p *Postgres) InsertTransaction(ctx context.Context, assetID int64, draft model.TransactionDraft) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `
		INSERT INTO transactions(portfolio_id, asset_id, side, quantity, amount)
		VALUES($1, $2, $3, $4, $5)
		`

	slog.Debug("InsertTransaction start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("InsertTransaction failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("InsertTransaction completed", slog.String("rqID", rqID))
		}
	}()

	_, err = p.txOrDb(ctx).ExecContext(ctx, query, draft.PortfolioID, assetID, string(draft.Side), draft.Quantity, draft.Amount)
	if err != nil {
		return mapError(err)
	}

	return nil
}

func (p *Postgres) GetTransactions(ctx context.Context, portfolioID int64) (transactions []model.Transaction, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `
		SELECT a.symbol, t.side, t.quantity, t.amount, t.dt_create
		FROM transactions t
		JOIN assets a ON a.asset_id = t.asset_id
		WHERE t.portfolio_id = $1
		ORDER BY t.dt_create, t.transaction_id
		`

	slog.Debug("GetTransactions start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("GetTransactions failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetTransactions completed", slog.String("rqID", rqID))
		}
	}()

	var dbTransactions []dbModel.Transaction
	err = p.txOrDb(ctx).SelectContext(ctx, &dbTransactions, query, portfolioID)
	if err != nil {
		return nil, err
	}

	transactions = make([]model.Transaction, 0, len(dbTransactions))
	for _, dbTransaction := range dbTransactions {
		transactions = append(transactions, dbConverter.ConvertTransaction(dbTransaction))
	}

	return transactions, nil
}
