package postgres

import (
	"context"
	"log/slog"

	"github.com/KotFed0t/portfolio_dashboard_bot/data/repository"
	"github.com/KotFed0t/portfolio_dashboard_bot/internal/converter/dbConverter"
	"github.com/KotFed0t/portfolio_dashboard_bot/internal/model"
	"github.com/KotFed0t/portfolio_dashboard_bot/internal/model/dbModel"
	"github.com/KotFed0t/portfolio_dashboard_bot/utils"
	"github.com/shopspring/decimal"
)

func (p *Postgres) CreatePortfolio(ctx context.Context, userID int64, name string) (portfolioID int64, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `INSERT INTO portfolios(name, user_id) VALUES($1, $2) RETURNING portfolio_id`

	slog.Debug("CreatePortfolio start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("CreatePortfolio failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("CreatePortfolio completed", slog.String("rqID", rqID))
		}
	}()

	err = p.txOrDb(ctx).QueryRowContext(ctx, query, name, userID).Scan(&portfolioID)
	if err != nil {
		return 0, mapError(err)
	}

	return portfolioID, nil
}

// DeletePortfolio removes the portfolio with its transactions. A portfolio of another user is not found.
func (p *Postgres) DeletePortfolio(ctx context.Context, userID, portfolioID int64) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `DELETE FROM portfolios WHERE portfolio_id = $1 AND user_id = $2`

	slog.Debug("DeletePortfolio start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("DeletePortfolio failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("DeletePortfolio completed", slog.String("rqID", rqID))
		}
	}()

	res, err := p.txOrDb(ctx).ExecContext(ctx, query, portfolioID, userID)
	if err != nil {
		return mapError(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (p *Postgres) CheckPortfolioOwner(ctx context.Context, userID, portfolioID int64) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `SELECT portfolio_id FROM portfolios WHERE portfolio_id = $1 AND user_id = $2`

	slog.Debug("CheckPortfolioOwner start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("CheckPortfolioOwner failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("CheckPortfolioOwner completed", slog.String("rqID", rqID))
		}
	}()

	var id int64
	err = p.txOrDb(ctx).QueryRowContext(ctx, query, portfolioID, userID).Scan(&id)
	if err != nil {
		return mapError(err)
	}

	return nil
}

func (p *Postgres) GetPortfolios(ctx context.Context, userID int64) (portfolios []model.Portfolio, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `SELECT portfolio_id, name FROM portfolios WHERE user_id = $1 ORDER BY portfolio_id`

	slog.Debug("GetPortfolios start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("GetPortfolios failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetPortfolios completed", slog.String("rqID", rqID))
		}
	}()

	var dbPortfolios []dbModel.Portfolio
	err = p.txOrDb(ctx).SelectContext(ctx, &dbPortfolios, query, userID)
	if err != nil {
		return nil, err
	}

	portfolios = make([]model.Portfolio, 0, len(dbPortfolios))
	for _, dbPortfolio := range dbPortfolios {
		portfolios = append(portfolios, dbConverter.ConvertPortfolio(dbPortfolio))
	}

	return portfolios, nil
}

// GetInvestmentTotals returns the net invested amount and the market value of all user portfolios.
func (p *Postgres) GetInvestmentTotals(ctx context.Context, userID int64) (totalBalance, currencyBalance decimal.Decimal, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN t.side = 'Buy' THEN t.amount ELSE -t.amount END), 0) AS total_balance,
			COALESCE(SUM(CASE WHEN t.side = 'Buy' THEN t.quantity ELSE -t.quantity END * COALESCE(a.price, 0)), 0) AS currency_balance
		FROM transactions t
		JOIN portfolios p ON p.portfolio_id = t.portfolio_id
		JOIN assets a ON a.asset_id = t.asset_id
		WHERE p.user_id = $1
		`

	slog.Debug("GetInvestmentTotals start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("GetInvestmentTotals failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetInvestmentTotals completed", slog.String("rqID", rqID))
		}
	}()

	var totals dbModel.InvestmentTotals
	err = p.txOrDb(ctx).GetContext(ctx, &totals, query, userID)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return totals.TotalBalance, totals.CurrencyBalance, nil
}
