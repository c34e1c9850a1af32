package postgres

import (
	"context"
	"log/slog"

	"github.com/KotFed0t/portfolio_dashboard_bot/internal/converter/dbConverter"
	"github.com/KotFed0t/portfolio_dashboard_bot/internal/model"
	"github.com/KotFed0t/portfolio_dashboard_bot/internal/model/dbModel"
	"github.com/KotFed0t/portfolio_dashboard_bot/utils"
	"github.com/shopspring/decimal"
)

// UpsertAsset stores the symbol with its latest price and returns its id.
// A zero price keeps the stored one.
func (p *Postgres) UpsertAsset(ctx context.Context, symbol string, price decimal.Decimal) (assetID int64, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `
		INSERT INTO assets(symbol, price, dt_update)
		VALUES($1, NULLIF($2::numeric, 0), now())
		ON CONFLICT (symbol) DO UPDATE
		SET price = COALESCE(EXCLUDED.price, assets.price),
		    dt_update = now()
		RETURNING asset_id
		`

	slog.Debug("UpsertAsset start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("UpsertAsset failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("UpsertAsset completed", slog.String("rqID", rqID))
		}
	}()

	err = p.txOrDb(ctx).QueryRowContext(ctx, query, symbol, price).Scan(&assetID)
	if err != nil {
		return 0, mapError(err)
	}

	return assetID, nil
}

func (p *Postgres) UpdateAssetPrices(ctx context.Context, quotes []model.Quote) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `UPDATE assets SET price = $1, dt_update = now() WHERE symbol = $2`

	slog.Debug("UpdateAssetPrices start", slog.String("rqID", rqID), slog.String("query", query), slog.Int("quotes", len(quotes)))
	defer func() {
		if err != nil {
			slog.Error("UpdateAssetPrices failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("UpdateAssetPrices completed", slog.String("rqID", rqID))
		}
	}()

	return p.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, quote := range quotes {
			if _, err := p.txOrDb(ctx).ExecContext(ctx, query, quote.Price, quote.Symbol); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetTrackedSymbols returns symbols that have at least one transaction.
func (p *Postgres) GetTrackedSymbols(ctx context.Context) (symbols []string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `
		SELECT DISTINCT a.symbol
		FROM assets a
		JOIN transactions t ON t.asset_id = a.asset_id
		ORDER BY a.symbol
		`

	slog.Debug("GetTrackedSymbols start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("GetTrackedSymbols failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetTrackedSymbols completed", slog.String("rqID", rqID))
		}
	}()

	err = p.txOrDb(ctx).SelectContext(ctx, &symbols, query)
	if err != nil {
		return nil, err
	}

	return symbols, nil
}

// GetAssetAggregates returns running totals per asset of the portfolio: Buy adds, Sell subtracts.
func (p *Postgres) GetAssetAggregates(ctx context.Context, portfolioID int64) (aggregates []model.AssetAggregate, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `
		SELECT
			a.asset_id,
			a.symbol,
			a.price,
			SUM(CASE WHEN t.side = 'Buy' THEN t.quantity ELSE -t.quantity END) AS total_quantity,
			SUM(CASE WHEN t.side = 'Buy' THEN t.amount ELSE -t.amount END) AS total_cost
		FROM transactions t
		JOIN assets a ON a.asset_id = t.asset_id
		WHERE t.portfolio_id = $1
		GROUP BY a.asset_id, a.symbol, a.price
		ORDER BY a.symbol
		`

	slog.Debug("GetAssetAggregates start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("GetAssetAggregates failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetAssetAggregates completed", slog.String("rqID", rqID))
		}
	}()

	rows, err := p.txOrDb(ctx).QueryxContext(ctx, query, portfolioID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	aggregates = make([]model.AssetAggregate, 0)
	for rows.Next() {
		var aggregate dbModel.AssetAggregate
		err = rows.StructScan(&aggregate)
		if err != nil {
			return nil, err
		}
		aggregates = append(aggregates, dbConverter.ConvertAssetAggregate(aggregate))
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return aggregates, nil
}
