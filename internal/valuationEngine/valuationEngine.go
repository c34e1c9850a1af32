// Package valuationEngine turns raw per-asset aggregates into display ready metrics.
package valuationEngine

import (
	"strings"

	"github.com/KotFed0t/portfolio_dashboard_bot/internal/model"
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

const (
	// SummaryPlaces is the precision of top level summary figures.
	SummaryPlaces int32 = 2
	// AssetPlaces is the precision of per asset cost and profit figures.
	AssetPlaces int32 = 4
	pricePlaces int32 = 2

	zeroText = "0.00"
)

type Engine struct {
	symbol string
}

// New creates an Engine formatting money with the grapheme of the given ISO currency code.
// Unknown codes fall back to the code itself.
func New(currencyCode string) *Engine {
	code := strings.ToUpper(strings.TrimSpace(currencyCode))
	symbol := code
	if cur := money.GetCurrency(code); cur != nil && cur.Grapheme != "" {
		symbol = cur.Grapheme
	}
	return &Engine{symbol: symbol}
}

func (e *Engine) ComputeRow(aggregate model.AssetAggregate) model.AssetRow {
	row := model.AssetRow{
		ID:       aggregate.ID,
		Symbol:   aggregate.Symbol,
		Price:    aggregate.Price,
		Holdings: aggregate.Quantity,
		Spend:    aggregate.Cost,

		PriceText:    e.Format(aggregate.Price, pricePlaces),
		HoldingsText: aggregate.Quantity.String(),
		SpendText:    e.Format(aggregate.Cost, AssetPlaces),
	}

	row.AverageCost, row.AverageCostText = e.averageCost(aggregate)
	row.ProfitAndLoss, row.ProfitAndLossText = e.profitAndLoss(aggregate)

	return row
}

func (e *Engine) ComputeRows(aggregates []model.AssetAggregate) []model.AssetRow {
	rows := make([]model.AssetRow, 0, len(aggregates))
	for _, aggregate := range aggregates {
		rows = append(rows, e.ComputeRow(aggregate))
	}
	return rows
}

func (e *Engine) averageCost(aggregate model.AssetAggregate) (decimal.Decimal, string) {
	if !aggregate.Quantity.IsPositive() {
		return decimal.Zero, e.symbol + zeroText
	}
	average := aggregate.Cost.Div(aggregate.Quantity)
	return average, e.Format(average, AssetPlaces)
}

// profitAndLoss is (price - cost/quantity) * quantity, computed as price*quantity - cost to stay exact.
func (e *Engine) profitAndLoss(aggregate model.AssetAggregate) (decimal.Decimal, string) {
	if !aggregate.Quantity.IsPositive() || !aggregate.Cost.IsPositive() || !aggregate.Price.IsPositive() {
		return decimal.Zero, e.symbol + zeroText
	}
	pnl := aggregate.Price.Mul(aggregate.Quantity).Sub(aggregate.Cost)
	return pnl, e.Format(pnl, AssetPlaces)
}

// AggregateProfitAndLoss sums the unrounded profit/loss of the rows.
func AggregateProfitAndLoss(rows []model.AssetRow) decimal.Decimal {
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.ProfitAndLoss)
	}
	return total
}

func Classify(value decimal.Decimal) model.Trend {
	switch value.Sign() {
	case 1:
		return model.TrendUp
	case -1:
		return model.TrendDown
	default:
		return model.TrendNeutral
	}
}

// Format renders value with a leading currency symbol and a fixed number of decimal places.
func (e *Engine) Format(value decimal.Decimal, places int32) string {
	rounded := value.Round(places)
	if rounded.IsZero() {
		// never show -0.0000
		rounded = decimal.Zero
	}
	return e.symbol + rounded.StringFixed(places)
}

func (e *Engine) FormatSummary(value decimal.Decimal) string {
	return e.Format(value, SummaryPlaces)
}
