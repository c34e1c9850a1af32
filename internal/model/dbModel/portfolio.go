package dbModel

import "github.com/shopspring/decimal"

type Portfolio struct {
	PortfolioID int64  `db:"portfolio_id"`
	Name        string `db:"name"`
}

type InvestmentTotals struct {
	TotalBalance    decimal.Decimal `db:"total_balance"`
	CurrencyBalance decimal.Decimal `db:"currency_balance"`
}
