package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Portfolio struct {
	ID   int64
	Name string
}

// InvestmentSummary is the top level snapshot of a user's investments.
type InvestmentSummary struct {
	TotalBalance    decimal.Decimal // net amount invested
	CurrencyBalance decimal.Decimal // current market value
	Portfolios      []Portfolio
}

type PortfolioReport struct {
	Portfolio     Portfolio
	Summary       InvestmentSummary
	Rows          []AssetRow
	ProfitAndLoss decimal.Decimal
	Transactions  []Transaction
	CreatedAt     time.Time
}
