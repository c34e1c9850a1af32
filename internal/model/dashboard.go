package model

import "github.com/shopspring/decimal"

// DashboardView is a snapshot of the dashboard state the view layer renders from.
type DashboardView struct {
	TotalBalanceText    string
	CurrencyBalanceText string

	Portfolios      []Portfolio
	ActivePortfolio Portfolio
	HasActive       bool

	Rows          []AssetRow
	PageNumber    int
	PageCount     int
	HasPagination bool

	ProfitAndLoss     decimal.Decimal
	ProfitAndLossText string
	Trend             Trend

	HighlightedRowID int64

	ShowNewPortfolioButton bool
	ShowTable              bool
}
