package model

import "github.com/shopspring/decimal"

// AssetAggregate holds server computed running totals for one asset within one portfolio.
type AssetAggregate struct {
	ID       int64
	Symbol   string
	Price    decimal.Decimal
	Quantity decimal.Decimal
	Cost     decimal.Decimal
}

// AssetRow is the display representation of one asset position.
// Numeric fields are unrounded, *Text fields are formatted for display.
type AssetRow struct {
	ID            int64
	Symbol        string
	Price         decimal.Decimal
	Holdings      decimal.Decimal
	Spend         decimal.Decimal
	AverageCost   decimal.Decimal
	ProfitAndLoss decimal.Decimal

	PriceText         string
	HoldingsText      string
	SpendText         string
	AverageCostText   string
	ProfitAndLossText string
}

type Trend int

const (
	TrendNeutral Trend = iota
	TrendUp
	TrendDown
)

func (t Trend) String() string {
	switch t {
	case TrendUp:
		return "up"
	case TrendDown:
		return "down"
	default:
		return "neutral"
	}
}

type Quote struct {
	Symbol string
	Price  decimal.Decimal
}
