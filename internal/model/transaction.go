package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Side string

const (
	SideBuy  Side = "Buy"
	SideSell Side = "Sell"
)

type TransactionDraft struct {
	PortfolioID int64
	Side        Side
	Symbol      string
	Quantity    decimal.Decimal
	Amount      decimal.Decimal
}

// DraftInput is what the user entered in a transaction dialog.
type DraftInput struct {
	Symbol   string
	Quantity decimal.Decimal
	Amount   decimal.Decimal
}

// DraftPrefill is the context a row action opens the transaction dialog with.
type DraftPrefill struct {
	Side          Side
	Symbol        string
	Price         string
	Holdings      string
	AverageCost   string
	ProfitAndLoss string
}

type DraftStatus int

const (
	DraftEditing DraftStatus = iota
	DraftValidating
	DraftVerifying
	DraftSubmitting
	DraftCommitted
	DraftRejected
)

func (s DraftStatus) String() string {
	switch s {
	case DraftEditing:
		return "editing"
	case DraftValidating:
		return "validating"
	case DraftVerifying:
		return "verifying"
	case DraftSubmitting:
		return "submitting"
	case DraftCommitted:
		return "committed"
	case DraftRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

type Transaction struct {
	Symbol   string
	Side     Side
	Quantity decimal.Decimal
	Amount   decimal.Decimal
	DtCreate time.Time
}
