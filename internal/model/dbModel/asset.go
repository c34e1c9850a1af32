package dbModel

import (
	"time"

	"github.com/shopspring/decimal"
)

type AssetAggregate struct {
	AssetID       int64               `db:"asset_id"`
	Symbol        string              `db:"symbol"`
	Price         decimal.NullDecimal `db:"price"`
	TotalQuantity decimal.NullDecimal `db:"total_quantity"`
	TotalCost     decimal.NullDecimal `db:"total_cost"`
}

type Transaction struct {
	Symbol   string          `db:"symbol"`
	Side     string          `db:"side"`
	Quantity decimal.Decimal `db:"quantity"`
	Amount   decimal.Decimal `db:"amount"`
	DtCreate time.Time       `db:"dt_create"`
}
