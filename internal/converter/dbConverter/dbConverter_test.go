package dbConverter

import (
	"testing"

	"github.com/KotFed0t/portfolio_dashboard_bot/internal/model"
	"github.com/KotFed0t/portfolio_dashboard_bot/internal/model/dbModel"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestConvertAssetAggregateNullsBecomeZero(t *testing.T) {
	aggregate := ConvertAssetAggregate(dbModel.AssetAggregate{
		AssetID:       3,
		Symbol:        "ETH",
		TotalQuantity: decimal.NewNullDecimal(decimal.NewFromInt(2)),
	})

	assert.Equal(t, int64(3), aggregate.ID)
	assert.Equal(t, "ETH", aggregate.Symbol)
	assert.True(t, aggregate.Price.IsZero())
	assert.True(t, aggregate.Cost.IsZero())
	assert.True(t, aggregate.Quantity.Equal(decimal.NewFromInt(2)))
}

func TestConvertTransactionSide(t *testing.T) {
	transaction := ConvertTransaction(dbModel.Transaction{Symbol: "BTC", Side: "Sell"})
	assert.Equal(t, model.SideSell, transaction.Side)
}
