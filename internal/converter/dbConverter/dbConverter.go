package dbConverter

import (
	"github.com/KotFed0t/portfolio_dashboard_bot/internal/model"
	"github.com/KotFed0t/portfolio_dashboard_bot/internal/model/dbModel"
)

// ConvertAssetAggregate maps NULL totals and prices to zero.
func ConvertAssetAggregate(dbAggregate dbModel.AssetAggregate) model.AssetAggregate {
	return model.AssetAggregate{
		ID:       dbAggregate.AssetID,
		Symbol:   dbAggregate.Symbol,
		Price:    dbAggregate.Price.Decimal,
		Quantity: dbAggregate.TotalQuantity.Decimal,
		Cost:     dbAggregate.TotalCost.Decimal,
	}
}

func ConvertTransaction(dbTransaction dbModel.Transaction) model.Transaction {
	return model.Transaction{
		Symbol:   dbTransaction.Symbol,
		Side:     model.Side(dbTransaction.Side),
		Quantity: dbTransaction.Quantity,
		Amount:   dbTransaction.Amount,
		DtCreate: dbTransaction.DtCreate,
	}
}

func ConvertPortfolio(dbPortfolio dbModel.Portfolio) model.Portfolio {
	return model.Portfolio{
		ID:   dbPortfolio.PortfolioID,
		Name: dbPortfolio.Name,
	}
}
