package telebotConverter

import (
	"testing"

	"github.com/KotFed0t/portfolio_dashboard_bot/internal/model"
	"github.com/KotFed0t/portfolio_dashboard_bot/internal/model/tg/tgCallback"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardResponseEmpty(t *testing.T) {
	text, markup := DashboardResponse(model.DashboardView{TotalBalanceText: "$0.00", CurrencyBalanceText: "$0.00"})

	assert.Contains(t, text, "no portfolios")
	require.Len(t, markup.InlineKeyboard, 1)
	assert.Equal(t, tgCallback.NewPortfolio, markup.InlineKeyboard[0][0].Unique)
}

func TestDashboardResponse(t *testing.T) {
	view := model.DashboardView{
		TotalBalanceText:    "$100.00",
		CurrencyBalanceText: "$50.00",
		Portfolios:          []model.Portfolio{{ID: 1, Name: "Main"}, {ID: 2, Name: "Alt"}},
		ActivePortfolio:     model.Portfolio{ID: 1, Name: "Main"},
		HasActive:           true,
		Rows: []model.AssetRow{
			{ID: 7, Symbol: "BTC", PriceText: "$5.00", ProfitAndLossText: "$-50.0000"},
		},
		PageNumber:        2,
		PageCount:         3,
		HasPagination:     true,
		ProfitAndLossText: "$-50.0000",
		Trend:             model.TrendDown,
		HighlightedRowID:  7,
		ShowTable:         true,
	}

	text, markup := DashboardResponse(view)

	assert.Contains(t, text, "Portfolio: Main")
	assert.Contains(t, text, "👉 BTC")
	assert.Contains(t, text, "Page 2/3")
	assert.Contains(t, text, "📉 Profit/loss: $-50.0000")

	keyboard := markup.InlineKeyboard
	require.Len(t, keyboard, 4)

	assert.Equal(t, "• Main", keyboard[0][0].Text)
	assert.Equal(t, "2", keyboard[0][1].Data)

	require.Len(t, keyboard[1], 3)
	assert.Equal(t, tgCallback.HighlightRow, keyboard[1][0].Unique)
	assert.Equal(t, "7", keyboard[1][0].Data)
	assert.Equal(t, tgCallback.RowAction, keyboard[1][2].Unique)
	assert.Equal(t, "sell_token:7", keyboard[1][2].Data)

	require.Len(t, keyboard[2], 2)
	assert.Equal(t, tgCallback.PrevPage, keyboard[2][0].Unique)
	assert.Equal(t, tgCallback.NextPage, keyboard[2][1].Unique)

	assert.Len(t, keyboard[3], 4)
}

func TestNotificationText(t *testing.T) {
	text := NotificationText(model.Notification{Title: "Error", Message: "Invalid", Severity: model.SeverityError})
	assert.Equal(t, "❌ Error\nInvalid", text)
}

func TestTransactionPrompt(t *testing.T) {
	assert.Equal(t, "New Buy transaction\nSend /cancel to abort.", TransactionPrompt(model.DraftPrefill{Side: model.SideBuy}))
	assert.Contains(t, TransactionPrompt(model.DraftPrefill{Side: model.SideSell, Symbol: "ETH"}), "Symbol: ETH")
}
