package telebotConverter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KotFed0t/portfolio_dashboard_bot/internal/model"
	"github.com/KotFed0t/portfolio_dashboard_bot/internal/model/tg/tgCallback"
	"github.com/KotFed0t/portfolio_dashboard_bot/internal/service/transactionCoordinator"
	tele "gopkg.in/telebot.v4"
)

const portfoliosPerRow = 3

func trendEmoji(trend model.Trend) string {
	switch trend {
	case model.TrendUp:
		return "📈"
	case model.TrendDown:
		return "📉"
	default:
		return "➖"
	}
}

func DashboardResponse(view model.DashboardView) (text string, markup *tele.ReplyMarkup) {
	markup = &tele.ReplyMarkup{}
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("💰 Total balance: %s\n", view.TotalBalanceText))
	sb.WriteString(fmt.Sprintf("💱 Currency balance: %s\n\n", view.CurrencyBalanceText))

	if !view.ShowTable {
		sb.WriteString("You have no portfolios yet. Create the first one to start tracking your assets.")
		markup.Inline(markup.Row(markup.Data("➕ New portfolio", tgCallback.NewPortfolio)))
		return sb.String(), markup
	}

	rows := make([]tele.Row, 0, len(view.Rows)+4)
	rows = append(rows, portfolioRows(markup, view)...)

	if !view.HasActive {
		sb.WriteString("Select a portfolio.")
	} else {
		sb.WriteString(fmt.Sprintf("📊 Portfolio: %s\n\n", view.ActivePortfolio.Name))

		if len(view.Rows) == 0 {
			sb.WriteString("No transactions yet.\n")
		}

		for _, row := range view.Rows {
			marker := "▫️"
			if row.ID == view.HighlightedRowID {
				marker = "👉"
			}
			sb.WriteString(fmt.Sprintf("%s %s\n", marker, row.Symbol))
			sb.WriteString(fmt.Sprintf("   ▸ Price: %s\n", row.PriceText))
			sb.WriteString(fmt.Sprintf("   ▸ Holdings: %s\n", row.HoldingsText))
			sb.WriteString(fmt.Sprintf("   ▸ Spend: %s\n", row.SpendText))
			sb.WriteString(fmt.Sprintf("   ▸ Average cost: %s\n", row.AverageCostText))
			sb.WriteString(fmt.Sprintf("   ▸ Profit/loss: %s\n\n", row.ProfitAndLossText))

			rowID := strconv.FormatInt(row.ID, 10)
			rows = append(rows, markup.Row(
				markup.Data(row.Symbol, tgCallback.HighlightRow, rowID),
				markup.Data("Buy", tgCallback.RowAction, transactionCoordinator.ActionBuyToken+":"+rowID),
				markup.Data("Sell", tgCallback.RowAction, transactionCoordinator.ActionSellToken+":"+rowID),
			))
		}

		if view.HasPagination {
			sb.WriteString(fmt.Sprintf("Page %d/%d\n", view.PageNumber, view.PageCount))

			paginationBtns := make([]tele.Btn, 0, 2)
			if view.PageNumber > 1 {
				paginationBtns = append(paginationBtns, markup.Data("⬅️ previous", tgCallback.PrevPage))
			}
			if view.PageNumber < view.PageCount {
				paginationBtns = append(paginationBtns, markup.Data("next ➡️", tgCallback.NextPage))
			}
			rows = append(rows, markup.Row(paginationBtns...))
		}

		sb.WriteString(fmt.Sprintf("%s Profit/loss: %s", trendEmoji(view.Trend), view.ProfitAndLossText))
	}

	actionBtns := []tele.Btn{markup.Data("➕ Portfolio", tgCallback.NewPortfolio)}
	if view.HasActive {
		actionBtns = append(actionBtns,
			markup.Data("➕ Transaction", tgCallback.NewTransaction),
			markup.Data("📄 Report", tgCallback.Report),
			markup.Data("🗑 Delete", tgCallback.DeletePortfolio),
		)
	}
	rows = append(rows, markup.Row(actionBtns...))

	markup.Inline(rows...)

	return sb.String(), markup
}

func portfolioRows(markup *tele.ReplyMarkup, view model.DashboardView) []tele.Row {
	btns := make([]tele.Btn, 0, len(view.Portfolios))
	for _, portfolio := range view.Portfolios {
		name := portfolio.Name
		if view.HasActive && portfolio.ID == view.ActivePortfolio.ID {
			name = "• " + name
		}
		btns = append(btns, markup.Data(name, tgCallback.SelectPortfolio, strconv.FormatInt(portfolio.ID, 10)))
	}
	return markup.Split(portfoliosPerRow, btns)
}

func NotificationText(notification model.Notification) string {
	var emoji string
	switch notification.Severity {
	case model.SeveritySuccess:
		emoji = "✅"
	case model.SeverityError:
		emoji = "❌"
	case model.SeverityWarning:
		emoji = "⚠️"
	default:
		emoji = "ℹ️"
	}
	return fmt.Sprintf("%s %s\n%s", emoji, notification.Title, notification.Message)
}

// TransactionPrompt describes the position a transaction dialog was opened for.
func TransactionPrompt(prefill model.DraftPrefill) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("New %s transaction\n", prefill.Side))
	if prefill.Symbol != "" {
		sb.WriteString(fmt.Sprintf("Symbol: %s\n", prefill.Symbol))
		sb.WriteString(fmt.Sprintf("Price: %s\n", prefill.Price))
		sb.WriteString(fmt.Sprintf("Holdings: %s\n", prefill.Holdings))
		sb.WriteString(fmt.Sprintf("Average cost: %s\n", prefill.AverageCost))
		sb.WriteString(fmt.Sprintf("Profit/loss: %s\n", prefill.ProfitAndLoss))
	}
	sb.WriteString("Send /cancel to abort.")
	return sb.String()
}
