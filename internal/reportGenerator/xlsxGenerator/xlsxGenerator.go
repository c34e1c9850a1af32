package xlsxGenerator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KotFed0t/portfolio_dashboard_bot/internal/model"
	"github.com/KotFed0t/portfolio_dashboard_bot/utils"
	"github.com/xuri/excelize/v2"
)

const (
	sheetName = "Portfolio"

	colorSummary      = "#cfe2f3"
	colorAssets       = "#d9ead3"
	colorTransactions = "#cccccc"

	dateFormat = "2006-01-02 15:04:05"
)

type XLSXGenerator struct{}

func New() *XLSXGenerator {
	return &XLSXGenerator{}
}

// Generate renders the portfolio report into a single xlsx sheet: summary, assets and transaction history.
func (g *XLSXGenerator) Generate(ctx context.Context, report model.PortfolioReport) (fileBytes []byte, fileExtension string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "XLSXGenerator.Generate"

	slog.Debug("Generate start", slog.String("rqID", rqID), slog.String("op", op))

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("got error while closing file", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	if err = f.SetSheetName("Sheet1", sheetName); err != nil {
		slog.Error("got error while renaming Sheet1", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	rowNum, err := g.fillSummary(f, report, 1)
	if err != nil {
		return nil, "", err
	}

	rowNum, err = g.fillAssets(f, report, rowNum+2)
	if err != nil {
		return nil, "", err
	}

	err = g.fillTransactions(f, report, rowNum+2)
	if err != nil {
		return nil, "", err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		slog.Error("got error while Saving file to bytes buffer", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	slog.Debug("Generate completed", slog.String("rqID", rqID), slog.String("op", op))

	return buf.Bytes(), ".xlsx", nil
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// sectionHeader merges from..to on row and paints the title.
func (g *XLSXGenerator) sectionHeader(f *excelize.File, row int, from, to, title, color string) error {
	if err := f.MergeCell(sheetName, cell(from, row), cell(to, row)); err != nil {
		return err
	}

	if err := f.SetCellStr(sheetName, cell(from, row), title); err != nil {
		return err
	}

	styleID, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Font: &excelize.Font{
			Bold: true,
			Size: 11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{color},
		},
	})
	if err != nil {
		return err
	}

	if err := f.SetCellStyle(sheetName, cell(from, row), cell(from, row), styleID); err != nil {
		return fmt.Errorf("apply style: %w", err)
	}

	return nil
}

func (g *XLSXGenerator) fillSummary(f *excelize.File, report model.PortfolioReport, rowNum int) (int, error) {
	if err := g.sectionHeader(f, rowNum, "A", "B", report.Portfolio.Name, colorSummary); err != nil {
		return 0, err
	}

	lines := []struct {
		name  string
		value float64
	}{
		{"total balance", report.Summary.TotalBalance.InexactFloat64()},
		{"currency balance", report.Summary.CurrencyBalance.InexactFloat64()},
		{"profit/loss", report.ProfitAndLoss.InexactFloat64()},
	}

	for _, line := range lines {
		rowNum++
		_ = f.SetCellStr(sheetName, cell("A", rowNum), line.name)
		_ = f.SetCellFloat(sheetName, cell("B", rowNum), line.value, -1, 64)
	}

	rowNum++
	_ = f.SetCellStr(sheetName, cell("A", rowNum), "created at")
	_ = f.SetCellStr(sheetName, cell("B", rowNum), report.CreatedAt.Format(dateFormat))

	return rowNum, nil
}

func (g *XLSXGenerator) fillAssets(f *excelize.File, report model.PortfolioReport, rowNum int) (int, error) {
	if err := g.sectionHeader(f, rowNum, "A", "F", "Assets", colorAssets); err != nil {
		return 0, err
	}

	rowNum++
	_ = f.SetCellStr(sheetName, cell("A", rowNum), "symbol")
	_ = f.SetCellStr(sheetName, cell("B", rowNum), "price")
	_ = f.SetCellStr(sheetName, cell("C", rowNum), "holdings")
	_ = f.SetCellStr(sheetName, cell("D", rowNum), "spend")
	_ = f.SetCellStr(sheetName, cell("E", rowNum), "average cost")
	_ = f.SetCellStr(sheetName, cell("F", rowNum), "profit/loss")

	for _, row := range report.Rows {
		rowNum++
		_ = f.SetCellStr(sheetName, cell("A", rowNum), row.Symbol)
		_ = f.SetCellFloat(sheetName, cell("B", rowNum), row.Price.InexactFloat64(), -1, 64)
		_ = f.SetCellFloat(sheetName, cell("C", rowNum), row.Holdings.InexactFloat64(), -1, 64)
		_ = f.SetCellFloat(sheetName, cell("D", rowNum), row.Spend.InexactFloat64(), -1, 64)
		_ = f.SetCellFloat(sheetName, cell("E", rowNum), row.AverageCost.InexactFloat64(), -1, 64)
		_ = f.SetCellFloat(sheetName, cell("F", rowNum), row.ProfitAndLoss.InexactFloat64(), -1, 64)
	}

	return rowNum, nil
}

func (g *XLSXGenerator) fillTransactions(f *excelize.File, report model.PortfolioReport, rowNum int) error {
	if err := g.sectionHeader(f, rowNum, "A", "E", "Transaction history", colorTransactions); err != nil {
		return err
	}

	rowNum++
	_ = f.SetCellStr(sheetName, cell("A", rowNum), "symbol")
	_ = f.SetCellStr(sheetName, cell("B", rowNum), "side")
	_ = f.SetCellStr(sheetName, cell("C", rowNum), "quantity")
	_ = f.SetCellStr(sheetName, cell("D", rowNum), "amount")
	_ = f.SetCellStr(sheetName, cell("E", rowNum), "date")

	for _, transaction := range report.Transactions {
		rowNum++
		_ = f.SetCellStr(sheetName, cell("A", rowNum), transaction.Symbol)
		_ = f.SetCellStr(sheetName, cell("B", rowNum), string(transaction.Side))
		_ = f.SetCellFloat(sheetName, cell("C", rowNum), transaction.Quantity.InexactFloat64(), -1, 64)
		_ = f.SetCellFloat(sheetName, cell("D", rowNum), transaction.Amount.InexactFloat64(), -1, 64)
		_ = f.SetCellStr(sheetName, cell("E", rowNum), transaction.DtCreate.Format(dateFormat))
	}

	return nil
}
