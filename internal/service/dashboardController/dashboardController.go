package dashboardController

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/KotFed0t/portfolio_dashboard_bot/internal/model"
	"github.com/KotFed0t/portfolio_dashboard_bot/internal/paginator"
	"github.com/KotFed0t/portfolio_dashboard_bot/internal/selectionState"
	"github.com/KotFed0t/portfolio_dashboard_bot/internal/service"
	"github.com/KotFed0t/portfolio_dashboard_bot/internal/service/transactionCoordinator"
	"github.com/KotFed0t/portfolio_dashboard_bot/internal/valuationEngine"
	"github.com/KotFed0t/portfolio_dashboard_bot/utils"
)

type Remote interface {
	transactionCoordinator.Remote
	FetchInvestmentSummary(ctx context.Context) (model.InvestmentSummary, error)
	FetchAssetAggregates(ctx context.Context, portfolioID int64) ([]model.AssetAggregate, error)
	FetchTransactions(ctx context.Context, portfolioID int64) ([]model.Transaction, error)
}

// Dialog collects user input. ok is false when the user cancelled or left the dialog unanswered.
type Dialog interface {
	AskPortfolioName(ctx context.Context) (name string, ok bool, err error)
	AskTransaction(ctx context.Context, prefill model.DraftPrefill) (input model.DraftInput, ok bool, err error)
}

type Notifier interface {
	Notify(ctx context.Context, notification model.Notification)
}

type SessionStore interface {
	GetSession(ctx context.Context, key string) (model.Session, error)
	SetSession(ctx context.Context, key string, session model.Session) error
}

type Reporter interface {
	Export(ctx context.Context, report model.PortfolioReport) (downloadLink string, err error)
}

type state struct {
	summary    model.InvestmentSummary
	portfolios []model.Portfolio
	rows       []model.AssetRow
	selection  selectionState.State
	pageNumber int
}

// DashboardController owns the dashboard state of one chat.
// The mutex is never held across remote calls, so the last response to land wins.
type DashboardController struct {
	sessionKey  string
	pageSize    int
	engine      *valuationEngine.Engine
	remote      Remote
	coordinator *transactionCoordinator.TransactionCoordinator
	dialog      Dialog
	notifier    Notifier
	sessions    SessionStore
	reporter    Reporter

	isLoading atomic.Bool

	mu    sync.Mutex
	state state
}

func New(
	sessionKey string,
	pageSize int,
	engine *valuationEngine.Engine,
	remote Remote,
	verifier transactionCoordinator.SymbolVerifier,
	dialog Dialog,
	notifier Notifier,
	sessions SessionStore,
	reporter Reporter,
	restored model.Session,
) *DashboardController {
	return &DashboardController{
		sessionKey:  sessionKey,
		pageSize:    pageSize,
		engine:      engine,
		remote:      remote,
		coordinator: transactionCoordinator.New(remote, verifier),
		dialog:      dialog,
		notifier:    notifier,
		sessions:    sessions,
		reporter:    reporter,
		state: state{
			selection:  selectionState.State{PortfolioID: restored.PortfolioID},
			pageNumber: max(1, restored.PageNumber),
		},
	}
}

type pickFn func(portfolios []model.Portfolio, current selectionState.State) int64

// keepOrFirst keeps the active portfolio when it still exists, otherwise selects the first one.
func keepOrFirst(portfolios []model.Portfolio, current selectionState.State) int64 {
	if len(portfolios) == 0 {
		return selectionState.NoSelection
	}
	if portfolio, ok := current.Active(portfolios); ok {
		return portfolio.ID
	}
	return portfolios[0].ID
}

func last(portfolios []model.Portfolio, _ selectionState.State) int64 {
	if len(portfolios) == 0 {
		return selectionState.NoSelection
	}
	return portfolios[len(portfolios)-1].ID
}

// Load fetches the investment summary and portfolio list and selects a portfolio.
func (c *DashboardController) Load(ctx context.Context) error {
	return c.reload(ctx, keepOrFirst)
}

func (c *DashboardController) reload(ctx context.Context, pick pickFn) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "DashboardController.reload"

	slog.Debug("reload start", slog.String("rqID", rqID), slog.String("op", op), slog.String("sessionKey", c.sessionKey))
	defer func() {
		slog.Debug("reload finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("sessionKey", c.sessionKey))
	}()

	summary, err := c.remote.FetchInvestmentSummary(ctx)
	if err != nil {
		slog.Error("got error from remote.FetchInvestmentSummary", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		remoteErr := service.NewRemoteServiceError(op, err)
		c.notifyError(ctx, "Error", remoteErr)
		return remoteErr
	}

	c.mu.Lock()
	target := pick(summary.Portfolios, c.state.selection)
	next, _, _ := c.state.selection.SelectPortfolio(summary.Portfolios, target)
	c.mu.Unlock()

	if target == selectionState.NoSelection {
		c.mu.Lock()
		c.state.summary = summary
		c.state.portfolios = summary.Portfolios
		c.state.selection = selectionState.State{}
		c.state.rows = nil
		c.state.pageNumber = 1
		c.mu.Unlock()
		c.saveSession(ctx)
		return nil
	}

	return c.loadPortfolioDetails(ctx, next, &summary)
}

// SelectPortfolio makes portfolioID active and loads its rows.
// An unknown id leaves no portfolio selected and is not an error.
func (c *DashboardController) SelectPortfolio(ctx context.Context, portfolioID int64) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "DashboardController.SelectPortfolio"

	c.mu.Lock()
	next, _, ok := c.state.selection.SelectPortfolio(c.state.portfolios, portfolioID)
	c.mu.Unlock()

	if !ok {
		slog.Warn("portfolio not found in list", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("portfolioID", portfolioID))

		c.mu.Lock()
		if c.state.selection.PortfolioID != next.PortfolioID {
			c.state.pageNumber = 1
		}
		c.state.selection = next
		c.state.rows = nil
		c.mu.Unlock()

		c.saveSession(ctx)
		return nil
	}

	return c.loadPortfolioDetails(ctx, next, nil)
}

// loadPortfolioDetails fetches the rows of next.PortfolioID and commits them together with next
// and, when given, the summary. State is left untouched when the fetch fails or another load is running.
func (c *DashboardController) loadPortfolioDetails(ctx context.Context, next selectionState.State, summary *model.InvestmentSummary) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "DashboardController.loadPortfolioDetails"
	portfolioID := next.PortfolioID

	if !c.isLoading.CompareAndSwap(false, true) {
		slog.Warn("portfolio details are already loading", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("portfolioID", portfolioID))
		return nil
	}
	defer c.isLoading.Store(false)

	slog.Debug("loadPortfolioDetails start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("portfolioID", portfolioID))
	defer func() {
		slog.Debug("loadPortfolioDetails finished", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("portfolioID", portfolioID))
	}()

	aggregates, err := c.remote.FetchAssetAggregates(ctx, portfolioID)
	if err != nil {
		slog.Error("got error from remote.FetchAssetAggregates", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		remoteErr := service.NewRemoteServiceError(op, err)
		c.notifyError(ctx, "Error", remoteErr)
		return remoteErr
	}

	rows := c.engine.ComputeRows(aggregates)

	c.mu.Lock()
	if summary != nil {
		c.state.summary = *summary
		c.state.portfolios = summary.Portfolios
	}
	if c.state.selection.PortfolioID != portfolioID {
		c.state.pageNumber = 1
	}
	c.state.selection = next
	c.state.rows = rows
	c.state.pageNumber = paginator.Clamp(c.state.pageNumber, paginator.PageCount(len(rows), c.pageSize))
	c.mu.Unlock()

	c.saveSession(ctx)

	return nil
}

func (c *DashboardController) NextPage(ctx context.Context) {
	c.mu.Lock()
	count := paginator.PageCount(len(c.state.rows), c.pageSize)
	c.state.pageNumber = paginator.Next(c.state.pageNumber, count)
	c.mu.Unlock()

	c.saveSession(ctx)
}

func (c *DashboardController) PrevPage(ctx context.Context) {
	c.mu.Lock()
	c.state.pageNumber = paginator.Prev(c.state.pageNumber)
	c.mu.Unlock()

	c.saveSession(ctx)
}

func (c *DashboardController) HighlightRow(rowID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.selection = c.state.selection.HighlightRow(rowID)
}

func (c *DashboardController) CreatePortfolio(ctx context.Context) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "DashboardController.CreatePortfolio"

	name, ok, err := c.dialog.AskPortfolioName(ctx)
	if err != nil {
		slog.Error("got error from dialog.AskPortfolioName", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		c.notifyError(ctx, "Error", err)
		return err
	}
	if !ok {
		name = ""
	}

	c.mu.Lock()
	portfolios := c.state.portfolios
	c.mu.Unlock()

	portfolios, created, err := c.coordinator.CreatePortfolio(ctx, portfolios, name)
	if err != nil {
		c.notifyError(ctx, "Portfolio creation failed", err)
		return err
	}

	c.mu.Lock()
	c.state.portfolios = portfolios
	c.mu.Unlock()

	c.notify(ctx, "Success", "Portfolio created successfully", model.SeveritySuccess)

	return c.SelectPortfolio(ctx, created.ID)
}

// CreateTransaction opens an empty Buy dialog for the active portfolio.
func (c *DashboardController) CreateTransaction(ctx context.Context) error {
	return c.runTransaction(ctx, model.DraftPrefill{Side: model.SideBuy})
}

// HandleRowAction opens a dialog prefilled from the row. Unknown actions and rows are ignored.
func (c *DashboardController) HandleRowAction(ctx context.Context, action string, rowID int64) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "DashboardController.HandleRowAction"

	c.mu.Lock()
	idx := slices.IndexFunc(c.state.rows, func(row model.AssetRow) bool { return row.ID == rowID })
	var row model.AssetRow
	if idx >= 0 {
		row = c.state.rows[idx]
	}
	c.mu.Unlock()

	if idx < 0 {
		slog.Warn("row not found", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("rowID", rowID))
		return nil
	}

	prefill, ok := transactionCoordinator.PrefillFromRow(action, row)
	if !ok {
		slog.Debug("unknown row action ignored", slog.String("rqID", rqID), slog.String("op", op), slog.String("action", action))
		return nil
	}

	c.mu.Lock()
	if c.state.selection.RowID != rowID {
		c.state.selection = c.state.selection.HighlightRow(rowID)
	}
	c.mu.Unlock()

	return c.runTransaction(ctx, prefill)
}

func (c *DashboardController) runTransaction(ctx context.Context, prefill model.DraftPrefill) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "DashboardController.runTransaction"

	c.mu.Lock()
	portfolio, hasActive := c.state.selection.Active(c.state.portfolios)
	c.mu.Unlock()

	if !hasActive {
		c.notifyError(ctx, "Error", service.ErrInvalidSelection)
		return service.ErrInvalidSelection
	}

	input, ok, err := c.dialog.AskTransaction(ctx, prefill)
	if err != nil {
		slog.Error("got error from dialog.AskTransaction", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		c.notifyError(ctx, "Error", err)
		return err
	}
	if !ok {
		validationErr := service.NewValidationError("draft", "Incorrectly entered parameters")
		c.notifyError(ctx, "Error", validationErr)
		return validationErr
	}

	draft := transactionCoordinator.NewDraft(portfolio.ID, prefill, input)

	attempt, err := c.coordinator.SubmitTransaction(ctx, draft)
	if err != nil {
		c.notifyError(ctx, "Transaction Failed", err)
		return err
	}

	c.notify(
		ctx,
		"Transaction completed",
		fmt.Sprintf("%s %s %s for %s", attempt.Draft.Side, attempt.Draft.Quantity, attempt.Draft.Symbol, c.engine.FormatSummary(attempt.Draft.Amount)),
		model.SeveritySuccess,
	)

	c.refreshSummary(ctx)

	c.mu.Lock()
	current := c.state.selection
	c.mu.Unlock()
	if current.PortfolioID != portfolio.ID {
		current = selectionState.State{PortfolioID: portfolio.ID}
	}

	return c.loadPortfolioDetails(ctx, current, nil)
}

// refreshSummary updates the summary figures only, keeping the portfolio list and selection.
func (c *DashboardController) refreshSummary(ctx context.Context) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "DashboardController.refreshSummary"

	summary, err := c.remote.FetchInvestmentSummary(ctx)
	if err != nil {
		slog.Warn("can't refresh summary", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return
	}

	c.mu.Lock()
	c.state.summary.TotalBalance = summary.TotalBalance
	c.state.summary.CurrencyBalance = summary.CurrencyBalance
	c.mu.Unlock()
}

// DeletePortfolio deletes the active portfolio, reloads the list and activates its last entry.
func (c *DashboardController) DeletePortfolio(ctx context.Context) error {
	c.mu.Lock()
	portfolio, _ := c.state.selection.Active(c.state.portfolios)
	c.mu.Unlock()

	err := c.coordinator.DeletePortfolio(ctx, portfolio.ID)
	if err != nil {
		c.notifyError(ctx, "Failed to delete portfolio", err)
		return err
	}

	c.notify(ctx, "Success", fmt.Sprintf("Portfolio %s was successfully deleted.", portfolio.Name), model.SeveritySuccess)

	return c.reload(ctx, last)
}

// ExportReport builds a report of the active portfolio and returns its download link.
func (c *DashboardController) ExportReport(ctx context.Context) (string, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "DashboardController.ExportReport"

	c.mu.Lock()
	portfolio, hasActive := c.state.selection.Active(c.state.portfolios)
	report := model.PortfolioReport{
		Portfolio:     portfolio,
		Summary:       c.state.summary,
		Rows:          slices.Clone(c.state.rows),
		ProfitAndLoss: valuationEngine.AggregateProfitAndLoss(c.state.rows),
		CreatedAt:     time.Now(),
	}
	c.mu.Unlock()

	if !hasActive {
		c.notifyError(ctx, "Error", service.ErrInvalidSelection)
		return "", service.ErrInvalidSelection
	}

	transactions, err := c.remote.FetchTransactions(ctx, portfolio.ID)
	if err != nil {
		slog.Error("got error from remote.FetchTransactions", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		remoteErr := service.NewRemoteServiceError(op, err)
		c.notifyError(ctx, "Report failed", remoteErr)
		return "", remoteErr
	}
	report.Transactions = transactions

	link, err := c.reporter.Export(ctx, report)
	if err != nil {
		slog.Error("got error from reporter.Export", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		remoteErr := service.NewRemoteServiceError(op, err)
		c.notifyError(ctx, "Report failed", remoteErr)
		return "", remoteErr
	}

	return link, nil
}

// View returns a snapshot of the state for rendering.
func (c *DashboardController) View() model.DashboardView {
	c.mu.Lock()
	defer c.mu.Unlock()

	page := paginator.Paginate(c.state.rows, c.pageSize, c.state.pageNumber)
	active, hasActive := c.state.selection.Active(c.state.portfolios)
	pnl := valuationEngine.AggregateProfitAndLoss(c.state.rows)

	return model.DashboardView{
		TotalBalanceText:    c.engine.FormatSummary(c.state.summary.TotalBalance),
		CurrencyBalanceText: c.engine.FormatSummary(c.state.summary.CurrencyBalance),

		Portfolios:      slices.Clone(c.state.portfolios),
		ActivePortfolio: active,
		HasActive:       hasActive,

		Rows:          slices.Clone(page.Items),
		PageNumber:    page.Number,
		PageCount:     page.Count,
		HasPagination: page.Controls,

		ProfitAndLoss:     pnl,
		ProfitAndLossText: c.engine.Format(pnl, valuationEngine.AssetPlaces),
		Trend:             valuationEngine.Classify(pnl.Round(valuationEngine.AssetPlaces)),

		HighlightedRowID: c.state.selection.RowID,

		ShowNewPortfolioButton: len(c.state.portfolios) > 0,
		ShowTable:              len(c.state.portfolios) > 0,
	}
}

func (c *DashboardController) saveSession(ctx context.Context) {
	rqID := utils.GetRequestIDFromCtx(ctx)

	c.mu.Lock()
	session := model.Session{
		PortfolioID: c.state.selection.PortfolioID,
		PageNumber:  c.state.pageNumber,
	}
	c.mu.Unlock()

	err := c.sessions.SetSession(ctx, c.sessionKey, session)
	if err != nil {
		slog.Error("got error from sessions.SetSession", slog.String("rqID", rqID), slog.String("err", err.Error()))
	}
}

func (c *DashboardController) notify(ctx context.Context, title, message string, severity model.Severity) {
	c.notifier.Notify(ctx, model.Notification{Title: title, Message: message, Severity: severity})
}

func (c *DashboardController) notifyError(ctx context.Context, title string, err error) {
	c.notify(ctx, title, service.UserMessage(err), model.SeverityError)
}
