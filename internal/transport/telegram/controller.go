package telegram

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/KotFed0t/portfolio_dashboard_bot/internal/converter/telebotConverter"
	"github.com/KotFed0t/portfolio_dashboard_bot/internal/service/dashboardController"
	"github.com/KotFed0t/portfolio_dashboard_bot/utils"
	tele "gopkg.in/telebot.v4"
)

const (
	internalErrMsg = "something went wrong..."
	noDialogMsg    = "Use /start to open the dashboard or one of the commands first."
	cancelledMsg   = "Cancelled."
	nothingToStop  = "Nothing to cancel."
)

type Registry interface {
	Get(ctx context.Context, chatID int64) (*dashboardController.DashboardController, error)
}

type Controller struct {
	registry Registry
	dialogs  *Dialogs
}

func NewController(registry Registry, dialogs *Dialogs) *Controller {
	return &Controller{
		registry: registry,
		dialogs:  dialogs,
	}
}

func (ctrl *Controller) dashboard(ctx context.Context, c tele.Context) (*dashboardController.DashboardController, error) {
	dashboard, err := ctrl.registry.Get(ctx, c.Chat().ID)
	if err != nil {
		slog.Error(
			"got error from registry.Get",
			slog.String("rqID", utils.GetRequestIDFromCtx(ctx)),
			slog.Int64("chatID", c.Chat().ID),
			slog.String("err", err.Error()),
		)
		return nil, err
	}
	return dashboard, nil
}

func (ctrl *Controller) sendDashboard(c tele.Context, dashboard *dashboardController.DashboardController) error {
	text, markup := telebotConverter.DashboardResponse(dashboard.View())
	return c.Send(text, markup)
}

func (ctrl *Controller) editDashboard(c tele.Context, dashboard *dashboardController.DashboardController) error {
	_ = c.Respond()
	text, markup := telebotConverter.DashboardResponse(dashboard.View())
	err := c.Edit(text, markup)
	if errors.Is(err, tele.ErrSameMessageContent) {
		return nil
	}
	return err
}

func (ctrl *Controller) Start(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	dashboard, err := ctrl.dashboard(ctx, c)
	if err != nil {
		return c.Send(internalErrMsg)
	}

	_ = dashboard.Load(ctx)
	return ctrl.sendDashboard(c, dashboard)
}

// withDashboard runs a dialog driven action and shows the dashboard afterwards.
func (ctrl *Controller) withDashboard(c tele.Context, action func(context.Context, *dashboardController.DashboardController) error) error {
	ctx := utils.CreateCtxWithRqID(c)

	if c.Callback() != nil {
		_ = c.Respond()
	}

	dashboard, err := ctrl.dashboard(ctx, c)
	if err != nil {
		return c.Send(internalErrMsg)
	}

	// failures are already reported to the chat by the notifier
	_ = action(ctx, dashboard)
	return ctrl.sendDashboard(c, dashboard)
}

func (ctrl *Controller) NewPortfolio(c tele.Context) error {
	return ctrl.withDashboard(c, func(ctx context.Context, d *dashboardController.DashboardController) error {
		return d.CreatePortfolio(ctx)
	})
}

func (ctrl *Controller) NewTransaction(c tele.Context) error {
	return ctrl.withDashboard(c, func(ctx context.Context, d *dashboardController.DashboardController) error {
		return d.CreateTransaction(ctx)
	})
}

func (ctrl *Controller) DeletePortfolio(c tele.Context) error {
	return ctrl.withDashboard(c, func(ctx context.Context, d *dashboardController.DashboardController) error {
		return d.DeletePortfolio(ctx)
	})
}

func (ctrl *Controller) RowAction(c tele.Context) error {
	action, rawRowID, found := strings.Cut(c.Callback().Data, ":")
	rowID, err := strconv.ParseInt(rawRowID, 10, 64)
	if !found || err != nil {
		slog.Error("invalid row action callback", slog.String("data", c.Callback().Data))
		return c.Respond()
	}

	return ctrl.withDashboard(c, func(ctx context.Context, d *dashboardController.DashboardController) error {
		return d.HandleRowAction(ctx, action, rowID)
	})
}

func (ctrl *Controller) Report(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	if c.Callback() != nil {
		_ = c.Respond()
	}

	dashboard, err := ctrl.dashboard(ctx, c)
	if err != nil {
		return c.Send(internalErrMsg)
	}

	link, err := dashboard.ExportReport(ctx)
	if err != nil {
		return nil
	}

	return c.Send("Report is ready: " + link)
}

func (ctrl *Controller) Cancel(c tele.Context) error {
	if ctrl.dialogs.Cancel(c.Chat().ID) {
		return c.Send(cancelledMsg)
	}
	return c.Send(nothingToStop)
}

func (ctrl *Controller) OnText(c tele.Context) error {
	if ctrl.dialogs.Deliver(c.Chat().ID, c.Text()) {
		return nil
	}
	return c.Send(noDialogMsg)
}

func (ctrl *Controller) SelectPortfolio(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	portfolioID, err := strconv.ParseInt(c.Callback().Data, 10, 64)
	if err != nil {
		slog.Error("invalid portfolio id in callback", slog.String("data", c.Callback().Data))
		return c.Respond()
	}

	dashboard, err := ctrl.dashboard(ctx, c)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: internalErrMsg})
	}

	_ = dashboard.SelectPortfolio(ctx, portfolioID)
	return ctrl.editDashboard(c, dashboard)
}

func (ctrl *Controller) NextPage(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	dashboard, err := ctrl.dashboard(ctx, c)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: internalErrMsg})
	}

	dashboard.NextPage(ctx)
	return ctrl.editDashboard(c, dashboard)
}

func (ctrl *Controller) PrevPage(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	dashboard, err := ctrl.dashboard(ctx, c)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: internalErrMsg})
	}

	dashboard.PrevPage(ctx)
	return ctrl.editDashboard(c, dashboard)
}

func (ctrl *Controller) HighlightRow(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	rowID, err := strconv.ParseInt(c.Callback().Data, 10, 64)
	if err != nil {
		slog.Error("invalid row id in callback", slog.String("data", c.Callback().Data))
		return c.Respond()
	}

	dashboard, err := ctrl.dashboard(ctx, c)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: internalErrMsg})
	}

	dashboard.HighlightRow(rowID)
	return ctrl.editDashboard(c, dashboard)
}
