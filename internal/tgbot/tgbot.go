package tgbot

import (
	"log/slog"

	"github.com/KotFed0t/portfolio_dashboard_bot/config"
	"github.com/KotFed0t/portfolio_dashboard_bot/internal/model/tg/tgCallback"
	"github.com/KotFed0t/portfolio_dashboard_bot/internal/transport/telegram"
	customMW "github.com/KotFed0t/portfolio_dashboard_bot/internal/transport/telegram/middleware"
	tele "gopkg.in/telebot.v4"
	"gopkg.in/telebot.v4/middleware"
)

type TGBot struct {
	bot *tele.Bot
}

func New(cfg *config.Config) *TGBot {
	settings := tele.Settings{
		Token:  cfg.Telegram.Token,
		Poller: &tele.LongPoller{Timeout: cfg.Telegram.UpdTimeout},
	}

	b, err := tele.NewBot(settings)
	if err != nil {
		slog.Error("error while tele.NewBot", slog.String("err", err.Error()))
		panic(err)
	}

	return &TGBot{bot: b}
}

// Bot is exposed for the dialogs and notifiers that write to chats outside of handlers.
func (b *TGBot) Bot() *tele.Bot {
	return b.bot
}

func (b *TGBot) Start(ctrl *telegram.Controller) {
	b.bot.Use(middleware.Recover(), customMW.Logger(), customMW.RequireChat())

	b.setupRoutes(ctrl)

	go b.bot.Start()
	slog.Info("tgbot started!")
}

func (b *TGBot) Stop() {
	slog.Info("start stopping tgbot")
	b.bot.Stop()
	slog.Info("tgbot stopped")
}

func callback(unique string) string {
	return "\f" + unique
}

func (b *TGBot) setupRoutes(ctrl *telegram.Controller) {
	b.bot.Handle("/start", ctrl.Start)
	b.bot.Handle("/new_portfolio", ctrl.NewPortfolio)
	b.bot.Handle("/new_transaction", ctrl.NewTransaction)
	b.bot.Handle("/delete_portfolio", ctrl.DeletePortfolio)
	b.bot.Handle("/report", ctrl.Report)
	b.bot.Handle("/cancel", ctrl.Cancel)

	b.bot.Handle(callback(tgCallback.SelectPortfolio), ctrl.SelectPortfolio)
	b.bot.Handle(callback(tgCallback.PrevPage), ctrl.PrevPage)
	b.bot.Handle(callback(tgCallback.NextPage), ctrl.NextPage)
	b.bot.Handle(callback(tgCallback.HighlightRow), ctrl.HighlightRow)
	b.bot.Handle(callback(tgCallback.RowAction), ctrl.RowAction)
	b.bot.Handle(callback(tgCallback.NewPortfolio), ctrl.NewPortfolio)
	b.bot.Handle(callback(tgCallback.NewTransaction), ctrl.NewTransaction)
	b.bot.Handle(callback(tgCallback.DeletePortfolio), ctrl.DeletePortfolio)
	b.bot.Handle(callback(tgCallback.Report), ctrl.Report)

	// answers to open dialogs
	b.bot.Handle(tele.OnText, ctrl.OnText)
}
