package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/KotFed0t/portfolio_dashboard_bot/config"
	"github.com/KotFed0t/portfolio_dashboard_bot/data"
	"github.com/KotFed0t/portfolio_dashboard_bot/data/cache"
	"github.com/KotFed0t/portfolio_dashboard_bot/data/repository/postgres"
	"github.com/KotFed0t/portfolio_dashboard_bot/data/session"
	"github.com/KotFed0t/portfolio_dashboard_bot/internal/externalApi/cloudStorageApi/googleDriveApi"
	"github.com/KotFed0t/portfolio_dashboard_bot/internal/externalApi/marketApi"
	"github.com/KotFed0t/portfolio_dashboard_bot/internal/reportGenerator/xlsxGenerator"
	"github.com/KotFed0t/portfolio_dashboard_bot/internal/scheduler"
	"github.com/KotFed0t/portfolio_dashboard_bot/internal/service/dashboardController"
	"github.com/KotFed0t/portfolio_dashboard_bot/internal/service/investmentService"
	"github.com/KotFed0t/portfolio_dashboard_bot/internal/service/marketService"
	"github.com/KotFed0t/portfolio_dashboard_bot/internal/service/reportService"
	"github.com/KotFed0t/portfolio_dashboard_bot/internal/tgbot"
	"github.com/KotFed0t/portfolio_dashboard_bot/internal/transport/telegram"
)

const (
	refreshPricesJob  = "refresh prices"
	cleanupReportsJob = "cleanup old reports"
)

func main() {
	cfg := config.MustLoad()

	setupLogger(cfg)

	slog.Debug("config", slog.Any("cfg", cfg))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgClient := data.NewPostgresClient(cfg)
	defer pgClient.Close()

	pgRepo := postgres.NewPostgres(cfg, pgClient)

	redisClient := data.NewRedisClient(cfg)
	defer redisClient.Close()

	redisCache := cache.NewRedisCache(redisClient, cfg)
	redisSession := session.NewRedisSession(redisClient, cfg)

	marketApiClient := marketApi.New(cfg)
	marketSrv := marketService.New(marketApiClient, redisCache, pgRepo)

	investmentSrv := investmentService.New(pgRepo, marketSrv)

	reportGenerator := xlsxGenerator.New()
	googleCloudStorage := googleDriveApi.New(ctx, cfg)
	reportSrv := reportService.New(reportGenerator, googleCloudStorage)

	sched := scheduler.New()
	sched.NewIntervalJob(refreshPricesJob, marketSrv.RefreshPrices, cfg.Jobs.RefreshPricesInterval, true)
	sched.NewCrontabJob(cleanupReportsJob, reportSrv.CleanupOldReports, cfg.Jobs.CleanupReportsCrontab, false)
	sched.Start()
	defer sched.Stop()

	tgBot := tgbot.New(cfg)
	dialogs := telegram.NewDialogs(cfg.Telegram.DialogTimeout)

	openAccount := func(ctx context.Context, chatID int64) (dashboardController.Remote, error) {
		account, err := investmentSrv.OpenAccount(ctx, chatID)
		if err != nil {
			return nil, err
		}
		return account, nil
	}

	bind := func(chatID int64) (dashboardController.Dialog, dashboardController.Notifier) {
		return telegram.NewChatDialog(chatID, tgBot.Bot(), dialogs), telegram.NewChatNotifier(chatID, tgBot.Bot())
	}

	registry := dashboardController.NewRegistry(cfg, marketSrv, redisSession, reportSrv, openAccount, bind)

	tgController := telegram.NewController(registry, dialogs)

	tgBot.Start(tgController)
	defer tgBot.Stop()

	// Waiting interruption signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-interrupt
}

func setupLogger(cfg *config.Config) {
	var logLevel slog.Level

	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)
}
