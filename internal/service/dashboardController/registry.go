package dashboardController

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/KotFed0t/portfolio_dashboard_bot/config"
	"github.com/KotFed0t/portfolio_dashboard_bot/internal/model"
	"github.com/KotFed0t/portfolio_dashboard_bot/internal/service/transactionCoordinator"
	"github.com/KotFed0t/portfolio_dashboard_bot/internal/valuationEngine"
	"github.com/KotFed0t/portfolio_dashboard_bot/utils"
)

// AccountOpener returns the Remote bound to the owner of chatID.
type AccountOpener func(ctx context.Context, chatID int64) (Remote, error)

// Binder returns the Dialog and Notifier talking to chatID.
type Binder func(chatID int64) (Dialog, Notifier)

// Registry hands out one DashboardController per chat.
type Registry struct {
	pageSize    int
	engine      *valuationEngine.Engine
	verifier    transactionCoordinator.SymbolVerifier
	sessions    SessionStore
	reporter    Reporter
	openAccount AccountOpener
	bind        Binder

	mu          sync.Mutex
	controllers map[int64]*DashboardController
}

func NewRegistry(
	cfg *config.Config,
	verifier transactionCoordinator.SymbolVerifier,
	sessions SessionStore,
	reporter Reporter,
	openAccount AccountOpener,
	bind Binder,
) *Registry {
	return &Registry{
		pageSize:    cfg.Dashboard.PageSize,
		engine:      valuationEngine.New(cfg.Dashboard.Currency),
		verifier:    verifier,
		sessions:    sessions,
		reporter:    reporter,
		openAccount: openAccount,
		bind:        bind,
		controllers: make(map[int64]*DashboardController),
	}
}

// Get returns the controller of chatID, creating and loading it on first use.
func (r *Registry) Get(ctx context.Context, chatID int64) (*DashboardController, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Registry.Get"

	r.mu.Lock()
	ctrl, ok := r.controllers[chatID]
	r.mu.Unlock()
	if ok {
		return ctrl, nil
	}

	remote, err := r.openAccount(ctx, chatID)
	if err != nil {
		slog.Error("can't open account", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("chatID", chatID), slog.String("err", err.Error()))
		return nil, err
	}

	sessionKey := strconv.FormatInt(chatID, 10)

	session, err := r.sessions.GetSession(ctx, sessionKey)
	if err != nil {
		slog.Debug("session not restored", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("chatID", chatID), slog.String("err", err.Error()))
		session = model.Session{}
	}

	dialog, notifier := r.bind(chatID)
	ctrl = New(sessionKey, r.pageSize, r.engine, remote, r.verifier, dialog, notifier, r.sessions, r.reporter, session)

	r.mu.Lock()
	if existing, ok := r.controllers[chatID]; ok {
		r.mu.Unlock()
		return existing, nil
	}
	r.controllers[chatID] = ctrl
	r.mu.Unlock()

	// a failed load is already reported to the chat, the controller stays usable
	_ = ctrl.Load(ctx)

	return ctrl, nil
}
