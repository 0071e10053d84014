package main

import (
	"context"
	"os"

	"github.com/acastellon/shopfront/internal/api"
	"github.com/acastellon/shopfront/internal/auth"
	"github.com/acastellon/shopfront/internal/cart"
	"github.com/acastellon/shopfront/internal/cartsync"
	"github.com/acastellon/shopfront/internal/catalog"
	"github.com/acastellon/shopfront/internal/guestcart"
	"github.com/acastellon/shopfront/internal/identity"
	"github.com/acastellon/shopfront/internal/intent"
	"github.com/acastellon/shopfront/internal/remotecart"
	"github.com/acastellon/shopfront/pkg/config"
	"github.com/acastellon/shopfront/pkg/localstore"
	"github.com/acastellon/shopfront/pkg/logger"
	"github.com/joho/godotenv"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "shopfront"})
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "shopfront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	kv, err := localstore.OpenSQLite(cfg.State.Path)
	if err != nil {
		logg.Error(ctx, "failed to open local state store", err)
		os.Exit(1)
	}
	defer func() {
		if err := kv.Close(); err != nil {
			logg.Error(ctx, "error closing local state store", err)
		}
	}()

	apiClient, err := api.New(cfg.API, auth.NewTokenSource(kv), logg)
	if err != nil {
		logg.Error(ctx, "failed to create api client", err)
		os.Exit(1)
	}

	idp, err := identity.NewClient(apiClient, logg)
	if err != nil {
		logg.Error(ctx, "failed to create identity client", err)
		os.Exit(1)
	}

	session, err := auth.NewSession(kv, idp, logg)
	if err != nil {
		logg.Error(ctx, "failed to create session", err)
		os.Exit(1)
	}
	apiClient.OnUnauthorized(func() { session.Invalidate(ctx) })

	guest, err := guestcart.NewStore(kv, logg)
	if err != nil {
		logg.Error(ctx, "failed to load guest cart", err)
		os.Exit(1)
	}

	remote, err := remotecart.NewStore(apiClient, session, logg)
	if err != nil {
		logg.Error(ctx, "failed to create remote cart store", err)
		os.Exit(1)
	}

	notifier := cartsync.NewLogNotifier(logg)

	engine, err := cartsync.NewEngine(cartsync.EngineParams{
		Ledger:   cartsync.NewLedger(cfg.Sync.NotificationCooldown),
		Guest:    guest,
		Remote:   remote,
		Session:  session,
		Notifier: notifier,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create reconciliation engine", err)
		os.Exit(1)
	}

	buffer, err := intent.NewBuffer(kv, logg)
	if err != nil {
		logg.Error(ctx, "failed to create intent buffer", err)
		os.Exit(1)
	}

	coordinator, err := cart.NewCoordinator(cart.CoordinatorParams{
		KV:       kv,
		Session:  session,
		Guest:    guest,
		Remote:   remote,
		Engine:   engine,
		Buffer:   buffer,
		Notifier: notifier,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create cart coordinator", err)
		os.Exit(1)
	}

	catalogSvc, err := catalog.NewService(apiClient, logg, cfg.Sync.SaleCacheTTL)
	if err != nil {
		logg.Error(ctx, "failed to create catalog service", err)
		os.Exit(1)
	}

	// The startup auth check runs after all cart listeners are registered so
	// a resolved login immediately drives migration and intent replay.
	session.Resolve(ctx)

	repl := newREPL(session, coordinator, catalogSvc, logg)
	if err := repl.run(ctx); err != nil {
		logg.Error(ctx, "repl terminated", err)
		os.Exit(1)
	}
}
