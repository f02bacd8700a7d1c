package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/anvilmerge/internal/api"
	"github.com/udisondev/anvilmerge/internal/db"
	"github.com/udisondev/anvilmerge/internal/game/anvil"
	"github.com/udisondev/anvilmerge/internal/workbench"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP bridge for the host server plugin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	cfg := a.cfg
	slog.Info("anvilmerge starting",
		"log_level", cfg.LogLevel,
		"policy", cfg.Policy,
		"handle_all", cfg.HandleAll)

	engine, err := a.engine()
	if err != nil {
		return err
	}
	policy, err := anvil.PolicyByName(cfg.Policy)
	if err != nil {
		return err
	}

	deps := api.Deps{Engine: engine, Policy: policy}
	opts := workbench.Options{
		Permission: cfg.Permission,
		HandleAll:  cfg.HandleAll,
		CacheSize:  cfg.Cache.Size,
		CacheTTL:   cfg.Cache.TTL,
	}

	if cfg.Database.Enabled {
		database, err := db.New(ctx, cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()
		slog.Info("database connected")

		if err := db.RunMigrationsOnPool(ctx, database.Pool()); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		slog.Info("database migrations applied")

		repo := db.NewMergeRepository(database.Pool())
		opts.Recorder = repo
		deps.History = repo
		deps.Database = database
	} else {
		slog.Info("merge log disabled")
	}

	perms := workbench.NewStaticPermissions(cfg.Permission, cfg.AllowedPlayers)
	deps.Handler = workbench.NewHandler(engine, policy, perms, workbench.NewSessions(), opts)

	srv := api.NewServer(cfg.HTTP.Addr, cfg.HTTP.ReadTimeout, cfg.HTTP.WriteTimeout, deps)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("anvilmerge stopped")
	return nil
}
