package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"xtra-telemetry/internal/config"
	"xtra-telemetry/internal/core"
	"xtra-telemetry/internal/core/auth"
	"xtra-telemetry/internal/domain"
	"xtra-telemetry/internal/logger"
	"xtra-telemetry/internal/shell"
	"xtra-telemetry/internal/storage/snapshot"
	"xtra-telemetry/internal/storage/sqlite"
	"xtra-telemetry/internal/telemetry"
	"xtra-telemetry/internal/transport/rest"
	"xtra-telemetry/internal/transport/websocket"
)

func main() {
	flags := pflag.NewFlagSet("telemetryd", pflag.ExitOnError)
	mode := flags.StringP("mode", "m", config.ModeServe, "run mode: serve or snapshot")
	envFile := flags.String("env", "", "dotenv file loaded before the process environment defaults")
	withApps := flags.Bool("apps", false, "include per-app battery usage in snapshot output")
	flags.Parse(os.Args[1:])

	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil {
			log.Fatalf("FATAL: cannot load %s: %v", *envFile, err)
		}
	}

	cfg := config.Load()
	cfg.Mode = *mode
	appLog := logger.New(cfg)

	probes, err := config.LoadProbes(cfg.ProbeConfigPath)
	if err != nil {
		appLog.Error("failed to load probe overrides", "path", cfg.ProbeConfigPath, "error", err)
		os.Exit(1)
	}

	exec := shell.NewSuExecutor(cfg.ShellBinary, cfg.ShellTimeout, appLog)
	engine := telemetry.NewEngine(exec, appLog, probes)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch cfg.Mode {
	case config.ModeSnapshot:
		pretty := term.IsTerminal(int(os.Stdout.Fd()))
		err = runSnapshot(ctx, engine, *withApps, pretty, os.Stdout)
	case config.ModeServe:
		err = runServer(ctx, cfg, engine, appLog)
	default:
		err = fmt.Errorf("unknown mode %q", cfg.Mode)
	}

	if err != nil {
		appLog.Error("telemetryd failed", "mode", cfg.Mode, "error", err)
		os.Exit(1)
	}
}

// runSnapshot indents only for terminals so piped output stays one line.
func runSnapshot(ctx context.Context, engine *telemetry.Engine, withApps, pretty bool, out io.Writer) error {
	enc := json.NewEncoder(out)
	if pretty {
		enc.SetIndent("", "  ")
	}

	snap := engine.Collect(ctx)
	if !withApps {
		return enc.Encode(snap)
	}

	return enc.Encode(struct {
		domain.Snapshot
		Apps []domain.AppBatteryStats `json:"apps"`
	}{snap, engine.AppBatteryUsage(ctx)})
}

func runServer(ctx context.Context, cfg *config.Config, engine *telemetry.Engine, log logger.Logger) error {
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is mandatory in serve mode")
	}

	db, err := sqlite.NewSqliteDB(cfg.DBPath, log)
	if err != nil {
		return err
	}
	defer db.Close()

	// Repositories
	userRepo := sqlite.NewUserRepository(db)
	currentRepo := sqlite.NewCurrentSampleRepository(db)

	// Services
	authService := auth.NewService(userRepo, cfg, log)
	if cfg.AdminPassword != "" {
		if err := authService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return fmt.Errorf("seed admin user: %w", err)
		}
	} else {
		log.Warn("ADMIN_PASSWORD not set, only existing users can log in")
	}

	store := snapshot.NewTelemetryStore()
	recorder := core.NewCurrentRecorder(currentRepo, cfg.HistoryLimit, log)

	// WebSocket
	hub := websocket.NewHub(log, store)
	wsHandler := websocket.NewHandler(hub, log, cfg)

	scheduler := core.NewScheduler(cfg.Interval, log, engine.Collect,
		store.Record,
		recorder.Record,
		hub.Publish,
	)

	router := rest.NewRouter(cfg, log, &rest.RouterDeps{
		Ws:        wsHandler.Serve,
		Auth:      rest.NewAuthHandler(authService, cfg),
		Telemetry: rest.NewTelemetryHandler(engine, store, currentRepo, log),
	})

	srv := rest.NewServer(router, cfg.Address)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gCtx)
		return nil
	})

	g.Go(func() error {
		scheduler.Start(gCtx)
		return nil
	})

	g.Go(func() error {
		log.Info("http: starting server", "address", cfg.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("http: server shutdown error", "error", err)
		}
		return nil
	})

	err = g.Wait()
	log.Info("server stopped")
	return err
}
