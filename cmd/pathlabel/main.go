package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aph/pathlabel/internal/api"
	"github.com/aph/pathlabel/internal/core/service"
	"github.com/aph/pathlabel/internal/infrastructure/config"
	mongostore "github.com/aph/pathlabel/internal/infrastructure/db/mongo"
	redisstore "github.com/aph/pathlabel/internal/infrastructure/db/redis"
	"github.com/aph/pathlabel/internal/infrastructure/export"
	"github.com/aph/pathlabel/internal/infrastructure/http/handlers"
	"github.com/aph/pathlabel/internal/infrastructure/pathapi"
	"github.com/aph/pathlabel/internal/infrastructure/queue"
	"github.com/aph/pathlabel/internal/label"
	"github.com/aph/pathlabel/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	rootCmd := &cobra.Command{
		Use:          "pathlabel",
		Short:        "Pathology patient registration and label printing",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(labelCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

func labelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "label",
		Short: "Label tools",
	}

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Render the barcode for a path id as SVG",
		RunE: func(cmd *cobra.Command, args []string) error {
			pathID, _ := cmd.Flags().GetString("path-id")
			out, _ := cmd.Flags().GetString("out")
			heading, _ := cmd.Flags().GetString("heading")

			layout := label.DefaultLayout()
			layout.Heading = heading
			svg, err := label.NewRenderer(layout).SVG(pathID)
			if err != nil {
				return fmt.Errorf("render %q: %w", pathID, err)
			}

			if out == "" {
				_, err = cmd.OutOrStdout().Write(svg)
				return err
			}
			if err := os.WriteFile(out, svg, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}
	renderCmd.Flags().String("path-id", "", "path id to encode")
	renderCmd.Flags().String("out", "", "output file (default stdout)")
	renderCmd.Flags().String("heading", label.DefaultLayout().Heading, "label heading")
	_ = renderCmd.MarkFlagRequired("path-id")

	cmd.AddCommand(renderCmd)
	return cmd
}

func runServer(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Env:     cfg.Env,
		Service: "pathlabel",
	})

	// --- Redis: sessions, screen snapshots, login guard ---
	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Timeout:  cfg.Redis.Timeout,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	sessions := redisstore.NewSessionStore(rdb)
	screens := redisstore.NewScreenStore(rdb, cfg.Session.ScreenTTL)
	guard := redisstore.NewLoginGuard(rdb)

	readiness := []handlers.Dependency{{Name: "redis", Ping: func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}}}

	// --- Label journal: MongoDB when configured, log only otherwise ---
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	var events service.EventQueue
	var dispatcher *queue.Dispatcher
	mongoCfg := mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database, Timeout: cfg.Mongo.Timeout}
	if mongoCfg.Enabled() {
		store, err := mongostore.Connect(ctx, mongoCfg)
		if err != nil {
			return err
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := store.Close(closeCtx); err != nil {
				log.Warn().Err(err).Msg("mongo disconnect")
			}
		}()

		repo := mongostore.NewJournalRepository(store.DB)
		if err := repo.EnsureIndexes(ctx); err != nil {
			return err
		}

		dispatcher = queue.NewDispatcher(cfg.Journal.Workers, repo, log)
		dispatcher.Start(workerCtx)
		events = dispatcher
		readiness = append(readiness, handlers.Dependency{Name: "mongodb", Ping: store.Ping})
	} else {
		log.Info().Msg("MONGO_URI not set, label journal logs only")
	}

	// --- Services ---
	apiClient := pathapi.New(pathapi.Config{BaseURL: cfg.API.BaseURL, Timeout: cfg.API.Timeout}, log)

	layout := label.DefaultLayout()
	layout.Heading = cfg.Label.Heading
	layout.CleanupDelay = cfg.Label.CleanupDelay

	e, err := api.NewRouter(api.Services{
		Auth:    service.NewAuthService(apiClient, sessions, screens, guard, cfg.Session.Secret, cfg.Session.TTL, log),
		Intake:  service.NewIntakeService(apiClient, log),
		Reprint: service.NewReprintService(apiClient, log),
		Report:  service.NewReportService(apiClient, screens, export.NewExporter(), log),
		Users:   service.NewUserService(apiClient, screens, log),
		Labels:  service.NewLabelService(label.NewRenderer(layout), service.NewJournalService(events, log)),
	}, api.Options{
		Log:       log,
		CookieTTL: cfg.Session.TTL,
		Readiness: readiness,
	})
	if err != nil {
		return err
	}

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("api", cfg.API.BaseURL).Msg("starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}

	if dispatcher != nil {
		stopWorkers()
		dispatcher.Wait()
	}
	log.Info().Msg("server stopped")
	return nil
}
