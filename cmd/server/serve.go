package main

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"ctchen222/Starter-Kit/internal/api/controller"
	"ctchen222/Starter-Kit/internal/bot"
	"ctchen222/Starter-Kit/internal/hub"
	"ctchen222/Starter-Kit/internal/server"
	"ctchen222/Starter-Kit/internal/store"
	"ctchen222/Starter-Kit/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and websocket server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize telemetry
	shutdown, err := telemetry.InitOtel(ctx, conf.Telemetry)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), conf.HTTP.ShutdownTimeout)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Error("Error shutting down telemetry", "error", err)
		}
	}()

	repo, closer, err := openRepository(ctx, conf)
	if err != nil {
		return err
	}
	defer closer.Close()

	st, err := store.New(repo)
	if err != nil {
		return err
	}
	if err := st.Load(ctx); err != nil {
		slog.WarnContext(ctx, "Could not restore state, starting fresh", "error", err)
	}

	calc := bot.NewMoveCalculator(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))
	difficulty := bot.Difficulty(conf.Bot.Difficulty)

	h := hub.NewHub(st, calc, difficulty)
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go h.Run(hubCtx)

	if conf.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := server.NewServer(h, controller.NewStateController(st, calc, difficulty))

	httpServer := &http.Server{
		Addr:    conf.HTTP.Addr,
		Handler: srv.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server started", "http.addr", conf.HTTP.Addr, "storage.backend", conf.Storage.Backend)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), conf.HTTP.ShutdownTimeout)
	defer cancel()

	// Close websocket clients first; Shutdown does not wait for hijacked connections.
	stopHub()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}

	slog.Info("Server exiting")
	return nil
}
