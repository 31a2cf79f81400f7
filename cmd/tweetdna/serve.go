package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tweetdna/tweetdna/internal/api"
	"github.com/tweetdna/tweetdna/internal/generator"
	"github.com/tweetdna/tweetdna/internal/importer"
	"github.com/tweetdna/tweetdna/internal/profiler"
	"github.com/tweetdna/tweetdna/internal/provider"
	"github.com/tweetdna/tweetdna/internal/reviewer"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local API server (HTTP + MCP stdio)",
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetInt("port")
		withMCP, _ := cmd.Flags().GetBool("mcp")
		return runServe(port, withMCP)
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "port to bind to (default from config)")
	serveCmd.Flags().Bool("mcp", true, "serve MCP over stdio alongside HTTP")
}

func runServe(port int, withMCP bool) error {
	cfg, store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	logLevel := slog.LevelInfo
	if strings.EqualFold(cfg.LogLevel, "debug") {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	if port <= 0 {
		port = cfg.Port
	}

	deps := api.Deps{
		Store:     store,
		Importer:  importer.New(store),
		Profiler:  profiler.New(store, provider.ForRole(cfg, provider.RoleProfile), cfg.ModelForRole(provider.RoleProfile)),
		Generator: generator.New(store, provider.ForRole(cfg, provider.RoleGenerate), cfg.ModelForRole(provider.RoleGenerate)),
		Reviewer:  reviewer.New(store, provider.ForRole(cfg, provider.RoleReview), cfg.ModelForRole(provider.RoleReview)),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf("127.0.0.1:%d", port)
	srv := &http.Server{
		Addr:    addr,
		Handler: api.NewHandler(deps),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("tweetdna listening", "addr", addr, "provider", cfg.Provider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if withMCP {
		g.Go(func() error {
			stdioSrv := server.NewStdioServer(api.NewMCPServer(deps))
			slog.Info("MCP server started (stdio transport)")
			if err := stdioSrv.Listen(gctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("mcp stdio server: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
