package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/limerclaw/shared-types/internal/mcp"
	"github.com/limerclaw/shared-types/internal/ratelimit"
	"github.com/limerclaw/shared-types/internal/server"
	"github.com/limerclaw/shared-types/internal/service/validate"
)

const shutdownGrace = 10 * time.Second

func newMCPCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:     "mcp",
		Aliases: []string{"serve"},
		Short:   "Serve the contracts over MCP (stdio, or HTTP with --addr)",
		Long: `Serve limerclaw_validate, limerclaw_list_shapes and the constants and enums
resources over MCP. Without an address the server speaks stdio. With --addr
(or LIMERCLAW_MCP_ADDR) it listens for streamable HTTP at /mcp alongside the
JSON API under /v1.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = a.cfg.MCPAddr
			}
			svc := validate.New(a.logger, validate.Options{
				MaxPayloadBytes: a.cfg.MaxPayloadBytes,
				Concurrency:     a.cfg.ValidateConcurrency,
			})
			srv := mcp.New(svc, a.logger, version)

			if addr == "" {
				a.logger.Info("mcp stdio server starting", "version", version)
				return mcpserver.ServeStdio(srv.MCPServer())
			}
			return a.serveHTTP(cmd.Context(), addr, svc, srv)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address for HTTP, e.g. :8080")
	return cmd
}

func (a *app) serveHTTP(ctx context.Context, addr string, svc *validate.Service, srv *mcp.Server) error {
	var limiter ratelimit.Limiter = ratelimit.NoopLimiter{}
	if a.cfg.RateLimitPerMinute > 0 {
		limiter = ratelimit.PerMinute(a.cfg.RateLimitPerMinute)
	}
	defer func() { _ = limiter.Close() }()

	httpSrv := server.New(server.ServerConfig{
		Validator:           svc,
		Logger:              a.logger,
		Limiter:             limiter,
		MCPServer:           srv.MCPServer(),
		Addr:                addr,
		ReadTimeout:         a.cfg.ReadTimeout,
		WriteTimeout:        a.cfg.WriteTimeout,
		Version:             version,
		MaxRequestBodyBytes: a.cfg.MaxPayloadBytes,
	})

	errCh := make(chan error, 1)
	go func() {
		if err := httpSrv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
