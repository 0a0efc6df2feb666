// Command limerclaw-contracts validates documents against the LimerClaw
// shared contracts, checks a database against the persisted row shapes, and
// serves the contracts to agents over MCP.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/limerclaw/shared-types/internal/config"
	"github.com/limerclaw/shared-types/internal/telemetry"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// app is the state shared by every subcommand once the root pre-run has
// loaded configuration.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	shutdown telemetry.Shutdown

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if a.shutdown != nil {
		if serr := a.shutdown(context.Background()); serr != nil {
			a.logger.Warn("telemetry shutdown", "error", serr)
		}
	}
	if err == nil {
		return 0
	}
	fmt.Fprintln(stderr, "Error:", err)
	return 1
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "limerclaw-contracts",
		Short: "Validate and serve the LimerClaw shared contracts",
		Long: `limerclaw-contracts checks relay envelopes, control-plane payloads, agent
configs and database rows against the shared LimerClaw contracts.

Configuration comes from the environment (and a .env file if present):
LIMERCLAW_LOG_LEVEL, DATABASE_URL, LIMERCLAW_MCP_ADDR, OTEL_EXPORTER_OTLP_ENDPOINT.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.Context())
		},
	}

	root.AddCommand(
		newValidateCmd(a),
		newShapesCmd(a),
		newSchemaCheckCmd(a),
		newMCPCmd(a),
		newConstantsCmd(a),
		newVersionCmd(a),
	)
	return root
}

func (a *app) init(ctx context.Context) error {
	// Load .env file if present (non-fatal; production won't have one).
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg

	// Logs go to stderr: stdout carries reports and the MCP stdio stream.
	level, _ := config.ParseLevel(cfg.LogLevel)
	a.logger = slog.New(slog.NewJSONHandler(a.stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(a.logger)

	a.shutdown, err = telemetry.Init(ctx, telemetry.Options{
		Endpoint:    cfg.OTELEndpoint,
		ServiceName: cfg.ServiceName,
		Version:     version,
		Insecure:    cfg.OTELInsecure,
	})
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	return nil
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
