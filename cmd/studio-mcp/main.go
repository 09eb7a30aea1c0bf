// Command studio-mcp exposes campaign planning and preview rendering as MCP
// tools over stdio. One campaign is held per server process.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fpang/studio-lens/internal/app"
	"github.com/fpang/studio-lens/internal/auth"
	"github.com/fpang/studio-lens/internal/config"
	"github.com/fpang/studio-lens/internal/logging"
)

func main() {
	initStart := time.Now()
	_ = godotenv.Load()
	logging.Init()
	// stdout carries the protocol; keep logs on stderr.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true})

	cfg, err := config.Load(os.Getenv("STUDIO_CONFIG"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	keyring := auth.NewKeyring(auth.DefaultSources()...)
	stack := app.Build(ctx, cfg, keyring, app.Options{Selector: auth.DialogSelector{Keyring: keyring}})

	server := mcp.NewServer(&mcp.Implementation{Name: "studio-lens", Version: commitHash}, nil)
	newTools(stack.Orchestrator, cfg.MaxReferenceDimension).register(server)

	logging.NewStartupLogger("studio-mcp").
		Version(commitHash).
		Model("plan", cfg.PlanModel).
		Model("image", cfg.ImageModel).
		Config("buildTime", buildTime).
		Feature("credentialAvailable", stack.Gate.HasCredential()).
		InitDuration(time.Since(initStart)).
		Log()

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatal().Err(err).Msg("MCP server stopped")
	}
}
