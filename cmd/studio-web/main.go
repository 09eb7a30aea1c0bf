// Command studio-web serves the campaign studio API on localhost.
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

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fpang/studio-lens/internal/app"
	"github.com/fpang/studio-lens/internal/auth"
	"github.com/fpang/studio-lens/internal/config"
	"github.com/fpang/studio-lens/internal/credential"
	"github.com/fpang/studio-lens/internal/logging"
	"github.com/fpang/studio-lens/internal/webapi"
)

// CLI flags
var (
	portFlag       int
	configFlag     string
	planModelFlag  string
	imageModelFlag string
	noDialogFlag   bool
)

var rootCmd = &cobra.Command{
	Use:   "studio-web",
	Short: "Local API server for the editorial campaign studio",
	Long: `Studio Web starts a local server that plans ten-shot editorial campaigns
from a model reference and a product reference, and renders per-shot previews.

The API key is read from GEMINI_API_KEY or ~/.studio-lens/credentials.gpg.
When neither is available, the first generation opens a key dialog, or a key
can be connected with POST /api/credential.

Examples:
  studio-web
  studio-web --port 9090
  studio-web --config studio.yaml --image-model gemini-2.5-flash-image`,
	RunE: runMain,
}

func init() {
	rootCmd.Flags().IntVar(&portFlag, "port", 0, "Port to listen on (default from config, 8080)")
	rootCmd.Flags().StringVar(&configFlag, "config", "", "Path to a YAML config file")
	rootCmd.Flags().StringVarP(&planModelFlag, "model", "m", "", "Gemini model for shot planning")
	rootCmd.Flags().StringVar(&imageModelFlag, "image-model", "", "Gemini model for preview rendering")
	rootCmd.Flags().BoolVar(&noDialogFlag, "no-dialog", false, "Never open the native key dialog")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runMain(cmd *cobra.Command, args []string) error {
	initStart := time.Now()
	_ = godotenv.Load()
	logging.Init()

	cfg, err := config.Load(configFlag)
	if err != nil {
		return err
	}
	if portFlag != 0 {
		cfg.Port = portFlag
	}
	if planModelFlag != "" {
		cfg.PlanModel = planModelFlag
	}
	if imageModelFlag != "" {
		cfg.ImageModel = imageModelFlag
	}

	keyring := auth.NewKeyring(auth.DefaultSources()...)
	var selector credential.Selector = auth.DialogSelector{Keyring: keyring}
	if noDialogFlag {
		selector = auth.NoopSelector{}
	}

	ctx := context.Background()
	board := webapi.NewNoticeBoard(webapi.DefaultNoticeLimit)
	stack := app.Build(ctx, cfg, keyring, app.Options{Selector: selector, Notifier: board})

	api := webapi.New(stack.Orchestrator, stack.Gate, keyring, board, webapi.Options{
		MaxReferenceDimension: cfg.MaxReferenceDimension,
		AllowedOrigins:        cfg.AllowedOrigins,
		Version:               commitHash,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      api.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info().Msg("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Warn().Err(err).Msg("Shutdown did not complete cleanly")
		}
	}()

	logging.NewStartupLogger("studio-web").
		Version(commitHash).
		Model("plan", cfg.PlanModel).
		Model("image", cfg.ImageModel).
		Config("port", fmt.Sprint(cfg.Port)).
		Config("buildTime", buildTime).
		Feature("credentialAvailable", stack.Gate.HasCredential()).
		Feature("keyDialog", !noDialogFlag).
		InitDuration(time.Since(initStart)).
		Log()
	fmt.Printf("\n  Studio API: http://localhost:%d/api/campaign\n\n", cfg.Port)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
