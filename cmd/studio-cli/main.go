package main

import (
	"archive/zip"
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fpang/studio-lens/internal/app"
	"github.com/fpang/studio-lens/internal/auth"
	"github.com/fpang/studio-lens/internal/bundle"
	"github.com/fpang/studio-lens/internal/cli"
	"github.com/fpang/studio-lens/internal/config"
	"github.com/fpang/studio-lens/internal/imagedata"
	"github.com/fpang/studio-lens/internal/logging"
	"github.com/fpang/studio-lens/internal/studio"
)

// CLI flags
var (
	configFlag       string
	modelImageFlag   string
	productImageFlag string
	sceneFlag        string
	outFlag          string
	previewsFlag     string
	zipFlag          string
	zstdFlag         bool
)

var rootCmd = &cobra.Command{
	Use:          "studio-cli",
	Short:        "Plan editorial photo campaigns from two reference images",
	SilenceUsage: true,
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate a ten-shot campaign and optional previews",
	Long: `Plan sends the product reference and an optional scene concept to Gemini and
writes a ten-shot campaign: plan.json, prompts.txt and any requested previews.
Previews use both the model and the product reference.

Missing image flags open a native file picker. A missing --scene flag prompts
for one; leave it blank to let the director invent a location.

Examples:
  studio-cli plan --model-image model.jpg --product-image bag.png --scene "Rainy Tokyo street at night"
  studio-cli plan --model-image model.jpg --product-image bag.png --scene "" --previews 1,5
  studio-cli plan --previews all --zip campaign.zip --zstd`,
	RunE: runPlan,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("studio-cli %s (built %s)\n", commitHash, buildTime)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to a YAML config file")

	planCmd.Flags().StringVar(&modelImageFlag, "model-image", "", "Model reference image")
	planCmd.Flags().StringVar(&productImageFlag, "product-image", "", "Product reference image")
	planCmd.Flags().StringVarP(&sceneFlag, "scene", "s", "", "Scene concept (empty lets the director choose)")
	planCmd.Flags().StringVarP(&outFlag, "out", "o", "campaign", "Output directory")
	planCmd.Flags().StringVar(&previewsFlag, "previews", "", `Shots to render, e.g. "1,3" or "all"`)
	planCmd.Flags().StringVar(&zipFlag, "zip", "", "Also write the bundle as a ZIP archive at this path")
	planCmd.Flags().BoolVar(&zstdFlag, "zstd", false, "Compress ZIP text entries with Zstandard")

	rootCmd.AddCommand(planCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runPlan(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()
	logging.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configFlag)
	if err != nil {
		return err
	}
	numbers, err := cli.ParseShotNumbers(previewsFlag)
	if err != nil {
		return err
	}

	modelPath, err := cli.PickImage(ctx, "Select the model reference", modelImageFlag)
	if err != nil {
		return fmt.Errorf("model image: %w", err)
	}
	productPath, err := cli.PickImage(ctx, "Select the product reference", productImageFlag)
	if err != nil {
		return fmt.Errorf("product image: %w", err)
	}
	stdin := bufio.NewReader(os.Stdin)
	scene := sceneFlag
	if !cmd.Flags().Changed("scene") {
		scene = cli.PromptForScene(stdin, os.Stderr)
	}

	model, err := imagedata.LoadFile(modelPath, cfg.MaxReferenceDimension)
	if err != nil {
		return fmt.Errorf("model image %s: %w", modelPath, err)
	}
	product, err := imagedata.LoadFile(productPath, cfg.MaxReferenceDimension)
	if err != nil {
		return fmt.Errorf("product image %s: %w", productPath, err)
	}

	keyring := auth.NewKeyring(auth.DefaultSources()...)
	stack := app.Build(ctx, cfg, keyring, app.Options{
		Selector: auth.PromptSelector{Keyring: keyring, In: stdin, Out: os.Stderr},
		Notifier: studio.NotifierFunc(func(n studio.Notice) {
			fmt.Fprintf(os.Stderr, "  preview failed: %s\n", n.Message)
		}),
	})
	orch := stack.Orchestrator

	orch.SetRequest(studio.CampaignRequest{
		ModelImage:   model.DataURL(),
		ProductImage: product.DataURL(),
		SceneContext: scene,
	})

	start := time.Now()
	fmt.Fprintln(os.Stderr, "Planning campaign...")
	if err := orch.Generate(ctx); err != nil {
		log.Debug().Err(err).Msg("Plan failed")
		return errors.New(cli.FailureMessage(err))
	}

	snap := orch.Snapshot()
	if len(numbers) > 0 {
		fmt.Fprintf(os.Stderr, "Rendering %d preview(s)...\n", len(numbers))
		renderPreviews(ctx, orch, snap.Shots, numbers)
		snap = orch.Snapshot()
	}

	cli.PrintShots(os.Stdout, snap.Shots)

	files, err := bundle.WriteDir(outFlag, snap)
	if err != nil {
		return err
	}
	if zipFlag != "" {
		if err := writeZip(zipFlag, snap); err != nil {
			return err
		}
		files = append(files, zipFlag)
	}

	fmt.Fprintf(os.Stderr, "Wrote %d file(s) to %s in %s\n", len(files), outFlag, cli.FormatDurationShort(time.Since(start)))
	return nil
}

// renderPreviews renders the selected shots concurrently. Failures are
// reported through the notifier and do not stop the others.
func renderPreviews(ctx context.Context, orch *studio.Orchestrator, shots []studio.ShotView, numbers []int) {
	var wg sync.WaitGroup
	for _, n := range numbers {
		shot := shots[n-1]
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := orch.RenderPreview(ctx, shot.ID); err != nil {
				log.Debug().Err(err).Int("shot", n).Msg("Preview failed")
				return
			}
			fmt.Fprintf(os.Stderr, "  #%d %s rendered\n", n, shot.Title)
		}()
	}
	wg.Wait()
}

func writeZip(path string, snap studio.Snapshot) error {
	method := zip.Deflate
	if zstdFlag {
		method = bundle.MethodZstd
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := bundle.WriteZip(f, snap, method); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
