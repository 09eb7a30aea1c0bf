// Package main runs the studio API behind API Gateway (HTTP API, payload v2).
//
// The key comes from GEMINI_API_KEY or SSM Parameter Store. Generation and
// preview requests block until the backend call settles because a Lambda
// cannot keep working after it responds. Campaign state lives in the warm
// container only.
//
// Memory: 1 GB
// Timeout: 5 minutes
package main

import (
	"context"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/rs/zerolog/log"

	"github.com/fpang/studio-lens/internal/app"
	"github.com/fpang/studio-lens/internal/auth"
	"github.com/fpang/studio-lens/internal/config"
	"github.com/fpang/studio-lens/internal/lambdaboot"
	"github.com/fpang/studio-lens/internal/logging"
	"github.com/fpang/studio-lens/internal/metrics"
	"github.com/fpang/studio-lens/internal/webapi"
)

var coldStart = true

var adapter *httpadapter.HandlerAdapterV2

func init() {
	initStart := time.Now()
	logging.Init()

	cfg, err := config.Load(os.Getenv("STUDIO_CONFIG"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	aws := lambdaboot.InitAWS()
	keyring := auth.NewKeyring(lambdaboot.KeySources(aws.SSM)...)

	board := webapi.NewNoticeBoard(webapi.DefaultNoticeLimit)
	stack := app.Build(context.Background(), cfg, keyring, app.Options{
		Selector: auth.NoopSelector{},
		Notifier: board,
		Metrics:  metrics.EMFSink{Out: os.Stdout},
	})

	api := webapi.New(stack.Orchestrator, stack.Gate, keyring, board, webapi.Options{
		MaxReferenceDimension: cfg.MaxReferenceDimension,
		AllowedOrigins:        cfg.AllowedOrigins,
		Wait:                  true,
		MetricsOut:            os.Stdout,
		Version:               commitHash,
	})

	originVerifySecret := os.Getenv("ORIGIN_VERIFY_SECRET")
	if originVerifySecret == "" {
		log.Warn().Msg("ORIGIN_VERIFY_SECRET not set, origin verification disabled")
	}
	adapter = httpadapter.NewV2(webapi.WithOriginVerify(originVerifySecret, api.Handler()))

	lambdaboot.StartupLog("studio-lambda", initStart).
		Version(commitHash).
		Model("plan", cfg.PlanModel).
		Model("image", cfg.ImageModel).
		SSMParam("geminiApiKey", lambdaboot.KeyParam()).
		Config("buildTime", buildTime).
		Feature("originVerify", originVerifySecret != "").
		Feature("credentialAvailable", stack.Gate.HasCredential()).
		Log()
}

func main() {
	lambda.Start(handler)
}

func handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	if coldStart {
		coldStart = false
		log.Info().Str("function", "studio-lambda").Msg("Cold start, first invocation")
	}
	return adapter.ProxyWithContext(ctx, req)
}
