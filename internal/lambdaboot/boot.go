// Package lambdaboot holds the Lambda cold-start bootstrap: AWS config, the
// SSM-backed key source and startup logging.
package lambdaboot

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"

	"github.com/fpang/studio-lens/internal/auth"
	"github.com/fpang/studio-lens/internal/logging"
)

// KeyParamEnv names the variable overriding the SSM key parameter path.
const KeyParamEnv = "SSM_API_KEY_PARAM"

// AWSClients holds the AWS SDK clients the Lambda uses.
type AWSClients struct {
	Config aws.Config
	SSM    *ssm.Client
}

// InitAWS loads the default AWS config. Fatals on error.
func InitAWS() AWSClients {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load AWS config")
	}
	log.Debug().Str("region", cfg.Region).Msg("AWS config loaded")
	return AWSClients{
		Config: cfg,
		SSM:    ssm.NewFromConfig(cfg),
	}
}

// KeyParam returns the SSM parameter path for the API key.
func KeyParam() string {
	return logging.EnvOrDefault(KeyParamEnv, auth.DefaultSSMKeyParam)
}

// KeySources returns the key lookup order for Lambda: GEMINI_API_KEY, then
// SSM Parameter Store. The SSM read is deferred to first use.
func KeySources(client auth.ParameterGetter) []auth.Source {
	return []auth.Source{
		auth.EnvSource{},
		&auth.SSMSource{Client: client, Param: KeyParam()},
	}
}

// StartupLog starts a startup logger with the init duration filled in.
func StartupLog(name string, initStart time.Time) *logging.StartupLogger {
	return logging.NewStartupLogger(name).InitDuration(time.Since(initStart))
}
