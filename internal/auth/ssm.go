package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"
)

// DefaultSSMKeyParam is the Parameter Store path holding the Gemini API key.
const DefaultSSMKeyParam = "/studio-lens/prod/gemini-api-key"

// ParameterGetter is the subset of the SSM client used to read the key.
type ParameterGetter interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// SSMSource reads the key from SSM Parameter Store. The value is fetched once
// and cached for the lifetime of the process.
type SSMSource struct {
	Client ParameterGetter
	Param  string

	mu     sync.Mutex
	cached string
}

func (s *SSMSource) Name() string { return "ssm" }

func (s *SSMSource) Key() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached != "" {
		return s.cached, nil
	}

	start := time.Now()
	result, err := s.Client.GetParameter(context.Background(), &ssm.GetParameterInput{
		Name:           aws.String(s.Param),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("failed to read %s from SSM: %w", s.Param, err)
	}
	if result.Parameter == nil || result.Parameter.Value == nil || *result.Parameter.Value == "" {
		return "", fmt.Errorf("SSM parameter %s is empty", s.Param)
	}

	s.cached = *result.Parameter.Value
	log.Debug().Str("param", s.Param).Dur("elapsed", time.Since(start)).Msg("Gemini API key loaded from SSM")
	return s.cached, nil
}
