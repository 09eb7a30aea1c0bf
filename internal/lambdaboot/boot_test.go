package lambdaboot

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"

	"github.com/fpang/studio-lens/internal/auth"
)

type paramStore map[string]string

func (p paramStore) GetParameter(_ context.Context, in *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	return &ssm.GetParameterOutput{Parameter: &types.Parameter{Value: aws.String(p[*in.Name])}}, nil
}

func TestKeyParam(t *testing.T) {
	t.Setenv(KeyParamEnv, "")
	if got := KeyParam(); got != auth.DefaultSSMKeyParam {
		t.Errorf("KeyParam() = %q, want default", got)
	}
	t.Setenv(KeyParamEnv, "/custom/key")
	if got := KeyParam(); got != "/custom/key" {
		t.Errorf("KeyParam() = %q, want /custom/key", got)
	}
}

func TestKeySources_EnvBeforeSSM(t *testing.T) {
	t.Setenv(KeyParamEnv, "/studio/key")
	store := paramStore{"/studio/key": "from-ssm"}

	t.Setenv("GEMINI_API_KEY", "from-env")
	if key, err := auth.GetAPIKey(KeySources(store)...); err != nil || key != "from-env" {
		t.Errorf("with env: key = %q, err = %v", key, err)
	}

	t.Setenv("GEMINI_API_KEY", "")
	if key, err := auth.GetAPIKey(KeySources(store)...); err != nil || key != "from-ssm" {
		t.Errorf("without env: key = %q, err = %v", key, err)
	}
}
