package config

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"
)

// ParameterStore is the subset of the SSM client used to read parameters.
type ParameterStore interface {
	GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
}

// NewParameterStore builds an SSM client from the default AWS credential chain.
func NewParameterStore(ctx context.Context, region string) (*ssm.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return ssm.NewFromConfig(cfg), nil
}

// MergeParameters copies every parameter under parameterPath into c. The key is the
// last path segment upper-cased with dashes turned into underscores, so
// /blog/prod/session-secret becomes SESSION_SECRET. Existing keys are overwritten.
func MergeParameters(ctx context.Context, store ParameterStore, parameterPath string, c map[string]string) error {
	input := &ssm.GetParametersByPathInput{
		Path:           aws.String(parameterPath),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	}

	merged := 0
	paginator := ssm.NewGetParametersByPathPaginator(store, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("read parameters under %s: %w", parameterPath, err)
		}

		for _, p := range page.Parameters {
			name := aws.ToString(p.Name)
			if name == "" {
				continue
			}
			c[parameterKey(name)] = aws.ToString(p.Value)
			merged++
		}
	}

	log.Info().Str("path", parameterPath).Int("count", merged).Msg("Merged SSM parameters into config")
	return nil
}

func parameterKey(name string) string {
	return strings.ToUpper(strings.ReplaceAll(path.Base(name), "-", "_"))
}
