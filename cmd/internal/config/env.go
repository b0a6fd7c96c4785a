package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

const (
	defaultSSMPrefix = "/treinoexpresso/prod/"
	defaultSSMRegion = "us-east-2"
)

func IsProduction() bool {
	return os.Getenv("GO_ENV") == "production"
}

// LoadEnv exports the process environment: SSM Parameter Store in production, .env otherwise.
func LoadEnv(ctx context.Context) error {
	if IsProduction() {
		return loadProdEnv(ctx)
	}

	if err := godotenv.Load(); err != nil {
		log.Warnf("no .env file loaded: %v", err)
	}
	return nil
}

func loadProdEnv(ctx context.Context) error {
	prefix := getEnv("SSM_PREFIX", defaultSSMPrefix)
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(getEnv("SSM_REGION", defaultSSMRegion)))
	if err != nil {
		return fmt.Errorf("unable to load SDK config: %w", err)
	}

	client := ssm.NewFromConfig(cfg)
	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(prefix),
		WithDecryption: aws.Bool(true),
		Recursive:      aws.Bool(true),
	})

	var loaded int
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("unable to load prod environment: %w", err)
		}

		for _, param := range out.Parameters {
			key := strings.TrimPrefix(aws.ToString(param.Name), prefix)
			if err := os.Setenv(key, aws.ToString(param.Value)); err != nil {
				return fmt.Errorf("unable to set environment variable %s: %w", key, err)
			}
			loaded++
		}
	}

	log.Debugf("loaded %d prod environment variables", loaded)
	return nil
}
