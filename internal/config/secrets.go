package config

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// SecretsOverlay represents the secrets stored in AWS Secrets Manager
// that override values from the config file.
type SecretsOverlay struct {
	DatabasePassword string `json:"database_password"`
	FallbackAPIKey   string `json:"fallback_api_key"`
}

// ApplySecrets fetches the secrets overlay and applies it on top of a
// loaded configuration.
func ApplySecrets(ctx context.Context, cfg *Config, region, secretName string) error {
	overlay, err := fetchSecretsFromAWS(ctx, region, secretName)
	if err != nil {
		return err
	}
	if overlay.DatabasePassword != "" {
		cfg.Database.Password = overlay.DatabasePassword
	}
	if overlay.FallbackAPIKey != "" {
		cfg.Fallback.APIKey = overlay.FallbackAPIKey
	}
	return nil
}

func fetchSecretsFromAWS(ctx context.Context, region, secretName string) (*SecretsOverlay, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := secretsmanager.NewFromConfig(awsCfg)
	result, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretName),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get secret from AWS Secrets Manager: %w", err)
	}

	overlay := &SecretsOverlay{}
	switch {
	case result.SecretString != nil:
		if err := json.Unmarshal([]byte(*result.SecretString), overlay); err != nil {
			return nil, fmt.Errorf("failed to parse secret JSON: %w", err)
		}
	case result.SecretBinary != nil:
		if err := json.Unmarshal(result.SecretBinary, overlay); err != nil {
			return nil, fmt.Errorf("failed to parse secret binary: %w", err)
		}
	default:
		return nil, fmt.Errorf("no secret data found in AWS Secrets Manager")
	}
	return overlay, nil
}
