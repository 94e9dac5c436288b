package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/mintroai/payment-service/libs/go/logger"
	"go.uber.org/zap"
)

// secretsAPI is the subset of the Secrets Manager API used here
type secretsAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// SecretsManagerClient wraps the AWS Secrets Manager client.
type SecretsManagerClient struct {
	svc secretsAPI
}

// NewSecretsManagerClient creates and initializes a new Secrets Manager client.
// It uses the default AWS configuration chain (environment variables, shared config, IAM role).
func NewSecretsManagerClient(ctx context.Context) (*SecretsManagerClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	return &SecretsManagerClient{svc: secretsmanager.NewFromConfig(cfg)}, nil
}

// NewSecretsManagerClientWithAPI builds a client around an existing API implementation
func NewSecretsManagerClientWithAPI(svc secretsAPI) *SecretsManagerClient {
	return &SecretsManagerClient{svc: svc}
}

// GetSecretString fetches the secret whose id is held in secretIdEnvVar. When that
// variable is unset or the fetch fails, the value of fallbackEnvVar is used instead.
//
// A secret stored as a single-key JSON object ({"private_key": "0x..."}) yields
// the value of that key; anything else is returned as stored.
func (c *SecretsManagerClient) GetSecretString(ctx context.Context, secretIdEnvVar string, fallbackEnvVar string) (string, error) {
	log := logger.Log.With(zap.String("secret_env", secretIdEnvVar))

	if secretID := os.Getenv(secretIdEnvVar); secretID != "" {
		result, err := c.svc.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
			SecretId: aws.String(secretID),
		})
		if err == nil && result.SecretString != nil && *result.SecretString != "" {
			return unwrapSingleKeyJSON(*result.SecretString), nil
		}
		log.Warn("Failed to retrieve secret from Secrets Manager, falling back to env var",
			zap.String("fallback_env", fallbackEnvVar),
			zap.Error(err))
	}

	if secretValue := os.Getenv(fallbackEnvVar); secretValue != "" {
		log.Debug("Using secret value from direct environment variable", zap.String("fallback_env", fallbackEnvVar))
		return secretValue, nil
	}

	return "", fmt.Errorf("secret not found using env var '%s' or direct env var '%s'", secretIdEnvVar, fallbackEnvVar)
}

func unwrapSingleKeyJSON(secret string) string {
	var secretJSON map[string]string
	if err := json.Unmarshal([]byte(secret), &secretJSON); err != nil || len(secretJSON) != 1 {
		return secret
	}
	for _, value := range secretJSON {
		return value
	}
	return secret
}
