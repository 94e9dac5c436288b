package interfaces

import (
	"context"

	"github.com/mintroai/payment-service/libs/go/types/business"
)

// QuoteFetcher retrieves a live USD quote for one asset from an upstream price source
type QuoteFetcher interface {
	FetchQuote(ctx context.Context, oracleID string) (*business.Quote, error)
}

// SecretFetcher resolves secrets such as the signing key from a secret store
type SecretFetcher interface {
	GetSecretString(ctx context.Context, secretIdEnvVar string, fallbackEnvVar string) (string, error)
}
