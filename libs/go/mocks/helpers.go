package mocks

import (
	"testing"

	"go.uber.org/mock/gomock"
)

// NewMockQuoteFetcherForTest creates a new mock QuoteFetcher for testing
func NewMockQuoteFetcherForTest(t *testing.T) *MockQuoteFetcher {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return NewMockQuoteFetcher(ctrl)
}

// NewMockSecretFetcherForTest creates a new mock SecretFetcher for testing
func NewMockSecretFetcherForTest(t *testing.T) *MockSecretFetcher {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return NewMockSecretFetcher(ctrl)
}

// NewMockMetricsCollectorForTest creates a new mock MetricsCollector for testing
func NewMockMetricsCollectorForTest(t *testing.T) *MockMetricsCollector {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return NewMockMetricsCollector(ctrl)
}
