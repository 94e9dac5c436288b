package constants

// Common string constants used throughout the codebase
const (
	// Log levels
	ErrorLevel = "error"

	// Environments
	ProdEnvironment  = "prod"
	DevEnvironment   = "dev"
	LocalEnvironment = "local"

	// Service identity
	ServiceName    = "mintroai-payment-service"
	ServiceVersion = "1.0.0"

	// Currencies
	USDCurrency = "USD"

	// Deployment types
	DeploymentTypeCreate  = "create"
	DeploymentTypeCreate2 = "create2"
)
