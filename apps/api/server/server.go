// Package server builds the API's dependency graph and routes. Both the local
// HTTP binary and the Lambda entrypoint go through InitializeHandlers and
// InitializeRoutes.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mintroai/payment-service/apps/api/handlers"
	awsclient "github.com/mintroai/payment-service/libs/go/client/aws"
	"github.com/mintroai/payment-service/libs/go/client/coingecko"
	"github.com/mintroai/payment-service/libs/go/config"
	"github.com/mintroai/payment-service/libs/go/constants"
	"github.com/mintroai/payment-service/libs/go/logger"
	"github.com/mintroai/payment-service/libs/go/metrics"
	"github.com/mintroai/payment-service/libs/go/middleware"
	"github.com/mintroai/payment-service/libs/go/services"
	"github.com/mintroai/payment-service/libs/go/signer"
	"go.uber.org/zap"
)

// Handlers holds the initialized request handlers and the middleware state
// that must be released on shutdown
type Handlers struct {
	Health    *handlers.HealthHandler
	Network   *handlers.NetworkHandler
	Price     *handlers.PriceHandler
	Pricing   *handlers.PricingHandler
	Signature *handlers.SignatureHandler

	rateLimiter    *middleware.RateLimiter
	stage          string
	corsOrigins    []string
	trustedProxies []string
}

// InitializeHandlers builds every service from cfg. The logger must already
// be initialized. Errors are startup failures; the caller should exit.
func InitializeHandlers(ctx context.Context, cfg *config.Config) (*Handlers, error) {
	log := logger.ForComponent(logger.ComponentServer)
	log.Info("Initializing handlers for stage", zap.String("stage", cfg.Stage))

	signerKey := cfg.SignerPrivateKey
	if cfg.SignerKeyARN != "" {
		secretsClient, err := awsclient.NewSecretsManagerClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize AWS Secrets Manager client: %w", err)
		}
		if signerKey, err = cfg.ResolveSignerKey(ctx, secretsClient); err != nil {
			return nil, err
		}
	}

	processSigner, err := signer.LoadSigner(signerKey, cfg.Stage, cfg.AllowInsecureSigner)
	if err != nil {
		return nil, err
	}

	priceClient := coingecko.NewClient(cfg.CoinGeckoAPIKey,
		coingecko.WithBaseURL(cfg.CoinGeckoBaseURL),
		coingecko.WithMetricsCollector(metrics.NewUpstreamCollector()),
	)

	registry := services.NewDefaultNetworkRegistry()
	pricingService := services.NewPricingService(services.DefaultFeeSchedule())
	oracle := services.NewPriceOracleService(registry, priceClient,
		services.WithCacheTTL(cfg.PriceCacheTTL),
		services.WithFetchTimeout(cfg.PriceFetchTimeout),
	)
	signatureService := services.NewSignatureService(processSigner,
		services.WithAuthorizationTTL(cfg.AuthorizationTTL),
	)
	deploymentService := services.NewDeploymentService(registry, pricingService, oracle, signatureService)

	log.Info("Handlers initialized",
		zap.Int("networks", len(registry.All())),
		zap.String("signer", processSigner.Address().Hex()),
		zap.Bool("insecure_signer", processSigner.Insecure()))

	return &Handlers{
		Health:         handlers.NewHealthHandler(),
		Network:        handlers.NewNetworkHandler(registry),
		Price:          handlers.NewPriceHandler(registry, oracle),
		Pricing:        handlers.NewPricingHandler(pricingService, deploymentService),
		Signature:      handlers.NewSignatureHandler(deploymentService),
		rateLimiter:    middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		stage:          cfg.Stage,
		corsOrigins:    cfg.CORSAllowedOrigins,
		trustedProxies: cfg.TrustedProxies,
	}, nil
}

// Close releases background resources held by the handlers
func (h *Handlers) Close() {
	h.rateLimiter.Stop()
}

// InitializeRoutes installs the middleware chain and every route on router
func InitializeRoutes(router *gin.Engine, h *Handlers) {
	// ClientIP keys the rate limiter; only configured proxies may set X-Forwarded-For
	if err := router.SetTrustedProxies(h.trustedProxies); err != nil {
		logger.ForComponent(logger.ComponentServer).Error("Invalid trusted proxies, trusting none",
			zap.Strings("trusted_proxies", h.trustedProxies), zap.Error(err))
		_ = router.SetTrustedProxies(nil)
	}

	router.Use(configureCORS(h.corsOrigins))
	router.Use(middleware.CorrelationIDMiddleware())
	router.Use(metrics.GinMiddleware())
	router.Use(h.rateLimiter.Middleware())
	router.Use(middleware.EnhancedLoggingMiddleware(h.stage == constants.LocalEnvironment))
	router.Use(middleware.RequestLoggingMiddleware())

	router.GET("/health", h.Health.Health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", h.Health.Health)

		v1.GET("/networks", h.Network.ListNetworks)
		v1.GET("/networks/:chain_id", h.Network.GetNetwork)

		v1.GET("/price/:network", h.Price.GetPrice)
		v1.GET("/prices", h.Price.GetAllPrices)

		v1.POST("/calculate", h.Pricing.Calculate)
		v1.POST("/estimate", h.Pricing.Estimate)
		v1.GET("/pricing-info", h.Pricing.PricingInfo)

		signature := v1.Group("/signature")
		{
			signature.POST("/prepare", h.Signature.Prepare)
			signature.POST("/verify", h.Signature.Verify)
			signature.GET("/signer", h.Signature.SignerInfo)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handlers.ErrorResponse{
			Error: handlers.ErrorDetail{
				Code:    "NOT_FOUND",
				Message: fmt.Sprintf("Route %s %s not found", c.Request.Method, c.Request.URL.Path),
			},
			CorrelationID: middleware.GetCorrelationID(c),
		})
	})
}

// configureCORS returns a configured CORS middleware. Origins come from
// configuration; methods and headers may be overridden from the environment.
func configureCORS(origins []string) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()

	if len(origins) == 0 {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	} else {
		corsConfig.AllowOrigins = origins
	}

	corsConfig.AllowMethods = splitEnv("CORS_ALLOWED_METHODS", []string{"GET", "POST", "OPTIONS"})
	corsConfig.AllowHeaders = splitEnv("CORS_ALLOWED_HEADERS",
		[]string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-Key", "X-Correlation-ID"})
	corsConfig.ExposeHeaders = splitEnv("CORS_EXPOSED_HEADERS", []string{
		"X-RateLimit-Limit",
		"X-RateLimit-Remaining",
		"X-RateLimit-Reset",
		"Retry-After",
		"X-Correlation-ID",
	})
	corsConfig.AllowCredentials = os.Getenv("CORS_ALLOW_CREDENTIALS") == "true"

	return cors.New(corsConfig)
}

func splitEnv(key string, defaultValues []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValues
	}
	values := strings.Split(raw, ",")
	for i, value := range values {
		values[i] = strings.TrimSpace(value)
	}
	return values
}
