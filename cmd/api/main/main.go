//go:build lambda
// +build lambda

package main

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/davecgh/go-spew/spew"
	"github.com/gin-gonic/gin"
	"github.com/mintroai/payment-service/apps/api/server"
	"github.com/mintroai/payment-service/libs/go/config"
	"github.com/mintroai/payment-service/libs/go/logger"
	"go.uber.org/zap"
)

var ginLambda *ginadapter.GinLambda

func init() {
	cfg, err := config.Load()
	if err != nil {
		panic("invalid configuration: " + err.Error())
	}

	logger.InitLoggerWithConfig(cfg.LoggerConfig())
	gin.SetMode(gin.ReleaseMode)

	handlers, err := server.InitializeHandlers(context.Background(), cfg)
	if err != nil {
		logger.Fatal("Failed to initialize handlers", zap.Error(err))
	}

	r := gin.New()
	r.Use(gin.Recovery())
	server.InitializeRoutes(r, handlers)

	ginLambda = ginadapter.New(r)
}

func Handler(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logger.Debug("Received Lambda request",
		zap.String("path", req.Path),
		zap.String("request", spew.Sdump(req)),
	)

	return ginLambda.ProxyWithContext(ctx, req)
}

func main() {
	defer func() { _ = logger.Sync() }()
	lambda.Start(Handler)
}
