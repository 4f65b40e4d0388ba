package main

import (
	"context"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog"

	"score-for-cancer-total/internal/config"
	"score-for-cancer-total/internal/logging"
	"score-for-cancer-total/internal/models"
	"score-for-cancer-total/internal/services"
)

// totalResolver is the part of the service the handler depends on
type totalResolver interface {
	Resolve(ctx context.Context) (int, models.TotalResponse)
}

// newHandler adapts a resolver to API Gateway proxy events.
// The handler is method-agnostic and reads nothing from the request.
func newHandler(resolver totalResolver, logger zerolog.Logger) func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return func(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		logger.Debug().
			Str("method", request.HTTPMethod).
			Str("path", request.Path).
			Str("aws_request_id", request.RequestContext.RequestID).
			Msg("Score total request")

		status, response := resolver.Resolve(ctx)

		body, err := services.EncodeResponse(response)
		if err != nil {
			logger.Error().Err(err).Msg("Error marshaling response body")
			status = http.StatusInternalServerError
		}

		return events.APIGatewayProxyResponse{
			StatusCode: status,
			Headers:    services.ResponseHeaders(),
			Body:       body,
		}, nil
	}
}

// main is the entry point for the Lambda function
func main() {
	stderrLogger := zerolog.New(os.Stderr)

	cfg, err := config.LoadFromEnv()
	if err != nil {
		stderrLogger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger, err := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		stderrLogger.Fatal().Err(err).Msg("Failed to create logger")
	}

	// No metrics registry: nothing scrapes a Lambda
	service, err := services.NewTotalServiceFromConfig(context.Background(), cfg, logger, nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize total service")
	}

	logger.Info().Str("mode", service.Mode()).Str("target", cfg.Extraction.TargetURL).Msg("Score total function started")

	lambda.Start(newHandler(service, logger))
}
