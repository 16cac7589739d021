package domainwatcher

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
)

type LambdaHandlerFn func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// LambdaHandler serves API Gateway proxy invocations. The request is ignored.
func (w *Watcher) LambdaHandler() LambdaHandlerFn {
	return func(ctx context.Context, _ events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		html, err := w.Report(ctx)
		if err != nil {
			return events.APIGatewayProxyResponse{}, err
		}

		return events.APIGatewayProxyResponse{
			StatusCode: 200,
			Headers: map[string]string{
				"Content-Type": "text/html; charset=utf-8",
			},
			Body: html,
		}, nil
	}
}
