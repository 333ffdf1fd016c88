package server

import (
	"context"
	"net/url"

	"github.com/aws/aws-lambda-go/events"

	"github.com/mesh-intelligence/treegrid/pkg/grid"
)

// HandleLambda renders the grid for an API Gateway HTTP API (payload v2)
// event. Use it with lambda.Start.
func (s *Server) HandleLambda(ctx context.Context, event events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	q := url.Values{}
	for k, v := range event.QueryStringParameters {
		q.Set(k, v)
	}
	req := grid.RequestFromQuery(q)
	req.Route = event.RawPath

	resp := s.render(ctx, req)
	return events.APIGatewayV2HTTPResponse{
		StatusCode: resp.status,
		Headers:    map[string]string{"Content-Type": resp.contentType},
		Body:       resp.body,
	}, nil
}
