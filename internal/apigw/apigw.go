// Package apigw adapts the update pipeline to AWS API Gateway proxy events,
// for running as a Lambda function.
package apigw

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/go-logr/logr"

	"github.com/yuriy-kovalchuk/yk-ddns/internal/ddns"
	"github.com/yuriy-kovalchuk/yk-ddns/internal/version"
)

// Pipeline is the update processing the handler delegates to.
type Pipeline interface {
	Process(ctx context.Context, req ddns.Request) ddns.Result
	Check(ctx context.Context) error
}

// Handler serves API Gateway proxy events.
type Handler struct {
	pipeline Pipeline
	log      logr.Logger
}

// New creates a Handler.
func New(log logr.Logger, pipeline Pipeline) *Handler {
	return &Handler{pipeline: pipeline, log: log}
}

// Update handles an update event. Domain failures are reported in the body;
// the returned error is always nil.
func (h *Handler) Update(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	params := event.QueryStringParameters
	req := ddns.Request{
		Hostname:   params["hostname"],
		Hash:       params["hash"],
		InternalIP: params["internalip"],
		SourceIP:   event.RequestContext.Identity.SourceIP,
	}
	h.log.V(1).Info("update event", "requestId", event.RequestContext.RequestID, "hostname", req.Hostname)

	res := h.pipeline.Process(ctx, req)
	return toProxyResponse(ddns.FormatResult(res, isRaw(params))), nil
}

// Version handles a version event.
func (h *Handler) Version(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	raw := isRaw(event.QueryStringParameters)
	if err := h.pipeline.Check(ctx); err != nil {
		return toProxyResponse(ddns.FormatResult(ddns.Failure(err), raw)), nil
	}
	return toProxyResponse(ddns.FormatVersion(version.Get(), raw)), nil
}

func isRaw(params map[string]string) bool {
	_, ok := params["raw"]
	return ok
}

func toProxyResponse(resp ddns.Response) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: resp.StatusCode,
		Headers:    map[string]string{"Content-Type": resp.ContentType},
		Body:       resp.Body,
	}
}
