package apiconnect

import (
	"context"
	"errors"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/claimwise/pkg/api"
)

const (
	// TreatmentServiceName is the fully-qualified name of the TreatmentService service.
	TreatmentServiceName = "claimwise.v1.TreatmentService"

	TreatmentServiceRecordTreatmentProcedure = "/claimwise.v1.TreatmentService/RecordTreatment"
	TreatmentServiceGetTreatmentProcedure    = "/claimwise.v1.TreatmentService/GetTreatment"
)

// TreatmentServiceClient is a client for the claimwise.v1.TreatmentService service.
type TreatmentServiceClient interface {
	RecordTreatment(context.Context, *connect.Request[api.RecordTreatmentRequest]) (*connect.Response[api.RecordTreatmentResponse], error)
	GetTreatment(context.Context, *connect.Request[api.GetTreatmentRequest]) (*connect.Response[api.GetTreatmentResponse], error)
}

// NewTreatmentServiceClient constructs a client for the claimwise.v1.TreatmentService service.
func NewTreatmentServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) TreatmentServiceClient {
	baseURL = trimBase(baseURL)
	opts = clientOptions(opts)
	return &treatmentServiceClient{
		recordTreatment: connect.NewClient[api.RecordTreatmentRequest, api.RecordTreatmentResponse](
			httpClient, baseURL+TreatmentServiceRecordTreatmentProcedure, opts...),
		getTreatment: connect.NewClient[api.GetTreatmentRequest, api.GetTreatmentResponse](
			httpClient, baseURL+TreatmentServiceGetTreatmentProcedure, opts...),
	}
}

type treatmentServiceClient struct {
	recordTreatment *connect.Client[api.RecordTreatmentRequest, api.RecordTreatmentResponse]
	getTreatment    *connect.Client[api.GetTreatmentRequest, api.GetTreatmentResponse]
}

func (c *treatmentServiceClient) RecordTreatment(ctx context.Context, req *connect.Request[api.RecordTreatmentRequest]) (*connect.Response[api.RecordTreatmentResponse], error) {
	return c.recordTreatment.CallUnary(ctx, req)
}

func (c *treatmentServiceClient) GetTreatment(ctx context.Context, req *connect.Request[api.GetTreatmentRequest]) (*connect.Response[api.GetTreatmentResponse], error) {
	return c.getTreatment.CallUnary(ctx, req)
}

// TreatmentServiceHandler is implemented by the claimwise.v1.TreatmentService server.
type TreatmentServiceHandler interface {
	RecordTreatment(context.Context, *connect.Request[api.RecordTreatmentRequest]) (*connect.Response[api.RecordTreatmentResponse], error)
	GetTreatment(context.Context, *connect.Request[api.GetTreatmentRequest]) (*connect.Response[api.GetTreatmentResponse], error)
}

// NewTreatmentServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewTreatmentServiceHandler(svc TreatmentServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + TreatmentServiceName + "/", route(map[string]http.Handler{
		TreatmentServiceRecordTreatmentProcedure: connect.NewUnaryHandler(TreatmentServiceRecordTreatmentProcedure, svc.RecordTreatment, opts...),
		TreatmentServiceGetTreatmentProcedure:    connect.NewUnaryHandler(TreatmentServiceGetTreatmentProcedure, svc.GetTreatment, opts...),
	})
}

// UnimplementedTreatmentServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedTreatmentServiceHandler struct{}

func (UnimplementedTreatmentServiceHandler) RecordTreatment(context.Context, *connect.Request[api.RecordTreatmentRequest]) (*connect.Response[api.RecordTreatmentResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("claimwise.v1.TreatmentService.RecordTreatment is not implemented"))
}

func (UnimplementedTreatmentServiceHandler) GetTreatment(context.Context, *connect.Request[api.GetTreatmentRequest]) (*connect.Response[api.GetTreatmentResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("claimwise.v1.TreatmentService.GetTreatment is not implemented"))
}
