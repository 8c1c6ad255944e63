package apiconnect

import (
	"context"
	"errors"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/claimwise/pkg/api"
)

const (
	// PaymentServiceName is the fully-qualified name of the PaymentService service.
	PaymentServiceName = "claimwise.v1.PaymentService"

	PaymentServiceGetPaymentProcedure      = "/claimwise.v1.PaymentService/GetPayment"
	PaymentServiceListPaymentsProcedure    = "/claimwise.v1.PaymentService/ListPayments"
	PaymentServiceInitiatePaymentProcedure = "/claimwise.v1.PaymentService/InitiatePayment"
	PaymentServiceCompletePaymentProcedure = "/claimwise.v1.PaymentService/CompletePayment"
	PaymentServiceRejectPaymentProcedure   = "/claimwise.v1.PaymentService/RejectPayment"
	PaymentServiceReissuePaymentProcedure  = "/claimwise.v1.PaymentService/ReissuePayment"
)

// PaymentServiceClient is a client for the claimwise.v1.PaymentService service.
type PaymentServiceClient interface {
	GetPayment(context.Context, *connect.Request[api.GetPaymentRequest]) (*connect.Response[api.GetPaymentResponse], error)
	ListPayments(context.Context, *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error)
	InitiatePayment(context.Context, *connect.Request[api.InitiatePaymentRequest]) (*connect.Response[api.InitiatePaymentResponse], error)
	CompletePayment(context.Context, *connect.Request[api.CompletePaymentRequest]) (*connect.Response[api.CompletePaymentResponse], error)
	RejectPayment(context.Context, *connect.Request[api.RejectPaymentRequest]) (*connect.Response[api.RejectPaymentResponse], error)
	ReissuePayment(context.Context, *connect.Request[api.ReissuePaymentRequest]) (*connect.Response[api.ReissuePaymentResponse], error)
}

// NewPaymentServiceClient constructs a client for the claimwise.v1.PaymentService service.
func NewPaymentServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) PaymentServiceClient {
	baseURL = trimBase(baseURL)
	opts = clientOptions(opts)
	return &paymentServiceClient{
		getPayment: connect.NewClient[api.GetPaymentRequest, api.GetPaymentResponse](
			httpClient, baseURL+PaymentServiceGetPaymentProcedure, opts...),
		listPayments: connect.NewClient[api.ListPaymentsRequest, api.ListPaymentsResponse](
			httpClient, baseURL+PaymentServiceListPaymentsProcedure, opts...),
		initiatePayment: connect.NewClient[api.InitiatePaymentRequest, api.InitiatePaymentResponse](
			httpClient, baseURL+PaymentServiceInitiatePaymentProcedure, opts...),
		completePayment: connect.NewClient[api.CompletePaymentRequest, api.CompletePaymentResponse](
			httpClient, baseURL+PaymentServiceCompletePaymentProcedure, opts...),
		rejectPayment: connect.NewClient[api.RejectPaymentRequest, api.RejectPaymentResponse](
			httpClient, baseURL+PaymentServiceRejectPaymentProcedure, opts...),
		reissuePayment: connect.NewClient[api.ReissuePaymentRequest, api.ReissuePaymentResponse](
			httpClient, baseURL+PaymentServiceReissuePaymentProcedure, opts...),
	}
}

type paymentServiceClient struct {
	getPayment      *connect.Client[api.GetPaymentRequest, api.GetPaymentResponse]
	listPayments    *connect.Client[api.ListPaymentsRequest, api.ListPaymentsResponse]
	initiatePayment *connect.Client[api.InitiatePaymentRequest, api.InitiatePaymentResponse]
	completePayment *connect.Client[api.CompletePaymentRequest, api.CompletePaymentResponse]
	rejectPayment   *connect.Client[api.RejectPaymentRequest, api.RejectPaymentResponse]
	reissuePayment  *connect.Client[api.ReissuePaymentRequest, api.ReissuePaymentResponse]
}

func (c *paymentServiceClient) GetPayment(ctx context.Context, req *connect.Request[api.GetPaymentRequest]) (*connect.Response[api.GetPaymentResponse], error) {
	return c.getPayment.CallUnary(ctx, req)
}

func (c *paymentServiceClient) ListPayments(ctx context.Context, req *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	return c.listPayments.CallUnary(ctx, req)
}

func (c *paymentServiceClient) InitiatePayment(ctx context.Context, req *connect.Request[api.InitiatePaymentRequest]) (*connect.Response[api.InitiatePaymentResponse], error) {
	return c.initiatePayment.CallUnary(ctx, req)
}

func (c *paymentServiceClient) CompletePayment(ctx context.Context, req *connect.Request[api.CompletePaymentRequest]) (*connect.Response[api.CompletePaymentResponse], error) {
	return c.completePayment.CallUnary(ctx, req)
}

func (c *paymentServiceClient) RejectPayment(ctx context.Context, req *connect.Request[api.RejectPaymentRequest]) (*connect.Response[api.RejectPaymentResponse], error) {
	return c.rejectPayment.CallUnary(ctx, req)
}

func (c *paymentServiceClient) ReissuePayment(ctx context.Context, req *connect.Request[api.ReissuePaymentRequest]) (*connect.Response[api.ReissuePaymentResponse], error) {
	return c.reissuePayment.CallUnary(ctx, req)
}

// PaymentServiceHandler is implemented by the claimwise.v1.PaymentService server.
type PaymentServiceHandler interface {
	GetPayment(context.Context, *connect.Request[api.GetPaymentRequest]) (*connect.Response[api.GetPaymentResponse], error)
	ListPayments(context.Context, *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error)
	InitiatePayment(context.Context, *connect.Request[api.InitiatePaymentRequest]) (*connect.Response[api.InitiatePaymentResponse], error)
	CompletePayment(context.Context, *connect.Request[api.CompletePaymentRequest]) (*connect.Response[api.CompletePaymentResponse], error)
	RejectPayment(context.Context, *connect.Request[api.RejectPaymentRequest]) (*connect.Response[api.RejectPaymentResponse], error)
	ReissuePayment(context.Context, *connect.Request[api.ReissuePaymentRequest]) (*connect.Response[api.ReissuePaymentResponse], error)
}

// NewPaymentServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewPaymentServiceHandler(svc PaymentServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + PaymentServiceName + "/", route(map[string]http.Handler{
		PaymentServiceGetPaymentProcedure:      connect.NewUnaryHandler(PaymentServiceGetPaymentProcedure, svc.GetPayment, opts...),
		PaymentServiceListPaymentsProcedure:    connect.NewUnaryHandler(PaymentServiceListPaymentsProcedure, svc.ListPayments, opts...),
		PaymentServiceInitiatePaymentProcedure: connect.NewUnaryHandler(PaymentServiceInitiatePaymentProcedure, svc.InitiatePayment, opts...),
		PaymentServiceCompletePaymentProcedure: connect.NewUnaryHandler(PaymentServiceCompletePaymentProcedure, svc.CompletePayment, opts...),
		PaymentServiceRejectPaymentProcedure:   connect.NewUnaryHandler(PaymentServiceRejectPaymentProcedure, svc.RejectPayment, opts...),
		PaymentServiceReissuePaymentProcedure:  connect.NewUnaryHandler(PaymentServiceReissuePaymentProcedure, svc.ReissuePayment, opts...),
	})
}

// UnimplementedPaymentServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedPaymentServiceHandler struct{}

func (UnimplementedPaymentServiceHandler) GetPayment(context.Context, *connect.Request[api.GetPaymentRequest]) (*connect.Response[api.GetPaymentResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("claimwise.v1.PaymentService.GetPayment is not implemented"))
}

func (UnimplementedPaymentServiceHandler) ListPayments(context.Context, *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("claimwise.v1.PaymentService.ListPayments is not implemented"))
}

func (UnimplementedPaymentServiceHandler) InitiatePayment(context.Context, *connect.Request[api.InitiatePaymentRequest]) (*connect.Response[api.InitiatePaymentResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("claimwise.v1.PaymentService.InitiatePayment is not implemented"))
}

func (UnimplementedPaymentServiceHandler) CompletePayment(context.Context, *connect.Request[api.CompletePaymentRequest]) (*connect.Response[api.CompletePaymentResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("claimwise.v1.PaymentService.CompletePayment is not implemented"))
}

func (UnimplementedPaymentServiceHandler) RejectPayment(context.Context, *connect.Request[api.RejectPaymentRequest]) (*connect.Response[api.RejectPaymentResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("claimwise.v1.PaymentService.RejectPayment is not implemented"))
}

func (UnimplementedPaymentServiceHandler) ReissuePayment(context.Context, *connect.Request[api.ReissuePaymentRequest]) (*connect.Response[api.ReissuePaymentResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("claimwise.v1.PaymentService.ReissuePayment is not implemented"))
}
