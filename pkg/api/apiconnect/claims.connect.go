package apiconnect

import (
	"context"
	"errors"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/claimwise/pkg/api"
)

const (
	// ClaimServiceName is the fully-qualified name of the ClaimService service.
	ClaimServiceName = "claimwise.v1.ClaimService"

	ClaimServiceCreateClaimProcedure              = "/claimwise.v1.ClaimService/CreateClaim"
	ClaimServiceCreateClaimFromTreatmentProcedure = "/claimwise.v1.ClaimService/CreateClaimFromTreatment"
	ClaimServiceGetClaimProcedure                 = "/claimwise.v1.ClaimService/GetClaim"
	ClaimServiceListClaimsProcedure               = "/claimwise.v1.ClaimService/ListClaims"
	ClaimServiceSubmitClaimProcedure              = "/claimwise.v1.ClaimService/SubmitClaim"
	ClaimServiceStartReviewProcedure              = "/claimwise.v1.ClaimService/StartReview"
	ClaimServiceReviewClaimProcedure              = "/claimwise.v1.ClaimService/ReviewClaim"
	ClaimServiceDeleteClaimProcedure              = "/claimwise.v1.ClaimService/DeleteClaim"
)

// ClaimServiceClient is a client for the claimwise.v1.ClaimService service.
type ClaimServiceClient interface {
	CreateClaim(context.Context, *connect.Request[api.CreateClaimRequest]) (*connect.Response[api.CreateClaimResponse], error)
	CreateClaimFromTreatment(context.Context, *connect.Request[api.CreateClaimFromTreatmentRequest]) (*connect.Response[api.CreateClaimFromTreatmentResponse], error)
	GetClaim(context.Context, *connect.Request[api.GetClaimRequest]) (*connect.Response[api.GetClaimResponse], error)
	ListClaims(context.Context, *connect.Request[api.ListClaimsRequest]) (*connect.Response[api.ListClaimsResponse], error)
	SubmitClaim(context.Context, *connect.Request[api.SubmitClaimRequest]) (*connect.Response[api.SubmitClaimResponse], error)
	StartReview(context.Context, *connect.Request[api.StartReviewRequest]) (*connect.Response[api.StartReviewResponse], error)
	ReviewClaim(context.Context, *connect.Request[api.ReviewClaimRequest]) (*connect.Response[api.ReviewClaimResponse], error)
	DeleteClaim(context.Context, *connect.Request[api.DeleteClaimRequest]) (*connect.Response[api.DeleteClaimResponse], error)
}

// NewClaimServiceClient constructs a client for the claimwise.v1.ClaimService service.
func NewClaimServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ClaimServiceClient {
	baseURL = trimBase(baseURL)
	opts = clientOptions(opts)
	return &claimServiceClient{
		createClaim: connect.NewClient[api.CreateClaimRequest, api.CreateClaimResponse](
			httpClient, baseURL+ClaimServiceCreateClaimProcedure, opts...),
		createClaimFromTreatment: connect.NewClient[api.CreateClaimFromTreatmentRequest, api.CreateClaimFromTreatmentResponse](
			httpClient, baseURL+ClaimServiceCreateClaimFromTreatmentProcedure, opts...),
		getClaim: connect.NewClient[api.GetClaimRequest, api.GetClaimResponse](
			httpClient, baseURL+ClaimServiceGetClaimProcedure, opts...),
		listClaims: connect.NewClient[api.ListClaimsRequest, api.ListClaimsResponse](
			httpClient, baseURL+ClaimServiceListClaimsProcedure, opts...),
		submitClaim: connect.NewClient[api.SubmitClaimRequest, api.SubmitClaimResponse](
			httpClient, baseURL+ClaimServiceSubmitClaimProcedure, opts...),
		startReview: connect.NewClient[api.StartReviewRequest, api.StartReviewResponse](
			httpClient, baseURL+ClaimServiceStartReviewProcedure, opts...),
		reviewClaim: connect.NewClient[api.ReviewClaimRequest, api.ReviewClaimResponse](
			httpClient, baseURL+ClaimServiceReviewClaimProcedure, opts...),
		deleteClaim: connect.NewClient[api.DeleteClaimRequest, api.DeleteClaimResponse](
			httpClient, baseURL+ClaimServiceDeleteClaimProcedure, opts...),
	}
}

type claimServiceClient struct {
	createClaim              *connect.Client[api.CreateClaimRequest, api.CreateClaimResponse]
	createClaimFromTreatment *connect.Client[api.CreateClaimFromTreatmentRequest, api.CreateClaimFromTreatmentResponse]
	getClaim                 *connect.Client[api.GetClaimRequest, api.GetClaimResponse]
	listClaims               *connect.Client[api.ListClaimsRequest, api.ListClaimsResponse]
	submitClaim              *connect.Client[api.SubmitClaimRequest, api.SubmitClaimResponse]
	startReview              *connect.Client[api.StartReviewRequest, api.StartReviewResponse]
	reviewClaim              *connect.Client[api.ReviewClaimRequest, api.ReviewClaimResponse]
	deleteClaim              *connect.Client[api.DeleteClaimRequest, api.DeleteClaimResponse]
}

func (c *claimServiceClient) CreateClaim(ctx context.Context, req *connect.Request[api.CreateClaimRequest]) (*connect.Response[api.CreateClaimResponse], error) {
	return c.createClaim.CallUnary(ctx, req)
}

func (c *claimServiceClient) CreateClaimFromTreatment(ctx context.Context, req *connect.Request[api.CreateClaimFromTreatmentRequest]) (*connect.Response[api.CreateClaimFromTreatmentResponse], error) {
	return c.createClaimFromTreatment.CallUnary(ctx, req)
}

func (c *claimServiceClient) GetClaim(ctx context.Context, req *connect.Request[api.GetClaimRequest]) (*connect.Response[api.GetClaimResponse], error) {
	return c.getClaim.CallUnary(ctx, req)
}

func (c *claimServiceClient) ListClaims(ctx context.Context, req *connect.Request[api.ListClaimsRequest]) (*connect.Response[api.ListClaimsResponse], error) {
	return c.listClaims.CallUnary(ctx, req)
}

func (c *claimServiceClient) SubmitClaim(ctx context.Context, req *connect.Request[api.SubmitClaimRequest]) (*connect.Response[api.SubmitClaimResponse], error) {
	return c.submitClaim.CallUnary(ctx, req)
}

func (c *claimServiceClient) StartReview(ctx context.Context, req *connect.Request[api.StartReviewRequest]) (*connect.Response[api.StartReviewResponse], error) {
	return c.startReview.CallUnary(ctx, req)
}

func (c *claimServiceClient) ReviewClaim(ctx context.Context, req *connect.Request[api.ReviewClaimRequest]) (*connect.Response[api.ReviewClaimResponse], error) {
	return c.reviewClaim.CallUnary(ctx, req)
}

func (c *claimServiceClient) DeleteClaim(ctx context.Context, req *connect.Request[api.DeleteClaimRequest]) (*connect.Response[api.DeleteClaimResponse], error) {
	return c.deleteClaim.CallUnary(ctx, req)
}

// ClaimServiceHandler is implemented by the claimwise.v1.ClaimService server.
type ClaimServiceHandler interface {
	CreateClaim(context.Context, *connect.Request[api.CreateClaimRequest]) (*connect.Response[api.CreateClaimResponse], error)
	CreateClaimFromTreatment(context.Context, *connect.Request[api.CreateClaimFromTreatmentRequest]) (*connect.Response[api.CreateClaimFromTreatmentResponse], error)
	GetClaim(context.Context, *connect.Request[api.GetClaimRequest]) (*connect.Response[api.GetClaimResponse], error)
	ListClaims(context.Context, *connect.Request[api.ListClaimsRequest]) (*connect.Response[api.ListClaimsResponse], error)
	SubmitClaim(context.Context, *connect.Request[api.SubmitClaimRequest]) (*connect.Response[api.SubmitClaimResponse], error)
	StartReview(context.Context, *connect.Request[api.StartReviewRequest]) (*connect.Response[api.StartReviewResponse], error)
	ReviewClaim(context.Context, *connect.Request[api.ReviewClaimRequest]) (*connect.Response[api.ReviewClaimResponse], error)
	DeleteClaim(context.Context, *connect.Request[api.DeleteClaimRequest]) (*connect.Response[api.DeleteClaimResponse], error)
}

// NewClaimServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewClaimServiceHandler(svc ClaimServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + ClaimServiceName + "/", route(map[string]http.Handler{
		ClaimServiceCreateClaimProcedure:              connect.NewUnaryHandler(ClaimServiceCreateClaimProcedure, svc.CreateClaim, opts...),
		ClaimServiceCreateClaimFromTreatmentProcedure: connect.NewUnaryHandler(ClaimServiceCreateClaimFromTreatmentProcedure, svc.CreateClaimFromTreatment, opts...),
		ClaimServiceGetClaimProcedure:                 connect.NewUnaryHandler(ClaimServiceGetClaimProcedure, svc.GetClaim, opts...),
		ClaimServiceListClaimsProcedure:               connect.NewUnaryHandler(ClaimServiceListClaimsProcedure, svc.ListClaims, opts...),
		ClaimServiceSubmitClaimProcedure:              connect.NewUnaryHandler(ClaimServiceSubmitClaimProcedure, svc.SubmitClaim, opts...),
		ClaimServiceStartReviewProcedure:              connect.NewUnaryHandler(ClaimServiceStartReviewProcedure, svc.StartReview, opts...),
		ClaimServiceReviewClaimProcedure:              connect.NewUnaryHandler(ClaimServiceReviewClaimProcedure, svc.ReviewClaim, opts...),
		ClaimServiceDeleteClaimProcedure:              connect.NewUnaryHandler(ClaimServiceDeleteClaimProcedure, svc.DeleteClaim, opts...),
	})
}

// UnimplementedClaimServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedClaimServiceHandler struct{}

func (UnimplementedClaimServiceHandler) CreateClaim(context.Context, *connect.Request[api.CreateClaimRequest]) (*connect.Response[api.CreateClaimResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("claimwise.v1.ClaimService.CreateClaim is not implemented"))
}

func (UnimplementedClaimServiceHandler) CreateClaimFromTreatment(context.Context, *connect.Request[api.CreateClaimFromTreatmentRequest]) (*connect.Response[api.CreateClaimFromTreatmentResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("claimwise.v1.ClaimService.CreateClaimFromTreatment is not implemented"))
}

func (UnimplementedClaimServiceHandler) GetClaim(context.Context, *connect.Request[api.GetClaimRequest]) (*connect.Response[api.GetClaimResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("claimwise.v1.ClaimService.GetClaim is not implemented"))
}

func (UnimplementedClaimServiceHandler) ListClaims(context.Context, *connect.Request[api.ListClaimsRequest]) (*connect.Response[api.ListClaimsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("claimwise.v1.ClaimService.ListClaims is not implemented"))
}

func (UnimplementedClaimServiceHandler) SubmitClaim(context.Context, *connect.Request[api.SubmitClaimRequest]) (*connect.Response[api.SubmitClaimResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("claimwise.v1.ClaimService.SubmitClaim is not implemented"))
}

func (UnimplementedClaimServiceHandler) StartReview(context.Context, *connect.Request[api.StartReviewRequest]) (*connect.Response[api.StartReviewResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("claimwise.v1.ClaimService.StartReview is not implemented"))
}

func (UnimplementedClaimServiceHandler) ReviewClaim(context.Context, *connect.Request[api.ReviewClaimRequest]) (*connect.Response[api.ReviewClaimResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("claimwise.v1.ClaimService.ReviewClaim is not implemented"))
}

func (UnimplementedClaimServiceHandler) DeleteClaim(context.Context, *connect.Request[api.DeleteClaimRequest]) (*connect.Response[api.DeleteClaimResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("claimwise.v1.ClaimService.DeleteClaim is not implemented"))
}
