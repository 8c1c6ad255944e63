package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/claimwise/internal/auth"
	"github.com/mmynk/claimwise/internal/events"
	"github.com/mmynk/claimwise/internal/middleware"
	"github.com/mmynk/claimwise/internal/storage/sqlite"
	"github.com/mmynk/claimwise/pkg/api"
	"github.com/mmynk/claimwise/pkg/api/apiconnect"
)

const actorHeader = "X-Test-Actor"

// Test callers, as role:id.
const (
	patient      = "patient:pat-1"
	otherPatient = "patient:pat-2"
	doctor       = "doctor:doc-1"
	insurer      = "insurance:ins-1"
	bank         = "bank:bank-1"
)

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

// testAuthInterceptor returns a Connect interceptor that sets the actor named in
// the X-Test-Actor header. Requests without the header stay unauthenticated.
func testAuthInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if role, id, ok := strings.Cut(req.Header().Get(actorHeader), ":"); ok {
				ctx = middleware.WithActor(ctx, auth.Actor{ID: id, Role: auth.Role(role)})
			}
			return next(ctx, req)
		}
	}
}

type testEnv struct {
	claims     apiconnect.ClaimServiceClient
	payments   apiconnect.PaymentServiceClient
	treatments apiconnect.TreatmentServiceClient
	events     *events.Recorder
}

// setupTestServer starts all three services on a temp SQLite database.
func setupTestServer(t *testing.T, opts ...Option) *testEnv {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "claimwise-service-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	recorder := &events.Recorder{}
	opts = append([]Option{
		WithPublisher(recorder),
		WithClock(func() time.Time { return testNow }),
	}, opts...)

	interceptors := connect.WithInterceptors(testAuthInterceptor())
	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewClaimServiceHandler(NewClaimService(store, opts...), interceptors))
	mux.Handle(apiconnect.NewPaymentServiceHandler(NewPaymentService(store, opts...), interceptors))
	mux.Handle(apiconnect.NewTreatmentServiceHandler(NewTreatmentService(store, opts...), interceptors))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testEnv{
		claims:     apiconnect.NewClaimServiceClient(http.DefaultClient, server.URL),
		payments:   apiconnect.NewPaymentServiceClient(http.DefaultClient, server.URL),
		treatments: apiconnect.NewTreatmentServiceClient(http.DefaultClient, server.URL),
		events:     recorder,
	}
}

// as builds a request sent by the given test actor.
func as[T any](actor string, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	if actor != "" {
		req.Header().Set(actorHeader, actor)
	}
	return req
}

func expectCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Fatalf("expected code %v, got %v (%v)", want, got, err)
	}
}

// createClaim files a pending claim for pat-1 treated by doc-1.
func (e *testEnv) createClaim(t *testing.T, cost string) *api.Claim {
	t.Helper()
	resp, err := e.claims.CreateClaim(context.Background(), as(patient, &api.CreateClaimRequest{
		PatientId: "pat-1",
		DoctorId:  "doc-1",
		Diagnosis: "Fractured wrist",
		Cost:      cost,
		Documents: []string{"xray.png"},
	}))
	if err != nil {
		t.Fatalf("CreateClaim failed: %v", err)
	}
	return resp.Msg.Claim
}

// approvedClaim walks a new claim to approved and returns it with its payment.
func (e *testEnv) approvedClaim(t *testing.T, cost string) (*api.Claim, *api.Payment) {
	t.Helper()
	ctx := context.Background()
	claim := e.createClaim(t, cost)

	if _, err := e.claims.SubmitClaim(ctx, as(patient, &api.SubmitClaimRequest{ClaimId: claim.Id})); err != nil {
		t.Fatalf("SubmitClaim failed: %v", err)
	}
	resp, err := e.claims.ReviewClaim(ctx, as(insurer, &api.ReviewClaimRequest{
		ClaimId:  claim.Id,
		Decision: "approved",
	}))
	if err != nil {
		t.Fatalf("ReviewClaim failed: %v", err)
	}
	if resp.Msg.Payment == nil {
		t.Fatal("expected payment on approval")
	}
	return resp.Msg.Claim, resp.Msg.Payment
}
