package middleware

import (
	"context"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/claimwise/internal/auth"
)

type pingRequest struct{}

func TestRequireAuth(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", time.Hour)
	token, err := manager.Generate(auth.Actor{ID: "bank-1", Role: auth.RoleBank})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	var seen auth.Actor
	next := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		seen, _ = GetActor(ctx)
		return nil, nil
	}
	handler := RequireAuth(manager)(next)

	tests := []struct {
		name   string
		header string
		code   connect.Code
	}{
		{"valid token", "Bearer " + token, 0},
		{"missing header", "", connect.CodeUnauthenticated},
		{"wrong scheme", "Basic " + token, connect.CodeUnauthenticated},
		{"garbage token", "Bearer not-a-jwt", connect.CodeUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = auth.Actor{}
			req := connect.NewRequest(&pingRequest{})
			if tt.header != "" {
				req.Header().Set("Authorization", tt.header)
			}

			_, err := handler(context.Background(), req)
			if tt.code == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if seen.ID != "bank-1" || seen.Role != auth.RoleBank {
					t.Errorf("actor: got %+v", seen)
				}
				return
			}
			if got := connect.CodeOf(err); got != tt.code {
				t.Errorf("expected %v, got %v", tt.code, got)
			}
			if seen.ID != "" {
				t.Error("next handler ran for a rejected request")
			}
		})
	}
}

func TestGetActor_Missing(t *testing.T) {
	if _, ok := GetActor(context.Background()); ok {
		t.Error("expected no actor on a bare context")
	}
}
