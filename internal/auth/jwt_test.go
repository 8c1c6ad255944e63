package auth

import (
	"errors"
	"testing"
	"time"
)

func TestJWTManager(t *testing.T) {
	m := NewJWTManager("test-secret-key-0123456789abcdef", time.Hour)

	token, err := m.Generate(Actor{ID: "bank-7", Role: RoleBank})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	actor, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if actor.ID != "bank-7" || actor.Role != RoleBank {
		t.Errorf("unexpected actor: %+v", actor)
	}

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTManager("another-secret", time.Hour)
		if _, err := other.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		expired := NewJWTManager("test-secret-key-0123456789abcdef", -time.Minute)
		tok, err := expired.Generate(Actor{ID: "p-1", Role: RolePatient})
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if _, err := m.Validate(tok); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("unknown role", func(t *testing.T) {
		if _, err := m.Generate(Actor{ID: "x", Role: "admin"}); !errors.Is(err, ErrUnknownRole) {
			t.Errorf("expected ErrUnknownRole, got %v", err)
		}
	})
}

func TestParseRole(t *testing.T) {
	for in, want := range map[string]Role{"patient": RolePatient, "DOCTOR": RoleDoctor, " Insurance ": RoleInsurance, "bank": RoleBank} {
		got, err := ParseRole(in)
		if err != nil || got != want {
			t.Errorf("ParseRole(%q) = %s, %v; want %s", in, got, err, want)
		}
	}
}
