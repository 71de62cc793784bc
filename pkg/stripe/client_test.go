package stripe

import (
	"context"
	"testing"

	"github.com/favatis/favatis-backend/pkg/config"
)

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(context.Background(), config.StripeConfig{Secret: "whsec_x"}, nil)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestNewClientRequiresSigningSecret(t *testing.T) {
	_, err := NewClient(context.Background(), config.StripeConfig{APIKey: "sk_test_123"}, nil)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestNewClientRejectsMismatchedKey(t *testing.T) {
	cfg := config.StripeConfig{APIKey: "sk_live_123", Secret: "whsec_x", Env: "test"}
	if _, err := NewClient(context.Background(), cfg, nil); err == nil {
		t.Fatal("expected error for live key in test env")
	}
}

func TestNewClientRejectsUnknownEnv(t *testing.T) {
	cfg := config.StripeConfig{APIKey: "sk_test_123", Secret: "whsec_x", Env: "staging"}
	if _, err := NewClient(context.Background(), cfg, nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewClientTestEnv(t *testing.T) {
	cfg := config.StripeConfig{APIKey: "sk_test_123", Secret: "whsec_x", Env: "test"}
	client, err := NewClient(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.Environment() != "test" {
		t.Fatalf("unexpected environment %q", client.Environment())
	}
	if client.SigningSecret() != "whsec_x" {
		t.Fatalf("unexpected signing secret %q", client.SigningSecret())
	}
}
