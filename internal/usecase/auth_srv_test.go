package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"event-checkin/internal/dto/request"
	"event-checkin/pkg/utils"

	"github.com/google/uuid"
)

func loginReq(email, password string) *request.AdminAuthRequest {
	return &request.AdminAuthRequest{Email: email, Password: password, Action: request.AuthActionLogin}
}

func TestAuthService_BootstrapAndLogin(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)
	ctx := context.Background()

	if err := h.svc.Auth.Bootstrap(ctx); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if err := h.svc.Auth.Bootstrap(ctx); err != nil {
		t.Fatalf("second bootstrap should be a no-op: %v", err)
	}

	_, err := h.svc.Auth.Authenticate(ctx, loginReq("root@example.com", "wrong-pass"), request.ClientMeta{})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	_, err = h.svc.Auth.Authenticate(ctx, loginReq("nobody@example.com", "changeme"), request.ClientMeta{})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown admin, got %v", err)
	}

	resp, err := h.svc.Auth.Authenticate(ctx, loginReq("ROOT@example.com", "changeme"), request.ClientMeta{UserAgent: "test"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.Token == "" || resp.Admin.Email != "root@example.com" {
		t.Fatalf("unexpected auth response: %+v", resp)
	}
	if !resp.ExpiresAt.Equal(testStart.Add(24 * time.Hour)) {
		t.Fatalf("unexpected expiry: %v", resp.ExpiresAt)
	}

	adminID, err := h.svc.Auth.ValidateToken(ctx, resp.Token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if adminID.String() != resp.Admin.ID {
		t.Fatalf("expected admin %s, got %s", resp.Admin.ID, adminID)
	}
}

func TestAuthService_TokenRejections(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)
	ctx := context.Background()
	if err := h.svc.Auth.Bootstrap(ctx); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	resp, err := h.svc.Auth.Login(ctx, loginReq("root@example.com", "changeme"), request.ClientMeta{})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := h.svc.Auth.ValidateToken(ctx, "garbage"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for garbage, got %v", err)
	}

	forged, _, err := NewTokenIssuer("other-secret", time.Hour).Issue(uuid.MustParse(resp.Admin.ID), "root@example.com", uuid.New(), testStart)
	if err != nil {
		t.Fatalf("forge: %v", err)
	}
	if _, err := h.svc.Auth.ValidateToken(ctx, forged); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for forged token, got %v", err)
	}

	if err := h.svc.Auth.Logout(ctx, resp.Token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := h.svc.Auth.ValidateToken(ctx, resp.Token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized after logout, got %v", err)
	}
	if err := h.svc.Auth.Logout(ctx, resp.Token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized on second logout, got %v", err)
	}
}

func TestAuthService_TokenExpires(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)
	ctx := context.Background()
	if err := h.svc.Auth.Bootstrap(ctx); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	resp, err := h.svc.Auth.Login(ctx, loginReq("root@example.com", "changeme"), request.ClientMeta{})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	h.clock.Advance(25 * time.Hour)
	if _, err := h.svc.Auth.ValidateToken(ctx, resp.Token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized after expiry, got %v", err)
	}
}

func TestAuthService_Signup(t *testing.T) {
	t.Parallel()

	signup := &request.AdminAuthRequest{
		Email:    "new@example.com",
		Password: "secret123",
		Name:     "New Admin",
		Action:   request.AuthActionSignup,
	}

	t.Run("disabled by default", func(t *testing.T) {
		h := newHarness(t, nil)
		req := *signup
		_, err := h.svc.Auth.Authenticate(context.Background(), &req, request.ClientMeta{})
		if !errors.Is(err, ErrSignupDisabled) {
			t.Fatalf("expected ErrSignupDisabled, got %v", err)
		}
	})

	t.Run("enabled creates once", func(t *testing.T) {
		h := newHarness(t, func(c *utils.Config) { c.Admin.SignupEnabled = true })
		ctx := context.Background()

		req := *signup
		resp, err := h.svc.Auth.Authenticate(ctx, &req, request.ClientMeta{})
		if err != nil {
			t.Fatalf("signup: %v", err)
		}
		if resp.Token != "" || resp.Admin.Email != "new@example.com" || resp.Admin.Name != "New Admin" {
			t.Fatalf("unexpected signup response: %+v", resp)
		}

		again := *signup
		if _, err := h.svc.Auth.Authenticate(ctx, &again, request.ClientMeta{}); !errors.Is(err, ErrEmailExists) {
			t.Fatalf("expected ErrEmailExists, got %v", err)
		}

		if _, err := h.svc.Auth.Login(ctx, loginReq("new@example.com", "secret123"), request.ClientMeta{}); err != nil {
			t.Fatalf("login after signup: %v", err)
		}
	})

	t.Run("invalid action", func(t *testing.T) {
		h := newHarness(t, nil)
		req := &request.AdminAuthRequest{Email: "a@example.com", Password: "secret123", Action: "delete"}
		if _, err := h.svc.Auth.Authenticate(context.Background(), req, request.ClientMeta{}); !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})
}
