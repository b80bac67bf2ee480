package adaptor

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"event-checkin/internal/usecase"

	"go.uber.org/zap"
)

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{usecase.ErrEventNotFound, http.StatusNotFound},
		{usecase.ErrRegistrationNotFound, http.StatusNotFound},
		{usecase.ErrInvalidOrExpiredOTP, http.StatusBadRequest},
		{usecase.ErrAlreadyCheckedIn, http.StatusBadRequest},
		{usecase.ErrAlreadyCheckedOut, http.StatusBadRequest},
		{usecase.ErrCheckInRequired, http.StatusBadRequest},
		{usecase.ErrEventFull, http.StatusConflict},
		{usecase.ErrDuplicateRegistration, http.StatusConflict},
		{usecase.ErrEmailExists, http.StatusConflict},
		{usecase.ErrInvalidCredentials, http.StatusUnauthorized},
		{usecase.ErrUnauthorized, http.StatusUnauthorized},
		{usecase.ErrSignupDisabled, http.StatusForbidden},
		{fmt.Errorf("register: %w", usecase.ErrEventFull), http.StatusConflict},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeServiceError(rec, zap.NewNop(), tt.err, "test")

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestWriteServiceError_ValidationFields(t *testing.T) {
	err := &usecase.ValidationError{Fields: map[string]string{"email": "email must be a valid email address"}}

	rec := httptest.NewRecorder()
	writeServiceError(rec, zap.NewNop(), fmt.Errorf("create: %w", err), "test")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var body struct {
		Status bool              `json:"status"`
		Errors map[string]string `json:"errors"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status || body.Errors["email"] == "" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestWriteServiceError_HidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	writeServiceError(rec, zap.NewNop(), errors.New("pq: password authentication failed"), "test")

	if strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("internal error leaked: %s", rec.Body.String())
	}
}

func TestDecodeBody_Malformed(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/events", strings.NewReader("{"))

	var dst map[string]any
	if decodeBody(rec, req, &dst) {
		t.Fatal("expected decode failure")
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
