package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"event-checkin/internal/dto/request"
	"event-checkin/internal/dto/response"
	"event-checkin/pkg/utils"

	"go.uber.org/zap"
)

// manualClock is a settable clock for expiry tests.
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock(t time.Time) *manualClock {
	return &manualClock{now: t.UTC()}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var testStart = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type harness struct {
	store    *memStore
	clock    *manualClock
	notifier *recordingNotifier
	svc      *Service
}

func newHarness(t *testing.T, mutate func(*utils.Config)) *harness {
	t.Helper()
	config := &utils.Config{
		App:   utils.AppConfig{LenientReads: true},
		JWT:   utils.JWTConfig{Secret: "test-secret", ExpiryHours: 24},
		OTP:   utils.OTPConfig{ExpiryMinutes: 15, Notifier: utils.NotifierLog},
		Admin: utils.AdminConfig{Email: "root@example.com", Password: "changeme", Name: "Root"},
	}
	if mutate != nil {
		mutate(config)
	}

	h := &harness{
		store:    newMemStore(),
		clock:    newManualClock(testStart),
		notifier: &recordingNotifier{},
	}
	h.svc = NewService(h.store.repository(), h.notifier, h.clock, config, zap.NewNop())
	return h
}

func (h *harness) createEvent(t *testing.T, limit *int) *response.EventResponse {
	t.Helper()
	event, err := h.svc.Event.CreateEvent(context.Background(), &request.EventRequest{
		Title:           "Go Meetup",
		Description:     "Monthly",
		Venue:           "Hall A",
		DateTime:        testStart.Add(24 * time.Hour),
		MaxParticipants: limit,
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	return event
}

func (h *harness) register(t *testing.T, eventID, email string) *response.RegistrationResponse {
	t.Helper()
	reg, err := h.svc.Registration.Register(context.Background(), eventID, &request.RegistrationRequest{
		Name:      "Attendee",
		Email:     email,
		CollegeID: "C-1",
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return reg
}

// issue generates a batch and returns the newest code sent to email.
func (h *harness) issue(t *testing.T, eventID, email string) string {
	t.Helper()
	if _, err := h.svc.OTP.GenerateForEvent(context.Background(), eventID); err != nil {
		t.Fatalf("generate otp: %v", err)
	}
	notice, ok := h.notifier.last(email)
	if !ok {
		t.Fatalf("no otp sent to %s", email)
	}
	return notice.Code
}

func registrationFor(email string) *request.RegistrationRequest {
	return &request.RegistrationRequest{Name: "Attendee", Email: email, CollegeID: "C-1"}
}

func intPtr(v int) *int {
	return &v
}
