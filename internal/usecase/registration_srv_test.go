package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"event-checkin/internal/data/entity"
	"event-checkin/internal/dto/request"
	"event-checkin/pkg/utils"

	"github.com/google/uuid"
)

func TestRegistrationService_Register(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)
	ctx := context.Background()
	event := h.createEvent(t, nil)

	reg, err := h.svc.Registration.Register(ctx, event.ID, &request.RegistrationRequest{
		Name:      "  Ana  ",
		Email:     " Ana@Example.COM ",
		CollegeID: "C-42",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if reg.Name != "Ana" || reg.Email != "ana@example.com" || reg.CollegeID != "C-42" {
		t.Fatalf("unexpected normalization: %+v", reg)
	}
	if reg.CheckedIn || reg.CheckedOut || reg.CheckInTime != nil || reg.CheckOutTime != nil {
		t.Fatalf("expected fresh attendance state: %+v", reg)
	}
	if reg.Status != entity.StateRegistered {
		t.Fatalf("expected registered status, got %s", reg.Status)
	}
	if reg.EventID != event.ID {
		t.Fatalf("expected event %s, got %s", event.ID, reg.EventID)
	}
}

func TestRegistrationService_Rejections(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)
	ctx := context.Background()
	event := h.createEvent(t, nil)

	tests := []struct {
		name    string
		eventID string
		req     request.RegistrationRequest
		wantErr error
	}{
		{
			name:    "missing name",
			eventID: event.ID,
			req:     request.RegistrationRequest{Email: "a@example.com", CollegeID: "C"},
			wantErr: ErrValidation,
		},
		{
			name:    "bad email",
			eventID: event.ID,
			req:     request.RegistrationRequest{Name: "A", Email: "nope", CollegeID: "C"},
			wantErr: ErrValidation,
		},
		{
			name:    "blank college id",
			eventID: event.ID,
			req:     request.RegistrationRequest{Name: "A", Email: "a@example.com", CollegeID: "  "},
			wantErr: ErrValidation,
		},
		{
			name:    "unknown event",
			eventID: uuid.NewString(),
			req:     request.RegistrationRequest{Name: "A", Email: "a@example.com", CollegeID: "C"},
			wantErr: ErrEventNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := h.svc.Registration.Register(ctx, tt.eventID, &req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestRegistrationService_DuplicateEmailPolicy(t *testing.T) {
	t.Parallel()

	t.Run("permissive by default", func(t *testing.T) {
		h := newHarness(t, nil)
		event := h.createEvent(t, nil)
		h.register(t, event.ID, "ana@example.com")
		h.register(t, event.ID, "ana@example.com")

		regs, err := h.svc.Registration.ListRegistrations(context.Background(), event.ID)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(regs) != 2 {
			t.Fatalf("expected 2 registrations, got %d", len(regs))
		}
	})

	t.Run("unique when enabled", func(t *testing.T) {
		h := newHarness(t, func(c *utils.Config) { c.App.UniqueEmail = true })
		event := h.createEvent(t, nil)
		h.register(t, event.ID, "ana@example.com")

		_, err := h.svc.Registration.Register(context.Background(), event.ID, &request.RegistrationRequest{
			Name: "Ana", Email: "ANA@example.com", CollegeID: "C",
		})
		if !errors.Is(err, ErrDuplicateRegistration) {
			t.Fatalf("expected ErrDuplicateRegistration, got %v", err)
		}
	})
}

func TestRegistrationService_CapacityUnderConcurrency(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)
	event := h.createEvent(t, intPtr(3))

	const attempts = 10
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ok      int
		full    int
		unknown []error
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := h.svc.Registration.Register(context.Background(), event.ID, &request.RegistrationRequest{
				Name: "A", Email: fmt.Sprintf("a%d@example.com", i), CollegeID: "C",
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrEventFull):
				full++
			default:
				unknown = append(unknown, err)
			}
		}(i)
	}
	wg.Wait()

	if len(unknown) > 0 {
		t.Fatalf("unexpected errors: %v", unknown)
	}
	if ok != 3 || full != attempts-3 {
		t.Fatalf("expected 3 successes and %d full, got %d and %d", attempts-3, ok, full)
	}
}

func TestRegistrationService_ListUnknownEvent(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)

	_, err := h.svc.Registration.ListRegistrations(context.Background(), uuid.NewString())
	if !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("expected ErrEventNotFound, got %v", err)
	}
}
