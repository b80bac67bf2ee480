package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"event-checkin/internal/data/entity"
	"event-checkin/internal/testutil"
	"event-checkin/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func TestPostgresRepositories(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)

	repos := NewRepository(database.NewDB(pool), zap.NewNop())
	now := time.Now().UTC().Truncate(time.Microsecond)

	t.Run("events keep insertion order", func(t *testing.T) {
		testutil.TruncateAll(t, ctx, pool)

		ids := make([]uuid.UUID, 0, 3)
		for _, title := range []string{"A", "B", "C"} {
			e := &entity.Event{
				Base:        entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
				Title:       title,
				ScheduledAt: now.Add(time.Hour),
			}
			if err := repos.Event.Create(ctx, e); err != nil {
				t.Fatalf("create: %v", err)
			}
			ids = append(ids, e.ID)
		}

		all, err := repos.Event.FindAll(ctx)
		if err != nil {
			t.Fatalf("find all: %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("expected 3 events, got %d", len(all))
		}
		for i, e := range all {
			if e.ID != ids[i] {
				t.Fatalf("position %d: expected %s, got %s", i, ids[i], e.ID)
			}
		}
	})

	t.Run("registration round trip inside tx", func(t *testing.T) {
		testutil.TruncateAll(t, ctx, pool)

		event := &entity.Event{
			Base:        entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
			Title:       "Workshop",
			ScheduledAt: now.Add(time.Hour),
		}
		if err := repos.Event.Create(ctx, event); err != nil {
			t.Fatalf("create event: %v", err)
		}

		reg := &entity.Registration{
			BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
			EventID:    event.ID,
			Name:       "Ana",
			Email:      "ana@example.com",
			CollegeID:  "C-1",
		}
		err := repos.WithTx(ctx, func(txCtx context.Context) error {
			if _, err := repos.Event.FindByIDForUpdate(txCtx, event.ID); err != nil {
				return err
			}
			return repos.Registration.Create(txCtx, reg)
		})
		if err != nil {
			t.Fatalf("tx: %v", err)
		}

		got, err := repos.Registration.FindByEmail(ctx, event.ID, "ana@example.com")
		if err != nil || got == nil || got.ID != reg.ID {
			t.Fatalf("find by email: %+v, %v", got, err)
		}
	})

	t.Run("otp consume has one winner", func(t *testing.T) {
		testutil.TruncateAll(t, ctx, pool)

		eventID := uuid.New()
		otp := &entity.OTP{
			BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
			EventID:    eventID,
			Email:      "ana@example.com",
			OTPCode:    "123456",
			ExpiresAt:  now.Add(15 * time.Minute),
		}
		if err := repos.OTP.CreateBatch(ctx, []*entity.OTP{otp}); err != nil {
			t.Fatalf("create batch: %v", err)
		}

		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			winners int
		)
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				got, err := repos.OTP.Consume(ctx, eventID, "ana@example.com", "123456", now)
				if err != nil {
					t.Errorf("consume: %v", err)
					return
				}
				if got != nil {
					mu.Lock()
					winners++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		if winners != 1 {
			t.Fatalf("expected exactly 1 winner, got %d", winners)
		}
	})

	t.Run("otp consume by code", func(t *testing.T) {
		testutil.TruncateAll(t, ctx, pool)

		eventID := uuid.New()
		otp := &entity.OTP{
			BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
			EventID:    eventID,
			Email:      "bo@example.com",
			OTPCode:    "424242",
			ExpiresAt:  now.Add(15 * time.Minute),
		}
		if err := repos.OTP.CreateBatch(ctx, []*entity.OTP{otp}); err != nil {
			t.Fatalf("create batch: %v", err)
		}

		got, err := repos.OTP.ConsumeByCode(ctx, eventID, "424242", now)
		if err != nil {
			t.Fatalf("consume by code: %v", err)
		}
		if got == nil || got.Email != "bo@example.com" || !got.IsUsed {
			t.Fatalf("unexpected otp: %+v", got)
		}

		again, err := repos.OTP.ConsumeByCode(ctx, eventID, "424242", now)
		if err != nil {
			t.Fatalf("consume by code again: %v", err)
		}
		if again != nil {
			t.Fatalf("expected nil on second consume, got %+v", again)
		}
	})
}
