package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"event-checkin/pkg/mailer"
	"event-checkin/pkg/queue"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type fakeQueue struct {
	mu      sync.Mutex
	jobs    []*queue.Job
	retried []*queue.Job
}

func (f *fakeQueue) Dequeue(ctx context.Context) (*queue.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.jobs) == 0 {
		return nil, nil
	}
	job := f.jobs[0]
	f.jobs = f.jobs[1:]
	return job, nil
}

func (f *fakeQueue) Retry(_ context.Context, job *queue.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	job.Attempt++
	f.retried = append(f.retried, job)
	return nil
}

type fakeSender struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, msg mailer.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func otpJob(t *testing.T) *queue.Job {
	t.Helper()
	body, err := json.Marshal(queue.OTPEmailPayload{
		EventID:        uuid.New(),
		EventTitle:     "Go Meetup",
		RegistrationID: uuid.New(),
		RecipientName:  "Ana",
		RecipientEmail: "ana@example.com",
		OTPCode:        "123456",
		ExpiresAt:      time.Date(2026, 3, 1, 10, 15, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return &queue.Job{ID: uuid.NewString(), Type: queue.JobTypeOTPEmail, Payload: body}
}

func TestEmailProcessor_Process(t *testing.T) {
	t.Parallel()

	s := &fakeSender{}
	p := NewEmailProcessor(&fakeQueue{}, s, zap.NewNop())

	if err := p.Process(context.Background(), otpJob(t)); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(s.sent) != 1 || s.sent[0].To != "ana@example.com" {
		t.Fatalf("unexpected sent messages: %+v", s.sent)
	}

	if err := p.Process(context.Background(), &queue.Job{Type: "other"}); err == nil {
		t.Fatal("expected error for unknown job type")
	}
}

func TestEmailProcessor_RunRetriesFailures(t *testing.T) {
	t.Parallel()

	q := &fakeQueue{jobs: []*queue.Job{otpJob(t)}}
	s := &fakeSender{err: errors.New("relay down")}
	p := NewEmailProcessor(q, s, zap.NewNop())
	p.backoff = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for {
		q.mu.Lock()
		n := len(q.retried)
		q.mu.Unlock()
		if n > 0 {
			break
		}
		select {
		case <-deadline:
			cancel()
			t.Fatal("job was not retried")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	<-done

	if q.retried[0].Attempt != 1 {
		t.Fatalf("expected attempt 1, got %d", q.retried[0].Attempt)
	}
}
