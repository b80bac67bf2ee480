package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"event-checkin/internal/data/entity"
	"event-checkin/internal/data/repository"
	"event-checkin/internal/notify"

	"github.com/google/uuid"
)

var errStoreDown = errors.New("store down")

// memStore backs every fake repository. txMu serializes WithTx the way a
// row lock would.
type memStore struct {
	mu    sync.Mutex
	txMu  sync.Mutex
	seq   int
	order map[uuid.UUID]int

	events   map[uuid.UUID]*entity.Event
	regs     map[uuid.UUID]*entity.Registration
	otps     []*entity.OTP
	admins   map[uuid.UUID]*entity.Admin
	sessions map[uuid.UUID]*entity.Session

	failFindAll bool
}

type txKey struct{}

func newMemStore() *memStore {
	return &memStore{
		order:    make(map[uuid.UUID]int),
		events:   make(map[uuid.UUID]*entity.Event),
		regs:     make(map[uuid.UUID]*entity.Registration),
		admins:   make(map[uuid.UUID]*entity.Admin),
		sessions: make(map[uuid.UUID]*entity.Session),
	}
}

func (m *memStore) repository() *repository.Repository {
	return &repository.Repository{
		Transactor:   m,
		Event:        fakeEventRepo{m},
		Registration: fakeRegistrationRepo{m},
		OTP:          fakeOTPRepo{m},
		Admin:        fakeAdminRepo{m},
		Session:      fakeSessionRepo{m},
	}
}

func (m *memStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(context.WithValue(ctx, txKey{}, true))
}

func (m *memStore) next(id uuid.UUID) {
	m.seq++
	m.order[id] = m.seq
}

func (m *memStore) sorted(ids []uuid.UUID) {
	sort.Slice(ids, func(i, j int) bool { return m.order[ids[i]] < m.order[ids[j]] })
}

func copyReg(r *entity.Registration) *entity.Registration {
	c := *r
	return &c
}

type fakeEventRepo struct{ m *memStore }

func (f fakeEventRepo) Create(_ context.Context, event *entity.Event) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	c := *event
	f.m.events[event.ID] = &c
	f.m.next(event.ID)
	return nil
}

func (f fakeEventRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Event, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	e, ok := f.m.events[id]
	if !ok {
		return nil, nil
	}
	c := *e
	return &c, nil
}

func (f fakeEventRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	return f.FindByID(ctx, id)
}

func (f fakeEventRepo) FindAll(_ context.Context) ([]*entity.Event, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if f.m.failFindAll {
		return nil, errStoreDown
	}
	ids := make([]uuid.UUID, 0, len(f.m.events))
	for id := range f.m.events {
		ids = append(ids, id)
	}
	f.m.sorted(ids)
	out := make([]*entity.Event, 0, len(ids))
	for _, id := range ids {
		c := *f.m.events[id]
		out = append(out, &c)
	}
	return out, nil
}

func (f fakeEventRepo) Update(_ context.Context, event *entity.Event) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if _, ok := f.m.events[event.ID]; !ok {
		return errors.New("event not found")
	}
	c := *event
	f.m.events[event.ID] = &c
	return nil
}

type fakeRegistrationRepo struct{ m *memStore }

func (f fakeRegistrationRepo) Create(_ context.Context, reg *entity.Registration) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	f.m.regs[reg.ID] = copyReg(reg)
	f.m.next(reg.ID)
	return nil
}

func (f fakeRegistrationRepo) FindByID(_ context.Context, eventID, id uuid.UUID) (*entity.Registration, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	r, ok := f.m.regs[id]
	if !ok || r.EventID != eventID {
		return nil, nil
	}
	return copyReg(r), nil
}

func (f fakeRegistrationRepo) FindByIDForUpdate(ctx context.Context, eventID, id uuid.UUID) (*entity.Registration, error) {
	return f.FindByID(ctx, eventID, id)
}

func (f fakeRegistrationRepo) FindByEmail(ctx context.Context, eventID uuid.UUID, email string) (*entity.Registration, error) {
	regs, _ := f.FindByEvent(ctx, eventID)
	for _, r := range regs {
		if r.Email == email {
			return r, nil
		}
	}
	return nil, nil
}

func (f fakeRegistrationRepo) FindByEvent(ctx context.Context, eventID uuid.UUID) ([]*entity.Registration, error) {
	all, err := f.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Registration, 0)
	for _, r := range all {
		if r.EventID == eventID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f fakeRegistrationRepo) FindAll(_ context.Context) ([]*entity.Registration, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	ids := make([]uuid.UUID, 0, len(f.m.regs))
	for id := range f.m.regs {
		ids = append(ids, id)
	}
	f.m.sorted(ids)
	out := make([]*entity.Registration, 0, len(ids))
	for _, id := range ids {
		out = append(out, copyReg(f.m.regs[id]))
	}
	return out, nil
}

func (f fakeRegistrationRepo) CountByEvent(ctx context.Context, eventID uuid.UUID) (int, error) {
	regs, err := f.FindByEvent(ctx, eventID)
	return len(regs), err
}

func (f fakeRegistrationRepo) UpdateAttendance(_ context.Context, reg *entity.Registration) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if _, ok := f.m.regs[reg.ID]; !ok {
		return errors.New("registration not found")
	}
	f.m.regs[reg.ID] = copyReg(reg)
	return nil
}

type fakeOTPRepo struct{ m *memStore }

func (f fakeOTPRepo) CreateBatch(_ context.Context, otps []*entity.OTP) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	for _, o := range otps {
		c := *o
		f.m.otps = append(f.m.otps, &c)
	}
	return nil
}

func (f fakeOTPRepo) Consume(_ context.Context, eventID uuid.UUID, email, code string, now time.Time) (*entity.OTP, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	for i := len(f.m.otps) - 1; i >= 0; i-- {
		o := f.m.otps[i]
		if o.EventID == eventID && o.Email == email && o.OTPCode == code && o.Consumable(now) {
			o.IsUsed = true
			c := *o
			return &c, nil
		}
	}
	return nil, nil
}

func (f fakeOTPRepo) ConsumeByCode(_ context.Context, eventID uuid.UUID, code string, now time.Time) (*entity.OTP, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	for i := len(f.m.otps) - 1; i >= 0; i-- {
		o := f.m.otps[i]
		if o.EventID == eventID && o.OTPCode == code && o.Consumable(now) {
			o.IsUsed = true
			c := *o
			return &c, nil
		}
	}
	return nil, nil
}

func (m *memStore) otpsFor(eventID uuid.UUID) []entity.OTP {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entity.OTP, 0)
	for _, o := range m.otps {
		if o.EventID == eventID {
			out = append(out, *o)
		}
	}
	return out
}

type fakeAdminRepo struct{ m *memStore }

func (f fakeAdminRepo) Create(_ context.Context, admin *entity.Admin) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	c := *admin
	f.m.admins[admin.ID] = &c
	return nil
}

func (f fakeAdminRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Admin, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	a, ok := f.m.admins[id]
	if !ok {
		return nil, nil
	}
	c := *a
	return &c, nil
}

func (f fakeAdminRepo) FindByEmail(_ context.Context, email string) (*entity.Admin, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	for _, a := range f.m.admins {
		if a.Email == email {
			c := *a
			return &c, nil
		}
	}
	return nil, nil
}

type fakeSessionRepo struct{ m *memStore }

func (f fakeSessionRepo) Create(_ context.Context, session *entity.Session) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	c := *session
	f.m.sessions[session.Token] = &c
	return nil
}

func (f fakeSessionRepo) FindValidSession(_ context.Context, token string, now time.Time) (*entity.Session, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	id, err := uuid.Parse(token)
	if err != nil {
		return nil, nil
	}
	s, ok := f.m.sessions[id]
	if !ok || s.RevokedAt != nil || !now.Before(s.ExpiresAt) {
		return nil, nil
	}
	c := *s
	return &c, nil
}

func (f fakeSessionRepo) Revoke(_ context.Context, token string, now time.Time) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	id, err := uuid.Parse(token)
	if err != nil {
		return errors.New("session not found or already revoked")
	}
	s, ok := f.m.sessions[id]
	if !ok || s.RevokedAt != nil {
		return errors.New("session not found or already revoked")
	}
	s.RevokedAt = &now
	return nil
}

// recordingNotifier keeps every notice it receives.
type recordingNotifier struct {
	mu      sync.Mutex
	notices []notify.OTPNotice
	err     error
}

func (r *recordingNotifier) NotifyOTP(_ context.Context, notice notify.OTPNotice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, notice)
	return r.err
}

func (r *recordingNotifier) last(email string) (notify.OTPNotice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.notices) - 1; i >= 0; i-- {
		if r.notices[i].Email == email {
			return r.notices[i], true
		}
	}
	return notify.OTPNotice{}, false
}
