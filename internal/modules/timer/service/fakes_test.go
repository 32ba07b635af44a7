package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"focus/internal/modules/timer/domain"
	"focus/internal/modules/timer/service"
	"focus/internal/platform/clock"

	"go.uber.org/goleak"
)

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (s *seqIDs) New() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("s-%d", s.n)
}

type memStore struct {
	mu     sync.Mutex
	rec    *domain.SessionRecord
	getErr   error
	putErr   error
	clearErr error
}

func (s *memStore) Get(context.Context) (*domain.SessionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	if s.rec == nil {
		return nil, nil
	}
	cp := *s.rec
	return &cp, nil
}

func (s *memStore) Put(_ context.Context, r domain.SessionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putErr != nil {
		return s.putErr
	}
	s.rec = &r
	return nil
}

func (s *memStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clearErr != nil {
		return s.clearErr
	}
	s.rec = nil
	return nil
}

func (s *memStore) current() *domain.SessionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec
}

type armCall struct {
	SessionID string
	Remaining int
}

type fakeScheduler struct {
	mu      sync.Mutex
	armErr  error
	arms    []armCall
	pending string
	disarms int
}

func (f *fakeScheduler) Arm(_ context.Context, r domain.SessionRecord, remaining int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.armErr != nil {
		return f.armErr
	}
	f.arms = append(f.arms, armCall{SessionID: r.ID, Remaining: remaining})
	f.pending = r.ID
	return nil
}

func (f *fakeScheduler) Disarm(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disarms++
	f.pending = ""
	return nil
}

func (f *fakeScheduler) armCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.arms)
}

func (f *fakeScheduler) armed() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending
}

type permission bool

func (p permission) NotificationsPermitted(context.Context) bool { return bool(p) }

type recordingListener struct {
	mu     sync.Mutex
	events []domain.SessionEnded
	err    error
}

func (l *recordingListener) OnSessionEnded(_ context.Context, e domain.SessionEnded) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
	return l.err
}

func (l *recordingListener) all() []domain.SessionEnded {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.SessionEnded(nil), l.events...)
}

type recordingPublisher struct {
	mu    sync.Mutex
	ticks []domain.Tick
}

func (p *recordingPublisher) PublishTick(tick domain.Tick) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ticks = append(p.ticks, tick)
}

func (p *recordingPublisher) last() (domain.Tick, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.ticks) == 0 {
		return domain.Tick{}, false
	}
	return p.ticks[len(p.ticks)-1], true
}

// fakeTicker records start/stop calls without running a goroutine.
type fakeTicker struct {
	mu       sync.Mutex
	running  string
	starts   int
	stops    int
	onExpire func(string)
}

func (f *fakeTicker) Start(r domain.SessionRecord, onExpire func(string)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.running = r.ID
	f.starts++
	f.onExpire = onExpire
}

func (f *fakeTicker) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.running = ""
	f.stops++
}

func (f *fakeTicker) current() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

// fire simulates the ticker loop observing zero remaining.
func (f *fakeTicker) fire() {
	f.mu.Lock()
	id, cb := f.running, f.onExpire
	f.mu.Unlock()
	if id != "" && cb != nil {
		cb(id)
	}
}

type harness struct {
	clock      *clock.Manual
	store      *memStore
	scheduler  *fakeScheduler
	listener   *recordingListener
	publisher  *recordingPublisher
	ticker     *fakeTicker
	controller *service.SessionController
	reconciler *service.LifecycleReconciler
}

func newHarness(t *testing.T, opts ...service.Option) *harness {
	t.Helper()
	h := &harness{
		clock:     clock.NewManual(t0),
		store:     &memStore{},
		scheduler: &fakeScheduler{},
		listener:  &recordingListener{},
		publisher: &recordingPublisher{},
		ticker:    &fakeTicker{},
	}
	all := append([]service.Option{
		service.WithListener(h.listener),
		service.WithPublisher(h.publisher),
		service.WithTicker(h.ticker),
		service.WithPermission(permission(true)),
	}, opts...)
	h.controller = service.NewSessionController(h.clock, &seqIDs{}, h.store, h.scheduler, all...)
	h.reconciler = service.NewLifecycleReconciler(h.controller)
	return h
}

var errBoom = errors.New("boom")
