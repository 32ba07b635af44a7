package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"focus/internal/modules/timer/domain"
	timerout "focus/internal/modules/timer/port/out"
	"focus/internal/platform/clock"
	apperrors "focus/internal/platform/errors"
	"focus/internal/platform/id"
	"focus/internal/platform/logging"
	"focus/internal/platform/metrics"
)

// Ticker is the UI refresh loop the controller starts and stops around transitions.
type Ticker interface {
	Start(record domain.SessionRecord, onExpire func(sessionID string))
	Stop()
}

type StartResult struct {
	Record domain.SessionRecord
	// Warning is non-nil the first time scheduling is unavailable; the session still runs.
	Warning error
}

type TransitionResult struct {
	Snapshot            domain.Snapshot
	ActualActiveSeconds int
	Warning             error
}

// SessionController owns the active slot and is the only place that changes it.
// Transitions are serialized by mu, which the reconciler shares.
type SessionController struct {
	mu sync.Mutex

	clock      clock.Clock
	ids        id.Generator
	store      timerout.StateStore
	scheduler  timerout.NotificationScheduler
	permission timerout.PermissionChecker
	listener   timerout.SessionEndedListener
	publisher  timerout.TickPublisher
	ticker     Ticker
	logger     zerolog.Logger

	schedulingWarned bool
}

type Option func(*SessionController)

func WithPermission(p timerout.PermissionChecker) Option {
	return func(c *SessionController) { c.permission = p }
}

func WithListener(l timerout.SessionEndedListener) Option {
	return func(c *SessionController) { c.listener = l }
}

func WithPublisher(p timerout.TickPublisher) Option {
	return func(c *SessionController) { c.publisher = p }
}

func WithTicker(t Ticker) Option {
	return func(c *SessionController) { c.ticker = t }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *SessionController) { c.logger = l }
}

func NewSessionController(clk clock.Clock, ids id.Generator, store timerout.StateStore, scheduler timerout.NotificationScheduler, opts ...Option) *SessionController {
	c := &SessionController{
		clock:     clk,
		ids:       ids,
		store:     store,
		scheduler: scheduler,
		logger:    logging.WithComponent("timer.controller"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *SessionController) Start(ctx context.Context, mode domain.Mode, durationSeconds int, goalRef string) (StartResult, error) {
	if durationSeconds <= 0 {
		return StartResult{}, fmt.Errorf("%w: duration must be positive, got %d", apperrors.ErrInvalidInput, durationSeconds)
	}

	c.mu.Lock()
	res, ended, err := c.start(ctx, mode, durationSeconds, goalRef)
	c.mu.Unlock()

	if ended != nil {
		c.publish(endedSnapshot(*ended))
	}
	if err != nil {
		return StartResult{}, err
	}
	c.publish(domain.SnapshotOf(res.Record, c.clock.Now()))
	return res, nil
}

func (c *SessionController) start(ctx context.Context, mode domain.Mode, durationSeconds int, goalRef string) (StartResult, *domain.SessionEnded, error) {
	now := c.clock.Now()
	var ended *domain.SessionEnded
	if current := c.load(ctx); current != nil {
		if current.State != domain.StateRunning || domain.Remaining(*current, now) > 0 {
			return StartResult{}, nil, apperrors.ErrAlreadyActive
		}
		// The previous session ran out while nobody was watching.
		event, err := c.end(ctx, *current, domain.StateCompleted, now)
		if err != nil {
			return StartResult{}, nil, err
		}
		ended = &event
	}

	record := domain.NewRecord(c.ids.New(), now, durationSeconds, mode, goalRef)
	if err := c.store.Put(ctx, record); err != nil {
		c.storeFailed("put", err)
		return StartResult{}, ended, err
	}
	warning := c.arm(ctx, record, now)
	c.startTicker(record)

	metrics.SessionTransitionsTotal.WithLabelValues("start").Inc()
	c.logger.Info().
		Str("session_id", record.ID).
		Int("duration", record.Duration).
		Str("mode", record.Mode.Title).
		Msg("session started")
	return StartResult{Record: record, Warning: warning}, ended, nil
}

func (c *SessionController) Pause(ctx context.Context) (TransitionResult, error) {
	c.mu.Lock()
	res, err := c.pause(ctx)
	c.mu.Unlock()
	if err != nil {
		return TransitionResult{}, err
	}
	c.publish(res.Snapshot)
	return res, nil
}

func (c *SessionController) pause(ctx context.Context) (TransitionResult, error) {
	record, err := c.require(ctx, "pause", domain.StateRunning)
	if err != nil {
		return TransitionResult{}, err
	}
	now := c.clock.Now()
	remaining := domain.Remaining(record, now)
	if remaining <= 0 {
		event, err := c.end(ctx, record, domain.StateCompleted, now)
		if err != nil {
			return TransitionResult{}, err
		}
		return TransitionResult{Snapshot: endedSnapshot(event), ActualActiveSeconds: event.ActualActiveSeconds}, nil
	}

	record.State = domain.StatePaused
	record.FrozenRemaining = remaining
	record.AccumulatedActiveSeconds = record.Duration - remaining
	if err := c.store.Put(ctx, record); err != nil {
		c.storeFailed("put", err)
		return TransitionResult{}, err
	}
	c.disarm(ctx)
	c.stopTicker()

	metrics.SessionTransitionsTotal.WithLabelValues("pause").Inc()
	c.logger.Info().Str("session_id", record.ID).Int("remaining", remaining).Msg("session paused")
	return TransitionResult{Snapshot: domain.SnapshotOf(record, now)}, nil
}

func (c *SessionController) Resume(ctx context.Context) (TransitionResult, error) {
	c.mu.Lock()
	res, err := c.resume(ctx)
	c.mu.Unlock()
	if err != nil {
		return TransitionResult{}, err
	}
	c.publish(res.Snapshot)
	return res, nil
}

func (c *SessionController) resume(ctx context.Context) (TransitionResult, error) {
	record, err := c.require(ctx, "resume", domain.StatePaused)
	if err != nil {
		return TransitionResult{}, err
	}
	now := c.clock.Now()
	frozen := record.FrozenRemaining
	record.StartedAt = now.UnixMilli()
	record.AccumulatedActiveSeconds = record.Duration - frozen
	record.FrozenRemaining = 0
	record.State = domain.StateRunning
	if err := c.store.Put(ctx, record); err != nil {
		c.storeFailed("put", err)
		return TransitionResult{}, err
	}
	warning := c.arm(ctx, record, now)
	c.startTicker(record)

	metrics.SessionTransitionsTotal.WithLabelValues("resume").Inc()
	c.logger.Info().Str("session_id", record.ID).Int("remaining", frozen).Msg("session resumed")
	return TransitionResult{Snapshot: domain.SnapshotOf(record, now), Warning: warning}, nil
}

func (c *SessionController) Abort(ctx context.Context) (TransitionResult, error) {
	return c.finish(ctx, "abort", domain.StateAborted)
}

func (c *SessionController) EarlyFinish(ctx context.Context) (TransitionResult, error) {
	return c.finish(ctx, "finish", domain.StateEarlyFinished)
}

func (c *SessionController) finish(ctx context.Context, op string, outcome domain.Outcome) (TransitionResult, error) {
	c.mu.Lock()
	res, err := c.finishLocked(ctx, op, outcome)
	c.mu.Unlock()
	if err != nil {
		return TransitionResult{}, err
	}
	c.publish(res.Snapshot)
	return res, nil
}

func (c *SessionController) finishLocked(ctx context.Context, op string, outcome domain.Outcome) (TransitionResult, error) {
	record, err := c.require(ctx, op, domain.StateRunning, domain.StatePaused)
	if err != nil {
		return TransitionResult{}, err
	}
	now := c.clock.Now()
	if record.State == domain.StateRunning && domain.Remaining(record, now) <= 0 {
		// Full duration already elapsed: the session completed before the user acted.
		outcome = domain.StateCompleted
	}
	event, err := c.end(ctx, record, outcome, now)
	if err != nil {
		return TransitionResult{}, err
	}
	return TransitionResult{Snapshot: endedSnapshot(event), ActualActiveSeconds: event.ActualActiveSeconds}, nil
}

// Complete ends the running session whose time has elapsed. It is idempotent:
// an empty slot, a different session, a paused session or a session with time
// left are all no-ops reporting false. An empty sessionID matches any session.
func (c *SessionController) Complete(ctx context.Context, sessionID string) (bool, error) {
	c.mu.Lock()
	event, err := c.complete(ctx, sessionID)
	c.mu.Unlock()
	if err != nil || event == nil {
		return false, err
	}
	c.publish(endedSnapshot(*event))
	return true, nil
}

func (c *SessionController) complete(ctx context.Context, sessionID string) (*domain.SessionEnded, error) {
	record := c.load(ctx)
	switch {
	case record == nil:
		return nil, nil
	case sessionID != "" && record.ID != sessionID:
		c.logger.Debug().Str("session_id", sessionID).Str("active_id", record.ID).Msg("ignoring completion for stale session")
		return nil, nil
	case record.State != domain.StateRunning:
		c.logger.Debug().Str("session_id", record.ID).Str("state", string(record.State)).Msg("ignoring completion for non-running session")
		return nil, nil
	}
	now := c.clock.Now()
	if remaining := domain.Remaining(*record, now); remaining > 0 {
		c.logger.Debug().Str("session_id", record.ID).Int("remaining", remaining).Msg("ignoring early completion trigger")
		return nil, nil
	}
	event, err := c.end(ctx, *record, domain.StateCompleted, now)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// Expire is the ticker callback for a session that reached zero.
func (c *SessionController) Expire(sessionID string) {
	if _, err := c.Complete(context.Background(), sessionID); err != nil {
		c.logger.Warn().Err(err).Str("session_id", sessionID).Msg("complete on expiry")
	}
}

func (c *SessionController) Status(ctx context.Context) (domain.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	record := c.load(ctx)
	if record == nil {
		return domain.IdleSnapshot(), nil
	}
	return domain.SnapshotOf(*record, c.clock.Now()), nil
}

// end performs a terminal transition: disarm, clear, emit. The caller holds mu.
func (c *SessionController) end(ctx context.Context, record domain.SessionRecord, outcome domain.Outcome, now time.Time) (domain.SessionEnded, error) {
	actual := domain.ActiveSeconds(record, now)
	c.disarm(ctx)
	if err := c.store.Clear(ctx); err != nil {
		c.storeFailed("clear", err)
		// The record is still in the slot; keep its completion notification.
		if record.State == domain.StateRunning {
			if warn := c.arm(ctx, record, now); warn != nil {
				c.logger.Warn().Err(warn).Str("session_id", record.ID).Msg("re-arm after failed clear")
			}
		}
		return domain.SessionEnded{}, err
	}
	c.stopTicker()

	event := domain.SessionEnded{
		SessionID:           record.ID,
		Mode:                record.Mode,
		GoalRef:             record.GoalRef,
		PlannedDuration:     record.Duration,
		ActualActiveSeconds: actual,
		Outcome:             outcome,
		StartedAt:           record.CreatedTime(),
		EndedAt:             now,
	}
	if c.listener != nil {
		err := c.listener.OnSessionEnded(ctx, event)
		switch {
		case errors.Is(err, timerout.ErrAlreadyRecorded):
			c.logger.Info().Str("session_id", record.ID).Str("outcome", string(outcome)).Msg("session already ended by another process")
			return event, nil
		case err != nil:
			c.logger.Warn().Err(err).Str("session_id", record.ID).Msg("session ended listener failed")
		}
	}

	metrics.SessionTransitionsTotal.WithLabelValues(string(outcome)).Inc()
	metrics.SessionsEndedTotal.WithLabelValues(string(outcome)).Inc()
	metrics.FocusedSecondsTotal.Add(float64(actual))
	c.logger.Info().
		Str("session_id", record.ID).
		Str("outcome", string(outcome)).
		Int("actual_active_seconds", actual).
		Msg("session ended")
	return event, nil
}

// require loads the slot and checks it is in one of the allowed states.
func (c *SessionController) require(ctx context.Context, op string, allowed ...domain.State) (domain.SessionRecord, error) {
	record := c.load(ctx)
	if record == nil {
		return domain.SessionRecord{}, &apperrors.TransitionError{Op: op, State: string(domain.StateIdle)}
	}
	for _, s := range allowed {
		if record.State == s {
			return *record, nil
		}
	}
	return domain.SessionRecord{}, &apperrors.TransitionError{Op: op, State: string(record.State)}
}

// load reads the slot, treating storage failures as an empty slot.
func (c *SessionController) load(ctx context.Context) *domain.SessionRecord {
	record, err := c.store.Get(ctx)
	if err != nil {
		c.storeFailed("get", err)
		return nil
	}
	return record
}

func (c *SessionController) storeFailed(op string, err error) {
	metrics.StateStoreErrorsTotal.WithLabelValues(op).Inc()
	c.logger.Warn().Err(err).Str("op", op).Msg("active slot storage failure")
}

// arm schedules the completion notification. Failures degrade to foreground-only
// detection and are reported to the caller once per controller.
func (c *SessionController) arm(ctx context.Context, record domain.SessionRecord, now time.Time) error {
	var cause error
	reason := ""
	switch {
	case c.scheduler == nil:
		cause, reason = errors.New("no scheduler configured"), "unconfigured"
	case c.permission != nil && !c.permission.NotificationsPermitted(ctx):
		cause, reason = errors.New("notifications not permitted"), "denied"
	default:
		if err := c.scheduler.Arm(ctx, record, domain.Remaining(record, now)); err != nil {
			cause, reason = err, "error"
		}
	}
	if cause == nil {
		return nil
	}
	metrics.NotificationArmFailuresTotal.WithLabelValues(reason).Inc()
	c.logger.Warn().Err(cause).Str("session_id", record.ID).Msg("completion notification unavailable, foreground-only mode")
	if c.schedulingWarned {
		return nil
	}
	c.schedulingWarned = true
	return fmt.Errorf("%w: %v", apperrors.ErrSchedulingUnavailable, cause)
}

func (c *SessionController) disarm(ctx context.Context) {
	if c.scheduler == nil {
		return
	}
	if err := c.scheduler.Disarm(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("disarm completion notification")
	}
}

func (c *SessionController) startTicker(record domain.SessionRecord) {
	if c.ticker != nil {
		c.ticker.Start(record, c.Expire)
	}
}

func (c *SessionController) stopTicker() {
	if c.ticker != nil {
		c.ticker.Stop()
	}
}

func (c *SessionController) publish(snapshot domain.Snapshot) {
	if c.publisher == nil {
		return
	}
	c.publisher.PublishTick(domain.Tick{
		SessionID: snapshot.SessionID,
		State:     snapshot.State,
		Mode:      snapshot.Mode,
		Duration:  snapshot.Duration,
		Remaining: snapshot.Remaining,
	})
}

func endedSnapshot(event domain.SessionEnded) domain.Snapshot {
	return domain.Snapshot{
		SessionID: event.SessionID,
		State:     event.Outcome,
		Mode:      event.Mode,
		GoalRef:   event.GoalRef,
		Duration:  event.PlannedDuration,
	}
}
