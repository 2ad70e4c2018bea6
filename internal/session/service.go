package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/actor"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/apperr"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/booking"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/logger"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/metrics"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/notify"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/realtime"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/window"
)

const sweepBatch = 100

type Service interface {
	EnsureSession(ctx context.Context, a actor.Actor, bookingID string) (*JoinResult, error)
	Tick(ctx context.Context, a actor.Actor, sessionID string) (*TickResult, error)
	End(ctx context.Context, a actor.Actor, sessionID string) (*Session, error)
	TerminateForBooking(ctx context.Context, bookingID string) error
	SweepExpired(ctx context.Context) (int, error)
}

// Bookings is the part of the booking manager sessions drive.
type Bookings interface {
	Get(ctx context.Context, a actor.Actor, id string) (*booking.Booking, error)
	Complete(ctx context.Context, a actor.Actor, id string) (*booking.Booking, error)
	MarkStarted(ctx context.Context, id string, at time.Time) error
}

type Messenger interface {
	PostSystemMessage(ctx context.Context, from, to, body string) error
}

type Deps struct {
	Repo      Repository
	Bookings  Bookings
	Notifier  notify.Notifier
	Feed      realtime.Publisher
	Messenger Messenger
	Location  *time.Location
	Now       func() time.Time
}

type service struct {
	repo      Repository
	bookings  Bookings
	notifier  notify.Notifier
	feed      realtime.Publisher
	messenger Messenger
	loc       *time.Location
	now       func() time.Time
}

func NewService(d Deps) Service {
	s := &service{
		repo:      d.Repo,
		bookings:  d.Bookings,
		notifier:  d.Notifier,
		feed:      d.Feed,
		messenger: d.Messenger,
		loc:       d.Location,
		now:       d.Now,
	}
	if s.notifier == nil {
		s.notifier = notify.Nop{}
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *service) EnsureSession(ctx context.Context, a actor.Actor, bookingID string) (*JoinResult, error) {
	b, err := s.bookings.Get(ctx, a, bookingID)
	if err != nil {
		return nil, err
	}

	role, ok := b.PartyRole(a.ID)
	if !ok {
		return nil, apperr.Authorization("only the booking parties can join its session")
	}
	if b.Status != booking.StatusApproved {
		return nil, apperr.Transition("booking", "join", string(b.Status), string(booking.StatusApproved))
	}

	start, err := b.Start(s.loc)
	if err != nil {
		return nil, fmt.Errorf("booking %s has an unreadable schedule: %w", b.ID, err)
	}

	now := s.now()
	if role == actor.RoleSubscriber {
		if window.SubscriberWindowClosed(start, now, b.DurationMinutes) {
			return nil, apperr.OutsideWindow("the scheduled session time has passed")
		}
		if !window.CanSubscriberJoin(start, now, b.DurationMinutes) {
			return nil, apperr.OutsideWindow("the session opens %d minutes before the scheduled time",
				int(window.EarlyJoin.Minutes()))
		}
	}

	existing, err := s.repo.FindActiveByBooking(ctx, bookingID)
	if err == nil {
		return s.joined(existing, b, start, role, false, now), nil
	}
	if !errors.Is(err, ErrSessionNotFound) {
		return nil, err
	}

	if role == actor.RoleSubscriber {
		return &JoinResult{Role: role, Waiting: true}, nil
	}

	if !window.CanInfluencerJoin(start, now) {
		return nil, apperr.OutsideWindow("a session can be started from %d minutes before until %d minutes after the scheduled time",
			int(window.EarlyJoin.Minutes()), int(window.InfluencerGrace.Minutes()))
	}

	return s.create(ctx, b, start, role, now)
}

func (s *service) create(ctx context.Context, b *booking.Booking, start time.Time, role actor.Role, now time.Time) (*JoinResult, error) {
	candidate := &Session{
		ID:           uuid.NewString(),
		SessionToken: uuid.NewString(),
		BookingID:    b.ID,
		InfluencerID: b.InfluencerID,
		SubscriberID: b.SubscriberID,
		EndsAt:       window.SessionEndsAt(now, b.DurationMinutes),
		IsActive:     true,
		CreatedAt:    now,
	}

	created, ok, err := s.repo.CreateIfAbsent(ctx, candidate)
	if err != nil {
		return nil, err
	}
	if !ok {
		metrics.RecordSessionCreateRace()
		winner, err := s.repo.FindActiveByBooking(ctx, b.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: booking %s", apperr.ErrSessionAlreadyActive, b.ID)
		}
		return s.joined(winner, b, start, role, false, now), nil
	}

	metrics.RecordSessionStarted()
	logger.Info("session started", "session_id", created.ID, "booking_id", b.ID, "ends_at", created.EndsAt)

	if err := s.bookings.MarkStarted(ctx, b.ID, now); err != nil {
		logger.WithError(err).Warn("booking start time not recorded", "booking_id", b.ID)
	}
	if s.messenger != nil {
		if err := s.messenger.PostSystemMessage(ctx, b.InfluencerID, b.SubscriberID, "The live session has started. Join now!"); err != nil {
			logger.WithError(err).Warn("session chat message not posted", "booking_id", b.ID)
		}
	}
	vars := notify.Vars{"ends_at": created.EndsAt.In(s.loc).Format("15:04")}
	if err := s.notifier.Send(ctx, b.SubscriberID, notify.SessionStarted, vars); err != nil {
		logger.WithError(err).Warn("notification not queued", "kind", string(notify.SessionStarted), "booking_id", b.ID)
	}
	realtime.Emit(ctx, s.feed, realtime.TableSessions, realtime.OpInsert, created.ID)

	return s.joined(created, b, start, role, true, now), nil
}

// joined caps the subscriber's countdown at the scheduled end, so a late
// start shortens their session and never lengthens it.
func (s *service) joined(sess *Session, b *booking.Booking, start time.Time, role actor.Role, created bool, now time.Time) *JoinResult {
	end := sess.EndsAt
	if role == actor.RoleSubscriber {
		if scheduled := window.SubscriberEndsAt(start, b.DurationMinutes); scheduled.Before(end) {
			end = scheduled
		}
	}
	return &JoinResult{
		Session:          sess,
		Role:             role,
		Created:          created,
		RemainingSeconds: seconds(window.Remaining(end, now)),
	}
}

func (s *service) Tick(ctx context.Context, a actor.Actor, sessionID string) (*TickResult, error) {
	sess, err := s.load(ctx, a, sessionID)
	if err != nil {
		return nil, err
	}

	if !sess.IsActive {
		return &TickResult{Session: sess, Ended: true}, nil
	}

	now := s.now()
	if !window.Expired(sess.EndsAt, now) {
		return &TickResult{Session: sess, RemainingSeconds: seconds(window.Remaining(sess.EndsAt, now))}, nil
	}

	// Only the influencer's client closes an expired session; the subscriber
	// sees zero until that happens or the sweeper runs.
	if !a.Is(sess.InfluencerID) {
		return &TickResult{Session: sess}, nil
	}

	if err := s.finalize(ctx, sess, EndTimeout, now); err != nil {
		return nil, err
	}
	return &TickResult{Session: sess, Ended: true}, nil
}

func (s *service) End(ctx context.Context, a actor.Actor, sessionID string) (*Session, error) {
	sess, err := s.load(ctx, a, sessionID)
	if err != nil {
		return nil, err
	}
	if !a.Is(sess.InfluencerID) {
		return nil, apperr.Authorization("only the influencer can end the session")
	}
	if !sess.IsActive {
		return sess, nil
	}

	if err := s.finalize(ctx, sess, EndByInfluencer, s.now()); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *service) TerminateForBooking(ctx context.Context, bookingID string) error {
	sess, err := s.repo.FindActiveByBooking(ctx, bookingID)
	if errors.Is(err, ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.deactivate(ctx, sess, EndBookingCancelled, s.now())
}

func (s *service) SweepExpired(ctx context.Context) (int, error) {
	now := s.now()
	due, err := s.repo.ListDue(ctx, now, sweepBatch)
	if err != nil {
		return 0, err
	}

	swept := 0
	for i := range due {
		if err := s.finalize(ctx, &due[i], EndTimeout, now); err != nil {
			logger.WithError(err).Error("failed to finalize expired session", "session_id", due[i].ID)
			continue
		}
		swept++
	}
	return swept, nil
}

// finalize completes the booking before deactivating, so a failure leaves the
// session active and due for the next sweep. Both steps are idempotent.
func (s *service) finalize(ctx context.Context, sess *Session, reason EndReason, now time.Time) error {
	_, err := s.bookings.Complete(ctx, actor.System(), sess.BookingID)
	if err != nil && !errors.Is(err, apperr.ErrInvalidTransition) {
		return err
	}
	return s.deactivate(ctx, sess, reason, now)
}

func (s *service) deactivate(ctx context.Context, sess *Session, reason EndReason, now time.Time) error {
	ok, err := s.repo.Deactivate(ctx, sess.ID, now, reason)
	if err != nil {
		return err
	}

	sess.IsActive = false
	if !ok {
		return nil
	}

	r := string(reason)
	sess.EndedAt = &now
	sess.EndReason = &r

	metrics.RecordSessionEnded(r)
	logger.Info("session ended", "session_id", sess.ID, "booking_id", sess.BookingID, "reason", r)
	realtime.Emit(ctx, s.feed, realtime.TableSessions, realtime.OpUpdate, sess.ID)
	return nil
}

func (s *service) load(ctx context.Context, a actor.Actor, id string) (*Session, error) {
	sess, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrSessionNotFound) {
		return nil, apperr.NotFound("session")
	}
	if err != nil {
		return nil, err
	}
	if !sess.IsParty(a.ID) {
		return nil, apperr.Authorization("not a party to this session")
	}
	return sess, nil
}

func seconds(d time.Duration) int64 {
	return int64(d / time.Second)
}

// NewSnapshotLoader pushes the fresh session row plus its countdown to both parties.
func NewSnapshotLoader(repo Repository, now func() time.Time) realtime.LoaderFunc {
	if now == nil {
		now = time.Now
	}
	return func(ctx context.Context, id string) (realtime.Snapshot, error) {
		sess, err := repo.GetByID(ctx, id)
		if err != nil {
			return realtime.Snapshot{}, err
		}
		remaining := int64(0)
		if sess.IsActive {
			remaining = seconds(window.Remaining(sess.EndsAt, now()))
		}
		return realtime.Snapshot{
			Recipients: []string{sess.InfluencerID, sess.SubscriberID},
			Data:       TickResult{Session: sess, RemainingSeconds: remaining, Ended: !sess.IsActive},
		}, nil
	}
}
