package booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/actor"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/apperr"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/logger"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/metrics"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/notify"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/profile"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/realtime"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/window"
)

const entity = "booking"

type Service interface {
	Create(ctx context.Context, a actor.Actor, req CreateRequest) (*Booking, error)
	Get(ctx context.Context, a actor.Actor, id string) (*Booking, error)
	List(ctx context.Context, a actor.Actor, status Status) ([]Booking, error)
	Approve(ctx context.Context, a actor.Actor, id string) (*Booking, error)
	Reject(ctx context.Context, a actor.Actor, id, reason string) (*Booking, error)
	Cancel(ctx context.Context, a actor.Actor, id, reason string) (*Booking, error)
	// Complete is the session-ended event. Only the system actor may send it.
	Complete(ctx context.Context, a actor.Actor, id string) (*Booking, error)
	MarkStarted(ctx context.Context, id string, at time.Time) error
}

type Profiles interface {
	FindByID(ctx context.Context, id string) (*profile.Profile, error)
}

type Ledger interface {
	Credit(ctx context.Context, influencerID, bookingID string, amountCents int64) (bool, error)
}

// SessionTerminator ends the live session of a cancelled booking.
type SessionTerminator interface {
	TerminateForBooking(ctx context.Context, bookingID string) error
}

type TerminatorFunc func(ctx context.Context, bookingID string) error

func (f TerminatorFunc) TerminateForBooking(ctx context.Context, bookingID string) error {
	return f(ctx, bookingID)
}

// Messenger posts into the conversation between two parties.
type Messenger interface {
	PostSystemMessage(ctx context.Context, from, to, body string) error
}

type Deps struct {
	Repo      Repository
	Profiles  Profiles
	Ledger    Ledger
	Notifier  notify.Notifier
	Feed      realtime.Publisher
	Messenger Messenger
	Sessions  SessionTerminator
	Location  *time.Location
	Now       func() time.Time
}

type service struct {
	repo      Repository
	profiles  Profiles
	ledger    Ledger
	notifier  notify.Notifier
	feed      realtime.Publisher
	messenger Messenger
	sessions  SessionTerminator
	loc       *time.Location
	now       func() time.Time
}

func NewService(d Deps) Service {
	s := &service{
		repo:      d.Repo,
		profiles:  d.Profiles,
		ledger:    d.Ledger,
		notifier:  d.Notifier,
		feed:      d.Feed,
		messenger: d.Messenger,
		sessions:  d.Sessions,
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

func (s *service) Create(ctx context.Context, a actor.Actor, req CreateRequest) (*Booking, error) {
	if a.Role != actor.RoleSubscriber {
		return nil, apperr.Authorization("only subscribers can request a live session")
	}
	if req.InfluencerID == a.ID {
		return nil, apperr.Validation("cannot book a session with yourself")
	}
	if !ValidDuration(req.DurationMinutes) {
		return nil, apperr.Validation("duration must be one of %v minutes", AllowedDurations)
	}

	date, err := time.ParseInLocation(dateLayout, req.ScheduledDate, time.UTC)
	if err != nil {
		return nil, apperr.Validation("scheduled_date must be YYYY-MM-DD")
	}
	clock, err := window.ParseClock(req.ScheduledTime)
	if err != nil {
		return nil, apperr.Validation("scheduled_time must be HH:MM")
	}
	start, err := window.ScheduledInstant(date, req.ScheduledTime, s.loc)
	if err != nil {
		return nil, apperr.Validation("%v", err)
	}
	if !window.CanCreateBooking(start, s.now()) {
		return nil, apperr.Validation("a session must be requested at least %d minutes ahead", int(window.MinimumLeadTime.Minutes()))
	}

	influencer, err := s.profiles.FindByID(ctx, req.InfluencerID)
	if errors.Is(err, profile.ErrProfileNotFound) {
		return nil, apperr.NotFound("influencer")
	}
	if err != nil {
		return nil, err
	}
	if !influencer.CanSell() {
		return nil, apperr.Validation("influencer is not accepting live sessions")
	}

	price := influencer.StreamingPricePerMinuteCents * int64(req.DurationMinutes)
	b, err := s.repo.Create(ctx, &Booking{
		SubscriberID:            a.ID,
		InfluencerID:            influencer.ID,
		ScheduledDate:           date,
		ScheduledTime:           formatClock(clock),
		DurationMinutes:         req.DurationMinutes,
		PricePaidCents:          price,
		InfluencerEarningsCents: InfluencerEarnings(price),
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordBookingTransition("create", "ok")
	logger.Info("booking requested", "booking_id", b.ID, "subscriber_id", b.SubscriberID, "influencer_id", b.InfluencerID)

	s.notify(ctx, b.InfluencerID, notify.BookingRequested, b, "")
	realtime.Emit(ctx, s.feed, realtime.TableBookings, realtime.OpInsert, b.ID)
	return b, nil
}

func (s *service) Get(ctx context.Context, a actor.Actor, id string) (*Booking, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !b.IsParty(a.ID) && a.Role != actor.RoleAdmin && a.Role != actor.RoleSystem {
		return nil, apperr.Authorization("not a party to this booking")
	}
	return b, nil
}

func (s *service) List(ctx context.Context, a actor.Actor, status Status) ([]Booking, error) {
	return s.repo.ListForActor(ctx, a.ID, status)
}

func (s *service) Approve(ctx context.Context, a actor.Actor, id string) (*Booking, error) {
	b, err := s.transition(ctx, a, id, EventApprove, nil)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, b.SubscriberID, notify.BookingApproved, b, "")
	if s.messenger != nil {
		body := fmt.Sprintf("Live session confirmed for %s at %s (%d min).",
			b.ScheduledDate.Format(dateLayout), shortClock(b.ScheduledTime), b.DurationMinutes)
		if err := s.messenger.PostSystemMessage(ctx, b.InfluencerID, b.SubscriberID, body); err != nil {
			logger.WithError(err).Warn("approval chat message not posted", "booking_id", b.ID)
		}
	}
	return b, nil
}

func (s *service) Reject(ctx context.Context, a actor.Actor, id, reason string) (*Booking, error) {
	return s.transition(ctx, a, id, EventReject, &reason)
}

func (s *service) Cancel(ctx context.Context, a actor.Actor, id, reason string) (*Booking, error) {
	b, err := s.transition(ctx, a, id, EventCancel, &reason)
	if err != nil {
		return nil, err
	}

	if s.sessions != nil {
		if err := s.sessions.TerminateForBooking(ctx, b.ID); err != nil {
			logger.WithError(err).Error("failed to terminate session of cancelled booking", "booking_id", b.ID)
		}
	}
	s.notify(ctx, b.SubscriberID, notify.BookingCancelled, b, reason)
	return b, nil
}

func (s *service) Complete(ctx context.Context, a actor.Actor, id string) (*Booking, error) {
	b, err := s.transition(ctx, a, id, EventComplete, nil)

	// A repeated completion still makes sure the ledger entry exists.
	var te *apperr.TransitionError
	if errors.As(err, &te) && te.AlreadyInState() {
		b, err = s.load(ctx, id)
	}
	if err != nil {
		return nil, err
	}

	if s.ledger != nil {
		credited, err := s.ledger.Credit(ctx, b.InfluencerID, b.ID, b.InfluencerEarningsCents)
		if err != nil {
			return nil, fmt.Errorf("credit earnings for booking %s: %w", b.ID, err)
		}
		if credited {
			logger.Info("earnings credited", "booking_id", b.ID, "influencer_id", b.InfluencerID, "amount_cents", b.InfluencerEarningsCents)
		}
	}
	return b, nil
}

func (s *service) MarkStarted(ctx context.Context, id string, at time.Time) error {
	if err := s.repo.MarkStarted(ctx, id, at); err != nil {
		return err
	}
	realtime.Emit(ctx, s.feed, realtime.TableBookings, realtime.OpUpdate, id)
	return nil
}

// transition guards and applies one event. The status check here gives a
// precise error; the conditional update is what actually arbitrates races.
func (s *service) transition(ctx context.Context, a actor.Actor, id string, ev Event, reason *string) (*Booking, error) {
	t := transitions[ev]

	b, err := s.load(ctx, id)
	if err != nil {
		s.recordOutcome(ev, err)
		return nil, err
	}

	if err := s.authorize(a, b, ev); err != nil {
		s.recordOutcome(ev, err)
		return nil, err
	}

	if reason != nil {
		*reason = strings.TrimSpace(*reason)
		if *reason == "" {
			err := apperr.Validation("a reason is required to %s a booking", ev)
			s.recordOutcome(ev, err)
			return nil, err
		}
	}

	if b.Status != t.from {
		err := apperr.Transition(entity, string(ev), string(b.Status), string(t.to))
		s.recordOutcome(ev, err)
		return nil, err
	}

	updated, err := s.repo.Transition(ctx, id, t.from, t.to, reason)
	if errors.Is(err, ErrStatusChanged) {
		current, rerr := s.load(ctx, id)
		if rerr != nil {
			return nil, rerr
		}
		err = apperr.Transition(entity, string(ev), string(current.Status), string(t.to))
	}
	if err != nil {
		s.recordOutcome(ev, err)
		return nil, err
	}

	s.recordOutcome(ev, nil)
	logger.Info("booking transitioned", "booking_id", id, "event", string(ev), "from", string(t.from), "to", string(t.to), "actor_id", a.ID)
	realtime.Emit(ctx, s.feed, realtime.TableBookings, realtime.OpUpdate, id)
	return updated, nil
}

func (s *service) authorize(a actor.Actor, b *Booking, ev Event) error {
	if ev == EventComplete {
		if a.Role != actor.RoleSystem {
			return apperr.Authorization("bookings complete only when their session ends")
		}
		return nil
	}
	if !a.Is(b.InfluencerID) {
		return apperr.Authorization("only the booked influencer can %s this booking", ev)
	}
	return nil
}

func (s *service) load(ctx context.Context, id string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrBookingNotFound) {
		return nil, apperr.NotFound(entity)
	}
	return b, err
}

func (s *service) notify(ctx context.Context, to string, kind notify.Kind, b *Booking, reason string) {
	vars := notify.Vars{
		"date":     b.ScheduledDate.Format(dateLayout),
		"time":     shortClock(b.ScheduledTime),
		"duration": strconv.Itoa(b.DurationMinutes),
		"reason":   reason,
	}
	if err := s.notifier.Send(ctx, to, kind, vars); err != nil {
		logger.WithError(err).Warn("notification not queued", "kind", string(kind), "booking_id", b.ID)
	}
}

func (s *service) recordOutcome(ev Event, err error) {
	outcome := "ok"
	var te *apperr.TransitionError
	switch {
	case err == nil:
	case errors.As(err, &te) && te.AlreadyInState():
		outcome = "already_in_state"
	case errors.Is(err, apperr.ErrInvalidTransition):
		outcome = "invalid_transition"
	case errors.Is(err, apperr.ErrAuthorization):
		outcome = "forbidden"
	case errors.Is(err, apperr.ErrValidation):
		outcome = "validation_error"
	case errors.Is(err, apperr.ErrNotFound):
		outcome = "not_found"
	default:
		outcome = "error"
	}
	metrics.RecordBookingTransition(string(ev), outcome)
}

func formatClock(d time.Duration) string {
	return time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC).Add(d).Format("15:04:05")
}

func shortClock(clock string) string {
	d, err := window.ParseClock(clock)
	if err != nil {
		return clock
	}
	return time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC).Add(d).Format("15:04")
}

// NewSnapshotLoader lets the change relay push fresh booking rows to both parties.
func NewSnapshotLoader(repo Repository) realtime.LoaderFunc {
	return func(ctx context.Context, id string) (realtime.Snapshot, error) {
		b, err := repo.GetByID(ctx, id)
		if err != nil {
			return realtime.Snapshot{}, err
		}
		return realtime.Snapshot{Recipients: []string{b.SubscriberID, b.InfluencerID}, Data: b.View()}, nil
	}
}
