// Package booking admits appointments into the store, rejecting any that
// overlap an existing booking.
package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"clinicbook/internal/conflict"
	"clinicbook/internal/domain"
	"clinicbook/internal/lock"
	"clinicbook/internal/metrics"
	"clinicbook/internal/store"
)

const (
	admissionLockKey = "appointments"

	kindSingle = "single"
	kindSeries = "series"
)

type Options struct {
	Scope conflict.Scope

	// AllowInverted admits intervals that finish before they start. They
	// are rejected as malformed by default.
	AllowInverted bool

	Locker  lock.Locker
	Metrics *metrics.Metrics
	Logger  *slog.Logger

	// Now defaults to time.Now.
	Now func() time.Time
}

type Service struct {
	repo          store.AppointmentRepository
	checker       conflict.Checker
	locker        lock.Locker
	allowInverted bool
	metrics       *metrics.Metrics
	log           *slog.Logger
	now           func() time.Time
}

func NewService(repo store.AppointmentRepository, opts Options) *Service {
	s := &Service{
		repo:          repo,
		checker:       conflict.NewChecker(opts.Scope),
		locker:        opts.Locker,
		allowInverted: opts.AllowInverted,
		metrics:       opts.Metrics,
		log:           opts.Logger,
		now:           opts.Now,
	}
	if s.locker == nil {
		s.locker = lock.NewLocal()
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	s.log = s.log.With("component", "booking")
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

type CreateInput struct {
	PatientID      uuid.UUID
	DoctorID       uuid.UUID
	RoomName       string
	StartsAt       time.Time
	FinishesAt     time.Time
	IdempotencyKey string
}

// Create validates the candidate, checks it against every stored
// appointment and persists it. The check and the insert happen under the
// admission lock inside one booking transaction.
func (s *Service) Create(ctx context.Context, in CreateInput) (domain.Appointment, error) {
	candidate, err := s.candidate(in.PatientID, in.DoctorID, in.RoomName, in.StartsAt, in.FinishesAt)
	if err != nil {
		s.metrics.IncAdmission(outcome(err), kindSingle)
		return domain.Appointment{}, err
	}

	key := strings.TrimSpace(in.IdempotencyKey)
	if key != "" {
		if len(key) > 256 {
			s.metrics.IncAdmission(metrics.OutcomeMalformed, kindSingle)
			return domain.Appointment{}, validationError("idempotency_key too long")
		}
		candidate.ID = uuid.NewSHA1(uuid.NameSpaceOID, []byte("clinicbook:create_appointment:"+key))
	}

	var (
		out      domain.Appointment
		replayed bool
	)
	err = s.admit(ctx, kindSingle, func(ctx context.Context, tx store.BookingTx) error {
		if candidate.ID != uuid.Nil {
			existing, err := tx.FindAppointment(ctx, candidate.ID)
			switch {
			case err == nil:
				if !existing.SameBooking(candidate) {
					return store.ErrIdempotencyConflict
				}
				out, replayed = existing, true
				return nil
			case !errors.Is(err, store.ErrNotFound):
				return err
			}
		}

		if err := s.ensureFree(ctx, tx, candidate); err != nil {
			return err
		}
		inserted, err := tx.InsertAppointment(ctx, candidate)
		if err != nil {
			return err
		}
		out = inserted
		return nil
	})
	if err != nil {
		return domain.Appointment{}, err
	}
	if replayed {
		s.metrics.IncAdmission(metrics.OutcomeReplayed, kindSingle)
	} else {
		s.metrics.IncAdmission(metrics.OutcomeAdmitted, kindSingle)
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	if id == uuid.Nil {
		return domain.Appointment{}, validationError("appointment id is required")
	}
	return s.repo.FindByID(ctx, id)
}

// List returns every stored appointment. An empty store yields an empty,
// non-nil slice.
func (s *Service) List(ctx context.Context) ([]domain.Appointment, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Appointment{}
	}
	return out, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return validationError("appointment id is required")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.metrics.IncDeletion("by_id")
	return nil
}

func (s *Service) DeleteAll(ctx context.Context) error {
	if err := s.repo.DeleteAll(ctx); err != nil {
		return err
	}
	s.metrics.IncDeletion("all")
	return nil
}

func (s *Service) candidate(patientID, doctorID uuid.UUID, roomName string, startsAt, finishesAt time.Time) (domain.Appointment, error) {
	if patientID == uuid.Nil {
		return domain.Appointment{}, validationError("patient_id is required")
	}
	if doctorID == uuid.Nil {
		return domain.Appointment{}, validationError("doctor_id is required")
	}
	room := strings.TrimSpace(roomName)
	if room == "" {
		return domain.Appointment{}, validationError("room_name is required")
	}
	if startsAt.IsZero() || finishesAt.IsZero() {
		return domain.Appointment{}, malformed("starts_at and finishes_at are required")
	}

	// Stores keep microsecond precision.
	start := startsAt.UTC().Truncate(time.Microsecond)
	finish := finishesAt.UTC().Truncate(time.Microsecond)
	iv := domain.Interval{Start: start, End: finish}
	if iv.Empty() {
		if !startsAt.Equal(finishesAt) {
			return domain.Appointment{}, malformed("starts_at and finishes_at must differ by at least one microsecond")
		}
		return domain.Appointment{}, malformed("starts_at must differ from finishes_at")
	}
	if iv.Inverted() && !s.allowInverted {
		return domain.Appointment{}, malformed("finishes_at must be after starts_at")
	}

	return domain.Appointment{
		PatientID:  patientID,
		DoctorID:   doctorID,
		RoomName:   room,
		StartsAt:   start,
		FinishesAt: finish,
	}, nil
}

func (s *Service) ensureFree(ctx context.Context, tx store.BookingTx, candidate domain.Appointment) error {
	blocking, found, err := s.checker.FindConflict(ctx, tx, candidate)
	if err != nil {
		return err
	}
	if found {
		s.log.DebugContext(ctx, "booking rejected",
			"starts_at", candidate.StartsAt,
			"finishes_at", candidate.FinishesAt,
			"blocking_id", blocking.ID,
			"scope", string(s.checker.Scope),
		)
		return ErrSchedulingConflict
	}
	return nil
}

// admit runs fn under the admission lock inside one booking transaction and
// records the outcome of failed attempts.
func (s *Service) admit(ctx context.Context, kind string, fn func(ctx context.Context, tx store.BookingTx) error) error {
	release, err := s.locker.Acquire(ctx, admissionLockKey)
	if err != nil {
		s.metrics.IncAdmission(metrics.OutcomeError, kind)
		return fmt.Errorf("acquire admission lock: %w", err)
	}
	defer release()

	started := s.now()
	err = s.repo.InBookingTransaction(ctx, fn)
	s.metrics.ObserveAdmission(s.now().Sub(started))
	if err != nil {
		s.metrics.IncAdmission(outcome(err), kind)
	}
	return err
}

func outcome(err error) string {
	switch {
	case errors.Is(err, ErrSchedulingConflict):
		return metrics.OutcomeConflict
	case errors.Is(err, store.ErrIdempotencyConflict):
		return metrics.OutcomeKeyReused
	case errors.Is(err, ErrMalformedInterval), errors.Is(err, ErrInvalidInput):
		return metrics.OutcomeMalformed
	default:
		return metrics.OutcomeError
	}
}
