// Package memory is an in-process store used for development and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"clinicbook/internal/domain"
	"clinicbook/internal/store"
)

type Store struct {
	mu           sync.RWMutex
	appointments map[uuid.UUID]domain.Appointment
	doctors      map[uuid.UUID]domain.Doctor
	patients     map[uuid.UUID]domain.Patient
	rooms        map[string]domain.Room
}

var (
	_ store.AppointmentRepository = (*Store)(nil)
	_ store.DirectoryRepository   = (*Store)(nil)
)

func New() *Store {
	return &Store{
		appointments: make(map[uuid.UUID]domain.Appointment),
		doctors:      make(map[uuid.UUID]domain.Doctor),
		patients:     make(map[uuid.UUID]domain.Patient),
		rooms:        make(map[string]domain.Room),
	}
}

// Len returns the number of stored appointments.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.appointments)
}

func (s *Store) Insert(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return memTx{s: s}.InsertAppointment(ctx, appt)
}

func (s *Store) FindByID(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return memTx{s: s}.FindAppointment(ctx, id)
}

func (s *Store) List(ctx context.Context) ([]domain.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return memTx{s: s}.ListAppointments(ctx)
}

func (s *Store) DeleteByID(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.appointments[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.appointments, id)
	return nil
}

func (s *Store) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.appointments)
	return nil
}

// InBookingTransaction holds the write lock for the duration of fn. fn must
// only use tx; calling back into s would deadlock. Appointments inserted
// through tx are removed again when fn fails.
func (s *Store) InBookingTransaction(ctx context.Context, fn func(ctx context.Context, tx store.BookingTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	var inserted []uuid.UUID
	if err := fn(ctx, memTx{s: s, inserted: &inserted}); err != nil {
		for _, id := range inserted {
			delete(s.appointments, id)
		}
		return err
	}
	return nil
}

// memTx operates on the maps directly; the caller holds s.mu.
type memTx struct {
	s        *Store
	inserted *[]uuid.UUID
}

func (t memTx) ListAppointments(ctx context.Context) ([]domain.Appointment, error) {
	out := make([]domain.Appointment, 0, len(t.s.appointments))
	for _, a := range t.s.appointments {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartsAt.Equal(out[j].StartsAt) {
			return out[i].StartsAt.Before(out[j].StartsAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (t memTx) FindAppointment(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	a, ok := t.s.appointments[id]
	if !ok {
		return domain.Appointment{}, store.ErrNotFound
	}
	return a, nil
}

func (t memTx) InsertAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	if appt.ID == uuid.Nil {
		id, err := domain.NewID()
		if err != nil {
			return domain.Appointment{}, err
		}
		appt.ID = id
	}
	if _, ok := t.s.appointments[appt.ID]; ok {
		return domain.Appointment{}, store.ErrDuplicate
	}
	if appt.CreatedAt.IsZero() {
		appt.CreatedAt = time.Now().UTC()
	}
	t.s.appointments[appt.ID] = appt
	if t.inserted != nil {
		*t.inserted = append(*t.inserted, appt.ID)
	}
	return appt, nil
}
