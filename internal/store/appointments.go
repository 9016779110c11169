package store

import (
	"context"

	"github.com/google/uuid"

	"clinicbook/internal/domain"
)

// AppointmentLister is the read side the conflict checker scans.
type AppointmentLister interface {
	ListAppointments(ctx context.Context) ([]domain.Appointment, error)
}

// BookingTx is the view of the store inside a booking transaction. Reads
// and writes made through it are atomic with respect to other bookings.
type BookingTx interface {
	AppointmentLister
	FindAppointment(ctx context.Context, id uuid.UUID) (domain.Appointment, error)
	InsertAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
}

type AppointmentRepository interface {
	Insert(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
	FindByID(ctx context.Context, id uuid.UUID) (domain.Appointment, error)
	List(ctx context.Context) ([]domain.Appointment, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context) error

	InBookingTransaction(ctx context.Context, fn func(ctx context.Context, tx BookingTx) error) error
}
