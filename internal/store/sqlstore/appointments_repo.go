package sqlstore

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"

	"clinicbook/internal/domain"
	"clinicbook/internal/store"
)

// bookingLockKey names the advisory lock every booking transaction takes on
// Postgres. Conflicts are checked against the whole appointment set, so one
// key for all bookers is enough.
const bookingLockKey = "clinicbook:appointments"

type AppointmentRepo struct {
	db *bun.DB
}

var _ store.AppointmentRepository = (*AppointmentRepo)(nil)

func NewAppointmentRepo(db *bun.DB) *AppointmentRepo {
	return &AppointmentRepo{db: db}
}

type bookingTx struct {
	tx bun.IDB
}

func (r *AppointmentRepo) Insert(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	return bookingTx{tx: r.db}.InsertAppointment(ctx, appt)
}

func (r *AppointmentRepo) FindByID(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	return bookingTx{tx: r.db}.FindAppointment(ctx, id)
}

func (r *AppointmentRepo) List(ctx context.Context) ([]domain.Appointment, error) {
	return bookingTx{tx: r.db}.ListAppointments(ctx)
}

func (r *AppointmentRepo) DeleteByID(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*domain.Appointment)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *AppointmentRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.NewDelete().
		Model((*domain.Appointment)(nil)).
		Where("1 = 1").
		Exec(ctx)
	return err
}

func (r *AppointmentRepo) InBookingTransaction(ctx context.Context, fn func(ctx context.Context, tx store.BookingTx) error) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := lockBookings(ctx, r.db, tx); err != nil {
			return err
		}
		return fn(ctx, bookingTx{tx: tx})
	})
}

func lockBookings(ctx context.Context, db *bun.DB, tx bun.Tx) error {
	if db.Dialect().Name() != dialect.PG {
		return nil
	}
	_, err := tx.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", bookingLockKey).Exec(ctx)
	return err
}

func (t bookingTx) ListAppointments(ctx context.Context) ([]domain.Appointment, error) {
	rows := make([]domain.Appointment, 0)
	err := t.tx.NewSelect().
		Model(&rows).
		OrderExpr("starts_at ASC, id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (t bookingTx) FindAppointment(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	var a domain.Appointment
	err := t.tx.NewSelect().
		Model(&a).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return domain.Appointment{}, mapError(err)
	}
	return a, nil
}

func (t bookingTx) InsertAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	m := appt
	if _, err := t.tx.NewInsert().Model(&m).Exec(ctx); err != nil {
		return domain.Appointment{}, mapError(err)
	}
	return m, nil
}
