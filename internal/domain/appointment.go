package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Appointment links a patient, a doctor and a room to a time interval.
// The references are identifiers only; the appointment owns none of them.
type Appointment struct {
	bun.BaseModel `bun:"table:appointments"`

	ID         uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	PatientID  uuid.UUID `bun:"patient_id,notnull,type:uuid" json:"patientId"`
	DoctorID   uuid.UUID `bun:"doctor_id,notnull,type:uuid" json:"doctorId"`
	RoomName   string    `bun:"room_name,notnull" json:"roomName"`
	StartsAt   time.Time `bun:"starts_at,notnull" json:"startsAt"`
	FinishesAt time.Time `bun:"finishes_at,notnull" json:"finishesAt"`
	CreatedAt  time.Time `bun:"created_at,notnull" json:"createdAt"`
}

func (a Appointment) Interval() Interval {
	return Interval{Start: a.StartsAt, End: a.FinishesAt}
}

// Overlaps applies the half-open intersection test to the two appointments.
func (a Appointment) Overlaps(b Appointment) bool {
	return a.Interval().Overlaps(b.Interval())
}

// SharesParticipant reports whether both appointments involve the same
// patient, doctor or room.
func (a Appointment) SharesParticipant(b Appointment) bool {
	return a.PatientID == b.PatientID ||
		a.DoctorID == b.DoctorID ||
		a.RoomName == b.RoomName
}

// SameBooking reports whether b describes the same booking request as a,
// ignoring the server-assigned fields.
func (a Appointment) SameBooking(b Appointment) bool {
	return a.PatientID == b.PatientID &&
		a.DoctorID == b.DoctorID &&
		a.RoomName == b.RoomName &&
		a.StartsAt.Equal(b.StartsAt) &&
		a.FinishesAt.Equal(b.FinishesAt)
}

func (a *Appointment) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); !ok {
		return nil
	}
	if err := assignID(&a.ID); err != nil {
		return err
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	return nil
}

func assignID(id *uuid.UUID) error {
	if *id != uuid.Nil {
		return nil
	}
	v, err := uuid.NewV7()
	if err != nil {
		return err
	}
	*id = v
	return nil
}

// NewID returns a time-ordered identifier, the same kind the insert hooks
// assign.
func NewID() (uuid.UUID, error) {
	var id uuid.UUID
	err := assignID(&id)
	return id, err
}
