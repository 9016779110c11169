package store

import (
	"context"

	"github.com/google/uuid"

	"clinicbook/internal/domain"
)

type DoctorRepository interface {
	CreateDoctor(ctx context.Context, d domain.Doctor) (domain.Doctor, error)
	GetDoctor(ctx context.Context, id uuid.UUID) (domain.Doctor, error)
	ListDoctors(ctx context.Context) ([]domain.Doctor, error)
	DeleteDoctor(ctx context.Context, id uuid.UUID) error
	DeleteAllDoctors(ctx context.Context) error
}

type PatientRepository interface {
	CreatePatient(ctx context.Context, p domain.Patient) (domain.Patient, error)
	GetPatient(ctx context.Context, id uuid.UUID) (domain.Patient, error)
	ListPatients(ctx context.Context) ([]domain.Patient, error)
	DeletePatient(ctx context.Context, id uuid.UUID) error
	DeleteAllPatients(ctx context.Context) error
}

type RoomRepository interface {
	CreateRoom(ctx context.Context, r domain.Room) (domain.Room, error)
	GetRoom(ctx context.Context, name string) (domain.Room, error)
	ListRooms(ctx context.Context) ([]domain.Room, error)
	DeleteRoom(ctx context.Context, name string) error
	DeleteAllRooms(ctx context.Context) error
}

type DirectoryRepository interface {
	DoctorRepository
	PatientRepository
	RoomRepository
}
