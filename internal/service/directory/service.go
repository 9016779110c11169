// Package directory manages the doctors, patients and rooms appointments
// refer to.
package directory

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"clinicbook/internal/domain"
	"clinicbook/internal/store"
)

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

type Service struct {
	repo store.DirectoryRepository
}

func NewService(repo store.DirectoryRepository) *Service {
	return &Service{repo: repo}
}

type PersonInput struct {
	FirstName string
	LastName  string
	Age       int
	Email     string
}

func (in PersonInput) normalize() (PersonInput, error) {
	out := PersonInput{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Age:       in.Age,
		Email:     strings.TrimSpace(in.Email),
	}
	if out.FirstName == "" {
		return PersonInput{}, validationError("firstName is required")
	}
	if out.LastName == "" {
		return PersonInput{}, validationError("lastName is required")
	}
	if out.Age < 0 {
		return PersonInput{}, validationError("age must not be negative")
	}
	return out, nil
}

func (s *Service) CreateDoctor(ctx context.Context, in PersonInput) (domain.Doctor, error) {
	p, err := in.normalize()
	if err != nil {
		return domain.Doctor{}, err
	}
	return s.repo.CreateDoctor(ctx, domain.Doctor{FirstName: p.FirstName, LastName: p.LastName, Age: p.Age, Email: p.Email})
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (domain.Doctor, error) {
	return s.repo.GetDoctor(ctx, id)
}

func (s *Service) ListDoctors(ctx context.Context) ([]domain.Doctor, error) {
	return s.repo.ListDoctors(ctx)
}

// DeleteDoctor removes the doctor only; appointments that reference it are
// left as they are.
func (s *Service) DeleteDoctor(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteDoctor(ctx, id)
}

func (s *Service) DeleteAllDoctors(ctx context.Context) error {
	return s.repo.DeleteAllDoctors(ctx)
}

func (s *Service) CreatePatient(ctx context.Context, in PersonInput) (domain.Patient, error) {
	p, err := in.normalize()
	if err != nil {
		return domain.Patient{}, err
	}
	return s.repo.CreatePatient(ctx, domain.Patient{FirstName: p.FirstName, LastName: p.LastName, Age: p.Age, Email: p.Email})
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (domain.Patient, error) {
	return s.repo.GetPatient(ctx, id)
}

func (s *Service) ListPatients(ctx context.Context) ([]domain.Patient, error) {
	return s.repo.ListPatients(ctx)
}

func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeletePatient(ctx, id)
}

func (s *Service) DeleteAllPatients(ctx context.Context) error {
	return s.repo.DeleteAllPatients(ctx)
}

func (s *Service) CreateRoom(ctx context.Context, name string) (domain.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Room{}, validationError("roomName is required")
	}
	return s.repo.CreateRoom(ctx, domain.Room{Name: name})
}

func (s *Service) GetRoom(ctx context.Context, name string) (domain.Room, error) {
	return s.repo.GetRoom(ctx, strings.TrimSpace(name))
}

func (s *Service) ListRooms(ctx context.Context) ([]domain.Room, error) {
	return s.repo.ListRooms(ctx)
}

func (s *Service) DeleteRoom(ctx context.Context, name string) error {
	return s.repo.DeleteRoom(ctx, strings.TrimSpace(name))
}

func (s *Service) DeleteAllRooms(ctx context.Context) error {
	return s.repo.DeleteAllRooms(ctx)
}
