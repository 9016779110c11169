package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"clinicbook/internal/domain"
	"clinicbook/internal/store"
)

func (s *Store) CreateDoctor(ctx context.Context, d domain.Doctor) (domain.Doctor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d.ID == uuid.Nil {
		id, err := domain.NewID()
		if err != nil {
			return domain.Doctor{}, err
		}
		d.ID = id
	}
	if _, ok := s.doctors[d.ID]; ok {
		return domain.Doctor{}, store.ErrDuplicate
	}
	s.doctors[d.ID] = d
	return d, nil
}

func (s *Store) GetDoctor(ctx context.Context, id uuid.UUID) (domain.Doctor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.doctors[id]
	if !ok {
		return domain.Doctor{}, store.ErrNotFound
	}
	return d, nil
}

func (s *Store) ListDoctors(ctx context.Context) ([]domain.Doctor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Doctor, 0, len(s.doctors))
	for _, d := range s.doctors {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (s *Store) DeleteDoctor(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.doctors[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.doctors, id)
	return nil
}

func (s *Store) DeleteAllDoctors(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.doctors)
	return nil
}

func (s *Store) CreatePatient(ctx context.Context, p domain.Patient) (domain.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == uuid.Nil {
		id, err := domain.NewID()
		if err != nil {
			return domain.Patient{}, err
		}
		p.ID = id
	}
	if _, ok := s.patients[p.ID]; ok {
		return domain.Patient{}, store.ErrDuplicate
	}
	s.patients[p.ID] = p
	return p, nil
}

func (s *Store) GetPatient(ctx context.Context, id uuid.UUID) (domain.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.patients[id]
	if !ok {
		return domain.Patient{}, store.ErrNotFound
	}
	return p, nil
}

func (s *Store) ListPatients(ctx context.Context) ([]domain.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Patient, 0, len(s.patients))
	for _, p := range s.patients {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (s *Store) DeletePatient(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.patients[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.patients, id)
	return nil
}

func (s *Store) DeleteAllPatients(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.patients)
	return nil
}

func (s *Store) CreateRoom(ctx context.Context, r domain.Room) (domain.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[r.Name]; ok {
		return domain.Room{}, store.ErrDuplicate
	}
	s.rooms[r.Name] = r
	return r, nil
}

func (s *Store) GetRoom(ctx context.Context, name string) (domain.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[name]
	if !ok {
		return domain.Room{}, store.ErrNotFound
	}
	return r, nil
}

func (s *Store) ListRooms(ctx context.Context) ([]domain.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) DeleteRoom(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[name]; !ok {
		return store.ErrNotFound
	}
	delete(s.rooms, name)
	return nil
}

func (s *Store) DeleteAllRooms(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.rooms)
	return nil
}
