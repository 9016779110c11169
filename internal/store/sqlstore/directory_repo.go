package sqlstore

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"clinicbook/internal/domain"
	"clinicbook/internal/store"
)

type DirectoryRepo struct {
	db *bun.DB
}

var _ store.DirectoryRepository = (*DirectoryRepo)(nil)

func NewDirectoryRepo(db *bun.DB) *DirectoryRepo {
	return &DirectoryRepo{db: db}
}

func (r *DirectoryRepo) CreateDoctor(ctx context.Context, d domain.Doctor) (domain.Doctor, error) {
	if _, err := r.db.NewInsert().Model(&d).Exec(ctx); err != nil {
		return domain.Doctor{}, mapError(err)
	}
	return d, nil
}

func (r *DirectoryRepo) GetDoctor(ctx context.Context, id uuid.UUID) (domain.Doctor, error) {
	var d domain.Doctor
	if err := r.db.NewSelect().Model(&d).Where("id = ?", id).Limit(1).Scan(ctx); err != nil {
		return domain.Doctor{}, mapError(err)
	}
	return d, nil
}

func (r *DirectoryRepo) ListDoctors(ctx context.Context) ([]domain.Doctor, error) {
	rows := make([]domain.Doctor, 0)
	if err := r.db.NewSelect().Model(&rows).OrderExpr("id ASC").Scan(ctx); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *DirectoryRepo) DeleteDoctor(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().Model((*domain.Doctor)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *DirectoryRepo) DeleteAllDoctors(ctx context.Context) error {
	_, err := r.db.NewDelete().Model((*domain.Doctor)(nil)).Where("1 = 1").Exec(ctx)
	return err
}

func (r *DirectoryRepo) CreatePatient(ctx context.Context, p domain.Patient) (domain.Patient, error) {
	if _, err := r.db.NewInsert().Model(&p).Exec(ctx); err != nil {
		return domain.Patient{}, mapError(err)
	}
	return p, nil
}

func (r *DirectoryRepo) GetPatient(ctx context.Context, id uuid.UUID) (domain.Patient, error) {
	var p domain.Patient
	if err := r.db.NewSelect().Model(&p).Where("id = ?", id).Limit(1).Scan(ctx); err != nil {
		return domain.Patient{}, mapError(err)
	}
	return p, nil
}

func (r *DirectoryRepo) ListPatients(ctx context.Context) ([]domain.Patient, error) {
	rows := make([]domain.Patient, 0)
	if err := r.db.NewSelect().Model(&rows).OrderExpr("id ASC").Scan(ctx); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *DirectoryRepo) DeletePatient(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().Model((*domain.Patient)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *DirectoryRepo) DeleteAllPatients(ctx context.Context) error {
	_, err := r.db.NewDelete().Model((*domain.Patient)(nil)).Where("1 = 1").Exec(ctx)
	return err
}

func (r *DirectoryRepo) CreateRoom(ctx context.Context, room domain.Room) (domain.Room, error) {
	if _, err := r.db.NewInsert().Model(&room).Exec(ctx); err != nil {
		return domain.Room{}, mapError(err)
	}
	return room, nil
}

func (r *DirectoryRepo) GetRoom(ctx context.Context, name string) (domain.Room, error) {
	var room domain.Room
	if err := r.db.NewSelect().Model(&room).Where("name = ?", name).Limit(1).Scan(ctx); err != nil {
		return domain.Room{}, mapError(err)
	}
	return room, nil
}

func (r *DirectoryRepo) ListRooms(ctx context.Context) ([]domain.Room, error) {
	rows := make([]domain.Room, 0)
	if err := r.db.NewSelect().Model(&rows).OrderExpr("name ASC").Scan(ctx); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *DirectoryRepo) DeleteRoom(ctx context.Context, name string) error {
	res, err := r.db.NewDelete().Model((*domain.Room)(nil)).Where("name = ?", name).Exec(ctx)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *DirectoryRepo) DeleteAllRooms(ctx context.Context) error {
	_, err := r.db.NewDelete().Model((*domain.Room)(nil)).Where("1 = 1").Exec(ctx)
	return err
}
