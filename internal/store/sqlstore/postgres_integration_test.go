package sqlstore

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"clinicbook/internal/domain"
	"clinicbook/internal/store"
)

func TestPostgresIntegration_BookingTransactionSerializesBookers(t *testing.T) {
	databaseURL := strings.TrimSpace(os.Getenv("CLINICBOOK_TEST_DATABASE_URL"))
	if databaseURL == "" {
		t.Skip("CLINICBOOK_TEST_DATABASE_URL not set")
	}

	schema := "clinicbook_test_" + randomHex(t, 8)
	db, err := Open(DriverPostgres, withSearchPath(databaseURL, schema), PoolConfig{MaxOpenConns: 4})
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_, _ = db.NewRaw("DROP SCHEMA IF EXISTS " + schema + " CASCADE").Exec(ctx)
		_ = Close(db)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := db.NewRaw("CREATE SCHEMA " + schema).Exec(ctx); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	if _, err := Migrate(ctx, db); err != nil {
		t.Fatalf("Migrate error: %v", err)
	}

	repo := NewAppointmentRepo(db)
	start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	const bookers = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		admitted int
	)
	errConflict := errors.New("overlap")
	for i := 0; i < bookers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			candidate := domain.Appointment{
				PatientID:  uuid.New(),
				DoctorID:   uuid.New(),
				RoomName:   "r",
				StartsAt:   start.Add(time.Duration(i) * time.Minute),
				FinishesAt: start.Add(time.Hour),
			}
			err := repo.InBookingTransaction(ctx, func(ctx context.Context, tx store.BookingTx) error {
				existing, err := tx.ListAppointments(ctx)
				if err != nil {
					return err
				}
				for _, e := range existing {
					if e.Overlaps(candidate) {
						return errConflict
					}
				}
				_, err = tx.InsertAppointment(ctx, candidate)
				return err
			})
			if err == nil {
				mu.Lock()
				admitted++
				mu.Unlock()
			} else if !errors.Is(err, errConflict) {
				t.Errorf("booking %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	if admitted != 1 {
		t.Fatalf("admitted = %d, want 1", admitted)
	}
	rows, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("len(rows) = %d, want 1", len(rows))
	}

	_, err = repo.Insert(ctx, rows[0])
	if !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("duplicate insert err = %v, want %v", err, store.ErrDuplicate)
	}

	err = db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewRaw("INSERT INTO appointments (id, patient_id, doctor_id, room_name, starts_at, finishes_at) VALUES (?, ?, ?, ?, ?, ?)",
			uuid.New(), uuid.New(), uuid.New(), "r", start, start).Exec(ctx)
		return err
	})
	if err == nil {
		t.Fatalf("expected check constraint to reject an empty interval")
	}
}

func withSearchPath(databaseURL, schema string) string {
	sep := "?"
	if strings.Contains(databaseURL, "?") {
		sep = "&"
	}
	return databaseURL + sep + "search_path=" + schema
}

func randomHex(t *testing.T, bytesLen int) string {
	t.Helper()
	b := make([]byte, bytesLen)
	if _, err := rand.Read(b); err != nil {
		t.Fatalf("rand.Read error: %v", err)
	}
	return hex.EncodeToString(b)
}
