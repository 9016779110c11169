// Package conflict decides whether a candidate appointment may be admitted
// next to the appointments already stored.
package conflict

import (
	"context"
	"fmt"
	"strings"

	"clinicbook/internal/domain"
	"clinicbook/internal/store"
)

// Scope selects which stored appointments can block a candidate.
type Scope string

const (
	// ScopeGlobal treats every stored appointment as a potential conflict,
	// regardless of who or where it is booked for.
	ScopeGlobal Scope = "global"
	// ScopeParticipant only considers appointments that share the patient,
	// the doctor or the room with the candidate.
	ScopeParticipant Scope = "participant"
)

func ParseScope(s string) (Scope, error) {
	switch Scope(strings.ToLower(strings.TrimSpace(s))) {
	case "", ScopeGlobal:
		return ScopeGlobal, nil
	case ScopeParticipant:
		return ScopeParticipant, nil
	default:
		return "", fmt.Errorf("unknown conflict scope %q", s)
	}
}

type Checker struct {
	Scope Scope
}

func NewChecker(scope Scope) Checker {
	if scope == "" {
		scope = ScopeGlobal
	}
	return Checker{Scope: scope}
}

// Overlaps is the half-open intersection test used for every admission
// decision.
func Overlaps(a, b domain.Interval) bool {
	return a.Overlaps(b)
}

// Blocks reports whether existing prevents candidate from being admitted.
func (c Checker) Blocks(existing, candidate domain.Appointment) bool {
	if c.Scope == ScopeParticipant && !existing.SharesParticipant(candidate) {
		return false
	}
	return existing.Overlaps(candidate)
}

// FindConflict scans every stored appointment and returns the first one
// that blocks candidate.
func (c Checker) FindConflict(ctx context.Context, lister store.AppointmentLister, candidate domain.Appointment) (domain.Appointment, bool, error) {
	existing, err := lister.ListAppointments(ctx)
	if err != nil {
		return domain.Appointment{}, false, fmt.Errorf("list appointments: %w", err)
	}
	for _, e := range existing {
		if c.Blocks(e, candidate) {
			return e, true, nil
		}
	}
	return domain.Appointment{}, false, nil
}

func (c Checker) AnyOverlap(ctx context.Context, lister store.AppointmentLister, candidate domain.Appointment) (bool, error) {
	_, found, err := c.FindConflict(ctx, lister, candidate)
	return found, err
}

// FirstMutualConflict returns the indexes of the first pair of candidates
// that block each other, or ok=false when the set is internally consistent.
func (c Checker) FirstMutualConflict(candidates []domain.Appointment) (i, j int, ok bool) {
	for i = 0; i < len(candidates); i++ {
		for j = i + 1; j < len(candidates); j++ {
			if c.Blocks(candidates[i], candidates[j]) {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}
