// Package seed loads directory fixtures (doctors, patients, rooms) from YAML.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"clinicbook/internal/service/directory"
	"clinicbook/internal/store"
)

type Person struct {
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Age       int    `yaml:"age"`
	Email     string `yaml:"email"`
}

// Fixtures is the root of a seed file.
type Fixtures struct {
	Doctors  []Person `yaml:"doctors"`
	Patients []Person `yaml:"patients"`
	Rooms    []string `yaml:"rooms"`
}

type Report struct {
	Doctors  int
	Patients int
	Rooms    int
	Skipped  int
}

func LoadFile(path string) (Fixtures, error) {
	f, err := os.Open(path)
	if err != nil {
		return Fixtures{}, fmt.Errorf("open fixtures: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

func Decode(r io.Reader) (Fixtures, error) {
	var fx Fixtures
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil {
		if errors.Is(err, io.EOF) {
			return Fixtures{}, nil
		}
		return Fixtures{}, fmt.Errorf("parse fixtures: %w", err)
	}
	return fx, nil
}

// Apply creates every fixture through svc. It can be run repeatedly: rooms
// that already exist and people whose email is already on file are skipped.
func Apply(ctx context.Context, svc *directory.Service, fx Fixtures) (Report, error) {
	var rep Report

	doctors, err := svc.ListDoctors(ctx)
	if err != nil {
		return rep, fmt.Errorf("list doctors: %w", err)
	}
	knownDoctors := make(map[string]struct{}, len(doctors))
	for _, d := range doctors {
		knownDoctors[emailKey(d.Email)] = struct{}{}
	}
	for i, p := range fx.Doctors {
		if seen(knownDoctors, p.Email) {
			rep.Skipped++
			continue
		}
		if _, err := svc.CreateDoctor(ctx, p.input()); err != nil {
			return rep, fmt.Errorf("doctor %d: %w", i, err)
		}
		knownDoctors[emailKey(p.Email)] = struct{}{}
		rep.Doctors++
	}

	patients, err := svc.ListPatients(ctx)
	if err != nil {
		return rep, fmt.Errorf("list patients: %w", err)
	}
	knownPatients := make(map[string]struct{}, len(patients))
	for _, p := range patients {
		knownPatients[emailKey(p.Email)] = struct{}{}
	}
	for i, p := range fx.Patients {
		if seen(knownPatients, p.Email) {
			rep.Skipped++
			continue
		}
		if _, err := svc.CreatePatient(ctx, p.input()); err != nil {
			return rep, fmt.Errorf("patient %d: %w", i, err)
		}
		knownPatients[emailKey(p.Email)] = struct{}{}
		rep.Patients++
	}

	for _, name := range fx.Rooms {
		_, err := svc.CreateRoom(ctx, name)
		switch {
		case errors.Is(err, store.ErrDuplicate):
			rep.Skipped++
		case err != nil:
			return rep, fmt.Errorf("room %q: %w", name, err)
		default:
			rep.Rooms++
		}
	}
	return rep, nil
}

func (p Person) input() directory.PersonInput {
	return directory.PersonInput{FirstName: p.FirstName, LastName: p.LastName, Age: p.Age, Email: p.Email}
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// seen reports whether email is already known. People without an email are
// never treated as duplicates.
func seen(known map[string]struct{}, email string) bool {
	k := emailKey(email)
	if k == "" {
		return false
	}
	_, ok := known[k]
	return ok
}
