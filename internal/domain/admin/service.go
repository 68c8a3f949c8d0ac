package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Service handles bulk data import and synthetic seeding.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ImportTypes lists the accepted :type values in dependency order.
var ImportTypes = []string{
	"patients", "providers", "services", "appointments",
	"appointment_services", "payments",
}

func decodeRows[T any](raw []byte) ([]T, error) {
	var rows []T
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return rows, nil
}

// Import upserts a JSON array of records of the given type.
func (s *Service) Import(ctx context.Context, typ string, raw []byte) (*ImportResult, error) {
	var count int
	var err error

	switch typ {
	case "patients":
		rows, derr := decodeRows[PatientInput](raw)
		if derr != nil {
			return nil, derr
		}
		count, err = len(rows), s.repo.UpsertPatients(ctx, rows)
	case "providers":
		rows, derr := decodeRows[ProviderInput](raw)
		if derr != nil {
			return nil, derr
		}
		count, err = len(rows), s.repo.UpsertProviders(ctx, rows)
	case "services":
		rows, derr := decodeRows[ServiceInput](raw)
		if derr != nil {
			return nil, derr
		}
		count, err = len(rows), s.repo.UpsertServices(ctx, rows)
	case "appointments":
		rows, derr := decodeRows[AppointmentInput](raw)
		if derr != nil {
			return nil, derr
		}
		count, err = len(rows), s.repo.UpsertAppointments(ctx, rows)
	case "appointment_services":
		rows, derr := decodeRows[BookingInput](raw)
		if derr != nil {
			return nil, derr
		}
		count, err = len(rows), s.repo.InsertBookings(ctx, rows)
	case "payments":
		rows, derr := decodeRows[PaymentInput](raw)
		if derr != nil {
			return nil, derr
		}
		count, err = len(rows), s.repo.UpsertPayments(ctx, rows)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, typ)
	}
	if err != nil {
		return nil, err
	}

	return &ImportResult{Status: "success", Count: count, Type: typ}, nil
}

// Seed generates a synthetic dataset and loads it in dependency order.
func (s *Service) Seed(ctx context.Context, cfg SeedConfig) (*SeedResult, error) {
	if cfg.PatientCount <= 0 {
		cfg.PatientCount = DefaultSeedConfig().PatientCount
	}
	if cfg.ProviderCount <= 0 {
		cfg.ProviderCount = DefaultSeedConfig().ProviderCount
	}
	if cfg.AppointmentsPerPatient <= 0 {
		cfg.AppointmentsPerPatient = DefaultSeedConfig().AppointmentsPerPatient
	}

	start := time.Now()
	ds := NewGenerator(cfg.Seed).Generate(cfg)

	if err := s.repo.UpsertPatients(ctx, ds.Patients); err != nil {
		return nil, fmt.Errorf("seed patients: %w", err)
	}
	if err := s.repo.UpsertProviders(ctx, ds.Providers); err != nil {
		return nil, fmt.Errorf("seed providers: %w", err)
	}
	if err := s.repo.UpsertServices(ctx, ds.Services); err != nil {
		return nil, fmt.Errorf("seed services: %w", err)
	}
	if err := s.repo.UpsertAppointments(ctx, ds.Appointments); err != nil {
		return nil, fmt.Errorf("seed appointments: %w", err)
	}
	if err := s.repo.InsertBookings(ctx, ds.Bookings); err != nil {
		return nil, fmt.Errorf("seed bookings: %w", err)
	}
	if err := s.repo.UpsertPayments(ctx, ds.Payments); err != nil {
		return nil, fmt.Errorf("seed payments: %w", err)
	}

	return &SeedResult{
		Patients:     len(ds.Patients),
		Providers:    len(ds.Providers),
		Services:     len(ds.Services),
		Appointments: len(ds.Appointments),
		Bookings:     len(ds.Bookings),
		Payments:     len(ds.Payments),
		Duration:     time.Since(start),
	}, nil
}
