package admin

import (
	"context"
	"errors"
)

var (
	// ErrMissingDependency marks a foreign-key miss during import: the
	// payload references an entity that has not been imported yet.
	ErrMissingDependency = errors.New("referenced record does not exist yet")

	ErrInvalidPayload = errors.New("payload must be a JSON array of objects")
	ErrUnknownType    = errors.New("unknown import type")
)

type Repository interface {
	UpsertPatients(ctx context.Context, rows []PatientInput) error
	UpsertProviders(ctx context.Context, rows []ProviderInput) error
	UpsertServices(ctx context.Context, rows []ServiceInput) error
	UpsertAppointments(ctx context.Context, rows []AppointmentInput) error
	InsertBookings(ctx context.Context, rows []BookingInput) error
	UpsertPayments(ctx context.Context, rows []PaymentInput) error
}
