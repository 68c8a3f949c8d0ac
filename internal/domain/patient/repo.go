package patient

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a patient lookup misses.
var ErrNotFound = errors.New("patient not found")

// ErrInvalidSort is returned for sort tokens outside the allowed set.
var ErrInvalidSort = errors.New("invalid sort parameter")

// ListParams carries list filtering already validated by the service.
type ListParams struct {
	Search    string
	SortBy    string
	SortOrder string
	Limit     int
	Offset    int
}

type Repository interface {
	List(ctx context.Context, p ListParams) ([]*Patient, int, error)
	GetByID(ctx context.Context, id string) (*Patient, error)
	AppointmentSummaries(ctx context.Context, patientID string) ([]AppointmentSummary, error)
}
