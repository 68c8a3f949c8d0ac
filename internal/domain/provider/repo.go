package provider

import (
	"context"
	"errors"
)

var (
	ErrNotFound    = errors.New("provider not found")
	ErrInvalidSort = errors.New("invalid sort parameter")
)

type ListParams struct {
	Search    string
	SortBy    string
	SortOrder string
	Limit     int
	Offset    int
}

// AnalyticsRow is a raw per-provider aggregate, revenue in cents.
type AnalyticsRow struct {
	FirstName      string
	LastName       string
	TotalServices  int
	RevenueCents   int64
	UniquePatients int
}

type Repository interface {
	List(ctx context.Context, p ListParams) ([]*Provider, int, error)
	GetByID(ctx context.Context, id string) (*Provider, error)
	AnalyticsRows(ctx context.Context) ([]AnalyticsRow, error)
	OfferedServices(ctx context.Context, providerID string) ([]OfferedService, error)
	AvgPatientsPerDay(ctx context.Context, providerID string) (float64, error)
}
