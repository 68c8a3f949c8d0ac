package catalog

import (
	"context"
	"errors"
)

var (
	ErrNotFound    = errors.New("service not found")
	ErrInvalidSort = errors.New("invalid sort parameter")
)

type ListParams struct {
	Search    string
	SortBy    string
	SortOrder string
	Limit     int
	Offset    int
}

// AnalyticsRow is a raw per-service aggregate, revenue in cents.
type AnalyticsRow struct {
	Name     string
	Count    int
	Revenue  int64
	Duration int
}

type Repository interface {
	List(ctx context.Context, p ListParams) ([]*Service, int, error)
	GetByID(ctx context.Context, id string) (*Service, error)
	AnalyticsRows(ctx context.Context) ([]AnalyticsRow, error)
}
