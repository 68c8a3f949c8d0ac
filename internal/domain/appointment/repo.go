package appointment

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound    = errors.New("appointment not found")
	ErrInvalidSort = errors.New("invalid sort parameter")
)

type ListParams struct {
	Search    string
	SortBy    string
	SortOrder string
	TodayOnly bool
	Limit     int
	Offset    int
}

type Repository interface {
	List(ctx context.Context, p ListParams, dayStart, dayEnd time.Time) ([]Record, int, error)
	GetByID(ctx context.Context, id string) (*Record, error)
	BookingsFor(ctx context.Context, appointmentIDs []string) (map[string][]BookingDetail, error)
	PaymentsFor(ctx context.Context, appointmentIDs []string) (map[string][]PaymentRecord, error)

	StatusCounts(ctx context.Context) (map[string]int, error)
	TodayStatusCounts(ctx context.Context, dayStart, dayEnd time.Time) (map[string]int, error)
	TotalServiceRevenue(ctx context.Context) (int64, error)
	AvgBookingDurationMinutes(ctx context.Context) (float64, error)
	BookingWeekdayCounts(ctx context.Context) (map[string]int, error)
}
