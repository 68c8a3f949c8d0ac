package appointment

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/medspa/api/internal/domain/analytics"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func todayWindow(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 0, 1)
}

// GetAppointments lists appointments as derived views.
func (s *Service) GetAppointments(ctx context.Context, p ListParams) ([]View, int, error) {
	if p.SortBy == "" {
		p.SortBy = "start_time"
	}
	if _, ok := SortColumns[p.SortBy]; !ok {
		return nil, 0, fmt.Errorf("%w: %s", ErrInvalidSort, p.SortBy)
	}
	if p.SortOrder == "" {
		p.SortOrder = "desc"
	}
	if p.SortOrder != "asc" && p.SortOrder != "desc" {
		return nil, 0, fmt.Errorf("%w: %s", ErrInvalidSort, p.SortOrder)
	}

	dayStart, dayEnd := todayWindow(s.now())
	records, total, err := s.repo.List(ctx, p, dayStart, dayEnd)
	if err != nil {
		return nil, 0, err
	}

	views, err := s.assembleViews(ctx, records)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// GetAppointment returns a single appointment view.
func (s *Service) GetAppointment(ctx context.Context, id string) (*View, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := s.assembleViews(ctx, []Record{*rec})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *Service) assembleViews(ctx context.Context, records []Record) ([]View, error) {
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID)
	}
	bookings, err := s.repo.BookingsFor(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}
	payments, err := s.repo.PaymentsFor(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load payments: %w", err)
	}

	views := make([]View, 0, len(records))
	for _, rec := range records {
		views = append(views, BuildView(rec, bookings[rec.ID], payments[rec.ID]))
	}
	return views, nil
}

// GetAnalytics computes the appointment analytics snapshot.
func (s *Service) GetAnalytics(ctx context.Context) (*Analytics, error) {
	statuses, err := s.repo.StatusCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("status counts: %w", err)
	}
	total := 0
	for _, n := range statuses {
		total += n
	}

	dayStart, dayEnd := todayWindow(s.now())
	today, err := s.repo.TodayStatusCounts(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("today status counts: %w", err)
	}
	todayTotal := 0
	for _, n := range today {
		todayTotal += n
	}

	revenue, err := s.repo.TotalServiceRevenue(ctx)
	if err != nil {
		return nil, fmt.Errorf("service revenue: %w", err)
	}
	avgDuration, err := s.repo.AvgBookingDurationMinutes(ctx)
	if err != nil {
		return nil, fmt.Errorf("avg duration: %w", err)
	}
	weekdays, err := s.repo.BookingWeekdayCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("weekday counts: %w", err)
	}

	return &Analytics{
		TotalAppointments:  total,
		Confirmed:          statuses["confirmed"],
		Pending:            statuses["pending"],
		Cancelled:          statuses["cancelled"],
		TodayAppointments:  todayTotal,
		TodayConfirmed:     today["confirmed"],
		TodayPending:       today["pending"],
		TodayCancelled:     today["cancelled"],
		TotalRevenue:       revenue,
		AvgDurationMinutes: math.Round(avgDuration*10) / 10,
		BusiestDays:        analytics.BusiestDays(weekdays),
	}, nil
}
