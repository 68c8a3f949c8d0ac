package dashboard

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/medspa/api/internal/domain/appointment"
)

type Service struct {
	repo     Repository
	bookings BookingSource
	now      func() time.Time
}

func NewService(repo Repository, bookings BookingSource) *Service {
	return &Service{repo: repo, bookings: bookings, now: time.Now}
}

func todayWindow(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 0, 1)
}

// GetSummary assembles the dashboard snapshot for the current day. The
// revenue forecast sums the prices of bookings starting today, regardless
// of payment state; upcoming appointments are ordered by their earliest
// booking start of the day.
func (s *Service) GetSummary(ctx context.Context) (*Summary, error) {
	dayStart, dayEnd := todayWindow(s.now())

	records, err := s.repo.TodayAppointments(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("today appointments: %w", err)
	}

	ids := make([]string, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID)
	}
	bookings, err := s.bookings.BookingsFor(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}
	payments, err := s.bookings.PaymentsFor(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load payments: %w", err)
	}

	var forecast int64
	type upcoming struct {
		view  appointment.View
		start *time.Time
	}
	items := make([]upcoming, 0, len(records))
	for _, rec := range records {
		recBookings := bookings[rec.ID]

		var firstToday *time.Time
		for _, b := range recBookings {
			if b.Start.Before(dayStart) || !b.Start.Before(dayEnd) {
				continue
			}
			forecast += b.Price
			if firstToday == nil || b.Start.Before(*firstToday) {
				start := b.Start
				firstToday = &start
			}
		}

		items = append(items, upcoming{
			view:  appointment.BuildTimelineView(rec, recBookings, payments[rec.ID]),
			start: firstToday,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].start == nil {
			return false
		}
		if items[j].start == nil {
			return true
		}
		return items[i].start.Before(*items[j].start)
	})

	views := make([]appointment.View, 0, len(items))
	for _, it := range items {
		views = append(views, it.view)
	}

	newPatients, err := s.repo.NewPatientsCount(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("new patients: %w", err)
	}
	pending, err := s.repo.PendingCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("pending actions: %w", err)
	}

	return &Summary{
		AppointmentsToday:    len(records),
		RevenueForecastToday: forecast,
		NewPatientsToday:     newPatients,
		PendingActions:       pending,
		UpcomingAppointments: views,
	}, nil
}
