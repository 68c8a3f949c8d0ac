package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/medspa/api/internal/domain/appointment"
)

type mockRepo struct {
	records     []appointment.Record
	newPatients int
	pending     int
}

func (m *mockRepo) TodayAppointments(_ context.Context, _, _ time.Time) ([]appointment.Record, error) {
	return m.records, nil
}

func (m *mockRepo) NewPatientsCount(_ context.Context, _, _ time.Time) (int, error) {
	return m.newPatients, nil
}

func (m *mockRepo) PendingCount(_ context.Context) (int, error) {
	return m.pending, nil
}

type mockBookings struct {
	bookings map[string][]appointment.BookingDetail
	payments map[string][]appointment.PaymentRecord
}

func (m *mockBookings) BookingsFor(_ context.Context, _ []string) (map[string][]appointment.BookingDetail, error) {
	return m.bookings, nil
}

func (m *mockBookings) PaymentsFor(_ context.Context, _ []string) (map[string][]appointment.PaymentRecord, error) {
	return m.payments, nil
}

func fixedNow() time.Time {
	return time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
}

func at(hour, min int) time.Time {
	n := fixedNow()
	return time.Date(n.Year(), n.Month(), n.Day(), hour, min, 0, 0, time.UTC)
}

func record(id string) appointment.Record {
	return appointment.Record{
		Appointment: appointment.Appointment{ID: id, PatientID: "p-" + id, Status: "confirmed"},
		PatientName: "Pat " + id,
	}
}

func booking(apptID string, price int64, start time.Time, minutes int) appointment.BookingDetail {
	end := start.Add(time.Duration(minutes) * time.Minute)
	return appointment.BookingDetail{
		AppointmentID: apptID,
		ServiceID:     "svc-1",
		Price:         price,
		Start:         start,
		End:           &end,
	}
}

func newTestService(repo *mockRepo, bookings *mockBookings) *Service {
	svc := NewService(repo, bookings)
	svc.now = fixedNow
	return svc
}

func TestGetSummaryForecastOnlyCountsTodayBookings(t *testing.T) {
	tomorrow := at(10, 0).AddDate(0, 0, 1)
	repo := &mockRepo{records: []appointment.Record{record("a1")}}
	bookings := &mockBookings{
		bookings: map[string][]appointment.BookingDetail{
			"a1": {
				booking("a1", 5000, at(10, 0), 60),
				booking("a1", 9999, tomorrow, 30),
			},
		},
		payments: map[string][]appointment.PaymentRecord{},
	}

	summary, err := newTestService(repo, bookings).GetSummary(context.Background())
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}
	if summary.RevenueForecastToday != 5000 {
		t.Errorf("forecast = %d, want 5000", summary.RevenueForecastToday)
	}
	if summary.AppointmentsToday != 1 {
		t.Errorf("appointments today = %d, want 1", summary.AppointmentsToday)
	}
}

func TestGetSummaryUpcomingSortedByEarliestTodayBooking(t *testing.T) {
	repo := &mockRepo{records: []appointment.Record{record("late"), record("early"), record("none")}}
	bookings := &mockBookings{
		bookings: map[string][]appointment.BookingDetail{
			"late":  {booking("late", 1000, at(15, 30), 45)},
			"early": {booking("early", 2000, at(9, 0), 30)},
			"none":  {booking("none", 3000, at(9, 0).AddDate(0, 0, 2), 30)},
		},
		payments: map[string][]appointment.PaymentRecord{},
	}

	summary, err := newTestService(repo, bookings).GetSummary(context.Background())
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}
	if len(summary.UpcomingAppointments) != 3 {
		t.Fatalf("upcoming = %d, want 3", len(summary.UpcomingAppointments))
	}
	gotOrder := []string{
		summary.UpcomingAppointments[0].ID,
		summary.UpcomingAppointments[1].ID,
		summary.UpcomingAppointments[2].ID,
	}
	wantOrder := []string{"early", "late", "none"}
	for i := range wantOrder {
		if gotOrder[i] != wantOrder[i] {
			t.Errorf("upcoming[%d] = %s, want %s", i, gotOrder[i], wantOrder[i])
		}
	}
	// Only the bookings starting today land in the forecast.
	if summary.RevenueForecastToday != 3000 {
		t.Errorf("forecast = %d, want 3000", summary.RevenueForecastToday)
	}
}

func TestGetSummaryUsesSummedBookingDurations(t *testing.T) {
	repo := &mockRepo{records: []appointment.Record{record("a1")}}
	bookings := &mockBookings{
		bookings: map[string][]appointment.BookingDetail{
			"a1": {
				booking("a1", 1000, at(9, 0), 30),
				booking("a1", 1000, at(11, 0), 45),
			},
		},
		payments: map[string][]appointment.PaymentRecord{},
	}

	summary, err := newTestService(repo, bookings).GetSummary(context.Background())
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}
	if got := summary.UpcomingAppointments[0].DurationMinutes; got != 75 {
		t.Errorf("duration = %d, want 75 (summed, not span)", got)
	}
}

func TestGetSummaryPassthroughCounts(t *testing.T) {
	repo := &mockRepo{newPatients: 4, pending: 7}
	bookings := &mockBookings{
		bookings: map[string][]appointment.BookingDetail{},
		payments: map[string][]appointment.PaymentRecord{},
	}

	summary, err := newTestService(repo, bookings).GetSummary(context.Background())
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}
	if summary.NewPatientsToday != 4 {
		t.Errorf("new patients = %d, want 4", summary.NewPatientsToday)
	}
	if summary.PendingActions != 7 {
		t.Errorf("pending = %d, want 7", summary.PendingActions)
	}
	if summary.AppointmentsToday != 0 || len(summary.UpcomingAppointments) != 0 {
		t.Errorf("expected empty day, got %d appointments", summary.AppointmentsToday)
	}
}
