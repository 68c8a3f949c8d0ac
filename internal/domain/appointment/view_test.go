package appointment

import (
	"testing"
	"time"
)

func tp(t time.Time) *time.Time { return &t }

func sp(s string) *string { return &s }

func testRecord() Record {
	return Record{
		Appointment: Appointment{ID: "a1", PatientID: "p1", Status: "confirmed"},
		PatientName: "Ana Silva",
	}
}

func TestBuildViewDerivedFields(t *testing.T) {
	base := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	bookings := []BookingDetail{
		{ID: 1, AppointmentID: "a1", ServiceID: "s1", Price: 10000, Start: base, End: tp(base.Add(45 * time.Minute))},
		{ID: 2, AppointmentID: "a1", ServiceID: "s2", Price: 20000, Start: base.Add(45 * time.Minute), End: tp(base.Add(90 * time.Minute))},
	}
	payments := []PaymentRecord{
		{ID: "pay1", ServiceID: sp("s1"), Status: "paid"},
	}

	v := BuildView(testRecord(), bookings, payments)

	if v.ServiceCount != 2 {
		t.Errorf("service_count = %d, want 2", v.ServiceCount)
	}
	if v.TotalCost != 30000 {
		t.Errorf("total_cost = %d, want 30000 cents", v.TotalCost)
	}
	// Earliest start to latest end spans 90 minutes.
	if v.DurationMinutes != 90 {
		t.Errorf("duration_minutes = %d, want 90", v.DurationMinutes)
	}
	if v.StartTime == nil || !v.StartTime.Equal(base) {
		t.Errorf("start_time = %v, want %v", v.StartTime, base)
	}
	if v.Services[0].PaymentStatus != "paid" {
		t.Errorf("matched booking status = %q, want paid", v.Services[0].PaymentStatus)
	}
	if v.Services[1].PaymentStatus != "unpaid" {
		t.Errorf("unmatched booking status = %q, want unpaid", v.Services[1].PaymentStatus)
	}
}

func TestBuildViewNoBookings(t *testing.T) {
	v := BuildView(testRecord(), nil, nil)
	if v.ServiceCount != 0 || v.TotalCost != 0 || v.DurationMinutes != 0 {
		t.Errorf("empty view = %+v", v)
	}
	if v.StartTime != nil {
		t.Errorf("start_time = %v, want nil", v.StartTime)
	}
	if v.Services == nil {
		t.Error("services must serialize as [], not null")
	}
}

func TestBuildViewOpenEndedBooking(t *testing.T) {
	base := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	bookings := []BookingDetail{
		{ID: 1, AppointmentID: "a1", ServiceID: "s1", Price: 5000, Start: base},
	}

	v := BuildView(testRecord(), bookings, nil)
	if v.DurationMinutes != 0 {
		t.Errorf("duration without end = %d, want 0", v.DurationMinutes)
	}
	if v.StartTime == nil || !v.StartTime.Equal(base) {
		t.Errorf("start_time = %v, want %v", v.StartTime, base)
	}
}

func TestBuildTimelineViewSumsDurations(t *testing.T) {
	base := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	bookings := []BookingDetail{
		{ID: 1, AppointmentID: "a1", ServiceID: "s1", Price: 8000, Start: base, End: tp(base.Add(30 * time.Minute))},
		{ID: 2, AppointmentID: "a1", ServiceID: "s2", Price: 9000, Start: base.Add(2 * time.Hour), End: tp(base.Add(2*time.Hour + 45*time.Minute))},
		{ID: 3, AppointmentID: "a1", ServiceID: "s3", Price: 1000, Start: base.Add(5 * time.Hour)}, // no end
	}

	v := BuildTimelineView(testRecord(), bookings, nil)
	// 30 + 45; the open-ended booking contributes nothing.
	if v.DurationMinutes != 75 {
		t.Errorf("duration_minutes = %d, want 75", v.DurationMinutes)
	}
	if v.StartTime == nil || !v.StartTime.Equal(base) {
		t.Errorf("start_time = %v, want %v", v.StartTime, base)
	}
	if v.TotalCost != 18000 {
		t.Errorf("total_cost = %d, want 18000", v.TotalCost)
	}
}
