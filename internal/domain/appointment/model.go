package appointment

import (
	"time"

	"github.com/medspa/api/internal/domain/analytics"
)

// Appointment maps to the appointments table.
type Appointment struct {
	ID          string    `db:"id" json:"id"`
	PatientID   string    `db:"patient_id" json:"patient_id"`
	Status      string    `db:"status" json:"status"`
	CreatedDate time.Time `db:"created_date" json:"created_date"`
}

// Record is an appointment row with the patient's display name joined in.
type Record struct {
	Appointment
	PatientName string `json:"patient_name"`
}

// BookingDetail is one appointment_services row enriched with its service
// and provider for view assembly. Price is integer cents.
type BookingDetail struct {
	ID            int        `json:"id"`
	AppointmentID string     `json:"appointment_id"`
	ServiceID     string     `json:"service_id"`
	ServiceName   string     `json:"service_name"`
	Price         int64      `json:"price"`
	ProviderID    string     `json:"provider_id"`
	ProviderName  string     `json:"provider_name"`
	Start         time.Time  `json:"start"`
	End           *time.Time `json:"end,omitempty"`
}

// PaymentRecord is the slice of a payment needed for per-booking status
// matching.
type PaymentRecord struct {
	ID        string  `json:"id"`
	ServiceID *string `json:"service_id,omitempty"`
	Amount    int64   `json:"amount"`
	Status    string  `json:"status"`
}

// BookingView is a booking with its resolved payment status.
type BookingView struct {
	BookingDetail
	PaymentStatus string `json:"payment_status"`
}

// View is the derived appointment shape served by list and detail
// endpoints. Derived fields live here, never on the stored entity.
type View struct {
	Record
	ServiceCount    int           `json:"service_count"`
	TotalCost       int64         `json:"total_cost"`
	DurationMinutes int           `json:"duration_minutes"`
	StartTime       *time.Time    `json:"start_time,omitempty"`
	Services        []BookingView `json:"services"`
}

// Analytics is the appointment analytics snapshot. total_revenue is the
// service-price sum in cents.
type Analytics struct {
	TotalAppointments  int                  `json:"total_appointments"`
	Confirmed          int                  `json:"confirmed"`
	Pending            int                  `json:"pending"`
	Cancelled          int                  `json:"cancelled"`
	TodayAppointments  int                  `json:"today_appointments"`
	TodayConfirmed     int                  `json:"today_confirmed"`
	TodayPending       int                  `json:"today_pending"`
	TodayCancelled     int                  `json:"today_cancelled"`
	TotalRevenue       int64                `json:"total_revenue"`
	AvgDurationMinutes float64              `json:"avg_duration_minutes"`
	BusiestDays        []analytics.StatItem `json:"busiest_days"`
}
