package dashboard

import "github.com/medspa/api/internal/domain/appointment"

// Summary is the main dashboard payload. revenue_forecast_today is in
// cents and counts only bookings that start today.
type Summary struct {
	AppointmentsToday    int                `json:"appointments_today"`
	RevenueForecastToday int64              `json:"revenue_forecast_today"`
	NewPatientsToday     int                `json:"new_patients_today"`
	PendingActions       int                `json:"pending_actions"`
	UpcomingAppointments []appointment.View `json:"upcoming_appointments"`
}
