package dashboard

import (
	"context"
	"time"

	"github.com/medspa/api/internal/domain/appointment"
)

type Repository interface {
	// TodayAppointments returns appointments having at least one booking
	// starting in the window.
	TodayAppointments(ctx context.Context, dayStart, dayEnd time.Time) ([]appointment.Record, error)
	NewPatientsCount(ctx context.Context, dayStart, dayEnd time.Time) (int, error)
	PendingCount(ctx context.Context) (int, error)
}

// BookingSource provides the booking and payment lookups needed to build
// timeline views; the appointment repository satisfies it.
type BookingSource interface {
	BookingsFor(ctx context.Context, appointmentIDs []string) (map[string][]appointment.BookingDetail, error)
	PaymentsFor(ctx context.Context, appointmentIDs []string) (map[string][]appointment.PaymentRecord, error)
}
