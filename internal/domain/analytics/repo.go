package analytics

import (
	"context"
	"time"
)

// LabelCount is a raw grouped count keyed by a stored category value.
// Label is nil when the column is null.
type LabelCount struct {
	Label *string
	Count int
}

// MonthRevenue is one month of paid-payment revenue in cents.
type MonthRevenue struct {
	Month string
	Cents int64
}

// ProviderCents is a per-provider monetary aggregate in cents.
type ProviderCents struct {
	Name  string
	Cents int64
}

// TopPatientRow is a raw top-patient aggregate, spend in cents.
type TopPatientRow struct {
	ID         string
	Name       string
	SpentCents int64
	VisitCount int
	LastVisit  *time.Time
}

// RetentionCandidate is a patient who is a regular (>=2 distinct
// appointments) and at risk (last booking before the cutoff).
type RetentionCandidate struct {
	ID        string
	Name      string
	LastVisit time.Time
	Phone     string
	Email     string
}

type Repository interface {
	TotalRevenue(ctx context.Context) (int64, error)
	TotalPatients(ctx context.Context) (int, error)
	TotalAppointments(ctx context.Context) (int, error)
	PatientsBySource(ctx context.Context) ([]LabelCount, error)
	PatientsByGender(ctx context.Context) ([]LabelCount, error)
	TopServices(ctx context.Context, limit int) ([]LabelCount, error)
	AppointmentsByStatus(ctx context.Context) ([]LabelCount, error)
	// MonthlyRevenue returns paid revenue grouped by month, newest
	// group first, at most twelve groups.
	MonthlyRevenue(ctx context.Context) ([]MonthRevenue, error)
	PatientAges(ctx context.Context) ([]int, error)
	BookingWeekdayCounts(ctx context.Context) (map[string]int, error)
	ProviderRevenue(ctx context.Context) ([]ProviderCents, error)
	ProviderServiceCounts(ctx context.Context) ([]LabelCount, error)
	TopPatients(ctx context.Context, limit int) ([]TopPatientRow, error)
	RetentionCandidates(ctx context.Context, cutoff time.Time) ([]RetentionCandidate, error)
	FutureBookingCount(ctx context.Context, patientID string, after time.Time) (int, error)
}
