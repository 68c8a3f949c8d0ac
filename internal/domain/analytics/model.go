package analytics

import "time"

// StatItem is a single labelled data point in a breakdown.
type StatItem struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// TrendPoint is one month of the revenue trend, value in decimal dollars.
type TrendPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// Demographics groups the patient demographic breakdowns.
type Demographics struct {
	ByAge    []StatItem `json:"by_age"`
	ByGender []StatItem `json:"by_gender"`
}

// Patterns groups appointment timing breakdowns.
type Patterns struct {
	BusiestDays []StatItem `json:"busiest_days"`
}

// ProviderPerformance groups per-provider breakdowns.
type ProviderPerformance struct {
	RevenueByProvider  []StatItem `json:"revenue_by_provider"`
	ServicesByProvider []StatItem `json:"services_by_provider"`
}

// Summary is the full business-intelligence snapshot. total_revenue stays in
// cents; revenue_trend and provider revenue are converted to dollars.
type Summary struct {
	TotalRevenue           int64                  `json:"total_revenue"`
	TotalPatients          int                    `json:"total_patients"`
	TotalAppointments      int                    `json:"total_appointments"`
	PatientsBySource       []StatItem             `json:"patients_by_source"`
	TopServices            []StatItem             `json:"top_services"`
	AppointmentsByStatus   []StatItem             `json:"appointments_by_status"`
	Demographics           Demographics           `json:"demographics"`
	RevenueTrend           []TrendPoint           `json:"revenue_trend"`
	Patterns               Patterns               `json:"patterns"`
	ProviderPerformance    ProviderPerformance    `json:"provider_performance"`
	TopPatients            []TopPatientStat       `json:"top_patients"`
	RetentionOpportunities []RetentionOpportunity `json:"retention_opportunities"`
}

// PatientAnalytics is the patient-population breakdown.
type PatientAnalytics struct {
	TotalPatients          int                    `json:"total_patients"`
	BySource               []StatItem             `json:"by_source"`
	ByGender               []StatItem             `json:"by_gender"`
	AverageAge             float64                `json:"average_age"`
	ByDecade               []StatItem             `json:"by_decade"`
	TopPatients            []TopPatientStat       `json:"top_patients"`
	RetentionOpportunities []RetentionOpportunity `json:"retention_opportunities"`
}

// TopPatientStat ranks a patient by lifetime spend.
type TopPatientStat struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	TotalSpent float64    `json:"total_spent"`
	VisitCount int        `json:"visit_count"`
	LastVisit  *time.Time `json:"last_visit,omitempty"`
}

// RetentionOpportunity is a returning patient overdue for re-engagement
// with no future visit on the books.
type RetentionOpportunity struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	LastVisit          time.Time `json:"last_visit"`
	DaysSinceLastVisit int       `json:"days_since_last_visit"`
	Phone              string    `json:"phone,omitempty"`
	Email              string    `json:"email,omitempty"`
}
