package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

const (
	topPatientLimit    = 5
	retentionLimit     = 5
	atRiskAfterDays    = 60
	topServicesLimit   = 5
	revenueTrendMonths = 12
)

var weekdayOrder = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// GetSummary assembles the full analytics snapshot. Any store error aborts
// the whole computation; there is no partial summary.
func (s *Service) GetSummary(ctx context.Context) (*Summary, error) {
	revenue, err := s.repo.TotalRevenue(ctx)
	if err != nil {
		return nil, fmt.Errorf("total revenue: %w", err)
	}
	patients, err := s.repo.TotalPatients(ctx)
	if err != nil {
		return nil, fmt.Errorf("total patients: %w", err)
	}
	appointments, err := s.repo.TotalAppointments(ctx)
	if err != nil {
		return nil, fmt.Errorf("total appointments: %w", err)
	}

	sources, err := s.repo.PatientsBySource(ctx)
	if err != nil {
		return nil, fmt.Errorf("patients by source: %w", err)
	}
	topServices, err := s.repo.TopServices(ctx, topServicesLimit)
	if err != nil {
		return nil, fmt.Errorf("top services: %w", err)
	}
	statuses, err := s.repo.AppointmentsByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("appointments by status: %w", err)
	}

	months, err := s.repo.MonthlyRevenue(ctx)
	if err != nil {
		return nil, fmt.Errorf("monthly revenue: %w", err)
	}
	trend := revenueTrend(months)

	genders, err := s.repo.PatientsByGender(ctx)
	if err != nil {
		return nil, fmt.Errorf("patients by gender: %w", err)
	}
	ages, err := s.repo.PatientAges(ctx)
	if err != nil {
		return nil, fmt.Errorf("patient ages: %w", err)
	}

	dayCounts, err := s.repo.BookingWeekdayCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("booking weekday counts: %w", err)
	}

	provRevenue, err := s.repo.ProviderRevenue(ctx)
	if err != nil {
		return nil, fmt.Errorf("provider revenue: %w", err)
	}
	provRev := make([]StatItem, 0, len(provRevenue))
	for _, p := range provRevenue {
		provRev = append(provRev, StatItem{Label: p.Name, Value: float64(p.Cents) / 100.0})
	}
	provCounts, err := s.repo.ProviderServiceCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("provider service counts: %w", err)
	}
	provServ := make([]StatItem, 0, len(provCounts))
	for _, p := range provCounts {
		name := "Unknown"
		if p.Label != nil {
			name = *p.Label
		}
		provServ = append(provServ, StatItem{Label: name, Value: float64(p.Count)})
	}

	topPatients, err := s.TopPatients(ctx, topPatientLimit)
	if err != nil {
		return nil, err
	}
	retention, err := s.RetentionOpportunities(ctx, retentionLimit)
	if err != nil {
		return nil, err
	}

	return &Summary{
		TotalRevenue:         revenue,
		TotalPatients:        patients,
		TotalAppointments:    appointments,
		PatientsBySource:     normalizeCounts(sources),
		TopServices:          titleCounts(topServices),
		AppointmentsByStatus: normalizeCounts(statuses),
		Demographics: Demographics{
			ByAge:    AgeDeciles(ages),
			ByGender: titleCounts(genders),
		},
		RevenueTrend: trend,
		Patterns:     Patterns{BusiestDays: BusiestDays(dayCounts)},
		ProviderPerformance: ProviderPerformance{
			RevenueByProvider:  provRev,
			ServicesByProvider: provServ,
		},
		TopPatients:            topPatients,
		RetentionOpportunities: retention,
	}, nil
}

// GetPatientAnalytics returns the patient-population breakdown.
func (s *Service) GetPatientAnalytics(ctx context.Context) (*PatientAnalytics, error) {
	total, err := s.repo.TotalPatients(ctx)
	if err != nil {
		return nil, fmt.Errorf("total patients: %w", err)
	}
	sources, err := s.repo.PatientsBySource(ctx)
	if err != nil {
		return nil, fmt.Errorf("patients by source: %w", err)
	}
	genders, err := s.repo.PatientsByGender(ctx)
	if err != nil {
		return nil, fmt.Errorf("patients by gender: %w", err)
	}
	ages, err := s.repo.PatientAges(ctx)
	if err != nil {
		return nil, fmt.Errorf("patient ages: %w", err)
	}
	topPatients, err := s.TopPatients(ctx, topPatientLimit)
	if err != nil {
		return nil, err
	}
	retention, err := s.RetentionOpportunities(ctx, retentionLimit)
	if err != nil {
		return nil, err
	}

	return &PatientAnalytics{
		TotalPatients:          total,
		BySource:               normalizeCounts(sources),
		ByGender:               titleCounts(genders),
		AverageAge:             averageAge(ages),
		ByDecade:               ByDecade(ages),
		TopPatients:            topPatients,
		RetentionOpportunities: retention,
	}, nil
}

// TopPatients ranks patients by lifetime service-price spend across
// non-cancelled appointments.
func (s *Service) TopPatients(ctx context.Context, limit int) ([]TopPatientStat, error) {
	rows, err := s.repo.TopPatients(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("top patients: %w", err)
	}
	items := make([]TopPatientStat, 0, len(rows))
	for _, r := range rows {
		items = append(items, TopPatientStat{
			ID:         r.ID,
			Name:       r.Name,
			TotalSpent: float64(r.SpentCents) / 100.0,
			VisitCount: r.VisitCount,
			LastVisit:  r.LastVisit,
		})
	}
	return items, nil
}

// RetentionOpportunities surfaces regulars who are overdue and have nothing
// scheduled. The SQL phase keeps patients with at least two distinct
// appointments whose latest booking is older than the cutoff; the second
// phase drops anybody with a future booking on a non-cancelled appointment.
func (s *Service) RetentionOpportunities(ctx context.Context, limit int) ([]RetentionOpportunity, error) {
	now := s.now()
	cutoff := now.AddDate(0, 0, -atRiskAfterDays)

	candidates, err := s.repo.RetentionCandidates(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("retention candidates: %w", err)
	}

	var items []RetentionOpportunity
	for _, c := range candidates {
		future, err := s.repo.FutureBookingCount(ctx, c.ID, now)
		if err != nil {
			return nil, fmt.Errorf("future bookings for %s: %w", c.ID, err)
		}
		if future > 0 {
			continue
		}
		items = append(items, RetentionOpportunity{
			ID:                 c.ID,
			Name:               c.Name,
			LastVisit:          c.LastVisit,
			DaysSinceLastVisit: int(now.Sub(c.LastVisit).Hours() / 24),
			Phone:              c.Phone,
			Email:              c.Email,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].DaysSinceLastVisit > items[j].DaysSinceLastVisit
	})
	if len(items) > limit {
		items = items[:limit]
	}
	if items == nil {
		items = []RetentionOpportunity{}
	}
	return items, nil
}

// ---------------------------------------------------------------------------
// Pure helpers
// ---------------------------------------------------------------------------

// AgeDecileBucket assigns an age to a width-10 bin: ages [10*(i-1), 10*i)
// fall in bucket i, so age 0 is bucket 1 and age 99 is bucket 10.
func AgeDecileBucket(age int) int {
	if age < 0 {
		return 0
	}
	if age >= 100 {
		return 11
	}
	return age/10 + 1
}

// AgeDecileLabel renders bucket i as "start-end", e.g. bucket 1 -> "0-10".
func AgeDecileLabel(bucket int) string {
	start := (bucket - 1) * 10
	return fmt.Sprintf("%d-%d", start, start+10)
}

// AgeDeciles buckets ages into the width-10 bins, ordered by bucket.
// Out-of-range buckets (negative age, age >= 100) are skipped, matching
// what a bounded histogram over [0, 100) produces.
func AgeDeciles(ages []int) []StatItem {
	counts := make(map[int]int)
	for _, a := range ages {
		b := AgeDecileBucket(a)
		if b < 1 || b > 10 {
			continue
		}
		counts[b]++
	}
	var items []StatItem
	for b := 1; b <= 10; b++ {
		if n, ok := counts[b]; ok {
			items = append(items, StatItem{Label: AgeDecileLabel(b), Value: float64(n)})
		}
	}
	return items
}

// ByDecade buckets ages by floor(age/10)*10 with "NNs" labels. Alignment
// intentionally differs from AgeDeciles.
func ByDecade(ages []int) []StatItem {
	counts := make(map[int]int)
	var decades []int
	for _, a := range ages {
		if a < 0 {
			continue
		}
		d := (a / 10) * 10
		if _, ok := counts[d]; !ok {
			decades = append(decades, d)
		}
		counts[d]++
	}
	sort.Ints(decades)
	items := make([]StatItem, 0, len(decades))
	for _, d := range decades {
		items = append(items, StatItem{Label: fmt.Sprintf("%ds", d), Value: float64(counts[d])})
	}
	return items
}

// revenueTrend takes month groups newest-first, keeps the most recent
// twelve, and presents them chronologically ascending in dollars.
func revenueTrend(months []MonthRevenue) []TrendPoint {
	if len(months) > revenueTrendMonths {
		months = months[:revenueTrendMonths]
	}
	trend := make([]TrendPoint, 0, len(months))
	for i := len(months) - 1; i >= 0; i-- {
		m := months[i]
		trend = append(trend, TrendPoint{Date: m.Month, Value: float64(m.Cents) / 100.0})
	}
	return trend
}

func averageAge(ages []int) float64 {
	if len(ages) == 0 {
		return 0
	}
	var sum int
	for _, a := range ages {
		sum += a
	}
	return math.Round(float64(sum)/float64(len(ages))*10) / 10
}

// BusiestDays zero-fills and orders weekday counts Monday through Sunday.
func BusiestDays(counts map[string]int) []StatItem {
	items := make([]StatItem, 0, len(weekdayOrder))
	for _, day := range weekdayOrder {
		items = append(items, StatItem{Label: day, Value: float64(counts[day])})
	}
	return items
}

// normalizeCounts maps stored enum-like values to display labels:
// underscores become spaces, words are title-cased, null becomes "Unknown".
func normalizeCounts(counts []LabelCount) []StatItem {
	items := make([]StatItem, 0, len(counts))
	for _, lc := range counts {
		label := "Unknown"
		if lc.Label != nil {
			label = titleCase(strings.ReplaceAll(*lc.Label, "_", " "))
		}
		items = append(items, StatItem{Label: label, Value: float64(lc.Count)})
	}
	return items
}

// titleCounts title-cases labels without underscore replacement.
func titleCounts(counts []LabelCount) []StatItem {
	items := make([]StatItem, 0, len(counts))
	for _, lc := range counts {
		items = append(items, StatItem{Label: labelOrUnknown(lc.Label), Value: float64(lc.Count)})
	}
	return items
}

func labelOrUnknown(s *string) string {
	if s == nil {
		return "Unknown"
	}
	return titleCase(*s)
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
