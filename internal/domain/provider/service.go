package provider

import (
	"context"
	"fmt"
	"math"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetProviders(ctx context.Context, p ListParams) ([]*Provider, int, error) {
	if p.SortBy == "" {
		p.SortBy = "first_name"
	}
	if _, ok := SortColumns[p.SortBy]; !ok {
		return nil, 0, fmt.Errorf("%w: %s", ErrInvalidSort, p.SortBy)
	}
	if p.SortOrder == "" {
		p.SortOrder = "asc"
	}
	if p.SortOrder != "asc" && p.SortOrder != "desc" {
		return nil, 0, fmt.Errorf("%w: %s", ErrInvalidSort, p.SortOrder)
	}
	return s.repo.List(ctx, p)
}

// GetAnalytics computes per-provider performance. average_ticket is
// revenue over booking count, 2 decimal places, 0 when there were no
// bookings.
func (s *Service) GetAnalytics(ctx context.Context) ([]Analytics, error) {
	rows, err := s.repo.AnalyticsRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("provider analytics: %w", err)
	}
	items := make([]Analytics, 0, len(rows))
	for _, r := range rows {
		var ticket float64
		if r.TotalServices > 0 {
			ticket = math.Round(float64(r.RevenueCents)/float64(r.TotalServices)*100) / 100
		}
		items = append(items, Analytics{
			ProviderName:   r.FirstName + " " + r.LastName,
			TotalServices:  r.TotalServices,
			TotalRevenue:   r.RevenueCents,
			UniquePatients: r.UniquePatients,
			AverageTicket:  ticket,
		})
	}
	return items, nil
}

// GetDetails returns the provider profile with workload stats.
func (s *Service) GetDetails(ctx context.Context, id string) (*Details, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	services, err := s.repo.OfferedServices(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("offered services: %w", err)
	}
	if services == nil {
		services = []OfferedService{}
	}
	avg, err := s.repo.AvgPatientsPerDay(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("avg patients per day: %w", err)
	}
	return &Details{
		Provider:              *p,
		AveragePatientsPerDay: math.Round(avg*10) / 10,
		Services:              services,
	}, nil
}
