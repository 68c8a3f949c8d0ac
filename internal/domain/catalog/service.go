package catalog

import (
	"context"
	"fmt"
	"math"
)

// CatalogService is the business layer over the service catalog. Named to
// avoid colliding with the Service entity.
type CatalogService struct {
	repo Repository
}

func NewCatalogService(repo Repository) *CatalogService {
	return &CatalogService{repo: repo}
}

func (s *CatalogService) GetServices(ctx context.Context, p ListParams) ([]*Service, int, error) {
	if p.SortBy == "" {
		p.SortBy = "name"
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

func (s *CatalogService) GetService(ctx context.Context, id string) (*Service, error) {
	return s.repo.GetByID(ctx, id)
}

// GetAnalytics computes per-service performance. revenue_per_minute is
// (revenue / count) / duration at 2 decimal places, 0-guarded.
func (s *CatalogService) GetAnalytics(ctx context.Context) ([]Analytics, error) {
	rows, err := s.repo.AnalyticsRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("service analytics: %w", err)
	}
	items := make([]Analytics, 0, len(rows))
	for _, r := range rows {
		var perMinute float64
		if r.Count > 0 && r.Duration > 0 {
			perMinute = math.Round(float64(r.Revenue)/float64(r.Count)/float64(r.Duration)*100) / 100
		}
		items = append(items, Analytics{
			Name:             r.Name,
			Count:            r.Count,
			Revenue:          r.Revenue,
			Duration:         r.Duration,
			RevenuePerMinute: perMinute,
		})
	}
	return items, nil
}
