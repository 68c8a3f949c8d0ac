package catalog

import (
	"context"
	"errors"
	"testing"
)

type mockRepo struct {
	services []*Service
	rows     []AnalyticsRow
}

func (m *mockRepo) List(_ context.Context, p ListParams) ([]*Service, int, error) {
	return m.services, len(m.services), nil
}

func (m *mockRepo) GetByID(_ context.Context, id string) (*Service, error) {
	for _, s := range m.services {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) AnalyticsRows(context.Context) ([]AnalyticsRow, error) { return m.rows, nil }

func TestGetAnalyticsRevenuePerMinute(t *testing.T) {
	repo := &mockRepo{rows: []AnalyticsRow{
		// 24000 cents over 2 bookings at 60 minutes = 200.00 cents/minute.
		{Name: "Massage", Count: 2, Revenue: 24000, Duration: 60},
		{Name: "Consult", Count: 1, Revenue: 5000, Duration: 0},
	}}
	svc := NewCatalogService(repo)

	items, err := svc.GetAnalytics(context.Background())
	if err != nil {
		t.Fatalf("GetAnalytics: %v", err)
	}
	if items[0].RevenuePerMinute != 200.00 {
		t.Errorf("revenue_per_minute = %v, want 200.00", items[0].RevenuePerMinute)
	}
	if items[0].Revenue != 24000 {
		t.Errorf("revenue = %d, want cents 24000", items[0].Revenue)
	}
	if items[1].RevenuePerMinute != 0 {
		t.Errorf("zero-duration service per-minute = %v, want 0", items[1].RevenuePerMinute)
	}
}

func TestGetServicesRejectsUnknownSort(t *testing.T) {
	svc := NewCatalogService(&mockRepo{})
	if _, _, err := svc.GetServices(context.Background(), ListParams{SortBy: "popularity"}); !errors.Is(err, ErrInvalidSort) {
		t.Fatalf("expected ErrInvalidSort, got %v", err)
	}
}

func TestGetServiceNotFound(t *testing.T) {
	svc := NewCatalogService(&mockRepo{})
	if _, err := svc.GetService(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
