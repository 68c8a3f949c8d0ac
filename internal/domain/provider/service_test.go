package provider

import (
	"context"
	"errors"
	"testing"
)

type mockRepo struct {
	providers []*Provider
	rows      []AnalyticsRow
	offered   map[string][]OfferedService
	avgPerDay map[string]float64
}

func (m *mockRepo) List(_ context.Context, p ListParams) ([]*Provider, int, error) {
	return m.providers, len(m.providers), nil
}

func (m *mockRepo) GetByID(_ context.Context, id string) (*Provider, error) {
	for _, p := range m.providers {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) AnalyticsRows(context.Context) ([]AnalyticsRow, error) { return m.rows, nil }

func (m *mockRepo) OfferedServices(_ context.Context, id string) ([]OfferedService, error) {
	return m.offered[id], nil
}

func (m *mockRepo) AvgPatientsPerDay(_ context.Context, id string) (float64, error) {
	return m.avgPerDay[id], nil
}

func TestGetAnalyticsAverageTicket(t *testing.T) {
	repo := &mockRepo{rows: []AnalyticsRow{
		{FirstName: "Dana", LastName: "Reyes", TotalServices: 2, RevenueCents: 30000, UniquePatients: 2},
		{FirstName: "Idle", LastName: "Person", TotalServices: 0, RevenueCents: 0},
	}}
	svc := NewService(repo)

	items, err := svc.GetAnalytics(context.Background())
	if err != nil {
		t.Fatalf("GetAnalytics: %v", err)
	}
	if items[0].ProviderName != "Dana Reyes" {
		t.Errorf("name = %q", items[0].ProviderName)
	}
	if items[0].AverageTicket != 15000.00 {
		t.Errorf("average_ticket = %v, want 15000.00", items[0].AverageTicket)
	}
	if items[0].TotalServices != 2 {
		t.Errorf("total_services = %d, want 2", items[0].TotalServices)
	}
	if items[1].AverageTicket != 0 {
		t.Errorf("zero-booking ticket = %v, want 0", items[1].AverageTicket)
	}
}

func TestGetDetailsRoundsAverage(t *testing.T) {
	repo := &mockRepo{
		providers: []*Provider{{ID: "pr1", FirstName: "Dana", LastName: "Reyes"}},
		avgPerDay: map[string]float64{"pr1": 2.349},
		offered: map[string][]OfferedService{
			"pr1": {{ID: "s1", Name: "Facial", Price: 12000, Duration: 45}},
		},
	}
	svc := NewService(repo)

	d, err := svc.GetDetails(context.Background(), "pr1")
	if err != nil {
		t.Fatalf("GetDetails: %v", err)
	}
	if d.AveragePatientsPerDay != 2.3 {
		t.Errorf("average_patients_per_day = %v, want 2.3", d.AveragePatientsPerDay)
	}
	if len(d.Services) != 1 || d.Services[0].Name != "Facial" {
		t.Errorf("services = %+v", d.Services)
	}
}

func TestGetDetailsNotFound(t *testing.T) {
	svc := NewService(&mockRepo{})
	if _, err := svc.GetDetails(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetProvidersRejectsUnknownSort(t *testing.T) {
	svc := NewService(&mockRepo{})
	if _, _, err := svc.GetProviders(context.Background(), ListParams{SortBy: "specialty"}); !errors.Is(err, ErrInvalidSort) {
		t.Fatalf("expected ErrInvalidSort, got %v", err)
	}
}
