package patient

import (
	"context"
	"fmt"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetPatients validates the sort token against the allowed set and lists
// matching patients. Unknown sort keys are rejected, not defaulted.
func (s *Service) GetPatients(ctx context.Context, p ListParams) ([]*Patient, int, error) {
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

// GetPatient returns a patient with their appointment history.
func (s *Service) GetPatient(ctx context.Context, id string) (*Detail, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	appts, err := s.repo.AppointmentSummaries(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("appointment summaries: %w", err)
	}
	if appts == nil {
		appts = []AppointmentSummary{}
	}
	return &Detail{Patient: *p, Appointments: appts}, nil
}
