package patient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

// -- Mock Repository --

type mockRepo struct {
	patients  []*Patient
	summaries map[string][]AppointmentSummary
	gotParams ListParams
}

func (m *mockRepo) List(_ context.Context, p ListParams) ([]*Patient, int, error) {
	m.gotParams = p
	return m.patients, len(m.patients), nil
}

func (m *mockRepo) GetByID(_ context.Context, id string) (*Patient, error) {
	for _, p := range m.patients {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) AppointmentSummaries(_ context.Context, patientID string) ([]AppointmentSummary, error) {
	return m.summaries[patientID], nil
}

func newTestPatient(id string) *Patient {
	return &Patient{
		ID:          id,
		FirstName:   "Ana",
		LastName:    "Silva",
		CreatedDate: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
	}
}

// -- Service --

func TestGetPatientsDefaultsSort(t *testing.T) {
	repo := &mockRepo{patients: []*Patient{newTestPatient("p1")}}
	svc := NewService(repo)

	_, total, err := svc.GetPatients(context.Background(), ListParams{Limit: 10})
	if err != nil {
		t.Fatalf("GetPatients: %v", err)
	}
	if total != 1 {
		t.Errorf("total = %d, want 1", total)
	}
	if repo.gotParams.SortBy != "first_name" || repo.gotParams.SortOrder != "asc" {
		t.Errorf("defaults = %s/%s, want first_name/asc", repo.gotParams.SortBy, repo.gotParams.SortOrder)
	}
}

func TestGetPatientsRejectsUnknownSortKey(t *testing.T) {
	svc := NewService(&mockRepo{})

	_, _, err := svc.GetPatients(context.Background(), ListParams{SortBy: "dob; drop table"})
	if !errors.Is(err, ErrInvalidSort) {
		t.Fatalf("expected ErrInvalidSort, got %v", err)
	}

	_, _, err = svc.GetPatients(context.Background(), ListParams{SortBy: "first_name", SortOrder: "sideways"})
	if !errors.Is(err, ErrInvalidSort) {
		t.Fatalf("expected ErrInvalidSort for bad order, got %v", err)
	}
}

func TestGetPatientAttachesAppointments(t *testing.T) {
	repo := &mockRepo{
		patients: []*Patient{newTestPatient("p1")},
		summaries: map[string][]AppointmentSummary{
			"p1": {{ID: "a1", Status: "confirmed", ServiceCount: 2, TotalCost: 30000}},
		},
	}
	svc := NewService(repo)

	detail, err := svc.GetPatient(context.Background(), "p1")
	if err != nil {
		t.Fatalf("GetPatient: %v", err)
	}
	if len(detail.Appointments) != 1 {
		t.Fatalf("appointments = %d, want 1", len(detail.Appointments))
	}
	if detail.Appointments[0].TotalCost != 30000 {
		t.Errorf("total_cost = %d, want 30000 cents", detail.Appointments[0].TotalCost)
	}
}

func TestGetPatientNotFound(t *testing.T) {
	svc := NewService(&mockRepo{})

	_, err := svc.GetPatient(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetPatientEmptyHistoryIsEmptySlice(t *testing.T) {
	repo := &mockRepo{patients: []*Patient{newTestPatient("p1")}}
	svc := NewService(repo)

	detail, err := svc.GetPatient(context.Background(), "p1")
	if err != nil {
		t.Fatalf("GetPatient: %v", err)
	}
	if detail.Appointments == nil {
		t.Error("appointments must serialize as [], not null")
	}
}

// -- Handler --

func TestHandlerGetNotFound(t *testing.T) {
	h := NewHandler(NewService(&mockRepo{}))
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/patients/missing", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("missing")

	err := h.Get(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestHandlerListBadSortIs400(t *testing.T) {
	h := NewHandler(NewService(&mockRepo{}))
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/patients?sort_by=nope", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.List(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
	if !strings.Contains(he.Message.(string), "nope") {
		t.Errorf("error should name the bad token, got %v", he.Message)
	}
}

func TestHandlerListResponseShape(t *testing.T) {
	repo := &mockRepo{patients: []*Patient{newTestPatient("p1")}}
	h := NewHandler(NewService(repo))
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/patients?limit=10", nil)
	rec := httptest.NewRecorder()
	if err := h.List(e.NewContext(req, rec)); err != nil {
		t.Fatalf("List: %v", err)
	}
	body := rec.Body.String()
	for _, field := range []string{`"data"`, `"total"`, `"has_more"`} {
		if !strings.Contains(body, field) {
			t.Errorf("response missing %s: %s", field, body)
		}
	}
}
