package admin

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

type mockRepo struct {
	patients     []PatientInput
	providers    []ProviderInput
	services     []ServiceInput
	appointments []AppointmentInput
	bookings     []BookingInput
	payments     []PaymentInput
	err          error
}

func (m *mockRepo) UpsertPatients(_ context.Context, rows []PatientInput) error {
	m.patients = append(m.patients, rows...)
	return m.err
}

func (m *mockRepo) UpsertProviders(_ context.Context, rows []ProviderInput) error {
	m.providers = append(m.providers, rows...)
	return m.err
}

func (m *mockRepo) UpsertServices(_ context.Context, rows []ServiceInput) error {
	m.services = append(m.services, rows...)
	return m.err
}

func (m *mockRepo) UpsertAppointments(_ context.Context, rows []AppointmentInput) error {
	m.appointments = append(m.appointments, rows...)
	return m.err
}

func (m *mockRepo) InsertBookings(_ context.Context, rows []BookingInput) error {
	m.bookings = append(m.bookings, rows...)
	return m.err
}

func (m *mockRepo) UpsertPayments(_ context.Context, rows []PaymentInput) error {
	m.payments = append(m.payments, rows...)
	return m.err
}

func TestImportPatients(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo)

	raw := []byte(`[{"id":"p1","first_name":"Jane","last_name":"Doe"},
		{"id":"p2","first_name":"Amy","last_name":"Lee","source":"google"}]`)
	res, err := svc.Import(context.Background(), "patients", raw)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.Count != 2 || res.Type != "patients" || res.Status != "success" {
		t.Errorf("result = %+v", res)
	}
	if len(repo.patients) != 2 || repo.patients[1].ID != "p2" {
		t.Errorf("patients = %+v", repo.patients)
	}
	if repo.patients[1].Source == nil || *repo.patients[1].Source != "google" {
		t.Errorf("source not decoded: %+v", repo.patients[1])
	}
}

func TestImportUnknownType(t *testing.T) {
	svc := NewService(&mockRepo{})
	_, err := svc.Import(context.Background(), "invoices", []byte(`[]`))
	if !errors.Is(err, ErrUnknownType) {
		t.Fatalf("err = %v, want ErrUnknownType", err)
	}
}

func TestImportRejectsNonArray(t *testing.T) {
	svc := NewService(&mockRepo{})
	_, err := svc.Import(context.Background(), "patients", []byte(`{"id":"p1"}`))
	if !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("err = %v, want ErrInvalidPayload", err)
	}
}

func TestSeedLoadsDatasetInOrder(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo)

	res, err := svc.Seed(context.Background(), SeedConfig{
		PatientCount: 20, ProviderCount: 3, AppointmentsPerPatient: 3, Seed: 42,
	})
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if res.Patients != 20 || res.Providers != 3 || res.Services != len(spaServices) {
		t.Errorf("result = %+v", res)
	}
	if res.Appointments != len(repo.appointments) || res.Bookings != len(repo.bookings) {
		t.Errorf("counts diverge from repo: %+v", res)
	}
}

func TestGeneratorIsDeterministic(t *testing.T) {
	cfg := SeedConfig{PatientCount: 10, ProviderCount: 2, AppointmentsPerPatient: 2, Seed: 7}
	a := NewGenerator(cfg.Seed).Generate(cfg)
	b := NewGenerator(cfg.Seed).Generate(cfg)

	if len(a.Appointments) != len(b.Appointments) || len(a.Payments) != len(b.Payments) {
		t.Fatalf("dataset shapes differ: %d/%d vs %d/%d",
			len(a.Appointments), len(a.Payments), len(b.Appointments), len(b.Payments))
	}
	if a.Patients[0].ID != b.Patients[0].ID || a.Patients[0].FirstName != b.Patients[0].FirstName {
		t.Errorf("first patient differs: %+v vs %+v", a.Patients[0], b.Patients[0])
	}
}

func TestGeneratorReferentialIntegrity(t *testing.T) {
	cfg := SeedConfig{PatientCount: 15, ProviderCount: 3, AppointmentsPerPatient: 4, Seed: 99}
	ds := NewGenerator(cfg.Seed).Generate(cfg)

	patients := map[string]bool{}
	for _, p := range ds.Patients {
		patients[p.ID] = true
	}
	appointments := map[string]bool{}
	for _, a := range ds.Appointments {
		if !patients[a.PatientID] {
			t.Fatalf("appointment %s references unknown patient %s", a.ID, a.PatientID)
		}
		appointments[a.ID] = true
	}
	for _, b := range ds.Bookings {
		if !appointments[b.AppointmentID] {
			t.Fatalf("booking references unknown appointment %s", b.AppointmentID)
		}
		if b.End == nil || !b.End.After(b.Start) {
			t.Fatalf("booking window invalid: %+v", b)
		}
	}
	for _, p := range ds.Payments {
		if !patients[p.PatientID] {
			t.Fatalf("payment %s references unknown patient %s", p.ID, p.PatientID)
		}
	}
}

func TestGeneratorStaysInsideEnums(t *testing.T) {
	apptStatus := map[string]bool{"pending": true, "confirmed": true, "cancelled": true}
	payStatus := map[string]bool{"pending": true, "paid": true, "failed": true}
	payMethod := map[string]bool{"cash": true, "credit_card": true, "debit_card": true, "check": true}

	cfg := SeedConfig{PatientCount: 40, ProviderCount: 4, AppointmentsPerPatient: 5, Seed: 3}
	ds := NewGenerator(cfg.Seed).Generate(cfg)

	for _, a := range ds.Appointments {
		if !apptStatus[a.Status] {
			t.Fatalf("appointment %s has status %q outside {pending, confirmed, cancelled}", a.ID, a.Status)
		}
	}
	if len(ds.Payments) == 0 {
		t.Fatal("expected generated payments")
	}
	for _, p := range ds.Payments {
		if !payStatus[p.Status] {
			t.Fatalf("payment %s has status %q outside {pending, paid, failed}", p.ID, p.Status)
		}
		if p.Method == nil || !payMethod[*p.Method] {
			t.Fatalf("payment %s has method %v outside {cash, credit_card, debit_card, check}", p.ID, p.Method)
		}
	}
}

func TestHandlerImportDependencyMessage(t *testing.T) {
	repo := &mockRepo{err: ErrMissingDependency}
	h := NewHandler(NewService(repo))

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/admin/import/payments",
		strings.NewReader(`[{"id":"pay1","patient_id":"ghost","amount":100,"date":"2025-01-01T00:00:00Z","status":"paid"}]`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("type")
	c.SetParamValues("payments")

	err := h.Import(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("err = %v, want 400", err)
	}
	msg, _ := httpErr.Message.(string)
	if !strings.Contains(msg, "patients -> providers") {
		t.Errorf("message should state import order, got %q", msg)
	}
}
