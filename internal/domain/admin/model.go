package admin

import "time"

// Input rows accepted by the import endpoints. IDs come from the source
// system; timestamps default to now when absent.

type PatientInput struct {
	ID          string     `json:"id"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Gender      *string    `json:"gender,omitempty"`
	Address     *string    `json:"address,omitempty"`
	Phone       *string    `json:"phone,omitempty"`
	Email       *string    `json:"email,omitempty"`
	Source      *string    `json:"source,omitempty"`
	CreatedDate *time.Time `json:"created_date,omitempty"`
}

type ProviderInput struct {
	ID          string     `json:"id"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Email       *string    `json:"email,omitempty"`
	Phone       *string    `json:"phone,omitempty"`
	CreatedDate *time.Time `json:"created_date,omitempty"`
}

type ServiceInput struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	Price       int64      `json:"price"`
	Duration    int        `json:"duration"`
	CreatedDate *time.Time `json:"created_date,omitempty"`
}

type AppointmentInput struct {
	ID          string     `json:"id"`
	PatientID   string     `json:"patient_id"`
	Status      string     `json:"status"`
	CreatedDate *time.Time `json:"created_date,omitempty"`
}

type BookingInput struct {
	AppointmentID string     `json:"appointment_id"`
	ServiceID     string     `json:"service_id"`
	ProviderID    string     `json:"provider_id"`
	Start         time.Time  `json:"start"`
	End           *time.Time `json:"end,omitempty"`
}

type PaymentInput struct {
	ID            string     `json:"id"`
	PatientID     string     `json:"patient_id"`
	Amount        int64      `json:"amount"`
	Date          time.Time  `json:"date"`
	Method        *string    `json:"method,omitempty"`
	Status        string     `json:"status"`
	ProviderID    *string    `json:"provider_id,omitempty"`
	AppointmentID *string    `json:"appointment_id,omitempty"`
	ServiceID     *string    `json:"service_id,omitempty"`
	CreatedDate   *time.Time `json:"created_date,omitempty"`
}

// ImportResult reports one completed import call.
type ImportResult struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
	Type   string `json:"type"`
}

// SeedResult summarizes a synthetic dataset load.
type SeedResult struct {
	Patients     int           `json:"patients"`
	Providers    int           `json:"providers"`
	Services     int           `json:"services"`
	Appointments int           `json:"appointments"`
	Bookings     int           `json:"bookings"`
	Payments     int           `json:"payments"`
	Duration     time.Duration `json:"duration"`
}
