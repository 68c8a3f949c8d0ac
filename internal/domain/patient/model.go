package patient

import "time"

// Patient maps to the patients table.
type Patient struct {
	ID          string     `db:"id" json:"id"`
	FirstName   string     `db:"first_name" json:"first_name"`
	LastName    string     `db:"last_name" json:"last_name"`
	DateOfBirth *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Gender      *string    `db:"gender" json:"gender,omitempty"`
	Address     *string    `db:"address" json:"address,omitempty"`
	Phone       *string    `db:"phone" json:"phone,omitempty"`
	Email       *string    `db:"email" json:"email,omitempty"`
	Source      *string    `db:"source" json:"source,omitempty"`
	CreatedDate time.Time  `db:"created_date" json:"created_date"`
}

// AppointmentSummary is the derived per-appointment view attached to a
// patient detail. Costs are integer cents.
type AppointmentSummary struct {
	ID           string    `json:"id"`
	Status       string    `json:"status"`
	CreatedDate  time.Time `json:"created_date"`
	ServiceCount int       `json:"service_count"`
	TotalCost    int64     `json:"total_cost"`
}

// Detail is a patient together with their appointment history.
type Detail struct {
	Patient
	Appointments []AppointmentSummary `json:"appointments"`
}
