package provider

import "time"

// Provider maps to the providers table.
type Provider struct {
	ID          string    `db:"id" json:"id"`
	FirstName   string    `db:"first_name" json:"first_name"`
	LastName    string    `db:"last_name" json:"last_name"`
	Email       *string   `db:"email" json:"email,omitempty"`
	Phone       *string   `db:"phone" json:"phone,omitempty"`
	CreatedDate time.Time `db:"created_date" json:"created_date"`
}

// Analytics is one provider's performance line. total_revenue and
// average_ticket are in cents; average_ticket carries 2 decimal places.
type Analytics struct {
	ProviderName   string  `json:"provider_name"`
	TotalServices  int     `json:"total_services"`
	TotalRevenue   int64   `json:"total_revenue"`
	UniquePatients int     `json:"unique_patients"`
	AverageTicket  float64 `json:"average_ticket"`
}

// OfferedService is a distinct service this provider has performed.
type OfferedService struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Price       int64   `json:"price"`
	Duration    int     `json:"duration"`
}

// Details is the provider profile with workload stats.
type Details struct {
	Provider
	AveragePatientsPerDay float64          `json:"average_patients_per_day"`
	Services              []OfferedService `json:"services"`
}
