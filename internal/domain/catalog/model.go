package catalog

import "time"

// Service maps to the services table. Price is integer cents, duration is
// minutes.
type Service struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	Price       int64     `db:"price" json:"price"`
	Duration    int       `db:"duration" json:"duration"`
	CreatedDate time.Time `db:"created_date" json:"created_date"`
}

// Analytics is one service's performance line. revenue is in cents;
// revenue_per_minute carries 2 decimal places.
type Analytics struct {
	Name             string  `json:"name"`
	Count            int     `json:"count"`
	Revenue          int64   `json:"revenue"`
	Duration         int     `json:"duration"`
	RevenuePerMinute float64 `json:"revenue_per_minute"`
}
