package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

// importErr translates foreign-key violations into ErrMissingDependency so
// the handler can tell the caller to import referenced entities first.
func importErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return fmt.Errorf("%w: %s", ErrMissingDependency, pgErr.Detail)
	}
	return err
}

func (r *repoPG) UpsertPatients(ctx context.Context, rows []PatientInput) error {
	for _, row := range rows {
		_, err := r.pool.Exec(ctx, `
			INSERT INTO patients (id, first_name, last_name, date_of_birth, gender,
			                      address, phone, email, source, created_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, COALESCE($10, now()))
			ON CONFLICT (id) DO UPDATE SET
				first_name = EXCLUDED.first_name,
				last_name  = EXCLUDED.last_name,
				phone      = COALESCE(EXCLUDED.phone, patients.phone),
				email      = COALESCE(EXCLUDED.email, patients.email)`,
			row.ID, row.FirstName, row.LastName, row.DateOfBirth, row.Gender,
			row.Address, row.Phone, row.Email, row.Source, row.CreatedDate)
		if err != nil {
			return importErr(err)
		}
	}
	return nil
}

func (r *repoPG) UpsertProviders(ctx context.Context, rows []ProviderInput) error {
	for _, row := range rows {
		_, err := r.pool.Exec(ctx, `
			INSERT INTO providers (id, first_name, last_name, email, phone, created_date)
			VALUES ($1, $2, $3, $4, $5, COALESCE($6, now()))
			ON CONFLICT (id) DO UPDATE SET
				first_name = EXCLUDED.first_name,
				last_name  = EXCLUDED.last_name,
				email      = COALESCE(EXCLUDED.email, providers.email),
				phone      = COALESCE(EXCLUDED.phone, providers.phone)`,
			row.ID, row.FirstName, row.LastName, row.Email, row.Phone, row.CreatedDate)
		if err != nil {
			return importErr(err)
		}
	}
	return nil
}

func (r *repoPG) UpsertServices(ctx context.Context, rows []ServiceInput) error {
	for _, row := range rows {
		_, err := r.pool.Exec(ctx, `
			INSERT INTO services (id, name, description, price, duration, created_date)
			VALUES ($1, $2, $3, $4, $5, COALESCE($6, now()))
			ON CONFLICT (id) DO UPDATE SET
				name     = EXCLUDED.name,
				price    = EXCLUDED.price,
				duration = EXCLUDED.duration`,
			row.ID, row.Name, row.Description, row.Price, row.Duration, row.CreatedDate)
		if err != nil {
			return importErr(err)
		}
	}
	return nil
}

func (r *repoPG) UpsertAppointments(ctx context.Context, rows []AppointmentInput) error {
	for _, row := range rows {
		_, err := r.pool.Exec(ctx, `
			INSERT INTO appointments (id, patient_id, status, created_date)
			VALUES ($1, $2, $3, COALESCE($4, now()))
			ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status`,
			row.ID, row.PatientID, row.Status, row.CreatedDate)
		if err != nil {
			return importErr(err)
		}
	}
	return nil
}

// InsertBookings appends rows: the link table has a generated id, so there
// is no stable key to upsert on.
func (r *repoPG) InsertBookings(ctx context.Context, rows []BookingInput) error {
	for _, row := range rows {
		_, err := r.pool.Exec(ctx, `
			INSERT INTO appointment_services (appointment_id, service_id, provider_id, start_time, end_time)
			VALUES ($1, $2, $3, $4, $5)`,
			row.AppointmentID, row.ServiceID, row.ProviderID, row.Start, row.End)
		if err != nil {
			return importErr(err)
		}
	}
	return nil
}

func (r *repoPG) UpsertPayments(ctx context.Context, rows []PaymentInput) error {
	for _, row := range rows {
		_, err := r.pool.Exec(ctx, `
			INSERT INTO payments (id, patient_id, amount, date, method, status,
			                      provider_id, appointment_id, service_id, created_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, COALESCE($10, now()))
			ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status`,
			row.ID, row.PatientID, row.Amount, row.Date, row.Method, row.Status,
			row.ProviderID, row.AppointmentID, row.ServiceID, row.CreatedDate)
		if err != nil {
			return importErr(err)
		}
	}
	return nil
}
