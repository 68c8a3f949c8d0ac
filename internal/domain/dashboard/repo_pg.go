package dashboard

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medspa/api/internal/domain/appointment"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) TodayAppointments(ctx context.Context, dayStart, dayEnd time.Time) ([]appointment.Record, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT a.id, a.patient_id, a.status, a.created_date,
		       concat(p.first_name, ' ', p.last_name) AS patient_name
		FROM appointments a
		JOIN patients p ON a.patient_id = p.id
		JOIN appointment_services b ON b.appointment_id = a.id
		WHERE b.start_time >= $1 AND b.start_time < $2`, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []appointment.Record
	for rows.Next() {
		var rec appointment.Record
		if err := rows.Scan(&rec.ID, &rec.PatientID, &rec.Status, &rec.CreatedDate, &rec.PatientName); err != nil {
			return nil, err
		}
		items = append(items, rec)
	}
	return items, rows.Err()
}

func (r *repoPG) NewPatientsCount(ctx context.Context, dayStart, dayEnd time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM patients WHERE created_date >= $1 AND created_date < $2`,
		dayStart, dayEnd).Scan(&n)
	return n, err
}

func (r *repoPG) PendingCount(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM appointments WHERE status = 'pending'`).Scan(&n)
	return n, err
}
