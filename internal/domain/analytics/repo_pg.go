package analytics

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(context.Context) queryable { return r.pool }

func (r *repoPG) TotalRevenue(ctx context.Context) (int64, error) {
	var total int64
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE status = 'paid'`).Scan(&total)
	return total, err
}

func (r *repoPG) TotalPatients(ctx context.Context) (int, error) {
	var total int
	err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM patients`).Scan(&total)
	return total, err
}

func (r *repoPG) TotalAppointments(ctx context.Context) (int, error) {
	var total int
	err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM appointments`).Scan(&total)
	return total, err
}

func (r *repoPG) labelCounts(ctx context.Context, sql string, args ...interface{}) ([]LabelCount, error) {
	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []LabelCount
	for rows.Next() {
		var lc LabelCount
		if err := rows.Scan(&lc.Label, &lc.Count); err != nil {
			return nil, err
		}
		items = append(items, lc)
	}
	return items, rows.Err()
}

func (r *repoPG) PatientsBySource(ctx context.Context) ([]LabelCount, error) {
	return r.labelCounts(ctx,
		`SELECT source, COUNT(id) FROM patients GROUP BY source`)
}

func (r *repoPG) PatientsByGender(ctx context.Context) ([]LabelCount, error) {
	return r.labelCounts(ctx,
		`SELECT gender, COUNT(id) FROM patients GROUP BY gender`)
}

func (r *repoPG) TopServices(ctx context.Context, limit int) ([]LabelCount, error) {
	return r.labelCounts(ctx, `
		SELECT s.name, COUNT(b.service_id) AS cnt
		FROM services s
		JOIN appointment_services b ON s.id = b.service_id
		GROUP BY s.name
		ORDER BY cnt DESC
		LIMIT $1`, limit)
}

func (r *repoPG) AppointmentsByStatus(ctx context.Context) ([]LabelCount, error) {
	return r.labelCounts(ctx,
		`SELECT status, COUNT(id) FROM appointments GROUP BY status`)
}

func (r *repoPG) MonthlyRevenue(ctx context.Context) ([]MonthRevenue, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT to_char(date, 'YYYY-MM') AS month, COALESCE(SUM(amount), 0)
		FROM payments
		WHERE status = 'paid'
		GROUP BY month
		ORDER BY month DESC
		LIMIT 12`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []MonthRevenue
	for rows.Next() {
		var m MonthRevenue
		if err := rows.Scan(&m.Month, &m.Cents); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

func (r *repoPG) PatientAges(ctx context.Context) ([]int, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT EXTRACT(YEAR FROM age(date_of_birth))::int
		FROM patients
		WHERE date_of_birth IS NOT NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ages []int
	for rows.Next() {
		var a int
		if err := rows.Scan(&a); err != nil {
			return nil, err
		}
		ages = append(ages, a)
	}
	return ages, rows.Err()
}

func (r *repoPG) BookingWeekdayCounts(ctx context.Context) (map[string]int, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT trim(to_char(b.start_time, 'Day')), COUNT(b.appointment_id)
		FROM appointment_services b
		JOIN appointments a ON b.appointment_id = a.id
		GROUP BY 1`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[string]int)
	for rows.Next() {
		var day string
		var n int
		if err := rows.Scan(&day, &n); err != nil {
			return nil, err
		}
		counts[day] = n
	}
	return counts, rows.Err()
}

func (r *repoPG) ProviderRevenue(ctx context.Context) ([]ProviderCents, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT concat(pr.first_name, ' ', pr.last_name) AS provider_name,
		       COALESCE(SUM(p.amount), 0) AS total
		FROM payments p
		JOIN providers pr ON p.provider_id = pr.id
		WHERE p.status = 'paid'
		GROUP BY provider_name
		ORDER BY total DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ProviderCents
	for rows.Next() {
		var pc ProviderCents
		if err := rows.Scan(&pc.Name, &pc.Cents); err != nil {
			return nil, err
		}
		items = append(items, pc)
	}
	return items, rows.Err()
}

func (r *repoPG) ProviderServiceCounts(ctx context.Context) ([]LabelCount, error) {
	return r.labelCounts(ctx, `
		SELECT concat(pr.first_name, ' ', pr.last_name) AS provider_name,
		       COUNT(b.id) AS cnt
		FROM appointment_services b
		JOIN providers pr ON b.provider_id = pr.id
		GROUP BY provider_name
		ORDER BY cnt DESC`)
}

func (r *repoPG) TopPatients(ctx context.Context, limit int) ([]TopPatientRow, error) {
	// Spend is the service-price sum across non-cancelled appointments.
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT p.id,
		       concat(p.first_name, ' ', p.last_name),
		       COALESCE(SUM(s.price), 0) AS spent,
		       COUNT(DISTINCT a.id) AS visits,
		       MAX(b.start_time) AS last_visit
		FROM patients p
		JOIN appointments a ON a.patient_id = p.id AND a.status <> 'cancelled'
		JOIN appointment_services b ON b.appointment_id = a.id
		JOIN services s ON s.id = b.service_id
		GROUP BY p.id, p.first_name, p.last_name
		ORDER BY spent DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TopPatientRow
	for rows.Next() {
		var t TopPatientRow
		if err := rows.Scan(&t.ID, &t.Name, &t.SpentCents, &t.VisitCount, &t.LastVisit); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

func (r *repoPG) RetentionCandidates(ctx context.Context, cutoff time.Time) ([]RetentionCandidate, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT p.id,
		       concat(p.first_name, ' ', p.last_name),
		       MAX(b.start_time) AS last_visit,
		       COALESCE(p.phone, ''),
		       COALESCE(p.email, '')
		FROM patients p
		JOIN appointments a ON a.patient_id = p.id
		JOIN appointment_services b ON b.appointment_id = a.id
		GROUP BY p.id, p.first_name, p.last_name, p.phone, p.email
		HAVING COUNT(DISTINCT a.id) >= 2 AND MAX(b.start_time) < $1`, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []RetentionCandidate
	for rows.Next() {
		var c RetentionCandidate
		if err := rows.Scan(&c.ID, &c.Name, &c.LastVisit, &c.Phone, &c.Email); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func (r *repoPG) FutureBookingCount(ctx context.Context, patientID string, after time.Time) (int, error) {
	var n int
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*)
		FROM appointment_services b
		JOIN appointments a ON b.appointment_id = a.id
		WHERE a.patient_id = $1 AND a.status <> 'cancelled' AND b.start_time > $2`,
		patientID, after).Scan(&n)
	return n, err
}
