package appointment

import (
	"context"
	"errors"
	"fmt"
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

// SortColumns maps sort tokens to ORDER BY expressions over the list query.
var SortColumns = map[string]string{
	"start_time":   "st.min_start",
	"status":       "a.status",
	"patient_name": "p.last_name",
	"created_date": "a.created_date",
}

const listFrom = `
	FROM appointments a
	JOIN patients p ON a.patient_id = p.id
	LEFT JOIN (
		SELECT appointment_id, MIN(start_time) AS min_start
		FROM appointment_services
		GROUP BY appointment_id
	) st ON st.appointment_id = a.id`

func (r *repoPG) List(ctx context.Context, p ListParams, dayStart, dayEnd time.Time) ([]Record, int, error) {
	where := ""
	var args []interface{}
	if p.Search != "" {
		args = append(args, "%"+p.Search+"%")
		where += fmt.Sprintf(` AND (p.first_name ILIKE $%d OR p.last_name ILIKE $%d
			OR concat(p.first_name, ' ', p.last_name) ILIKE $%d OR a.id ILIKE $%d)`,
			len(args), len(args), len(args), len(args))
	}
	if p.TodayOnly {
		args = append(args, dayStart, dayEnd)
		where += fmt.Sprintf(` AND a.id IN (
			SELECT DISTINCT appointment_id FROM appointment_services
			WHERE start_time >= $%d AND start_time < $%d)`, len(args)-1, len(args))
	}
	if where != "" {
		where = " WHERE" + where[4:]
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*)`+listFrom+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	col, ok := SortColumns[p.SortBy]
	if !ok {
		return nil, 0, fmt.Errorf("%w: %s", ErrInvalidSort, p.SortBy)
	}
	dir := "ASC"
	if p.SortOrder == "desc" {
		dir = "DESC"
	}
	sql := fmt.Sprintf(`SELECT a.id, a.patient_id, a.status, a.created_date,
		concat(p.first_name, ' ', p.last_name) AS patient_name%s%s
		ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		listFrom, where, col, dir, len(args)+1, len(args)+2)
	args = append(args, p.Limit, p.Offset)

	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.PatientID, &rec.Status, &rec.CreatedDate, &rec.PatientName); err != nil {
			return nil, 0, err
		}
		items = append(items, rec)
	}
	return items, total, rows.Err()
}

func (r *repoPG) GetByID(ctx context.Context, id string) (*Record, error) {
	var rec Record
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT a.id, a.patient_id, a.status, a.created_date,
		       concat(p.first_name, ' ', p.last_name)
		FROM appointments a
		JOIN patients p ON a.patient_id = p.id
		WHERE a.id = $1`, id).
		Scan(&rec.ID, &rec.PatientID, &rec.Status, &rec.CreatedDate, &rec.PatientName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repoPG) BookingsFor(ctx context.Context, appointmentIDs []string) (map[string][]BookingDetail, error) {
	if len(appointmentIDs) == 0 {
		return map[string][]BookingDetail{}, nil
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT b.id, b.appointment_id, b.service_id, s.name, s.price,
		       b.provider_id, concat(pr.first_name, ' ', pr.last_name),
		       b.start_time, b.end_time
		FROM appointment_services b
		JOIN services s ON b.service_id = s.id
		JOIN providers pr ON b.provider_id = pr.id
		WHERE b.appointment_id = ANY($1)
		ORDER BY b.start_time`, appointmentIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string][]BookingDetail)
	for rows.Next() {
		var b BookingDetail
		if err := rows.Scan(&b.ID, &b.AppointmentID, &b.ServiceID, &b.ServiceName, &b.Price,
			&b.ProviderID, &b.ProviderName, &b.Start, &b.End); err != nil {
			return nil, err
		}
		out[b.AppointmentID] = append(out[b.AppointmentID], b)
	}
	return out, rows.Err()
}

func (r *repoPG) PaymentsFor(ctx context.Context, appointmentIDs []string) (map[string][]PaymentRecord, error) {
	if len(appointmentIDs) == 0 {
		return map[string][]PaymentRecord{}, nil
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, appointment_id, service_id, amount, status
		FROM payments
		WHERE appointment_id = ANY($1)`, appointmentIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string][]PaymentRecord)
	for rows.Next() {
		var apptID string
		var p PaymentRecord
		if err := rows.Scan(&p.ID, &apptID, &p.ServiceID, &p.Amount, &p.Status); err != nil {
			return nil, err
		}
		out[apptID] = append(out[apptID], p)
	}
	return out, rows.Err()
}

func (r *repoPG) StatusCounts(ctx context.Context) (map[string]int, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT status, COUNT(*) FROM appointments GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// TodayStatusCounts classifies an appointment as "today" when its earliest
// booking start falls in the window.
func (r *repoPG) TodayStatusCounts(ctx context.Context, dayStart, dayEnd time.Time) (map[string]int, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT a.status, COUNT(*)
		FROM appointments a
		JOIN (
			SELECT appointment_id, MIN(start_time) AS first_start
			FROM appointment_services
			GROUP BY appointment_id
		) f ON f.appointment_id = a.id
		WHERE f.first_start >= $1 AND f.first_start < $2
		GROUP BY a.status`, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func (r *repoPG) TotalServiceRevenue(ctx context.Context) (int64, error) {
	var total int64
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COALESCE(SUM(s.price), 0)
		FROM appointment_services b
		JOIN services s ON b.service_id = s.id`).Scan(&total)
	return total, err
}

func (r *repoPG) AvgBookingDurationMinutes(ctx context.Context) (float64, error) {
	var avg *float64
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT AVG(EXTRACT(EPOCH FROM (end_time - start_time)) / 60)
		FROM appointment_services
		WHERE end_time IS NOT NULL`).Scan(&avg)
	if err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

func (r *repoPG) BookingWeekdayCounts(ctx context.Context) (map[string]int, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT trim(to_char(start_time, 'Day')), COUNT(*)
		FROM appointment_services
		WHERE end_time IS NOT NULL
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
