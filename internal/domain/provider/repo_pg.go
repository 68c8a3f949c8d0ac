package provider

import (
	"context"
	"errors"
	"fmt"

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

const providerCols = `id, first_name, last_name, email, phone, created_date`

func scanProvider(row pgx.Row) (*Provider, error) {
	var p Provider
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.Phone, &p.CreatedDate)
	return &p, err
}

var SortColumns = map[string]string{
	"first_name":   "first_name",
	"last_name":    "last_name",
	"email":        "email",
	"created_date": "created_date",
}

func (r *repoPG) List(ctx context.Context, p ListParams) ([]*Provider, int, error) {
	where := ""
	var args []interface{}
	if p.Search != "" {
		where = ` WHERE concat(first_name, ' ', last_name) ILIKE $1 OR email ILIKE $1`
		args = append(args, "%"+p.Search+"%")
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM providers`+where, args...).Scan(&total); err != nil {
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
	sql := fmt.Sprintf(`SELECT %s FROM providers%s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		providerCols, where, col, dir, len(args)+1, len(args)+2)
	args = append(args, p.Limit, p.Offset)

	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Provider
	for rows.Next() {
		pr, err := scanProvider(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, pr)
	}
	return items, total, rows.Err()
}

func (r *repoPG) GetByID(ctx context.Context, id string) (*Provider, error) {
	p, err := scanProvider(r.conn(ctx).QueryRow(ctx,
		`SELECT `+providerCols+` FROM providers WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *repoPG) AnalyticsRows(ctx context.Context) ([]AnalyticsRow, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT pr.first_name, pr.last_name,
		       COUNT(b.id) AS total_services,
		       COALESCE(SUM(s.price), 0) AS total_revenue,
		       COUNT(DISTINCT a.patient_id) AS unique_patients
		FROM providers pr
		JOIN appointment_services b ON pr.id = b.provider_id
		JOIN services s ON b.service_id = s.id
		JOIN appointments a ON b.appointment_id = a.id
		GROUP BY pr.id, pr.first_name, pr.last_name
		ORDER BY total_revenue DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []AnalyticsRow
	for rows.Next() {
		var ar AnalyticsRow
		if err := rows.Scan(&ar.FirstName, &ar.LastName, &ar.TotalServices, &ar.RevenueCents, &ar.UniquePatients); err != nil {
			return nil, err
		}
		items = append(items, ar)
	}
	return items, rows.Err()
}

func (r *repoPG) OfferedServices(ctx context.Context, providerID string) ([]OfferedService, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT DISTINCT s.id, s.name, s.description, s.price, s.duration
		FROM services s
		JOIN appointment_services b ON s.id = b.service_id
		WHERE b.provider_id = $1
		ORDER BY s.name`, providerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []OfferedService
	for rows.Next() {
		var os OfferedService
		if err := rows.Scan(&os.ID, &os.Name, &os.Description, &os.Price, &os.Duration); err != nil {
			return nil, err
		}
		items = append(items, os)
	}
	return items, rows.Err()
}

func (r *repoPG) AvgPatientsPerDay(ctx context.Context, providerID string) (float64, error) {
	var avg *float64
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT AVG(daily_patients) FROM (
			SELECT COUNT(DISTINCT a.patient_id) AS daily_patients
			FROM appointments a
			JOIN appointment_services b ON a.id = b.appointment_id
			WHERE b.provider_id = $1
			GROUP BY date(b.start_time)
		) per_day`, providerID).Scan(&avg)
	if err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}
