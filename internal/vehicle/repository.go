package vehicle

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, v *Vehicle) error
	GetByID(ctx context.Context, id int64) (*Vehicle, error)
	List(ctx context.Context, filter Filter) ([]*Vehicle, int, error)
	Update(ctx context.Context, v *Vehicle) error
	Delete(ctx context.Context, id int64) error
	UpdateStatus(ctx context.Context, id int64, status Status) error
	SetImageURI(ctx context.Context, id int64, uri string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, v *Vehicle) error {
	const query = `
		INSERT INTO public.vehicles
			(model, year, category, hourly_rate_cents, license_plate, description, status, available)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		v.Model, v.Year, v.Category, v.HourlyRateCents, v.LicensePlate, v.Description, v.Status, v.Available,
	).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create vehicle failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*Vehicle, error) {
	const query = `
		SELECT id, model, year, category, hourly_rate_cents, license_plate, description,
		       image_uri, last_maintenance, status, available, created_at, updated_at
		FROM public.vehicles
		WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)

	var v Vehicle
	if err := row.Scan(
		&v.ID, &v.Model, &v.Year, &v.Category, &v.HourlyRateCents, &v.LicensePlate, &v.Description,
		&v.ImageURI, &v.LastMaintenance, &v.Status, &v.Available, &v.CreatedAt, &v.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get vehicle failed: %w", err)
	}
	return &v, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Vehicle, int, error) {
	var args []interface{}
	queryBase := `
		SELECT id, model, year, category, hourly_rate_cents, license_plate, description,
		       image_uri, last_maintenance, status, available, created_at, updated_at,
		       count(*) OVER() as total_count
		FROM public.vehicles
		WHERE 1=1
	`
	paramIndex := 1

	if filter.Category != "" {
		queryBase += fmt.Sprintf(" AND category = $%d", paramIndex)
		args = append(args, filter.Category)
		paramIndex++
	}
	if filter.Status != "" {
		queryBase += fmt.Sprintf(" AND status = $%d", paramIndex)
		args = append(args, filter.Status)
		paramIndex++
	}
	if filter.AvailableOnly {
		queryBase += " AND available = true"
	}

	queryBase += " ORDER BY id ASC"

	// Pagination
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	queryBase += fmt.Sprintf(" LIMIT $%d OFFSET $%d", paramIndex, paramIndex+1)
	args = append(args, filter.PageSize, offset)

	rows, err := r.pool.Query(ctx, queryBase, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list vehicles failed: %w", err)
	}
	defer rows.Close()

	var result []*Vehicle
	var total int

	for rows.Next() {
		var v Vehicle
		if err := rows.Scan(
			&v.ID, &v.Model, &v.Year, &v.Category, &v.HourlyRateCents, &v.LicensePlate, &v.Description,
			&v.ImageURI, &v.LastMaintenance, &v.Status, &v.Available, &v.CreatedAt, &v.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan vehicle failed: %w", err)
		}
		result = append(result, &v)
	}

	return result, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, v *Vehicle) error {
	const query = `
		UPDATE public.vehicles
		SET model = $1, year = $2, hourly_rate_cents = $3, description = $4,
		    last_maintenance = $5, updated_at = now()
		WHERE id = $6
	`
	ct, err := r.pool.Exec(ctx, query,
		v.Model, v.Year, v.HourlyRateCents, v.Description, v.LastMaintenance, v.ID,
	)
	if err != nil {
		return fmt.Errorf("update vehicle failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM public.vehicles WHERE id = $1`
	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete vehicle failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateStatus keeps the available flag in lockstep with status.
func (r *pgxRepository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	const query = `
		UPDATE public.vehicles
		SET status = $1, available = $2, updated_at = now()
		WHERE id = $3
	`
	ct, err := r.pool.Exec(ctx, query, status, status == StatusAvailable, id)
	if err != nil {
		return fmt.Errorf("update vehicle status failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) SetImageURI(ctx context.Context, id int64, uri string) error {
	const query = `
		UPDATE public.vehicles
		SET image_uri = $1, updated_at = now()
		WHERE id = $2
	`
	ct, err := r.pool.Exec(ctx, query, uri, id)
	if err != nil {
		return fmt.Errorf("set vehicle image failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
