package rental

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	// CreateActive inserts a new active rental and marks its vehicle as
	// rented in a single transaction.
	CreateActive(ctx context.Context, r *Rental) error

	GetByID(ctx context.Context, id int64) (*Rental, error)
	List(ctx context.Context, filter Filter) ([]*Rental, int, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*Rental, error)

	// Finish moves an active rental to a terminal status, writing the
	// rental's current EndTime/TotalCostCents/Status. When releaseIfIdle is
	// set and the vehicle has no other active rental afterwards, the
	// vehicle returns to available in the same transaction. Returns false
	// if the rental was not active anymore (race lost or already terminal).
	Finish(ctx context.Context, r *Rental, releaseIfIdle bool) (bool, error)

	// ExtendActive updates end time and total cost of a rental, guarded on
	// it still being active. Returns false if it was not.
	ExtendActive(ctx context.Context, id int64, newEnd time.Time, newTotalCents int64) (bool, error)

	// HasOverlap checks whether any active rental of the vehicle overlaps
	// the half-open [start, end) interval. excludeRentalID is used when
	// checking an extension of the rental itself.
	HasOverlap(ctx context.Context, vehicleID int64, start, end time.Time, excludeRentalID int64) (bool, error)

	// HasActiveForVehicle reports whether the vehicle is referenced by any
	// active rental. Used by the vehicle registry's deletion guard.
	HasActiveForVehicle(ctx context.Context, vehicleID int64) (bool, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) CreateActive(ctx context.Context, rent *Rental) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create rental tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.rentals").
		Columns("customer_id", "vehicle_id", "start_time", "end_time", "total_cost_cents", "status").
		Values(rent.CustomerID, rent.VehicleID, rent.StartTime, rent.EndTime, rent.TotalCostCents, rent.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create rental query failed: %w", err)
	}

	if err := tx.QueryRow(ctx, query, args...).Scan(&rent.ID, &rent.CreatedAt, &rent.UpdatedAt); err != nil {
		return fmt.Errorf("create rental failed: %w", err)
	}

	const vehicleQuery = `
		UPDATE public.vehicles
		SET status = 'rented', available = false, updated_at = now()
		WHERE id = $1
	`
	if _, err := tx.Exec(ctx, vehicleQuery, rent.VehicleID); err != nil {
		return fmt.Errorf("mark vehicle rented failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create rental tx failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*Rental, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"id", "customer_id", "vehicle_id", "start_time", "end_time",
		"total_cost_cents", "status", "created_at", "updated_at",
	).
		From("public.rentals").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get rental query failed: %w", err)
	}

	row := r.pool.QueryRow(ctx, query, args...)

	var rent Rental
	if err := row.Scan(
		&rent.ID, &rent.CustomerID, &rent.VehicleID, &rent.StartTime, &rent.EndTime,
		&rent.TotalCostCents, &rent.Status, &rent.CreatedAt, &rent.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get rental failed: %w", err)
	}
	return &rent, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Rental, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"id", "customer_id", "vehicle_id", "start_time", "end_time",
		"total_cost_cents", "status", "created_at", "updated_at",
		"count(*) OVER() as total_count",
	).From("public.rentals")

	if filter.CustomerID != "" {
		query = query.Where(squirrel.Eq{"customer_id": filter.CustomerID})
	}
	if filter.VehicleID != 0 {
		query = query.Where(squirrel.Eq{"vehicle_id": filter.VehicleID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.StartDate != nil {
		query = query.Where(squirrel.GtOrEq{"start_time": filter.StartDate})
	}
	if filter.EndDate != nil {
		query = query.Where(squirrel.LtOrEq{"end_time": filter.EndDate})
	}

	query = query.OrderBy("start_time DESC")

	// Pagination
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list rentals query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list rentals failed: %w", err)
	}
	defer rows.Close()

	var rentals []*Rental
	var total int

	for rows.Next() {
		var rent Rental
		if err := rows.Scan(
			&rent.ID, &rent.CustomerID, &rent.VehicleID, &rent.StartTime, &rent.EndTime,
			&rent.TotalCostCents, &rent.Status, &rent.CreatedAt, &rent.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan rental failed: %w", err)
		}
		rentals = append(rentals, &rent)
	}

	return rentals, total, nil
}

func (r *pgxRepository) ListByCustomer(ctx context.Context, customerID string) ([]*Rental, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sql, args, err := psql.Select(
		"id", "customer_id", "vehicle_id", "start_time", "end_time",
		"total_cost_cents", "status", "created_at", "updated_at",
	).
		From("public.rentals").
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("start_time DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list customer rentals query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list customer rentals failed: %w", err)
	}
	defer rows.Close()

	var rentals []*Rental
	for rows.Next() {
		var rent Rental
		if err := rows.Scan(
			&rent.ID, &rent.CustomerID, &rent.VehicleID, &rent.StartTime, &rent.EndTime,
			&rent.TotalCostCents, &rent.Status, &rent.CreatedAt, &rent.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan rental failed: %w", err)
		}
		rentals = append(rentals, &rent)
	}

	return rentals, nil
}

func (r *pgxRepository) Finish(ctx context.Context, rent *Rental, releaseIfIdle bool) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin finish rental tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	const query = `
		UPDATE public.rentals
		SET status = $1, end_time = $2, total_cost_cents = $3, updated_at = now()
		WHERE id = $4 AND status = 'active'
	`
	ct, err := tx.Exec(ctx, query, rent.Status, rent.EndTime, rent.TotalCostCents, rent.ID)
	if err != nil {
		return false, fmt.Errorf("finish rental failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return false, nil
	}

	if releaseIfIdle {
		var stillBusy bool
		const busyQuery = `
			SELECT EXISTS (
				SELECT 1 FROM public.rentals
				WHERE vehicle_id = $1 AND status = 'active'
			)
		`
		if err := tx.QueryRow(ctx, busyQuery, rent.VehicleID).Scan(&stillBusy); err != nil {
			return false, fmt.Errorf("check remaining rentals failed: %w", err)
		}

		if !stillBusy {
			// Guarded on status so a vehicle pulled into maintenance while
			// rented is not resurrected to available here.
			const releaseQuery = `
				UPDATE public.vehicles
				SET status = 'available', available = true, updated_at = now()
				WHERE id = $1 AND status = 'rented'
			`
			if _, err := tx.Exec(ctx, releaseQuery, rent.VehicleID); err != nil {
				return false, fmt.Errorf("release vehicle failed: %w", err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit finish rental tx failed: %w", err)
	}
	return true, nil
}

func (r *pgxRepository) ExtendActive(ctx context.Context, id int64, newEnd time.Time, newTotalCents int64) (bool, error) {
	const query = `
		UPDATE public.rentals
		SET end_time = $1, total_cost_cents = $2, updated_at = now()
		WHERE id = $3 AND status = 'active'
	`
	ct, err := r.pool.Exec(ctx, query, newEnd, newTotalCents, id)
	if err != nil {
		return false, fmt.Errorf("extend rental failed: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

func (r *pgxRepository) HasOverlap(ctx context.Context, vehicleID int64, start, end time.Time, excludeRentalID int64) (bool, error) {
	// Half-open interval test: strict inequalities, so a rental ending
	// exactly when another starts does not conflict.
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	subQuery := psql.Select("1").
		From("public.rentals").
		Where(squirrel.Eq{"vehicle_id": vehicleID}).
		Where(squirrel.Eq{"status": StatusActive}).
		Where(squirrel.Lt{"start_time": end}).
		Where(squirrel.Gt{"end_time": start})

	if excludeRentalID != 0 {
		subQuery = subQuery.Where(squirrel.NotEq{"id": excludeRentalID})
	}

	sql, args, err := subQuery.ToSql()
	if err != nil {
		return false, fmt.Errorf("build check overlap query failed: %w", err)
	}

	query := "SELECT EXISTS (" + sql + ")"

	var exists bool
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check overlap failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) HasActiveForVehicle(ctx context.Context, vehicleID int64) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM public.rentals
			WHERE vehicle_id = $1 AND status = 'active'
		)
	`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, vehicleID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check active rentals failed: %w", err)
	}
	return exists, nil
}
