package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	// ReplaceWeek swaps the whole week's registry in one transaction: readers
	// see either the old snapshot or the new one, never a partial mix.
	ReplaceWeek(ctx context.Context, weekStart time.Time, rows []Row) error

	Snapshot(ctx context.Context, weekStart time.Time, periodID string) ([]Row, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) ReplaceWeek(ctx context.Context, weekStart time.Time, rows []Row) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin registry rebuild failed: %w", err)
	}
	defer tx.Rollback(ctx)

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("facility_registry").
		Where(squirrel.Eq{"week_start": weekStart}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build registry delete query failed: %w", err)
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("clear registry week failed: %w", err)
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"facility_registry"},
		[]string{"week_start", "period_id", "facility_name", "facility_type", "free", "booked_by"},
		pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			row := rows[i]
			return []any{row.WeekStart, row.PeriodID, row.FacilityName, row.FacilityType, row.Free, row.BookedBy}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("fill registry week failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit registry rebuild failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Snapshot(ctx context.Context, weekStart time.Time, periodID string) ([]Row, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select("week_start", "period_id", "facility_name", "facility_type", "free", "booked_by").
		From("facility_registry").
		Where(squirrel.Eq{"week_start": weekStart}).
		OrderBy("period_id", "facility_name")
	if periodID != "" {
		query = query.Where(squirrel.Eq{"period_id": periodID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build registry snapshot query failed: %w", err)
	}

	pgRows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("registry snapshot failed: %w", err)
	}
	defer pgRows.Close()

	var rows []Row
	for pgRows.Next() {
		var row Row
		if err := pgRows.Scan(&row.WeekStart, &row.PeriodID, &row.FacilityName,
			&row.FacilityType, &row.Free, &row.BookedBy); err != nil {
			return nil, fmt.Errorf("scan registry row failed: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, pgRows.Err()
}
