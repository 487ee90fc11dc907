package history

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists audit entries. There is deliberately no update or delete:
// the ledger is append-only.
type Repository interface {
	Insert(ctx context.Context, e *Entry) error
	Query(ctx context.Context, filter Filter) ([]*Entry, int, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Insert(ctx context.Context, e *Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("booking_history").
		Columns("id", "user_id", "period_id", "facility_name", "facility_type", "free", "usage_date").
		Values(e.ID, e.UserID, e.PeriodID, e.FacilityName, e.FacilityType, e.Free, e.UsageDate).
		Suffix("RETURNING recorded_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert history query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&e.RecordedAt); err != nil {
		return fmt.Errorf("insert history entry failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Query(ctx context.Context, filter Filter) ([]*Entry, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"id", "user_id", "period_id", "facility_name", "facility_type",
		"free", "usage_date", "recorded_at",
		"count(*) OVER() AS total_count",
	).From("booking_history")

	if filter.FacilityName != "" {
		query = query.Where(squirrel.ILike{"facility_name": "%" + filter.FacilityName + "%"})
	}
	if filter.UsageDate != nil {
		query = query.Where(squirrel.Eq{"usage_date": *filter.UsageDate})
	}
	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"user_id": filter.UserID})
	}

	query = query.OrderBy("recorded_at DESC")

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 50
	}
	offset := (filter.Page - 1) * filter.PageSize
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build query history failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query history failed: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	var total int
	for rows.Next() {
		var e Entry
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.PeriodID, &e.FacilityName, &e.FacilityType,
			&e.Free, &e.UsageDate, &e.RecordedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan history entry failed: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, total, rows.Err()
}
