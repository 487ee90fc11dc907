package timetable

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	// Replace swaps a user's template wholesale inside one transaction.
	Replace(ctx context.Context, t *Template) error
	GetByUser(ctx context.Context, userID string) (*Template, error)
	Delete(ctx context.Context, userID string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Replace(ctx context.Context, t *Template) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace template failed: %w", err)
	}
	defer tx.Rollback(ctx)

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	delQuery, delArgs, err := psql.Delete("timetable_slots").
		Where(squirrel.Eq{"user_id": t.UserID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete template query failed: %w", err)
	}
	if _, err := tx.Exec(ctx, delQuery, delArgs...); err != nil {
		return fmt.Errorf("delete old template failed: %w", err)
	}

	ins := psql.Insert("timetable_slots").
		Columns("user_id", "slot_index", "period_no", "day", "period_id",
			"free", "room_no", "lab", "course_code", "staff_name", "start_time", "end_time")
	for _, s := range t.Periods {
		ins = ins.Values(t.UserID, SlotIndex(s.PeriodNo, s.Day), s.PeriodNo, s.Day, s.PeriodID,
			s.Free, s.RoomNo, s.Lab, s.CourseCode, s.StaffName, s.StartTime, s.EndTime)
	}
	insQuery, insArgs, err := ins.ToSql()
	if err != nil {
		return fmt.Errorf("build insert template query failed: %w", err)
	}
	if _, err := tx.Exec(ctx, insQuery, insArgs...); err != nil {
		return fmt.Errorf("insert template slots failed: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *pgxRepository) GetByUser(ctx context.Context, userID string) (*Template, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("period_no", "day", "period_id", "free",
		"room_no", "lab", "course_code", "staff_name", "start_time", "end_time").
		From("timetable_slots").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("slot_index").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get template query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get template failed: %w", err)
	}
	defer rows.Close()

	t := &Template{UserID: userID}
	for rows.Next() {
		var s Slot
		if err := rows.Scan(&s.PeriodNo, &s.Day, &s.PeriodID, &s.Free,
			&s.RoomNo, &s.Lab, &s.CourseCode, &s.StaffName, &s.StartTime, &s.EndTime); err != nil {
			return nil, fmt.Errorf("scan template slot failed: %w", err)
		}
		t.Periods = append(t.Periods, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(t.Periods) == 0 {
		return nil, ErrNotFound
	}
	return t, nil
}

func (r *pgxRepository) Delete(ctx context.Context, userID string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("timetable_slots").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete template query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete template failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
