package enrollment

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]Course, error)

	// Replace swaps the user's whole course list in one transaction.
	Replace(ctx context.Context, userID string, courses []Course) error

	// DeleteByUser removes the user's enrollment. Returns false when there
	// was none.
	DeleteByUser(ctx context.Context, userID string) (bool, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) ListByUser(ctx context.Context, userID string) ([]Course, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("course_code", "course_name", "staff_name", "lab").
		From("enrollments").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list enrollment query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list enrollment failed: %w", err)
	}
	defer rows.Close()

	var courses []Course
	for rows.Next() {
		var c Course
		if err := rows.Scan(&c.CourseCode, &c.CourseName, &c.StaffName, &c.Lab); err != nil {
			return nil, fmt.Errorf("scan enrolled course failed: %w", err)
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

func (r *pgxRepository) Replace(ctx context.Context, userID string, courses []Course) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin enrollment replace failed: %w", err)
	}
	defer tx.Rollback(ctx)

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("enrollments").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build clear enrollment query failed: %w", err)
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("clear enrollment failed: %w", err)
	}

	ins := psql.Insert("enrollments").
		Columns("user_id", "position", "course_code", "course_name", "staff_name", "lab")
	for i, c := range courses {
		ins = ins.Values(userID, i, c.CourseCode, c.CourseName, c.StaffName, c.Lab)
	}
	query, args, err = ins.ToSql()
	if err != nil {
		return fmt.Errorf("build fill enrollment query failed: %w", err)
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("fill enrollment failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit enrollment replace failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) DeleteByUser(ctx context.Context, userID string) (bool, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("enrollments").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build delete enrollment query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete enrollment failed: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}
