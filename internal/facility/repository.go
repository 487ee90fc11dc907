package facility

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// normExpr is the SQL twin of Normalize. Both sides of every name comparison
// must go through it.
const normExpr = `lower(regexp_replace(%s, '\s', '', 'g'))`

type Repository interface {
	Create(ctx context.Context, f *Facility) error
	GetByID(ctx context.Context, id string) (*Facility, error)
	// GetByName resolves a facility by normalized name.
	GetByName(ctx context.Context, name string) (*Facility, error)
	// ListBookable returns bookable facilities, optionally restricted to one type.
	ListBookable(ctx context.Context, typ Type) ([]*Facility, error)
	List(ctx context.Context) ([]*Facility, error)
	Update(ctx context.Context, f *Facility) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, f *Facility) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("facilities").
		Columns("name", "type", "bookable").
		Values(f.Name, f.Type, f.Bookable).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create facility query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&f.ID, &f.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrAlreadyExists
		}
		return fmt.Errorf("create facility failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Facility, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "name", "type", "bookable", "created_at").
		From("facilities").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get facility query failed: %w", err)
	}
	return r.scanOne(ctx, query, args)
}

func (r *pgxRepository) GetByName(ctx context.Context, name string) (*Facility, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "name", "type", "bookable", "created_at").
		From("facilities").
		Where(squirrel.Expr(fmt.Sprintf(normExpr, "name")+" = ?", Normalize(name))).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get facility by name query failed: %w", err)
	}
	return r.scanOne(ctx, query, args)
}

func (r *pgxRepository) scanOne(ctx context.Context, query string, args []any) (*Facility, error) {
	var f Facility
	err := r.pool.QueryRow(ctx, query, args...).
		Scan(&f.ID, &f.Name, &f.Type, &f.Bookable, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get facility failed: %w", err)
	}
	return &f, nil
}

func (r *pgxRepository) ListBookable(ctx context.Context, typ Type) ([]*Facility, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select("id", "name", "type", "bookable", "created_at").
		From("facilities").
		Where(squirrel.Eq{"bookable": true}).
		OrderBy("name")
	if typ != "" {
		query = query.Where(squirrel.Eq{"type": typ})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bookable facilities query failed: %w", err)
	}
	return r.scanMany(ctx, sql, args)
}

func (r *pgxRepository) List(ctx context.Context) ([]*Facility, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sql, args, err := psql.Select("id", "name", "type", "bookable", "created_at").
		From("facilities").
		OrderBy("type", "name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list facilities query failed: %w", err)
	}
	return r.scanMany(ctx, sql, args)
}

func (r *pgxRepository) scanMany(ctx context.Context, sql string, args []any) ([]*Facility, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list facilities failed: %w", err)
	}
	defer rows.Close()

	var facilities []*Facility
	for rows.Next() {
		var f Facility
		if err := rows.Scan(&f.ID, &f.Name, &f.Type, &f.Bookable, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan facility failed: %w", err)
		}
		facilities = append(facilities, &f)
	}
	return facilities, rows.Err()
}

func (r *pgxRepository) Update(ctx context.Context, f *Facility) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("facilities").
		Set("name", f.Name).
		Set("bookable", f.Bookable).
		Where(squirrel.Eq{"id": f.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update facility query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrAlreadyExists
		}
		return fmt.Errorf("update facility failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("facilities").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete facility query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete facility failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
