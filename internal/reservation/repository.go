package reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuskit/facility-booking-backend/internal/facility"
)

const normExpr = `lower(regexp_replace(%s, '\s', '', 'g'))`

// acceptedOverlapExpr matches accepted requests of the same venue and date
// whose interval collides with [start, end).
const acceptedOverlapExpr = `EXISTS (
	SELECT 1 FROM interval_requests o
	WHERE o.status = 'accepted'
	  AND o.date = ?
	  AND lower(regexp_replace(o.venue_name, '\s', '', 'g')) = ?
	  AND o.start_time < ?
	  AND o.end_time > ?
	  AND o.id <> ?)`

type Repository interface {
	// Create inserts the request only if no accepted reservation of the same
	// venue overlaps the interval; the check and the insert are one statement,
	// run under the venue-day claim lock.
	Create(ctx context.Context, req *Request) (bool, error)

	GetByID(ctx context.Context, id string) (*Request, error)
	List(ctx context.Context, filter Filter) ([]*Request, int, error)

	// SetStatus moves the request from one status to another; the transition
	// commits only if the current status still matches from.
	SetStatus(ctx context.Context, id string, from, to Status) (bool, error)

	// Accept is SetStatus(pending, accepted) with the overlap re-check folded
	// into the same conditional UPDATE, run under the venue-day claim lock, so
	// two pending requests for the same interval can never both win.
	Accept(ctx context.Context, req *Request) (bool, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

// venueClaimKey names the advisory lock for one venue-day: every write that
// can add an accepted (or soon-to-be-accepted) interval for the same
// normalized venue and date takes it.
func venueClaimKey(date time.Time, norm string) string {
	return date.Format(time.DateOnly) + "/" + norm
}

// execClaim runs a conditional write inside a transaction holding the
// advisory lock for key. Two overlapping requests live in different rows, so
// under read committed their NOT EXISTS checks cannot see each other's
// uncommitted writes; the lock serializes them and the loser's predicate sees
// the winner's committed row.
func (r *pgxRepository) execClaim(ctx context.Context, key, query string, args []any) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin claim tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtextextended($1, 0))", key); err != nil {
		return false, fmt.Errorf("acquire claim lock failed: %w", err)
	}
	ct, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return false, err
	}
	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit claim failed: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

func (r *pgxRepository) Create(ctx context.Context, req *Request) (bool, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.Status == "" {
		req.Status = StatusPending
	}
	norm := facility.Normalize(req.VenueName)

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sel := psql.Select().
		Column(squirrel.Expr("?", req.ID)).
		Column(squirrel.Expr("?", req.UserID)).
		Column(squirrel.Expr("?", req.VenueName)).
		Column(squirrel.Expr("?", req.VenueType)).
		Column(squirrel.Expr("?::date", req.Date)).
		Column(squirrel.Expr("?", req.StartTime)).
		Column(squirrel.Expr("?", req.EndTime)).
		Column(squirrel.Expr("?", req.EventName)).
		Column(squirrel.Expr("?", req.AdditionalInfo)).
		Column(squirrel.Expr("?", req.DocumentName)).
		Column(squirrel.Expr("?", string(req.Status))).
		Where(squirrel.Expr("NOT "+acceptedOverlapExpr,
			req.Date, norm, req.EndTime, req.StartTime, req.ID))

	query, args, err := psql.Insert("interval_requests").
		Columns("id", "user_id", "venue_name", "venue_type", "date",
			"start_time", "end_time", "event_name", "additional_info", "document_name", "status").
		Select(sel).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build create reservation query failed: %w", err)
	}

	ok, err := r.execClaim(ctx, venueClaimKey(req.Date, norm), query, args)
	if err != nil {
		return false, fmt.Errorf("create reservation failed: %w", err)
	}
	return ok, nil
}

const requestColumns = "id, user_id, venue_name, venue_type, date, start_time, end_time, " +
	"event_name, additional_info, document_name, status, requested_at, updated_at"

func scanRequest(row pgx.Row, extra ...any) (*Request, error) {
	var req Request
	dest := []any{&req.ID, &req.UserID, &req.VenueName, &req.VenueType, &req.Date,
		&req.StartTime, &req.EndTime, &req.EventName, &req.AdditionalInfo,
		&req.DocumentName, &req.Status, &req.RequestedAt, &req.UpdatedAt}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Request, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(requestColumns).
		From("interval_requests").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get reservation query failed: %w", err)
	}

	req, err := scanRequest(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get reservation failed: %w", err)
	}
	return req, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Request, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(requestColumns + ", count(*) OVER() AS total").
		From("interval_requests").
		OrderBy("date DESC", "start_time DESC")

	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"user_id": filter.UserID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": string(filter.Status)})
	}
	if filter.VenueName != "" {
		query = query.Where(squirrel.Expr(
			fmt.Sprintf(normExpr, "venue_name")+" LIKE ?",
			"%"+facility.Normalize(filter.VenueName)+"%"))
	}
	if filter.Date != nil {
		query = query.Where(squirrel.Eq{"date": *filter.Date})
	}
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list reservations query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list reservations failed: %w", err)
	}
	defer rows.Close()

	var (
		reqs  []*Request
		total int
	)
	for rows.Next() {
		req, err := scanRequest(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan reservation failed: %w", err)
		}
		reqs = append(reqs, req)
	}
	return reqs, total, rows.Err()
}

func (r *pgxRepository) SetStatus(ctx context.Context, id string, from, to Status) (bool, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("interval_requests").
		Set("status", string(to)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "status": string(from)}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build set reservation status query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("set reservation status failed: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

func (r *pgxRepository) Accept(ctx context.Context, req *Request) (bool, error) {
	norm := facility.Normalize(req.VenueName)

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("interval_requests").
		Set("status", string(StatusAccepted)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": req.ID, "status": string(StatusPending)}).
		Where(squirrel.Expr("NOT "+acceptedOverlapExpr,
			req.Date, norm, req.EndTime, req.StartTime, req.ID)).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build accept reservation query failed: %w", err)
	}

	ok, err := r.execClaim(ctx, venueClaimKey(req.Date, norm), query, args)
	if err != nil {
		return false, fmt.Errorf("accept reservation failed: %w", err)
	}
	return ok, nil
}
