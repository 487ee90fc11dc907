package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuskit/facility-booking-backend/internal/facility"
	"github.com/campuskit/facility-booking-backend/internal/timetable"
)

// normExpr is the SQL form of facility.Normalize, applied to both sides of
// every facility-name comparison.
const normExpr = `lower(regexp_replace(%s, '\s', '', 'g'))`

// ClassVenue selects which exclusive slot field a class booking writes.
type ClassVenue string

const (
	VenueRoom ClassVenue = "room_no"
	VenueLab  ClassVenue = "lab"
)

type Repository interface {
	// CreateWeek inserts the 40 slot rows of a week, skipping any that already
	// exist. It never overwrites live slots. Returns true if rows were created.
	CreateWeek(ctx context.Context, ws *WeekSchedule) (bool, error)

	GetWeek(ctx context.Context, userID string, weekStart time.Time) (*WeekSchedule, error)
	GetSlot(ctx context.Context, userID string, weekStart time.Time, periodID string) (*PeriodSlot, error)
	ListWeekStarts(ctx context.Context, userID string) ([]time.Time, error)

	// AssignClass books a room or lab into a slot with one conditional UPDATE:
	// it commits only if the slot is still free AND no slot of any user for the
	// same (week, period) references the same normalized facility name. The
	// update runs under the facility's claim lock, so of two concurrent claims
	// exactly one commits. Returns false when the predicate failed (caller
	// disambiguates).
	AssignClass(ctx context.Context, userID string, weekStart time.Time, periodID string,
		venue ClassVenue, facilityName, courseCode, staffName string) (bool, error)

	// AssignProjector books a projector independently of class occupancy,
	// under the same conditional-commit discipline.
	AssignProjector(ctx context.Context, userID string, weekStart time.Time, periodID string,
		facilityName string) (bool, error)

	// ClearSlot resets a slot to free with a compare-and-set against the
	// observed field values; a concurrent change makes it return false.
	ClearSlot(ctx context.Context, userID string, weekStart time.Time, periodID string,
		observed *PeriodSlot) (bool, error)

	// ResyncSlot copies one template slot into a week, only while the target
	// slot is untouched (free, no projector, no course). Returns false when
	// the slot holds live state.
	ResyncSlot(ctx context.Context, userID string, weekStart time.Time, periodID string,
		tpl timetable.Slot) (bool, error)

	// WeekOccupancies returns every occupied facility reference for a week,
	// optionally narrowed to one period.
	WeekOccupancies(ctx context.Context, weekStart time.Time, periodID string) ([]Occupancy, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) CreateWeek(ctx context.Context, ws *WeekSchedule) (bool, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	ins := psql.Insert("week_slots").
		Columns("user_id", "week_start", "slot_index", "period_no", "day", "period_id",
			"free", "room_no", "lab", "projector", "course_code", "staff_name", "start_time", "end_time")
	for _, s := range ws.Periods {
		ins = ins.Values(ws.UserID, ws.WeekStart, timetable.SlotIndex(s.PeriodNo, s.Day),
			s.PeriodNo, s.Day, s.PeriodID,
			s.Free, s.RoomNo, s.Lab, s.Projector, s.CourseCode, s.StaffName, s.StartTime, s.EndTime)
	}
	ins = ins.Suffix("ON CONFLICT (user_id, week_start, slot_index) DO NOTHING")

	query, args, err := ins.ToSql()
	if err != nil {
		return false, fmt.Errorf("build create week query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("create week failed: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

const slotColumns = "period_no, day, period_id, free, room_no, lab, projector, course_code, staff_name, start_time, end_time"

func scanSlot(row pgx.Row) (*PeriodSlot, error) {
	var s PeriodSlot
	err := row.Scan(&s.PeriodNo, &s.Day, &s.PeriodID, &s.Free, &s.RoomNo, &s.Lab,
		&s.Projector, &s.CourseCode, &s.StaffName, &s.StartTime, &s.EndTime)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *pgxRepository) GetWeek(ctx context.Context, userID string, weekStart time.Time) (*WeekSchedule, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(slotColumns).
		From("week_slots").
		Where(squirrel.Eq{"user_id": userID, "week_start": weekStart}).
		OrderBy("slot_index").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get week query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get week failed: %w", err)
	}
	defer rows.Close()

	ws := &WeekSchedule{UserID: userID, WeekStart: weekStart}
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan week slot failed: %w", err)
		}
		ws.Periods = append(ws.Periods, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ws.Periods) == 0 {
		return nil, ErrWeekNotFound
	}
	return ws, nil
}

func (r *pgxRepository) GetSlot(ctx context.Context, userID string, weekStart time.Time, periodID string) (*PeriodSlot, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(slotColumns).
		From("week_slots").
		Where(squirrel.Eq{"user_id": userID, "week_start": weekStart, "period_id": periodID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get slot query failed: %w", err)
	}

	s, err := scanSlot(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("get slot failed: %w", err)
	}
	return s, nil
}

func (r *pgxRepository) ListWeekStarts(ctx context.Context, userID string) ([]time.Time, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("DISTINCT week_start").
		From("week_slots").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("week_start").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list week starts query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list week starts failed: %w", err)
	}
	defer rows.Close()

	var weeks []time.Time
	for rows.Next() {
		var w time.Time
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("scan week start failed: %w", err)
		}
		weeks = append(weeks, w)
	}
	return weeks, rows.Err()
}

// claimKey names the advisory lock for one facility claim: same normalized
// facility, same (week, period) means same lock.
func claimKey(weekStart time.Time, periodID, norm string) string {
	return weekStart.Format(time.DateOnly) + "/" + periodID + "/" + norm
}

// execClaim runs a conditional claim statement inside a transaction holding
// the advisory lock for key. Concurrent claims of the same facility write
// different rows, so under read committed the NOT EXISTS predicate alone does
// not see an uncommitted rival; the lock serializes them and the second
// statement's predicate then sees the winner's committed row.
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

// facilityInUseExpr builds the cross-user exclusivity predicate: some slot of
// any user for the same (week, period) already references the facility name.
func facilityInUseExpr(fields ...string) string {
	cond := ""
	for i, f := range fields {
		if i > 0 {
			cond += " OR "
		}
		cond += fmt.Sprintf(normExpr, "o."+f) + " = ?"
	}
	return `EXISTS (
		SELECT 1 FROM week_slots o
		WHERE o.week_start = ? AND o.period_id = ? AND (` + cond + `))`
}

func (r *pgxRepository) AssignClass(ctx context.Context, userID string, weekStart time.Time, periodID string,
	venue ClassVenue, facilityName, courseCode, staffName string) (bool, error) {

	norm := facility.Normalize(facilityName)

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	update := psql.Update("week_slots").
		Set("free", false).
		Set(string(venue), facilityName).
		Set("course_code", courseCode).
		Set("staff_name", staffName).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"user_id": userID, "week_start": weekStart, "period_id": periodID}).
		Where(squirrel.Eq{"free": true, "room_no": "", "lab": ""}).
		Where(squirrel.Expr(
			"NOT "+facilityInUseExpr("room_no", "lab"),
			weekStart, periodID, norm, norm,
		))

	query, args, err := update.ToSql()
	if err != nil {
		return false, fmt.Errorf("build assign class query failed: %w", err)
	}

	ok, err := r.execClaim(ctx, claimKey(weekStart, periodID, norm), query, args)
	if err != nil {
		return false, fmt.Errorf("assign class failed: %w", err)
	}
	return ok, nil
}

func (r *pgxRepository) AssignProjector(ctx context.Context, userID string, weekStart time.Time, periodID string,
	facilityName string) (bool, error) {

	norm := facility.Normalize(facilityName)

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	update := psql.Update("week_slots").
		Set("projector", facilityName).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"user_id": userID, "week_start": weekStart, "period_id": periodID}).
		Where(squirrel.Eq{"projector": ""}).
		Where(squirrel.Expr(
			"NOT "+facilityInUseExpr("projector"),
			weekStart, periodID, norm,
		))

	query, args, err := update.ToSql()
	if err != nil {
		return false, fmt.Errorf("build assign projector query failed: %w", err)
	}

	ok, err := r.execClaim(ctx, claimKey(weekStart, periodID, norm), query, args)
	if err != nil {
		return false, fmt.Errorf("assign projector failed: %w", err)
	}
	return ok, nil
}

func (r *pgxRepository) ClearSlot(ctx context.Context, userID string, weekStart time.Time, periodID string,
	observed *PeriodSlot) (bool, error) {

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	update := psql.Update("week_slots").
		Set("free", true).
		Set("room_no", "").
		Set("lab", "").
		Set("projector", "").
		Set("course_code", "").
		Set("staff_name", "").
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"user_id": userID, "week_start": weekStart, "period_id": periodID}).
		// Compare-and-set on the occupancy fields we read.
		Where(squirrel.Eq{
			"room_no":   observed.RoomNo,
			"lab":       observed.Lab,
			"projector": observed.Projector,
		})

	query, args, err := update.ToSql()
	if err != nil {
		return false, fmt.Errorf("build clear slot query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("clear slot failed: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

func (r *pgxRepository) ResyncSlot(ctx context.Context, userID string, weekStart time.Time, periodID string,
	tpl timetable.Slot) (bool, error) {

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	update := psql.Update("week_slots").
		Set("free", tpl.Free).
		Set("room_no", tpl.RoomNo).
		Set("lab", tpl.Lab).
		Set("course_code", tpl.CourseCode).
		Set("staff_name", tpl.StaffName).
		Set("start_time", tpl.StartTime).
		Set("end_time", tpl.EndTime).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"user_id": userID, "week_start": weekStart, "period_id": periodID}).
		// Only untouched slots may be re-seeded.
		Where(squirrel.Eq{"free": true, "projector": "", "course_code": ""})

	query, args, err := update.ToSql()
	if err != nil {
		return false, fmt.Errorf("build resync slot query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("resync slot failed: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

func (r *pgxRepository) WeekOccupancies(ctx context.Context, weekStart time.Time, periodID string) ([]Occupancy, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select("user_id", "period_id", "room_no", "lab", "projector").
		From("week_slots").
		Where(squirrel.Eq{"week_start": weekStart}).
		Where(squirrel.Or{
			squirrel.NotEq{"room_no": ""},
			squirrel.NotEq{"lab": ""},
			squirrel.NotEq{"projector": ""},
		})
	if periodID != "" {
		query = query.Where(squirrel.Eq{"period_id": periodID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build week occupancies query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("week occupancies failed: %w", err)
	}
	defer rows.Close()

	var occs []Occupancy
	for rows.Next() {
		var o Occupancy
		if err := rows.Scan(&o.UserID, &o.PeriodID, &o.RoomNo, &o.Lab, &o.Projector); err != nil {
			return nil, fmt.Errorf("scan occupancy failed: %w", err)
		}
		occs = append(occs, o)
	}
	return occs, rows.Err()
}
