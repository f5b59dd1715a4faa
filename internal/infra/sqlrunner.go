package infra

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// SQLExecutor defines the contract required by repositories for executing SQL queries.
type SQLExecutor interface {
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
}

// ErrMissingMarker is returned for queries without a leading "--sql <uuid>" line.
var ErrMissingMarker = errors.New("sql marker missing or invalid")

var markerRegexp = regexp.MustCompile(`^--sql [0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// DefaultSlowQuery is the duration above which a statement is logged at warn.
const DefaultSlowQuery = 250 * time.Millisecond

// SQLRunner executes marker-tagged queries on a pgx pool and logs each one by
// its marker.
type SQLRunner struct {
	Pool      *pgxpool.Pool
	Logger    zerolog.Logger
	SlowQuery time.Duration
}

func NewSQLRunner(pool *pgxpool.Pool, logger zerolog.Logger) *SQLRunner {
	return &SQLRunner{Pool: pool, Logger: logger, SlowQuery: DefaultSlowQuery}
}

// observe logs a finished statement; failures at error, slow ones at warn.
func (r *SQLRunner) observe(op, marker string, start time.Time, err error) {
	took := time.Since(start)
	var ev *zerolog.Event
	switch {
	case err != nil:
		ev = r.Logger.Error().Err(err)
	case r.SlowQuery > 0 && took > r.SlowQuery:
		ev = r.Logger.Warn()
	default:
		ev = r.Logger.Debug()
	}
	ev.Str("sql", marker).Str("op", op).Dur("took", took).Msg("sql")
}

func (r *SQLRunner) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	marker, trimmed, err := extractMarker(query)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	start := time.Now()
	tag, err := r.Pool.Exec(ctx, trimmed, args...)
	r.observe("exec", marker, start, err)
	return tag, err
}

func (r *SQLRunner) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	marker, trimmed, err := extractMarker(query)
	if err != nil {
		return errorRow{err: err}
	}
	return loggingRow{row: r.Pool.QueryRow(ctx, trimmed, args...), runner: r, marker: marker, start: time.Now()}
}

func (r *SQLRunner) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	marker, trimmed, err := extractMarker(query)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	rows, err := r.Pool.Query(ctx, trimmed, args...)
	r.observe("query", marker, start, err)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// IsNoRows reports whether err means the query matched nothing.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsUniqueViolation reports whether err is a Postgres unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// loggingRow defers logging to Scan, where pgx reports the row's error.
type loggingRow struct {
	row    pgx.Row
	runner *SQLRunner
	marker string
	start  time.Time
}

func (l loggingRow) Scan(dest ...any) error {
	err := l.row.Scan(dest...)
	if IsNoRows(err) {
		l.runner.observe("query_row", l.marker, l.start, nil)
	} else {
		l.runner.observe("query_row", l.marker, l.start, err)
	}
	return err
}

type errorRow struct {
	err error
}

func (e errorRow) Scan(dest ...any) error {
	return e.err
}

func extractMarker(query string) (string, string, error) {
	trimmed := strings.TrimSpace(query)
	lines := strings.SplitN(trimmed, "\n", 2)
	if len(lines) < 2 {
		return "", "", ErrMissingMarker
	}
	markerLine := strings.TrimSpace(lines[0])
	if !markerRegexp.MatchString(markerLine) {
		return "", "", ErrMissingMarker
	}
	return strings.TrimPrefix(markerLine, "--sql "), lines[1], nil
}

var _ SQLExecutor = (*SQLRunner)(nil)
