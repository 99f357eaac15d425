package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"farewatch/internal/fare"
)

// ErrNotConfigured indicates the archive pool was not initialised.
var ErrNotConfigured = errors.New("storage: pool not configured")

const (
	insertCycleSQL = `INSERT INTO fare_cycles (
        observed_at,
        origin,
        destination,
        outbound_lowest,
        return_lowest,
        outbound_delta_kind,
        outbound_delta_amount,
        return_delta_kind,
        return_delta_amount,
        deal
    ) VALUES (
        $1,$2,$3,$4,$5,$6,$7,$8,$9,$10
    )
    ON CONFLICT (origin, destination, observed_at) DO UPDATE
    SET
        outbound_lowest       = EXCLUDED.outbound_lowest,
        return_lowest         = EXCLUDED.return_lowest,
        outbound_delta_kind   = EXCLUDED.outbound_delta_kind,
        outbound_delta_amount = EXCLUDED.outbound_delta_amount,
        return_delta_kind     = EXCLUDED.return_delta_kind,
        return_delta_amount   = EXCLUDED.return_delta_amount,
        deal                  = EXCLUDED.deal;`

	listRecentCyclesSQL = `SELECT
        id,
        observed_at,
        origin,
        destination,
        outbound_lowest,
        return_lowest,
        outbound_delta_kind,
        outbound_delta_amount,
        return_delta_kind,
        return_delta_amount,
        deal,
        created_at
    FROM fare_cycles
    ORDER BY observed_at DESC
    LIMIT $1;`

	countCyclesSQL = `SELECT COUNT(*) FROM fare_cycles;`

	ensureSchemaSQL = `CREATE TABLE IF NOT EXISTS fare_cycles (
        id BIGSERIAL PRIMARY KEY,
        observed_at TIMESTAMPTZ NOT NULL,
        origin TEXT NOT NULL,
        destination TEXT NOT NULL,
        outbound_lowest BIGINT NOT NULL,
        return_lowest BIGINT NOT NULL,
        outbound_delta_kind TEXT NOT NULL,
        outbound_delta_amount BIGINT NOT NULL DEFAULT 0,
        return_delta_kind TEXT NOT NULL,
        return_delta_amount BIGINT NOT NULL DEFAULT 0,
        deal BOOLEAN NOT NULL DEFAULT FALSE,
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        UNIQUE (origin, destination, observed_at)
    );
    CREATE INDEX IF NOT EXISTS idx_fare_cycles_observed_at ON fare_cycles(observed_at);`
)

// CycleArchive defines operations for the optional cycle archive.
type CycleArchive interface {
	InsertCycle(ctx context.Context, cycle ArchivedCycle) error
	ListRecentCycles(ctx context.Context, limit int) ([]ArchivedCycle, error)
	CountCycles(ctx context.Context) (int64, error)
}

// Store persists recorded cycles to Postgres.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wires a pgx pool into a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

func (s *Store) getPool() (*pgxpool.Pool, error) {
	if s == nil || s.pool == nil {
		return nil, ErrNotConfigured
	}
	return s.pool, nil
}

// EnsureSchema creates the archive table when it does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	pool, err := s.getPool()
	if err != nil {
		return err
	}
	if _, execErr := pool.Exec(ctx, ensureSchemaSQL); execErr != nil {
		return fmt.Errorf("ensure archive schema: %w", execErr)
	}
	return nil
}

// InsertCycle appends one recorded cycle to the archive.
func (s *Store) InsertCycle(ctx context.Context, cycle ArchivedCycle) error {
	pool, err := s.getPool()
	if err != nil {
		return err
	}

	_, execErr := pool.Exec(ctx, insertCycleSQL,
		cycle.ObservedAt,
		cycle.Origin,
		cycle.Destination,
		cycle.OutboundLowest,
		cycle.ReturnLowest,
		string(cycle.OutboundDelta.Kind),
		cycle.OutboundDelta.Amount,
		string(cycle.ReturnDelta.Kind),
		cycle.ReturnDelta.Amount,
		cycle.Deal,
	)
	if execErr != nil {
		return fmt.Errorf("insert fare cycle: %w", execErr)
	}
	return nil
}

// ListRecentCycles lists the most recent cycles ordered by descending
// observation time.
func (s *Store) ListRecentCycles(ctx context.Context, limit int) ([]ArchivedCycle, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listRecentCyclesSQL, limit)
	if queryErr != nil {
		return nil, fmt.Errorf("list recent cycles: %w", queryErr)
	}
	defer rows.Close()

	cycles := make([]ArchivedCycle, 0, limit)
	for rows.Next() {
		cycle, scanErr := scanCycle(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		cycles = append(cycles, cycle)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return cycles, nil
}

// CountCycles counts archived cycles.
func (s *Store) CountCycles(ctx context.Context) (int64, error) {
	pool, err := s.getPool()
	if err != nil {
		return 0, err
	}
	var count int64
	if scanErr := pool.QueryRow(ctx, countCyclesSQL).Scan(&count); scanErr != nil {
		return 0, fmt.Errorf("count cycles: %w", scanErr)
	}
	return count, nil
}

func scanCycle(rows pgx.Rows) (ArchivedCycle, error) {
	var (
		cycle        ArchivedCycle
		outboundKind string
		returnKind   string
	)

	if err := rows.Scan(
		&cycle.ID,
		&cycle.ObservedAt,
		&cycle.Origin,
		&cycle.Destination,
		&cycle.OutboundLowest,
		&cycle.ReturnLowest,
		&outboundKind,
		&cycle.OutboundDelta.Amount,
		&returnKind,
		&cycle.ReturnDelta.Amount,
		&cycle.Deal,
		&cycle.CreatedAt,
	); err != nil {
		return ArchivedCycle{}, err
	}

	cycle.OutboundDelta.Kind = fare.DeltaKind(outboundKind)
	cycle.ReturnDelta.Kind = fare.DeltaKind(returnKind)

	return cycle, nil
}

var _ CycleArchive = (*Store)(nil)
