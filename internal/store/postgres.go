package store

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/leadscout/internal/db"
	"github.com/sells-group/leadscout/internal/model"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const (
	pgSchema = "leadscout"
	pgTable  = pgSchema + ".leads"
)

// PostgresStore implements LeadStore using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// pgQueries are the hot-path lookups; pgx caches their prepared form per connection.
var pgQueries = map[string]string{
	"lead_exists": `SELECT 1 FROM leadscout.leads WHERE urn = $1`,
	"get_lead":    `SELECT ` + selectColumns() + ` FROM leadscout.leads WHERE urn = $1`,
}

var leadUpsert = db.UpsertConfig{
	Table:        pgTable,
	Columns:      leadColumns,
	ConflictKeys: []string{"urn"},
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// Migrate applies the embedded migrations under the leadscout schema.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return eris.Wrap(db.Migrate(ctx, s.pool, pgSchema, migrationFS, "migrations"), "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) Exists(ctx context.Context, identifier string) (bool, error) {
	var one int
	err := s.pool.QueryRow(ctx, pgQueries["lead_exists"], identifier).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, eris.Wrapf(err, "postgres: lookup lead %s", identifier)
	}
	return true, nil
}

func (s *PostgresStore) Get(ctx context.Context, identifier string) (*model.Lead, error) {
	row := s.pool.QueryRow(ctx, pgQueries["get_lead"], identifier)
	l, err := scanPostgresLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound("postgres", identifier)
	}
	return l, err
}

func (s *PostgresStore) Upsert(ctx context.Context, lead model.Lead) error {
	if err := checkIdentifier("postgres", lead.Identifier); err != nil {
		return err
	}
	processed := lead.ProcessedAt
	if processed.IsZero() {
		processed = time.Now()
	}
	if _, err := db.Upsert(ctx, s.pool, leadUpsert, leadValues(lead, processed.UTC())...); err != nil {
		return eris.Wrapf(err, "postgres: upsert lead %s", lead.Identifier)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, filter LeadFilter) ([]model.Lead, error) {
	query := `SELECT ` + selectColumns() + ` FROM leadscout.leads`
	args := []any{}

	if filter.FitStrength != "" {
		args = append(args, string(filter.FitStrength))
		query += ` WHERE icp_fit_strength = $1`
	}
	query += ` ORDER BY processed_at DESC, urn`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list leads")
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		l, err := scanPostgresLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, *l)
	}
	return leads, eris.Wrap(rows.Err(), "postgres: iterate leads")
}

func scanPostgresLead(row scannable) (*model.Lead, error) {
	var (
		l              model.Lead
		fit, judgement string
	)
	if err := row.Scan(leadTargets(&l, &fit, &judgement, &l.ProcessedAt)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, eris.Wrap(err, "postgres: scan lead")
	}
	l.FitStrength = model.FitStrength(fit)
	l.ValidationJudgement = model.Judgement(judgement)
	return &l, nil
}
