package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/leadscout/internal/model"
)

// SQLiteStore implements LeadStore using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS leads (
	urn                  TEXT PRIMARY KEY,
	name                 TEXT NOT NULL DEFAULT '',
	company_name         TEXT NOT NULL DEFAULT '',
	company_website      TEXT NOT NULL DEFAULT '',
	email                TEXT NOT NULL DEFAULT '',
	title                TEXT NOT NULL DEFAULT '',
	profile_url          TEXT NOT NULL DEFAULT '',
	icp_fit_strength     TEXT NOT NULL DEFAULT '',
	reason               TEXT NOT NULL DEFAULT '',
	validation_judgement TEXT NOT NULL DEFAULT '',
	validation_reason    TEXT NOT NULL DEFAULT '',
	profile_summary      TEXT NOT NULL DEFAULT '',
	company_summary      TEXT NOT NULL DEFAULT '',
	processed_at         TEXT NOT NULL,
	updated_at           TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_leads_fit ON leads(icp_fit_strength);
CREATE INDEX IF NOT EXISTS idx_leads_processed_at ON leads(processed_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Exists(ctx context.Context, identifier string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM leads WHERE urn = ?`, identifier).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, eris.Wrapf(err, "sqlite: lookup lead %s", identifier)
	}
	return true, nil
}

func (s *SQLiteStore) Get(ctx context.Context, identifier string) (*model.Lead, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+selectColumns()+` FROM leads WHERE urn = ?`,
		identifier,
	)
	l, err := scanSQLiteLead(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("sqlite", identifier)
	}
	return l, err
}

var sqliteUpsert = func() string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(leadColumns)+1), ", ")
	sets := make([]string, 0, len(leadColumns))
	for _, c := range leadColumns[1:] {
		sets = append(sets, fmt.Sprintf("%s = excluded.%s", c, c))
	}
	sets = append(sets, "updated_at = excluded.updated_at")
	return fmt.Sprintf(
		"INSERT INTO leads (%s, updated_at) VALUES (%s) ON CONFLICT(urn) DO UPDATE SET %s",
		selectColumns(), placeholders, strings.Join(sets, ", "),
	)
}()

func (s *SQLiteStore) Upsert(ctx context.Context, lead model.Lead) error {
	if err := checkIdentifier("sqlite", lead.Identifier); err != nil {
		return err
	}
	processed := lead.ProcessedAt
	if processed.IsZero() {
		processed = time.Now()
	}
	args := leadValues(lead, processed.UTC().Format(time.RFC3339Nano))
	args = append(args, time.Now().UTC().Format(time.RFC3339Nano))

	if _, err := s.db.ExecContext(ctx, sqliteUpsert, args...); err != nil {
		return eris.Wrapf(err, "sqlite: upsert lead %s", lead.Identifier)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context, filter LeadFilter) ([]model.Lead, error) {
	query := `SELECT ` + selectColumns() + ` FROM leads WHERE 1=1`
	var args []any

	if filter.FitStrength != "" {
		query += ` AND icp_fit_strength = ?`
		args = append(args, string(filter.FitStrength))
	}
	query += ` ORDER BY processed_at DESC, urn LIMIT ? OFFSET ?`
	args = append(args, filter.limit(-1), filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list leads")
	}
	defer rows.Close() //nolint:errcheck

	var leads []model.Lead
	for rows.Next() {
		l, err := scanSQLiteLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, *l)
	}
	return leads, eris.Wrap(rows.Err(), "sqlite: iterate leads")
}

func scanSQLiteLead(row scannable) (*model.Lead, error) {
	var (
		l                    model.Lead
		fit, judgement, stmp string
	)
	if err := row.Scan(leadTargets(&l, &fit, &judgement, &stmp)...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, eris.Wrap(err, "sqlite: scan lead")
	}
	l.FitStrength = model.FitStrength(fit)
	l.ValidationJudgement = model.Judgement(judgement)
	ts, err := time.Parse(time.RFC3339Nano, stmp)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: parse processed_at for %s", l.Identifier)
	}
	l.ProcessedAt = ts
	return &l, nil
}
