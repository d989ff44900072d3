package leads

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"github.com/vendabot/vendabot/internal/schema"
)

// PostgresStore keeps leads in two tables, created on first use. Fields live
// as columns-by-key in a key/value table so operators can add fields without
// migrations.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("leads: open postgres: %w", err)
	}
	s := &PostgresStore{db: db}
	if err := s.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) Close() error { return s.db.Close() }

func (s *PostgresStore) ensureSchema() error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS lead_fields (
			workspace_id TEXT NOT NULL,
			phone        TEXT NOT NULL,
			field        TEXT NOT NULL,
			value        TEXT NOT NULL,
			updated_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (workspace_id, phone, field)
		)`,
		`CREATE TABLE IF NOT EXISTS lead_interactions (
			id           BIGSERIAL PRIMARY KEY,
			workspace_id TEXT NOT NULL,
			phone        TEXT NOT NULL,
			at           TIMESTAMPTZ NOT NULL,
			kind         TEXT NOT NULL,
			note         TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_lead_interactions_lookup
			ON lead_interactions (workspace_id, phone, at DESC)`,
	}
	for _, stmt := range ddl {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("leads: ensure schema: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) Upsert(ctx context.Context, workspaceID, phone string, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("upsert lead: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for field, value := range fields {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO lead_fields (workspace_id, phone, field, value)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (workspace_id, phone, field)
			 DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
			workspaceID, phone, field, value,
		)
		if err != nil {
			return fmt.Errorf("upsert lead field %s: %w", field, err)
		}
	}
	return tx.Commit()
}

// Fields reads the lead's stored fields; a missing lead yields an empty map.
func (s *PostgresStore) Fields(ctx context.Context, workspaceID, phone string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT field, value FROM lead_fields WHERE workspace_id = $1 AND phone = $2`,
		workspaceID, phone,
	)
	if err != nil {
		return nil, fmt.Errorf("read lead: %w", err)
	}
	defer rows.Close()

	fields := map[string]string{}
	for rows.Next() {
		var field, value string
		if err := rows.Scan(&field, &value); err != nil {
			return nil, fmt.Errorf("scan lead field: %w", err)
		}
		fields[field] = value
	}
	return fields, rows.Err()
}

func (s *PostgresStore) AddInteraction(ctx context.Context, workspaceID, phone string, interaction schema.Interaction) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO lead_interactions (workspace_id, phone, at, kind, note) VALUES ($1, $2, $3, $4, $5)`,
		workspaceID, phone, interaction.At, interaction.Kind, interaction.Note,
	)
	if err != nil {
		return fmt.Errorf("add interaction: %w", err)
	}
	return nil
}

func (s *PostgresStore) History(ctx context.Context, workspaceID, phone string) ([]schema.Interaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT at, kind, note FROM lead_interactions
		 WHERE workspace_id = $1 AND phone = $2 ORDER BY at DESC LIMIT $3`,
		workspaceID, phone, maxInteractions,
	)
	if err != nil {
		return nil, fmt.Errorf("read interactions: %w", err)
	}
	defer rows.Close()

	var out []schema.Interaction
	for rows.Next() {
		var interaction schema.Interaction
		if err := rows.Scan(&interaction.At, &interaction.Kind, &interaction.Note); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		out = append(out, interaction)
	}
	return out, rows.Err()
}

// Open builds the configured backend. backend is "redis" or "postgres".
func Open(backend, redisAddr, postgresDSN string) (schema.LeadStore, error) {
	switch strings.ToLower(backend) {
	case "", "redis":
		return NewRedisStore(redisAddr), nil
	case "postgres":
		return NewPostgresStore(postgresDSN)
	default:
		return nil, fmt.Errorf("leads: unknown backend %q", backend)
	}
}
