package conversation

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps session history in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS conversation_turns (
			seq BIGSERIAL PRIMARY KEY,
			id TEXT NOT NULL,
			session_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_conversation_turns_session_seq ON conversation_turns (session_id, seq);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *PostgresStore) History(ctx context.Context, sessionID string) ([]Record, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, role, content, created_at FROM (
			SELECT seq, id, role, content, created_at
			FROM conversation_turns
			WHERE session_id = $1
			ORDER BY seq DESC
			LIMIT $2
		) recent ORDER BY seq ASC`,
		sessionID, HistoryCap,
	)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Role, &r.Content, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate turns: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) AppendExchange(ctx context.Context, sessionID string, user, model Record) error {
	stampRecord(&user, RoleUser)
	stampRecord(&model, RoleModel)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, r := range []Record{user, model} {
		if _, err := tx.Exec(ctx,
			`INSERT INTO conversation_turns (id, session_id, role, content, created_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			r.ID, sessionID, r.Role, r.Content, r.CreatedAt,
		); err != nil {
			return fmt.Errorf("save turn: %w", err)
		}
	}

	// Enforce the cap at write time so reads never see an over-long session.
	if _, err := tx.Exec(ctx,
		`DELETE FROM conversation_turns
		 WHERE session_id = $1 AND seq NOT IN (
			SELECT seq FROM conversation_turns
			WHERE session_id = $1
			ORDER BY seq DESC
			LIMIT $2
		 )`,
		sessionID, HistoryCap,
	); err != nil {
		return fmt.Errorf("truncate history: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit append: %w", err)
	}
	return nil
}

func (s *PostgresStore) Clear(ctx context.Context, sessionID string) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM conversation_turns WHERE session_id = $1`, sessionID)
	if err != nil {
		return false, fmt.Errorf("clear history: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
