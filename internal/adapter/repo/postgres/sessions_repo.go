package postgres

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"

	"github.com/fairyhunter13/ai-interview-coach/internal/domain"
)

// SessionRepo persists interview sessions.
type SessionRepo struct{ Pool PgxPool }

// NewSessionRepo constructs a SessionRepo with the given pool.
func NewSessionRepo(p PgxPool) *SessionRepo { return &SessionRepo{Pool: p} }

// Upsert creates the session if absent; an existing row keeps its original
// owner and metadata.
func (r *SessionRepo) Upsert(ctx domain.Context, s domain.Session) (domain.Session, error) {
	tracer := otel.Tracer("repo.sessions")
	ctx, span := tracer.Start(ctx, "sessions.Upsert")
	defer span.End()
	meta, err := json.Marshal(s.Metadata)
	if err != nil {
		return domain.Session{}, fmt.Errorf("op=session.upsert: %w", err)
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	q := `INSERT INTO sessions (id, user_id, job_role, metadata, created_at) VALUES ($1,$2,$3,$4,$5)
	ON CONFLICT (id) DO NOTHING`
	if _, err := r.Pool.Exec(ctx, q, s.ID, s.UserID, s.JobRole, meta, s.CreatedAt); err != nil {
		return domain.Session{}, fmt.Errorf("op=session.upsert: %w", err)
	}
	return r.Get(ctx, s.ID)
}

// Get loads a session by id.
func (r *SessionRepo) Get(ctx domain.Context, id string) (domain.Session, error) {
	tracer := otel.Tracer("repo.sessions")
	ctx, span := tracer.Start(ctx, "sessions.Get")
	defer span.End()
	q := `SELECT id, user_id, job_role, metadata, created_at FROM sessions WHERE id=$1`
	row := r.Pool.QueryRow(ctx, q, id)
	var (
		s    domain.Session
		meta []byte
	)
	if err := row.Scan(&s.ID, &s.UserID, &s.JobRole, &meta, &s.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Session{}, fmt.Errorf("op=session.get: %w", domain.ErrNotFound)
		}
		return domain.Session{}, fmt.Errorf("op=session.get: %w", err)
	}
	if len(meta) > 0 {
		_ = json.Unmarshal(meta, &s.Metadata)
	}
	return s, nil
}
