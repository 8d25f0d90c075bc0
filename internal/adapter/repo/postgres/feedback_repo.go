package postgres

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fairyhunter13/ai-interview-coach/internal/domain"
)

// FeedbackRepo stores feedback as one JSONB document per (session, user)
// with a few indexed scalar columns for listing. Legacy v1 documents live in
// the same column; the doc's own feedbackVersion field tells readers apart.
type FeedbackRepo struct{ Pool PgxPool }

// NewFeedbackRepo constructs a FeedbackRepo with the given pool.
func NewFeedbackRepo(p PgxPool) *FeedbackRepo { return &FeedbackRepo{Pool: p} }

// Upsert fully replaces any existing document for (SessionID, UserID) and
// returns the row id. Resubmitting a session overwrites, last writer wins.
func (r *FeedbackRepo) Upsert(ctx domain.Context, f domain.SessionFeedback) (string, error) {
	tracer := otel.Tracer("repo.feedback")
	ctx, span := tracer.Start(ctx, "feedback.Upsert")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.sql.table", "feedback"),
	)

	id := f.ID
	if id == "" {
		id = uuid.New().String()
	}
	f.ID = ""
	doc, err := json.Marshal(f)
	if err != nil {
		return "", fmt.Errorf("op=feedback.upsert: %w", err)
	}

	q := `INSERT INTO feedback (id, session_id, user_id, overall_score, overall_grade, feedback_version, generated_at, doc, created_at, updated_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$9)
	ON CONFLICT (session_id, user_id)
	DO UPDATE SET overall_score=EXCLUDED.overall_score, overall_grade=EXCLUDED.overall_grade,
		feedback_version=EXCLUDED.feedback_version, generated_at=EXCLUDED.generated_at,
		doc=EXCLUDED.doc, updated_at=EXCLUDED.updated_at
	RETURNING id`
	row := r.Pool.QueryRow(ctx, q, id, f.SessionID, f.UserID, f.OverallScore, f.OverallGrade, f.FeedbackVersion, f.GeneratedAt, doc, time.Now().UTC())
	var stored string
	if err := row.Scan(&stored); err != nil {
		return "", fmt.Errorf("op=feedback.upsert: %w", err)
	}
	return stored, nil
}

// GetBySession loads the document for a session.
func (r *FeedbackRepo) GetBySession(ctx domain.Context, sessionID string) (domain.SessionFeedback, error) {
	tracer := otel.Tracer("repo.feedback")
	ctx, span := tracer.Start(ctx, "feedback.GetBySession")
	defer span.End()
	q := `SELECT id, doc FROM feedback WHERE session_id=$1`
	return r.scanDoc(r.Pool.QueryRow(ctx, q, sessionID))
}

// ListByUser returns one page of the user's documents, newest first, plus
// the total count.
func (r *FeedbackRepo) ListByUser(ctx domain.Context, userID string, page, limit int) ([]domain.SessionFeedback, int64, error) {
	tracer := otel.Tracer("repo.feedback")
	ctx, span := tracer.Start(ctx, "feedback.ListByUser")
	defer span.End()
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	var total int64
	if err := r.Pool.QueryRow(ctx, `SELECT count(*) FROM feedback WHERE user_id=$1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("op=feedback.list: %w", err)
	}

	q := `SELECT id, doc FROM feedback WHERE user_id=$1 ORDER BY generated_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.Pool.Query(ctx, q, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("op=feedback.list: %w", err)
	}
	defer rows.Close()

	var out []domain.SessionFeedback
	for rows.Next() {
		f, err := r.scanDoc(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("op=feedback.list: %w", err)
	}
	return out, total, nil
}

// ListChronological returns the user's full history oldest first.
func (r *FeedbackRepo) ListChronological(ctx domain.Context, userID string) ([]domain.SessionFeedback, error) {
	tracer := otel.Tracer("repo.feedback")
	ctx, span := tracer.Start(ctx, "feedback.ListChronological")
	defer span.End()
	q := `SELECT id, doc FROM feedback WHERE user_id=$1 ORDER BY generated_at ASC`
	rows, err := r.Pool.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("op=feedback.history: %w", err)
	}
	defer rows.Close()

	var out []domain.SessionFeedback
	for rows.Next() {
		f, err := r.scanDoc(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=feedback.history: %w", err)
	}
	return out, nil
}

func (r *FeedbackRepo) scanDoc(row pgx.Row) (domain.SessionFeedback, error) {
	var (
		id  string
		doc []byte
	)
	if err := row.Scan(&id, &doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.SessionFeedback{}, fmt.Errorf("op=feedback.get: %w", domain.ErrNotFound)
		}
		return domain.SessionFeedback{}, fmt.Errorf("op=feedback.get: %w", err)
	}
	var f domain.SessionFeedback
	if err := json.Unmarshal(doc, &f); err != nil {
		return domain.SessionFeedback{}, fmt.Errorf("op=feedback.get: %w", err)
	}
	f.ID = id
	return f, nil
}
