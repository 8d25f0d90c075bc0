package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"

	"github.com/fairyhunter13/ai-interview-coach/internal/domain"
)

// QuestionRepo persists generated interview questions.
type QuestionRepo struct{ Pool PgxPool }

// NewQuestionRepo constructs a QuestionRepo with the given pool.
func NewQuestionRepo(p PgxPool) *QuestionRepo { return &QuestionRepo{Pool: p} }

// SaveIfAbsent stores the question unless one with the same id exists.
// Questions are immutable once stored.
func (r *QuestionRepo) SaveIfAbsent(ctx domain.Context, q domain.Question) error {
	tracer := otel.Tracer("repo.questions")
	ctx, span := tracer.Start(ctx, "questions.SaveIfAbsent")
	defer span.End()
	sql := `INSERT INTO questions (id, text, type, difficulty, coding, expected_duration, created_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7)
	ON CONFLICT (id) DO NOTHING`
	_, err := r.Pool.Exec(ctx, sql, q.ID, q.Text, q.Type, q.Difficulty, q.Coding, q.ExpectedDuration, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("op=question.save: %w", err)
	}
	return nil
}

// Get loads a question by id.
func (r *QuestionRepo) Get(ctx domain.Context, id string) (domain.Question, error) {
	tracer := otel.Tracer("repo.questions")
	ctx, span := tracer.Start(ctx, "questions.Get")
	defer span.End()
	sql := `SELECT id, text, type, difficulty, coding, expected_duration FROM questions WHERE id=$1`
	row := r.Pool.QueryRow(ctx, sql, id)
	var q domain.Question
	if err := row.Scan(&q.ID, &q.Text, &q.Type, &q.Difficulty, &q.Coding, &q.ExpectedDuration); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Question{}, fmt.Errorf("op=question.get: %w", domain.ErrNotFound)
		}
		return domain.Question{}, fmt.Errorf("op=question.get: %w", err)
	}
	return q, nil
}
