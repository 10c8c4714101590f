package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"notenexus-backend/internal/models"
)

type QuizRepo struct {
	pool *pgxpool.Pool
}

func NewQuizRepo(pool *pgxpool.Pool) *QuizRepo {
	return &QuizRepo{pool: pool}
}

const quizColumns = `id, user_id, summary_id, title, questions, source, created_at`

func scanQuiz(row interface{ Scan(dest ...any) error }) (*models.Quiz, error) {
	q := &models.Quiz{}
	var questions []byte
	if err := row.Scan(&q.ID, &q.UserID, &q.SummaryID, &q.Title, &questions, &q.Source, &q.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(questions, &q.Questions); err != nil {
		return nil, fmt.Errorf("decode quiz %s questions: %w", q.ID, err)
	}
	return q, nil
}

// ErrDuplicate means a unique constraint rejected the insert.
var ErrDuplicate = errors.New("duplicate row")

const uniqueViolation = "23505"

// Create inserts q. A summary holds at most one quiz per user; a second insert
// returns ErrDuplicate.
func (r *QuizRepo) Create(ctx context.Context, q *models.Quiz) error {
	q.ID = uuid.New()
	questions, err := json.Marshal(q.Questions)
	if err != nil {
		return fmt.Errorf("encode quiz questions: %w", err)
	}

	query := `INSERT INTO quizzes (id, user_id, summary_id, title, questions, source)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at`

	err = r.pool.QueryRow(ctx, query,
		q.ID, q.UserID, q.SummaryID, q.Title, questions, q.Source,
	).Scan(&q.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicate
	}
	return err
}

func (r *QuizRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Quiz, error) {
	return scanQuiz(r.pool.QueryRow(ctx, `SELECT `+quizColumns+` FROM quizzes WHERE id = $1`, id))
}

func (r *QuizRepo) GetBySummary(ctx context.Context, userID, summaryID uuid.UUID) (*models.Quiz, error) {
	return scanQuiz(r.pool.QueryRow(ctx,
		`SELECT `+quizColumns+` FROM quizzes WHERE user_id = $1 AND summary_id = $2`,
		userID, summaryID,
	))
}

func (r *QuizRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Quiz, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+quizColumns+` FROM quizzes WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	quizzes := make([]*models.Quiz, 0)
	for rows.Next() {
		q, err := scanQuiz(rows)
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, rows.Err()
}

func (r *QuizRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM quizzes WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
