package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"notenexus-backend/internal/models"
)

type SummaryRepo struct {
	pool *pgxpool.Pool
}

func NewSummaryRepo(pool *pgxpool.Pool) *SummaryRepo {
	return &SummaryRepo{pool: pool}
}

const summaryColumns = `id, user_id, title, youtube_url, video_id, transcript, content, source,
	thumbnail_url, channel_title, published_at, created_at`

func scanSummary(row interface{ Scan(dest ...any) error }) (*models.Summary, error) {
	s := &models.Summary{}
	err := row.Scan(
		&s.ID, &s.UserID, &s.Title, &s.YouTubeURL, &s.VideoID, &s.Transcript, &s.Content, &s.Source,
		&s.Thumbnail, &s.ChannelTitle, &s.PublishedAt, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SummaryRepo) Create(ctx context.Context, s *models.Summary) error {
	s.ID = uuid.New()

	query := `INSERT INTO summaries (id, user_id, title, youtube_url, video_id, transcript, content, source,
			thumbnail_url, channel_title, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		s.ID, s.UserID, s.Title, s.YouTubeURL, s.VideoID, s.Transcript, s.Content, s.Source,
		s.Thumbnail, s.ChannelTitle, s.PublishedAt,
	).Scan(&s.CreatedAt)
}

func (r *SummaryRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Summary, error) {
	return scanSummary(r.pool.QueryRow(ctx, `SELECT `+summaryColumns+` FROM summaries WHERE id = $1`, id))
}

func (r *SummaryRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Summary, int, error) {
	var total int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM summaries WHERE user_id = $1", userID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+summaryColumns+` FROM summaries WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	summaries := make([]*models.Summary, 0)
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, 0, err
		}
		summaries = append(summaries, s)
	}
	return summaries, total, rows.Err()
}

// Delete removes the summary if userID owns it. Flashcards and quizzes go
// with it through ON DELETE CASCADE.
func (r *SummaryRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM summaries WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
