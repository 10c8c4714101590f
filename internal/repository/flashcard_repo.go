package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"notenexus-backend/internal/models"
)

type FlashcardRepo struct {
	pool *pgxpool.Pool
}

func NewFlashcardRepo(pool *pgxpool.Pool) *FlashcardRepo {
	return &FlashcardRepo{pool: pool}
}

// numberCards assigns fresh ids and records each card's place in the set.
// Every row of one CreateMany shares the transaction's NOW(), so position is
// the only thing that keeps the set in generation order.
func numberCards(cards []models.Flashcard) {
	for i := range cards {
		cards[i].ID = uuid.New()
		cards[i].Position = i
	}
}

// CreateMany inserts cards in one transaction, filling in their ids,
// positions and creation times.
func (r *FlashcardRepo) CreateMany(ctx context.Context, cards []models.Flashcard) error {
	numberCards(cards)
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		for i := range cards {
			err := tx.QueryRow(ctx,
				`INSERT INTO flashcards (id, user_id, summary_id, question, answer, category, position)
				 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at`,
				cards[i].ID, cards[i].UserID, cards[i].SummaryID,
				cards[i].Question, cards[i].Answer, cards[i].Category, cards[i].Position,
			).Scan(&cards[i].CreatedAt)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *FlashcardRepo) ListBySummary(ctx context.Context, userID, summaryID uuid.UUID) ([]models.Flashcard, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, summary_id, question, answer, category, position, created_at
		 FROM flashcards WHERE user_id = $1 AND summary_id = $2
		 ORDER BY created_at ASC, position ASC`,
		userID, summaryID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cards := make([]models.Flashcard, 0)
	for rows.Next() {
		var c models.Flashcard
		if err := rows.Scan(&c.ID, &c.UserID, &c.SummaryID, &c.Question, &c.Answer, &c.Category, &c.Position, &c.CreatedAt); err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// Delete removes one card owned by userID. pgx.ErrNoRows means no such card.
func (r *FlashcardRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM flashcards WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// DeleteBySummary returns how many cards were removed.
func (r *FlashcardRepo) DeleteBySummary(ctx context.Context, userID, summaryID uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx, "DELETE FROM flashcards WHERE user_id = $1 AND summary_id = $2", userID, summaryID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
