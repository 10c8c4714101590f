package models

import (
	"time"

	"github.com/google/uuid"
)

const DefaultFlashcardCategory = "General"

type Flashcard struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	SummaryID uuid.UUID `json:"summary_id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Category  string    `json:"category"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

type GenerateFlashcardsRequest struct {
	SummaryID uuid.UUID `json:"summary_id"`
}
