package models

import (
	"time"

	"github.com/google/uuid"
)

type Quiz struct {
	ID        uuid.UUID      `json:"id"`
	UserID    uuid.UUID      `json:"user_id"`
	SummaryID uuid.UUID      `json:"summary_id"`
	Title     string         `json:"title"`
	Questions []QuizQuestion `json:"questions"`
	Source    string         `json:"source"`
	CreatedAt time.Time      `json:"created_at"`
}

type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

type GenerateQuizRequest struct {
	SummaryID uuid.UUID `json:"summary_id"`
}
