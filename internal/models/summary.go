package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	SourceAI         = "ai"
	SourceExtractive = "extractive"
	SourceFallback   = "fallback"
)

type Summary struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"user_id"`
	Title        string     `json:"title"`
	YouTubeURL   string     `json:"youtube_url"`
	VideoID      string     `json:"video_id"`
	Transcript   string     `json:"transcript"`
	Content      string     `json:"summary"`
	Source       string     `json:"source"` // "ai" | "extractive"
	Thumbnail    *string    `json:"thumbnail"`
	ChannelTitle *string    `json:"channel_title"`
	PublishedAt  *time.Time `json:"published_at"`
	CreatedAt    time.Time  `json:"created_at"`
}

type CreateSummaryRequest struct {
	YouTubeURL string `json:"youtube_url"`
}

// StudyPack is a summary together with everything derived from it.
type StudyPack struct {
	Summary    *Summary    `json:"summary"`
	Flashcards []Flashcard `json:"flashcards"`
	Quiz       *Quiz       `json:"quiz"`
}
