package services

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"notenexus-backend/internal/models"
	"notenexus-backend/internal/repository"
)

type summaryStore interface {
	Create(ctx context.Context, s *models.Summary) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Summary, error)
}

type flashcardStore interface {
	CreateMany(ctx context.Context, cards []models.Flashcard) error
}

type quizStore interface {
	GetBySummary(ctx context.Context, userID, summaryID uuid.UUID) (*models.Quiz, error)
	Create(ctx context.Context, q *models.Quiz) error
}

// Publisher delivers progress events to a user's live connections.
type Publisher interface {
	PublishUpdate(ctx context.Context, userID uuid.UUID, msg models.WSMessage)
}

// StudyService runs the URL to summary to flashcards and quiz pipeline and
// persists every artifact under the requesting user.
type StudyService struct {
	transcripts *TranscriptAcquirer
	summarizer  *Summarizer
	flashcards  *FlashcardGenerator
	quizzes     *QuizGenerator

	summaryStore   summaryStore
	flashcardStore flashcardStore
	quizStore      quizStore
	events         Publisher
}

func NewStudyService(
	transcripts *TranscriptAcquirer,
	summarizer *Summarizer,
	flashcards *FlashcardGenerator,
	quizzes *QuizGenerator,
	summaries summaryStore,
	cards flashcardStore,
	quizRepo quizStore,
	events Publisher,
) *StudyService {
	return &StudyService{
		transcripts:    transcripts,
		summarizer:     summarizer,
		flashcards:     flashcards,
		quizzes:        quizzes,
		summaryStore:   summaries,
		flashcardStore: cards,
		quizStore:      quizRepo,
		events:         events,
	}
}

// CreateSummary validates the URL, fetches a transcript, summarizes it and
// stores the result.
func (s *StudyService) CreateSummary(ctx context.Context, userID uuid.UUID, rawURL string) (*models.Summary, error) {
	ref, err := ValidateURL(rawURL)
	if err != nil {
		return nil, err
	}

	s.progress(ctx, userID, 1, "Fetching Transcript")
	transcript, err := s.transcripts.FetchTranscript(ctx, ref)
	if err != nil {
		return nil, err
	}

	s.progress(ctx, userID, 2, "Generating Summary")
	result, err := s.summarizer.Summarize(ctx, transcript.Text)
	if err != nil {
		return nil, err
	}

	summary := &models.Summary{
		UserID:     userID,
		Title:      transcript.Video.Title,
		YouTubeURL: rawURL,
		VideoID:    ref.VideoID,
		Transcript: transcript.Text,
		Content:    result.Text,
		Source:     result.Source,
	}
	if summary.Title == "" {
		summary.Title = "YouTube video " + ref.VideoID
	}
	if v := transcript.Video; v.ThumbnailURL != "" {
		summary.Thumbnail = &v.ThumbnailURL
	}
	if v := transcript.Video; v.ChannelTitle != "" {
		summary.ChannelTitle = &v.ChannelTitle
	}
	if v := transcript.Video; !v.PublishedAt.IsZero() {
		summary.PublishedAt = &v.PublishedAt
	}

	if err := s.summaryStore.Create(ctx, summary); err != nil {
		return nil, persistenceErr("save summary", err)
	}

	s.completed(ctx, userID, summary.ID, "summary", summary.Source)
	return summary, nil
}

// GenerateFlashcards derives cards from a stored summary owned by userID and
// appends them to that summary's deck.
func (s *StudyService) GenerateFlashcards(ctx context.Context, userID, summaryID uuid.UUID) ([]models.Flashcard, error) {
	summary, err := s.ownedSummary(ctx, userID, summaryID)
	if err != nil {
		return nil, err
	}
	return s.flashcardsFor(ctx, summary)
}

// GenerateQuiz returns the existing quiz for the summary when there is one.
// The bool result reports whether a new quiz was created.
func (s *StudyService) GenerateQuiz(ctx context.Context, userID, summaryID uuid.UUID) (*models.Quiz, bool, error) {
	summary, err := s.ownedSummary(ctx, userID, summaryID)
	if err != nil {
		return nil, false, err
	}
	return s.quizFor(ctx, summary)
}

// BuildStudyPack creates a summary and then its flashcards and quiz
// concurrently.
func (s *StudyService) BuildStudyPack(ctx context.Context, userID uuid.UUID, rawURL string) (*models.StudyPack, error) {
	summary, err := s.CreateSummary(ctx, userID, rawURL)
	if err != nil {
		return nil, err
	}

	pack := &models.StudyPack{Summary: summary}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cards, err := s.flashcardsFor(gctx, summary)
		pack.Flashcards = cards
		return err
	})
	g.Go(func() error {
		quiz, _, err := s.quizFor(gctx, summary)
		pack.Quiz = quiz
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pack, nil
}

func (s *StudyService) flashcardsFor(ctx context.Context, summary *models.Summary) ([]models.Flashcard, error) {
	s.progress(ctx, summary.UserID, 3, "Creating Flashcards")
	result := s.flashcards.Generate(ctx, summary.Content)

	cards := make([]models.Flashcard, len(result.Cards))
	for i, c := range result.Cards {
		c.UserID = summary.UserID
		c.SummaryID = summary.ID
		cards[i] = c
	}
	if err := s.flashcardStore.CreateMany(ctx, cards); err != nil {
		return nil, persistenceErr("save flashcards", err)
	}

	s.completed(ctx, summary.UserID, summary.ID, "flashcards", result.Source)
	return cards, nil
}

func (s *StudyService) quizFor(ctx context.Context, summary *models.Summary) (*models.Quiz, bool, error) {
	existing, err := s.quizStore.GetBySummary(ctx, summary.UserID, summary.ID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, persistenceErr("load quiz", err)
	}

	s.progress(ctx, summary.UserID, 3, "Generating Questions")
	result := s.quizzes.Generate(ctx, summary.Content, summary.Title)

	quiz := result.Quiz
	quiz.UserID = summary.UserID
	quiz.SummaryID = summary.ID
	if err := s.quizStore.Create(ctx, &quiz); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// A concurrent request won the insert; hand back its quiz.
			existing, err := s.quizStore.GetBySummary(ctx, summary.UserID, summary.ID)
			if err != nil {
				return nil, false, persistenceErr("load quiz", err)
			}
			return existing, false, nil
		}
		return nil, false, persistenceErr("save quiz", err)
	}

	s.completed(ctx, summary.UserID, quiz.ID, "quiz", result.Source)
	return &quiz, true, nil
}

// ownedSummary hides summaries belonging to other users behind NotFound.
func (s *StudyService) ownedSummary(ctx context.Context, userID, summaryID uuid.UUID) (*models.Summary, error) {
	summary, err := s.summaryStore.GetByID(ctx, summaryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Summary not found"}
		}
		return nil, persistenceErr("load summary", err)
	}
	if summary.UserID != userID {
		return nil, &NotFoundError{Message: "Summary not found"}
	}
	return summary, nil
}

func (s *StudyService) progress(ctx context.Context, userID uuid.UUID, step int, name string) {
	if s.events == nil {
		return
	}
	s.events.PublishUpdate(ctx, userID, models.WSMessage{
		Type:    "status_update",
		Payload: models.StatusUpdate{Step: step, StepName: name},
	})
}

func (s *StudyService) completed(ctx context.Context, userID, resultID uuid.UUID, kind, source string) {
	if source == models.SourceFallback || source == models.SourceExtractive {
		log.Printf("⚠ %s %s for user %s produced by %s path", kind, resultID, userID, source)
	}
	if s.events == nil {
		return
	}
	s.events.PublishUpdate(ctx, userID, models.WSMessage{
		Type:    "completed",
		Payload: models.CompletedEvent{ResultID: resultID, ResultType: kind, Source: source},
	})
}
