package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"notenexus-backend/internal/middleware"
	"notenexus-backend/internal/models"
)

type pdfRenderer interface {
	WriteSummary(ctx context.Context, w io.Writer, summary *models.Summary) error
	WriteFlashcards(w io.Writer, title string, cards []models.Flashcard) error
	WriteQuiz(w io.Writer, quiz *models.Quiz) error
}

type ExportHandler struct {
	pdf         pdfRenderer
	summaryRepo summaryRepository
	flashRepo   flashcardRepository
	quizRepo    quizRepository
}

func NewExportHandler(pdf pdfRenderer, summaryRepo summaryRepository, flashRepo flashcardRepository, quizRepo quizRepository) *ExportHandler {
	return &ExportHandler{
		pdf:         pdf,
		summaryRepo: summaryRepo,
		flashRepo:   flashRepo,
		quizRepo:    quizRepo,
	}
}

func (h *ExportHandler) SummaryPDF(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", "Invalid summary ID")
	if !ok {
		return
	}
	summary, ok := loadOwnedSummary(w, r, h.summaryRepo, id)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.pdf.WriteSummary(r.Context(), &buf, summary); err != nil {
		h.renderFailed(w, r, "summary", id, err)
		return
	}
	writePDF(w, pdfFilename(summary.Title, "summary"), &buf)
}

func (h *ExportHandler) FlashcardsPDF(w http.ResponseWriter, r *http.Request) {
	summaryID, ok := uuidParam(w, r, "summaryId", "Invalid summary ID")
	if !ok {
		return
	}
	summary, ok := loadOwnedSummary(w, r, h.summaryRepo, summaryID)
	if !ok {
		return
	}

	userID := middleware.GetUserID(r.Context())
	cards, err := h.flashRepo.ListBySummary(r.Context(), userID, summaryID)
	if err != nil {
		log.Printf("failed to list flashcards for export %s: %v", summaryID, err)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch flashcards", r))
		return
	}
	if len(cards) == 0 {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "No flashcards for this summary", r))
		return
	}

	var buf bytes.Buffer
	if err := h.pdf.WriteFlashcards(&buf, summary.Title, cards); err != nil {
		h.renderFailed(w, r, "flashcards", summaryID, err)
		return
	}
	writePDF(w, pdfFilename(summary.Title, "flashcards"), &buf)
}

func (h *ExportHandler) QuizPDF(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", "Invalid quiz ID")
	if !ok {
		return
	}
	quiz, ok := loadOwnedQuiz(w, r, h.quizRepo, id)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.pdf.WriteQuiz(&buf, quiz); err != nil {
		h.renderFailed(w, r, "quiz", id, err)
		return
	}
	writePDF(w, pdfFilename(quiz.Title, "quiz"), &buf)
}

func (h *ExportHandler) renderFailed(w http.ResponseWriter, r *http.Request, kind string, id uuid.UUID, err error) {
	log.Printf("failed to render %s PDF %s: %v", kind, id, err)
	writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to generate PDF", r))
}

// Rendering goes to a buffer first so a failure can still produce a JSON error.
func writePDF(w http.ResponseWriter, filename string, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

var unsafeFilename = regexp.MustCompile(`[^a-z0-9]+`)

func pdfFilename(title, suffix string) string {
	base := strings.Trim(unsafeFilename.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if len(base) > 60 {
		base = strings.TrimRight(base[:60], "-")
	}
	if base == "" {
		return suffix + ".pdf"
	}
	return base + "-" + suffix + ".pdf"
}
