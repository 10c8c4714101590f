package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf/v2"

	"notenexus-backend/internal/models"
)

const maxThumbnailBytes = 2 << 20

type PDFService struct {
	httpClient *http.Client
}

func NewPDFService() *PDFService {
	return &PDFService{httpClient: &http.Client{Timeout: 5 * time.Second}}
}

func newDocument(title string) (*gofpdf.Fpdf, func(string) string) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetAuthor("NoteNexus", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()
	// Core fonts are cp1252; this maps UTF-8 input onto it.
	return pdf, pdf.UnicodeTranslatorFromDescriptor("")
}

// WriteSummary renders title, "channel · date", the thumbnail when it can be
// fetched, and the summary paragraphs.
func (s *PDFService) WriteSummary(ctx context.Context, w io.Writer, summary *models.Summary) error {
	pdf, tr := newDocument(summary.Title)

	pdf.SetFont("Helvetica", "B", 20)
	pdf.MultiCell(0, 9, tr(summary.Title), "", "C", false)
	pdf.Ln(2)

	if details := summaryDetails(summary); details != "" {
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 6, tr(details), "", 1, "C", false, 0, "")
		pdf.Ln(4)
	}

	if summary.Thumbnail != nil && *summary.Thumbnail != "" {
		s.drawThumbnail(ctx, pdf, *summary.Thumbnail)
	}

	pdf.SetFont("Helvetica", "", 12)
	for _, para := range strings.Split(summary.Content, "\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		pdf.MultiCell(0, 6, tr(para), "", "L", false)
		pdf.Ln(3)
	}

	return output(pdf, w)
}

// WriteFlashcards renders one block per card.
func (s *PDFService) WriteFlashcards(w io.Writer, title string, cards []models.Flashcard) error {
	pdf, tr := newDocument("Flashcards: " + title)

	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 8, tr("Flashcards: "+title), "", "L", false)
	pdf.Ln(4)

	for i, c := range cards {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("%d. %s", i+1, c.Question)), "", "L", false)
		pdf.SetFont("Helvetica", "", 12)
		pdf.MultiCell(0, 6, tr(c.Answer), "", "L", false)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(0, 5, tr(c.Category), "", 1, "L", false, 0, "")
		pdf.Ln(3)
	}

	return output(pdf, w)
}

// WriteQuiz renders each question with lettered options, the answer and the
// explanation.
func (s *PDFService) WriteQuiz(w io.Writer, quiz *models.Quiz) error {
	pdf, tr := newDocument(quiz.Title)

	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 8, tr(quiz.Title), "", "L", false)
	pdf.Ln(4)

	for i, q := range quiz.Questions {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("%d. %s", i+1, q.Question)), "", "L", false)

		pdf.SetFont("Helvetica", "", 11)
		for j, opt := range q.Options {
			pdf.MultiCell(0, 6, tr(fmt.Sprintf("   %c) %s", 'A'+j, opt)), "", "L", false)
		}

		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 5, tr("Answer: "+q.CorrectAnswer), "", "L", false)
		if q.Explanation != "" {
			pdf.MultiCell(0, 5, tr(q.Explanation), "", "L", false)
		}
		pdf.Ln(4)
	}

	return output(pdf, w)
}

func summaryDetails(s *models.Summary) string {
	var parts []string
	if s.ChannelTitle != nil && *s.ChannelTitle != "" {
		parts = append(parts, *s.ChannelTitle)
	}
	if s.PublishedAt != nil {
		parts = append(parts, s.PublishedAt.Format("Jan 2, 2006"))
	}
	return strings.Join(parts, " · ")
}

// drawThumbnail is best effort. A thumbnail that cannot be fetched or decoded
// is left out.
func (s *PDFService) drawThumbnail(ctx context.Context, pdf *gofpdf.Fpdf, url string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		log.Printf("⚠ thumbnail fetch failed: %v", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxThumbnailBytes))
	if err != nil {
		return
	}

	imageType := "JPG"
	if strings.Contains(resp.Header.Get("Content-Type"), "png") {
		imageType = "PNG"
	}

	opts := gofpdf.ImageOptions{ImageType: imageType, ReadDpi: false}
	pdf.RegisterImageOptionsReader("thumbnail", opts, bytes.NewReader(data))
	if pdf.Err() {
		log.Printf("⚠ thumbnail decode failed: %v", pdf.Error())
		pdf.ClearError()
		return
	}

	const width, height = 80.0, 45.0
	pageWidth, _ := pdf.GetPageSize()
	x := (pageWidth - width) / 2
	pdf.ImageOptions("thumbnail", x, pdf.GetY(), width, height, false, opts, 0, "")
	pdf.SetY(pdf.GetY() + height + 6)
}

func output(pdf *gofpdf.Fpdf, w io.Writer) error {
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
