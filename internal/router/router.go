package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"notenexus-backend/internal/handlers"
	"notenexus-backend/internal/middleware"
	"notenexus-backend/internal/websocket"
)

// Requests only ever carry small JSON documents.
const maxBodyBytes = 1 << 20

func New(
	jwtAuth *middleware.JWTAuth,
	authLimiter *middleware.RateLimiter,
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	summaryHandler *handlers.SummaryHandler,
	flashcardHandler *handlers.FlashcardHandler,
	quizHandler *handlers.QuizHandler,
	exportHandler *handlers.ExportHandler,
	wsHub *websocket.Hub,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))
	r.Use(middleware.MaxBodySize(maxBodyBytes))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Auth Routes (public) ────
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/google", authHandler.Google)
			r.Post("/password/forgot", authHandler.ForgotPassword)
			r.Post("/password/reset", authHandler.ResetPassword)

			// Logout requires auth
			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// ──── Profile Routes ────
		r.Route("/profile", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", profileHandler.Get)
			r.Put("/", profileHandler.Update)
			r.Get("/stats", profileHandler.Stats)
		})

		// ──── Summary Routes ────
		r.Route("/summaries", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/", summaryHandler.Create)
			r.Post("/study-pack", summaryHandler.StudyPack)
			r.Get("/", summaryHandler.List)
			r.Get("/{id}", summaryHandler.Get)
			r.Delete("/{id}", summaryHandler.Delete)
		})

		// ──── Flashcard Routes ────
		r.Route("/flashcards", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/generate", flashcardHandler.Generate)
			r.Get("/summary/{summaryId}", flashcardHandler.ListBySummary)
			r.Delete("/summary/{summaryId}", flashcardHandler.DeleteBySummary)
			r.Delete("/{id}", flashcardHandler.Delete)
		})

		// ──── Quiz Routes ────
		r.Route("/quizzes", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/generate", quizHandler.Generate)
			r.Get("/", quizHandler.List)
			r.Get("/{id}", quizHandler.Get)
			r.Delete("/{id}", quizHandler.Delete)
		})

		// ──── PDF Export ────
		r.Route("/export", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/summaries/{id}/pdf", exportHandler.SummaryPDF)
			r.Get("/flashcards/{summaryId}/pdf", exportHandler.FlashcardsPDF)
			r.Get("/quizzes/{id}/pdf", exportHandler.QuizPDF)
		})

		// ──── WebSocket ────
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
