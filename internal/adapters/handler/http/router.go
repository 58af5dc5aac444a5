package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/vncsmyrnk/survey/internal/core/ports"
)

type Handlers struct {
	Polls       *PollHandler
	Questions   *QuestionHandler
	Respondents *RespondentHandler
	Answers     *AnswerHandler
	Auth        *AuthHandler
}

type RouterConfig struct {
	AuthService    ports.AuthService
	AllowedOrigins []string
	Logger         zerolog.Logger
	// Health, when set, backs GET /health.
	Health func(ctx context.Context) error
}

func NewHandler(h Handlers, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(cfg.Logger))
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	admin := RequireAdmin(cfg.AuthService)

	r.Get("/health", healthHandler(cfg.Health))
	r.Post("/auth/token", h.Auth.Token)

	r.Route("/poll", func(r chi.Router) {
		r.Get("/active", h.Polls.ListActive)
		r.Get("/{id}/history/{respondent_id}", h.Polls.PollHistory)

		r.Group(func(r chi.Router) {
			r.Use(admin)
			r.Post("/", h.Polls.Create)
			r.Get("/", h.Polls.List)
			r.Get("/{id}", h.Polls.Get)
			r.Put("/{id}", h.Polls.Update)
			r.Delete("/{id}", h.Polls.Delete)
		})
	})

	r.Route("/question", func(r chi.Router) {
		r.Use(admin)
		r.Post("/", h.Questions.Create)
		r.Get("/by-poll/{poll_id}", h.Questions.ListByPoll)
		r.Put("/{id}", h.Questions.Update)
		r.Delete("/{id}", h.Questions.Delete)
		r.Get("/{id}/results", h.Questions.Results)
	})

	r.Route("/respondent", func(r chi.Router) {
		r.Post("/", h.Respondents.Register)
		r.Get("/{id}/history", h.Respondents.History)
	})

	r.Post("/answer", h.Answers.Submit)

	return r
}

func healthHandler(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				hlog.FromRequest(r).Warn().Err(err).Msg("health check failed")
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
