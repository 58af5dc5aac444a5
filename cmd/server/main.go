package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	rediscache "github.com/vncsmyrnk/survey/internal/adapters/cache/redis"
	"github.com/vncsmyrnk/survey/internal/adapters/handler/http"
	"github.com/vncsmyrnk/survey/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/survey/internal/config"
	"github.com/vncsmyrnk/survey/internal/core/ports"
	"github.com/vncsmyrnk/survey/internal/core/services"
	"github.com/vncsmyrnk/survey/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load("server", os.Args[1:])
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.ValidateAuth(); err != nil {
		return err
	}

	log, err := logger.New(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return fmt.Errorf("failed to configure logger: %w", err)
	}

	db, err := sql.Open("postgres", cfg.DB.ConnString())
	if err != nil {
		return err
	}
	defer db.Close()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelPing()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("failed to reach database: %w", err)
	}

	pollRepo := postgres.NewPollRepository(db)
	questionRepo := postgres.NewQuestionRepository(db)
	respondentRepo := postgres.NewRespondentRepository(db)
	answerRepo := postgres.NewAnswerRepository(db)
	resultRepo := postgres.NewQuestionResultRepository(db)

	var cache ports.PollCache
	if cfg.Redis.Enabled() {
		client := rediscache.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer client.Close()
		if err := client.Ping(pingCtx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable, active polls will not be cached")
		} else {
			cache = rediscache.NewPollCache(client, cfg.ActivePollsTTL)
			log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.ActivePollsTTL).Msg("active poll cache enabled")
		}
	}

	pollService := services.NewPollService(pollRepo, questionRepo, respondentRepo, answerRepo, cache, log)
	questionService := services.NewQuestionService(questionRepo, pollRepo, resultRepo, cache, log)
	respondentService := services.NewRespondentService(respondentRepo, log)
	answerService := services.NewAnswerService(questionRepo, respondentRepo, answerRepo, log)
	authService := services.NewAuthService(services.AuthConfig{
		JWTSecret:         cfg.JWTSecret,
		AdminUsername:     cfg.AdminUsername,
		AdminPasswordHash: cfg.AdminPasswordHash,
		TokenTTL:          cfg.TokenTTL,
	}, log)

	handler := http.NewHandler(http.Handlers{
		Polls:       http.NewPollHandler(pollService),
		Questions:   http.NewQuestionHandler(questionService),
		Respondents: http.NewRespondentHandler(respondentService, pollService),
		Answers:     http.NewAnswerHandler(answerService),
		Auth:        http.NewAuthHandler(authService),
	}, http.RouterConfig{
		AuthService:    authService,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         log,
		Health:         db.PingContext,
	})

	server := &stdhttp.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return shutdown(shutdownCtx, server, log)
}

func shutdown(ctx context.Context, server *stdhttp.Server, log zerolog.Logger) error {
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}
