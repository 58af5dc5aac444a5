package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/vncsmyrnk/survey/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/survey/internal/config"
	"github.com/vncsmyrnk/survey/internal/core/services"
	"github.com/vncsmyrnk/survey/internal/logger"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load("answersummary", args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.New(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return fmt.Errorf("failed to configure logger: %w", err)
	}

	db, err := sql.Open("postgres", cfg.DB.ConnString())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	// Bound the job so a stuck query cannot hang it indefinitely.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to reach database: %w", err)
	}

	summaryService := services.NewSummaryService(
		postgres.NewPollRepository(db),
		postgres.NewQuestionResultRepository(db),
		log,
	)

	log.Info().Msg("starting answer summarization job")

	start := time.Now()
	if err := summaryService.SummarizeAllAnswers(ctx); err != nil {
		log.Error().Err(err).Msg("error summarizing answers")
		return err
	}

	log.Info().Dur("elapsed", time.Since(start)).Msg("answer summarization completed successfully")
	return nil
}
