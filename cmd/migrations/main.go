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
	"github.com/vncsmyrnk/survey/internal/logger"
)

// Usage: migrations [flags] [name]
//
// Without a name every up migration is applied in order. With one, the
// single file ending in name.sql runs, e.g. "create_answers.down".
func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load("migrations", args)
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

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	name := ""
	if len(cfg.Args) > 0 {
		name = cfg.Args[0]
	}

	if name == "" {
		err = postgres.Migrate(ctx, db)
	} else {
		err = postgres.MigrateOne(ctx, db, name)
	}
	if err != nil {
		return fmt.Errorf("migration %q failed: %w", name, err)
	}

	log.Info().Str("migration", name).Msg("migration executed successfully")
	return nil
}
