package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/vncsmyrnk/survey/internal/config"
	"github.com/vncsmyrnk/survey/internal/core/services"
	"golang.org/x/crypto/bcrypt"
)

// admintoken prints a signed admin token, or with -hash a bcrypt hash
// suitable for ADMIN_PASSWORD_HASH.
func main() {
	var (
		subject  string
		ttl      time.Duration
		password string
	)
	fs := flag.NewFlagSet("admintoken", flag.ExitOnError)
	fs.StringVar(&subject, "subject", "admin", "Token subject")
	fs.DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	fs.StringVar(&password, "hash", "", "Print the bcrypt hash of this password instead of a token")
	_ = fs.Parse(os.Args[1:])

	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(string(hash))
		return
	}

	cfg, err := config.Load("admintoken", fs.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := cfg.ValidateAuth(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	auth := services.NewAuthService(services.AuthConfig{JWTSecret: cfg.JWTSecret}, zerolog.Nop())
	token, err := auth.IssueToken(subject, ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(token)
}
