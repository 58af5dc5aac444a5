package ports

import (
	"context"
	"time"
)

type Claims struct {
	Subject   string
	Role      string
	ExpiresAt time.Time
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (string, error) // returns a signed admin token
	IssueToken(subject string, ttl time.Duration) (string, error)
	Verify(token string) (*Claims, error)
}
