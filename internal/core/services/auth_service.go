package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/vncsmyrnk/survey/internal/core/domain"
	"github.com/vncsmyrnk/survey/internal/core/ports"
	"golang.org/x/crypto/bcrypt"
)

const RoleAdmin = "admin"

type adminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type authService struct {
	jwtSecret         []byte
	adminUsername     string
	adminPasswordHash []byte
	tokenTTL          time.Duration
	log               zerolog.Logger
}

type AuthConfig struct {
	JWTSecret         string
	AdminUsername     string
	AdminPasswordHash string
	TokenTTL          time.Duration
}

func NewAuthService(cfg AuthConfig, log zerolog.Logger) ports.AuthService {
	log = log.With().Str("service", "auth").Logger()
	if cfg.AdminPasswordHash == "" {
		log.Warn().Msg("ADMIN_PASSWORD_HASH not set, password login is disabled")
	}
	return &authService{
		jwtSecret:         []byte(cfg.JWTSecret),
		adminUsername:     cfg.AdminUsername,
		adminPasswordHash: []byte(cfg.AdminPasswordHash),
		tokenTTL:          cfg.TokenTTL,
		log:               log,
	}
}

func (s *authService) Login(ctx context.Context, username, password string) (string, error) {
	if len(s.adminPasswordHash) == 0 {
		return "", domain.ErrUnauthorized
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.adminUsername)) == 1
	passErr := bcrypt.CompareHashAndPassword(s.adminPasswordHash, []byte(password))
	if !userOK || passErr != nil {
		s.log.Warn().Str("username", username).Msg("admin login failed")
		return "", domain.ErrUnauthorized.WithMessage("invalid credentials")
	}

	token, err := s.IssueToken(username, s.tokenTTL)
	if err != nil {
		return "", err
	}
	s.log.Info().Str("username", username).Msg("admin token issued")
	return token, nil
}

func (s *authService) IssueToken(subject string, ttl time.Duration) (string, error) {
	if len(s.jwtSecret) == 0 {
		return "", errors.New("jwt secret is not configured")
	}

	now := time.Now()
	claims := adminClaims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// Verify parses a bearer token. Malformed, expired or foreign tokens are
// unauthorized; valid tokens without the admin role are forbidden.
func (s *authService) Verify(tokenString string) (*ports.Claims, error) {
	if len(s.jwtSecret) == 0 {
		return nil, domain.ErrUnauthorized
	}

	claims := &adminClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, domain.ErrUnauthorized.WithMessage("invalid token")
	}

	if claims.Role != RoleAdmin {
		return nil, domain.ErrForbidden
	}

	out := &ports.Claims{Subject: claims.Subject, Role: claims.Role}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
