// Package token issues and verifies dealer session tokens.
//
// Tokens are HMAC-signed JWTs carrying the dealer's PTIN and display name.
// Verification failures are reported generically so responses never reveal
// whether a token was malformed, forged, or simply stale.
package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sreedharv/ptrportal/internal/directory"
	apperrors "github.com/sreedharv/ptrportal/internal/platform/errors"
)

// DefaultTTL is how long a dealer session token stays valid.
const DefaultTTL = 2 * time.Hour

// Claims captures the validated dealer identity from a session token.
type Claims struct {
	PTIN      string
	Name      string
	ExpiresAt time.Time
}

// sessionClaims is the internal claims type used for JWT signing and parsing.
type sessionClaims struct {
	jwt.RegisteredClaims
	PTIN string `json:"ptin"`
	Name string `json:"name"`
}

// Service signs and verifies dealer session tokens.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewService builds a token service around an HMAC secret.
func NewService(secret []byte, ttl time.Duration) (*Service, error) {
	if len(secret) == 0 {
		return nil, errors.New("token secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{secret: secret, ttl: ttl, now: time.Now}, nil
}

// Issue signs a session token for the dealer.
func (s *Service) Issue(dealer directory.Dealer) (string, error) {
	if strings.TrimSpace(dealer.PTIN) == "" {
		return "", errors.New("dealer ptin is required")
	}
	now := s.now().UTC()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		PTIN: dealer.PTIN,
		Name: dealer.Name,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify parses a session token and returns the dealer claims.
func (s *Service) Verify(tokenString string) (Claims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return Claims{}, apperrors.New(apperrors.CodeTokenMissing, "no token provided")
	}

	var parsed sessionClaims
	_, err := jwt.ParseWithClaims(tokenString, &parsed, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(func() time.Time { return s.now().UTC() }),
	)
	if err != nil {
		return Claims{}, mapJWTError(err)
	}
	if strings.TrimSpace(parsed.PTIN) == "" {
		return Claims{}, apperrors.New(apperrors.CodeTokenInvalid, "token is missing dealer identity")
	}

	claims := Claims{
		PTIN: parsed.PTIN,
		Name: parsed.Name,
	}
	if parsed.ExpiresAt != nil {
		claims.ExpiresAt = parsed.ExpiresAt.Time.UTC()
	}
	return claims, nil
}

// mapJWTError translates jwt library errors to application errors.
func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return apperrors.New(apperrors.CodeTokenExpired, "token is expired")
	}
	return apperrors.New(apperrors.CodeTokenInvalid, "invalid token")
}
