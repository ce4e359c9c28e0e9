package usecase

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"pix-checkout/internal/domain"
)

type sessionClaims struct {
	Session
	jwt.RegisteredClaims
}

// SessionTokens signs checkout sessions into opaque tokens so the client can
// carry the state between requests.
type SessionTokens struct {
	Secret string
	TTL    time.Duration
	Now    func() time.Time
}

func (s *SessionTokens) Sign(sess Session) (string, error) {
	if s.Secret == "" {
		return "", errors.New("session secret not set")
	}
	now := s.now()
	ttl := s.TTL
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	claims := sessionClaims{
		Session: sess,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.Secret))
}

func (s *SessionTokens) Verify(token string) (Session, error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return []byte(s.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return Session{}, fmt.Errorf("%w: %v", domain.ErrSessionInvalid, err)
	}
	if claims.Session.ID == "" || claims.Session.ProductID == "" {
		return Session{}, domain.ErrSessionInvalid
	}
	return claims.Session, nil
}

func (s *SessionTokens) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
