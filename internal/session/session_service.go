package session

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const claimSessionID = "session_id"

// ValidateID checks that id is a session id this service could have issued.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidSessionID
	}
	return nil
}

type Token struct {
	SessionID   string    `json:"sessionId"`
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

//go:generate mockgen -source=session_service.go -destination=../mock/session/session_service_mock.go -package=mock
type Service interface {
	Issue(ctx context.Context) (Token, error)
	Parse(token string) (string, error)
}

type service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewService(secret string, ttl time.Duration) Service {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &service{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue starts a new guest session.
func (s *service) Issue(ctx context.Context) (Token, error) {
	sessionID := uuid.NewString()
	expiresAt := s.now().Add(s.ttl)

	claims := jwt.MapClaims{
		claimSessionID: sessionID,
		"iat":          s.now().Unix(),
		"exp":          expiresAt.Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Token{}, ErrTokenGenerationFailed.WithCause(err)
	}

	return Token{
		SessionID:   sessionID,
		AccessToken: signed,
		ExpiresAt:   expiresAt,
	}, nil
}

// Parse validates the token and returns the session id it carries.
func (s *service) Parse(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrInvalidToken.WithCause(err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}

	sessionID, _ := claims[claimSessionID].(string)
	if err := ValidateID(sessionID); err != nil {
		return "", ErrInvalidToken
	}
	return sessionID, nil
}
