package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidSession = errors.New("invalid session token")

// SessionService issues and parses signed guest-session tokens. Carts are
// anonymous and session-scoped, so the only claim that matters is the
// session id.
type SessionService struct {
	secret     []byte
	expiration time.Duration
}

func NewSessionService(secret string, expiration time.Duration) *SessionService {
	return &SessionService{
		secret:     []byte(secret),
		expiration: expiration,
	}
}

type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// IssueToken mints a token for a fresh session id and returns both.
func (s *SessionService) IssueToken() (token string, sessionID string, err error) {
	sessionID = uuid.NewString()
	now := time.Now()
	claims := sessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
		},
	}

	signed := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err = signed.SignedString(s.secret)
	return token, sessionID, err
}

// ParseToken validates a token and returns its session id.
func (s *SessionService) ParseToken(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid || claims.SessionID == "" {
		return "", ErrInvalidSession
	}
	return claims.SessionID, nil
}
