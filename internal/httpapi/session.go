package httpapi

import (
	"errors"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"wardrobewizard/backend/internal/domain"
)

// SessionManager mints and verifies the bearer tokens that identify cart
// sessions. A session is anonymous: the token's subject is a fresh uuid and
// carries no user identity.
type SessionManager struct {
	secret   []byte
	tokenTTL time.Duration
}

func NewSessionManager(secret string, tokenTTL time.Duration) *SessionManager {
	if secret == "" {
		secret = "dev-change-me"
	}
	if tokenTTL <= 0 {
		tokenTTL = 8 * time.Hour
	}
	return &SessionManager{
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

// Issue creates a new session and its signed access token.
func (m *SessionManager) Issue() (domain.SessionResponse, error) {
	sessionID := uuid.NewString()
	expiresAt := time.Now().UTC().Add(m.tokenTTL)

	claims := jwtlib.RegisteredClaims{
		Subject:   sessionID,
		IssuedAt:  jwtlib.NewNumericDate(time.Now().UTC()),
		ExpiresAt: jwtlib.NewNumericDate(expiresAt),
	}
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return domain.SessionResponse{}, err
	}

	return domain.SessionResponse{
		SessionID:   sessionID,
		AccessToken: token,
		ExpiresAt:   expiresAt.Format(time.RFC3339),
	}, nil
}

// Parse validates a token and returns the session id it names.
func (m *SessionManager) Parse(tokenStr string) (string, error) {
	claims := &jwtlib.RegisteredClaims{}
	token, err := jwtlib.ParseWithClaims(tokenStr, claims, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwtlib.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return "", errors.New("invalid or expired session token")
	}

	sessionID := strings.TrimSpace(claims.Subject)
	if sessionID == "" {
		return "", errors.New("session token has no subject")
	}
	return sessionID, nil
}
