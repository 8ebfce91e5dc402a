package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// SessionTokenExpiry is the default lifetime of a demo session token.
const SessionTokenExpiry = 12 * time.Hour

var (
	// ErrMalformedToken is returned when a token cannot be decoded at all.
	ErrMalformedToken = errors.New("malformed session token")
	// ErrTokenExpired is returned for tokens past their expiry.
	ErrTokenExpired = errors.New("session token expired")
)

// Identity is the subject a session token is issued for.
type Identity struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

// SessionClaims represents session token claims. The subject is the user uid.
type SessionClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// Identity returns the identity the claims were issued for.
func (c *SessionClaims) Identity() Identity {
	return Identity{UID: c.Subject, DisplayName: c.Name, Email: c.Email}
}

// Remaining returns the time left until expiry, zero when already expired.
func (c *SessionClaims) Remaining(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	if d := c.ExpiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

// SessionTokenService issues and validates signed session tokens.
type SessionTokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionTokenService creates a token service with the given secret. A
// non-positive ttl falls back to SessionTokenExpiry.
func NewSessionTokenService(secret string, ttl time.Duration) *SessionTokenService {
	if ttl <= 0 {
		ttl = SessionTokenExpiry
	}
	return &SessionTokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// TTL returns the lifetime of issued tokens.
func (s *SessionTokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a new token for the identity and returns it with its claims.
func (s *SessionTokenService) Issue(id Identity) (string, *SessionClaims, error) {
	now := s.now()
	claims := &SessionClaims{
		Email: id.Email,
		Name:  id.DisplayName,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        generateTokenID(),
			Subject:   id.UID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// Validate checks signature and expiry and returns the claims.
func (s *SessionTokenService) Validate(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token subject missing")
	}
	return claims, nil
}

// ParseUnverified decodes a token without checking its signature, then checks
// that it carries a subject and has not expired at now. Clients use it to
// sanity-check a stored session they cannot verify.
func ParseUnverified(tokenString string, now time.Time) (*SessionClaims, error) {
	claims := &SessionClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, ErrMalformedToken
	}
	if claims.Subject == "" {
		return nil, ErrMalformedToken
	}
	if !claims.VerifyExpiresAt(now, false) {
		return nil, ErrTokenExpired
	}
	return claims, nil
}

func generateTokenID() string {
	return uuid.New().String()
}
