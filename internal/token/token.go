package token

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when the credential is missing, malformed,
	// or fails signature verification.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when the credential has expired.
	ErrExpiredToken = errors.New("token has expired")
)

// DefaultTTL is how long an issued credential stays valid.
const DefaultTTL = 7 * 24 * time.Hour

// Config holds signing configuration for session credentials.
type Config struct {
	SecretKey string
	TTL       time.Duration
	Issuer    string
}

// Claims is the payload embedded in a session credential. The account id
// travels in the registered Subject claim.
type Claims struct {
	jwt.RegisteredClaims
}

// Manager issues and verifies self-contained signed session credentials.
// It keeps no server-side state: verification is a signature check plus an
// expiry check, with no store round trip.
type Manager struct {
	config Config
}

// NewManager creates a Manager. A zero TTL falls back to DefaultTTL.
func NewManager(config Config) *Manager {
	if config.TTL == 0 {
		config.TTL = DefaultTTL
	}
	return &Manager{config: config}
}

// Issue produces a signed credential bound to the given account id.
func (m *Manager) Issue(accountID uint64) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.config.Issuer,
			Subject:   strconv.FormatUint(accountID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.config.SecretKey))
}

// Verify checks the credential and returns the embedded account id.
func (m *Manager) Verify(credential string) (uint64, error) {
	token, err := jwt.ParseWithClaims(credential, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(m.config.SecretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrExpiredToken
		}
		return 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return 0, ErrInvalidToken
	}

	accountID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}

	return accountID, nil
}

// TTL returns the configured credential lifetime.
func (m *Manager) TTL() time.Duration {
	return m.config.TTL
}
