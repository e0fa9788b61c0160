package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// TokenKind separates access tokens from refresh tokens. Each kind is
// signed with its own secret, so a token of one kind can never verify as
// the other even with a well-formed payload.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// ErrInvalidToken covers signature mismatch, expiry, malformed payload and
// kind mismatch uniformly.
var ErrInvalidToken = errors.New("invalid token")

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewTokenManager builds a new manager.
func NewTokenManager(accessSecret, refreshSecret string, accessTTLMinutes, refreshTTLDays int) *TokenManager {
	if accessTTLMinutes <= 0 {
		accessTTLMinutes = 15
	}
	if refreshTTLDays <= 0 {
		refreshTTLDays = 30
	}
	return &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     time.Duration(accessTTLMinutes) * time.Minute,
		refreshTTL:    time.Duration(refreshTTLDays) * 24 * time.Hour,
	}
}

// Claims describes JWT payload.
type Claims struct {
	UserID string    `json:"sub"`
	Mobile string    `json:"mobile"`
	Kind   TokenKind `json:"kind"`
	jwt.RegisteredClaims
}

// Generate builds and signs a token of the requested kind.
func (tm *TokenManager) Generate(userID, mobile string, kind TokenKind) (string, time.Time, error) {
	secret, ttl, err := tm.keyFor(kind)
	if err != nil {
		return "", time.Time{}, err
	}

	expiresAt := time.Now().Add(ttl)
	claims := &Claims{
		UserID: userID,
		Mobile: mobile,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// GeneratePair issues an access and a refresh token for the same identity.
func (tm *TokenManager) GeneratePair(userID, mobile string) (access string, accessExp time.Time, refresh string, refreshExp time.Time, err error) {
	access, accessExp, err = tm.Generate(userID, mobile, TokenKindAccess)
	if err != nil {
		return "", time.Time{}, "", time.Time{}, err
	}
	refresh, refreshExp, err = tm.Generate(userID, mobile, TokenKindRefresh)
	if err != nil {
		return "", time.Time{}, "", time.Time{}, err
	}
	return access, accessExp, refresh, refreshExp, nil
}

// Parse validates a token against the given kind's secret and returns its
// claims. A token whose embedded kind does not match is rejected even when
// the signature happens to verify.
func (tm *TokenManager) Parse(tokenStr string, kind TokenKind) (*Claims, error) {
	secret, _, err := tm.keyFor(kind)
	if err != nil {
		return nil, err
	}

	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Kind != kind {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (tm *TokenManager) keyFor(kind TokenKind) ([]byte, time.Duration, error) {
	switch kind {
	case TokenKindAccess:
		return tm.accessSecret, tm.accessTTL, nil
	case TokenKindRefresh:
		return tm.refreshSecret, tm.refreshTTL, nil
	default:
		return nil, 0, errors.New("unknown token kind")
	}
}
