package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const jwtIssuer = "filedepot"

// ErrInvalidToken is returned when a bearer token fails verification.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the JWT claims carried by programmatic bearer tokens.
type Claims struct {
	Username string `json:"username"`
	OrgID    string `json:"org_id,omitempty"`
	jwt.RegisteredClaims
}

// TokenSigner issues and verifies HS256 bearer tokens for programmatic
// API access. Browser clients use session cookies instead.
type TokenSigner struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenSigner creates a token signer. The secret must be at least 32
// bytes for HMAC-SHA256.
func NewTokenSigner(secret []byte, ttl time.Duration) (*TokenSigner, error) {
	if len(secret) < 32 {
		return nil, errors.New("token signing secret must be at least 32 bytes")
	}
	return &TokenSigner{secret: secret, ttl: ttl}, nil
}

// Sign issues a token for the given actor.
func (s *TokenSigner) Sign(actor *Actor) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: actor.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    jwtIssuer,
			Subject:   actor.UserID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	if actor.OrgID != nil {
		claims.OrgID = actor.OrgID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify validates a token and returns the actor it represents.
func (s *TokenSigner) Verify(tokenString string) (*Actor, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithIssuer(jwtIssuer))

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject: %w", ErrInvalidToken, err)
	}

	actor := &Actor{
		UserID:   userID,
		Username: claims.Username,
	}
	if claims.OrgID != "" {
		orgID, err := uuid.Parse(claims.OrgID)
		if err != nil {
			return nil, fmt.Errorf("%w: bad org_id: %w", ErrInvalidToken, err)
		}
		actor.OrgID = &orgID
	}

	return actor, nil
}
