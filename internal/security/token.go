package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Fixed issuer and audience for every token this process signs or accepts.
const (
	TokenIssuer   = "clinic-service"
	TokenAudience = "clinic-app"
)

// TokenConfig is built once at startup and passed by reference; there is no
// lazily-initialized global.
type TokenConfig struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenConfig(secret string, ttl time.Duration) *TokenConfig {
	return &TokenConfig{secret: []byte(secret), ttl: ttl}
}

// IssueAccessToken signs an HS256 token whose subject is the user id.
func (c *TokenConfig) IssueAccessToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    TokenIssuer,
		Audience:  jwt.ClaimStrings{TokenAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// VerifyAccessToken checks signature, issuer, audience and expiry, and
// returns the embedded claims.
func (c *TokenConfig) VerifyAccessToken(token string) (TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		// prevent alg confusion
		if t.Method == nil || t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, ErrTokenInvalid
		}
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(TokenIssuer),
		jwt.WithAudience(TokenAudience),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return TokenClaims{}, ErrTokenExpired
		}
		return TokenClaims{}, ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid {
		return TokenClaims{}, ErrTokenInvalid
	}

	exp := time.Time{}
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	aud := ""
	if len(claims.Audience) > 0 {
		aud = claims.Audience[0]
	}

	return TokenClaims{
		Subject:  claims.Subject,
		Issuer:   claims.Issuer,
		Audience: aud,
		Exp:      exp,
	}, nil
}
