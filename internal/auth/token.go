package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Principal is the authenticated identity attached to a request.
type Principal struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Rol   string `json:"rol"`
}

// Claims is the JWT payload carried by bearer tokens.
type Claims struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Rol   string `json:"rol"`
	jwt.RegisteredClaims
}

var ErrInvalidToken = errors.New("token inválido o expirado")

// TokenIssuer signs and verifies bearer tokens with an HS256 secret.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer creates a token issuer. ttl applies to every issued token.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Generate issues a signed token for the given principal.
func (ti *TokenIssuer) Generate(p Principal) (string, error) {
	now := time.Now()
	claims := &Claims{
		ID:    p.ID,
		Email: p.Email,
		Rol:   p.Rol,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   p.Email,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(ti.secret)
}

// Parse verifies a token string and returns the principal it carries.
func (ti *TokenIssuer) Parse(tokenStr string) (Principal, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return ti.secret, nil
	})
	if err != nil {
		return Principal{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Principal{}, ErrInvalidToken
	}

	return Principal{ID: claims.ID, Email: claims.Email, Rol: claims.Rol}, nil
}
