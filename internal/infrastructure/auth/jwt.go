package auth

import (
	"errors"
	"time"

	"github.com/DRSN-tech/product-dashboard/internal/cfg"
	"github.com/DRSN-tech/product-dashboard/pkg/e"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims — содержимое токена mock API.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTIssuer выпускает и проверяет HS256-токены.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

func NewJWTIssuer(cfg *cfg.AuthCfg) *JWTIssuer {
	return &JWTIssuer{
		secret: []byte(cfg.JWTSecret),
		ttl:    cfg.TokenTTL,
		issuer: cfg.Issuer,
		now:    time.Now,
	}
}

func (j *JWTIssuer) Issue(email string) (string, error) {
	const op = "JWTIssuer.Issue"

	now := j.now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    j.issuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", e.Wrap(op, err)
	}
	return signed, nil
}

// Verify возвращает email владельца токена или e.ErrUnauthorized.
func (j *JWTIssuer) Verify(token string) (string, error) {
	const op = "JWTIssuer.Verify"

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, e.ErrUnauthorized
		}
		return j.secret, nil
	},
		jwt.WithIssuer(j.issuer),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", e.Wrap(op, e.Wrap("token expired", e.ErrUnauthorized))
		}
		return "", e.Wrap(op, e.ErrUnauthorized)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return "", e.Wrap(op, e.ErrUnauthorized)
	}

	return claims.Email, nil
}
