package service

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/linkmark/backend/internal/common/clock"
	"github.com/linkmark/backend/internal/observability/metrics"
	userdomain "github.com/linkmark/backend/internal/user/domain"
)

// TokenIssuer signs the session token: a self-contained HS256 JWT carrying
// the subject id and email. No expiry claim is set; the token is valid until
// the signing key changes.
type TokenIssuer struct {
	secret []byte
	clock  clock.Clock
}

func NewTokenIssuer(secret string, clk clock.Clock) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(secret),
		clock:  clk,
	}
}

func (i *TokenIssuer) Issue(user userdomain.Public) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"iat":   i.clock.Now().Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := t.SignedString(i.secret)
	if err != nil {
		return "", err
	}

	metrics.TokensIssuedTotal.Inc()
	return tokenString, nil
}
