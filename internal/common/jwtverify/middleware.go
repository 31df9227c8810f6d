package jwtverify

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	commonhttp "github.com/linkmark/backend/internal/common/http"
	"github.com/linkmark/backend/internal/common/logger"
	"github.com/linkmark/backend/internal/observability/metrics"
	userdomain "github.com/linkmark/backend/internal/user/domain"
	userrepo "github.com/linkmark/backend/internal/user/repository"
)

type Claims struct {
	UserID string
	Email  string
}

type contextKey string

const userKey contextKey = "authenticated_user"

// Middleware is the access guard: it extracts and verifies the bearer token,
// then resolves the subject to a live user. A structurally valid token whose
// subject no longer exists is rejected as unauthenticated, not as a server
// error.
func Middleware(secret string, users userrepo.Repository, log *logger.Logger) func(next http.Handler) http.Handler {
	secretBytes := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("Authorization")
			if raw == "" || !strings.HasPrefix(raw, "Bearer ") {
				log.Warnf("auth guard failed path=%s: missing or invalid authorization header", r.URL.Path)
				commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeMissingAuthorization, "missing or invalid authorization", nil, "")
				return
			}

			tokenString := strings.TrimPrefix(raw, "Bearer ")
			claims, err := ParseToken(tokenString, secretBytes)
			if err != nil {
				log.Warnf("auth guard failed path=%s: %v", r.URL.Path, err)
				commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeInvalidToken, "invalid token", nil, "")
				return
			}

			user, err := users.FindByID(r.Context(), userdomain.ID(claims.UserID))
			if err != nil {
				if errors.Is(err, userrepo.ErrUserNotFound) {
					log.Warnf("auth guard failed path=%s: token subject no longer exists", r.URL.Path)
					commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeInvalidToken, "invalid token", nil, "")
					return
				}
				log.Errorf("auth guard failed path=%s: user lookup error: %v", r.URL.Path, err)
				commonhttp.WriteError(w, http.StatusInternalServerError, "internal server error")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user.Public())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the public view attached by the guard.
func UserFromContext(ctx context.Context) (userdomain.Public, bool) {
	user, ok := ctx.Value(userKey).(userdomain.Public)
	return user, ok
}

func ParseToken(tokenString string, secret []byte) (Claims, error) {
	metrics.TokenValidationsTotal.Inc()

	claims, err := parseToken(tokenString, secret)
	if err != nil {
		metrics.TokenValidationsFailed.Inc()
	}
	return claims, err
}

func parseToken(tokenString string, secret []byte) (Claims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		if err == nil {
			err = errors.New("token is not valid")
		}
		return Claims{}, err
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, errors.New("invalid claims type")
	}

	sub, _ := mapClaims["sub"].(string)
	email, _ := mapClaims["email"].(string)
	if sub == "" || email == "" {
		return Claims{}, errors.New("missing sub or email claims")
	}

	return Claims{
		UserID: sub,
		Email:  email,
	}, nil
}
