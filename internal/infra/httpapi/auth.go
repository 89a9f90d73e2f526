package httpapi

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tutorhub/internal/domain/profile"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

type contextKey string

const actorKey contextKey = "actor"

// Claims carried by API access tokens.
type Claims struct {
	Role profile.Role `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 access token for a profile.
func IssueToken(secret string, p profile.Actor, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func parseToken(secret, raw string) (profile.Actor, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return profile.Actor{}, errors.New("invalid token")
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return profile.Actor{}, errors.New("invalid subject")
	}
	if !claims.Role.Valid() {
		return profile.Actor{}, errors.New("invalid role")
	}
	return profile.Actor{ID: claims.Subject, Role: claims.Role}, nil
}

func bearerToken(r *http.Request) string {
	authz := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(authz) > 7 && strings.EqualFold(authz[:7], "bearer ") {
		return strings.TrimSpace(authz[7:])
	}
	return ""
}

// requireJWT authenticates the caller and stores the actor in the request context.
// EventSource cannot set headers, so the realtime stream may pass the token
// as the access_token query parameter.
func requireJWT(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" && r.Header.Get("Accept") == "text/event-stream" {
				raw = r.URL.Query().Get("access_token")
			}
			if raw == "" {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			actor, err := parseToken(secret, raw)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Invalid token")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorKey, actor)))
		})
	}
}

// requireServiceKey only lets through callers presenting the service role key.
func requireServiceKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := bearerToken(r)
			if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				writeJSON(w, http.StatusUnauthorized, functionResult{Success: false, Error: "Unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func actorFrom(ctx context.Context) profile.Actor {
	a, _ := ctx.Value(actorKey).(profile.Actor)
	return a
}

func requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !actorFrom(r.Context()).IsAdmin() {
			writeError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
