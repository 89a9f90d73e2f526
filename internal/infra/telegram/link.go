package telegram

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const linkAudience = "telegram-link"

// DefaultLinkTTL is how long a link code from the dashboard stays valid.
const DefaultLinkTTL = 10 * time.Minute

var ErrInvalidLinkToken = errors.New("invalid or expired link code")

// LinkTokens issues and checks the signed codes that prove a chat belongs to
// a profile. They share the API secret but carry their own audience, so an
// access token is never accepted as a link code or the other way round.
type LinkTokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewLinkTokens(secret string, ttl time.Duration) *LinkTokens {
	if ttl <= 0 {
		ttl = DefaultLinkTTL
	}
	return &LinkTokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a link code for profileID and its expiry.
func (t *LinkTokens) Issue(profileID string) (string, time.Time, error) {
	now := t.now()
	expires := now.Add(t.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   profileID,
		Audience:  jwt.ClaimStrings{linkAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign link code: %w", err)
	}
	return signed, expires, nil
}

// Verify returns the profile id a valid link code was issued for.
func (t *LinkTokens) Verify(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !tok.Valid {
		return "", ErrInvalidLinkToken
	}
	if !claims.VerifyAudience(linkAudience, true) || claims.ExpiresAt == nil {
		return "", ErrInvalidLinkToken
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", ErrInvalidLinkToken
	}
	return claims.Subject, nil
}
