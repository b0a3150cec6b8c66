package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/spec-kit/audit-chat-service/pkg/util"
)

// TokenCookieName is the cookie the request authenticator reads tokens from.
const TokenCookieName = "token"

// Expiry instants are computed in a fixed reference offset so the issued
// expiration does not depend on the host timezone.
var expiryZone = time.FixedZone("-03:00", -3*60*60)

// TokenCodec issues and verifies signed bearer tokens. Secret, issuer and
// expiration are fixed at construction; the codec holds no per-call state
// and is safe for concurrent use.
type TokenCodec struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenCodec builds a codec signing with HMAC-SHA256.
func NewTokenCodec(secret, issuer string, expirationHours int) *TokenCodec {
	return &TokenCodec{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    time.Duration(expirationHours) * time.Hour,
	}
}

// Issue signs a token carrying issuer, subject and expiry. It fails only
// when the signing primitive itself fails.
func (c *TokenCodec) Issue(subjectID uuid.UUID) (string, error) {
	expiresAt := time.Now().In(expiryZone).Add(c.ttl)
	claims := jwt.RegisteredClaims{
		Issuer:    c.issuer,
		Subject:   subjectID.String(),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", apperrors.NewInternalError("Error while generating JWT token", err)
	}
	return signed, nil
}

// Verify checks signature, issuer and expiry and returns the subject. Every
// failure mode collapses into the single invalid result, so callers cannot
// distinguish a forged token from an expired one.
func (c *TokenCodec) Verify(tokenStr string) (uuid.UUID, bool) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, errors.New("unexpected signing method")
			}
			return c.secret, nil
		},
		jwt.WithIssuer(c.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return uuid.Nil, false
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return uuid.Nil, false
	}
	subjectID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, false
	}
	return subjectID, true
}
