// Package auth mints and verifies the JWTs that carry a caller's
// identity and staff permission between requests.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// issuer identifies tokens minted by this service.
const issuer = "libcatalog"

// ErrInvalidToken is returned for any token that fails parsing,
// signature verification, or claim validation.
var ErrInvalidToken = errors.New("invalid or expired authentication token")

// Claims are the JWT claims carried by an authentication token. The
// registered ID (jti) doubles as the session key for the visit counter.
type Claims struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	CanMarkReturned bool   `json:"can_mark_returned"`
	jwt.RegisteredClaims
}

// UserID returns the numeric user id stored in the subject claim.
func (c *Claims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// GenerateToken mints a signed token for the given user details valid
// for ttl. The token ID is a fresh uuid.
func GenerateToken(secret []byte, userID int64, firstName, lastName string, canMarkReturned bool, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := Claims{
		FirstName:       firstName,
		LastName:        lastName,
		CanMarkReturned: canMarkReturned,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseToken verifies the signature and registered claims of a token
// string and returns its claims. Any failure maps to ErrInvalidToken.
func ParseToken(secret []byte, tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
