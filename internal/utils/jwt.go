package utils // package utils provides helpers for token issuing and code generation

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the fixed lifetime of an access token. Expiry is the only
// invalidation path: there is no refresh mechanism and no revocation list.
const TokenTTL = 24 * time.Hour

// AuthToken represents a signed JWT along with its expiry. The Token field
// contains the serialized JWT string clients send back in the Authorization
// header.
type AuthToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewAuthToken builds and signs an HS256 JWT carrying the user's id (sub) and
// email, expiring TokenTTL from now.
func NewAuthToken(secret string, userID uint64, email string) (AuthToken, error) {
	exp := time.Now().UTC().Add(TokenTTL)
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"exp":   exp.Unix(),
		"iat":   time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AuthToken{}, err
	}
	return AuthToken{Token: signed, Exp: exp}, nil
}

// ErrInvalidToken is returned by ParseAuthToken for tokens that are malformed,
// expired, or signed with the wrong key or method.
var ErrInvalidToken = errors.New("invalid token")

// ParseAuthToken validates a serialized token and returns the embedded user id
// and email. Any validation failure, including expiry, yields ErrInvalidToken.
func ParseAuthToken(secret, raw string) (uint64, string, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return 0, "", ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", ErrInvalidToken
	}
	var uid uint64
	switch sub := claims["sub"].(type) {
	case float64:
		uid = uint64(sub)
	case string:
		n, err := strconv.ParseUint(sub, 10, 64)
		if err != nil {
			return 0, "", ErrInvalidToken
		}
		uid = n
	default:
		return 0, "", ErrInvalidToken
	}
	email, _ := claims["email"].(string)
	if uid == 0 {
		return 0, "", ErrInvalidToken
	}
	return uid, email, nil
}
