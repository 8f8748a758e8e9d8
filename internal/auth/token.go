package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kestrelgames/boardhouse/internal/apperr"
)

// Claims is the token payload, grounded on the donor's JWTClaims (jwt.RegisteredClaims
// plus a UserID field) — trimmed to this module's one relevant identity, the user id,
// since there are no roles/admin flags in this domain.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// TokenService issues and verifies the bearer tokens spec §6 requires on every mutating
// endpoint.
type TokenService struct {
	secret []byte
	expiry time.Duration
	issuer string
}

func NewTokenService(secret string, expiry time.Duration) TokenService {
	return TokenService{secret: []byte(secret), expiry: expiry, issuer: "boardhouse"}
}

// Issue mints a signed access token for userID.
func (s TokenService) Issue(userID string) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
		UserID: userID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", apperr.Internalf("auth: sign token: %v", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning the user id it was issued to.
func (s TokenService) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperr.Unauthorizedf("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", apperr.Unauthorizedf("token has expired")
		}
		return "", apperr.Unauthorizedf("invalid token: %v", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return "", apperr.Unauthorizedf("invalid token claims")
	}
	return claims.UserID, nil
}

// FromRequest extracts a bearer token from the Authorization header, falling back to a
// "token" query parameter for the WebSocket surface (browsers can't set arbitrary headers
// on the initial upgrade request), grounded on the donor's JWTAuth.Authenticate.
func (s TokenService) FromRequest(r *http.Request) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		if rest, ok := strings.CutPrefix(header, "Bearer "); ok {
			return s.Verify(rest)
		}
	}
	if token := r.URL.Query().Get("token"); token != "" {
		return s.Verify(token)
	}
	return "", apperr.Unauthorizedf("missing bearer token")
}
