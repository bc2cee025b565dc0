package utils

import (
	"fmt"
	"strings"
	"time"

	"sportmeet/core/config"
	"sportmeet/core/constants"
	"sportmeet/core/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenClaims is what the identity provider signs into access tokens.
type TokenClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
	Scope  string    `json:"scope"`
	jwt.RegisteredClaims
}

func jwtSettings() (secret []byte, issuer string, ttl time.Duration) {
	cfg, ok := config.GetSafe()
	if !ok {
		return nil, "", 0
	}
	return []byte(cfg.JWT.Secret), cfg.JWT.Issuer, time.Duration(cfg.JWT.AccessTTL) * time.Minute
}

// GenerateToken signs an access token. Token issuance belongs to the identity
// provider; this exists for tooling and tests.
func GenerateToken(userID uuid.UUID, role string, scope string, ttl ...time.Duration) (string, error) {
	secret, issuer, defaultTTL := jwtSettings()
	if len(secret) == 0 {
		return "", errors.NewAppError(errors.ErrInternalServer, "jwt secret is not configured", nil)
	}
	expiry := defaultTTL
	if len(ttl) > 0 {
		expiry = ttl[0]
	}

	now := time.Now()
	claims := TokenClaims{
		UserID: userID,
		Role:   role,
		Scope:  scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ValidateAndParseToken verifies the signature, expiry and scope of an access token.
func ValidateAndParseToken(tokenString string) (*TokenClaims, error) {
	secret, issuer, _ := jwtSettings()
	if len(secret) == 0 {
		return nil, errors.NewAppError(errors.ErrInternalServer, "jwt secret is not configured", nil)
	}

	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.NewAppError(errors.ErrTokenExpired, "token expired", err)
		}
		return nil, errors.NewAppError(errors.ErrInvalidTokenFormat, "invalid token", err)
	}
	if !token.Valid || claims.UserID == uuid.Nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid token", nil)
	}
	if claims.Scope != constants.ScopeTokenAccess {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "token scope is not allowed", nil)
	}
	return claims, nil
}

// GetTokenFromHeader strips the Bearer prefix from an Authorization header.
func GetTokenFromHeader(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
