// Package auth issues and validates the HS256 JWTs that authenticate
// terminal clients against the backend.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/tillpoint/internal/common"
	"github.com/dmitrijs2005/tillpoint/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the standard claims plus the authenticated user's id and
// role.
type Claims struct {
	jwt.RegisteredClaims
	UserID string
	Role   models.Role
}

// GenerateToken mints a signed access token for the user.
func GenerateToken(userID string, role models.Role, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID: userID,
		Role:   role,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken validates the token string and returns its claims. Expired
// tokens yield common.ErrTokenExpired so the client can distinguish them
// from tampering.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
