package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/example/courierops/internal/models"
)

type jwtCustomClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed JWT carrying the credential id and role.
func GenerateToken(secret string, user models.User, ttl time.Duration) (string, error) {
	claims := &jwtCustomClaims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates the token and returns the embedded credential id
// and role.
func ParseToken(secret, tokenString string) (string, models.Role, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return "", "", err
	}

	if claims, ok := token.Claims.(*jwtCustomClaims); ok && token.Valid {
		return claims.Subject, models.Role(claims.Role), nil
	}

	return "", "", jwt.ErrTokenInvalidClaims
}
