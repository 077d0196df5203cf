package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nabih-app/nabih-api/internal/models"
)

var jwtSecret []byte

// SetJWTSecret installs the signing secret at startup.
func SetJWTSecret(secret string) {
	jwtSecret = []byte(secret)
}

// Claims carried by a session token. Roles are captured at login time;
// role changes made by an admin take effect on the next login.
type Claims struct {
	UserID string        `json:"uid"`
	Email  string        `json:"email"`
	Roles  []models.Role `json:"roles"`
	jwt.RegisteredClaims
}

// GenerateJWT issues a signed session token valid for 24 hours.
func GenerateJWT(userID, email string, roles []models.Role) (string, error) {
	claims := Claims{
		UserID: userID,
		Email:  email,
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "nabih-api",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ValidateJWT parses and verifies a session token.
func ValidateJWT(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
