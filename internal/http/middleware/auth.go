package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// GenerateAdminJWT mints an HS256 bearer token with the admin role, valid
// for ttl. Tokens are issued out-of-band (cmd/admin-token) for the
// seed/reset endpoints.
func GenerateAdminJWT(secret []byte, ttl time.Duration) (string, error) {
	now := time.Now().Unix()
	claims := jwt.MapClaims{
		"role": "admin",
		"exp":  time.Now().Add(ttl).Unix(),
		"iat":  now,
		"nbf":  now,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseAdminJWT validates the token and its admin role claim.
func ParseAdminJWT(secret []byte, tokenString string) error {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return errors.New("invalid claims")
	}
	if role, _ := claims["role"].(string); role != "admin" {
		return errors.New("admin role required")
	}
	return nil
}

// AdminJWT guards the bootstrap endpoints. With no secret configured the
// routes are closed outright.
func AdminJWT(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin endpoints disabled"})
			return
		}

		header := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "bearer token required"})
			return
		}

		if err := ParseAdminJWT([]byte(secret), tokenString); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Next()
	}
}
