package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// actorKey is the gin context key carrying the authenticated user's identity
const actorKey = "actor"

// authClaims are the token claims the back office issues to its staff
type authClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// allowedRoles lists the back-office roles permitted to manage cheques
var allowedRoles = map[string]bool{
	"admin":            true,
	"property_manager": true,
}

// authMiddleware verifies the bearer token and stores the actor identity on
// the request context. Tokens are HS256 signed by the back office's identity
// service.
func authMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "missing bearer token",
			})
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		claims := &authClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims,
			func(token *jwt.Token) (interface{}, error) {
				return []byte(secret), nil
			},
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		)
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "invalid token",
			})
			return
		}

		if claims.Subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "token has no subject",
			})
			return
		}
		if !allowedRoles[claims.Role] {
			c.AbortWithStatusJSON(http.StatusForbidden, Response{
				Success: false,
				Error:   fmt.Sprintf("role %q may not manage cheques", claims.Role),
			})
			return
		}

		c.Set(actorKey, claims.Subject)
		c.Next()
	}
}

// actor returns the authenticated user identity set by authMiddleware
func actor(c *gin.Context) string {
	return c.GetString(actorKey)
}
