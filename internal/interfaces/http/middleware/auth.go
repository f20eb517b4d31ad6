package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"printforge.backend/pkg/jwks"
	"printforge.backend/pkg/jwt"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens
	BearerPrefix = "Bearer "
	// CustomerIDKey is the context key for the authenticated customer id
	CustomerIDKey = "customerId"
	// CustomerEmailKey is the context key for the authenticated email
	CustomerEmailKey = "customerEmail"
	// CustomerRoleKey is the context key for the authenticated role
	CustomerRoleKey = "customerRole"
)

// IdentityVerifier validates tokens minted by the hosted identity provider.
type IdentityVerifier interface {
	Verify(ctx context.Context, raw string) (*jwks.IdentityClaims, error)
}

// AuthMiddleware authenticates a request with either a first-party HS256
// session token or an identity-provider RS256 token. The first-party check
// runs first because it is local; the JWKS path may fetch keys over the
// network. identity may be nil when no JWKS endpoint is configured.
func AuthMiddleware(jwtService *jwt.JWTService, identity IdentityVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthorizationHeader)
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header is required",
			})
			return
		}

		if !strings.HasPrefix(authHeader, BearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid authorization format. Use: Bearer <token>",
			})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, BearerPrefix)

		claims, err := jwtService.ValidateToken(tokenString)
		if err == nil {
			c.Set(CustomerIDKey, claims.CustomerID)
			c.Set(CustomerEmailKey, claims.Email)
			c.Set(CustomerRoleKey, claims.Role)
			c.Next()
			return
		}
		if errors.Is(err, jwt.ErrExpiredToken) {
			// An expired first-party token is conclusive: it carried a valid
			// signature, so no point trying the identity provider.
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Token has expired",
			})
			return
		}

		if identity != nil {
			idClaims, idErr := identity.Verify(c.Request.Context(), tokenString)
			if idErr == nil {
				c.Set(CustomerIDKey, idClaims.CustomerID)
				c.Set(CustomerEmailKey, idClaims.Email)
				c.Set(CustomerRoleKey, idClaims.Role)
				c.Next()
				return
			}
			if errors.Is(idErr, jwks.ErrExpiredToken) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": "Token has expired",
				})
				return
			}
			log.Printf("[AuthMiddleware] Request to %s failed: %v", c.Request.URL.Path, idErr)
		} else {
			log.Printf("[AuthMiddleware] Request to %s failed: %v", c.Request.URL.Path, err)
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "Invalid token",
		})
	}
}

// GetCustomerID gets the authenticated customer id from context
func GetCustomerID(c *gin.Context) (uuid.UUID, bool) {
	customerID, exists := c.Get(CustomerIDKey)
	if !exists {
		return uuid.Nil, false
	}
	return customerID.(uuid.UUID), true
}

// GetCustomerEmail gets the authenticated email from context
func GetCustomerEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get(CustomerEmailKey)
	if !exists {
		return "", false
	}
	return email.(string), true
}

// GetCustomerRole gets the authenticated role from context
func GetCustomerRole(c *gin.Context) (string, bool) {
	role, exists := c.Get(CustomerRoleKey)
	if !exists {
		return "", false
	}
	return role.(string), true
}

// RequireRole creates a middleware that requires one of the given roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerRole, exists := GetCustomerRole(c)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Role not found",
			})
			return
		}

		for _, role := range roles {
			if customerRole == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "Insufficient permissions",
		})
	}
}

// RequireAdmin creates a middleware that requires the admin role
func RequireAdmin() gin.HandlerFunc {
	return RequireRole("admin")
}
