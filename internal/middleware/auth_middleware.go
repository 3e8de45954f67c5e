package middleware

import (
	"strings"

	"marketly/internal/utils"

	"github.com/gin-gonic/gin"
)

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader || tokenString == "" {
		return "", false
	}
	return tokenString, true
}

func setClaims(c *gin.Context, claims *utils.JWTClaims) {
	c.Set(utils.ContextUserID, claims.UserID)
	c.Set(utils.ContextUserRole, claims.Role)
	c.Set(utils.ContextUserEmail, claims.Email)
}

// AuthRequired middleware validates JWT token and sets user context
func AuthRequired(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			utils.AppErrorResponse(c, utils.NewUnauthorizedError("Bearer token required"))
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateToken(tokenString, utils.TokenTypeAccess)
		if err != nil {
			utils.AppErrorResponse(c, utils.NewUnauthorizedError(utils.ErrInvalidToken))
			c.Abort()
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth sets user context when a valid token is present and lets anonymous
// requests through otherwise.
func OptionalAuth(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := bearerToken(c); ok {
			if claims, err := jwtManager.ValidateToken(tokenString, utils.TokenTypeAccess); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

// RoleRequired middleware ensures the user holds one of roles
func RoleRequired(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(utils.ContextUserRole)
		if !exists {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		roleStr, _ := role.(string)
		for _, allowed := range roles {
			if roleStr == allowed {
				c.Next()
				return
			}
		}

		utils.AppErrorResponse(c, utils.NewForbiddenError("insufficient role"))
		c.Abort()
	}
}

// AdminRequired middleware ensures user is an admin
func AdminRequired() gin.HandlerFunc {
	return RoleRequired(utils.RoleAdmin)
}

// CatalogManagerRequired lets admins and vendors through.
func CatalogManagerRequired() gin.HandlerFunc {
	return RoleRequired(utils.RoleAdmin, utils.RoleVendor)
}
