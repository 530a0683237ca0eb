package middleware

import (
	"strings"

	"craftfolio_backend/internal/gateway/local"
	"craftfolio_backend/internal/logger"
	"craftfolio_backend/internal/models"
	"craftfolio_backend/pkg/apperrors"
	"craftfolio_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
)

// GatewayMiddleware выдает каждому запросу клиент шлюза данных:
// с восстановленной из Bearer-токена сессией либо анонимный.
// Защищенность конкретных маршрутов обеспечивает RequireAuth.
func GatewayMiddleware(backend *local.Backend) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
			gw, err := backend.WithToken(tokenStr)
			if err == nil {
				sess, sErr := gw.Auth().Session(c.Request.Context())
				if sErr == nil && sess != nil {
					c.Set(string(contextkeys.GatewayContextKey), gw)
					c.Set("userID", sess.UserID)
					c.Set("role", models.UserRole(sess.Metadata["role"]))
					ctx := logger.WithUserID(c.Request.Context(), sess.UserID)
					c.Request = c.Request.WithContext(ctx)
					c.Next()
					return
				}
			}
		}

		c.Set(string(contextkeys.GatewayContextKey), backend.Anonymous())
		c.Next()
	}
}

// RequireAuth отклоняет запросы без восстановленной сессии
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserID(c) == "" {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authorization header missing or invalid"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRoles пропускает только перечисленные роли
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[models.UserRole]bool)
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		roleVal, exists := c.Get("role")
		if !exists {
			apperrors.HandleError(c, apperrors.NewForbiddenError("Access denied: no role"))
			c.Abort()
			return
		}

		role, ok := roleVal.(models.UserRole)
		if !ok {
			roleStr, isString := roleVal.(string)
			if !isString {
				apperrors.HandleError(c, apperrors.NewForbiddenError("Access denied: invalid role type"))
				c.Abort()
				return
			}
			role = models.UserRole(roleStr)
		}

		if !roleSet[role] {
			apperrors.HandleError(c, apperrors.ErrInsufficientPermissions)
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserID извлекает ID пользователя из контекста запроса
func GetUserID(c *gin.Context) string {
	userID, exists := c.Get("userID")
	if !exists {
		return ""
	}
	id, ok := userID.(string)
	if !ok {
		return ""
	}
	return id
}

// GetRole извлекает роль пользователя из контекста запроса
func GetRole(c *gin.Context) models.UserRole {
	roleVal, exists := c.Get("role")
	if !exists {
		return ""
	}
	role, ok := roleVal.(models.UserRole)
	if !ok {
		return ""
	}
	return role
}
