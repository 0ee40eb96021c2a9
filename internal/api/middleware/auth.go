package middleware

import (
	"Gazette/internal/pkg/consts"
	"Gazette/internal/pkg/response"
	"Gazette/internal/pkg/security"
	"context"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware 负责验证 JWT 并将用户身份信息注入 Context
func AuthMiddleware(tokens *security.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			response.Fail(c, response.Unauthorized, "Token 缺失或格式错误")
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			response.Fail(c, response.Unauthorized, "Token 无效或已过期")
			c.Abort()
			return
		}

		c.Set(consts.CtxUserID, claims.Subject)
		c.Set(consts.CtxRoles, claims.Roles)

		newCtx := context.WithValue(c.Request.Context(), consts.CtxUserID, claims.Subject)
		c.Request = c.Request.WithContext(newCtx)

		c.Next()
	}
}
