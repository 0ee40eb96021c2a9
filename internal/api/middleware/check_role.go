package middleware

import (
	"Gazette/internal/pkg/consts"
	"Gazette/internal/pkg/response"
	"Gazette/internal/service"
	"slices"

	"github.com/gin-gonic/gin"
)

// CheckRoles 检查当前用户是否拥有至少一个指定的角色
func CheckRoles(requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roles := c.GetStringSlice(consts.CtxRoles)

		hasPermission := slices.ContainsFunc(requiredRoles, func(required string) bool {
			return slices.Contains(roles, required)
		})
		if !hasPermission {
			response.Error(c, service.UnauthorizedError)
			c.Abort()
			return
		}

		c.Next()
	}
}
