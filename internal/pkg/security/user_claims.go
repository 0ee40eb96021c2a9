package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTExpirationTime 默认有效期
const JWTExpirationTime = time.Hour * 24

// UserClaims Token 中的业务信息，subject 为用户 ID
type UserClaims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// HasAnyRole 是否拥有任意一个指定角色
func (c *UserClaims) HasAnyRole(roles ...string) bool {
	for _, required := range roles {
		for _, role := range c.Roles {
			if role == required {
				return true
			}
		}
	}
	return false
}
