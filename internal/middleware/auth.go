package middleware

import (
	"english_admin/internal/session"
	"english_admin/internal/util"
	"time"

	"github.com/gin-gonic/gin"
)

// ContextAdminKey 已登录管理员在 gin.Context 中的键
const ContextAdminKey = "admin"

// AuthMiddleware 未登录一律 401 并带 redirect；token 自带 exp 且已过期时先清掉登录态
func AuthMiddleware(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		state := store.Current()
		if !state.Authenticated() {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		if info, ok := util.InspectToken(state.Token); ok && info.Expired(time.Now()) {
			store.Expire(c.Request.Context())
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set(ContextAdminKey, state.User)
		c.Next()
	}
}

// GuestOnly 已登录时访问登录接口直接返回当前用户
func GuestOnly(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := store.User(); user != nil && store.Authenticated() {
			util.Success(c, user)
			c.Abort()
			return
		}
		c.Next()
	}
}
