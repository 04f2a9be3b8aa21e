package middleware

import (
	"errors"

	"github.com/photogur/photogur/api/common"
	"github.com/photogur/photogur/internal/auth"
	"github.com/photogur/photogur/session/types"
	"github.com/gin-gonic/gin"
)

// Sessions 从 Cookie 解析会话并写入请求上下文
// 解析失败不拦截请求，未登录的访客照常浏览公开页面
func Sessions(loginService *auth.LoginService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		sess, err := loginService.CurrentSession(token)
		if err != nil {
			// 过期或被注销的令牌，丢弃 Cookie
			if errors.Is(err, types.ErrSessionNotFound) {
				clearCookie(c, cookieName)
			}
			c.Next()
			return
		}

		c.Set(common.ContextUserIDKey, sess.UserID)
		c.Set(common.ContextUsernameKey, sess.Username)
		c.Set(common.ContextSessionTokenKey, token)
		c.Next()
	}
}

// RequireAuth 登录保护页面，未登录跳转到登录页
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetUint(common.ContextUserIDKey) == 0 {
			c.Header("Cache-Control", "no-store")
			common.Redirect(c, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireGuest 仅限访客页面（登录/注册），已登录用户跳转到列表页
func RequireGuest() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetUint(common.ContextUserIDKey) != 0 {
			common.Redirect(c, "/pictures")
			c.Abort()
			return
		}
		c.Next()
	}
}

func clearCookie(c *gin.Context, cookieName string) {
	c.SetCookie(cookieName, "", -1, "/", "", false, true)
}
