package auth

import (
	"net/http"
	"time"

	"github.com/photogur/photogur/config"
	"github.com/photogur/photogur/internal/auth"
	"github.com/gin-gonic/gin"
)

// Handler 登录/注册/注销处理器
type Handler struct {
	loginService *auth.LoginService
	config       *config.Config
}

// NewHandler 创建认证处理器
func NewHandler(loginService *auth.LoginService, cfg *config.Config) *Handler {
	return &Handler{
		loginService: loginService,
		config:       cfg,
	}
}

// setSessionCookie 写入会话 Cookie
func (h *Handler) setSessionCookie(c *gin.Context, token string, expires time.Time) {
	cookie := http.Cookie{
		Name:     h.config.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.config.SessionCookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(c.Writer, &cookie)
}

// clearSessionCookie 清除会话 Cookie
func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetCookie(h.config.SessionCookieName, "", -1, "/", "", h.config.SessionCookieSecure, true)
}
