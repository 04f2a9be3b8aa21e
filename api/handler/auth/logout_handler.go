package auth

import (
	"log"

	"github.com/photogur/photogur/api/common"
	"github.com/gin-gonic/gin"
)

// Logout 注销当前会话并跳转回列表页
// 对未登录的访问同样跳转，注销操作幂等
func (h *Handler) Logout(c *gin.Context) {
	token := c.GetString(common.ContextSessionTokenKey)
	if token != "" {
		if err := h.loginService.Logout(token); err != nil {
			log.Printf("[auth] failed to revoke session: %v", err)
		}
	}

	h.clearSessionCookie(c)
	common.Redirect(c, "/pictures")
}
