package auth

import (
	"log"
	"net/http"

	"github.com/photogur/photogur/api/common"
	"github.com/photogur/photogur/utils"
	"github.com/gin-gonic/gin"
)

type loginForm struct {
	Username string `form:"username" binding:"required,max=150"`
	Password string `form:"password" binding:"required"`
}

// LoginForm 渲染登录页
func (h *Handler) LoginForm(c *gin.Context) {
	common.Render(c, http.StatusOK, "login.html", gin.H{
		"Title": "Login",
	})
}

// Login 处理登录提交
// 凭据错误时重新渲染表单并回填用户名，不透露用户是否存在
func (h *Handler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		common.Render(c, http.StatusOK, "login.html", gin.H{
			"Title":    "Login",
			"Errors":   common.FormErrors(err),
			"Username": c.PostForm("username"),
		})
		return
	}

	result, err := h.loginService.Login(form.Username, form.Password)
	if err != nil {
		log.Printf("[auth] login failed for user %s", utils.SanitizeLogUsername(form.Username))
		common.Render(c, http.StatusOK, "login.html", gin.H{
			"Title":     "Login",
			"FormError": "Login failed",
			"Username":  form.Username,
		})
		return
	}

	h.setSessionCookie(c, result.Token, result.Expires)
	common.Redirect(c, "/pictures")
}
