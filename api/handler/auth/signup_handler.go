package auth

import (
	"errors"
	"log"
	"net/http"

	"github.com/photogur/photogur/api/common"
	"github.com/photogur/photogur/internal/auth"
	"github.com/photogur/photogur/utils"
	"github.com/gin-gonic/gin"
)

type signupForm struct {
	Username  string `form:"username" binding:"required,max=150"`
	Password1 string `form:"password1" binding:"required,min=8"`
	Password2 string `form:"password2" binding:"required,eqfield=Password1"`
}

// SignupForm 渲染注册页
func (h *Handler) SignupForm(c *gin.Context) {
	common.Render(c, http.StatusOK, "signup.html", gin.H{
		"Title": "Signup",
	})
}

// Signup 处理注册提交，成功后直接登录并跳转
func (h *Handler) Signup(c *gin.Context) {
	var form signupForm
	if err := c.ShouldBind(&form); err != nil {
		common.Render(c, http.StatusOK, "signup.html", gin.H{
			"Title":    "Signup",
			"Errors":   common.FormErrors(err),
			"Username": c.PostForm("username"),
		})
		return
	}

	result, err := h.loginService.SignupAndLogin(form.Username, form.Password1)
	if err != nil {
		if errors.Is(err, auth.ErrUsernameTaken) {
			common.Render(c, http.StatusOK, "signup.html", gin.H{
				"Title":    "Signup",
				"Errors":   map[string]string{"Username": "A user with that username already exists."},
				"Username": form.Username,
			})
			return
		}
		log.Printf("[auth] signup failed for user %s: %v", utils.SanitizeLogUsername(form.Username), err)
		common.RenderError(c, http.StatusInternalServerError, "Could not create your account. Please try again later.")
		return
	}

	h.setSessionCookie(c, result.Token, result.Expires)
	common.Redirect(c, "/pictures")
}
