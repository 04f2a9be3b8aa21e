package common

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// 上下文键，由会话中间件写入，处理器与模板渲染读取
const (
	ContextUserIDKey       = "user_id"
	ContextUsernameKey     = "username"
	ContextSessionTokenKey = "session_token"
	ContextRequestIDKey    = "request_id"
)

// Render 渲染 HTML 页面，自动注入当前登录用户
func Render(c *gin.Context, httpStatus int, templateName string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if _, ok := data["CurrentUser"]; !ok {
		if username := c.GetString(ContextUsernameKey); username != "" {
			data["CurrentUser"] = username
		}
	}
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = map[string]string{}
	}
	c.HTML(httpStatus, templateName, data)
}

// RenderError 渲染错误页并终止请求链
func RenderError(c *gin.Context, httpStatus int, message string) {
	Render(c, httpStatus, "error.html", gin.H{
		"Title":   http.StatusText(httpStatus),
		"Status":  httpStatus,
		"Message": message,
	})
	c.Abort()
}

// Redirect 发送 302 跳转
func Redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}

// FormErrors 把绑定错误转换为 字段名 -> 提示文案 的映射
// 非校验类错误（表单解析失败等）归入 __all__
func FormErrors(err error) map[string]string {
	result := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		result["__all__"] = "Invalid form submission."
		return result
	}

	for _, fieldError := range validationErrors {
		result[fieldError.Field()] = messageForTag(fieldError)
	}
	return result
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "min":
		return "Ensure this value has at least " + fe.Param() + " characters."
	case "max":
		return "Ensure this value has at most " + fe.Param() + " characters."
	case "eqfield":
		return "The two password fields didn't match."
	default:
		return "This value is invalid."
	}
}
