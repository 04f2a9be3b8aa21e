package common

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type sampleForm struct {
	Username  string `form:"username" binding:"required,max=150"`
	Password1 string `form:"password1" binding:"required,min=8"`
	Password2 string `form:"password2" binding:"required,eqfield=Password1"`
}

func bindSampleForm(t *testing.T, form url.Values) error {
	t.Helper()
	gin.SetMode(gin.TestMode)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req

	var parsed sampleForm
	return c.ShouldBind(&parsed)
}

// --- 测试 表单错误映射 ---

func TestFormErrors(t *testing.T) {
	tests := []struct {
		name      string
		form      url.Values
		wantField string
		wantMsg   string
	}{
		{
			name:      "missing required field",
			form:      url.Values{"password1": {"password123"}, "password2": {"password123"}},
			wantField: "Username",
			wantMsg:   "This field is required.",
		},
		{
			name:      "too short",
			form:      url.Values{"username": {"alice"}, "password1": {"short"}, "password2": {"short"}},
			wantField: "Password1",
			wantMsg:   "Ensure this value has at least 8 characters.",
		},
		{
			name:      "mismatched passwords",
			form:      url.Values{"username": {"alice"}, "password1": {"password123"}, "password2": {"password456"}},
			wantField: "Password2",
			wantMsg:   "The two password fields didn't match.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := bindSampleForm(t, tt.form)
			assert.Error(t, err)

			fieldErrors := FormErrors(err)
			assert.Equal(t, tt.wantMsg, fieldErrors[tt.wantField])
		})
	}
}

func TestFormErrorsValidForm(t *testing.T) {
	err := bindSampleForm(t, url.Values{
		"username":  {"alice"},
		"password1": {"password123"},
		"password2": {"password123"},
	})
	assert.NoError(t, err)
}

func TestFormErrorsNonValidationError(t *testing.T) {
	fieldErrors := FormErrors(assert.AnError)
	assert.Equal(t, "Invalid form submission.", fieldErrors["__all__"])
}
