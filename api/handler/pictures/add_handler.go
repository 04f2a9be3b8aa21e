package pictures

import (
	"errors"
	"log"
	"net/http"

	"github.com/photogur/photogur/api/common"
	"github.com/photogur/photogur/internal/pictures"
	"github.com/gin-gonic/gin"
)

type pictureForm struct {
	Title  string `form:"title" binding:"required,max=200"`
	Artist string `form:"artist" binding:"required,max=200"`
}

// AddPictureForm 渲染新建图片表单
func (h *Handler) AddPictureForm(c *gin.Context) {
	common.Render(c, http.StatusOK, "picture_form.html", gin.H{
		"Title":  "Add Picture",
		"Action": "/add",
	})
}

// AddPicture 处理新建图片提交
func (h *Handler) AddPicture(c *gin.Context) {
	var form pictureForm
	bindErr := c.ShouldBind(&form)

	fileHeader, fileErr := c.FormFile("image")
	if bindErr != nil || fileErr != nil {
		formErrors := map[string]string{}
		if bindErr != nil {
			formErrors = common.FormErrors(bindErr)
		}
		if fileErr != nil {
			formErrors["Image"] = "This field is required."
		}
		common.Render(c, http.StatusOK, "picture_form.html", gin.H{
			"Title":  "Add Picture",
			"Action": "/add",
			"Errors": formErrors,
			"Form":   gin.H{"Title": c.PostForm("title"), "Artist": c.PostForm("artist")},
		})
		return
	}

	userID := c.GetUint(common.ContextUserIDKey)
	_, err := h.pictureService.Create(c.Request.Context(), userID, form.Title, form.Artist, fileHeader)
	if err != nil {
		if message, ok := uploadErrorMessage(err); ok {
			common.Render(c, http.StatusOK, "picture_form.html", gin.H{
				"Title":  "Add Picture",
				"Action": "/add",
				"Errors": map[string]string{"Image": message},
				"Form":   gin.H{"Title": form.Title, "Artist": form.Artist},
			})
			return
		}
		log.Printf("[pictures] failed to create picture: %v", err)
		common.RenderError(c, http.StatusInternalServerError, "Could not save your picture.")
		return
	}

	common.Redirect(c, "/pictures")
}

// uploadErrorMessage 把上传校验错误映射为表单提示
func uploadErrorMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, pictures.ErrNotAnImage):
		return "Upload a valid image. The file you uploaded was either not an image or a corrupted image.", true
	case errors.Is(err, pictures.ErrFileTooLarge):
		return "The uploaded file is too large.", true
	default:
		return "", false
	}
}
