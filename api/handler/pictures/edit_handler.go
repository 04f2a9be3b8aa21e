package pictures

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/photogur/photogur/api/common"
	"github.com/photogur/photogur/database/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// loadOwnedPicture 按 ID 和当前用户查询图片
// 别人的图片和不存在的图片表现一致，都按 404 处理
func (h *Handler) loadOwnedPicture(c *gin.Context) (*models.Picture, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		common.RenderError(c, http.StatusNotFound, "Picture not found.")
		return nil, false
	}

	userID := c.GetUint(common.ContextUserIDKey)
	picture, err := h.repo.WithContext(c.Request.Context()).GetByIDAndUser(uint(id), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.RenderError(c, http.StatusNotFound, "Picture not found.")
			return nil, false
		}
		log.Printf("[pictures] failed to load picture %d: %v", id, err)
		common.RenderError(c, http.StatusInternalServerError, "Could not load picture.")
		return nil, false
	}

	return picture, true
}

// EditPictureForm 渲染编辑表单，回填当前值
func (h *Handler) EditPictureForm(c *gin.Context) {
	picture, ok := h.loadOwnedPicture(c)
	if !ok {
		return
	}

	common.Render(c, http.StatusOK, "picture_form.html", gin.H{
		"Title":   "Edit Picture",
		"Action":  "/edit/" + strconv.FormatUint(uint64(picture.ID), 10),
		"Picture": picture,
		"Form":    gin.H{"Title": picture.Title, "Artist": picture.Artist},
	})
}

// EditPicture 处理编辑提交，不换文件时保留原图
func (h *Handler) EditPicture(c *gin.Context) {
	picture, ok := h.loadOwnedPicture(c)
	if !ok {
		return
	}

	action := "/edit/" + strconv.FormatUint(uint64(picture.ID), 10)

	var form pictureForm
	if err := c.ShouldBind(&form); err != nil {
		common.Render(c, http.StatusOK, "picture_form.html", gin.H{
			"Title":   "Edit Picture",
			"Action":  action,
			"Picture": picture,
			"Errors":  common.FormErrors(err),
			"Form":    gin.H{"Title": c.PostForm("title"), "Artist": c.PostForm("artist")},
		})
		return
	}

	// 文件可选，未提交时仅更新文字字段
	fileHeader, err := c.FormFile("image")
	if err != nil {
		fileHeader = nil
	}

	if err := h.pictureService.Update(c.Request.Context(), picture, form.Title, form.Artist, fileHeader); err != nil {
		if message, ok := uploadErrorMessage(err); ok {
			common.Render(c, http.StatusOK, "picture_form.html", gin.H{
				"Title":   "Edit Picture",
				"Action":  action,
				"Picture": picture,
				"Errors":  map[string]string{"Image": message},
				"Form":    gin.H{"Title": form.Title, "Artist": form.Artist},
			})
			return
		}
		log.Printf("[pictures] failed to update picture %d: %v", picture.ID, err)
		common.RenderError(c, http.StatusInternalServerError, "Could not save your picture.")
		return
	}

	common.Redirect(c, "/pictures")
}
