package pictures

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/photogur/photogur/api/common"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ShowPicture 图片详情页，附带按时间正序排列的评论
func (h *Handler) ShowPicture(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		common.RenderError(c, http.StatusNotFound, "Picture not found.")
		return
	}

	picture, err := h.repo.WithContext(c.Request.Context()).GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.RenderError(c, http.StatusNotFound, "Picture not found.")
			return
		}
		log.Printf("[pictures] failed to load picture %d: %v", id, err)
		common.RenderError(c, http.StatusInternalServerError, "Could not load picture.")
		return
	}

	commentList, err := h.commentsRepo.WithContext(c.Request.Context()).ListByPicture(picture.ID)
	if err != nil {
		log.Printf("[pictures] failed to load comments for picture %d: %v", picture.ID, err)
		common.RenderError(c, http.StatusInternalServerError, "Could not load picture.")
		return
	}

	common.Render(c, http.StatusOK, "picture.html", gin.H{
		"Title":    picture.Title,
		"Picture":  picture,
		"Comments": commentList,
	})
}
