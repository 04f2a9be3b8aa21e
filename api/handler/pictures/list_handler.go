package pictures

import (
	"log"
	"net/http"

	"github.com/photogur/photogur/api/common"
	"github.com/gin-gonic/gin"
)

// ListPictures 图片列表页，最新的排在最前
func (h *Handler) ListPictures(c *gin.Context) {
	pictureList, err := h.repo.WithContext(c.Request.Context()).ListAll()
	if err != nil {
		log.Printf("[pictures] failed to list pictures: %v", err)
		common.RenderError(c, http.StatusInternalServerError, "Could not load pictures.")
		return
	}

	common.Render(c, http.StatusOK, "pictures.html", gin.H{
		"Title":    "Pictures",
		"Pictures": pictureList,
	})
}
