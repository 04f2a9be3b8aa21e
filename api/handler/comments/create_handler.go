package comments

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/photogur/photogur/api/common"
	"github.com/photogur/photogur/database/models"
	commentsrepo "github.com/photogur/photogur/database/repo/comments"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler 评论处理器
type Handler struct {
	repo *commentsrepo.Repository
}

// NewHandler 创建评论处理器
func NewHandler(repo *commentsrepo.Repository) *Handler {
	return &Handler{repo: repo}
}

type createCommentForm struct {
	Name    string `form:"name" binding:"required,max=100"`
	Message string `form:"message" binding:"required"`
	Picture uint   `form:"picture" binding:"required"`
}

// CreateComment 在图片下发表评论，任何人可评，无需登录
func (h *Handler) CreateComment(c *gin.Context) {
	var form createCommentForm
	if err := c.ShouldBind(&form); err != nil {
		common.RenderError(c, http.StatusBadRequest, "Invalid comment submission.")
		return
	}

	comment := &models.Comment{
		Name:      form.Name,
		Message:   form.Message,
		PictureID: form.Picture,
	}

	// 评论必须挂在真实存在的图片上
	if err := h.repo.CreateForPicture(c.Request.Context(), comment); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.RenderError(c, http.StatusNotFound, "Picture not found.")
			return
		}
		log.Printf("[comments] failed to create comment on picture %d: %v", form.Picture, err)
		common.RenderError(c, http.StatusInternalServerError, "Could not post your comment.")
		return
	}

	common.Redirect(c, "/pictures/"+strconv.FormatUint(uint64(form.Picture), 10))
}
