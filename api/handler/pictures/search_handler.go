package pictures

import (
	"log"
	"net/http"

	"github.com/photogur/photogur/api/common"
	"github.com/gin-gonic/gin"
)

// SearchPictures 按标题或作者模糊搜索，大小写不敏感
// 缺少 query 参数视为错误请求，空字符串匹配全部
func (h *Handler) SearchPictures(c *gin.Context) {
	query, ok := c.GetQuery("query")
	if !ok {
		common.RenderError(c, http.StatusBadRequest, "Missing search query.")
		return
	}

	results, err := h.repo.WithContext(c.Request.Context()).Search(query)
	if err != nil {
		log.Printf("[pictures] search failed for %q: %v", query, err)
		common.RenderError(c, http.StatusInternalServerError, "Search failed.")
		return
	}

	common.Render(c, http.StatusOK, "picture_search.html", gin.H{
		"Title":    "Search Results",
		"Query":    query,
		"Pictures": results,
	})
}
