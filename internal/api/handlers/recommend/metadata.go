package recommend

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandleCuisines 列出食譜資料內可用的菜系選項
func (h *Handler) HandleCuisines(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"cuisines": h.store.Cuisines(),
	})
}
