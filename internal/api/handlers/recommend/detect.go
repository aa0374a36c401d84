package recommend

import (
	"net/http"

	"recipe-recommender/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HandleDetectVegetables 辨識上傳圖片中的蔬菜，回傳原始偵測結果（含信心值）
func (h *Handler) HandleDetectVegetables(c *gin.Context) {
	reqID := requestID(c)

	raw, err := readUpload(c)
	if err != nil {
		common.LogError("圖片上傳無效",
			zap.Error(err),
			zap.String("request_id", reqID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image upload"})
		return
	}

	detections, err := h.detector.DetectUpload(c.Request.Context(), raw)
	if err != nil {
		common.LogError("蔬菜辨識失敗",
			zap.Error(err),
			zap.String("request_id", reqID),
		)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Vegetable detection failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"detected_vegetables": detections,
	})
}
