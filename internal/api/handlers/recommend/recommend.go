package recommend

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"recipe-recommender/internal/core/corpus"
	engine "recipe-recommender/internal/core/recommend"
	"recipe-recommender/internal/core/vision"
	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RecommendRequest 推薦請求
type RecommendRequest struct {
	DetectedVegetables []string `json:"detected_vegetables"` // 已辨識的蔬菜
	OptionalVegetables []string `json:"optional_vegetables"` // 使用者手動補充的蔬菜
	Cuisine            string   `json:"cuisine"`             // 菜系，空值表示不過濾
	Diet               string   `json:"diet"`                // "veg" 為嚴格素食
	CookingTime        int      `json:"cooking_time"`        // 最長烹調時間（分鐘）
	Persons            int      `json:"persons"`             // 人數，僅透傳
	Meal               string   `json:"meal"`                // 餐別
	TopK               int      `json:"top_k"`               // 排名長度上限
}

// Handler 推薦處理程序
type Handler struct {
	config   *config.Config
	store    *corpus.Store
	engine   *engine.Engine
	detector *vision.Detector
}

// NewHandler 創建新的推薦處理程序
func NewHandler(cfg *config.Config, store *corpus.Store, eng *engine.Engine, detector *vision.Detector) *Handler {
	return &Handler{
		config:   cfg,
		store:    store,
		engine:   eng,
		detector: detector,
	}
}

// requestID 取得或生成請求 ID
func requestID(c *gin.Context) string {
	id := c.GetHeader("X-Request-ID")
	if id == "" {
		id = uuid.New().String()
		c.Header("X-Request-ID", id)
	}
	return id
}

// applyDefaults 補上請求預設值：
// cooking_time <= 0 以 60 分鐘計、persons <= 0 以 2 人計、top_k <= 0 取 10
func (h *Handler) applyDefaults(req *engine.Request) {
	if req.CookingTime <= 0 {
		req.CookingTime = h.config.Recommend.DefaultCookingTime
	}
	if req.Persons <= 0 {
		req.Persons = h.config.Recommend.DefaultPersons
	}
	if req.TopK <= 0 {
		req.TopK = h.config.Recommend.DefaultTopK
	}
}

// HandleRecommend 依使用者提供的蔬菜與限制條件推薦食譜
func (h *Handler) HandleRecommend(c *gin.Context) {
	reqID := requestID(c)

	common.LogInfo("開始處理食譜推薦請求",
		zap.String("request_id", reqID),
		zap.String("client_ip", c.ClientIP()),
	)

	var req RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("請求格式無效",
			zap.Error(err),
			zap.String("request_id", reqID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	engineReq := engine.Request{
		DetectedVegetables: req.DetectedVegetables,
		OptionalVegetables: req.OptionalVegetables,
		Cuisine:            req.Cuisine,
		Diet:               req.Diet,
		CookingTime:        req.CookingTime,
		Persons:            req.Persons,
		Meal:               req.Meal,
		TopK:               req.TopK,
	}
	h.applyDefaults(&engineReq)

	result := h.engine.Recommend(h.store.Snapshot(), engineReq)

	common.LogInfo("食譜推薦完成",
		zap.String("request_id", reqID),
		zap.Int("結果數量", len(result.Recipes)),
	)

	c.JSON(http.StatusOK, gin.H{
		"count":               len(result.Recipes),
		"recipes":             result.Recipes,
		"suggested_additions": result.SuggestedAdditions,
	})
}

// HandleRecommendFromImage 從上傳圖片辨識蔬菜後直接推薦食譜
func (h *Handler) HandleRecommendFromImage(c *gin.Context) {
	reqID := requestID(c)

	common.LogInfo("開始處理圖片推薦請求",
		zap.String("request_id", reqID),
		zap.String("client_ip", c.ClientIP()),
	)

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

	// 信心值門檻在這一層套用，推薦引擎只看名稱
	detected := make([]string, 0, len(detections))
	for _, det := range detections {
		if det.Confidence >= h.config.Detector.ConfidenceThreshold {
			detected = append(detected, det.Name)
		}
	}

	engineReq := engine.Request{
		DetectedVegetables: detected,
		OptionalVegetables: splitList(c.PostForm("optional_vegetables")),
		Cuisine:            c.PostForm("cuisine"),
		Diet:               c.PostForm("diet"),
		CookingTime:        formInt(c, "cooking_time"),
		Persons:            formInt(c, "persons"),
		Meal:               c.PostForm("meal"),
		TopK:               formInt(c, "top_k"),
	}
	h.applyDefaults(&engineReq)

	result := h.engine.Recommend(h.store.Snapshot(), engineReq)

	common.LogInfo("圖片推薦完成",
		zap.String("request_id", reqID),
		zap.Int("偵測數量", len(detected)),
		zap.Int("結果數量", len(result.Recipes)),
	)

	c.JSON(http.StatusOK, gin.H{
		"detected_vegetables": detected,
		"count":               len(result.Recipes),
		"recipes":             result.Recipes,
		"suggested_additions": result.SuggestedAdditions,
	})
}

// readUpload 讀取 multipart 圖片欄位
func readUpload(c *gin.Context) ([]byte, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, err
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

// splitList 解析逗號分隔的蔬菜列表
func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	return items
}

// formInt 解析表單整數欄位，無效值回傳 0 交由預設值處理
func formInt(c *gin.Context, key string) int {
	v, err := strconv.Atoi(c.PostForm(key))
	if err != nil {
		return 0
	}
	return v
}
