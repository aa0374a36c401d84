package vision

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"recipe-recommender/internal/core/image"
	"recipe-recommender/internal/core/vision/cache"
	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Detection 單一蔬菜偵測結果。
// 信心值的門檻過濾由呼叫端負責，推薦引擎永遠看不到信心值
type Detection struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// Detector 蔬菜辨識服務，透過 OpenRouter 視覺模型辨識圖片中的蔬菜
type Detector struct {
	config   *config.Config
	client   *resty.Client
	cache    *cache.Manager
	imageSvc *image.Service
}

// 要求模型只回傳 JSON 陣列，方便解析
const detectPrompt = `請辨識圖片中出現的所有蔬菜。
要求：
1. 只回報蔬菜，忽略其他食材與背景物品
2. name 使用小寫英文名稱（例如 tomato、onion、bell pepper）
3. confidence 為 0 到 1 之間的小數
4. 只回傳最緊湊的 JSON 陣列，不要任何其他文字
格式範例：[{"name":"tomato","confidence":0.95}]`

// NewDetector 創建蔬菜辨識服務
func NewDetector(cfg *config.Config, cacheManager *cache.Manager) *Detector {
	client := resty.New().
		SetBaseURL("https://openrouter.ai/api/v1").
		SetTimeout(cfg.OpenRouter.Timeout).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.OpenRouter.APIKey)).
		SetHeader("HTTP-Referer", "https://recipe-recommender.com").
		SetHeader("X-Title", "Recipe Recommender")

	return &Detector{
		config:   cfg,
		client:   client,
		cache:    cacheManager,
		imageSvc: image.NewService(cfg.Image.MaxSizeBytes),
	}
}

// Detect 辨識圖片中的蔬菜。imageData 可為 URL 或 base64 data URI
func (d *Detector) Detect(ctx context.Context, imageData string) ([]Detection, error) {
	if !d.config.OpenRouter.Enabled {
		return nil, fmt.Errorf("%w: vegetable detector is disabled", common.ErrDetectorError)
	}

	start := time.Now()

	processed, err := d.imageSvc.Process(imageData)
	if err != nil {
		return nil, fmt.Errorf("failed to process image: %w", err)
	}

	// 同一張圖片直接回用快取的辨識結果
	if d.cache != nil {
		if val, err := d.cache.Get(ctx, processed); err == nil && val != "" {
			var cached []Detection
			if err := common.ParseJSON(val, &cached); err == nil {
				return cached, nil
			}
		}
	}

	detections, err := d.callModel(ctx, processed)
	common.LogDetection(time.Since(start), len(detections), err)
	if err != nil {
		return nil, err
	}

	if d.cache != nil {
		if encoded, err := common.ToJSON(detections); err == nil {
			_ = d.cache.Set(ctx, processed, encoded)
		}
	}

	return detections, nil
}

// DetectUpload 辨識上傳的原始圖片位元組
func (d *Detector) DetectUpload(ctx context.Context, raw []byte) ([]Detection, error) {
	encoded, err := d.imageSvc.EncodeUpload(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to process image: %w", err)
	}
	return d.Detect(ctx, encoded)
}

// callModel 呼叫視覺模型並解析回應
func (d *Detector) callModel(ctx context.Context, imageURL string) ([]Detection, error) {
	req := map[string]interface{}{
		"model": d.config.OpenRouter.Model,
		"messages": []map[string]interface{}{
			{
				"role": "user",
				"content": []map[string]interface{}{
					{
						"type": "text",
						"text": detectPrompt,
					},
					{
						"type": "image_url",
						"image_url": map[string]string{
							"url": imageURL,
						},
					},
				},
			},
		},
		"max_tokens": d.config.OpenRouter.MaxTokens,
	}

	resp, err := d.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/chat/completions")
	if err != nil {
		return nil, fmt.Errorf("failed to send request to OpenRouter: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: OpenRouter API returned status %d", common.ErrDetectorError, resp.StatusCode())
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse OpenRouter response: %w", err)
	}
	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("no choices in OpenRouter response")
	}

	return parseDetections(result.Choices[0].Message.Content)
}

// parseDetections 從模型回應中取出 JSON 陣列並解析。
// 模型偶爾會在陣列前後多話，先裁切再解析
func parseDetections(content string) ([]Detection, error) {
	content = strings.TrimSpace(content)
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON array in model response")
	}
	content = common.QuoteJSONKeys(content[start : end+1])

	var raw []Detection
	if err := common.ParseJSON(content, &raw); err != nil {
		common.LogDebug("模型回應解析失敗",
			zap.Int("content_length", len(content)),
		)
		return nil, fmt.Errorf("failed to parse detections: %w", err)
	}

	detections := make([]Detection, 0, len(raw))
	for _, det := range raw {
		name := strings.ToLower(strings.TrimSpace(det.Name))
		if name == "" {
			continue
		}
		if det.Confidence < 0 {
			det.Confidence = 0
		}
		if det.Confidence > 1 {
			det.Confidence = 1
		}
		detections = append(detections, Detection{Name: name, Confidence: det.Confidence})
	}
	return detections, nil
}
