package image

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"strings"
	"time"

	_ "image/gif" // 支援 GIF
	_ "image/png" // 支援 PNG

	_ "golang.org/x/image/webp" // 支援 WebP
)

// Service 圖片處理服務。
// 將上傳的圖片（URL 或 base64 data URI）驗證後統一轉成 JPEG data URI，
// 供視覺模型使用
type Service struct {
	maxSizeBytes int64
	httpClient   *http.Client
}

// NewService 創建新的圖片處理服務
func NewService(maxSizeBytes int64) *Service {
	return &Service{
		maxSizeBytes: maxSizeBytes,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Process 處理圖片：取得位元組、檢查大小與格式、重新編碼為 JPEG data URI
func (s *Service) Process(imageData string) (string, error) {
	raw, err := s.fetchBytes(imageData)
	if err != nil {
		return "", err
	}

	// 檢查文件大小
	if int64(len(raw)) > s.maxSizeBytes {
		return "", fmt.Errorf("image size exceeds maximum limit of %d bytes", s.maxSizeBytes)
	}

	// 解碼圖片並檢查格式
	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}
	if !isSupportedFormat(format) {
		return "", fmt.Errorf("unsupported image format: %s", format)
	}

	// 統一轉換為 JPEG 格式
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("failed to encode image as JPEG: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())
	return fmt.Sprintf("data:image/jpeg;base64,%s", encoded), nil
}

// EncodeUpload 將上傳的原始位元組包裝成 data URI，再交給 Process 驗證
func (s *Service) EncodeUpload(raw []byte) (string, error) {
	if len(raw) == 0 {
		return "", fmt.Errorf("empty image upload")
	}
	encoded := base64.StdEncoding.EncodeToString(raw)
	return s.Process(fmt.Sprintf("data:image/jpeg;base64,%s", encoded))
}

// fetchBytes 取得圖片位元組：支援 URL 下載與 base64 data URI
func (s *Service) fetchBytes(imageData string) ([]byte, error) {
	if strings.HasPrefix(imageData, "http://") || strings.HasPrefix(imageData, "https://") {
		resp, err := s.httpClient.Get(imageData)
		if err != nil {
			return nil, fmt.Errorf("failed to download image: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("failed to download image: status code %d", resp.StatusCode)
		}

		raw, err := io.ReadAll(io.LimitReader(resp.Body, s.maxSizeBytes+1))
		if err != nil {
			return nil, fmt.Errorf("failed to read image data: %w", err)
		}
		return raw, nil
	}

	if !strings.HasPrefix(imageData, "data:image/") {
		return nil, fmt.Errorf("invalid image data format")
	}

	parts := strings.Split(imageData, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid base64 data format")
	}

	raw, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 data: %w", err)
	}
	return raw, nil
}

// isSupportedFormat 檢查圖片格式是否支援
func isSupportedFormat(format string) bool {
	switch format {
	case "jpeg", "jpg", "png", "gif", "webp":
		return true
	}
	return false
}
