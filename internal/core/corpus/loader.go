package corpus

import (
	"fmt"
	"os"
	"strings"

	"recipe-recommender/internal/pkg/common"
)

// Load 從 JSON 檔案載入食譜資料。
// 最外層必須是食譜紀錄陣列，否則視為致命的前置條件錯誤；
// 單一食譜內的格式問題（缺欄位、食材形態混雜）則寬鬆處理
func Load(path string) ([]Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus file: %w", err)
	}

	var recipes []Recipe
	if err := common.ParseJSONBytes(data, &recipes); err != nil {
		return nil, fmt.Errorf("%w: corpus must be a JSON array of recipe records: %v", common.ErrCorpusInvalid, err)
	}

	for i := range recipes {
		// 僅有原始菜系標籤的紀錄，在載入時補上正規化值；
		// 兩者皆缺的紀錄永遠不會命中菜系過濾
		if recipes[i].Cuisine == "" && recipes[i].OriginalCuisine != "" {
			recipes[i].Cuisine = NormalizeCuisineLabel(recipes[i].OriginalCuisine)
		}
	}

	return recipes, nil
}

// NormalizeCuisineLabel 將菜系顯示標籤轉為正規化識別值，
// 例如 "Andhra & Telangana Recipes" → "andhra_and_telangana"
func NormalizeCuisineLabel(label string) string {
	s := strings.ToLower(label)
	s = strings.ReplaceAll(s, "&", "and")
	s = strings.ReplaceAll(s, "recipes", "")
	s = strings.TrimSpace(s)
	return strings.ReplaceAll(s, " ", "_")
}
