package recommend

import (
	"sort"

	"recipe-recommender/internal/core/corpus"
)

// analyzeRequirements 計算食譜的必備食材集合與使用者缺少的部分。
// 必備 = primary 與 base 類別的聯集；香料、辛香與裝飾類別只是調味，
// 不列入必備。平面形態的食材沒有類別，必備集合為空。
// 兩個回傳值都按字典序排序，保證輸出穩定
func (e *Engine) analyzeRequirements(ingredients corpus.IngredientSet, available map[string]struct{}) (required, missing []string) {
	seen := make(map[string]struct{})
	required = make([]string, 0)
	for _, group := range e.tables.RequiredGroups {
		for _, item := range ingredients.Group(group) {
			name := cleanText(item.Name)
			if name == "" {
				continue
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			required = append(required, name)
		}
	}
	sort.Strings(required)

	missing = make([]string, 0)
	for _, name := range required {
		if _, ok := available[name]; !ok {
			missing = append(missing, name)
		}
	}
	return required, missing
}
