package recommend

import (
	"sort"
	"strings"
)

// Normalizer 蔬菜名稱正規化器。
// 比對一律以正規化後的小寫識別字進行，未知名稱原樣通過
type Normalizer struct {
	synonyms map[string]string
}

// NewNormalizer 創建正規化器
func NewNormalizer(synonyms map[string]string) Normalizer {
	return Normalizer{synonyms: synonyms}
}

// Normalize 將單一蔬菜名稱轉為正規形式。
// 空字串原樣回傳，呼叫端負責過濾
func (n Normalizer) Normalize(name string) string {
	cleaned := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := n.synonyms[cleaned]; ok {
		return canonical
	}
	return cleaned
}

// NormalizeSet 正規化多組蔬菜名稱並聯集成集合：
// 去除空值、去重，輸出排序後的切片以保證結果可重現
func (n Normalizer) NormalizeSet(lists ...[]string) []string {
	seen := make(map[string]struct{})
	for _, list := range lists {
		for _, item := range list {
			canonical := n.Normalize(item)
			if canonical == "" {
				continue
			}
			seen[canonical] = struct{}{}
		}
	}

	result := make([]string, 0, len(seen))
	for canonical := range seen {
		result = append(result, canonical)
	}
	sort.Strings(result)
	return result
}

// cleanText 清理食材或食譜名稱供子字串比對：
// 轉小寫、逗號與連字號換成空白、去除括號、修剪前後空白
func cleanText(text string) string {
	s := strings.ToLower(text)
	s = strings.ReplaceAll(s, ",", " ")
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "(", "")
	s = strings.ReplaceAll(s, ")", "")
	return strings.TrimSpace(s)
}
