package recommend

import (
	"sort"
)

// maxSuggestions 採買建議的最大數量
const maxSuggestions = 3

// suggestAdditions 統計排名結果（只看 top-K，不看全部倖存者）中
// 缺少食材的出現頻率，建議能解鎖最多已顯示食譜的採買項目。
// 同頻率依首次出現順序排列
func suggestAdditions(ranked []ScoredRecipe) []string {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, recipe := range ranked {
		for _, ingredient := range recipe.MissingIngredients {
			if _, ok := counts[ingredient]; !ok {
				order = append(order, ingredient)
			}
			counts[ingredient]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > maxSuggestions {
		order = order[:maxSuggestions]
	}
	return order
}
