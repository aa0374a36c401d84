package recommend

import (
	"math"
	"strings"

	"recipe-recommender/internal/core/corpus"
)

// 評分權重。食材重疊是主要訊號，餐別與時間只做微調
const (
	matchWeight      = 3.0
	mealBonus        = 0.5
	timeFullBonus    = 1.0
	timeNearBonus    = 0.5
	timeGraceMinutes = 15
)

// mealScore 餐別為寬鬆比對：請求的餐別是食譜餐別的子字串即加分
func mealScore(requestMeal, recipeMeal string) float64 {
	if requestMeal == "" || recipeMeal == "" {
		return 0
	}
	if strings.Contains(strings.ToLower(recipeMeal), strings.ToLower(requestMeal)) {
		return mealBonus
	}
	return 0
}

// timeScore 烹調時間在上限內滿分，超出上限 15 分鐘內給半分。
// 未知時間不加分
func timeScore(t corpus.CookTime, maxMinutes int) float64 {
	if !t.Known {
		return 0
	}
	switch {
	case t.Minutes <= maxMinutes:
		return timeFullBonus
	case t.Minutes <= maxMinutes+timeGraceMinutes:
		return timeNearBonus
	default:
		return 0
	}
}

// cuisineMatches 菜系是硬性過濾而非評分項。
// 食譜缺菜系時永遠不命中
func cuisineMatches(requestCuisine, recipeCuisine string) bool {
	if recipeCuisine == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(recipeCuisine), strings.TrimSpace(requestCuisine))
}

// roundScore 分數四捨五入到小數第二位
func roundScore(score float64) float64 {
	return math.Round(score*100) / 100
}
