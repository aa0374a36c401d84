package recommend

import (
	"encoding/json"
	"math"
	"sort"

	"recipe-recommender/internal/core/corpus"
)

// DefaultTopK 未指定 top_k 時的排名長度上限
const DefaultTopK = 10

// Request 單次推薦請求。
// Persons 僅透傳，不影響過濾與評分
type Request struct {
	DetectedVegetables []string `json:"detected_vegetables"`
	OptionalVegetables []string `json:"optional_vegetables"`
	Cuisine            string   `json:"cuisine"`
	Diet               string   `json:"diet"`
	CookingTime        int      `json:"cooking_time"`
	Persons            int      `json:"persons"`
	Meal               string   `json:"meal"`
	TopK               int      `json:"top_k"`
}

// ScoredRecipe 請求範圍內的評分結果，不做任何持久化
type ScoredRecipe struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	Score               float64         `json:"score"`
	MatchedVegetables   []string        `json:"matched_vegetables"`
	MissingIngredients  []string        `json:"missing_ingredients"`
	RequiredIngredients []string        `json:"required_ingredients"`
	CoveragePercent     int             `json:"coverage_percent"`
	Cuisine             string          `json:"cuisine"`
	Meal                string          `json:"meal"`
	CookingTime         corpus.CookTime `json:"cooking_time"`
	Meta                json.RawMessage `json:"meta,omitempty"`
}

// Result 推薦結果：排名列表加上採買建議
type Result struct {
	Recipes            []ScoredRecipe `json:"recipes"`
	SuggestedAdditions []string       `json:"suggested_additions"`
}

// Engine 過濾、比對與排名引擎。
// 純同步計算，不持有請求間狀態，可安全併發使用
type Engine struct {
	tables     Tables
	normalizer Normalizer
}

// NewEngine 創建推薦引擎
func NewEngine(tables Tables) *Engine {
	return &Engine{
		tables:     tables,
		normalizer: NewNormalizer(tables.Synonyms),
	}
}

// Normalizer 回傳引擎使用的正規化器，供呼叫端預先正規化輸入
func (e *Engine) Normalizer() Normalizer {
	return e.normalizer
}

// Recommend 對食譜快照做單趟過濾、評分與排名。
// recipes 為唯讀快照，過程中絕不修改
func (e *Engine) Recommend(recipes []corpus.Recipe, req Request) *Result {
	available := e.normalizer.NormalizeSet(req.DetectedVegetables, req.OptionalVegetables)
	availableSet := make(map[string]struct{}, len(available))
	for _, veg := range available {
		availableSet[veg] = struct{}{}
	}

	topK := req.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	scored := make([]ScoredRecipe, 0)
	for _, recipe := range recipes {
		// 食材攤平與清理，正規化在比對端進行
		rawNames := recipe.Ingredients.Names()
		ingredients := make([]string, 0, len(rawNames))
		for _, name := range rawNames {
			if cleaned := cleanText(name); cleaned != "" {
				ingredients = append(ingredients, cleaned)
			}
		}
		recipeName := cleanText(recipe.Name)

		// 素食硬過濾，絕不放行
		if req.Diet == DietVegetarian && !e.dietSafe(recipeName, ingredients) {
			continue
		}

		// 蔬菜比對
		matched := matchVegetables(available, ingredients)

		// 必備食材與缺口
		required, missing := e.analyzeRequirements(recipe.Ingredients, availableSet)

		// 覆蓋率分子刻意用 matched 總數，獎勵用到更多持有蔬菜的食譜。
		// 四捨六入五成雙，0.5 邊界不無條件進位
		coverage := 0
		if len(required) > 0 {
			coverage = int(math.RoundToEven(float64(len(matched)) / float64(len(required)) * 100))
		}

		// 一項都沒比中的食譜對使用者沒有意義
		if len(matched) == 0 {
			continue
		}

		score := float64(len(matched)) * matchWeight

		// 菜系硬過濾
		if req.Cuisine != "" && !cuisineMatches(req.Cuisine, recipe.Cuisine) {
			continue
		}

		score += mealScore(req.Meal, recipe.Meal)
		score += timeScore(recipe.CookingTime, req.CookingTime)

		scored = append(scored, ScoredRecipe{
			ID:                  recipe.ID,
			Name:                recipe.Name,
			Score:               roundScore(score),
			MatchedVegetables:   matched,
			MissingIngredients:  missing,
			RequiredIngredients: required,
			CoveragePercent:     coverage,
			Cuisine:             recipe.Cuisine,
			Meal:                recipe.Meal,
			CookingTime:         recipe.CookingTime,
			Meta:                recipe.Meta,
		})
	}

	// 穩定排序：同分保留語料庫順序
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > topK {
		scored = scored[:topK]
	}

	return &Result{
		Recipes:            scored,
		SuggestedAdditions: suggestAdditions(scored),
	}
}
