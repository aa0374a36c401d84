package recommend

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"recipe-recommender/internal/core/corpus"
	engine "recipe-recommender/internal/core/recommend"
	"recipe-recommender/internal/core/vision"
	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := common.InitLogger("error"); err != nil {
		panic(err)
	}
	code := m.Run()
	common.Sync()
	os.RemoveAll("logs")
	os.Exit(code)
}

const testCorpus = `[
	{
		"id": "r1",
		"name": "Tomato Onion Curry",
		"cuisine": "south_indian",
		"original_cuisine": "South Indian Recipes",
		"meal": "Lunch",
		"cooking_time": 30,
		"ingredients": {
			"primary": [
				{"name": "Tomato", "required": true},
				{"name": "Onion", "required": true}
			]
		}
	},
	{
		"id": "r2",
		"name": "Chicken Curry",
		"cuisine": "punjabi",
		"original_cuisine": "Punjabi Recipes",
		"meal": "Dinner",
		"cooking_time": 45,
		"ingredients": {
			"primary": [{"name": "Tomato"}]
		}
	}
]`

func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	cfg := &config.Config{}
	cfg.OpenRouter.Timeout = 5 * time.Second
	cfg.Detector.ConfidenceThreshold = 0.6
	cfg.Recommend.DefaultCookingTime = 60
	cfg.Recommend.DefaultPersons = 2
	cfg.Recommend.DefaultTopK = 10
	cfg.Image.MaxSizeBytes = 10 << 20

	path := filepath.Join(t.TempDir(), "recipes.json")
	if err := os.WriteFile(path, []byte(testCorpus), 0644); err != nil {
		t.Fatalf("failed to write corpus: %v", err)
	}
	store := corpus.NewStore(path)
	if err := store.Load(); err != nil {
		t.Fatalf("failed to load corpus: %v", err)
	}

	eng := engine.NewEngine(engine.DefaultTables())
	detector := vision.NewDetector(cfg, nil)
	return NewHandler(cfg, store, eng, detector)
}

func performJSON(t *testing.T, h gin.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	router := gin.New()
	router.Handle(method, target, h)

	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleRecommend(t *testing.T) {
	h := newTestHandler(t)

	w := performJSON(t, h.HandleRecommend, http.MethodPost, "/api/v1/recommend", `{
		"detected_vegetables": ["tomatoes"],
		"optional_vegetables": ["onion"],
		"meal": "lunch",
		"cooking_time": 60
	}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Count              int                   `json:"count"`
		Recipes            []engine.ScoredRecipe `json:"recipes"`
		SuggestedAdditions []string              `json:"suggested_additions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Count != 2 {
		t.Fatalf("count = %d, want 2", resp.Count)
	}
	if resp.Recipes[0].ID != "r1" {
		t.Errorf("top recipe = %s, want r1", resp.Recipes[0].ID)
	}
	if resp.Recipes[0].Score <= resp.Recipes[1].Score {
		t.Errorf("scores not descending: %v vs %v", resp.Recipes[0].Score, resp.Recipes[1].Score)
	}
	if resp.SuggestedAdditions == nil {
		t.Error("suggested_additions missing from response")
	}
}

func TestHandleRecommendDietFilter(t *testing.T) {
	h := newTestHandler(t)

	w := performJSON(t, h.HandleRecommend, http.MethodPost, "/api/v1/recommend", `{
		"detected_vegetables": ["tomato", "onion"],
		"diet": "veg"
	}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Count   int                   `json:"count"`
		Recipes []engine.ScoredRecipe `json:"recipes"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Count != 1 || resp.Recipes[0].ID != "r1" {
		t.Errorf("veg filter kept %v, want only r1", resp.Recipes)
	}
}

func TestHandleRecommendInvalidJSON(t *testing.T) {
	h := newTestHandler(t)

	w := performJSON(t, h.HandleRecommend, http.MethodPost, "/api/v1/recommend", `{broken`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

// 請求缺省欄位時套用預設值：60 分鐘上限讓 30 分鐘的食譜拿到時間加分
func TestHandleRecommendDefaults(t *testing.T) {
	h := newTestHandler(t)

	w := performJSON(t, h.HandleRecommend, http.MethodPost, "/api/v1/recommend", `{
		"detected_vegetables": ["tomato"],
		"cuisine": "south_indian"
	}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Recipes []engine.ScoredRecipe `json:"recipes"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Recipes) != 1 {
		t.Fatalf("got %d recipes, want 1", len(resp.Recipes))
	}
	// 1 項比中 * 3.0 + 時間 1.0
	if resp.Recipes[0].Score != 4.0 {
		t.Errorf("score = %v, want 4.0", resp.Recipes[0].Score)
	}
}

func TestHandleCuisines(t *testing.T) {
	h := newTestHandler(t)

	w := performJSON(t, h.HandleCuisines, http.MethodGet, "/api/v1/metadata/cuisines", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Cuisines []corpus.CuisineOption `json:"cuisines"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	want := []corpus.CuisineOption{
		{Label: "Punjabi Recipes", Value: "punjabi"},
		{Label: "South Indian Recipes", Value: "south_indian"},
	}
	if len(resp.Cuisines) != len(want) {
		t.Fatalf("cuisines = %v, want %v", resp.Cuisines, want)
	}
	for i := range want {
		if resp.Cuisines[i] != want[i] {
			t.Errorf("cuisines[%d] = %v, want %v", i, resp.Cuisines[i], want[i])
		}
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"tomato,onion", []string{"tomato", "onion"}},
		{" tomato , onion ", []string{"tomato", "onion"}},
		{"tomato,,onion,", []string{"tomato", "onion"}},
		{"", []string{}},
	}

	for _, tt := range tests {
		got := splitList(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("splitList(%q) = %v, want %v", tt.input, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("splitList(%q) = %v, want %v", tt.input, got, tt.want)
				break
			}
		}
	}
}
