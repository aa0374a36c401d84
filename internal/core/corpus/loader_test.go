package corpus

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"recipe-recommender/internal/pkg/common"
)

func TestMain(m *testing.M) {
	if err := common.InitLogger("error"); err != nil {
		panic(err)
	}
	code := m.Run()
	common.Sync()
	os.RemoveAll("logs")
	os.Exit(code)
}

func writeCorpus(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recipes.json")
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("failed to write corpus file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeCorpus(t, `[
		{
			"id": "r1",
			"name": "Tomato Rasam",
			"original_cuisine": "South Indian Recipes",
			"cooking_time": 30,
			"ingredients": {"primary": [{"name": "Tomato", "required": true}]}
		},
		{
			"id": "r2",
			"name": "Dal Tadka",
			"cuisine": "punjabi",
			"original_cuisine": "Punjabi Recipes",
			"ingredients": ["Lentils", "Ghee"]
		}
	]`)

	recipes, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(recipes) != 2 {
		t.Fatalf("loaded %d recipes, want 2", len(recipes))
	}

	// 缺正規化菜系時由顯示標籤推導
	if recipes[0].Cuisine != "south_indian" {
		t.Errorf("derived cuisine = %q, want south_indian", recipes[0].Cuisine)
	}
	// 已有正規化值的紀錄不覆寫
	if recipes[1].Cuisine != "punjabi" {
		t.Errorf("cuisine = %q, want punjabi", recipes[1].Cuisine)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("not an array", func(t *testing.T) {
		path := writeCorpus(t, `{"recipes": []}`)
		_, err := Load(path)
		if err == nil {
			t.Fatal("expected error for non-array corpus")
		}
		if !errors.Is(err, common.ErrCorpusInvalid) {
			t.Errorf("err = %v, want ErrCorpusInvalid", err)
		}
	})

	t.Run("trailing garbage", func(t *testing.T) {
		path := writeCorpus(t, `[] []`)
		if _, err := Load(path); err == nil {
			t.Error("expected error for trailing data")
		}
	})
}

func TestNormalizeCuisineLabel(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"South Indian Recipes", "south_indian"},
		{"Andhra & Telangana Recipes", "andhra_and_telangana"},
		{"Punjabi", "punjabi"},
		{"  North Indian Recipes  ", "north_indian"},
	}

	for _, tt := range tests {
		if got := NormalizeCuisineLabel(tt.label); got != tt.want {
			t.Errorf("NormalizeCuisineLabel(%q) = %q, want %q", tt.label, got, tt.want)
		}
	}
}
