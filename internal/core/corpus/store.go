package corpus

import (
	"sort"
	"sync/atomic"

	"recipe-recommender/internal/pkg/common"

	"go.uber.org/zap"
)

// Store 食譜資料的原子快照持有者。
// 快照唯讀，熱更新時整份替換指標而非就地修改，
// 因此讀取端（推薦請求）不需要任何鎖
type Store struct {
	path     string
	snapshot atomic.Pointer[[]Recipe]
}

// NewStore 創建食譜資料存放區
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load 載入（或重新載入）食譜資料並原子替換快照
func (s *Store) Load() error {
	recipes, err := Load(s.path)
	if err != nil {
		return err
	}

	s.snapshot.Store(&recipes)

	common.LogInfo("食譜資料已載入",
		zap.String("路徑", s.path),
		zap.Int("食譜數量", len(recipes)),
	)
	return nil
}

// Snapshot 取得目前的食譜快照。呼叫端不得修改回傳的切片
func (s *Store) Snapshot() []Recipe {
	if p := s.snapshot.Load(); p != nil {
		return *p
	}
	return nil
}

// Cuisines 彙整快照內的菜系選項，依正規化值排序去重。
// 只收錄同時帶有正規化值與顯示標籤的紀錄
func (s *Store) Cuisines() []CuisineOption {
	labels := make(map[string]string)
	for _, r := range s.Snapshot() {
		if r.Cuisine != "" && r.OriginalCuisine != "" {
			labels[r.Cuisine] = r.OriginalCuisine
		}
	}

	options := make([]CuisineOption, 0, len(labels))
	for value, label := range labels {
		options = append(options, CuisineOption{Label: label, Value: value})
	}
	sort.Slice(options, func(i, j int) bool {
		return options[i].Value < options[j].Value
	})
	return options
}
