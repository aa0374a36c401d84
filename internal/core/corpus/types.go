package corpus

import (
	"encoding/json"
)

// IngredientRecord 單一食材項目。primary/base 類別帶 required 旗標，
// aromatics/spices/garnish 只有名稱
type IngredientRecord struct {
	Name     string `json:"name"`
	Required bool   `json:"required,omitempty"`
}

// CookTime 以分鐘為單位的烹調時間。
// 來源資料偶有缺漏或型別錯誤，無法解析為整數時一律視為未知，
// 未知的烹調時間不參與時間加分
type CookTime struct {
	Minutes int
	Known   bool
}

// UnmarshalJSON 實現寬鬆解析：null、缺漏、非整數值都不視為錯誤
func (t *CookTime) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return nil
	}
	v, err := n.Int64()
	if err != nil {
		return nil
	}
	t.Minutes = int(v)
	t.Known = true
	return nil
}

// MarshalJSON 未知時間輸出為 null，與來源資料一致
func (t CookTime) MarshalJSON() ([]byte, error) {
	if !t.Known {
		return []byte("null"), nil
	}
	return json.Marshal(t.Minutes)
}

// IngredientSet 食譜的食材欄位。來源資料混用三種形態：
//   - 名稱字串的平面列表
//   - 帶 name 欄位的物件列表
//   - 類別 → 物件列表 的對應表
//
// 無法辨識的元素直接略過，不中斷載入
type IngredientSet struct {
	flat   []IngredientRecord
	groups map[string][]IngredientRecord
}

// UnmarshalJSON 依形態分支解析
func (s *IngredientSet) UnmarshalJSON(data []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err == nil {
		s.flat = decodeItems(items)
		s.groups = nil
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err == nil {
		s.flat = nil
		s.groups = make(map[string][]IngredientRecord, len(raw))
		for category, group := range raw {
			// 類別值不是列表時只略過該類別，其餘類別照常保留
			var groupItems []json.RawMessage
			if err := json.Unmarshal(group, &groupItems); err != nil {
				continue
			}
			s.groups[category] = decodeItems(groupItems)
		}
		return nil
	}

	// 其他形態（null、字串等）視為空集合
	s.flat = nil
	s.groups = nil
	return nil
}

// MarshalJSON 按原始形態輸出
func (s IngredientSet) MarshalJSON() ([]byte, error) {
	if s.groups != nil {
		return json.Marshal(s.groups)
	}
	return json.Marshal(s.flat)
}

// decodeItems 解析單一群組內的元素，略過既非字串也非帶 name 物件的項目
func decodeItems(raw []json.RawMessage) []IngredientRecord {
	items := make([]IngredientRecord, 0, len(raw))
	for _, r := range raw {
		var name string
		if err := json.Unmarshal(r, &name); err == nil && name != "" {
			items = append(items, IngredientRecord{Name: name})
			continue
		}

		var rec struct {
			Name     *string `json:"name"`
			Required bool    `json:"required"`
		}
		if err := json.Unmarshal(r, &rec); err == nil && rec.Name != nil {
			items = append(items, IngredientRecord{Name: *rec.Name, Required: rec.Required})
		}
	}
	return items
}

// Names 攤平為原始食材名稱列表（尚未正規化）
func (s IngredientSet) Names() []string {
	if s.groups != nil {
		var names []string
		for _, group := range s.groups {
			for _, item := range group {
				names = append(names, item.Name)
			}
		}
		return names
	}
	names := make([]string, 0, len(s.flat))
	for _, item := range s.flat {
		names = append(names, item.Name)
	}
	return names
}

// Group 取得指定類別的食材。平面形態沒有類別，一律回傳 nil
func (s IngredientSet) Group(category string) []IngredientRecord {
	if s.groups == nil {
		return nil
	}
	return s.groups[category]
}

// Recipe 食譜紀錄。由外部載入一次後唯讀，推薦流程不得修改
type Recipe struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Cuisine         string          `json:"cuisine"`
	OriginalCuisine string          `json:"original_cuisine,omitempty"`
	Meal            string          `json:"meal"`
	CookingTime     CookTime        `json:"cooking_time"`
	Ingredients     IngredientSet   `json:"ingredients"`
	Meta            json.RawMessage `json:"meta,omitempty"`
}

// CuisineOption 菜系選項，供前端下拉選單使用
type CuisineOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}
