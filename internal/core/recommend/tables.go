package recommend

// DietVegetarian 嚴格素食的飲食限制值，其他值一律不過濾
const DietVegetarian = "veg"

// Tables 引擎使用的靜態對照表。
// 以建構時注入取代隱藏的全域狀態，測試可替換成自訂表
type Tables struct {
	// Synonyms 蔬菜別名 → 正規名稱
	Synonyms map[string]string
	// NonVegMarkers 葷食關鍵字，以子字串比對
	NonVegMarkers []string
	// RequiredGroups 構成必備食材的類別名稱
	RequiredGroups []string
}

// DefaultTables 內建對照表。每次呼叫回傳獨立副本，呼叫端可安全修改
func DefaultTables() Tables {
	return Tables{
		Synonyms: map[string]string{
			"tomatoes": "tomato",
			"tomato":   "tomato",

			"onions": "onion",
			"onion":  "onion",

			"potatoes": "potato",
			"potato":   "potato",

			"capsicum":    "bell_pepper",
			"bell pepper": "bell_pepper",
			"bell_pepper": "bell_pepper",

			"brinjal":  "eggplant",
			"eggplant": "eggplant",

			"carrots": "carrot",
			"carrot":  "carrot",

			"beans":       "beans",
			"green beans": "beans",

			"green chilli":        "green_chilli",
			"green chilli pepper": "green_chilli",
			"green_chilli":        "green_chilli",

			"cabbage":     "cabbage",
			"cauliflower": "cauliflower",

			"peas":       "green_peas",
			"green peas": "green_peas",
		},
		NonVegMarkers: []string{
			"egg", "eggs",
			"fish", "fishes",
			"chicken", "hen",
			"mutton", "lamb",
			"beef", "pork",
			"meat",
			"prawn", "shrimp", "crab", "seafood",
		},
		RequiredGroups: []string{"primary", "base"},
	}
}
