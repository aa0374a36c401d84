package recommend

import (
	"strings"
)

// matchVegetables 找出使用者持有的蔬菜中，有出現在食譜食材內的子集。
// 以子字串包含比對，"onion" 能命中 "finely chopped onion"。
// available 已排序，因此回傳結果同樣有序
func matchVegetables(available []string, ingredients []string) []string {
	matched := make([]string, 0, len(available))
	for _, veg := range available {
		for _, ing := range ingredients {
			if strings.Contains(ing, veg) {
				matched = append(matched, veg)
				break
			}
		}
	}
	return matched
}
