package recommend

import (
	"strings"
)

// dietSafe 檢查食譜是否通過素食過濾。
// 只要任一食材字串或食譜名稱含有葷食關鍵字即排除；
// 名稱檢查不可省略，標錯分類或標題含肉的食譜只能靠它擋下。
// 子字串比對是刻意的寬鬆設計（寧可誤殺），不要改成完整字詞比對
func (e *Engine) dietSafe(recipeName string, ingredients []string) bool {
	for _, marker := range e.tables.NonVegMarkers {
		if strings.Contains(recipeName, marker) {
			return false
		}
		for _, ing := range ingredients {
			if strings.Contains(ing, marker) {
				return false
			}
		}
	}
	return true
}
