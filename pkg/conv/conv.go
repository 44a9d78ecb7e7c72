// Package conv 提供 any 类型转换与嵌套 map 取值工具，主要服务于目录响应的鸭子类型适配。
package conv

import (
	"strconv"
	"strings"
)

// ToString 将 any 转为 string。
// string 直接返回；整数形式的数字格式化为十进制；其他类型返回 ("", false)。
func ToString(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	switch val := v.(type) {
	case string:
		return val, true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	default:
		return "", false
	}
}

// Path 按 "a.b.0.c" 形式在 map[string]any / []any 中取值，数字段表示数组下标。
func Path(v any, path string) (any, bool) {
	if path == "" {
		return v, v != nil
	}
	cur := v
	for _, seg := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			cur = node[idx]
		default:
			return nil, false
		}
	}
	return cur, cur != nil
}
