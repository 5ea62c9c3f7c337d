package languages

import (
	"strings"
)

// normalizeLine 用于去除每行末尾的回车符。
// 该函数适配 Windows 的 \r\n 与 Unix 的 \n。
func normalizeLine(line string) string {
	return strings.TrimSuffix(line, "\r")
}

// NormalizeExtension 把用户输入的后缀统一为“小写 + 点号前缀”的形式。
// 例如 "PY"、"py"、".py" 都会得到 ".py"；空输入返回空字符串。
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// NormalizeExtensions 批量规范化后缀并去重，保持输入顺序。
func NormalizeExtensions(exts []string) []string {
	seen := make(map[string]struct{}, len(exts))
	result := make([]string, 0, len(exts))
	for _, raw := range exts {
		ext := NormalizeExtension(raw)
		if ext == "" {
			continue
		}
		if _, ok := seen[ext]; ok {
			continue
		}
		seen[ext] = struct{}{}
		result = append(result, ext)
	}
	return result
}
