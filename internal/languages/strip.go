package languages

import (
	"strings"
)

// Strip 去掉注释与空行，返回逻辑行数和清理后的文本。
//
// 处理顺序固定：
//  1. 所有块注释规则作用于整段文本，删除匹配区间
//  2. 剩余文本按行切分，逐行判断：
//     - 去掉首尾空白后为空：丢弃
//     - 整行被某条行注释规则完整匹配：丢弃
//     - 否则删除行内注释，剩余内容为空则丢弃，非空则保留
//
// 清理结果为空时逻辑行数为 0。nil 规则不做任何剥离，只去掉空行。
func (r *Rules) Strip(content string) (int, string) {
	if r != nil {
		for _, block := range r.blocks {
			content = block.ReplaceAllString(content, "")
		}
	}

	kept := make([]string, 0, strings.Count(content, "\n")+1)
	for _, raw := range strings.Split(content, "\n") {
		line := normalizeLine(raw)
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if r.isWholeLineComment(trimmed) {
			continue
		}

		line = r.removeInlineComments(line)
		if strings.TrimSpace(line) == "" {
			continue
		}
		kept = append(kept, line)
	}

	return len(kept), strings.Join(kept, "\n")
}

// isWholeLineComment 判断去空白后的整行是否完全是注释。
func (r *Rules) isWholeLineComment(trimmed string) bool {
	if r == nil {
		return false
	}
	for _, whole := range r.wholeLines {
		if whole.MatchString(trimmed) {
			return true
		}
	}
	return false
}

// removeInlineComments 依次删除每条行注释规则在行内的匹配部分。
func (r *Rules) removeInlineComments(line string) string {
	if r == nil {
		return line
	}
	for _, expr := range r.lines {
		line = expr.ReplaceAllString(line, "")
	}
	return line
}
