package text

import (
	"strings"

	"github.com/zoeyai/textclicker/pkg/auto"
)

// FindInLines 在拼接后的行文字中查找目标子串
//
// 按行的拼接顺序查找，只使用第一个包含目标的行。命中后按 x 顺序累加片段文字长度，
// 返回包含匹配起始字符的片段作为锚点。目标跨越多个片段时锚点是起始片段。
func FindInLines(target string, lines []Line) (anchor auto.Fragment, lineText string, ok bool) {
	if target == "" {
		return auto.Fragment{}, "", false
	}

	for _, line := range lines {
		fragments := line.Sorted()

		var b strings.Builder
		for _, f := range fragments {
			b.WriteString(f.Text)
		}
		lineText = b.String()

		idx := strings.Index(lineText, target)
		if idx < 0 {
			continue
		}

		offset := 0
		for _, f := range fragments {
			if idx < offset+len(f.Text) {
				return f, lineText, true
			}
			offset += len(f.Text)
		}
	}
	return auto.Fragment{}, "", false
}
