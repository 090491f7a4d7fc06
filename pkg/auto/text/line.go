package text

import (
	"sort"
	"strings"

	"github.com/zoeyai/textclicker/pkg/auto"
)

// DefaultLineThreshold 同一行的纵向容差（像素）
const DefaultLineThreshold = 20

// Line 按纵向位置归并出的一行文字片段
// Y 为行锚点（第一个归入片段的 y），行之间保持拼接顺序而不是几何顺序
type Line struct {
	Y         int             `json:"y"`
	Fragments []auto.Fragment `json:"fragments"`
}

// Sorted 返回按 x 升序排列的片段副本，每次查询都会重新排序
func (l Line) Sorted() []auto.Fragment {
	sorted := make([]auto.Fragment, len(l.Fragments))
	copy(sorted, l.Fragments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].X < sorted[j].X
	})
	return sorted
}

// Text 将按 x 排序后的片段文字无分隔拼接
func (l Line) Text() string {
	var b strings.Builder
	for _, f := range l.Sorted() {
		b.WriteString(f.Text)
	}
	return b.String()
}

// Assemble 将片段按纵向接近程度归并为行
//
// 片段先按 (y, x) 升序排列，依次与已有行比较：|line.Y - f.Y| < threshold
// 时加入第一个满足条件的行（先匹配先得，不找最近的行），否则以该片段为锚点新建一行。
// 空白片段会被丢弃。threshold <= 0 时使用 DefaultLineThreshold。
func Assemble(fragments []auto.Fragment, threshold int) []Line {
	if threshold <= 0 {
		threshold = DefaultLineThreshold
	}

	blocks := make([]auto.Fragment, 0, len(fragments))
	for _, f := range fragments {
		if f.IsBlank() {
			continue
		}
		blocks = append(blocks, f)
	}

	sort.SliceStable(blocks, func(i, j int) bool {
		if blocks[i].Y != blocks[j].Y {
			return blocks[i].Y < blocks[j].Y
		}
		return blocks[i].X < blocks[j].X
	})

	var lines []Line
	for _, f := range blocks {
		joined := false
		for i := range lines {
			if auto.AbsInt(lines[i].Y-f.Y) < threshold {
				lines[i].Fragments = append(lines[i].Fragments, f)
				joined = true
				break
			}
		}
		if !joined {
			lines = append(lines, Line{Y: f.Y, Fragments: []auto.Fragment{f}})
		}
	}
	return lines
}
