package auto

import (
	"fmt"
	"strings"
	"unicode"
)

// Point 表示二维坐标点
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// String 格式化为 (x, y)
func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Region 表示屏幕全局坐标下的矩形区域
// nil *Region 表示全屏
type Region struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// NewRegion 从两个角点创建区域（自动归一化方向）
func NewRegion(a, b Point) Region {
	return Region{
		X:      MinInt(a.X, b.X),
		Y:      MinInt(a.Y, b.Y),
		Width:  AbsInt(a.X - b.X),
		Height: AbsInt(a.Y - b.Y),
	}
}

// Validate 检查宽高是否为正
func (r Region) Validate() error {
	if r.Width <= 0 || r.Height <= 0 {
		return &InvalidRegionError{Region: r}
	}
	return nil
}

// Translate 将区域内局部坐标转换为屏幕全局坐标
func (r Region) Translate(p Point) Point {
	return Point{X: r.X + p.X, Y: r.Y + p.Y}
}

// String 格式化为 (x, y, w, h)
func (r Region) String() string {
	return fmt.Sprintf("(%d, %d, %d, %d)", r.X, r.Y, r.Width, r.Height)
}

// DescribeRegion 描述可能为空的区域
func DescribeRegion(r *Region) string {
	if r == nil {
		return "全屏"
	}
	return r.String()
}

// Fragment OCR 识别出的一个文字片段
// 坐标位于截图自身的像素空间（指定区域截图时即区域局部坐标）
type Fragment struct {
	Text   string `json:"text"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	// Confidence 识别置信度 (0-100)
	Confidence float64 `json:"confidence"`
}

// Center 返回片段边界框中心点（整数除法）
func (f Fragment) Center() Point {
	return Point{X: f.X + f.Width/2, Y: f.Y + f.Height/2}
}

// IsBlank 文字为空或仅包含空白
func (f Fragment) IsBlank() bool {
	return strings.IndexFunc(f.Text, func(r rune) bool { return !unicode.IsSpace(r) }) < 0
}
