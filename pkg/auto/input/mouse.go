// Package input 提供鼠标点击和屏幕选区功能
package input

import (
	"github.com/go-vgo/robotgo"

	"github.com/zoeyai/textclicker/pkg/auto"
)

// MoveTo 移动鼠标到输入坐标
func MoveTo(p auto.Point) {
	robotgo.Move(p.X, p.Y)
}

// LeftClick 在当前位置左键单击
func LeftClick() {
	robotgo.Click("left", false)
}

// GetMousePosition 获取鼠标位置（输入坐标）
func GetMousePosition() auto.Point {
	x, y := robotgo.Location()
	return auto.Point{X: x, Y: y}
}
