package input

import (
	"time"

	"github.com/zoeyai/textclicker/pkg/auto"
	"github.com/zoeyai/textclicker/pkg/auto/screen"
)

// Clicker 点击后端
type Clicker interface {
	Click(p auto.Point) error
}

// SettleDelay 移动鼠标后到点击前的等待时间
const SettleDelay = 50 * time.Millisecond

// RobotgoClicker 基于 robotgo 的左键点击
// 传入的是截图像素坐标，点击前按 Scale 换算为输入坐标
type RobotgoClicker struct {
	Scale screen.Scale

	move  func(auto.Point)
	click func()
	sleep func(time.Duration)
}

// NewRobotgoClicker 创建点击后端，scale 为零值时视为 1:1
func NewRobotgoClicker(scale screen.Scale) *RobotgoClicker {
	if scale.X <= 0 || scale.Y <= 0 {
		scale = screen.IdentityScale
	}
	return &RobotgoClicker{
		Scale: scale,
		move:  MoveTo,
		click: LeftClick,
		sleep: time.Sleep,
	}
}

// Click 移动到目标位置，短暂等待后左键单击
func (c *RobotgoClicker) Click(p auto.Point) error {
	c.move(c.Scale.ToInput(p))
	c.sleep(SettleDelay)
	c.click()
	return nil
}
