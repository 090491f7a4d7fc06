// Package screen 提供屏幕截图、调试落盘和编码功能
package screen

import (
	"fmt"
	"image"
	"strings"

	"github.com/go-vgo/robotgo"

	"github.com/zoeyai/textclicker/pkg/auto"
)

// 截图后端名称
const (
	BackendRobotgo    = "robotgo"
	BackendScreenshot = "screenshot"
)

// Capturer 截图后端
// region 为 nil 时截取全屏，返回图像的像素坐标以区域左上角为原点
type Capturer interface {
	Capture(region *auto.Region) (image.Image, error)
}

// NewCapturer 按名称创建截图后端，空名称使用 robotgo
func NewCapturer(name string) (Capturer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", BackendRobotgo:
		return NewRobotgoCapturer(), nil
	case BackendScreenshot:
		return &ScreenshotCapturer{}, nil
	default:
		return nil, fmt.Errorf("不支持的截图后端: %s", name)
	}
}

// ScaleSetter 需要知道坐标比例的截图后端
type ScaleSetter interface {
	SetScale(s Scale)
}

// SetCaptureScale 为支持的截图后端设置坐标比例，其余后端忽略
func SetCaptureScale(c Capturer, s Scale) {
	if ss, ok := c.(ScaleSetter); ok {
		ss.SetScale(s)
	}
}

// RobotgoCapturer 基于 robotgo 的截图后端
// 区域使用截图像素坐标，robotgo 截图参数使用输入坐标，截图前按 Scale 换算
type RobotgoCapturer struct {
	Scale Scale

	capture func(args ...int) (image.Image, error)
}

// NewRobotgoCapturer 创建 robotgo 截图后端，比例默认为 1:1
func NewRobotgoCapturer() *RobotgoCapturer {
	return &RobotgoCapturer{Scale: IdentityScale, capture: robotgo.CaptureImg}
}

// SetScale 设置截图像素与输入坐标的比例，非法比例视为 1:1
func (c *RobotgoCapturer) SetScale(s Scale) {
	if s.X <= 0 || s.Y <= 0 {
		s = IdentityScale
	}
	c.Scale = s
}

// inputRect 截图像素区域 → robotgo 输入坐标区域
func (c *RobotgoCapturer) inputRect(r auto.Region) (x, y, w, h int) {
	scale := c.Scale
	if scale.X <= 0 || scale.Y <= 0 {
		scale = IdentityScale
	}
	origin := scale.ToInput(auto.Point{X: r.X, Y: r.Y})
	size := scale.ToInput(auto.Point{X: r.Width, Y: r.Height})
	return origin.X, origin.Y, auto.MaxInt(size.X, 1), auto.MaxInt(size.Y, 1)
}

// Capture 截取屏幕或指定区域
func (c *RobotgoCapturer) Capture(region *auto.Region) (image.Image, error) {
	if region != nil {
		if err := region.Validate(); err != nil {
			return nil, err
		}
	}

	capture := c.capture
	if capture == nil {
		capture = robotgo.CaptureImg
	}

	var (
		img image.Image
		err error
	)
	if region == nil {
		img, err = capture()
	} else {
		img, err = capture(c.inputRect(*region))
	}
	if err != nil {
		return nil, &auto.CaptureError{Backend: BackendRobotgo, Err: err}
	}
	if img == nil {
		return nil, &auto.CaptureError{Backend: BackendRobotgo, Err: fmt.Errorf("返回空图像")}
	}
	return img, nil
}

// GetScreenSize 获取 robotgo 输入坐标空间下的屏幕尺寸
func GetScreenSize() (width, height int) {
	return robotgo.GetScreenSize()
}

