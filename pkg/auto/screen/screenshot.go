package screen

import (
	"fmt"
	"image"

	"github.com/kbinani/screenshot"

	"github.com/zoeyai/textclicker/pkg/auto"
)

// ScreenshotCapturer 基于 kbinani/screenshot 的截图后端
// 全屏只截取主显示器
type ScreenshotCapturer struct{}

// Capture 截取主显示器或指定区域
func (c *ScreenshotCapturer) Capture(region *auto.Region) (image.Image, error) {
	var rect image.Rectangle
	if region == nil {
		if screenshot.NumActiveDisplays() == 0 {
			return nil, &auto.CaptureError{Backend: BackendScreenshot, Err: fmt.Errorf("没有可用的显示器")}
		}
		rect = screenshot.GetDisplayBounds(0)
	} else {
		if err := region.Validate(); err != nil {
			return nil, err
		}
		rect = image.Rect(region.X, region.Y, region.X+region.Width, region.Y+region.Height)
	}

	img, err := screenshot.CaptureRect(rect)
	if err != nil {
		return nil, &auto.CaptureError{Backend: BackendScreenshot, Err: err}
	}
	return img, nil
}

// ActiveDisplays 返回当前活动显示器的边界
func ActiveDisplays() []image.Rectangle {
	n := screenshot.NumActiveDisplays()
	bounds := make([]image.Rectangle, 0, n)
	for i := 0; i < n; i++ {
		bounds = append(bounds, screenshot.GetDisplayBounds(i))
	}
	return bounds
}
