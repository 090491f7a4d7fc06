package screen

import (
	"image"

	"github.com/zoeyai/textclicker/internal/logger"
	"github.com/zoeyai/textclicker/pkg/auto"
)

// DefaultDebugPath 调试截图默认文件名（每次截图覆盖）
const DefaultDebugPath = "debug_capture.png"

type debugCapturer struct {
	inner Capturer
	path  string
}

// WithDebugPath 包装截图后端，每次成功截图后覆盖写入 path 供排查识别问题
// 写入失败只记录日志，不影响截图结果
func WithDebugPath(c Capturer, path string) Capturer {
	if path == "" {
		path = DefaultDebugPath
	}
	return &debugCapturer{inner: c, path: path}
}

func (d *debugCapturer) Capture(region *auto.Region) (image.Image, error) {
	img, err := d.inner.Capture(region)
	if err != nil {
		return nil, err
	}
	if err := SavePNG(img, d.path); err != nil {
		logger.Warn("保存调试截图失败 %s: %v", d.path, err)
	} else {
		logger.Debug("调试截图已保存: %s 区域 %s", d.path, auto.DescribeRegion(region))
	}
	return img, nil
}

// SetScale 转发给被包装的截图后端
func (d *debugCapturer) SetScale(s Scale) {
	SetCaptureScale(d.inner, s)
}
