package input

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/zoeyai/textclicker/pkg/auto"
	"github.com/zoeyai/textclicker/pkg/auto/screen"
)

// Selector 交互式屏幕选区
type Selector interface {
	SelectRegion(ctx context.Context) (auto.Region, error)
	SelectPoint(ctx context.Context) (auto.Point, error)
}

// DefaultCountdown 每次取点前的倒计时秒数
const DefaultCountdown = 3

// CountdownSelector 倒计时取鼠标位置的选区方式
//
// 提示用户把鼠标移到目标位置，倒计时结束时读取鼠标坐标。
// 选区需要依次取左上角和右下角两个点，方向不限。
// 返回的坐标已换算为截图像素坐标。
type CountdownSelector struct {
	Out     io.Writer
	Seconds int
	Scale   screen.Scale

	location func() auto.Point
}

// NewCountdownSelector 创建倒计时选区器
func NewCountdownSelector(out io.Writer, scale screen.Scale) *CountdownSelector {
	if scale.X <= 0 || scale.Y <= 0 {
		scale = screen.IdentityScale
	}
	return &CountdownSelector{
		Out:      out,
		Seconds:  DefaultCountdown,
		Scale:    scale,
		location: GetMousePosition,
	}
}

// SelectPoint 倒计时后读取鼠标位置
func (s *CountdownSelector) SelectPoint(ctx context.Context) (auto.Point, error) {
	return s.capture(ctx, "请将鼠标移动到目标位置")
}

// SelectRegion 依次读取两个角点组成区域
func (s *CountdownSelector) SelectRegion(ctx context.Context) (auto.Region, error) {
	a, err := s.capture(ctx, "请将鼠标移动到区域左上角")
	if err != nil {
		return auto.Region{}, err
	}
	b, err := s.capture(ctx, "请将鼠标移动到区域右下角")
	if err != nil {
		return auto.Region{}, err
	}

	region := auto.NewRegion(a, b)
	if err := region.Validate(); err != nil {
		return auto.Region{}, err
	}
	return region, nil
}

func (s *CountdownSelector) capture(ctx context.Context, prompt string) (auto.Point, error) {
	s.printf("%s，%d 秒后读取坐标...\n", prompt, s.Seconds)
	for i := s.Seconds; i > 0; i-- {
		s.printf("  %d\n", i)
		if err := auto.SleepContext(ctx, time.Second); err != nil {
			return auto.Point{}, fmt.Errorf("选区已取消: %w", err)
		}
	}

	p := s.Scale.ToCapture(s.location())
	s.printf("已记录坐标 %s\n", p)
	return p, nil
}

func (s *CountdownSelector) printf(format string, args ...interface{}) {
	if s.Out != nil {
		fmt.Fprintf(s.Out, format, args...)
	}
}
