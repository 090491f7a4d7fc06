// Package text 提供文字定位核心：片段按行归并、子串查找、坐标换算和位置稳定性过滤。
//
// 基本用法:
//
//	locator := text.NewTextLocator(capturer, detector, text.WithClicker(clicker))
//	found, msg, err := locator.ClickText(ctx, "更改奖励", &auto.Region{X: 50, Y: 50, Width: 200, Height: 100})
//	if err != nil {
//	    // 区域非法或 OCR 引擎不可用，不应重试
//	}
//	fmt.Println(found, msg)
//
// TextLocator 持有自己的稳定性记录，每个自动化会话创建一次，
// 同一时间只能被一个执行协程使用。
package text

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/zoeyai/textclicker/internal/logger"
	"github.com/zoeyai/textclicker/pkg/auto"
)

// Capturer 截图后端
type Capturer interface {
	Capture(region *auto.Region) (image.Image, error)
}

// Detector 文字检测后端
type Detector interface {
	Detect(img image.Image) ([]auto.Fragment, error)
}

// Clicker 点击后端
type Clicker interface {
	Click(p auto.Point) error
}

// Status 定位结果状态
type Status int

const (
	// NotFound 没有任何行包含目标文字
	NotFound Status = iota
	// Unstable 找到目标但位置相对上次跳动过大，本轮不可执行
	Unstable
	// Found 找到目标且位置稳定
	Found
)

func (s Status) String() string {
	switch s {
	case Found:
		return "found"
	case Unstable:
		return "unstable"
	default:
		return "not_found"
	}
}

// Result 定位结果
type Result struct {
	Status Status `json:"status"`
	// Point 屏幕全局坐标（NotFound 时为零值）
	Point auto.Point `json:"point"`
	// Line 命中的整行文字
	Line string `json:"line,omitempty"`
}

// Found 结果是否可以执行点击
// 位置不稳定与未找到对调用方同样表现为 false
func (r Result) Found() bool {
	return r.Status == Found
}

// Option 定位器配置选项
type Option func(*TextLocator)

// WithLineThreshold 设置同行纵向容差
func WithLineThreshold(px int) Option {
	return func(l *TextLocator) {
		l.lineThreshold = px
	}
}

// WithTolerance 设置位置稳定性容差
func WithTolerance(px int) Option {
	return func(l *TextLocator) {
		l.tolerance = px
	}
}

// WithClock 设置稳定性记录使用的时钟
func WithClock(now func() time.Time) Option {
	return func(l *TextLocator) {
		l.now = now
	}
}

// WithClicker 设置点击后端，未设置时 ClickText 只定位不点击
func WithClicker(c Clicker) Option {
	return func(l *TextLocator) {
		l.clicker = c
	}
}

// TextLocator 文字定位器
type TextLocator struct {
	capturer      Capturer
	detector      Detector
	clicker       Clicker
	filter        *StabilityFilter
	lineThreshold int
	tolerance     int
	now           func() time.Time
}

// NewTextLocator 创建文字定位器
func NewTextLocator(capturer Capturer, detector Detector, opts ...Option) *TextLocator {
	l := &TextLocator{
		capturer:      capturer,
		detector:      detector,
		lineThreshold: DefaultLineThreshold,
		tolerance:     DefaultTolerance,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.filter = NewStabilityFilter(l.tolerance)
	if l.now != nil {
		l.filter.now = l.now
	}
	return l
}

// Filter 返回定位器持有的稳定性过滤器
func (l *TextLocator) Filter() *StabilityFilter {
	return l.filter
}

// Locate 截图、识别并定位目标文字
//
// 停止请求只在各阶段之间检查，进行中的截图和 OCR 会执行完毕。
// 返回的错误: *auto.InvalidRegionError、*auto.CaptureError、*auto.OCRBackendError 或 ctx 错误。
func (l *TextLocator) Locate(ctx context.Context, target string, region *auto.Region) (Result, error) {
	if region != nil {
		if err := region.Validate(); err != nil {
			return Result{}, err
		}
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	start := time.Now()
	img, err := l.capturer.Capture(region)
	if err != nil {
		logger.LogEvent(logger.CategoryCapture, false, logger.Since(start), err.Error())
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	fragments, err := l.detector.Detect(img)
	if err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	lines := Assemble(fragments, l.lineThreshold)
	for _, line := range lines {
		logger.Debug("行内容: %s", line.Text())
	}

	anchor, lineText, ok := FindInLines(target, lines)
	if !ok {
		logger.LogEvent(logger.CategoryLocate, false, logger.Since(start),
			fmt.Sprintf("未找到目标文字 '%s' 区域 %s", target, auto.DescribeRegion(region)))
		return Result{Status: NotFound}, nil
	}

	point := anchor.Center()
	if region != nil {
		point = region.Translate(point)
	}

	if !l.filter.Accept(target, point) {
		rec, _ := l.filter.Record(target)
		logger.LogEvent(logger.CategoryLocate, false, logger.Since(start),
			fmt.Sprintf("'%s' 位置不稳定 %s, 重置计数 (容差 %dpx)", target, rec.Last, l.filter.Tolerance()))
		return Result{Status: Unstable, Point: point, Line: lineText}, nil
	}

	rec, _ := l.filter.Record(target)
	logger.LogEvent(logger.CategoryLocate, true, logger.Since(start),
		fmt.Sprintf("找到目标 '%s' 中心点 %s 行 '%s' 连续 %d 次", target, point, lineText, rec.Count))
	return Result{Status: Found, Point: point, Line: lineText}, nil
}

// ClickText 定位目标文字并在找到时点击
//
// found 只在位置稳定并已点击（或未配置点击后端）时为 true；message 是供日志展示的状态文字。
// 截图失败视为本轮未找到，不返回 err；区域非法、OCR 引擎错误和停止请求通过 err 返回。
func (l *TextLocator) ClickText(ctx context.Context, target string, region *auto.Region) (bool, string, error) {
	res, err := l.Locate(ctx, target, region)
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return false, "识别已停止", err
		case auto.IsCaptureError(err):
			return false, fmt.Sprintf("截图失败，本轮视为未找到 '%s': %v", target, err), nil
		default:
			return false, fmt.Sprintf("识别 '%s' 失败: %v", target, err), err
		}
	}

	switch res.Status {
	case NotFound:
		return false, fmt.Sprintf("未找到文字 '%s'", target), nil
	case Unstable:
		return false, fmt.Sprintf("文字 '%s' 位置不稳定 %s，本轮不点击", target, res.Point), nil
	}

	if l.clicker == nil {
		return true, fmt.Sprintf("找到文字 '%s' 在位置 %s", target, res.Point), nil
	}

	start := time.Now()
	if err := l.clicker.Click(res.Point); err != nil {
		logger.LogEvent(logger.CategoryClick, false, logger.Since(start), err.Error())
		return false, fmt.Sprintf("找到文字 '%s' 但点击 %s 失败: %v", target, res.Point, err), nil
	}
	logger.LogEvent(logger.CategoryClick, true, logger.Since(start), fmt.Sprintf("点击 %s", res.Point))
	return true, fmt.Sprintf("找到文字 '%s' 在位置 %s，已点击", target, res.Point), nil
}
