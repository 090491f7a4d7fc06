// Package auto 提供文字定位与自动点击共享的基础类型和工具函数。
// 具体功能分布在子包中：screen（截图）, input（点击与选区）, text（行拼接、定位与稳定性过滤）。
//
// 本包不依赖任何图形或 OCR 后端，可在无桌面环境下测试。
package auto

import (
	"context"
	"math"
	"time"
)

// SleepContext 可取消的休眠
// 在 d 结束前 ctx 被取消时立即返回 ctx.Err()
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ScaleCoord 按比例缩放坐标值（截图像素 → 输入坐标）
func ScaleCoord(value int, scale float64) int {
	if scale <= 0 {
		return value
	}
	return int(math.Round(float64(value) / scale))
}

// AbsInt 返回绝对值
func AbsInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// MinInt 返回最小值
func MinInt(values ...int) int {
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

// MaxInt 返回最大值
func MaxInt(values ...int) int {
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}
