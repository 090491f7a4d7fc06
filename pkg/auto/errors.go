package auto

import (
	"errors"
	"fmt"
)

// InvalidRegionError 区域宽高非法（调用方错误，不应重试）
type InvalidRegionError struct {
	Region Region
}

func (e *InvalidRegionError) Error() string {
	return fmt.Sprintf("区域宽高非法: %s", e.Region)
}

// CaptureError 截图后端失败（显示器不可用、无屏幕录制权限等）
// 调用方记录日志并把本轮视为未找到
type CaptureError struct {
	Backend string
	Err     error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("截图失败 [%s]: %v", e.Backend, e.Err)
}

func (e *CaptureError) Unwrap() error {
	return e.Err
}

// OCRBackendError OCR 引擎失败（例如未安装引擎或模型）
// 对整个识别流程是致命的，与“未识别到文字”不同
type OCRBackendError struct {
	Engine string
	Err    error
}

func (e *OCRBackendError) Error() string {
	return fmt.Sprintf("OCR 引擎错误 [%s]: %v", e.Engine, e.Err)
}

func (e *OCRBackendError) Unwrap() error {
	return e.Err
}

// IsInvalidRegion 判断是否为区域非法错误
func IsInvalidRegion(err error) bool {
	var target *InvalidRegionError
	return errors.As(err, &target)
}

// IsCaptureError 判断是否为截图错误
func IsCaptureError(err error) bool {
	var target *CaptureError
	return errors.As(err, &target)
}

// IsOCRBackendError 判断是否为 OCR 引擎错误
func IsOCRBackendError(err error) bool {
	var target *OCRBackendError
	return errors.As(err, &target)
}

// IsFatal 判断错误是否应终止整个识别流程
func IsFatal(err error) bool {
	return IsInvalidRegion(err) || IsOCRBackendError(err)
}
