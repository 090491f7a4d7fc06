package ocr

import (
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/zoeyai/textclicker/internal/logger"
	"github.com/zoeyai/textclicker/pkg/auto"
	"github.com/zoeyai/textclicker/pkg/vision/cv"
)

// Detector 文字检测器
// 对截图做灰度预处理后交给引擎识别，过滤空白片段
type Detector struct {
	engine Engine
	opts   RecognizeOptions
	mu     sync.Mutex
}

// NewDetector 创建文字检测器
func NewDetector(engine Engine, opts RecognizeOptions) *Detector {
	return &Detector{
		engine: engine,
		opts:   opts.withDefaults(),
	}
}

// Engine 返回底层引擎
func (d *Detector) Engine() Engine {
	return d.engine
}

// Detect 识别图像中的文字片段
// 没有识别到文字时返回空切片；引擎失败返回 *auto.OCRBackendError
func (d *Detector) Detect(img image.Image) ([]auto.Fragment, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	startTime := time.Now()

	if d.engine == nil {
		return nil, &auto.OCRBackendError{Engine: "none", Err: fmt.Errorf("未配置 OCR 引擎")}
	}

	gray, err := cv.Grayscale(img)
	if err != nil {
		logger.LogEvent(logger.CategoryOCR, false, logger.Since(startTime), "灰度转换失败")
		return nil, &auto.OCRBackendError{Engine: d.engine.Name(), Err: err}
	}

	raw, err := d.engine.Recognize(gray, d.opts)
	if err != nil {
		logger.LogEvent(logger.CategoryOCR, false, logger.Since(startTime), "识别失败")
		return nil, &auto.OCRBackendError{Engine: d.engine.Name(), Err: err}
	}

	fragments := make([]auto.Fragment, 0, len(raw))
	for _, f := range raw {
		if f.IsBlank() {
			continue
		}
		fragments = append(fragments, f)
	}

	logger.LogEvent(logger.CategoryOCR, true, logger.Since(startTime),
		fmt.Sprintf("[%s] 识别到 %d 个文本", d.engine.Name(), len(fragments)))
	return fragments, nil
}

// Close 释放底层引擎
func (d *Detector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.engine == nil {
		return nil
	}
	err := d.engine.Close()
	d.engine = nil
	return err
}
