package ocr

import (
	"fmt"
	"image"
	"strings"
	"sync"

	goocr "github.com/getcharzp/go-ocr"

	"github.com/zoeyai/textclicker/internal/logger"
	"github.com/zoeyai/textclicker/pkg/auto"
	"github.com/zoeyai/textclicker/pkg/vision/cv"
)

// PaddleEngine 基于 PaddleOCR ONNX 模型的 OCR 引擎
// 语言和分割模式由模型决定，RecognizeOptions 中的对应字段被忽略
type PaddleEngine struct {
	engine goocr.Engine
	mu     sync.Mutex
}

// NewPaddleEngine 创建 PaddleOCR 引擎
func NewPaddleEngine(config Config) (*PaddleEngine, error) {
	for _, p := range config.PaddleFiles() {
		if !fileExists(p) {
			return nil, fmt.Errorf("模型文件不存在: %s", p)
		}
	}

	engine, err := goocr.NewPaddleOcrEngine(goocr.Config{
		OnnxRuntimeLibPath: config.OnnxRuntimeLibPath,
		DetModelPath:       config.DetModelPath,
		RecModelPath:       config.RecModelPath,
		DictPath:           config.DictPath,
	})
	if err != nil {
		return nil, fmt.Errorf("创建 OCR 引擎失败: %w", err)
	}

	logger.Info("PaddleOCR 引擎初始化成功")
	return &PaddleEngine{engine: engine}, nil
}

// Name 引擎名称
func (e *PaddleEngine) Name() string {
	return EnginePaddle
}

// Recognize 识别图像中的文字
func (e *PaddleEngine) Recognize(img image.Image, _ RecognizeOptions) ([]auto.Fragment, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.engine == nil {
		return nil, fmt.Errorf("引擎已关闭")
	}

	// 模型输入为三通道
	results, err := e.engine.RunOCR(cv.ToRGBA(img))
	if err != nil {
		return nil, fmt.Errorf("PaddleOCR 识别失败: %w", err)
	}

	fragments := make([]auto.Fragment, 0, len(results))
	for _, r := range results {
		fragments = append(fragments, convertResult(r))
	}
	return fragments, nil
}

// Close 释放资源
func (e *PaddleEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.engine != nil {
		e.engine.Destroy()
		e.engine = nil
	}
	return nil
}

// convertResult 转换 go-ocr 结果
// RecResult.Box 为 [x1, y1, x2, y2]，Score 范围 0-1
func convertResult(r goocr.RecResult) auto.Fragment {
	x1, y1, x2, y2 := r.Box[0], r.Box[1], r.Box[2], r.Box[3]
	return auto.Fragment{
		Text:       strings.TrimSpace(r.Text),
		X:          auto.MinInt(x1, x2),
		Y:          auto.MinInt(y1, y2),
		Width:      auto.AbsInt(x2 - x1),
		Height:     auto.AbsInt(y2 - y1),
		Confidence: float64(r.Score) * 100,
	}
}
