// Package ocr 提供文字检测后端
//
// 支持两种引擎:
//   - tesseract（默认，需要系统安装 tesseract 及 chi_sim 语言包）
//   - paddle（PaddleOCR ONNX 模型，需要先安装模型文件）
//
// 基本用法:
//
//	engine, err := ocr.NewEngine(ocr.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	detector := ocr.NewDetector(engine, ocr.DefaultRecognizeOptions())
//	defer detector.Close()
//
//	fragments, err := detector.Detect(img)
//	for _, f := range fragments {
//	    fmt.Printf("文字: %s, 位置: (%d, %d)\n", f.Text, f.X, f.Y)
//	}
package ocr

import (
	"fmt"
	"image"
	"strings"
)

// NewEngine 按配置创建 OCR 引擎
func NewEngine(config Config) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(config.Engine)) {
	case "", EngineTesseract:
		return NewTesseractEngine(), nil
	case EnginePaddle:
		return NewPaddleEngine(config)
	default:
		return nil, fmt.Errorf("不支持的 OCR 引擎: %s", config.Engine)
	}
}

// Probe 检查配置的引擎能否完成一次识别
func Probe(config Config) error {
	engine, err := NewEngine(config)
	if err != nil {
		return err
	}
	defer engine.Close()

	img := image.NewGray(image.Rect(0, 0, 32, 32))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	if _, err := engine.Recognize(img, config.RecognizeOptions()); err != nil {
		return fmt.Errorf("%s 引擎不可用: %w", engine.Name(), err)
	}
	return nil
}

// IsAvailable 检查配置的引擎是否可用
// paddle 只检查模型文件是否齐全；tesseract 实际执行一次空白图像识别以确认语言包存在
func IsAvailable(config Config) bool {
	if strings.EqualFold(config.Engine, EnginePaddle) {
		for _, p := range config.PaddleFiles() {
			if !fileExists(p) {
				return false
			}
		}
		return true
	}
	return Probe(config) == nil
}
