package ocr

import (
	"fmt"
	"image"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"

	"github.com/zoeyai/textclicker/pkg/auto"
	"github.com/zoeyai/textclicker/pkg/vision/cv"
)

// TesseractEngine 基于 tesseract 的 OCR 引擎
// gosseract 客户端不是并发安全的，所有调用串行执行
type TesseractEngine struct {
	client *gosseract.Client
	mu     sync.Mutex
}

// NewTesseractEngine 创建 tesseract 引擎
func NewTesseractEngine() *TesseractEngine {
	return &TesseractEngine{client: gosseract.NewClient()}
}

// Name 引擎名称
func (e *TesseractEngine) Name() string {
	return EngineTesseract
}

// Recognize 识别图像中的单词及其边界框
func (e *TesseractEngine) Recognize(img image.Image, opts RecognizeOptions) ([]auto.Fragment, error) {
	opts = opts.withDefaults()

	data, err := cv.EncodePNG(img)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.client == nil {
		return nil, fmt.Errorf("引擎已关闭")
	}
	if err := e.client.SetLanguage(opts.Language); err != nil {
		return nil, fmt.Errorf("设置识别语言失败: %w", err)
	}
	if err := e.client.SetPageSegMode(gosseract.PageSegMode(opts.Mode)); err != nil {
		return nil, fmt.Errorf("设置分割模式失败: %w", err)
	}
	if err := e.client.SetImageFromBytes(data); err != nil {
		return nil, fmt.Errorf("设置图像失败: %w", err)
	}

	boxes, err := e.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("tesseract 识别失败: %w", err)
	}

	fragments := make([]auto.Fragment, 0, len(boxes))
	for _, box := range boxes {
		fragments = append(fragments, auto.Fragment{
			Text:       strings.TrimSpace(box.Word),
			X:          box.Box.Min.X,
			Y:          box.Box.Min.Y,
			Width:      box.Box.Dx(),
			Height:     box.Box.Dy(),
			Confidence: box.Confidence,
		})
	}
	return fragments, nil
}

// Close 释放资源
func (e *TesseractEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.client == nil {
		return nil
	}
	err := e.client.Close()
	e.client = nil
	return err
}

// TesseractVersion 返回链接的 tesseract 版本
func TesseractVersion() string {
	return gosseract.Version()
}
