package ocr

import (
	"image"
	"os"
	"path/filepath"
	"runtime"

	"github.com/zoeyai/textclicker/pkg/auto"
)

// 引擎名称
const (
	EngineTesseract = "tesseract"
	EnginePaddle    = "paddle"
)

// DefaultLanguage 默认识别语言（简体中文）
const DefaultLanguage = "chi_sim"

// PageSegMode 页面分割模式，取值与 tesseract PSM 一致
type PageSegMode int

const (
	// ModeAuto 全自动分割
	ModeAuto PageSegMode = 3
	// ModeSingleBlock 单个统一文字块
	ModeSingleBlock PageSegMode = 6
	// ModeSingleLine 单行文字
	ModeSingleLine PageSegMode = 7
	// ModeSparseText 稀疏文字
	ModeSparseText PageSegMode = 11
)

// RecognizeOptions 单次识别参数
type RecognizeOptions struct {
	// Language 识别语言，如 chi_sim、eng
	Language string
	// Mode 页面分割模式
	Mode PageSegMode
}

// DefaultRecognizeOptions 默认识别参数
func DefaultRecognizeOptions() RecognizeOptions {
	return RecognizeOptions{
		Language: DefaultLanguage,
		Mode:     ModeSingleBlock,
	}
}

func (o RecognizeOptions) withDefaults() RecognizeOptions {
	if o.Language == "" {
		o.Language = DefaultLanguage
	}
	if o.Mode == 0 {
		o.Mode = ModeSingleBlock
	}
	return o
}

// Engine OCR 引擎
// 返回片段坐标位于输入图像的像素空间，置信度范围 0-100
type Engine interface {
	Recognize(img image.Image, opts RecognizeOptions) ([]auto.Fragment, error)
	Name() string
	Close() error
}

// Config OCR 配置
type Config struct {
	// Engine 引擎名称: tesseract（默认）或 paddle
	Engine string `json:"engine"`
	// Language 识别语言
	Language string `json:"language"`
	// Mode 页面分割模式
	Mode PageSegMode `json:"mode"`

	// 以下仅 paddle 引擎使用

	// OnnxRuntimeLibPath ONNX Runtime 动态库路径
	OnnxRuntimeLibPath string `json:"onnxRuntimeLibPath,omitempty"`
	// DetModelPath 检测模型路径
	DetModelPath string `json:"detModelPath,omitempty"`
	// RecModelPath 识别模型路径
	RecModelPath string `json:"recModelPath,omitempty"`
	// DictPath 字典文件路径
	DictPath string `json:"dictPath,omitempty"`
}

// DefaultConfig 默认配置
func DefaultConfig() Config {
	return Config{
		Engine:             EngineTesseract,
		Language:           DefaultLanguage,
		Mode:               ModeSingleBlock,
		OnnxRuntimeLibPath: getDefaultOnnxRuntimePath(),
		DetModelPath:       getDefaultModelPath("det.onnx"),
		RecModelPath:       getDefaultModelPath("rec.onnx"),
		DictPath:           getDefaultModelPath("dict.txt"),
	}
}

// RecognizeOptions 由配置得到识别参数
func (c Config) RecognizeOptions() RecognizeOptions {
	return RecognizeOptions{Language: c.Language, Mode: c.Mode}.withDefaults()
}

// PaddleFiles 返回 paddle 引擎所需的文件
func (c Config) PaddleFiles() []string {
	return []string{c.OnnxRuntimeLibPath, c.DetModelPath, c.RecModelPath, c.DictPath}
}

// getExecutableDir 获取可执行文件所在目录
func getExecutableDir() string {
	execPath, err := os.Executable()
	if err != nil {
		return "."
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return "."
	}
	return filepath.Dir(execPath)
}

// getResourcesDir 获取资源目录
// macOS .app 包内为 Contents/Resources，其他情况与可执行文件同目录
func getResourcesDir() string {
	execDir := getExecutableDir()
	if runtime.GOOS == "darwin" {
		resourcesDir := filepath.Join(execDir, "..", "Resources")
		if fileExists(resourcesDir) {
			return resourcesDir
		}
	}
	return execDir
}

// OnnxRuntimeFileName 当前平台的 ONNX Runtime 库文件名
func OnnxRuntimeFileName() string {
	switch runtime.GOOS {
	case "windows":
		return "onnxruntime.dll"
	case "darwin":
		return "onnxruntime_" + runtime.GOARCH + ".dylib"
	default:
		return "onnxruntime_" + runtime.GOARCH + ".so"
	}
}

func getDefaultOnnxRuntimePath() string {
	name := OnnxRuntimeFileName()
	paths := []string{
		filepath.Join(getResourcesDir(), "lib", name),
		filepath.Join(getExecutableDir(), name),
		filepath.Join("models", "lib", name),
	}
	return firstExisting(paths)
}

func getDefaultModelPath(filename string) string {
	paths := []string{
		filepath.Join(getResourcesDir(), "models", "paddle_weights", filename),
		filepath.Join(getExecutableDir(), "models", "paddle_weights", filename),
		filepath.Join("models", "paddle_weights", filename),
	}
	return firstExisting(paths)
}

// firstExisting 返回第一个存在的路径，都不存在时返回第一个
func firstExisting(paths []string) string {
	for _, p := range paths {
		if fileExists(p) {
			return p
		}
	}
	return paths[0]
}

// fileExists 检查文件是否存在
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
