// Package plugin 管理 PaddleOCR 引擎所需的模型文件
//
// 模型与 ONNX Runtime 动态库从 HuggingFace 下载到 ~/.textclicker/models，
// 安装完成后通过 Paths 交给 OCR 配置使用。
package plugin

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/zoeyai/textclicker/internal/logger"
)

// DefaultBaseURL HuggingFace 模型仓库地址
const DefaultBaseURL = "https://huggingface.co/getcharzp/go-ocr/resolve/main"

// Paths 模型文件路径
type Paths struct {
	OnnxRuntime string `json:"onnxRuntimePath"`
	DetModel    string `json:"detModelPath"`
	RecModel    string `json:"recModelPath"`
	Dict        string `json:"dictPath"`
}

// All 返回全部文件路径
func (p Paths) All() []string {
	return []string{p.OnnxRuntime, p.DetModel, p.RecModel, p.Dict}
}

// Status 模型安装状态
type Status struct {
	Installed   bool     `json:"installed"`
	Downloading bool     `json:"downloading"`
	Progress    float64  `json:"progress"` // 0-100
	Missing     []string `json:"missing,omitempty"`
	Paths
}

// remoteFile 需要下载的文件
type remoteFile struct {
	name     string
	url      string
	destPath string
	size     int64 // 预估大小（字节），用于计算进度
}

// Option 模型仓库选项
type Option func(*ModelStore)

// WithBaseURL 替换下载地址
func WithBaseURL(url string) Option {
	return func(s *ModelStore) {
		s.baseURL = url
	}
}

// WithHTTPClient 替换 HTTP 客户端
func WithHTTPClient(client *http.Client) Option {
	return func(s *ModelStore) {
		s.client = client
	}
}

// ModelStore PaddleOCR 模型仓库
type ModelStore struct {
	baseDir string
	baseURL string
	client  *http.Client

	mu          sync.RWMutex
	downloading bool
	progress    float64
	onProgress  func(float64)
}

// DefaultDir 默认模型目录 ~/.textclicker/models
func DefaultDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".textclicker", "models")
}

// NewModelStore 创建模型仓库，baseDir 为空时使用默认目录
func NewModelStore(baseDir string, opts ...Option) *ModelStore {
	if baseDir == "" {
		baseDir = DefaultDir()
	}
	s := &ModelStore{
		baseDir: baseDir,
		baseURL: DefaultBaseURL,
		client:  http.DefaultClient,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir 返回模型目录
func (s *ModelStore) Dir() string {
	return s.baseDir
}

// SetProgressCallback 设置进度回调
func (s *ModelStore) SetProgressCallback(callback func(float64)) {
	s.mu.Lock()
	s.onProgress = callback
	s.mu.Unlock()
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

// Paths 返回模型文件路径（不检查是否存在）
func (s *ModelStore) Paths() Paths {
	weights := filepath.Join(s.baseDir, "paddle_weights")
	return Paths{
		OnnxRuntime: filepath.Join(s.baseDir, "lib", OnnxRuntimeFileName()),
		DetModel:    filepath.Join(weights, "det.onnx"),
		RecModel:    filepath.Join(weights, "rec.onnx"),
		Dict:        filepath.Join(weights, "dict.txt"),
	}
}

// GetStatus 获取安装状态
func (s *ModelStore) GetStatus() Status {
	s.mu.RLock()
	status := Status{Downloading: s.downloading, Progress: s.progress}
	s.mu.RUnlock()

	status.Paths = s.Paths()
	for _, p := range status.Paths.All() {
		if !fileExists(p) {
			status.Missing = append(status.Missing, p)
		}
	}
	status.Installed = len(status.Missing) == 0
	return status
}

// IsInstalled 检查是否已安装
func (s *ModelStore) IsInstalled() bool {
	return s.GetStatus().Installed
}

// InstalledPaths 已安装时返回模型路径
func (s *ModelStore) InstalledPaths() (Paths, error) {
	status := s.GetStatus()
	if !status.Installed {
		return Paths{}, fmt.Errorf("OCR 模型未安装，缺少 %d 个文件", len(status.Missing))
	}
	return status.Paths, nil
}

// Install 下载全部模型文件，已存在的文件会跳过
func (s *ModelStore) Install(ctx context.Context) error {
	s.mu.Lock()
	if s.downloading {
		s.mu.Unlock()
		return fmt.Errorf("正在下载中")
	}
	s.downloading = true
	s.progress = 0
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.downloading = false
		s.mu.Unlock()
	}()

	for _, dir := range []string{"lib", "paddle_weights"} {
		if err := os.MkdirAll(filepath.Join(s.baseDir, dir), 0755); err != nil {
			return fmt.Errorf("创建目录失败: %w", err)
		}
	}

	files := s.remoteFiles()
	var totalSize int64
	for _, f := range files {
		totalSize += f.size
	}

	var doneSize int64
	for _, f := range files {
		if fileExists(f.destPath) {
			logger.Debug("跳过已存在的文件: %s", f.name)
			doneSize += f.size
			s.setProgress(float64(doneSize) / float64(totalSize) * 100)
			continue
		}

		logger.Info("下载 %s", f.url)
		base := doneSize
		err := s.download(ctx, f.url, f.destPath, func(downloaded int64) {
			if downloaded > f.size {
				downloaded = f.size
			}
			s.setProgress(float64(base+downloaded) / float64(totalSize) * 100)
		})
		if err != nil {
			return fmt.Errorf("下载 %s 失败: %w", f.name, err)
		}
		doneSize += f.size
	}

	s.setProgress(100)
	return nil
}

// Uninstall 删除模型目录
func (s *ModelStore) Uninstall() error {
	return os.RemoveAll(s.baseDir)
}

func (s *ModelStore) setProgress(v float64) {
	s.mu.Lock()
	s.progress = v
	cb := s.onProgress
	s.mu.Unlock()

	if cb != nil {
		cb(v)
	}
}

// remoteFiles 需要下载的文件列表，ONNX Runtime 在前
func (s *ModelStore) remoteFiles() []remoteFile {
	paths := s.Paths()
	lib := OnnxRuntimeFileName()
	return []remoteFile{
		{name: lib, url: s.baseURL + "/lib/" + lib, destPath: paths.OnnxRuntime, size: 50 * 1024 * 1024},
		{name: "det.onnx", url: s.baseURL + "/paddle_weights/det.onnx", destPath: paths.DetModel, size: 3 * 1024 * 1024},
		{name: "rec.onnx", url: s.baseURL + "/paddle_weights/rec.onnx", destPath: paths.RecModel, size: 5 * 1024 * 1024},
		{name: "dict.txt", url: s.baseURL + "/paddle_weights/dict.txt", destPath: paths.Dict, size: 200 * 1024},
	}
}

// download 下载单个文件，先写入 .tmp 再重命名
func (s *ModelStore) download(ctx context.Context, url, destPath string, onProgress func(int64)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	tmpPath := destPath + ".tmp"
	out, err := os.Create(tmpPath)
	if err != nil {
		return err
	}

	_, err = io.Copy(out, &progressReader{r: resp.Body, onProgress: onProgress})
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, destPath)
}

// progressReader 读取时回报累计字节数
type progressReader struct {
	r          io.Reader
	n          int64
	onProgress func(int64)
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 {
		p.n += int64(n)
		if p.onProgress != nil {
			p.onProgress(p.n)
		}
	}
	return n, err
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
