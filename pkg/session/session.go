// Package session 根据会话配置组装截图、OCR、点击和识别流程
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/zoeyai/textclicker/internal/logger"
	"github.com/zoeyai/textclicker/pkg/auto/input"
	"github.com/zoeyai/textclicker/pkg/auto/screen"
	"github.com/zoeyai/textclicker/pkg/auto/text"
	"github.com/zoeyai/textclicker/pkg/config"
	"github.com/zoeyai/textclicker/pkg/executor"
	"github.com/zoeyai/textclicker/pkg/plugin"
	"github.com/zoeyai/textclicker/pkg/vision/ocr"
)

// Option 会话选项，主要用于替换桌面后端
type Option func(*builder)

type builder struct {
	capturer screen.Capturer
	engine   ocr.Engine
	clicker  input.Clicker
	scale    *screen.Scale
	store    *plugin.ModelStore
}

// WithCapturer 使用指定截图后端
func WithCapturer(c screen.Capturer) Option {
	return func(b *builder) { b.capturer = c }
}

// WithEngine 使用指定 OCR 引擎
func WithEngine(e ocr.Engine) Option {
	return func(b *builder) { b.engine = e }
}

// WithClicker 使用指定点击器
func WithClicker(c input.Clicker) Option {
	return func(b *builder) { b.clicker = c }
}

// WithScale 跳过比例探测
func WithScale(s screen.Scale) Option {
	return func(b *builder) { b.scale = &s }
}

// WithModelStore 指定 paddle 模型仓库
func WithModelStore(s *plugin.ModelStore) Option {
	return func(b *builder) { b.store = s }
}

// Session 一次识别会话持有的全部后端
type Session struct {
	Config   *config.SessionConfig
	Capturer screen.Capturer
	Scale    screen.Scale
	Detector *ocr.Detector
	Clicker  input.Clicker
	Locator  *text.TextLocator
}

// OCRConfig 由会话配置得到 OCR 配置，paddle 模型已安装时使用模型仓库中的文件
func OCRConfig(cfg *config.SessionConfig, store *plugin.ModelStore) ocr.Config {
	oc := ocr.DefaultConfig()
	if cfg.Engine != "" {
		oc.Engine = cfg.Engine
	}
	if cfg.Language != "" {
		oc.Language = cfg.Language
	}
	if store != nil && oc.Engine == ocr.EnginePaddle {
		if paths, err := store.InstalledPaths(); err == nil {
			oc.OnnxRuntimeLibPath = paths.OnnxRuntime
			oc.DetModelPath = paths.DetModel
			oc.RecModelPath = paths.RecModel
			oc.DictPath = paths.Dict
		}
	}
	return oc
}

// SequenceConfig 由会话配置得到流程配置
func SequenceConfig(cfg *config.SessionConfig) executor.SequenceConfig {
	return executor.SequenceConfig{
		RewardText:     cfg.RewardText,
		BossText:       cfg.BossText(),
		OpenText:       cfg.OpenText,
		RewardRegion:   cfg.AreaChangeReward,
		BossRegion:     cfg.AreaBoss,
		OpenRegion:     cfg.AreaOpen,
		DownPoint:      cfg.DownCoordinate,
		Interval:       time.Duration(cfg.Interval) * time.Second,
		MaxBossRetries: cfg.MaxBossRetries,
	}
}

// New 按配置创建会话
func New(cfg *config.SessionConfig, opts ...Option) (*Session, error) {
	if cfg == nil {
		return nil, errors.New("会话配置为空")
	}
	b := &builder{}
	for _, opt := range opts {
		opt(b)
	}

	logger.Default().SetLevel(logger.ParseLevel(cfg.LogLevel))

	capturer := b.capturer
	if capturer == nil {
		c, err := screen.NewCapturer(cfg.CaptureBackend)
		if err != nil {
			return nil, err
		}
		capturer = c
	}
	if cfg.DebugCapture {
		capturer = screen.WithDebugPath(capturer, screen.DefaultDebugPath)
	}

	var scale screen.Scale
	if b.scale != nil {
		scale = *b.scale
	} else {
		s, err := screen.DetectScale(capturer)
		if err != nil {
			logger.Warn("探测坐标比例失败，使用系统 DPI 比例 %s: %v", s, err)
		}
		scale = s
	}
	if !scale.IsIdentity() {
		logger.Info("截图与输入坐标比例: %s", scale)
	}
	screen.SetCaptureScale(capturer, scale)

	oc := OCRConfig(cfg, b.store)
	engine := b.engine
	if engine == nil {
		e, err := ocr.NewEngine(oc)
		if err != nil {
			return nil, fmt.Errorf("创建 OCR 引擎失败: %w", err)
		}
		engine = e
	}
	detector := ocr.NewDetector(engine, oc.RecognizeOptions())

	clicker := b.clicker
	if clicker == nil {
		clicker = input.NewRobotgoClicker(scale)
	}

	locator := text.NewTextLocator(capturer, detector,
		text.WithLineThreshold(cfg.LineThreshold),
		text.WithTolerance(cfg.Tolerance),
		text.WithClicker(clicker),
	)

	logger.Info("会话已创建: 引擎=%s 语言=%s 截图=%s", engine.Name(), oc.Language, cfg.CaptureBackend)
	return &Session{
		Config:   cfg,
		Capturer: capturer,
		Scale:    scale,
		Detector: detector,
		Clicker:  clicker,
		Locator:  locator,
	}, nil
}

// NewSequence 创建奖励 → boss → 打开 识别流程
func (s *Session) NewSequence(opts ...executor.SequenceOption) *executor.Sequence {
	return executor.NewSequence(SequenceConfig(s.Config), s.Locator, s.Clicker, opts...)
}

// Close 释放 OCR 引擎
func (s *Session) Close() error {
	return s.Detector.Close()
}
