package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/zoeyai/textclicker/internal/logger"
	"github.com/zoeyai/textclicker/pkg/auto"
	"github.com/zoeyai/textclicker/pkg/auto/input"
	"github.com/zoeyai/textclicker/pkg/auto/screen"
	"github.com/zoeyai/textclicker/pkg/config"
	"github.com/zoeyai/textclicker/pkg/executor"
	"github.com/zoeyai/textclicker/pkg/permissions"
	"github.com/zoeyai/textclicker/pkg/plugin"
	"github.com/zoeyai/textclicker/pkg/session"
)

// App 前端调用的服务
type App struct {
	configMgr *config.Manager
	store     *plugin.ModelStore
	executor  *executor.Executor

	mu      sync.Mutex
	selectC context.CancelFunc
}

// NewApp 创建应用实例
func NewApp() *App {
	a := &App{
		configMgr: config.GetDefaultManager(),
		store:     plugin.NewModelStore(""),
		executor:  executor.NewExecutor(),
	}
	a.executor.SetFinishHandler(func(runID string, st executor.State) {
		logger.Info("识别已结束: %s", st.Reason)
	})
	return a
}

// ServiceShutdown 应用退出时停止识别
func (a *App) ServiceShutdown() error {
	a.executor.StopAndWait()
	return nil
}

func closeSession(s *session.Session) {
	if err := s.Close(); err != nil {
		logger.Warn("释放 OCR 引擎失败: %v", err)
	}
}

// ==================== 配置管理 ====================

// LoadConfig 加载配置
func (a *App) LoadConfig() *config.SessionConfig {
	cfg, err := a.configMgr.Load()
	if err != nil {
		logger.Warn("加载配置失败: %v", err)
	}
	return cfg
}

// SaveConfig 保存配置
func (a *App) SaveConfig(cfg config.SessionConfig) error {
	cfg.ApplyDefaults()
	return a.configMgr.Save(&cfg)
}

// ==================== 选区 ====================

func (a *App) newSelector() (*input.CountdownSelector, context.Context, func(), error) {
	cfg := a.LoadConfig()
	capturer, err := screen.NewCapturer(cfg.CaptureBackend)
	if err != nil {
		return nil, nil, nil, err
	}
	scale, err := screen.DetectScale(capturer)
	if err != nil {
		logger.Warn("探测坐标比例失败，使用系统 DPI 比例 %s: %v", scale, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.mu.Lock()
	if a.selectC != nil {
		a.selectC()
	}
	a.selectC = cancel
	a.mu.Unlock()

	done := func() {
		cancel()
		a.mu.Lock()
		a.selectC = nil
		a.mu.Unlock()
	}
	return input.NewCountdownSelector(&logWriter{}, scale), ctx, done, nil
}

// SelectArea 倒计时选择区域并保存，name 为 reward、boss 或 open
func (a *App) SelectArea(name string) (*auto.Region, error) {
	if a.executor.IsRunning() {
		return nil, fmt.Errorf("识别运行中，请先停止")
	}
	selector, ctx, done, err := a.newSelector()
	if err != nil {
		return nil, err
	}
	defer done()

	r, err := selector.SelectRegion(ctx)
	if err != nil {
		return nil, err
	}

	cfg := a.LoadConfig()
	if err := cfg.SetArea(name, r); err != nil {
		return nil, err
	}
	if err := a.configMgr.Save(cfg); err != nil {
		return nil, err
	}
	logger.Info("已保存 %s 区域: %s", name, r)
	return &r, nil
}

// SelectDownPoint 倒计时选择下滑坐标并保存
func (a *App) SelectDownPoint() (*auto.Point, error) {
	if a.executor.IsRunning() {
		return nil, fmt.Errorf("识别运行中，请先停止")
	}
	selector, ctx, done, err := a.newSelector()
	if err != nil {
		return nil, err
	}
	defer done()

	p, err := selector.SelectPoint(ctx)
	if err != nil {
		return nil, err
	}

	cfg := a.LoadConfig()
	cfg.DownCoordinate = &p
	if err := a.configMgr.Save(cfg); err != nil {
		return nil, err
	}
	logger.Info("已保存下滑坐标: %s", p)
	return &p, nil
}

// PreviewArea 截取已保存的区域，返回 data URL 供前端预览
func (a *App) PreviewArea(name string) (string, error) {
	cfg := a.LoadConfig()
	r, err := cfg.Area(name)
	if err != nil {
		return "", err
	}
	if r == nil && name != config.AreaFull {
		return "", fmt.Errorf("尚未选择 %s 区域", name)
	}

	capturer, err := screen.NewCapturer(cfg.CaptureBackend)
	if err != nil {
		return "", err
	}
	scale, err := screen.DetectScale(capturer)
	if err != nil {
		logger.Warn("探测坐标比例失败，使用系统 DPI 比例 %s: %v", scale, err)
	}
	screen.SetCaptureScale(capturer, scale)

	img, err := capturer.Capture(r)
	if err != nil {
		return "", err
	}
	return screen.ImageToBase64(img, "png", 0)
}

// CancelSelect 取消正在进行的选区
func (a *App) CancelSelect() {
	a.mu.Lock()
	cancel := a.selectC
	a.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// ==================== 识别控制 ====================

// Start 按已保存的配置开始识别
func (a *App) Start() error {
	if a.executor.IsRunning() {
		return executor.ErrAlreadyRunning
	}

	cfg, err := a.configMgr.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if ok, msg := permissions.EnsurePermissions(); !ok {
		return fmt.Errorf("%s", msg)
	}

	s, err := session.New(cfg, session.WithModelStore(a.store))
	if err != nil {
		return err
	}

	// 每次运行只释放自己的会话
	cleanup := executor.WithCleanup(func() { closeSession(s) })
	if _, err := a.executor.Start(context.Background(), s.NewSequence(), cleanup); err != nil {
		closeSession(s)
		return err
	}
	return nil
}

// Stop 停止识别，当前截图和 OCR 完成后生效
func (a *App) Stop() bool {
	return a.executor.Stop()
}

// GetStatus 获取识别状态
func (a *App) GetStatus() executor.Status {
	return a.executor.GetStatus()
}

// ==================== 日志 ====================

// GetLogs 获取最近日志
func (a *App) GetLogs(limit int) []logger.Entry {
	return logger.Recent(limit)
}

// logWriter 将选区倒计时提示写入日志
type logWriter struct{}

func (logWriter) Write(p []byte) (int, error) {
	msg := string(p)
	for len(msg) > 0 && msg[len(msg)-1] == '\n' {
		msg = msg[:len(msg)-1]
	}
	if msg != "" {
		logger.Info("%s", msg)
	}
	return len(p), nil
}

// ==================== OCR 模型 ====================

// GetModelStatus 获取 PaddleOCR 模型状态
func (a *App) GetModelStatus() plugin.Status {
	return a.store.GetStatus()
}

// InstallModels 下载 PaddleOCR 模型
func (a *App) InstallModels() error {
	return a.store.Install(context.Background())
}

// ==================== 权限管理 (macOS) ====================

// PermissionInfo 权限信息
type PermissionInfo struct {
	Accessibility   bool   `json:"accessibility"`
	ScreenRecording bool   `json:"screen_recording"`
	AllGranted      bool   `json:"all_granted"`
	Message         string `json:"message"`
}

// CheckPermissions 检查权限状态
func (a *App) CheckPermissions() PermissionInfo {
	status := permissions.CheckPermissions()
	return PermissionInfo{
		Accessibility:   status.Accessibility,
		ScreenRecording: status.ScreenRecording,
		AllGranted:      status.AllGranted,
		Message:         status.Instructions(),
	}
}

// RequestAccessibilityPermission 请求辅助功能权限
func (a *App) RequestAccessibilityPermission() bool {
	return permissions.RequestAccessibilityPermission()
}

// OpenAccessibilitySettings 打开辅助功能设置
func (a *App) OpenAccessibilitySettings() {
	permissions.OpenAccessibilitySettings()
}

// OpenScreenRecordingSettings 打开屏幕录制设置
func (a *App) OpenScreenRecordingSettings() {
	permissions.OpenScreenRecordingSettings()
}
