package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/zoeyai/textclicker/pkg/auto"
)

// 默认值
const (
	DefaultInterval       = 15
	MinInterval           = 1
	MaxInterval           = 60
	DefaultRewardText     = "更改奖励"
	DefaultOpenText       = "打开"
	DefaultMaxBossRetries = 3
	DefaultTolerance      = 10
	DefaultLineThreshold  = 20
	DefaultEngine         = "tesseract"
	DefaultLanguage       = "chi_sim"
	DefaultCaptureBackend = "robotgo"
	DefaultLogLevel       = "info"
)

// DefaultBossTexts 可选 boss 名称
var DefaultBossTexts = []string{"瓦尔申", "督瑞尔", "格里戈利", "冰中野兽"}

// SessionConfig 识别会话配置
type SessionConfig struct {
	AreaChangeReward *auto.Region `json:"area_change_reward"`
	AreaBoss         *auto.Region `json:"area_boss"`
	AreaOpen         *auto.Region `json:"area_open"`
	DownCoordinate   *auto.Point  `json:"down_coordinate"`

	// Interval 轮询间隔（秒）
	Interval  int      `json:"interval"`
	BossIndex int      `json:"boss_index"`
	BossTexts []string `json:"boss_texts,omitempty"`

	RewardText     string `json:"reward_text,omitempty"`
	OpenText       string `json:"open_text,omitempty"`
	MaxBossRetries int    `json:"max_boss_retries,omitempty"`

	Tolerance     int `json:"tolerance,omitempty"`
	LineThreshold int `json:"line_threshold,omitempty"`

	Engine         string `json:"engine,omitempty"`
	Language       string `json:"language,omitempty"`
	CaptureBackend string `json:"capture_backend,omitempty"`
	DebugCapture   bool   `json:"debug_capture"`
	LogLevel       string `json:"log_level,omitempty"`
}

// DefaultSessionConfig 默认会话配置
func DefaultSessionConfig() *SessionConfig {
	bosses := make([]string, len(DefaultBossTexts))
	copy(bosses, DefaultBossTexts)
	return &SessionConfig{
		Interval:       DefaultInterval,
		BossIndex:      0,
		BossTexts:      bosses,
		RewardText:     DefaultRewardText,
		OpenText:       DefaultOpenText,
		MaxBossRetries: DefaultMaxBossRetries,
		Tolerance:      DefaultTolerance,
		LineThreshold:  DefaultLineThreshold,
		Engine:         DefaultEngine,
		Language:       DefaultLanguage,
		CaptureBackend: DefaultCaptureBackend,
		LogLevel:       DefaultLogLevel,
	}
}

// ApplyDefaults 为缺省字段填充默认值（兼容只含区域和间隔的旧配置文件）
func (c *SessionConfig) ApplyDefaults() {
	d := DefaultSessionConfig()
	if c.Interval <= 0 {
		c.Interval = d.Interval
	}
	if len(c.BossTexts) == 0 {
		c.BossTexts = d.BossTexts
	}
	if c.RewardText == "" {
		c.RewardText = d.RewardText
	}
	if c.OpenText == "" {
		c.OpenText = d.OpenText
	}
	if c.MaxBossRetries <= 0 {
		c.MaxBossRetries = d.MaxBossRetries
	}
	if c.Tolerance <= 0 {
		c.Tolerance = d.Tolerance
	}
	if c.LineThreshold <= 0 {
		c.LineThreshold = d.LineThreshold
	}
	if c.Engine == "" {
		c.Engine = d.Engine
	}
	if c.Language == "" {
		c.Language = d.Language
	}
	if c.CaptureBackend == "" {
		c.CaptureBackend = d.CaptureBackend
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
}

// BossText 返回当前选择的 boss 名称
func (c *SessionConfig) BossText() string {
	if c.BossIndex < 0 || c.BossIndex >= len(c.BossTexts) {
		return ""
	}
	return c.BossTexts[c.BossIndex]
}

// UseBossText 选中指定 boss 名称，列表中已有同名项时复用，否则追加
func (c *SessionConfig) UseBossText(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("boss 名称为空")
	}
	for i, t := range c.BossTexts {
		if t == name {
			c.BossIndex = i
			return nil
		}
	}
	c.BossTexts = append(c.BossTexts, name)
	c.BossIndex = len(c.BossTexts) - 1
	return nil
}

// Validate 检查是否可以开始识别
func (c *SessionConfig) Validate() error {
	areas := []struct {
		name   string
		region *auto.Region
	}{
		{"更改奖励", c.AreaChangeReward},
		{"boss", c.AreaBoss},
		{"打开", c.AreaOpen},
	}
	for _, a := range areas {
		if a.region == nil {
			return fmt.Errorf("请先选择%s区域", a.name)
		}
		if err := a.region.Validate(); err != nil {
			return fmt.Errorf("%s区域无效: %w", a.name, err)
		}
	}
	if c.DownCoordinate == nil {
		return fmt.Errorf("请先获取下滑坐标")
	}
	if c.BossText() == "" {
		return fmt.Errorf("boss 序号超出范围: %d", c.BossIndex)
	}
	if c.Interval < MinInterval || c.Interval > MaxInterval {
		return fmt.Errorf("间隔必须在 %d-%d 秒之间: %d", MinInterval, MaxInterval, c.Interval)
	}
	return nil
}

// SetArea 按名称设置区域: reward、boss、open
func (c *SessionConfig) SetArea(name string, r auto.Region) error {
	switch name {
	case AreaReward:
		c.AreaChangeReward = &r
	case AreaBoss:
		c.AreaBoss = &r
	case AreaOpen:
		c.AreaOpen = &r
	default:
		return fmt.Errorf("未知区域: %s", name)
	}
	return nil
}

// Area 按名称取区域，"full" 或空名称表示全屏 (nil)
func (c *SessionConfig) Area(name string) (*auto.Region, error) {
	switch name {
	case AreaReward:
		return c.AreaChangeReward, nil
	case AreaBoss:
		return c.AreaBoss, nil
	case AreaOpen:
		return c.AreaOpen, nil
	case "", AreaFull:
		return nil, nil
	default:
		return nil, fmt.Errorf("未知区域: %s (可选 reward, boss, open, full)", name)
	}
}

// 区域名称
const (
	AreaReward = "reward"
	AreaBoss   = "boss"
	AreaOpen   = "open"
	AreaFull   = "full"
)

// Manager 配置管理器
type Manager struct {
	configDir  string
	configFile string
	mu         sync.RWMutex
}

// NewManager 创建配置管理器，配置保存在 ~/.textclicker/config.json
func NewManager() *Manager {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return NewManagerWithDir(filepath.Join(homeDir, ".textclicker"))
}

// NewManagerWithDir 使用指定目录创建配置管理器
func NewManagerWithDir(configDir string) *Manager {
	return &Manager{
		configDir:  configDir,
		configFile: filepath.Join(configDir, "config.json"),
	}
}

// ensureDir 确保配置目录存在
func (m *Manager) ensureDir() error {
	return os.MkdirAll(m.configDir, 0755)
}

// Load 加载配置，文件不存在时返回默认配置
func (m *Manager) Load() (*SessionConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, err := os.Stat(m.configFile); os.IsNotExist(err) {
		return DefaultSessionConfig(), nil
	}

	data, err := os.ReadFile(m.configFile)
	if err != nil {
		return DefaultSessionConfig(), fmt.Errorf("读取配置文件失败: %w", err)
	}

	var config SessionConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return DefaultSessionConfig(), fmt.Errorf("解析配置文件失败: %w", err)
	}
	config.ApplyDefaults()

	return &config, nil
}

// Save 保存配置
func (m *Manager) Save(config *SessionConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureDir(); err != nil {
		return fmt.Errorf("创建配置目录失败: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}

	if err := os.WriteFile(m.configFile, data, 0644); err != nil {
		return fmt.Errorf("写入配置文件失败: %w", err)
	}

	return nil
}

// Clear 清除配置
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := os.Stat(m.configFile); os.IsNotExist(err) {
		return nil
	}

	return os.Remove(m.configFile)
}

// GetConfigDir 获取配置目录
func (m *Manager) GetConfigDir() string {
	return m.configDir
}

// GetConfigFile 获取配置文件路径
func (m *Manager) GetConfigFile() string {
	return m.configFile
}

// Exists 检查配置文件是否存在
func (m *Manager) Exists() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, err := os.Stat(m.configFile)
	return err == nil
}

// 全局配置管理器
var defaultManager = NewManager()

// GetDefaultManager 获取默认配置管理器
func GetDefaultManager() *Manager {
	return defaultManager
}
