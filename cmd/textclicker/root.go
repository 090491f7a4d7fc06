package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/zoeyai/textclicker/internal/logger"
	"github.com/zoeyai/textclicker/pkg/auto"
	"github.com/zoeyai/textclicker/pkg/config"
)

// 全局参数
var (
	configDir      string
	engineArg      string
	languageArg    string
	backendArg     string
	logLevelArg    string
	logFileArg     string
	debugCapture   bool
	saveConfigFlag bool
)

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed)
	bold      = color.New(color.Bold)
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "textclicker",
		Short: "屏幕文字识别自动点击工具",
		Long: `textclicker 在屏幕指定区域内识别文字并自动点击。

典型流程:
  textclicker select reward    # 选择"更改奖励"区域
  textclicker select boss      # 选择 boss 区域
  textclicker select open      # 选择"打开"区域
  textclicker select down      # 选择下滑坐标
  textclicker run              # 开始循环识别`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("log-level") {
				logger.Default().SetLevel(logger.ParseLevel(logLevelArg))
			}
			if logFileArg != "" {
				return logger.Default().SetFile(true, logFileArg)
			}
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configDir, "config-dir", "", "配置目录 (默认 ~/.textclicker)")
	flags.StringVar(&engineArg, "engine", "", "OCR 引擎: tesseract 或 paddle")
	flags.StringVar(&languageArg, "lang", "", "识别语言 (例: chi_sim, eng)")
	flags.StringVar(&backendArg, "backend", "", "截图后端: robotgo 或 screenshot")
	flags.StringVar(&logLevelArg, "log-level", "", "日志级别: debug, info, warn, error")
	flags.StringVar(&logFileArg, "log-file", "", "同时将日志追加写入该文件")
	flags.BoolVar(&debugCapture, "debug-capture", false, "每次截图保存到 debug_capture.png")
	flags.BoolVar(&saveConfigFlag, "save", false, "将命令行参数保存到配置文件")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newLocateCmd())
	rootCmd.AddCommand(newSelectCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newDoctorCmd())
	rootCmd.AddCommand(newModelsCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// configManager 返回配置管理器
func configManager() *config.Manager {
	if configDir != "" {
		return config.NewManagerWithDir(configDir)
	}
	return config.GetDefaultManager()
}

// loadConfig 加载配置并应用命令行参数，命令行参数优先级高于配置文件
func loadConfig(cmd *cobra.Command) *config.SessionConfig {
	mgr := configManager()
	cfg, err := mgr.Load()
	if err != nil {
		warnColor.Printf("[WARN] 加载配置失败，使用默认配置: %v\n", err)
	}

	flags := cmd.Flags()
	if flags.Changed("engine") {
		cfg.Engine = engineArg
	}
	if flags.Changed("lang") {
		cfg.Language = languageArg
	}
	if flags.Changed("backend") {
		cfg.CaptureBackend = backendArg
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevelArg
	}
	if flags.Changed("debug-capture") {
		cfg.DebugCapture = debugCapture
	}
	return cfg
}

// maybeSave 指定 --save 时保存配置
func maybeSave(cfg *config.SessionConfig) {
	if !saveConfigFlag {
		return
	}
	saveConfig(cfg)
}

func saveConfig(cfg *config.SessionConfig) {
	mgr := configManager()
	if err := mgr.Save(cfg); err != nil {
		warnColor.Printf("[WARN] 保存配置失败: %v\n", err)
		return
	}
	fmt.Printf("[INFO] 配置已保存到 %s\n", mgr.GetConfigFile())
}

// parseRegion 解析 "x,y,w,h" 形式的区域
func parseRegion(s string) (auto.Region, error) {
	v, err := parseInts(s, 4)
	if err != nil {
		return auto.Region{}, fmt.Errorf("区域格式应为 x,y,w,h: %w", err)
	}
	r := auto.Region{X: v[0], Y: v[1], Width: v[2], Height: v[3]}
	return r, r.Validate()
}

// parsePoint 解析 "x,y" 形式的坐标
func parsePoint(s string) (auto.Point, error) {
	v, err := parseInts(s, 2)
	if err != nil {
		return auto.Point{}, fmt.Errorf("坐标格式应为 x,y: %w", err)
	}
	return auto.Point{X: v[0], Y: v[1]}, nil
}

func parseInts(s string, n int) ([]int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("需要 %d 个数值, 实际 %d", n, len(parts))
	}
	v := make([]int, n)
	for i, p := range parts {
		x, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		v[i] = x
	}
	return v, nil
}

