package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zoeyai/textclicker/pkg/auto/screen"
	"github.com/zoeyai/textclicker/pkg/config"
	"github.com/zoeyai/textclicker/pkg/permissions"
	"github.com/zoeyai/textclicker/pkg/plugin"
	"github.com/zoeyai/textclicker/pkg/process"
	"github.com/zoeyai/textclicker/pkg/session"
	"github.com/zoeyai/textclicker/pkg/vision/ocr"
)

type checkResult struct {
	name    string
	status  string // "ok", "warn", "error"
	message string
}

func newDoctorCmd() *cobra.Command {
	var processName string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "检查运行环境",
		Long: `检查配置、系统权限、截图、OCR 引擎和模型文件。

示例:
  textclicker doctor
  textclicker doctor --process diablo   # 同时检查游戏进程是否在运行`,
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig(cmd)

			var results []checkResult
			results = append(results, checkConfig(cfg)...)
			results = append(results, checkPermissions())
			results = append(results, checkScreen(cfg)...)
			results = append(results, checkOCR(cfg)...)
			if processName != "" {
				results = append(results, checkProcess(processName))
			}

			if printResults(results) > 0 {
				os.Exit(1)
			}
		},
	}

	cmd.Flags().StringVar(&processName, "process", "", "检查名称匹配的进程是否在运行")

	return cmd
}

func printResults(results []checkResult) int {
	bold.Println("textclicker doctor")
	fmt.Println("==================")
	fmt.Println()

	okCount, warnCount, errorCount := 0, 0, 0
	for _, r := range results {
		switch r.status {
		case "ok":
			fmt.Printf("%s %s: %s\n", okColor.Sprint("✓"), r.name, r.message)
			okCount++
		case "warn":
			fmt.Printf("%s %s: %s\n", warnColor.Sprint("⚠"), r.name, r.message)
			warnCount++
		case "error":
			fmt.Printf("%s %s: %s\n", errColor.Sprint("✗"), r.name, r.message)
			errorCount++
		}
	}

	fmt.Println()
	fmt.Println("Summary:")
	okColor.Printf("  %d passed", okCount)
	if warnCount > 0 {
		warnColor.Printf("  %d warnings", warnCount)
	}
	if errorCount > 0 {
		errColor.Printf("  %d errors", errorCount)
	}
	fmt.Println()
	return errorCount
}

func checkConfig(cfg *config.SessionConfig) []checkResult {
	mgr := configManager()
	var results []checkResult

	if mgr.Exists() {
		results = append(results, checkResult{"配置文件", "ok", mgr.GetConfigFile()})
	} else {
		results = append(results, checkResult{"配置文件", "warn", "未找到，使用默认配置: " + mgr.GetConfigFile()})
	}

	if err := cfg.Validate(); err != nil {
		results = append(results, checkResult{"识别区域", "warn", err.Error()})
	} else {
		results = append(results, checkResult{"识别区域", "ok",
			fmt.Sprintf("奖励 %s, boss %s, 打开 %s", cfg.AreaChangeReward, cfg.AreaBoss, cfg.AreaOpen)})
	}

	if cfg.DownCoordinate == nil {
		results = append(results, checkResult{"下滑坐标", "warn", "未设置，无法开始识别 (textclicker select down)"})
	} else {
		results = append(results, checkResult{"下滑坐标", "ok", cfg.DownCoordinate.String()})
	}
	return results
}

func checkPermissions() checkResult {
	status := permissions.CheckPermissions()
	if status.AllGranted {
		return checkResult{"系统权限", "ok", "已授予"}
	}
	return checkResult{"系统权限", "error", "缺少 " + strings.Join(status.Missing(), "、") + " 权限"}
}

func checkScreen(cfg *config.SessionConfig) []checkResult {
	var results []checkResult

	displays := screen.ActiveDisplays()
	if len(displays) == 0 {
		return append(results, checkResult{"显示器", "error", "未检测到显示器"})
	}
	w, h := screen.GetScreenSize()
	results = append(results, checkResult{"显示器", "ok",
		fmt.Sprintf("%d 个, 主屏 %s, 输入坐标 %dx%d", len(displays), displays[0].Size(), w, h)})

	capturer, err := screen.NewCapturer(cfg.CaptureBackend)
	if err != nil {
		return append(results, checkResult{"截图", "error", err.Error()})
	}
	scale, err := screen.DetectScale(capturer)
	if err != nil {
		return append(results, checkResult{"截图", "error", err.Error()})
	}
	msg := fmt.Sprintf("后端 %s, 坐标比例 %s, 系统 DPI %.0f%%", cfg.CaptureBackend, scale, screen.SystemDPIScale()*100)
	results = append(results, checkResult{"截图", "ok", msg})
	return results
}

func checkOCR(cfg *config.SessionConfig) []checkResult {
	var results []checkResult

	store := plugin.NewModelStore("")
	status := store.GetStatus()

	oc := session.OCRConfig(cfg, store)
	if err := ocr.Probe(oc); err != nil {
		results = append(results, checkResult{"OCR 引擎", "error", err.Error()})
	} else {
		detail := oc.Engine + " / " + oc.Language
		if oc.Engine == ocr.EngineTesseract {
			detail += " (tesseract " + ocr.TesseractVersion() + ")"
		}
		results = append(results, checkResult{"OCR 引擎", "ok", detail})
	}

	switch {
	case status.Installed:
		results = append(results, checkResult{"PaddleOCR 模型", "ok", store.Dir()})
	case oc.Engine == ocr.EnginePaddle:
		results = append(results, checkResult{"PaddleOCR 模型", "error", "未安装，运行 textclicker models install"})
	default:
		results = append(results, checkResult{"PaddleOCR 模型", "warn", "未安装 (仅 paddle 引擎需要)"})
	}
	return results
}

func checkProcess(name string) checkResult {
	matches, err := process.Find(name)
	if err != nil {
		return checkResult{"游戏进程", "error", err.Error()}
	}
	if len(matches) == 0 {
		return checkResult{"游戏进程", "warn", "未找到 " + name}
	}
	m := matches[0]
	if r, err := process.WindowBounds(m.PID); err == nil {
		return checkResult{"游戏进程", "ok", fmt.Sprintf("%s (PID %d) 窗口 %s", m.Name, m.PID, r)}
	}
	return checkResult{"游戏进程", "ok", fmt.Sprintf("%s (PID %d)", m.Name, m.PID)}
}
