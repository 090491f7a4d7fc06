package main

import (
	"embed"
	"log"
	"runtime"

	"github.com/wailsapp/wails/v3/pkg/application"
	"github.com/wailsapp/wails/v3/pkg/events"

	"github.com/zoeyai/textclicker/internal/logger"
)

//go:embed frontend/*
var assets embed.FS

//go:embed build/appicon.png
var appIcon []byte

//go:embed build/trayicon.png
var trayIcon []byte

func main() {
	appService := NewApp()

	app := application.New(application.Options{
		Name:        "Text Clicker",
		Description: "屏幕文字识别自动点击",
		Services: []application.Service{
			application.NewService(appService),
		},
		Assets: application.AssetOptions{
			Handler: application.AssetFileServerFS(assets),
		},
		Mac: application.MacOptions{
			ApplicationShouldTerminateAfterLastWindowClosed: false,
		},
	})

	// 新日志推送到前端，前端收到后刷新日志面板
	logger.Default().SetHook(func(e logger.Entry) {
		app.Event.Emit("log", e)
	})

	window := app.Window.NewWithOptions(application.WebviewWindowOptions{
		Title:            "Text Clicker",
		Width:            520,
		Height:           640,
		MinWidth:         440,
		MinHeight:        520,
		BackgroundColour: application.NewRGB(255, 255, 255),
		URL:              "/frontend/index.html",
	})

	// 关闭窗口时隐藏到托盘，识别继续运行
	window.OnWindowEvent(events.Common.WindowClosing, func(e *application.WindowEvent) {
		e.Cancel()
		window.Hide()
	})

	setupSystemTray(app, window, appService)

	if err := app.Run(); err != nil {
		log.Fatal(err)
	}
}

// setupSystemTray 设置系统托盘
func setupSystemTray(app *application.App, window *application.WebviewWindow, svc *App) {
	tray := app.SystemTray.New()

	if runtime.GOOS == "darwin" {
		tray.SetTemplateIcon(trayIcon)
	} else {
		tray.SetIcon(appIcon)
	}
	tray.SetTooltip("Text Clicker - 屏幕文字识别自动点击")

	tray.OnClick(func() {
		if window.IsVisible() {
			window.Hide()
		} else {
			window.Show()
			window.Focus()
		}
	})

	trayMenu := app.NewMenu()

	trayMenu.Add("显示窗口").OnClick(func(ctx *application.Context) {
		window.Show()
		window.Focus()
	})

	trayMenu.AddSeparator()

	trayMenu.Add("开始识别").OnClick(func(ctx *application.Context) {
		if err := svc.Start(); err != nil {
			logger.Warn("开始识别失败: %v", err)
			window.Show()
			window.Focus()
		}
	})
	trayMenu.Add("停止识别").OnClick(func(ctx *application.Context) {
		svc.Stop()
	})

	trayMenu.AddSeparator()

	trayMenu.Add("退出").OnClick(func(ctx *application.Context) {
		svc.Stop()
		app.Quit()
	})

	tray.SetMenu(trayMenu)
}
