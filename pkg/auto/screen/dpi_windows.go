//go:build windows

package screen

import (
	"sync"
	"syscall"
)

var (
	user32               = syscall.NewLazyDLL("user32.dll")
	gdi32                = syscall.NewLazyDLL("gdi32.dll")
	procGetDpiForWindow  = user32.NewProc("GetDpiForWindow")
	procGetForeground    = user32.NewProc("GetForegroundWindow")
	procGetDesktopWindow = user32.NewProc("GetDesktopWindow")
	procGetDC            = user32.NewProc("GetDC")
	procReleaseDC        = user32.NewProc("ReleaseDC")
	procGetDeviceCaps    = gdi32.NewProc("GetDeviceCaps")

	dpiOnce  sync.Once
	dpiScale float64
)

const logPixelsX = 88

// SystemDPIScale 获取 Windows DPI 缩放比例
// 1.0 = 100%, 1.25 = 125%, 1.5 = 150%, 2.0 = 200%
func SystemDPIScale() float64 {
	dpiOnce.Do(func() {
		dpi := queryDPI()
		if dpi <= 0 {
			dpi = 96
		}
		dpiScale = normalizeScale(float64(dpi) / 96)
	})
	return dpiScale
}

func queryDPI() int {
	// GetDpiForWindow (Windows 10 1607+)
	if procGetDpiForWindow.Find() == nil {
		hwnd, _, _ := procGetForeground.Call()
		if hwnd == 0 {
			hwnd, _, _ = procGetDesktopWindow.Call()
		}
		if hwnd != 0 {
			if d, _, _ := procGetDpiForWindow.Call(hwnd); d > 0 {
				return int(d)
			}
		}
	}

	// GDI GetDeviceCaps
	if procGetDC.Find() == nil && procGetDeviceCaps.Find() == nil {
		dc, _, _ := procGetDC.Call(0)
		if dc != 0 {
			defer procReleaseDC.Call(0, dc)
			if d, _, _ := procGetDeviceCaps.Call(dc, uintptr(logPixelsX)); d > 0 {
				return int(d)
			}
		}
	}
	return 0
}
