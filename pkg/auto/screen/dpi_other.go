//go:build !windows

package screen

// SystemDPIScale 非 Windows 平台返回 1
// macOS Retina 的比例由 DetectScale 对比截图尺寸得到
func SystemDPIScale() float64 {
	return 1
}
