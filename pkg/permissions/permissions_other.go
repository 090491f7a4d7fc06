//go:build !darwin

// Package permissions 检查截图与点击所需的系统权限
package permissions

// CheckPermissions 检查所需权限
// 非 macOS 系统通常不需要特殊权限
func CheckPermissions() *PermissionStatus {
	return newStatus(true, true)
}

// RequestAccessibilityPermission 请求辅助功能权限
func RequestAccessibilityPermission() bool {
	return true
}

// OpenAccessibilitySettings 打开辅助功能设置页面
func OpenAccessibilitySettings() {}

// OpenScreenRecordingSettings 打开屏幕录制设置页面
func OpenScreenRecordingSettings() {}

// ResetPermissions 重置权限状态
func ResetPermissions() error {
	return nil
}
