package permissions

import "strings"

// PermissionStatus 权限状态
type PermissionStatus struct {
	// Accessibility 辅助功能权限，点击需要
	Accessibility bool `json:"accessibility"`
	// ScreenRecording 屏幕录制权限，截图识别需要
	ScreenRecording bool `json:"screen_recording"`
	AllGranted      bool `json:"all_granted"`
}

func newStatus(accessibility, screenRecording bool) *PermissionStatus {
	return &PermissionStatus{
		Accessibility:   accessibility,
		ScreenRecording: screenRecording,
		AllGranted:      accessibility && screenRecording,
	}
}

// Missing 返回未授予的权限名称
func (s *PermissionStatus) Missing() []string {
	var missing []string
	if !s.Accessibility {
		missing = append(missing, "辅助功能")
	}
	if !s.ScreenRecording {
		missing = append(missing, "屏幕录制")
	}
	return missing
}

// Instructions 获取授权说明，全部已授权时返回空字符串
func (s *PermissionStatus) Instructions() string {
	if s.AllGranted {
		return ""
	}

	var b strings.Builder
	b.WriteString("需要授权以下权限才能正常工作:\n\n")
	if !s.Accessibility {
		b.WriteString("- 辅助功能权限 (用于点击识别到的文字)\n")
		b.WriteString("  系统设置 > 隐私与安全性 > 辅助功能\n\n")
	}
	if !s.ScreenRecording {
		b.WriteString("- 屏幕录制权限 (用于截取识别区域)\n")
		b.WriteString("  系统设置 > 隐私与安全性 > 屏幕录制\n\n")
	}
	b.WriteString("授权后需要重启应用才能生效。")
	return b.String()
}

// EnsurePermissions 检查权限，未全部授予时返回说明
func EnsurePermissions() (bool, string) {
	status := CheckPermissions()
	return status.AllGranted, status.Instructions()
}
