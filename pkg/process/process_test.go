package process

import (
	"os"
	"testing"
)

func TestMatchName(t *testing.T) {
	tests := []struct {
		procName string
		query    string
		want     bool
	}{
		{"Diablo IV.exe", "diablo", true},
		{"Diablo IV.exe", "IV.EXE", true},
		{"explorer.exe", "diablo", false},
		{"diablo", "", false},
	}
	for _, tt := range tests {
		if got := matchName(tt.procName, tt.query); got != tt.want {
			t.Errorf("matchName(%q, %q) = %v, want %v", tt.procName, tt.query, got, tt.want)
		}
	}
}

func TestFindSelf(t *testing.T) {
	self, err := FindByPID(os.Getpid())
	if err != nil {
		t.Skipf("无法读取进程信息: %v", err)
	}
	if self.Name == "" {
		t.Skip("当前平台不提供进程名")
	}
	t.Logf("当前进程: %+v", self)

	matches, err := Find(self.Name)
	if err != nil {
		t.Fatalf("查找失败: %v", err)
	}
	found := false
	for i, m := range matches {
		if m.PID == os.Getpid() {
			found = true
		}
		if i > 0 && matches[i-1].PID > m.PID {
			t.Error("结果应按 PID 升序")
		}
	}
	if !found {
		t.Errorf("按名称 %q 应能找到当前进程", self.Name)
	}
	if !IsRunning(os.Getpid()) {
		t.Error("当前进程应在运行")
	}
}

func TestActivateMissing(t *testing.T) {
	if _, err := Activate("textclicker-no-such-process-x9"); err == nil {
		t.Error("不存在的进程应返回错误")
	}
}
