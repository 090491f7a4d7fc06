// Package process 查找游戏进程并将其窗口切到前台
package process

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-vgo/robotgo"
	"github.com/shirou/gopsutil/v4/process"

	"github.com/zoeyai/textclicker/pkg/auto"
)

// Info 进程信息
type Info struct {
	PID  int    `json:"pid"`
	Name string `json:"name"`
	Path string `json:"path"`
}

// matchName 不区分大小写的部分匹配
func matchName(procName, query string) bool {
	if query == "" {
		return false
	}
	return strings.Contains(strings.ToLower(procName), strings.ToLower(query))
}

// Find 按名称查找进程（不区分大小写，支持部分匹配），按 PID 升序返回
func Find(name string) ([]Info, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, fmt.Errorf("获取进程列表失败: %w", err)
	}

	var matches []Info
	for _, proc := range procs {
		procName, err := proc.Name()
		if err != nil || !matchName(procName, name) {
			continue
		}
		exe, _ := proc.Exe()
		matches = append(matches, Info{PID: int(proc.Pid), Name: procName, Path: exe})
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].PID < matches[j].PID })
	return matches, nil
}

// FindByPID 按 PID 获取进程信息
func FindByPID(pid int) (*Info, error) {
	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return nil, fmt.Errorf("进程不存在: PID=%d", pid)
	}

	name, _ := proc.Name()
	exe, _ := proc.Exe()
	return &Info{PID: pid, Name: name, Path: exe}, nil
}

// IsRunning 检查进程是否正在运行
func IsRunning(pid int) bool {
	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return false
	}
	running, err := proc.IsRunning()
	return err == nil && running
}

// Activate 将名称匹配的第一个进程窗口切到前台
func Activate(name string) (*Info, error) {
	matches, err := Find(name)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("未找到进程: %s", name)
	}

	target := matches[0]
	if err := robotgo.ActivePid(target.PID); err != nil {
		return nil, fmt.Errorf("激活窗口失败: %w", err)
	}
	return &target, nil
}

// WindowBounds 返回进程主窗口的屏幕区域
func WindowBounds(pid int) (auto.Region, error) {
	x, y, w, h := robotgo.GetBounds(pid)
	r := auto.Region{X: x, Y: y, Width: w, Height: h}
	if err := r.Validate(); err != nil {
		return r, fmt.Errorf("无法获取窗口边界: PID=%d", pid)
	}
	return r, nil
}
