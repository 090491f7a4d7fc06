package main

import (
	"testing"

	"github.com/zoeyai/textclicker/pkg/auto"
)

func TestParseRegion(t *testing.T) {
	r, err := parseRegion("100, 200,300,50")
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if r != (auto.Region{X: 100, Y: 200, Width: 300, Height: 50}) {
		t.Errorf("区域错误: %s", r)
	}

	for _, bad := range []string{"1,2,3", "a,b,c,d", "0,0,0,10"} {
		if _, err := parseRegion(bad); err == nil {
			t.Errorf("%q 应解析失败", bad)
		}
	}
}

func TestParsePoint(t *testing.T) {
	p, err := parsePoint("960,800")
	if err != nil || p != (auto.Point{X: 960, Y: 800}) {
		t.Errorf("parsePoint = %v, %v", p, err)
	}
	if _, err := parsePoint("960"); err == nil {
		t.Error("缺少 y 应解析失败")
	}
}

func TestRootCommands(t *testing.T) {
	root := newRootCmd()
	want := []string{"run", "locate", "select", "config", "doctor", "models", "version"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("缺少子命令 %s", name)
		}
	}
}
