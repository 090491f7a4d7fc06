package text

import (
	"testing"

	"github.com/zoeyai/textclicker/pkg/auto"
)

func TestFindInLinesAnchorsOnStartFragment(t *testing.T) {
	lines := Assemble([]auto.Fragment{
		frag("AB", 0, 0, 10, 10),
		frag("C", 10, 0, 10, 10),
	}, DefaultLineThreshold)

	anchor, lineText, ok := FindInLines("BC", lines)
	if !ok {
		t.Fatal("应找到 BC")
	}
	if lineText != "ABC" {
		t.Errorf("行文字应为 ABC, 实际 %q", lineText)
	}
	if anchor.Text != "AB" {
		t.Errorf("锚点应为包含匹配起点的片段 AB, 实际 %q", anchor.Text)
	}
	if c := anchor.Center(); c != (auto.Point{X: 5, Y: 5}) {
		t.Errorf("锚点中心应为 (5, 5), 实际 %s", c)
	}
}

func TestFindInLinesMultiByte(t *testing.T) {
	lines := Assemble([]auto.Fragment{
		frag("更改", 0, 0, 40, 20),
		frag("奖励确认", 40, 0, 80, 20),
	}, DefaultLineThreshold)

	anchor, _, ok := FindInLines("奖励", lines)
	if !ok {
		t.Fatal("应找到 奖励")
	}
	if anchor.Text != "奖励确认" {
		t.Errorf("锚点应为第二个片段, 实际 %q", anchor.Text)
	}
}

func TestFindInLinesFirstLineWins(t *testing.T) {
	lines := Assemble([]auto.Fragment{
		frag("打开", 0, 100, 20, 10),
		frag("打开", 0, 0, 20, 10),
	}, DefaultLineThreshold)

	anchor, _, ok := FindInLines("打开", lines)
	if !ok {
		t.Fatal("应找到 打开")
	}
	if anchor.Y != 0 {
		t.Errorf("应返回拼接顺序中的第一行 (y=0), 实际 y=%d", anchor.Y)
	}
}

func TestFindInLinesNoMatch(t *testing.T) {
	lines := Assemble([]auto.Fragment{frag("瓦尔申", 0, 0, 60, 20)}, DefaultLineThreshold)

	if _, _, ok := FindInLines("督瑞尔", lines); ok {
		t.Error("不应找到未出现的文字")
	}
	if _, _, ok := FindInLines("", lines); ok {
		t.Error("空目标不应匹配")
	}
	if _, _, ok := FindInLines("打开", nil); ok {
		t.Error("无行时不应匹配")
	}
}
