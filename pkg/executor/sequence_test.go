package executor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/zoeyai/textclicker/pkg/auto"
)

// scriptedLocator 按目标文字依次返回预设结果，用完后一直返回最后一个
type scriptedLocator struct {
	mu      sync.Mutex
	results map[string][]bool
	errs    map[string]error
	calls   []string
	regions []*auto.Region
	block   chan struct{}
}

func newScriptedLocator() *scriptedLocator {
	return &scriptedLocator{
		results: make(map[string][]bool),
		errs:    make(map[string]error),
	}
}

func (l *scriptedLocator) on(target string, results ...bool) *scriptedLocator {
	l.results[target] = results
	return l
}

func (l *scriptedLocator) ClickText(ctx context.Context, target string, region *auto.Region) (bool, string, error) {
	if l.block != nil {
		select {
		case <-l.block:
		case <-ctx.Done():
			return false, "", ctx.Err()
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.calls = append(l.calls, target)
	l.regions = append(l.regions, region)
	if err := l.errs[target]; err != nil {
		return false, "识别失败", err
	}
	rs := l.results[target]
	if len(rs) == 0 {
		return false, "未找到文字 '" + target + "'", nil
	}
	found := rs[0]
	if len(rs) > 1 {
		l.results[target] = rs[1:]
	}
	if found {
		return true, "找到文字 '" + target + "'", nil
	}
	return false, "未找到文字 '" + target + "'", nil
}

func (l *scriptedLocator) count(target string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, c := range l.calls {
		if c == target {
			n++
		}
	}
	return n
}

type recordingClicker struct {
	mu     sync.Mutex
	points []auto.Point
}

func (c *recordingClicker) Click(p auto.Point) error {
	c.mu.Lock()
	c.points = append(c.points, p)
	c.mu.Unlock()
	return nil
}

// recordingSleeper 记录等待时长而不真正休眠
type recordingSleeper struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (r *recordingSleeper) sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.waits = append(r.waits, d)
	r.mu.Unlock()
	return ctx.Err()
}

func testConfig() SequenceConfig {
	down := auto.Point{X: 500, Y: 600}
	return SequenceConfig{
		RewardText:   "更改奖励",
		BossText:     "督瑞尔",
		OpenText:     "打开",
		RewardRegion: &auto.Region{X: 0, Y: 0, Width: 100, Height: 50},
		BossRegion:   &auto.Region{X: 0, Y: 100, Width: 100, Height: 50},
		OpenRegion:   &auto.Region{X: 0, Y: 200, Width: 100, Height: 50},
		DownPoint:    &down,
		Interval:     15 * time.Second,
	}
}

func newTestSequence(cfg SequenceConfig, loc *scriptedLocator, clk Clicker) (*Sequence, *recordingSleeper, *[]string) {
	sleeper := &recordingSleeper{}
	var msgs []string
	seq := NewSequence(cfg, loc, clk,
		WithSleeper(sleeper.sleep),
		WithStatusHandler(func(m string) { msgs = append(msgs, m) }),
	)
	return seq, sleeper, &msgs
}

func TestStepFromIdle(t *testing.T) {
	seq, _, _ := newTestSequence(testConfig(), newScriptedLocator(), nil)
	if st := seq.State(); st.Phase != PhaseIdle {
		t.Fatalf("新建流程应为 IDLE, 实际 %s", st.Phase)
	}
	if st := seq.Step(context.Background()); st.Phase != PhaseAwaitReward {
		t.Errorf("第一步应进入 AWAIT_REWARD, 实际 %s", st.Phase)
	}
}

func TestRewardNotFoundWaitsInterval(t *testing.T) {
	loc := newScriptedLocator().on("更改奖励", false)
	seq, sleeper, _ := newTestSequence(testConfig(), loc, nil)
	ctx := context.Background()

	seq.Step(ctx)
	st := seq.Step(ctx)
	if st.Phase != PhaseAwaitReward {
		t.Errorf("未找到奖励应停留在 AWAIT_REWARD, 实际 %s", st.Phase)
	}
	if len(sleeper.waits) != 1 || sleeper.waits[0] != 15*time.Second {
		t.Errorf("应等待一个间隔 15s, 实际 %v", sleeper.waits)
	}
	if *loc.regions[0] != *testConfig().RewardRegion {
		t.Errorf("应在奖励区域识别, 实际 %v", loc.regions[0])
	}
}

func TestFullRoundReturnsToReward(t *testing.T) {
	loc := newScriptedLocator().
		on("更改奖励", true).
		on("督瑞尔", true).
		on("打开", true)
	seq, sleeper, _ := newTestSequence(testConfig(), loc, &recordingClicker{})
	ctx := context.Background()

	want := []Phase{PhaseAwaitReward, PhaseAwaitBoss, PhaseAwaitOpen, PhaseAwaitReward}
	for i, p := range want {
		if st := seq.Step(ctx); st.Phase != p {
			t.Fatalf("第 %d 步期望 %s, 实际 %s", i+1, p, st.Phase)
		}
	}

	wantWaits := []time.Duration{DefaultClickDelay, DefaultOpenDelay, 15 * time.Second}
	if len(sleeper.waits) != len(wantWaits) {
		t.Fatalf("等待序列错误: %v", sleeper.waits)
	}
	for i, d := range wantWaits {
		if sleeper.waits[i] != d {
			t.Errorf("第 %d 次等待期望 %v, 实际 %v", i+1, d, sleeper.waits[i])
		}
	}
	if _, rounds, _ := seq.Snapshot(); rounds != 1 {
		t.Errorf("应完成 1 轮, 实际 %d", rounds)
	}
}

func TestBossRetriesThenStops(t *testing.T) {
	loc := newScriptedLocator().on("更改奖励", true).on("督瑞尔", false)
	clk := &recordingClicker{}
	seq, _, msgs := newTestSequence(testConfig(), loc, clk)

	st := seq.Run(context.Background())
	if st.Phase != PhaseStopped || st.Reason != ReasonBossNotFound {
		t.Fatalf("应因多次未识别到 boss 停止, 实际 %+v", st)
	}
	if n := loc.count("督瑞尔"); n != DefaultMaxBossRetries {
		t.Errorf("boss 应识别 %d 次, 实际 %d", DefaultMaxBossRetries, n)
	}
	if len(clk.points) != DefaultMaxBossRetries {
		t.Errorf("每次失败都应点击下滑坐标, 实际 %d 次", len(clk.points))
	}
	for _, p := range clk.points {
		if p != (auto.Point{X: 500, Y: 600}) {
			t.Errorf("下滑坐标错误: %s", p)
		}
	}
	if last := (*msgs)[len(*msgs)-1]; last != ReasonBossNotFound {
		t.Errorf("最后一条消息应为停止原因, 实际 %q", last)
	}
}

func TestBossFoundAfterRetry(t *testing.T) {
	loc := newScriptedLocator().
		on("更改奖励", true).
		on("督瑞尔", false, true).
		on("打开", true)
	clk := &recordingClicker{}
	seq, _, _ := newTestSequence(testConfig(), loc, clk)
	ctx := context.Background()

	seq.Step(ctx) // IDLE → REWARD
	seq.Step(ctx) // REWARD → BOSS
	st := seq.Step(ctx)
	if st.Phase != PhaseAwaitBoss || st.Retry != 1 {
		t.Fatalf("第一次未找到 boss 应进入 AWAIT_BOSS(1), 实际 %+v", st)
	}
	if st := seq.Step(ctx); st.Phase != PhaseAwaitOpen {
		t.Fatalf("重试找到 boss 应进入 AWAIT_OPEN, 实际 %s", st.Phase)
	}
	if len(clk.points) != 1 {
		t.Errorf("应只下滑 1 次, 实际 %d", len(clk.points))
	}
}

func TestBossWithoutDownPointStops(t *testing.T) {
	cfg := testConfig()
	cfg.DownPoint = nil
	loc := newScriptedLocator().on("更改奖励", true).on("督瑞尔", false)
	seq, _, _ := newTestSequence(cfg, loc, &recordingClicker{})

	st := seq.Run(context.Background())
	if st.Reason != ReasonNoDownPoint {
		t.Errorf("未设置下滑坐标应立即停止, 实际 %+v", st)
	}
	if n := loc.count("督瑞尔"); n != 1 {
		t.Errorf("boss 只应识别 1 次, 实际 %d", n)
	}
}

func TestOpenNotFoundStops(t *testing.T) {
	loc := newScriptedLocator().on("更改奖励", true).on("督瑞尔", true).on("打开", false)
	seq, _, _ := newTestSequence(testConfig(), loc, &recordingClicker{})

	st := seq.Run(context.Background())
	if st.Reason != ReasonOpenNotFound {
		t.Errorf("未识别到打开应停止, 实际 %+v", st)
	}
}

func TestFatalErrorStops(t *testing.T) {
	loc := newScriptedLocator()
	loc.errs["更改奖励"] = &auto.OCRBackendError{Engine: "tesseract", Err: errors.New("chi_sim 缺失")}
	seq, _, _ := newTestSequence(testConfig(), loc, nil)

	st := seq.Run(context.Background())
	if st.Phase != PhaseStopped || !auto.IsOCRBackendError(st.Err) {
		t.Errorf("OCR 错误应终止流程, 实际 %+v", st)
	}
}

func TestCancelledStops(t *testing.T) {
	seq, _, _ := newTestSequence(testConfig(), newScriptedLocator(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	st := seq.Step(ctx)
	if st.Phase != PhaseStopped || st.Reason != ReasonStopped {
		t.Errorf("取消后应停止, 实际 %+v", st)
	}
	if again := seq.Step(context.Background()); again.Phase != PhaseStopped {
		t.Error("停止是终态")
	}
}

func TestSequenceDefaults(t *testing.T) {
	cfg := NewSequence(SequenceConfig{}, newScriptedLocator(), nil).Config()
	if cfg.Interval != DefaultInterval || cfg.MaxBossRetries != DefaultMaxBossRetries {
		t.Errorf("默认值错误: %+v", cfg)
	}
}
