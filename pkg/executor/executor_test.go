package executor

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestExecutorSingleRun(t *testing.T) {
	loc := newScriptedLocator()
	loc.block = make(chan struct{})
	seq, _, _ := newTestSequence(testConfig(), loc, nil)

	e := NewExecutor()
	runID, err := e.Start(context.Background(), seq)
	if err != nil {
		t.Fatalf("Start 失败: %v", err)
	}
	if runID == "" {
		t.Fatal("应返回运行 ID")
	}

	other, _, _ := newTestSequence(testConfig(), newScriptedLocator(), nil)
	if _, err := e.Start(context.Background(), other); err != ErrAlreadyRunning {
		t.Errorf("已有流程运行时应返回 ErrAlreadyRunning, 实际 %v", err)
	}

	status := e.GetStatus()
	if status.State != "BUSY" || status.RunID != runID {
		t.Errorf("运行中状态错误: %+v", status)
	}

	if !e.Stop() {
		t.Fatal("Stop 应返回 true")
	}
	e.Wait()

	if e.IsRunning() {
		t.Error("停止后不应再运行")
	}
	status = e.GetStatus()
	if status.State != "IDLE" || status.StopReason != ReasonStopped || status.RunID != runID {
		t.Errorf("停止后状态错误: %+v", status)
	}
	if e.Stop() {
		t.Error("没有运行中的流程时 Stop 应返回 false")
	}
}

func TestExecutorFinishHandler(t *testing.T) {
	loc := newScriptedLocator().on("更改奖励", true).on("督瑞尔", true).on("打开", false)
	seq, _, _ := newTestSequence(testConfig(), loc, &recordingClicker{})

	done := make(chan State, 1)
	e := NewExecutor()
	e.SetFinishHandler(func(runID string, st State) { done <- st })

	if _, err := e.Start(context.Background(), seq); err != nil {
		t.Fatal(err)
	}

	select {
	case st := <-done:
		if st.Reason != ReasonOpenNotFound {
			t.Errorf("停止原因错误: %+v", st)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("流程未结束")
	}

	// 结束后可以再次启动
	again, _, _ := newTestSequence(testConfig(), loc, &recordingClicker{})
	if _, err := e.Start(context.Background(), again); err != nil {
		t.Errorf("上一次流程结束后应能再次启动: %v", err)
	}
	e.StopAndWait()
}

func TestExecutorCleanupPerRun(t *testing.T) {
	var mu sync.Mutex
	released := map[string]int{}
	cleanup := func(name string) RunOption {
		return WithCleanup(func() {
			mu.Lock()
			released[name]++
			mu.Unlock()
		})
	}
	count := func(name string) int {
		mu.Lock()
		defer mu.Unlock()
		return released[name]
	}

	finished := make(chan int, 1)
	e := NewExecutor()
	e.SetFinishHandler(func(runID string, st State) {
		// 结束回调执行时第一次运行的资源已经释放
		select {
		case finished <- count("first"):
		default:
		}
	})

	loc := newScriptedLocator().on("更改奖励", true).on("督瑞尔", true).on("打开", false)
	first, _, _ := newTestSequence(testConfig(), loc, &recordingClicker{})
	if _, err := e.Start(context.Background(), first, cleanup("first")); err != nil {
		t.Fatal(err)
	}
	select {
	case n := <-finished:
		if n != 1 {
			t.Errorf("结束回调前应已释放第一次运行的资源, 实际 %d 次", n)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("第一次运行未结束")
	}

	blocking := newScriptedLocator()
	blocking.block = make(chan struct{})
	second, _, _ := newTestSequence(testConfig(), blocking, nil)
	if _, err := e.Start(context.Background(), second, cleanup("second")); err != nil {
		t.Fatalf("第二次启动失败: %v", err)
	}

	third, _, _ := newTestSequence(testConfig(), newScriptedLocator(), nil)
	if _, err := e.Start(context.Background(), third, cleanup("third")); err != ErrAlreadyRunning {
		t.Errorf("应返回 ErrAlreadyRunning, 实际 %v", err)
	}
	if count("second") != 0 || count("third") != 0 {
		t.Errorf("运行中或未启动的资源不应被释放: %v", released)
	}

	e.StopAndWait()
	if count("first") != 1 || count("second") != 1 || count("third") != 0 {
		t.Errorf("每次运行只应释放自己的资源一次: %v", released)
	}
}
