// Package executor 驱动文字识别点击流程
//
// 执行器同一时间只运行一个流程，流程在独立协程中执行，
// Stop 通过取消 context 请求停止，正在进行的截图和 OCR 会执行完毕。
package executor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zoeyai/textclicker/internal/logger"
)

// ErrAlreadyRunning 已有流程在运行
var ErrAlreadyRunning = errors.New("识别流程已在运行")

// Status 执行器状态
type Status struct {
	// State IDLE 或 BUSY
	State     string `json:"state"`
	RunID     string `json:"runId,omitempty"`
	StartedAt int64  `json:"startedAt,omitempty"`
	Phase     string `json:"phase"`
	Retry     int    `json:"retry"`
	Rounds    int    `json:"rounds"`
	Message   string `json:"message,omitempty"`
	// StopReason 上一次运行的停止原因
	StopReason string `json:"stopReason,omitempty"`
}

// runInfo 运行中的流程信息
type runInfo struct {
	id        string
	startedAt time.Time
	seq       *Sequence
	cleanup   []func()
	cancel    context.CancelFunc
	done      chan struct{}
}

// Executor 流程执行器
type Executor struct {
	mu      sync.Mutex
	current *runInfo
	last    *runInfo
	final   State

	onFinish func(runID string, st State)
}

// NewExecutor 创建执行器
func NewExecutor() *Executor {
	return &Executor{}
}

// SetFinishHandler 设置流程结束回调
func (e *Executor) SetFinishHandler(fn func(runID string, st State)) {
	e.mu.Lock()
	e.onFinish = fn
	e.mu.Unlock()
}

// RunOption 单次运行的选项
type RunOption func(*runInfo)

// WithCleanup 流程结束后释放本次运行持有的资源
// 在结束回调之前执行，只作用于本次运行
func WithCleanup(fn func()) RunOption {
	return func(r *runInfo) {
		if fn != nil {
			r.cleanup = append(r.cleanup, fn)
		}
	}
}

// Start 在后台协程启动流程，返回运行 ID
// 返回错误时流程未启动，WithCleanup 不会被调用
func (e *Executor) Start(parent context.Context, seq *Sequence, opts ...RunOption) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.current != nil {
		return "", ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(parent)
	run := &runInfo{
		id:        uuid.New().String(),
		startedAt: time.Now(),
		seq:       seq,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(run)
	}
	e.current = run

	logger.Info("[Run:%s] 开始识别流程", shortID(run.id))
	go e.run(ctx, run)
	return run.id, nil
}

func (e *Executor) run(ctx context.Context, run *runInfo) {
	defer close(run.done)
	defer run.cancel()

	final := run.seq.Run(ctx)
	for _, fn := range run.cleanup {
		fn()
	}

	e.mu.Lock()
	if e.current == run {
		e.current = nil
	}
	e.last = run
	e.final = final
	onFinish := e.onFinish
	e.mu.Unlock()

	logger.Info("[Run:%s] 识别流程结束: %s (耗时 %v)", shortID(run.id), final.Reason, time.Since(run.startedAt).Round(time.Millisecond))
	if onFinish != nil {
		onFinish(run.id, final)
	}
}

// Stop 请求停止当前流程，没有运行中的流程时返回 false
func (e *Executor) Stop() bool {
	e.mu.Lock()
	run := e.current
	e.mu.Unlock()

	if run == nil {
		return false
	}
	logger.Info("[Run:%s] 请求停止", shortID(run.id))
	run.cancel()
	return true
}

// Wait 等待当前流程结束
func (e *Executor) Wait() {
	e.mu.Lock()
	run := e.current
	e.mu.Unlock()

	if run != nil {
		<-run.done
	}
}

// StopAndWait 停止并等待流程结束
func (e *Executor) StopAndWait() {
	e.mu.Lock()
	run := e.current
	e.mu.Unlock()

	if run == nil {
		return
	}
	run.cancel()
	<-run.done
}

// IsRunning 是否有流程在运行
func (e *Executor) IsRunning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current != nil
}

// GetStatus 获取执行器状态
func (e *Executor) GetStatus() Status {
	e.mu.Lock()
	run := e.current
	last := e.last
	final := e.final
	e.mu.Unlock()

	if run == nil {
		status := Status{State: "IDLE", Phase: PhaseIdle.String()}
		if last != nil {
			_, rounds, msg := last.seq.Snapshot()
			status.RunID = last.id
			status.Phase = final.Phase.String()
			status.Rounds = rounds
			status.Message = msg
			status.StopReason = final.Reason
		}
		return status
	}

	st, rounds, msg := run.seq.Snapshot()
	return Status{
		State:     "BUSY",
		RunID:     run.id,
		StartedAt: run.startedAt.UnixMilli(),
		Phase:     st.Phase.String(),
		Retry:     st.Retry,
		Rounds:    rounds,
		Message:   msg,
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
