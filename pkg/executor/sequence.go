package executor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/zoeyai/textclicker/internal/logger"
	"github.com/zoeyai/textclicker/pkg/auto"
)

// 默认时序参数
const (
	DefaultInterval       = 15 * time.Second
	DefaultClickDelay     = 500 * time.Millisecond
	DefaultRetryDelay     = 500 * time.Millisecond
	DefaultOpenDelay      = time.Second
	DefaultMaxBossRetries = 3
)

// 停止原因
const (
	ReasonStopped       = "已停止"
	ReasonNoDownPoint   = "未设置下滑坐标，无法下滑"
	ReasonBossNotFound  = "多次未识别到boss，停止识别"
	ReasonOpenNotFound  = "未识别到'打开'，停止识别"
	reasonFatalTemplate = "识别流程终止: %v"
)

// TextClicker 定位并点击文字
type TextClicker interface {
	ClickText(ctx context.Context, target string, region *auto.Region) (bool, string, error)
}

// Clicker 点击固定坐标
type Clicker interface {
	Click(p auto.Point) error
}

// Phase 流程阶段
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAwaitReward
	PhaseAwaitBoss
	PhaseAwaitOpen
	PhaseStopped
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "IDLE"
	case PhaseAwaitReward:
		return "AWAIT_REWARD"
	case PhaseAwaitBoss:
		return "AWAIT_BOSS"
	case PhaseAwaitOpen:
		return "AWAIT_OPEN"
	case PhaseStopped:
		return "STOPPED"
	default:
		return "UNKNOWN"
	}
}

// State 流程状态
type State struct {
	Phase Phase `json:"phase"`
	// Retry 当前 boss 识别已重试次数（仅 PhaseAwaitBoss）
	Retry int `json:"retry"`
	// Reason 停止原因（仅 PhaseStopped）
	Reason string `json:"reason,omitempty"`
	// Err 导致停止的致命错误
	Err error `json:"-"`
}

// SequenceConfig 流程配置
type SequenceConfig struct {
	RewardText string
	BossText   string
	OpenText   string

	RewardRegion *auto.Region
	BossRegion   *auto.Region
	OpenRegion   *auto.Region

	// DownPoint 未识别到 boss 时点击的下滑坐标（截图像素坐标）
	DownPoint *auto.Point

	Interval       time.Duration
	ClickDelay     time.Duration
	RetryDelay     time.Duration
	OpenDelay      time.Duration
	MaxBossRetries int
}

func (c SequenceConfig) withDefaults() SequenceConfig {
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	if c.ClickDelay <= 0 {
		c.ClickDelay = DefaultClickDelay
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = DefaultRetryDelay
	}
	if c.OpenDelay <= 0 {
		c.OpenDelay = DefaultOpenDelay
	}
	if c.MaxBossRetries <= 0 {
		c.MaxBossRetries = DefaultMaxBossRetries
	}
	return c
}

// SequenceOption 流程选项
type SequenceOption func(*Sequence)

// WithSleeper 替换等待函数
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) SequenceOption {
	return func(s *Sequence) {
		s.sleep = sleep
	}
}

// WithStatusHandler 设置状态消息回调
func WithStatusHandler(fn func(msg string)) SequenceOption {
	return func(s *Sequence) {
		s.onStatus = fn
	}
}

// Sequence 奖励 → boss → 打开 的循环识别流程
//
// 每次 Step 只执行一个状态迁移，Run 循环调用 Step 直到进入 PhaseStopped。
// 同一个 Sequence 只能由一个协程驱动；Snapshot 可以从其他协程调用。
type Sequence struct {
	cfg      SequenceConfig
	locator  TextClicker
	clicker  Clicker
	sleep    func(ctx context.Context, d time.Duration) error
	onStatus func(msg string)

	mu     sync.RWMutex
	state  State
	rounds int
	last   string
}

// NewSequence 创建流程
func NewSequence(cfg SequenceConfig, locator TextClicker, clicker Clicker, opts ...SequenceOption) *Sequence {
	s := &Sequence{
		cfg:     cfg.withDefaults(),
		locator: locator,
		clicker: clicker,
		sleep:   auto.SleepContext,
		state:   State{Phase: PhaseIdle},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config 返回生效的配置
func (s *Sequence) Config() SequenceConfig {
	return s.cfg
}

// Snapshot 返回当前状态、已完成轮数和最近一条消息
func (s *Sequence) Snapshot() (State, int, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state, s.rounds, s.last
}

// State 返回当前状态
func (s *Sequence) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Run 驱动流程直到停止，返回最终状态
func (s *Sequence) Run(ctx context.Context) State {
	for {
		st := s.Step(ctx)
		if st.Phase == PhaseStopped {
			return st
		}
	}
}

// Step 执行一次状态迁移并返回新状态
func (s *Sequence) Step(ctx context.Context) State {
	cur := s.State()
	if cur.Phase == PhaseStopped {
		return cur
	}
	if ctx.Err() != nil {
		return s.stop(ReasonStopped, nil)
	}

	switch cur.Phase {
	case PhaseIdle:
		return s.set(State{Phase: PhaseAwaitReward})
	case PhaseAwaitReward:
		return s.stepReward(ctx)
	case PhaseAwaitBoss:
		return s.stepBoss(ctx, cur.Retry)
	case PhaseAwaitOpen:
		return s.stepOpen(ctx)
	default:
		return s.stop(fmt.Sprintf("未知阶段: %d", cur.Phase), nil)
	}
}

func (s *Sequence) stepReward(ctx context.Context) State {
	found, stop := s.clickText(ctx, s.cfg.RewardText, s.cfg.RewardRegion)
	if stop != nil {
		return *stop
	}
	if !found {
		if st := s.wait(ctx, s.cfg.Interval); st != nil {
			return *st
		}
		return s.set(State{Phase: PhaseAwaitReward})
	}

	if st := s.wait(ctx, s.cfg.ClickDelay); st != nil {
		return *st
	}
	return s.set(State{Phase: PhaseAwaitBoss})
}

func (s *Sequence) stepBoss(ctx context.Context, retry int) State {
	found, stop := s.clickText(ctx, s.cfg.BossText, s.cfg.BossRegion)
	if stop != nil {
		return *stop
	}
	if found {
		if st := s.wait(ctx, s.cfg.OpenDelay); st != nil {
			return *st
		}
		return s.set(State{Phase: PhaseAwaitOpen})
	}

	if s.cfg.DownPoint == nil || s.clicker == nil {
		return s.stop(ReasonNoDownPoint, nil)
	}
	if err := s.clicker.Click(*s.cfg.DownPoint); err != nil {
		logger.Warn("点击下滑坐标失败: %v", err)
	}
	s.notify(fmt.Sprintf("未识别到boss，点击下滑 %s 重试 (%d/%d)", s.cfg.DownPoint, retry+1, s.cfg.MaxBossRetries))

	if st := s.wait(ctx, s.cfg.RetryDelay); st != nil {
		return *st
	}
	if retry+1 >= s.cfg.MaxBossRetries {
		return s.stop(ReasonBossNotFound, nil)
	}
	return s.set(State{Phase: PhaseAwaitBoss, Retry: retry + 1})
}

func (s *Sequence) stepOpen(ctx context.Context) State {
	found, stop := s.clickText(ctx, s.cfg.OpenText, s.cfg.OpenRegion)
	if stop != nil {
		return *stop
	}
	if !found {
		return s.stop(ReasonOpenNotFound, nil)
	}

	s.mu.Lock()
	s.rounds++
	rounds := s.rounds
	s.mu.Unlock()
	logger.Info("第 %d 轮完成", rounds)

	if st := s.wait(ctx, s.cfg.Interval); st != nil {
		return *st
	}
	return s.set(State{Phase: PhaseAwaitReward})
}

// clickText 调用定位器，致命错误或取消时返回停止状态
func (s *Sequence) clickText(ctx context.Context, target string, region *auto.Region) (bool, *State) {
	start := time.Now()
	found, msg, err := s.locator.ClickText(ctx, target, region)
	if msg != "" {
		s.notify(msg)
	}
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			st := s.stop(ReasonStopped, nil)
			return false, &st
		}
		logger.LogEvent(logger.CategorySequence, false, logger.Since(start), err.Error())
		st := s.stop(fmt.Sprintf(reasonFatalTemplate, err), err)
		return false, &st
	}
	return found, nil
}

// wait 等待 d，被取消时返回停止状态
func (s *Sequence) wait(ctx context.Context, d time.Duration) *State {
	if err := s.sleep(ctx, d); err != nil {
		st := s.stop(ReasonStopped, nil)
		return &st
	}
	return nil
}

func (s *Sequence) stop(reason string, err error) State {
	st := s.set(State{Phase: PhaseStopped, Reason: reason, Err: err})
	s.notify(reason)
	return st
}

func (s *Sequence) set(st State) State {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	return st
}

func (s *Sequence) notify(msg string) {
	s.mu.Lock()
	s.last = msg
	s.mu.Unlock()

	logger.Info("%s", msg)
	if s.onStatus != nil {
		s.onStatus(msg)
	}
}
