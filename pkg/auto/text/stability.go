package text

import (
	"time"

	"github.com/zoeyai/textclicker/pkg/auto"
)

// DefaultTolerance 位置稳定性容差（像素）
const DefaultTolerance = 10

// PositionRecord 某个目标文字最近一次观测到的位置
type PositionRecord struct {
	Last  auto.Point `json:"last"`
	Count int        `json:"count"`
	Seen  time.Time  `json:"seen"`
}

// StabilityFilter 位置稳定性过滤器
//
// 以目标文字为键记录最近位置。首次观测直接接受；之后新位置与记录位置在两个方向上的
// 差都不超过容差时接受并累加计数，否则重置计数、覆盖记录位置并拒绝本轮。
// 不支持并发写入，由单一执行协程独占使用。
type StabilityFilter struct {
	tolerance int
	records   map[string]*PositionRecord
	now       func() time.Time
}

// NewStabilityFilter 创建过滤器，tolerance <= 0 时使用 DefaultTolerance
func NewStabilityFilter(tolerance int) *StabilityFilter {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &StabilityFilter{
		tolerance: tolerance,
		records:   make(map[string]*PositionRecord),
		now:       time.Now,
	}
}

// Tolerance 返回容差
func (s *StabilityFilter) Tolerance() int {
	return s.tolerance
}

// Accept 判断本次观测位置是否可以执行点击
func (s *StabilityFilter) Accept(key string, p auto.Point) bool {
	now := s.now()

	rec, ok := s.records[key]
	if !ok {
		s.records[key] = &PositionRecord{Last: p, Count: 1, Seen: now}
		return true
	}

	dx := auto.AbsInt(p.X - rec.Last.X)
	dy := auto.AbsInt(p.Y - rec.Last.Y)
	if dx <= s.tolerance && dy <= s.tolerance {
		rec.Count++
		return true
	}

	rec.Count = 1
	rec.Last = p
	rec.Seen = now
	return false
}

// Record 返回某个键的记录副本
func (s *StabilityFilter) Record(key string) (PositionRecord, bool) {
	rec, ok := s.records[key]
	if !ok {
		return PositionRecord{}, false
	}
	return *rec, true
}

// Len 返回记录数量
func (s *StabilityFilter) Len() int {
	return len(s.records)
}
