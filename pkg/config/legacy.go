package config

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/zoeyai/textclicker/pkg/auto"
)

// UnmarshalJSON 兼容旧版配置文件中 [x, y, w, h] / [x, y] 形式的区域和坐标
func (c *SessionConfig) UnmarshalJSON(data []byte) error {
	type plain SessionConfig
	var raw struct {
		plain
		AreaChangeReward json.RawMessage `json:"area_change_reward"`
		AreaBoss         json.RawMessage `json:"area_boss"`
		AreaOpen         json.RawMessage `json:"area_open"`
		DownCoordinate   json.RawMessage `json:"down_coordinate"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = SessionConfig(raw.plain)

	var err error
	if c.AreaChangeReward, err = decodeRegion(raw.AreaChangeReward); err != nil {
		return fmt.Errorf("area_change_reward: %w", err)
	}
	if c.AreaBoss, err = decodeRegion(raw.AreaBoss); err != nil {
		return fmt.Errorf("area_boss: %w", err)
	}
	if c.AreaOpen, err = decodeRegion(raw.AreaOpen); err != nil {
		return fmt.Errorf("area_open: %w", err)
	}
	if c.DownCoordinate, err = decodePoint(raw.DownCoordinate); err != nil {
		return fmt.Errorf("down_coordinate: %w", err)
	}
	return nil
}

func isNull(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func decodeRegion(data json.RawMessage) (*auto.Region, error) {
	if isNull(data) {
		return nil, nil
	}
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
		var v []int
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		if len(v) != 4 {
			return nil, fmt.Errorf("区域需要 4 个数值, 实际 %d", len(v))
		}
		return &auto.Region{X: v[0], Y: v[1], Width: v[2], Height: v[3]}, nil
	}
	var r auto.Region
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func decodePoint(data json.RawMessage) (*auto.Point, error) {
	if isNull(data) {
		return nil, nil
	}
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
		var v []int
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		if len(v) != 2 {
			return nil, fmt.Errorf("坐标需要 2 个数值, 实际 %d", len(v))
		}
		return &auto.Point{X: v[0], Y: v[1]}, nil
	}
	var p auto.Point
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
