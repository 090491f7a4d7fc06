package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zoeyai/textclicker/pkg/auto/input"
	"github.com/zoeyai/textclicker/pkg/auto/screen"
	"github.com/zoeyai/textclicker/pkg/config"
)

func newSelectCmd() *cobra.Command {
	var seconds int

	cmd := &cobra.Command{
		Use:   "select <reward|boss|open|down>",
		Short: "用鼠标选择识别区域或下滑坐标并保存",
		Long: `倒计时结束时读取鼠标位置。

选择区域时先后记录两个角点；选择 down 时记录一个坐标。
结果以截图像素坐标保存到配置文件。`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{config.AreaReward, config.AreaBoss, config.AreaOpen, "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			cfg := loadConfig(cmd)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			capturer, err := screen.NewCapturer(cfg.CaptureBackend)
			if err != nil {
				return err
			}
			scale, err := screen.DetectScale(capturer)
			if err != nil {
				warnColor.Printf("[WARN] 探测坐标比例失败，使用系统 DPI 比例 %s: %v\n", scale, err)
			}

			selector := input.NewCountdownSelector(os.Stdout, scale)
			if seconds > 0 {
				selector.Seconds = seconds
			}

			if name == "down" {
				p, err := selector.SelectPoint(ctx)
				if err != nil {
					return err
				}
				cfg.DownCoordinate = &p
				okColor.Printf("✓ 下滑坐标: %s\n", p)
			} else {
				r, err := selector.SelectRegion(ctx)
				if err != nil {
					return err
				}
				if err := cfg.SetArea(name, r); err != nil {
					return err
				}
				okColor.Printf("✓ %s 区域: %s\n", name, r)
			}

			saveConfig(cfg)
			if err := cfg.Validate(); err != nil {
				fmt.Printf("[INFO] 尚不能开始识别: %v\n", err)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&seconds, "countdown", input.DefaultCountdown, "每个点的倒计时秒数")

	return cmd
}
