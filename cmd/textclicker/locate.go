package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zoeyai/textclicker/pkg/auto"
	"github.com/zoeyai/textclicker/pkg/auto/text"
	"github.com/zoeyai/textclicker/pkg/plugin"
	"github.com/zoeyai/textclicker/pkg/session"
)

func newLocateCmd() *cobra.Command {
	var (
		area      string
		regionArg string
		click     bool
		repeat    int
		every     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "locate <text>",
		Short: "在区域内识别一次文字并输出位置",
		Long: `截图、识别并定位目标文字，用于检查区域和 OCR 设置。

示例:
  textclicker locate 更改奖励 --area reward
  textclicker locate 打开 --region 100,200,300,80 --click
  textclicker locate 督瑞尔 --area boss --repeat 3    # 观察位置是否稳定`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := args[0]
			cfg := loadConfig(cmd)

			var region *auto.Region
			if regionArg != "" {
				r, err := parseRegion(regionArg)
				if err != nil {
					return err
				}
				region = &r
			} else {
				r, err := cfg.Area(area)
				if err != nil {
					return err
				}
				if area != "" && area != "full" && r == nil {
					return fmt.Errorf("尚未选择 %s 区域，请先运行 textclicker select %s", area, area)
				}
				region = r
			}

			s, err := session.New(cfg, session.WithModelStore(plugin.NewModelStore("")))
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			for i := 0; i < repeat; i++ {
				if i > 0 {
					if err := auto.SleepContext(ctx, every); err != nil {
						return err
					}
				}
				if click {
					found, msg, err := s.Locator.ClickText(ctx, target, region)
					printLocate(found, msg)
					if err != nil {
						return err
					}
					continue
				}

				res, err := s.Locator.Locate(ctx, target, region)
				if err != nil {
					return err
				}
				switch res.Status {
				case text.Found:
					printLocate(true, fmt.Sprintf("找到 '%s' 在 %s，所在行: %s", target, res.Point, res.Line))
				case text.Unstable:
					printLocate(false, fmt.Sprintf("'%s' 位置变化到 %s，等待稳定", target, res.Point))
				default:
					printLocate(false, fmt.Sprintf("未在 %s 找到 '%s'", auto.DescribeRegion(region), target))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&area, "area", "a", "", "使用已保存的区域: reward, boss, open, full")
	cmd.Flags().StringVarP(&regionArg, "region", "r", "", "直接指定区域 x,y,w,h")
	cmd.Flags().BoolVar(&click, "click", false, "找到后点击")
	cmd.Flags().IntVarP(&repeat, "repeat", "n", 1, "识别次数")
	cmd.Flags().DurationVar(&every, "every", time.Second, "多次识别之间的间隔")

	return cmd
}

func printLocate(found bool, msg string) {
	if found {
		okColor.Printf("✓ %s\n", msg)
		return
	}
	warnColor.Printf("✗ %s\n", msg)
}
