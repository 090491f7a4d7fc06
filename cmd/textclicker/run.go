package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zoeyai/textclicker/pkg/config"
	"github.com/zoeyai/textclicker/pkg/executor"
	"github.com/zoeyai/textclicker/pkg/permissions"
	"github.com/zoeyai/textclicker/pkg/plugin"
	"github.com/zoeyai/textclicker/pkg/process"
	"github.com/zoeyai/textclicker/pkg/session"
)

func newRunCmd() *cobra.Command {
	var (
		interval  int
		bossIndex int
		bossText  string
		activate  string
		downPoint string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "开始循环识别: 更改奖励 → boss → 打开",
		Long: `按已保存的区域循环识别并点击。

每轮先在"更改奖励"区域识别，找到后点击并在 boss 区域识别所选 boss；
未找到 boss 时点击下滑坐标重试，最多 3 次；找到后点击"打开"，等待间隔后进入下一轮。
按 Ctrl+C 停止。`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd)

			flags := cmd.Flags()
			if flags.Changed("interval") {
				cfg.Interval = interval
			}
			if flags.Changed("boss") {
				cfg.BossIndex = bossIndex
			}
			if flags.Changed("boss-text") {
				if err := cfg.UseBossText(bossText); err != nil {
					return err
				}
			}
			if flags.Changed("down") {
				p, err := parsePoint(downPoint)
				if err != nil {
					return err
				}
				cfg.DownCoordinate = &p
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			maybeSave(cfg)

			if ok, msg := permissions.EnsurePermissions(); !ok {
				warnColor.Println(msg)
			}

			if activate != "" {
				info, err := process.Activate(activate)
				if err != nil {
					warnColor.Printf("[WARN] %v\n", err)
				} else {
					fmt.Printf("[INFO] 已激活窗口: %s (PID %d)\n", info.Name, info.PID)
				}
			}

			return runSequence(cfg)
		},
	}

	cmd.Flags().IntVarP(&interval, "interval", "i", config.DefaultInterval, "轮询间隔（秒）")
	cmd.Flags().IntVarP(&bossIndex, "boss", "b", 0, "boss 序号 (0=瓦尔申 1=督瑞尔 2=格里戈利 3=冰中野兽)")
	cmd.Flags().StringVar(&bossText, "boss-text", "", "自定义 boss 名称")
	cmd.Flags().StringVar(&activate, "activate", "", "开始前将名称匹配的进程窗口切到前台")
	cmd.Flags().StringVar(&downPoint, "down", "", "下滑坐标 x,y")

	return cmd
}

func runSequence(cfg *config.SessionConfig) error {
	s, err := session.New(cfg, session.WithModelStore(plugin.NewModelStore("")))
	if err != nil {
		return err
	}
	defer s.Close()

	bold.Println("========================================")
	bold.Printf("  textclicker v%s\n", Version)
	bold.Println("========================================")
	fmt.Printf("更改奖励区域: %s\n", cfg.AreaChangeReward)
	fmt.Printf("boss 区域:    %s (%s)\n", cfg.AreaBoss, cfg.BossText())
	fmt.Printf("打开区域:     %s\n", cfg.AreaOpen)
	fmt.Printf("下滑坐标:     %s\n", cfg.DownCoordinate)
	fmt.Printf("间隔:         %d 秒\n", cfg.Interval)
	fmt.Println()

	exec := executor.NewExecutor()
	exec.SetFinishHandler(func(runID string, st executor.State) {
		if st.Err != nil {
			errColor.Printf("[STOP] %s\n", st.Reason)
			return
		}
		okColor.Printf("[STOP] %s\n", st.Reason)
	})

	if _, err := exec.Start(context.Background(), s.NewSequence()); err != nil {
		return err
	}
	fmt.Println("[INFO] 开始识别，按 Ctrl+C 停止")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	done := make(chan struct{})
	go func() {
		exec.Wait()
		close(done)
	}()

	select {
	case <-sigCh:
		fmt.Println()
		fmt.Println("[INFO] 正在停止，等待当前识别完成...")
		exec.StopAndWait()
	case <-done:
	}

	status := exec.GetStatus()
	fmt.Printf("[INFO] 共完成 %d 轮\n", status.Rounds)
	return nil
}
