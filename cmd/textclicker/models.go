package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zoeyai/textclicker/pkg/plugin"
)

func newModelsCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "models",
		Short: "管理 PaddleOCR 模型文件",
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", "", "模型目录 (默认 ~/.textclicker/models)")

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "查看模型安装状态",
		Run: func(cmd *cobra.Command, args []string) {
			printModelStatus(plugin.NewModelStore(dir).GetStatus())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "install",
		Short: "下载 PaddleOCR 模型和 ONNX Runtime",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := plugin.NewModelStore(dir)
			if store.IsInstalled() {
				okColor.Printf("✓ 模型已安装: %s\n", store.Dir())
				return nil
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			last := -1
			store.SetProgressCallback(func(p float64) {
				if pct := int(p); pct != last {
					last = pct
					fmt.Printf("\r下载中... %3d%%", pct)
				}
			})
			err := store.Install(ctx)
			fmt.Println()
			if err != nil {
				return err
			}
			okColor.Printf("✓ 安装完成: %s\n", store.Dir())
			fmt.Println("使用 --engine paddle --save 切换到 PaddleOCR 引擎")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "uninstall",
		Short: "删除已下载的模型",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := plugin.NewModelStore(dir)
			if err := store.Uninstall(); err != nil {
				return fmt.Errorf("删除模型失败: %w", err)
			}
			okColor.Printf("✓ 已删除 %s\n", store.Dir())
			return nil
		},
	})

	return cmd
}

func printModelStatus(status plugin.Status) {
	if status.Installed {
		okColor.Println("✓ PaddleOCR 模型已安装")
	} else {
		warnColor.Println("✗ PaddleOCR 模型未安装，运行 textclicker models install 下载")
	}
	for _, p := range status.All() {
		mark := okColor.Sprint("✓")
		for _, m := range status.Missing {
			if m == p {
				mark = errColor.Sprint("✗")
				break
			}
		}
		fmt.Printf("  %s %s\n", mark, p)
	}
}
