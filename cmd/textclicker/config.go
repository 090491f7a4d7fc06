package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "查看或清除已保存的配置",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "输出当前生效的配置",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd)
			data, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return fmt.Errorf("序列化配置失败: %w", err)
			}
			fmt.Println(string(data))
			if err := cfg.Validate(); err != nil {
				warnColor.Printf("⚠ %v\n", err)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "输出配置文件路径",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(configManager().GetConfigFile())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "删除配置文件",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr := configManager()
			if err := mgr.Clear(); err != nil {
				return fmt.Errorf("清除配置失败: %w", err)
			}
			okColor.Printf("✓ 已删除 %s\n", mgr.GetConfigFile())
			return nil
		},
	})

	return cmd
}
