package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/zoeyai/textclicker/pkg/vision/ocr"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "显示版本信息",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("textclicker v%s\n", Version)
			fmt.Printf("Build Time: %s\n", BuildTime)
			fmt.Printf("Git Commit: %s\n", GitCommit)
			fmt.Printf("Platform:   %s/%s\n", runtime.GOOS, runtime.GOARCH)
			fmt.Printf("Tesseract:  %s\n", ocr.TesseractVersion())
		},
	}
}
