// Package main 是 feedrank 的命令行工具：对 HTTP 目录服务跑 Feed、查看画像、导入偏好快照。
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "feedctl",
	Short: "Personalized feed ranking CLI",
	Long:  "feedctl runs the feedrank pipeline against an HTTP catalog, inspects keyword profiles and imports preference snapshots.",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return setup()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to YAML config file (defaults are used when empty)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override log level (trace, debug, info, warn, error)")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
