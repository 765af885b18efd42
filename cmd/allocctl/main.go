package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/qs3c/alloc_server/config"
	"github.com/qs3c/alloc_server/internal/app"
	"github.com/qs3c/alloc_server/internal/pkg/logger"
)

var configPath string

func main() {
	if err := rootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "allocctl",
		Short:         "订阅门户管理工具",
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "config file")

	root.AddCommand(
		migrateCommand(),
		seedCommand(),
		userCommand(),
		projectCommand(),
		resourceCommand(),
		expireCommand(),
		exportCommand(),
	)
	return root
}

// loadApp 子命令共用的初始化
func loadApp(cmd *cobra.Command) (*app.App, error) {
	cmd.SilenceUsage = true

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	zlog, err := logger.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return app.New(cfg, zlog)
}
