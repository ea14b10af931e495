// Package cmd 提供 proxyctl 命令行
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/CodeExpert787/VPN-Windows-Mac/internal/config"
)

type rootOptions struct {
	cfgFile  string
	logLevel string

	cfg     *config.Config
	cfgUsed string
}

// NewRootCommand 创建完整的命令树
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "proxyctl",
		Short: "Toggle the system-wide HTTP/HTTPS proxy on Windows and macOS",
		Long: `proxyctl points the operating system's HTTP/HTTPS proxy at host:port, or turns it off.

On Windows it writes the per-user Internet Settings registry values, broadcasts
the settings change and updates WinHTTP. On macOS it configures every enabled
network service with networksetup. Other platforms report an error.

Configuration:
  Config is loaded from proxyctl.json/.yaml in the current directory or
  $HOME/.proxyctl/, or from --config. Environment variables with the
  PROXYCTL_ prefix override file values, e.g. PROXYCTL_LOGLEVEL=debug.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, used, err := config.LoadConfig(opts.cfgFile)
			if err != nil {
				return err
			}
			if opts.logLevel != "" {
				cfg.LogLevel = opts.logLevel
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			opts.cfg = cfg
			opts.cfgUsed = used
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default: ./proxyctl.json or ./proxyctl.yaml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override the configured log level (debug|info|warn|error)")

	root.AddCommand(
		newEnableCommand(opts),
		newDisableCommand(opts),
		newIPCommand(opts),
		newDefaultsCommand(opts),
		newServeCommand(opts),
		newVersionCommand(),
	)
	return root
}

// Execute 运行根命令
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
