package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CodeExpert787/VPN-Windows-Mac/internal/service"
)

func newEnableCommand(opts *rootOptions) *cobra.Command {
	var (
		host string
		port uint16
	)
	c := &cobra.Command{
		Use:   "enable",
		Short: "Point the system HTTP/HTTPS proxy at host:port",
		Long: `Enable the system-wide HTTP and HTTPS proxy.

--host and --port fall back to the stored defaults (see "proxyctl defaults").

Examples:
  proxyctl enable --host 127.0.0.1 --port 7890
  proxyctl enable`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			host, port, err := a.config.ResolveTarget(host, port)
			if err != nil {
				return err
			}
			if host == "" || port == 0 {
				return service.ErrNoProxyTarget
			}
			if err := a.commands.EnableProxy(host, port); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "系统代理已启用: %s:%d\n", host, port)
			return nil
		},
	}
	c.Flags().StringVar(&host, "host", "", "proxy host (default: stored default)")
	c.Flags().Uint16Var(&port, "port", 0, "proxy port (default: stored default)")
	return c
}

func newDisableCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "disable",
		Short: "Turn the system HTTP/HTTPS proxy off",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.commands.DisableProxy(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "系统代理已关闭")
			return nil
		},
	}
}

func newIPCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ip",
		Short: "Print this machine's public IP address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			ip, err := a.commands.GetPublicIP(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ip)
			return nil
		},
	}
}
