package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/CodeExpert787/VPN-Windows-Mac/internal/store"
)

func newDefaultsCommand(opts *rootOptions) *cobra.Command {
	c := &cobra.Command{
		Use:   "defaults",
		Short: "Show or change the default proxy target",
	}

	var all bool
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the stored default host and port",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if all {
				prefs := a.config.All()
				keys := make([]string, 0, len(prefs))
				for k := range prefs {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				for _, k := range keys {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", k, prefs[k])
				}
				return nil
			}

			d, err := a.config.GetProxyDefaults()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "host: %s\nport: %d\n", d.Host, d.Port)
			return nil
		},
	}

	show.Flags().BoolVar(&all, "all", false, "print every stored preference key")

	var (
		host string
		port uint16
	)
	set := &cobra.Command{
		Use:   "set",
		Short: "Store a new default host and port",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			current, err := a.config.GetProxyDefaults()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("host") {
				current.Host = host
			}
			if cmd.Flags().Changed("port") {
				current.Port = port
			}
			if err := a.config.SaveProxyDefaults(store.ProxyDefaults{Host: current.Host, Port: current.Port}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "默认代理已保存: %s:%d\n", current.Host, current.Port)
			return nil
		},
	}
	set.Flags().StringVar(&host, "host", "", "default proxy host")
	set.Flags().Uint16Var(&port, "port", 0, "default proxy port")
	set.MarkFlagsOneRequired("host", "port")

	c.AddCommand(show, set)
	return c
}
