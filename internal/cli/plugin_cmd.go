package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newPluginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plugin",
		Short: "Manage installed plugins",
	}
	cmd.AddCommand(newPluginListCmd())
	cmd.AddCommand(newPluginInstallCmd())
	cmd.AddCommand(newPluginUninstallCmd())
	cmd.AddCommand(newPluginEnableCmd())
	cmd.AddCommand(newPluginDisableCmd())
	return cmd
}

func newPluginListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List installed plugins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tVERSION\tENABLED\tLOADED\tERROR")
			for _, info := range a.manager.Plugins() {
				fmt.Fprintf(w, "%s\t%s\t%t\t%t\t%s\n",
					info.Manifest.ID, info.Manifest.Version,
					info.IsEnabled, info.IsLoaded, info.LastError)
			}
			return w.Flush()
		},
	}
}

func newPluginInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install <package.zip>",
		Short: "Install a plugin package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			pkg, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			info, err := a.manager.Install(cmd.Context(), pkg)
			if err != nil {
				return fmt.Errorf("plugin failed to install: %w", err)
			}
			fmt.Printf("installed %s %s\n", info.Manifest.ID, info.Manifest.Version)
			return nil
		},
	}
}

func newPluginUninstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall <id>",
		Short: "Remove an installed plugin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.manager.Uninstall(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("uninstalled %s\n", args[0])
			return nil
		},
	}
}

func newPluginEnableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enable <id>",
		Short: "Enable and load a plugin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.manager.Enable(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("plugin failed to load: %w", err)
			}
			fmt.Printf("enabled %s\n", args[0])
			return nil
		},
	}
}

func newPluginDisableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disable <id>",
		Short: "Disable and unload a plugin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.manager.Disable(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("disabled %s\n", args[0])
			return nil
		},
	}
}
