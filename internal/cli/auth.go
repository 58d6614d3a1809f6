package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/breeds/internal/store/credstore"
	"github.com/Makepad-fr/breeds/internal/ui"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the stored API key",
		Args:  exactArgs(0, "auth login|logout|status"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return usagef("usage: breeds auth login|logout|status")
		},
	}
	cmd.AddCommand(newLoginCmd(), newLogoutCmd(), newStatusCmd())
	return cmd
}

func newLoginCmd() *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store an API key (read from stdin when --key is absent)",
		Args:  exactArgs(0, "auth login [--key KEY]"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if key == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "API key: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return usagef("no API key given")
				}
				key = line
			}
			if strings.TrimSpace(key) == "" {
				return usagef("no API key given")
			}
			c, err := credstore.Save(key)
			if err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), "logged in as "+c.SubID)
			return nil
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "API key to store")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored API key",
		Args:  exactArgs(0, "auth logout"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := credstore.Delete(); err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stored credentials",
		Args:  exactArgs(0, "auth status"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := credstore.Load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if c == nil {
				fmt.Fprintln(out, ui.C(ui.Current().Muted, "not logged in"))
				return nil
			}
			ui.Panel(out, []string{
				ui.C(ui.Current().Title, "Credentials"),
				"",
				ui.C(ui.Current().Accent, "API key:") + " " + maskKey(c.APIKey),
				ui.C(ui.Current().Accent, "User:") + " " + c.SubID,
				ui.C(ui.Current().Accent, "Saved:") + " " + c.CreatedAt.Local().Format("2006-01-02 15:04"),
			})
			return nil
		},
	}
}

// maskKey keeps the last four characters.
func maskKey(k string) string {
	if len(k) <= 4 {
		return strings.Repeat("*", len(k))
	}
	return strings.Repeat("*", len(k)-4) + k[len(k)-4:]
}
