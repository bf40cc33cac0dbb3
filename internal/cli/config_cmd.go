package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newConfigCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show/edit config",
	}
	cmd.AddCommand(newConfigShowCmd(st))
	cmd.AddCommand(newConfigSetCmd(st))
	return cmd
}

func newConfigShowCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print current config (redacts the token)",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "base_url=%s\n", st.cfg.BaseURL)
			s := st.session()
			if s.Email != "" {
				fmt.Fprintf(out, "email=%s\n", s.Email)
			}
			if s.RestaurantID != 0 {
				fmt.Fprintf(out, "restaurant_id=%d\n", s.RestaurantID)
			}
			if s.RestaurantName != "" {
				fmt.Fprintf(out, "restaurant_name=%s\n", s.RestaurantName)
			}
			if s.AccessToken != "" {
				fmt.Fprintf(out, "access_token=***\n")
			}
			if !s.ExpiresAt.IsZero() {
				fmt.Fprintf(out, "expires_at=%s\n", s.ExpiresAt.UTC().Format(time.RFC3339))
			}
		},
	}
}

func newConfigSetCmd(st *state) *cobra.Command {
	var baseURL string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update base URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(baseURL) == "" {
				return errors.New("nothing to set (use --base-url)")
			}
			st.cfg.BaseURL = strings.TrimSpace(baseURL)
			st.markDirty()
			fmt.Fprintln(cmd.OutOrStdout(), "config updated")
			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "", "API base URL (e.g. https://api.tablo.example/api/)")
	return cmd
}
