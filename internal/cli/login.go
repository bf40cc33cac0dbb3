package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tablo-hq/tablo/internal/config"
)

func newLoginCmd(st *state) *cobra.Command {
	var password string
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Log in with staff credentials and store the session token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email := strings.TrimSpace(args[0])
			if email == "" {
				return errors.New("email cannot be empty")
			}

			pw := password
			switch {
			case passwordStdin:
				b, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && !errors.Is(err, io.EOF) {
					return err
				}
				pw = strings.TrimRight(b, "\r\n")
			case pw == "":
				if !term.IsTerminal(int(os.Stdin.Fd())) {
					return errors.New("no terminal for password prompt (use --password-stdin)")
				}
				fmt.Fprint(cmd.OutOrStdout(), "Password: ")
				b, err := term.ReadPassword(int(os.Stdin.Fd()))
				fmt.Fprintln(cmd.OutOrStdout())
				if err != nil {
					return err
				}
				pw = string(b)
			}
			if pw == "" {
				return errors.New("password cannot be empty")
			}

			c, err := st.newClient()
			if err != nil {
				return err
			}
			resp, err := c.Login(cmd.Context(), email, pw)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			c.SetAccessToken(resp.Token)

			// A new session replaces the old one wholesale: logging in to a
			// different tenant must not keep the previous tenant's profile.
			st.cfg.ClearSession()
			sess := st.session()
			sess.Email = email
			sess.AccessToken = resp.Token
			if exp, ok := config.AccessTokenExpiresAt(resp.Token); ok {
				sess.ExpiresAt = exp
			}

			user, err := c.Me(cmd.Context())
			if err != nil {
				return fmt.Errorf("logged in but profile fetch failed: %w", err)
			}
			sess.RestaurantID = user.RestaurantID
			sess.RestaurantName = user.RestaurantName
			st.markDirty()

			fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s (%s)\n", email, user.RestaurantName)
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "password (prompts if omitted)")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read password from stdin")
	return cmd
}

func newLogoutCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		Run: func(cmd *cobra.Command, args []string) {
			st.cfg.ClearSession()
			st.markDirty()
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
		},
	}
}

func newWhoamiCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in staff profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := st.newAuthedClient()
			if err != nil {
				return err
			}
			user, err := c.Me(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "email=%s\n", user.Email)
			if user.Role != "" {
				fmt.Fprintf(out, "role=%s\n", user.Role)
			}
			fmt.Fprintf(out, "restaurant_id=%d\n", user.RestaurantID)
			if user.RestaurantName != "" {
				fmt.Fprintf(out, "restaurant_name=%s\n", user.RestaurantName)
			}
			return nil
		},
	}
}
