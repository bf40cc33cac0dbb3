package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func Run(ctx context.Context, args []string) error {
	root := newRoot()
	root.SetArgs(args)
	root.SetContext(ctx)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}

func newRoot() *cobra.Command {
	var cfgPath string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "tablo",
		Short: "Tablo restaurant admin CLI",
	}
	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config path (default: OS config dir)")
	cmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "debug logging on stderr")

	st := &state{log: logrus.New()}
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// A local .env can carry TABLO_BASE_URL / TABLO_TOKEN overrides.
		_ = godotenv.Load()

		st.log.SetOutput(cmd.ErrOrStderr())
		st.log.SetLevel(logrus.WarnLevel)
		if verbose {
			st.log.SetLevel(logrus.DebugLevel)
		}

		st.configPath = cfgPath
		return st.load()
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return st.save()
	}

	cmd.AddCommand(newLoginCmd(st))
	cmd.AddCommand(newLogoutCmd(st))
	cmd.AddCommand(newWhoamiCmd(st))
	cmd.AddCommand(newConfigCmd(st))
	cmd.AddCommand(newOrdersCmd(st))
	cmd.AddCommand(newKitchenCmd(st))
	cmd.AddCommand(newReservationsCmd(st))
	cmd.AddCommand(newMenuCmd(st))
	cmd.AddCommand(newDevCmd(st))

	return cmd
}
