package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tablo-hq/tablo/internal/mockapi"
)

func newDevCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:    "dev",
		Short:  "Development helpers",
		Hidden: true,
	}
	cmd.AddCommand(newMockAPICmd(st))
	return cmd
}

func newMockAPICmd(st *state) *cobra.Command {
	var addr string
	var simulateEvery time.Duration

	cmd := &cobra.Command{
		Use:   "mock-api",
		Short: "Serve a fake Tablo backend for local demos",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := mockapi.New(st.log)
			if err := srv.SeedDemo(time.Now()); err != nil {
				return err
			}

			if simulateEvery > 0 {
				stop := make(chan struct{})
				defer close(stop)
				go srv.SimulateArrivals(simulateEvery, stop)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "mock Tablo API on %s\n", addr)
			fmt.Fprintf(cmd.OutOrStdout(), "login: %s / %s (or TABLO_TOKEN=%s)\n",
				mockapi.DemoEmail, mockapi.DemoPassword, mockapi.DemoToken)
			return srv.Start(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().DurationVar(&simulateEvery, "simulate-every", 0, "inject a new demo order on this interval")
	return cmd
}
