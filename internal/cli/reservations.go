package cli

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/tablo-hq/tablo/internal/tablo"
)

func newReservationsCmd(st *state) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "reservations",
		Short: "List reservations (newest first)",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := st.newAuthedClient()
			if err != nil {
				return err
			}
			res, err := c.Reservations(cmd.Context())
			if err != nil {
				return err
			}

			sort.SliceStable(res, func(i, j int) bool {
				ti, tj := resTime(res[i]), resTime(res[j])
				if !ti.Equal(tj) {
					return ti.After(tj)
				}
				return res[i].ID > res[j].ID
			})

			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, res)
			}
			if len(res) == 0 {
				fmt.Fprintln(out, "no reservations")
				return nil
			}
			for _, r := range res {
				when := ""
				if r.ReservationTime != nil && !r.ReservationTime.IsZero() {
					when = r.ReservationTime.In(time.Local).Format("Jan 2 15:04")
				}
				fmt.Fprintf(out, "[%d] %s\t%s\tparty=%d\t%s", r.ID, r.Status, when, r.PartySize, r.CustomerName)
				if r.CustomerPhone != "" {
					fmt.Fprintf(out, "\t%s", r.CustomerPhone)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")

	cmd.AddCommand(newReservationActionCmd(st, "confirm", tablo.ReservationConfirmed))
	cmd.AddCommand(newReservationActionCmd(st, "cancel", tablo.ReservationCancelled))
	return cmd
}

func resTime(r tablo.Reservation) time.Time {
	if r.ReservationTime == nil {
		return time.Time{}
	}
	return r.ReservationTime.Time
}

func newReservationActionCmd(st *state, use string, target tablo.ReservationStatus) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <reservationID>",
		Short: use + " a reservation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid reservation ID: %s", args[0])
			}
			c, err := st.newAuthedClient()
			if err != nil {
				return err
			}
			updated, err := c.UpdateReservationStatus(cmd.Context(), id, target)
			if err != nil {
				return fmt.Errorf("could not update reservation: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "reservation %d -> %s\n", id, updated.Status)
			return nil
		},
	}
}
