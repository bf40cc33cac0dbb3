package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/tablo-hq/tablo/internal/orderboard"
	"github.com/tablo-hq/tablo/internal/tablo"
)

func newKitchenCmd(st *state) *cobra.Command {
	var interval time.Duration
	var watch, asJSON, silent bool

	cmd := &cobra.Command{
		Use:   "kitchen",
		Short: "Kitchen display (active orders by urgency)",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := st.newAuthedClient()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			updates := make(chan struct{}, 1)
			store, err := orderboard.NewStore(orderboard.StoreOptions{
				Fetch: func(ctx context.Context) ([]tablo.Order, error) {
					return c.KitchenOrders(ctx)
				},
				Less:   orderboard.KitchenLess,
				Logger: st.log,
				OnNewOrders: func() {
					if !silent {
						// The terminal bell is the kitchen's new-order sound.
						fmt.Fprint(out, "\a")
					}
				},
				OnUpdate: func() {
					select {
					case updates <- struct{}{}:
					default:
					}
				},
			})
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			if !watch {
				if err := store.Refresh(ctx); err != nil {
					return fmt.Errorf("could not load kitchen orders: %w", err)
				}
				if asJSON {
					return printJSON(out, store.Snapshot())
				}
				printKitchen(out, store.Snapshot(), false)
				return nil
			}

			poller := orderboard.NewPoller(store, interval, st.log)
			if err := poller.Start(ctx); err != nil {
				fmt.Fprintf(out, "could not load kitchen orders: %v (retrying every %s)\n", err, interval)
			}
			defer poller.Stop()

			for {
				select {
				case <-ctx.Done():
					return nil
				case <-updates:
					printKitchen(out, store.Snapshot(), true)
				}
			}
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 10*time.Second, "polling interval (with --watch)")
	cmd.Flags().BoolVar(&watch, "watch", false, "keep polling and re-render")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")
	cmd.Flags().BoolVar(&silent, "silent", false, "no bell on new orders")

	cmd.AddCommand(newKitchenActionCmd(st, "start", "Start preparing an order"))
	cmd.AddCommand(newKitchenActionCmd(st, "ready", "Mark an order ready for pickup"))
	return cmd
}

// newKitchenActionCmd wires the card's primary action: the target status
// is derived from the order's current status, same as the button label
// on the screen.
func newKitchenActionCmd(st *state, use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <orderID>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orderID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid order ID: %s", args[0])
			}

			c, err := st.newAuthedClient()
			if err != nil {
				return err
			}
			store, err := orderboard.NewStore(orderboard.StoreOptions{
				Fetch: func(ctx context.Context) ([]tablo.Order, error) {
					return c.KitchenOrders(ctx)
				},
				Less:   orderboard.KitchenLess,
				Logger: st.log,
			})
			if err != nil {
				return err
			}
			if err := store.Refresh(cmd.Context()); err != nil {
				return fmt.Errorf("could not load kitchen orders: %w", err)
			}

			o, ok := store.Get(orderID)
			if !ok {
				return fmt.Errorf("order %d is not on the kitchen board", orderID)
			}
			target, label, ok := orderboard.KitchenAction(o.Status)
			if !ok {
				return fmt.Errorf("order %d (%s) has no kitchen action", orderID, o.Status)
			}
			if use == "ready" && target != tablo.StatusReadyForPickup {
				return fmt.Errorf("order %d is %s; next step is %q", orderID, o.Status, label)
			}
			if use == "start" && target != tablo.StatusPreparing {
				return fmt.Errorf("order %d is already %s", orderID, o.Status)
			}

			ctrl, err := orderboard.NewController(orderboard.ControllerOptions{
				Store:  store,
				Update: c.UpdateOrderStatus,
				Mode:   orderboard.RemoveFromView,
				OnFailure: func(id int64, err error) {
					fmt.Fprintf(cmd.ErrOrStderr(), "order %d: status update failed, card restored\n", id)
				},
			})
			if err != nil {
				return err
			}

			if err := ctrl.Transition(cmd.Context(), orderID, target); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "order %d -> %s\n", orderID, target)
			return nil
		},
	}
}

func printKitchen(out io.Writer, orders []tablo.Order, clearScreen bool) {
	if clearScreen {
		fmt.Fprint(out, "\033[2J\033[H")
	}
	fmt.Fprintf(out, "Kitchen Display  %s\n\n", time.Now().Format("15:04:05"))

	if len(orders) == 0 {
		fmt.Fprintln(out, "no active orders")
		return
	}

	for _, o := range orders {
		badge := "UNPAID"
		if o.Paid() {
			badge = "PAID"
		}
		fmt.Fprintf(out, "#%d  [%s] [%s]", o.OrderNumber, o.Status, badge)
		if o.TableNumber != nil {
			fmt.Fprintf(out, " [table %d]", *o.TableNumber)
		}
		fmt.Fprintln(out)

		if o.Scheduled() {
			fmt.Fprintf(out, "    pickup %s\n", o.PickupTime.In(time.Local).Format("Jan 2 15:04"))
		} else {
			fmt.Fprintln(out, "    pickup ASAP")
		}
		printItems(out, o.Items)

		if _, label, ok := orderboard.KitchenAction(o.Status); ok {
			fmt.Fprintf(out, "    -> %s (id %d)\n", label, o.ID)
		}
		fmt.Fprintln(out)
	}
}
