package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/tablo-hq/tablo/internal/orderboard"
	"github.com/tablo-hq/tablo/internal/tablo"
)

func newOrdersCmd(st *state) *cobra.Command {
	var filterStr string
	var page, pageSize int
	var interval time.Duration
	var watch, asJSON bool

	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Live order board",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := st.newAuthedClient()
			if err != nil {
				return err
			}
			rid, err := st.restaurantID()
			if err != nil {
				return err
			}
			filter, ok := orderboard.ParseFilter(filterStr)
			if !ok {
				return fmt.Errorf("unknown filter %q (ALL, PENDING, CONFIRMED, PREPARING, SCHEDULED)", filterStr)
			}

			updates := make(chan struct{}, 1)
			store, err := orderboard.NewStore(orderboard.StoreOptions{
				Fetch: func(ctx context.Context) ([]tablo.Order, error) {
					return c.Orders(ctx, rid)
				},
				Less:   orderboard.LiveBoardLess,
				Logger: st.log,
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

			board := orderboard.NewBoard(store, pageSize)
			board.SetFilter(filter)
			board.SetPage(page)

			out := cmd.OutOrStdout()
			ctx := cmd.Context()

			if !watch {
				if err := store.Refresh(ctx); err != nil {
					return fmt.Errorf("could not load orders: %w", err)
				}
				if asJSON {
					return printJSON(out, store.Snapshot())
				}
				printBoard(out, board, false)
				return nil
			}

			poller := orderboard.NewPoller(store, interval, st.log)
			if err := poller.Start(ctx); err != nil {
				// The view still renders and keeps retrying on the poll
				// interval; only the initial load failure is surfaced.
				fmt.Fprintf(out, "could not load orders: %v (retrying every %s)\n", err, interval)
			}
			defer poller.Stop()

			for {
				select {
				case <-ctx.Done():
					return nil
				case <-updates:
					printBoard(out, board, true)
				}
			}
		},
	}

	cmd.Flags().StringVar(&filterStr, "filter", "PENDING", "board filter (ALL, PENDING, CONFIRMED, PREPARING, SCHEDULED)")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", orderboard.DefaultPageSize, "orders per page")
	cmd.Flags().DurationVar(&interval, "interval", 15*time.Second, "polling interval (with --watch)")
	cmd.Flags().BoolVar(&watch, "watch", false, "keep polling and re-render")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")

	cmd.AddCommand(newOrderActionCmd(st, "confirm", "Confirm a pending order", tablo.StatusConfirmed))
	cmd.AddCommand(newOrderActionCmd(st, "prepare", "Move an order to PREPARING", tablo.StatusPreparing))
	cmd.AddCommand(newOrderActionCmd(st, "ready", "Mark an order ready for pickup", tablo.StatusReadyForPickup))
	cmd.AddCommand(newOrderActionCmd(st, "deliver", "Mark an order delivered", tablo.StatusDelivered))
	cmd.AddCommand(newOrderActionCmd(st, "cancel", "Cancel an order", tablo.StatusCancelled))
	return cmd
}

func newOrderActionCmd(st *state, use, short string, target tablo.OrderStatus) *cobra.Command {
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
			rid, err := st.restaurantID()
			if err != nil {
				return err
			}

			store, err := orderboard.NewStore(orderboard.StoreOptions{
				Fetch: func(ctx context.Context) ([]tablo.Order, error) {
					return c.Orders(ctx, rid)
				},
				Logger: st.log,
			})
			if err != nil {
				return err
			}
			if err := store.Refresh(cmd.Context()); err != nil {
				return fmt.Errorf("could not load orders: %w", err)
			}

			ctrl, err := orderboard.NewController(orderboard.ControllerOptions{
				Store:  store,
				Update: c.UpdateOrderStatus,
				Mode:   orderboard.UpdateInPlace,
				OnFailure: func(id int64, err error) {
					fmt.Fprintf(cmd.ErrOrStderr(), "order %d: status update failed, nothing changed\n", id)
				},
			})
			if err != nil {
				return err
			}

			if err := ctrl.Transition(cmd.Context(), orderID, target); err != nil {
				return err
			}
			o, _ := store.Get(orderID)
			fmt.Fprintf(cmd.OutOrStdout(), "order %d -> %s\n", orderID, o.Status)
			return nil
		},
	}
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printBoard(out io.Writer, b *orderboard.Board, clearScreen bool) {
	if clearScreen {
		fmt.Fprint(out, "\033[2J\033[H")
	}

	visible, page, total := b.Visible()
	fmt.Fprintf(out, "Live Orders  filter=%s  page %d/%d\n\n", b.Filter(), page, max(total, 1))

	if len(visible) == 0 {
		fmt.Fprintln(out, "no orders match the current filter")
		return
	}
	for _, o := range visible {
		fmt.Fprintln(out, o.Summary())
		printItems(out, o.Items)
	}
}

func printItems(out io.Writer, items []tablo.LineItem) {
	for _, li := range items {
		fmt.Fprintf(out, "    %d x %s\n", li.Quantity, li.Name)
		for _, opt := range li.Options() {
			fmt.Fprintf(out, "        - %s\n", opt)
		}
	}
}
