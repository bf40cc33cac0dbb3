package cli

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tablo-hq/tablo/internal/tablo"
)

func newMenuCmd(st *state) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "menu",
		Short: "List menu items",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := st.newAuthedClient()
			if err != nil {
				return err
			}
			rid, err := st.restaurantID()
			if err != nil {
				return err
			}
			items, err := c.Menu(cmd.Context(), rid)
			if err != nil {
				return err
			}
			sort.SliceStable(items, func(i, j int) bool { return items[i].ID < items[j].ID })

			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, items)
			}
			if len(items) == 0 {
				fmt.Fprintln(out, "menu is empty")
				return nil
			}
			for _, m := range items {
				avail := "available"
				if !m.Available {
					avail = "86'd"
				}
				fmt.Fprintf(out, "[%d] %s\t%s\t%s\n", m.ID, m.Name, tablo.FormatPrice(m.Price, ""), avail)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")

	cmd.AddCommand(newMenuToggleCmd(st, "enable", true))
	cmd.AddCommand(newMenuToggleCmd(st, "disable", false))
	return cmd
}

func newMenuToggleCmd(st *state, use string, available bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <itemID>",
		Short: use + " ordering for a menu item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid item ID: %s", args[0])
			}
			c, err := st.newAuthedClient()
			if err != nil {
				return err
			}
			item, err := c.SetMenuItemAvailability(cmd.Context(), id, available)
			if err != nil {
				return err
			}
			state := "available"
			if !item.Available {
				state = "unavailable"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", item.Name, state)
			return nil
		},
	}
}
