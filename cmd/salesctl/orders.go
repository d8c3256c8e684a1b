package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/capitalize-ai/sales-assistant/internal/app"
	"github.com/capitalize-ai/sales-assistant/internal/model"
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List recent orders, optionally for one user",
	RunE:  runOrders,
}

var (
	ordersUser  string
	ordersLimit int
)

func init() {
	ordersCmd.Flags().StringVar(&ordersUser, "user", "", "Only orders of this user")
	ordersCmd.Flags().IntVar(&ordersLimit, "limit", 20, "Maximum number of orders")
	rootCmd.AddCommand(ordersCmd)
}

func runOrders(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	gw, err := app.OpenStore(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer gw.Close()

	var orders []model.Order
	if ordersUser != "" {
		orders, err = gw.FindOrdersByUser(cmd.Context(), ordersUser, ordersLimit)
	} else {
		orders, err = gw.ListOrders(cmd.Context(), ordersLimit)
	}
	if err != nil {
		return err
	}

	if len(orders) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No orders found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "REF\tUSER\tPRODUCT\tTOTAL\tSTATUS\tCREATED")
	for i := range orders {
		o := &orders[i]
		fmt.Fprintf(w, "%s\t%s\t%s\tR$ %.2f\t%s\t%s\n",
			o.Reference(), o.UserID, o.ProductName, o.Total, o.Status, o.CreatedAt.Format("02/01/2006 15:04"))
	}
	return w.Flush()
}
