package cmd

import (
	"fmt"
	"strconv"

	"github.com/lukman83/vitrine/internal/platform"
	"github.com/lukman83/vitrine/internal/ui"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <id>...",
	Short: "Show product details with analytics",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runGet,
}

var analyticsCmd = &cobra.Command{
	Use:   "analytics <id>",
	Short: "Show the synthetic analytics of a product",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalytics,
}

func init() {
	getCmd.Flags().String("format", "table", "Output format: json, table")
	analyticsCmd.Flags().String("format", "json", "Output format: json, table")
	rootCmd.AddCommand(getCmd, analyticsCmd)
}

func parseIDArgs(args []string) ([]int, error) {
	ids := make([]int, len(args))
	for i, a := range args {
		id, err := strconv.Atoi(a)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid product id %q: must be a positive integer", a)
		}
		ids[i] = id
	}
	return ids, nil
}

func runGet(cmd *cobra.Command, args []string) error {
	ids, err := parseIDArgs(args)
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")

	svc, err := newService()
	if err != nil {
		return err
	}

	spin := ui.NewSpinner(cmd.ErrOrStderr())
	spin.Start(fmt.Sprintf("Fetching %d product(s)...", len(ids)))
	details, err := svc.Details(platform.WithProgress(cmd.Context(), spin.Update), ids)
	spin.Stop()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		if len(details) == 1 {
			return printJSON(out, details[0])
		}
		return printJSON(out, details)
	}
	for i, d := range details {
		if i > 0 {
			fmt.Fprintln(out)
		}
		printDetail(out, d)
	}
	return nil
}

func runAnalytics(cmd *cobra.Command, args []string) error {
	ids, err := parseIDArgs(args)
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")

	svc, err := newService()
	if err != nil {
		return err
	}
	d, err := svc.Detail(cmd.Context(), ids[0])
	if err != nil {
		return err
	}

	if format == "table" {
		fmt.Fprintf(cmd.OutOrStdout(), "%s (#%d)\n", d.Product.Title, d.Product.ID)
		printAnalytics(cmd.OutOrStdout(), d.Analytics)
		return nil
	}
	return printJSON(cmd.OutOrStdout(), d.Analytics)
}
