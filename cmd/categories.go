package cmd

import (
	"fmt"

	"github.com/lukman83/vitrine/internal/platform"
	"github.com/lukman83/vitrine/internal/ui"
	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Show how many products each category holds",
	Args:  cobra.NoArgs,
	RunE:  runCategories,
}

func init() {
	categoriesCmd.Flags().String("format", "table", "Output format: json, table")
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	svc, err := newService()
	if err != nil {
		return err
	}

	spin := ui.NewSpinner(cmd.ErrOrStderr())
	spin.Start("Counting categories...")
	counts, err := svc.Categories(platform.WithProgress(cmd.Context(), spin.Update))
	spin.Stop()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		return printJSON(out, counts)
	}
	if len(counts) == 0 {
		fmt.Fprintln(out, "No categories found.")
		return nil
	}

	total := 0
	for _, c := range counts {
		total += c.Count
	}
	fmt.Fprintf(out, "Categories (%d products):\n\n", total)
	for i, c := range counts {
		fmt.Fprintf(out, " %2d. %-20s  (%d products)\n", i+1, c.Label, c.Count)
	}
	return nil
}
