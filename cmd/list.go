package cmd

import (
	"fmt"

	"github.com/lukman83/vitrine/internal/catalog"
	"github.com/lukman83/vitrine/internal/platform"
	"github.com/lukman83/vitrine/internal/ui"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List products, optionally filtered by query and category",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringP("query", "q", "", "Search text matched against title, category and description")
	listCmd.Flags().StringP("category", "c", "all", "Category filter: all, electronics, jewelery, men's clothing, women's clothing")
	listCmd.Flags().String("format", "json", "Output format: json, table")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	query, _ := cmd.Flags().GetString("query")
	categoryFlag, _ := cmd.Flags().GetString("category")
	format, _ := cmd.Flags().GetString("format")

	category, err := catalog.ParseCategory(categoryFlag)
	if err != nil {
		return err
	}
	svc, err := newService()
	if err != nil {
		return err
	}

	spin := ui.NewSpinner(cmd.ErrOrStderr())
	spin.Start(fmt.Sprintf("Loading products from %s...", cfg.DefaultPlatform))
	ctx := platform.WithProgress(cmd.Context(), spin.Update)
	products, err := svc.Products(ctx, "")
	spin.Stop()
	if err != nil {
		return err
	}
	products = catalog.Filter(products, category, query)

	switch format {
	case "table":
		printProductsTable(cmd.OutOrStdout(), products)
		return nil
	default:
		return printJSON(cmd.OutOrStdout(), products)
	}
}
