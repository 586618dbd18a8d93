package cmd

import (
	"fmt"
	"time"

	"github.com/lukman83/vitrine/internal/catalog"
	"github.com/lukman83/vitrine/internal/models"
	"github.com/lukman83/vitrine/internal/route"
	"github.com/lukman83/vitrine/internal/suggest"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <text>",
	Short: "Show search-as-you-type suggestions for text",
	Long: "Types text into the search box, waits for the debounce to settle, then prints the " +
		"suggestions and the search results location a submit would navigate to.",
	Args: cobra.ExactArgs(1),
	RunE: runSuggest,
}

func init() {
	suggestCmd.Flags().Int("min", 0, "Minimum query length (default from $VITRINE_MIN_SEARCH or 2)")
	suggestCmd.Flags().Int("max", 0, "Maximum suggestions (default from $VITRINE_MAX_SUGGESTIONS or 10)")
	suggestCmd.Flags().StringP("category", "c", "all", "Only suggest products of this category")
	suggestCmd.Flags().String("format", "table", "Output format: json, table")
	rootCmd.AddCommand(suggestCmd)
}

type suggestResult struct {
	Query       string           `json:"query"`
	Open        bool             `json:"open"`
	Suggestions []models.Product `json:"suggestions"`
	Submit      string           `json:"submit,omitempty"`
}

func runSuggest(cmd *cobra.Command, args []string) error {
	text := args[0]
	minLen, _ := cmd.Flags().GetInt("min")
	maxN, _ := cmd.Flags().GetInt("max")
	categoryFlag, _ := cmd.Flags().GetString("category")
	format, _ := cmd.Flags().GetString("format")

	if minLen <= 0 {
		minLen = cfg.MinSearchLength
	}
	if maxN <= 0 {
		maxN = cfg.MaxSuggestions
	}
	category, err := catalog.ParseCategory(categoryFlag)
	if err != nil {
		return err
	}

	svc, err := newService()
	if err != nil {
		return err
	}
	products, err := svc.Products(cmd.Context(), "")
	if err != nil {
		return err
	}

	router := route.New("/")
	router.WithCategory(category)
	box := suggest.NewSearchBox(router, catalog.Filter(products, category, ""), suggest.Config{
		MinSearchLength: minLen,
		MaxSuggestions:  maxN,
		Debounce:        cfg.Debounce,
	})
	settled := make(chan suggest.State, 1)
	box.OnSettle = func(st suggest.State) {
		select {
		case settled <- st:
		default:
		}
	}

	box.Type(text)
	var st suggest.State
	select {
	case st = <-settled:
	case <-time.After(cfg.Debounce + 5*time.Second):
		return fmt.Errorf("search box did not settle")
	case <-cmd.Context().Done():
		box.Clear()
		return cmd.Context().Err()
	}

	res := suggestResult{Query: st.Value, Open: st.Open, Suggestions: st.Suggestions}
	if loc, ok := box.Submit(); ok {
		res.Submit = loc
	}
	log.WithFields(logrus.Fields{"query": text, "scans": box.Engine().Scans()}).Debug("suggestions computed")

	out := cmd.OutOrStdout()
	if format == "json" {
		return printJSON(out, res)
	}
	if !box.Engine().Searchable(text) {
		fmt.Fprintf(out, "Type at least %d characters to get suggestions.\n", minLen)
		return nil
	}
	if len(st.Suggestions) == 0 {
		fmt.Fprintln(out, "No products found.")
	} else {
		fmt.Fprintf(out, "Suggestions for %q:\n", st.Value)
		for _, p := range st.Suggestions {
			fmt.Fprintf(out, "  %-4d %-60s %s\n", p.ID, truncate(p.Title, 60), p.Category.Label())
		}
	}
	if res.Submit != "" {
		fmt.Fprintf(out, "\nSearch: %s\n", res.Submit)
	}
	return nil
}
