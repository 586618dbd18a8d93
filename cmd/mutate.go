package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/lukman83/vitrine/internal/models"
	"github.com/lukman83/vitrine/internal/money"
	"github.com/lukman83/vitrine/internal/platform"
	"github.com/lukman83/vitrine/internal/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a product",
	Args:  cobra.NoArgs,
	RunE:  runCreate,
}

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a product; only the given fields change",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpdate,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a product",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func addProductFlags(fs *pflag.FlagSet) {
	fs.String("title", "", "Title, 3 to 200 characters")
	fs.String("price", "", "Price as typed into a currency field; digits are read as cents (19.99 or 1999)")
	fs.String("description", "", "Description, 10 to 1000 characters")
	fs.String("category", "", "Category: electronics, jewelery, men's clothing, women's clothing")
	fs.String("image", "", "Image URL")
	fs.String("file", "", "Read the product fields from a JSON file (flags override it)")
	fs.Bool("template", false, "Print the form defaults instead of saving")
}

func init() {
	addProductFlags(createCmd.Flags())
	addProductFlags(updateCmd.Flags())
	rootCmd.AddCommand(createCmd, updateCmd, deleteCmd)
}

// applyProductFlags overlays the file and the flags that were set onto in.
func applyProductFlags(fs *pflag.FlagSet, in models.ProductInput) (models.ProductInput, error) {
	if path, _ := fs.GetString("file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return in, fmt.Errorf("read product file: %w", err)
		}
		id := in.ID
		if err := json.Unmarshal(data, &in); err != nil {
			return in, fmt.Errorf("parse product file: %w", err)
		}
		in.ID = id
	}
	if fs.Changed("title") {
		in.Title = flagValue(fs, "title").(string)
	}
	if fs.Changed("price") {
		in.Price = flagValue(fs, "price").(float64)
	}
	if fs.Changed("description") {
		in.Description = flagValue(fs, "description").(string)
	}
	if fs.Changed("category") {
		in.Category = flagValue(fs, "category").(models.Category)
	}
	if fs.Changed("image") {
		in.Image = flagValue(fs, "image").(string)
	}
	return in, nil
}

// flagValue returns the typed form value of a product field flag.
func flagValue(fs *pflag.FlagSet, name string) any {
	raw, _ := fs.GetString(name)
	switch name {
	case "price":
		return money.ParseDigits(raw)
	case "category":
		return models.Category(raw)
	default:
		return raw
	}
}

// checkProductFlags validates every field flag that was set against its form field
// constraints before any request is made.
func checkProductFlags(fs *pflag.FlagSet, op string, id int) error {
	var errs schema.Errors
	for _, f := range schema.ProductCreateFields {
		if !fs.Changed(f.Name) {
			continue
		}
		err := schema.ValidateField(f, flagValue(fs, f.Name))
		var verrs schema.Errors
		if errors.As(err, &verrs) {
			errs = append(errs, verrs...)
		} else if err != nil {
			return err
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return platform.ValidationError(op, id, errs)
}

func productValues(p models.Product) (map[string]any, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func runCreate(cmd *cobra.Command, args []string) error {
	if tmpl, _ := cmd.Flags().GetBool("template"); tmpl {
		return printJSON(cmd.OutOrStdout(), schema.BuildDefaults(schema.ProductCreateFields, nil))
	}

	if err := checkProductFlags(cmd.Flags(), platform.OpCreate, 0); err != nil {
		return err
	}
	in, err := applyProductFlags(cmd.Flags(), models.ProductInput{})
	if err != nil {
		return err
	}
	svc, err := newService()
	if err != nil {
		return err
	}
	p, err := svc.Create(cmd.Context(), in)
	if err != nil {
		return err
	}
	log.WithField("id", p.ID).Info("product created")
	return printJSON(cmd.OutOrStdout(), p)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ids, err := parseIDArgs(args)
	if err != nil {
		return err
	}
	if err := checkProductFlags(cmd.Flags(), platform.OpUpdate, ids[0]); err != nil {
		return err
	}
	svc, err := newService()
	if err != nil {
		return err
	}
	current, err := svc.Product(cmd.Context(), ids[0])
	if err != nil {
		return err
	}

	if tmpl, _ := cmd.Flags().GetBool("template"); tmpl {
		values, err := productValues(*current)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), schema.BuildDefaults(schema.ProductEditFields, values))
	}

	in, err := applyProductFlags(cmd.Flags(), current.Input())
	if err != nil {
		return err
	}
	p, err := svc.Update(cmd.Context(), in)
	if err != nil {
		return err
	}
	log.WithField("id", p.ID).Info("product updated")
	return printJSON(cmd.OutOrStdout(), p)
}

func runDelete(cmd *cobra.Command, args []string) error {
	ids, err := parseIDArgs(args)
	if err != nil {
		return err
	}
	svc, err := newService()
	if err != nil {
		return err
	}
	if err := svc.Delete(cmd.Context(), ids[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Product %d deleted.\n", ids[0])
	return nil
}
