// Package schema validates products at the API boundary and describes the product form.
package schema

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/lukman83/vitrine/internal/models"
	"github.com/shopspring/decimal"
)

// MaxPrice is the largest accepted product price.
const MaxPrice = 999999

// Mode selects the rules applied to a ProductInput.
type Mode int

const (
	Create Mode = iota
	Update
)

// Violation is one offending field.
type Violation struct {
	Path    string
	Message string
}

// Errors is the list of violations found in one validation pass.
type Errors []Violation

func (e Errors) Error() string {
	parts := make([]string, len(e))
	for i, v := range e {
		parts[i] = v.Path + ": " + v.Message
	}
	return strings.Join(parts, ", ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("price", validatePrice)
	_ = v.RegisterValidation("category", validateCategory)
	return v
}

func validatePrice(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.Float64 && fl.Field().Kind() != reflect.Float32 {
		return false
	}
	return ValidPrice(fl.Field().Float())
}

func validateCategory(fl validator.FieldLevel) bool {
	return models.Category(fl.Field().String()).Valid()
}

// ValidPrice reports whether v is positive, at most MaxPrice and has no more than two
// decimal places.
func ValidPrice(v float64) bool {
	if v <= 0 || v > MaxPrice {
		return false
	}
	d := decimal.NewFromFloat(v)
	return d.Equal(d.Round(2))
}

// ValidateProduct checks a product received from upstream.
func ValidateProduct(p models.Product) error {
	return collect("", validate.Struct(p))
}

// ValidateProducts checks every element of a list. Violation paths are prefixed with the
// element index.
func ValidateProducts(ps []models.Product) error {
	var all Errors
	for i, p := range ps {
		err := collect(strconv.Itoa(i), validate.Struct(p))
		var errs Errors
		if errors.As(err, &errs) {
			all = append(all, errs...)
		} else if err != nil {
			return err
		}
	}
	if len(all) == 0 {
		return nil
	}
	return all
}

// ValidateInput checks a candidate record before it is sent upstream.
func ValidateInput(in models.ProductInput, mode Mode) error {
	var errs Errors
	switch mode {
	case Update:
		if in.ID <= 0 {
			errs = append(errs, Violation{Path: "id", Message: "must be a positive integer"})
		}
	case Create:
		if in.ID != 0 {
			errs = append(errs, Violation{Path: "id", Message: "must not be set when creating"})
		}
	}
	err := collect("", validate.Struct(in))
	var more Errors
	if errors.As(err, &more) {
		errs = append(errs, more...)
	} else if err != nil {
		return err
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateField checks a single form value against the field's constraints. Violations
// are reported under the field name.
func ValidateField(f Field, v any) error {
	if f.Constraints == "" {
		return nil
	}
	err := validate.Var(v, f.Constraints)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate %s: %w", f.Name, err)
	}
	out := make(Errors, len(verrs))
	for i, fe := range verrs {
		out[i] = Violation{Path: f.Name, Message: message(fe)}
	}
	return out
}

// FormatValidationErrors renders every violation as "path: message", comma separated.
func FormatValidationErrors(err error) string {
	var errs Errors
	if errors.As(err, &errs) {
		return errs.Error()
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		if converted, ok := collect("", verrs).(Errors); ok {
			return converted.Error()
		}
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

func collect(prefix string, err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}
	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		path := fe.Namespace()
		// drop the root struct name
		if i := strings.IndexByte(path, '.'); i >= 0 {
			path = path[i+1:]
		}
		if prefix != "" {
			path = prefix + "." + path
		}
		out = append(out, Violation{Path: path, Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "url":
		return "must be a valid URL"
	case "price":
		return fmt.Sprintf("must be a positive amount up to %d with at most two decimals", MaxPrice)
	case "category":
		names := make([]string, 0, 4)
		for _, c := range models.Categories() {
			names = append(names, string(c))
		}
		return "must be one of " + strings.Join(names, ", ")
	default:
		return fmt.Sprintf("failed on %q", fe.Tag())
	}
}
