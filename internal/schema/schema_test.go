package schema

import (
	"strings"
	"testing"

	"github.com/lukman83/vitrine/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProduct() models.Product {
	return models.Product{
		ID:          1,
		Title:       "Smartphone XYZ",
		Price:       299.99,
		Description: "A phone with a very good camera.",
		Category:    models.Electronics,
		Image:       "https://example.com/phone.png",
	}
}

func TestValidateProduct_Valid(t *testing.T) {
	assert.NoError(t, ValidateProduct(validProduct()))
}

func TestValidateProduct_ReportsEveryField(t *testing.T) {
	p := models.Product{
		ID:          0,
		Title:       "ab",
		Price:       -1,
		Description: "short",
		Category:    "toys",
		Image:       "not a url",
	}

	err := ValidateProduct(p)
	require.Error(t, err)

	var errs Errors
	require.ErrorAs(t, err, &errs)
	paths := make([]string, len(errs))
	for i, v := range errs {
		paths[i] = v.Path
	}
	assert.ElementsMatch(t, []string{"id", "title", "price", "description", "category", "image"}, paths)

	msg := FormatValidationErrors(err)
	assert.Contains(t, msg, "title: must be at least 3 characters")
	assert.True(t, strings.HasPrefix(msg, "id: Required, title: "))
	assert.True(t, strings.HasSuffix(msg, ", image: must be a valid URL"))
}

func TestValidateProducts_PrefixesIndex(t *testing.T) {
	bad := validProduct()
	bad.Price = 0
	err := ValidateProducts([]models.Product{validProduct(), bad})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(FormatValidationErrors(err), "1.price: "))
}

func TestValidateProducts_Empty(t *testing.T) {
	assert.NoError(t, ValidateProducts(nil))
}

func TestValidPrice(t *testing.T) {
	tests := []struct {
		price float64
		want  bool
	}{
		{0.01, true},
		{19.99, true},
		{999999, true},
		{0, false},
		{-5, false},
		{1000000, false},
		{1.234, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidPrice(tt.price), "price %v", tt.price)
	}
}

func TestValidateInput_Modes(t *testing.T) {
	in := validProduct().Input()

	assert.NoError(t, ValidateInput(in, Update))
	err := ValidateInput(in, Create)
	require.Error(t, err)
	assert.Contains(t, FormatValidationErrors(err), "id: must not be set when creating")

	in.ID = 0
	assert.NoError(t, ValidateInput(in, Create))
	err = ValidateInput(in, Update)
	require.Error(t, err)
	assert.Contains(t, FormatValidationErrors(err), "id: must be a positive integer")
}

func TestValidateInput_Category(t *testing.T) {
	in := validProduct().Input()
	in.ID = 0
	in.Category = models.AllCategories
	err := ValidateInput(in, Create)
	require.Error(t, err)
	assert.Contains(t, FormatValidationErrors(err), "category: must be one of electronics, jewelery, men's clothing, women's clothing")
}

func TestFormatValidationErrors_Nil(t *testing.T) {
	assert.Equal(t, "", FormatValidationErrors(nil))
}
