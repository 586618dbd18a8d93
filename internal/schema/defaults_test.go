package schema

import (
	"reflect"
	"strings"
	"testing"

	"github.com/lukman83/vitrine/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDefaults_Empty(t *testing.T) {
	got := BuildDefaults(ProductCreateFields, nil)

	assert.Equal(t, map[string]any{
		"title":       "",
		"price":       0,
		"description": "",
		"category":    nil,
		"image":       "",
	}, got)
}

func TestBuildDefaults_RawWins(t *testing.T) {
	got := BuildDefaults(ProductEditFields, map[string]any{
		"id":    7,
		"title": "Gold Necklace",
	})

	assert.Equal(t, 7, got["id"])
	assert.Equal(t, "Gold Necklace", got["title"])
	assert.Equal(t, 0, got["price"])
}

func TestBuildDefaults_MonetaryStringAndNested(t *testing.T) {
	fields := []Field{
		{Name: "totalValue", Kind: String},
		{Name: "active", Kind: Bool},
		{Name: "tags", Kind: List},
		{Name: "shop", Kind: Object, Fields: []Field{{Name: "name", Kind: String}}},
	}

	got := BuildDefaults(fields, map[string]any{
		"shop": map[string]any{"name": "Acme"},
	})

	assert.Equal(t, "$ 0,00", got["totalValue"])
	assert.Equal(t, false, got["active"])
	assert.Equal(t, []any{}, got["tags"])
	assert.Equal(t, map[string]any{"name": "Acme"}, got["shop"])
}

func TestFieldConstraintsMatchStructTags(t *testing.T) {
	tags := map[string]string{}
	for _, typ := range []reflect.Type{reflect.TypeOf(models.ProductInput{}), reflect.TypeOf(models.Product{})} {
		for i := 0; i < typ.NumField(); i++ {
			sf := typ.Field(i)
			name := strings.SplitN(sf.Tag.Get("json"), ",", 2)[0]
			if v := sf.Tag.Get("validate"); v != "" {
				tags[name] = v
			}
		}
	}

	for _, f := range ProductEditFields {
		assert.Equal(t, tags[f.Name], f.Constraints, f.Name)
	}
}

func TestValidateField(t *testing.T) {
	title, ok := FieldByName(ProductCreateFields, "title")
	require.True(t, ok)
	assert.NoError(t, ValidateField(title, "Backpack"))
	assert.EqualError(t, ValidateField(title, "ab"), "title: must be at least 3 characters")
	assert.EqualError(t, ValidateField(title, ""), "title: Required")

	price, _ := FieldByName(ProductCreateFields, "price")
	assert.NoError(t, ValidateField(price, 19.99))
	assert.Error(t, ValidateField(price, 0.0))
	assert.Error(t, ValidateField(price, 1.999))

	category, _ := FieldByName(ProductCreateFields, "category")
	assert.NoError(t, ValidateField(category, models.Jewelery))
	assert.Error(t, ValidateField(category, models.AllCategories))

	image, _ := FieldByName(ProductCreateFields, "image")
	assert.EqualError(t, ValidateField(image, "not a url"), "image: must be a valid URL")

	_, ok = FieldByName(ProductCreateFields, "id")
	assert.False(t, ok)
	assert.NoError(t, ValidateField(Field{Name: "free", Kind: String}, ""))
}
