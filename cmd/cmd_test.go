package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/lukman83/vitrine/internal/models"
	"github.com/lukman83/vitrine/internal/platform"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Slim fit, cotton.", plainText("  Slim fit,\n cotton.  "))
	assert.Equal(t, "Great bag & strap", plainText("<p>Great <b>bag</b> &amp; strap</p>"))
	assert.Equal(t, "line one line two", plainText("line one<br/>line two"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdef...", truncate("abcdefghijkl", 9))
}

func TestPrintProductsTable(t *testing.T) {
	var buf bytes.Buffer
	printProductsTable(&buf, []models.Product{{
		ID: 3, Title: "SSD", Price: 109, Description: "Fast <i>drive</i>", Category: models.Electronics,
	}})
	assert.Contains(t, buf.String(), " 1. SSD")
	assert.Contains(t, buf.String(), "Price: $109.00  |  Category: Electronics  |  ID: 3")
	assert.Contains(t, buf.String(), "Fast drive")

	buf.Reset()
	printProductsTable(&buf, nil)
	assert.Equal(t, "No products found.\n", buf.String())
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "Error: fetch product 7 failed: 404 Not Found",
		errorMessage(platform.HTTPError(platform.OpGet, 7, 404)))
	assert.Equal(t, "Error: list products failed: 503 Service Unavailable (try again)",
		errorMessage(platform.HTTPError(platform.OpList, 0, 503)))
}

func TestParseIDArgs(t *testing.T) {
	ids, err := parseIDArgs([]string{"3", "1"})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1}, ids)

	_, err = parseIDArgs([]string{"0"})
	assert.ErrorContains(t, err, "must be a positive integer")
}

func TestApplyProductFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"id":99,"title":"From File","category":"jewelery"}`), 0o644))

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	addProductFlags(fs)
	require.NoError(t, fs.Parse([]string{"--file", path, "--price", "$12.34", "--title", "From Flag"}))

	in, err := applyProductFlags(fs, models.ProductInput{ID: 5, Image: "https://example.com/x.png"})
	require.NoError(t, err)
	assert.Equal(t, 5, in.ID)
	assert.Equal(t, "From Flag", in.Title)
	assert.Equal(t, 12.34, in.Price)
	assert.Equal(t, models.Jewelery, in.Category)
	assert.Equal(t, "https://example.com/x.png", in.Image)
}

func TestCheckProductFlags(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	addProductFlags(fs)
	require.NoError(t, fs.Parse([]string{"--title", "ab", "--price", "0", "--category", "all"}))

	err := checkProductFlags(fs, platform.OpUpdate, 4)
	var fe *platform.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, platform.KindValidation, fe.Kind)
	assert.Contains(t, fe.Message, "title: must be at least 3 characters")
	assert.Contains(t, fe.Message, "price: ")
	assert.Contains(t, fe.Message, "category: must be one of")
	assert.NotContains(t, fe.Message, "image")

	ok := pflag.NewFlagSet("test", pflag.ContinueOnError)
	addProductFlags(ok)
	require.NoError(t, ok.Parse([]string{"--title", "Backpack", "--price", "1999"}))
	assert.NoError(t, checkProductFlags(ok, platform.OpCreate, 0))
}
