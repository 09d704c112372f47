package excel

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"prodinsight/domain/product"
	"prodinsight/internal"
	"prodinsight/internal/errors"
	"prodinsight/internal/productgen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "product_id,product_name,category,discounted_price,actual_price,discount_percentage,rating,rating_count"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadDataset_CSV(t *testing.T) {
	content := "\ufeff" + header + ",review_title\n" +
		`B07JW9H4J1,Wayona Cable,Computers&Accessories|Cables|USBCables,"₹1,299","₹2,599",50%,4.3,"12,456","Good,Nice"` + "\n" +
		`B098NS6PVG, Ambrane Cable ,,,₹349,,|,,` + "\n"
	path := writeFile(t, "products.csv", content)

	ds, err := NewDataReader(path, internal.Discard()).ReadDataset()
	require.NoError(t, err)

	assert.Equal(t, "csv", ds.Format)
	assert.True(t, ds.HasReviewTitle)
	assert.Equal(t, product.ColumnProductID, ds.Headers[0])
	require.Equal(t, 2, ds.Len())

	first := ds.Records[0]
	assert.Equal(t, "₹1,299", *first.DiscountedPrice)
	assert.Equal(t, "12,456", *first.RatingCount)
	assert.Equal(t, "Good,Nice", *first.ReviewTitle)

	second := ds.Records[1]
	assert.Equal(t, "Ambrane Cable", *second.ProductName)
	assert.Nil(t, second.Category)
	assert.Nil(t, second.DiscountedPrice)
	assert.Equal(t, "|", *second.Rating)
	assert.Nil(t, second.RatingCount)
	assert.Nil(t, second.ReviewTitle)

	row := ds.Row(0)
	assert.Equal(t, "B07JW9H4J1", row[product.ColumnProductID])
	assert.Nil(t, ds.Row(5))
}

func TestReadDataset_RaggedRowsAndBlankLines(t *testing.T) {
	content := header + "\n" +
		"A1,Name,Cat,100\n" +
		",,,,,,,\n" +
		"A2,Name,Cat,100,200,50%,4.0,10,extra\n"
	path := writeFile(t, "ragged.csv", content)

	ds, err := NewDataReader(path, internal.Discard()).ReadDataset()
	require.NoError(t, err)
	assert.False(t, ds.HasReviewTitle)
	require.Equal(t, 2, ds.Len())
	assert.Nil(t, ds.Records[0].Rating)
	assert.Equal(t, "10", *ds.Records[1].RatingCount)
}

func TestReadDataset_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := NewDataReader(filepath.Join(t.TempDir(), "nope.csv"), internal.Discard()).ReadDataset()
		require.Error(t, err)
		assert.Equal(t, errors.CodeInputNotFound, errors.GetCode(err))
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeFile(t, "empty.csv", "")
		_, err := NewDataReader(path, internal.Discard()).ReadDataset()
		require.Error(t, err)
		assert.Equal(t, errors.CodeInputMalformed, errors.GetCode(err))
	})

	t.Run("header only", func(t *testing.T) {
		path := writeFile(t, "header.csv", header+"\n")
		_, err := NewDataReader(path, internal.Discard()).ReadDataset()
		require.Error(t, err)
		assert.Equal(t, errors.CodeInputMalformed, errors.GetCode(err))
	})

	t.Run("missing required column", func(t *testing.T) {
		path := writeFile(t, "cols.csv", strings.Replace(header, ",rating_count", "", 1)+"\nA,B,C,1,2,3,4\n")
		_, err := NewDataReader(path, internal.Discard()).ReadDataset()
		require.Error(t, err)
		assert.Equal(t, errors.CodeInputMalformed, errors.GetCode(err))
		assert.Contains(t, err.Error(), "rating_count")
	})

	t.Run("corrupt workbook", func(t *testing.T) {
		path := writeFile(t, "broken.xlsx", "not a zip archive")
		_, err := NewDataReader(path, internal.Discard()).ReadDataset()
		require.Error(t, err)
		assert.Equal(t, errors.CodeInputMalformed, errors.GetCode(err))
	})
}

func TestReadDataset_XLSXMatchesCSV(t *testing.T) {
	cfg := productgen.DefaultConfig()
	cfg.Rows = 25
	gen, err := productgen.Generate(cfg)
	require.NoError(t, err)

	dir := t.TempDir()
	csvPath := filepath.Join(dir, "products.csv")
	xlsxPath := filepath.Join(dir, "products.xlsx")
	require.NoError(t, productgen.WriteCSV(csvPath, gen))
	require.NoError(t, productgen.WriteXLSX(xlsxPath, gen))

	fromCSV, err := NewDataReader(csvPath, internal.Discard()).ReadDataset()
	require.NoError(t, err)
	fromXLSX, err := NewDataReader(xlsxPath, internal.Discard()).ReadDataset()
	require.NoError(t, err)

	assert.Equal(t, "xlsx", fromXLSX.Format)
	assert.Equal(t, fromCSV.Headers, fromXLSX.Headers)
	assert.Equal(t, fromCSV.Records, fromXLSX.Records)
}
