package excel

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"prodinsight/domain/product"
	"prodinsight/internal"
	"prodinsight/internal/errors"

	"github.com/xuri/excelize/v2"
)

const utf8BOM = "\ufeff"

// DataReader handles reading Excel and CSV product exports
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	logger   *internal.Logger
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(filePath string, logger *internal.Logger) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DataReader{filePath: filePath, fileType: fileType, logger: logger}
}

// ReadDataset reads the input file and maps every data row to a RawRecord
func (r *DataReader) ReadDataset() (*Dataset, error) {
	r.logger.Info("[DataReader] Starting to read %s file: %s", r.fileType, r.filePath)

	info, err := os.Stat(r.filePath)
	if os.IsNotExist(err) {
		return nil, errors.InputNotFound(r.filePath)
	}
	if err != nil {
		return nil, errors.WithCode(errors.CodeInputMalformed, err)
	}
	if info.IsDir() {
		return nil, errors.InputMalformed("input path is a directory: " + r.filePath)
	}

	var rows [][]string
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	default:
		rows, err = r.readExcelRows()
	}
	if err != nil {
		return nil, err
	}

	return r.processRows(rows)
}

// readExcelRows reads Sheet1, falling back to the first sheet of the workbook
func (r *DataReader) readExcelRows() ([][]string, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.Wrap(errors.WithCode(errors.CodeInputMalformed, err), "failed to open Excel file")
	}
	defer f.Close()

	sheet := "Sheet1"
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.InputMalformed("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(errors.WithCode(errors.CodeInputMalformed, err), "failed to read sheet %s", sheet)
	}
	r.logger.Debug("[DataReader] %s read in %.2fms (%d rows)", sheet, float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))
	return rows, nil
}

// readCSVRows reads all CSV rows tolerating ragged lines and stray quotes
func (r *DataReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.Wrap(errors.WithCode(errors.CodeInputMalformed, err), "failed to open CSV file")
	}
	defer file.Close()

	return readCSV(file, r.logger)
}

func readCSV(src io.Reader, logger *internal.Logger) ([][]string, error) {
	reader := csv.NewReader(src)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.WithCode(errors.CodeInputMalformed, err), "failed to read CSV file")
	}
	logger.Debug("[DataReader] CSV file read in %.2fms (%d rows)", float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))
	return rows, nil
}

// processRows validates the header and converts data rows into RawRecords
func (r *DataReader) processRows(rows [][]string) (*Dataset, error) {
	if len(rows) == 0 {
		return nil, errors.InputMalformed("input file is empty")
	}

	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	index := make(map[string]int, len(headerRow))
	for i, header := range headerRow {
		if i == 0 {
			header = strings.TrimPrefix(header, utf8BOM)
		}
		headers[i] = strings.TrimSpace(header)
		if _, dup := index[headers[i]]; !dup && headers[i] != "" {
			index[headers[i]] = i
		}
	}

	var missing []string
	for _, col := range product.RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, errors.InputMalformed("missing required columns: " + strings.Join(missing, ", "))
	}
	if len(rows) < 2 {
		return nil, errors.InputMalformed("input file must have a header row and at least one data row")
	}

	_, hasReviewTitle := index[product.ColumnReviewTitle]

	records := make([]product.RawRecord, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if isBlankRow(row) {
			continue
		}
		cell := func(col string) *string {
			j, ok := index[col]
			if !ok || j >= len(row) {
				return nil
			}
			return product.Str(strings.TrimSpace(row[j]))
		}
		records = append(records, product.RawRecord{
			ProductID:          cell(product.ColumnProductID),
			ProductName:        cell(product.ColumnProductName),
			Category:           cell(product.ColumnCategory),
			DiscountedPrice:    cell(product.ColumnDiscountedPrice),
			ActualPrice:        cell(product.ColumnActualPrice),
			DiscountPercentage: cell(product.ColumnDiscountPercentage),
			Rating:             cell(product.ColumnRating),
			RatingCount:        cell(product.ColumnRatingCount),
			ReviewTitle:        cell(product.ColumnReviewTitle),
		})
	}

	if len(records) == 0 {
		return nil, errors.InputMalformed("input file has no data rows")
	}

	r.logger.Info("[DataReader] %s file processed (%d columns, %d rows, review_title=%t)",
		strings.ToUpper(r.fileType), len(headers), len(records), hasReviewTitle)

	return &Dataset{
		Headers:        headers,
		Records:        records,
		HasReviewTitle: hasReviewTitle,
		Format:         r.fileType,
	}, nil
}

// Row returns the trimmed cells of a record keyed by header, mostly for diagnostics
func (d *Dataset) Row(i int) RawRowData {
	if i < 0 || i >= len(d.Records) {
		return nil
	}
	rec := d.Records[i]
	row := RawRowData{
		product.ColumnProductID:          product.Deref(rec.ProductID),
		product.ColumnProductName:        product.Deref(rec.ProductName),
		product.ColumnCategory:           product.Deref(rec.Category),
		product.ColumnDiscountedPrice:    product.Deref(rec.DiscountedPrice),
		product.ColumnActualPrice:        product.Deref(rec.ActualPrice),
		product.ColumnDiscountPercentage: product.Deref(rec.DiscountPercentage),
		product.ColumnRating:             product.Deref(rec.Rating),
		product.ColumnRatingCount:        product.Deref(rec.RatingCount),
	}
	if d.HasReviewTitle {
		row[product.ColumnReviewTitle] = product.Deref(rec.ReviewTitle)
	}
	return row
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
