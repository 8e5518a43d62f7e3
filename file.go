package colmatch

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/extrame/xls"
	"github.com/nao1215/colmatch/domain/model"
	"github.com/xuri/excelize/v2"
)

// FileType represents supported input file types
type FileType int

const (
	// FileTypeCSV represents CSV file type
	FileTypeCSV FileType = iota
	// FileTypeTSV represents TSV file type
	FileTypeTSV
	// FileTypeLTSV represents LTSV file type
	FileTypeLTSV
	// FileTypeXLS represents legacy Excel (BIFF) file type
	FileTypeXLS
	// FileTypeXLSX represents Excel XLSX file type
	FileTypeXLSX
	// FileTypeUnsupported represents unsupported file type
	FileTypeUnsupported
)

// File extensions
const (
	extCSV     = ".csv"
	extTSV     = ".tsv"
	extLTSV    = ".ltsv"
	extXLS     = ".xls"
	extXLSX    = ".xlsx"
	extParquet = ".parquet"
)

// xlsCharset is the charset passed to the BIFF reader for 8-bit strings.
const xlsCharset = "utf-8"

// xlsMaxColumns is the BIFF8 column limit.
const xlsMaxColumns = 256

// utf8BOM is stripped from the first header cell of delimited files.
const utf8BOM = "\uFEFF"

// String returns the file type name
func (ft FileType) String() string {
	switch ft {
	case FileTypeCSV:
		return "csv"
	case FileTypeTSV:
		return "tsv"
	case FileTypeLTSV:
		return "ltsv"
	case FileTypeXLS:
		return "xls"
	case FileTypeXLSX:
		return "xlsx"
	default:
		return "unsupported"
	}
}

// DetectFileType detects the input file type from the path extension,
// ignoring case and any compression suffix.
func DetectFileType(path string) FileType {
	basePath := trimCodecSuffix(path)

	switch strings.ToLower(filepath.Ext(basePath)) {
	case extCSV:
		return FileTypeCSV
	case extTSV:
		return FileTypeTSV
	case extLTSV:
		return FileTypeLTSV
	case extXLS:
		return FileTypeXLS
	case extXLSX:
		return FileTypeXLSX
	default:
		return FileTypeUnsupported
	}
}

// IsSupportedFile checks if the file has a supported extension
func IsSupportedFile(path string) bool {
	return DetectFileType(path) != FileTypeUnsupported
}

// file represents an input file that can be converted to a table
type file struct {
	path       string
	fileType   FileType
	compressed bool
}

// newFile creates a new file
func newFile(path string) *file {
	return &file{
		path:       path,
		fileType:   DetectFileType(path),
		compressed: codecFor(path) != nil,
	}
}

// Load reads the file at path into a table. The parser is chosen by
// extension; the first row (or, for LTSV, the union of labels) becomes the
// header. Values are kept exactly as read.
func Load(path string) (*model.Table, error) {
	ec := NewErrorContext("load", path)

	f := newFile(path)
	if f.fileType == FileTypeUnsupported {
		return nil, ec.WithDetails("supported extensions are .csv, .tsv, .ltsv, .xls, .xlsx").Error(ErrUnsupportedFormat)
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ec.Error(ErrFileNotFound)
		}
		return nil, ec.Error(err)
	}
	if info.IsDir() {
		return nil, ec.WithDetails("path is a directory").Error(ErrUnsupportedFormat)
	}

	table, err := f.toTable()
	if err != nil {
		return nil, ec.WithDetails(f.fileType.String()).Error(err)
	}
	return table, nil
}

// toTable converts file to table structure
func (f *file) toTable() (*model.Table, error) {
	switch f.fileType {
	case FileTypeCSV:
		return f.parseDelimited(',')
	case FileTypeTSV:
		return f.parseDelimited('\t')
	case FileTypeLTSV:
		return f.parseLTSV()
	case FileTypeXLS:
		return f.parseXLS()
	case FileTypeXLSX:
		return f.parseXLSX()
	default:
		return nil, ErrUnsupportedFormat
	}
}

// readAll returns the decompressed file contents.
func (f *file) readAll() ([]byte, error) {
	reader, err := openDecoded(f.path)
	if err != nil {
		return nil, err
	}
	defer reader.Close() //nolint:errcheck // read-only

	return io.ReadAll(reader)
}

// parseDelimited parses CSV or TSV data with compression support
func (f *file) parseDelimited(delimiter rune) (*model.Table, error) {
	reader, err := openDecoded(f.path)
	if err != nil {
		return nil, err
	}
	defer reader.Close() //nolint:errcheck // read-only

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.FieldsPerRecord = -1 // short rows are padded below
	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrEmptyData
	}

	records[0][0] = strings.TrimPrefix(records[0][0], utf8BOM)
	header := newHeader(records[0])

	tableRecords := make([]model.Record, 0, len(records)-1)
	for i, row := range records[1:] {
		if len(row) > len(header) {
			// i is 0-based over data rows; +2 gives the 1-based line
			return nil, fmt.Errorf("line %d: expected %d fields, saw %d", i+2, len(header), len(row))
		}
		tableRecords = append(tableRecords, padRecord(row, len(header)))
	}

	return model.NewTable(model.TableFromFilePath(f.path), header, tableRecords), nil
}

// parseLTSV parses LTSV file with compression support. Labels become
// columns in order of first appearance.
func (f *file) parseLTSV() (*model.Table, error) {
	content, err := f.readAll()
	if err != nil {
		return nil, err
	}

	var header model.Header
	seen := make(map[string]int)
	var rows []map[string]string

	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		row := make(map[string]string)
		for _, pair := range strings.Split(line, "\t") {
			kv := strings.SplitN(pair, ":", 2)
			if len(kv) != 2 {
				continue
			}
			key := strings.TrimSpace(kv[0])
			row[key] = strings.TrimSpace(kv[1])
			if _, ok := seen[key]; !ok {
				seen[key] = len(header)
				header = append(header, key)
			}
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}

	if len(rows) == 0 {
		return nil, ErrEmptyData
	}

	records := make([]model.Record, 0, len(rows))
	for _, row := range rows {
		record := make(model.Record, len(header))
		for key, value := range row {
			record[seen[key]] = value
		}
		records = append(records, record)
	}

	return model.NewTable(model.TableFromFilePath(f.path), header, records), nil
}

// parseXLSX parses the first sheet of an XLSX file with compression support.
// Cells are read raw, so numbers keep their stored precision; cells styled
// with a date or time format are rendered as ISO text.
func (f *file) parseXLSX() (*model.Table, error) {
	var (
		xlsxFile *excelize.File
		err      error
	)

	opts := excelize.Options{RawCellValue: true}
	if f.compressed {
		// excelize needs random access, so compressed input is buffered
		data, err := f.readAll()
		if err != nil {
			return nil, err
		}
		xlsxFile, err = excelize.OpenReader(bytes.NewReader(data), opts)
		if err != nil {
			return nil, err
		}
	} else {
		xlsxFile, err = excelize.OpenFile(f.path, opts)
		if err != nil {
			return nil, err
		}
	}
	defer func() {
		_ = xlsxFile.Close() // Ignore close error
	}()

	sheetNames := xlsxFile.GetSheetList()
	if len(sheetNames) == 0 {
		return nil, fmt.Errorf("%w: no sheets found", ErrEmptyData)
	}

	sheetName := sheetNames[0]
	rows, err := xlsxFile.GetRows(sheetName, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %s is empty", ErrEmptyData, sheetName)
	}

	dates, err := newXLSXDateCells(xlsxFile, sheetName)
	if err != nil {
		return nil, err
	}
	for r, row := range rows {
		for c, value := range row {
			if value != "" {
				row[c] = dates.render(c, r, value)
			}
		}
	}

	header, records := convertSheetRowsToTable(rows)
	return model.NewTable(model.TableFromFilePath(f.path), header, records), nil
}

// parseXLS parses the first sheet of a legacy BIFF workbook
func (f *file) parseXLS() (*model.Table, error) {
	data, err := f.readAll()
	if err != nil {
		return nil, err
	}

	workbook, err := xls.OpenReader(bytes.NewReader(data), xlsCharset)
	if err != nil {
		return nil, err
	}
	if workbook == nil || workbook.NumSheets() == 0 {
		return nil, fmt.Errorf("%w: no sheets found", ErrEmptyData)
	}

	sheet := workbook.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("%w: no sheets found", ErrEmptyData)
	}

	var rows [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := xlsRow(sheet, i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		rows = append(rows, xlsRowValues(row))
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: sheet %s is empty", ErrEmptyData, sheet.Name)
	}

	header, records := convertSheetRowsToTable(rows)
	return model.NewTable(model.TableFromFilePath(f.path), header, records), nil
}

// xlsRow returns row i of sheet, or nil when the sheet stored nothing for it.
// WorkSheet.Row dereferences a missing row, so the panic is turned into nil.
func xlsRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}

// xlsRowValues reads the cells of row from column 0 up to its last cell.
// Rows built only from cell records carry no bounds, so every column the
// format allows is read and trailing blanks are dropped.
func xlsRowValues(row *xls.Row) []string {
	width := row.LastCol() // exclusive
	if width <= 0 {
		width = xlsMaxColumns
	}

	values := make([]string, width)
	for j := range values {
		values[j] = row.Col(j)
	}
	return trimTrailingBlanks(values)
}

// trimTrailingBlanks drops empty cells after the last non-empty one.
func trimTrailingBlanks(values []string) []string {
	n := len(values)
	for n > 0 && values[n-1] == "" {
		n--
	}
	return values[:n]
}

// convertSheetRowsToTable converts spreadsheet rows to table headers and records.
// First row becomes headers, remaining rows become records padded to the
// header width. A data cell right of the last header cell widens the header
// with "Unnamed: <index>" columns so no value is lost.
func convertSheetRowsToTable(rows [][]string) (model.Header, []model.Record) {
	if len(rows) == 0 {
		return nil, nil
	}

	width := len(rows[0])
	for _, row := range rows[1:] {
		width = max(width, len(row))
	}
	header := newHeader(padRecord(rows[0], width))

	var records []model.Record
	if len(rows) > 1 {
		records = make([]model.Record, len(rows)-1)
		for i, row := range rows[1:] {
			records[i] = padRecord(row, width)
		}
	}
	return header, records
}

// newHeader copies raw header cells. Blank cells are named "Unnamed: <index>"
// so every column stays addressable.
func newHeader(cells []string) model.Header {
	header := make(model.Header, len(cells))
	for i, c := range cells {
		if strings.TrimSpace(c) == "" {
			c = "Unnamed: " + strconv.Itoa(i)
		}
		header[i] = c
	}
	return header
}

// padRecord returns row extended with empty strings to width cells.
func padRecord(row []string, width int) model.Record {
	record := make(model.Record, width)
	copy(record, row)
	return record
}
