package colmatch

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/apache/arrow/go/v18/parquet"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
	"github.com/nao1215/colmatch/domain/model"
	"github.com/xuri/excelize/v2"
)

// OutputFormat represents the output file format
type OutputFormat int

const (
	// OutputFormatCSV represents CSV output format
	OutputFormatCSV OutputFormat = iota
	// OutputFormatTSV represents TSV output format
	OutputFormatTSV
	// OutputFormatLTSV represents LTSV output format
	OutputFormatLTSV
	// OutputFormatParquet represents Parquet output format
	OutputFormatParquet
	// OutputFormatXLSX represents Excel XLSX output format
	OutputFormatXLSX
)

// xlsxSheetName is the sheet the XLSX writer fills.
const xlsxSheetName = "Sheet1"

// Built-in spreadsheet number formats for datetime cells.
const (
	xlsxNumFmtDate     = 14 // m/d/yyyy
	xlsxNumFmtDateTime = 22 // m/d/yyyy h:mm
)

// String returns the string representation of OutputFormat
func (f OutputFormat) String() string {
	switch f {
	case OutputFormatTSV:
		return "tsv"
	case OutputFormatLTSV:
		return "ltsv"
	case OutputFormatParquet:
		return "parquet"
	case OutputFormatXLSX:
		return "xlsx"
	default:
		return "csv"
	}
}

// DetectOutputFormat picks the output format from the path extension,
// ignoring any compression suffix. Unknown extensions get CSV.
func DetectOutputFormat(path string) OutputFormat {
	base := trimCodecSuffix(path)

	switch strings.ToLower(filepath.Ext(base)) {
	case extTSV:
		return OutputFormatTSV
	case extLTSV:
		return OutputFormatLTSV
	case extParquet:
		return OutputFormatParquet
	case extXLSX:
		return OutputFormatXLSX
	default:
		return OutputFormatCSV
	}
}

// SaveTable writes t to path, header first and without an index column,
// replacing any existing file. The format and compression follow the path
// extension (see DetectOutputFormat and codecs).
func SaveTable(t *model.Table, path string) error {
	ec := NewErrorContext("save", path).WithTable(t.Name())
	format := DetectOutputFormat(path)

	w, err := createEncoded(path)
	if err != nil {
		return ec.Error(err)
	}

	if err := writeTable(w, t, format); err != nil {
		_ = w.Close()
		return ec.WithDetails(format.String()).Error(err)
	}
	if err := w.Close(); err != nil {
		return ec.Error(err)
	}
	return nil
}

// writeTable encodes t to w in the given format
func writeTable(w io.Writer, t *model.Table, format OutputFormat) error {
	switch format {
	case OutputFormatTSV:
		return writeDelimited(w, t, '\t')
	case OutputFormatLTSV:
		return writeLTSV(w, t)
	case OutputFormatParquet:
		return writeParquet(w, t)
	case OutputFormatXLSX:
		return writeXLSX(w, t)
	default:
		return writeDelimited(w, t, ',')
	}
}

// writeDelimited writes CSV or TSV
func writeDelimited(w io.Writer, t *model.Table, delimiter rune) error {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = delimiter

	if err := csvWriter.Write(t.Header()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, record := range t.Records() {
		if err := csvWriter.Write(record); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

// writeLTSV writes one label:value line per record
func writeLTSV(w io.Writer, t *model.Table) error {
	header := t.Header()
	for _, record := range t.Records() {
		pairs := make([]string, len(header))
		for i, label := range header {
			pairs[i] = label + ":" + record[i]
		}
		if _, err := io.WriteString(w, strings.Join(pairs, "\t")+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// writeXLSX writes the table to a single sheet. Numeric columns are stored
// as numbers and datetime columns as date serials, so spreadsheet tools see
// typed cells.
func writeXLSX(w io.Writer, t *model.Table) error {
	xlsxFile := excelize.NewFile()
	defer func() {
		_ = xlsxFile.Close()
	}()

	dateStyle, err := xlsxFile.NewStyle(&excelize.Style{NumFmt: xlsxNumFmtDate})
	if err != nil {
		return err
	}
	dateTimeStyle, err := xlsxFile.NewStyle(&excelize.Style{NumFmt: xlsxNumFmtDateTime})
	if err != nil {
		return err
	}

	sw, err := xlsxFile.NewStreamWriter(xlsxSheetName)
	if err != nil {
		return err
	}

	headerRow := make([]interface{}, t.ColumnCount())
	for i, name := range t.Header() {
		headerRow[i] = name
	}
	if err := sw.SetRow("A1", headerRow); err != nil {
		return err
	}

	info := t.ColumnInfo()
	for r, record := range t.Records() {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		row := make([]interface{}, len(record))
		for i, value := range record {
			v := info[i].Type.TypedValue(value)
			if tm, ok := v.(time.Time); ok {
				style := dateTimeStyle
				if tm.Equal(tm.Truncate(24 * time.Hour)) {
					style = dateStyle
				}
				v = excelize.Cell{StyleID: style, Value: tm}
			}
			row[i] = v
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	return xlsxFile.Write(w)
}

// writeParquet writes the table as one record batch. Integer, real and
// datetime columns get INT64, DOUBLE and TIMESTAMP(us); everything else is
// UTF8. Blank cells are null.
func writeParquet(w io.Writer, t *model.Table) error {
	if t.ColumnCount() == 0 {
		return errors.New("parquet output needs at least one column")
	}

	info := t.ColumnInfo()
	fields := make([]arrow.Field, len(info))
	for i, col := range info {
		fields[i] = arrow.Field{Name: col.Name, Type: arrowType(col.Type), Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	builder := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer builder.Release()

	for _, record := range t.Records() {
		for i, raw := range record {
			appendArrowValue(builder.Field(i), info[i].Type.TypedValue(raw))
		}
	}

	rec := builder.NewRecord()
	defer rec.Release()

	// the parquet writer closes its sink; the caller owns w
	fw, err := pqarrow.NewFileWriter(schema, struct{ io.Writer }{w}, parquet.NewWriterProperties(), pqarrow.DefaultWriterProps())
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	if err := fw.Write(rec); err != nil {
		_ = fw.Close()
		return fmt.Errorf("failed to write parquet record: %w", err)
	}
	return fw.Close()
}

// arrowType maps an inferred column type to an arrow type
func arrowType(ct model.ColumnType) arrow.DataType {
	switch ct {
	case model.ColumnTypeInteger:
		return arrow.PrimitiveTypes.Int64
	case model.ColumnTypeReal:
		return arrow.PrimitiveTypes.Float64
	case model.ColumnTypeDatetime:
		return arrow.FixedWidthTypes.Timestamp_us
	default:
		return arrow.BinaryTypes.String
	}
}

// appendArrowValue appends v, as produced by ColumnType.TypedValue, to b.
// Values that do not fit the column type are stored as null.
func appendArrowValue(b array.Builder, v any) {
	if v == nil {
		b.AppendNull()
		return
	}

	switch builder := b.(type) {
	case *array.Int64Builder:
		if n, ok := v.(int64); ok {
			builder.Append(n)
			return
		}
	case *array.Float64Builder:
		if f, ok := v.(float64); ok {
			builder.Append(f)
			return
		}
	case *array.TimestampBuilder:
		if tm, ok := v.(time.Time); ok {
			if ts, err := arrow.TimestampFromTime(tm, arrow.Microsecond); err == nil {
				builder.Append(ts)
				return
			}
		}
	case *array.StringBuilder:
		builder.Append(fmt.Sprint(v))
		return
	}
	b.AppendNull()
}
