// Package colmatch loads tabular report files, rewrites their column names to
// match a reference schema, and writes the matching columns to a file and,
// optionally, to an existing database table.
//
// A run has five steps:
//
//  1. Load reads the input (CSV, TSV, LTSV, XLS or XLSX, optionally
//     compressed) into a table. The first row is the header.
//  2. Normalizer upper-cases every column name and replaces spaces with
//     underscores. With ChangeColName set it also applies rename rules such as
//     "total actions" -> ACTION_NAME or any date-valued column -> DAY.
//  3. Reconcile splits the columns into the ones the schema knows and the rest;
//     Project keeps the known ones in schema order.
//  4. SaveTable writes the result. The format follows the output extension.
//  5. InsertTable appends the rows to a table through a DSN (SQLite path,
//     postgres:// or mysql://).
//
// # Basic Usage
//
//	cfg := config.Default()
//	req := colmatch.NewRequest("report.xlsx", "warehouse.db", "report", "normalized.csv")
//
//	result, err := colmatch.Process(ctx, cfg, req)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Existing, result.RowsInserted)
//
// # Output Formats
//
// The output extension selects the writer:
//   - ".csv" and unknown extensions write CSV
//   - ".tsv" and ".ltsv" write tab separated and labeled data
//   - ".xlsx" writes a single sheet workbook
//   - ".parquet" writes a Parquet file with INT64, DOUBLE and UTF8 columns
//   - a trailing ".gz", ".xz" or ".zst" compresses the output
//
// # Database Insert
//
// The target table must already exist and have every output column. Rows are
// inserted in one transaction; on failure nothing is kept and the error wraps
// ErrDataSink. The output file is always written before the database step.
package colmatch
