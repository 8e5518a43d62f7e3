// Command colmatch normalizes the columns of a report file against a
// reference schema, writes the result to a file and appends it to a
// database table.
//
//	colmatch --file report.xlsx --db warehouse.db --table report --output normalized.csv
package main

import (
	"context"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
