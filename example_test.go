package colmatch_test

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/nao1215/colmatch"
	"github.com/nao1215/colmatch/config"
	"github.com/nao1215/colmatch/internal/logging"
)

// ExamplePipeline_Run normalizes a CSV report against the default reference
// schema and writes the matching columns to a new CSV file.
func ExamplePipeline_Run() {
	tmpDir, err := os.MkdirTemp("", "colmatch_example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	input := filepath.Join(tmpDir, "report.csv")
	content := "Day,Unique Clicks,Campaign,Cost\n2023-01-01,10,spring,1.5\n2023-01-02,12,spring,2.25\n"
	if err := os.WriteFile(input, []byte(content), 0o600); err != nil {
		log.Fatal(err)
	}
	output := filepath.Join(tmpDir, "normalized.csv")

	p := colmatch.NewPipeline(config.Default()).
		WithOutput(io.Discard).
		WithLogger(logging.Discard())
	req := colmatch.NewRequest(input, "", "", output).WithExportToDB(false)

	result, err := p.Run(context.Background(), req)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("matched:", result.Existing)
	fmt.Println("dropped:", result.NotExisting)

	data, err := os.ReadFile(output) //nolint:gosec // example file
	if err != nil {
		log.Fatal(err)
	}
	fmt.Print(string(data))

	// Output:
	// matched: [DAY UNIQUE_CLICKS COST]
	// dropped: [CAMPAIGN]
	// DAY,UNIQUE_CLICKS,COST
	// 2023-01-01,10,1.5
	// 2023-01-02,12,2.25
}

// ExampleCanonicalName shows how raw header cells are rewritten.
func ExampleCanonicalName() {
	fmt.Println(colmatch.CanonicalName("unique clicks"))
	fmt.Println(colmatch.CanonicalName("Name of File"))
	// Output:
	// UNIQUE_CLICKS
	// NAME_OF_FILE
}
