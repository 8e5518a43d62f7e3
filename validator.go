package colmatch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nao1215/colmatch/driver"
)

// validator checks a Request before any file is read or written
type validator struct{}

// newValidator creates a new validator instance
func newValidator() *validator {
	return &validator{}
}

// validateRequest validates the input, output and, when exporting, the sink
func (v *validator) validateRequest(req Request) error {
	if err := v.validateInputPath(req.FilePath); err != nil {
		return err
	}
	if err := v.validateOutputPath(req.OutputFile); err != nil {
		return err
	}
	if req.ExportToDB {
		return v.validateSink(req.DBPath, req.TableName)
	}
	return nil
}

// validateInputPath checks that path is set and has a loadable extension.
// Existence is left to Load so a missing file reports ErrFileNotFound.
func (v *validator) validateInputPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: input file path is empty", ErrInvalidRequest)
	}
	if !IsSupportedFile(path) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	return nil
}

// validateOutputPath checks that path is set, writable as a format and
// that its directory exists
func (v *validator) validateOutputPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: output file path is empty", ErrInvalidRequest)
	}

	if !canEncode(path) {
		return fmt.Errorf("%w: compression is not supported for writing: %s", ErrUnsupportedFormat, path)
	}

	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: output directory does not exist: %s", ErrInvalidRequest, dir)
		}
		return fmt.Errorf("failed to check output directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: output path exists but is not a directory: %s", ErrInvalidRequest, dir)
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return fmt.Errorf("%w: output path is a directory: %s", ErrInvalidRequest, path)
	}
	return nil
}

// validateSink checks the database and table arguments without connecting
func (v *validator) validateSink(dsn, tableName string) error {
	if strings.TrimSpace(dsn) == "" {
		return fmt.Errorf("%w: database is required when exporting", ErrInvalidRequest)
	}
	if err := driver.ValidateIdentifier(tableName); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTableName, err)
	}
	return nil
}
