// Package validation checks audit input files before the pipeline
// touches them.
package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"otta/internal/errors"
)

// MaxInputFileSize caps input files at 512 MiB.
const MaxInputFileSize = 512 << 20

// InputValidator validates audit input files.
type InputValidator struct {
	logger *slog.Logger
}

// NewInputValidator creates a new input validator.
func NewInputValidator(logger *slog.Logger) *InputValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &InputValidator{logger: logger}
}

// ValidateTableFile checks a shipment or tariff file: it must exist, be a
// regular file of a supported format, and fit the size cap.
func (v *InputValidator) ValidateTableFile(label, path string) error {
	return v.validate(label, path, []string{".xlsx", ".csv"})
}

// ValidateCSVFile checks an exclusion or remap file. An empty path is
// fine; these inputs are optional.
func (v *InputValidator) ValidateCSVFile(label, path string) error {
	if path == "" {
		return nil
	}
	return v.validate(label, path, []string{".csv"})
}

func (v *InputValidator) validate(label, path string, extensions []string) error {
	if path == "" {
		return errors.NewValidationError(fmt.Sprintf("%s file path is empty", label))
	}

	ext := strings.ToLower(filepath.Ext(path))
	supported := false
	for _, e := range extensions {
		if ext == e {
			supported = true
			break
		}
	}
	if !supported {
		return errors.NewValidationError(fmt.Sprintf(
			"%s file %s has unsupported format %q, expected %s",
			label, filepath.Base(path), ext, strings.Join(extensions, " or ")))
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("input file does not exist",
			slog.String("label", label),
			slog.String("path", path))
		return errors.NewNotFoundError(fmt.Sprintf("%s file %s", label, path))
	}
	if err != nil {
		return errors.NewStorageError(fmt.Sprintf("failed to stat %s file", label), err)
	}
	if info.IsDir() {
		return errors.NewValidationError(fmt.Sprintf("%s path %s is a directory", label, path))
	}
	if info.Size() > MaxInputFileSize {
		v.logger.Error("input file exceeds size cap",
			slog.String("label", label),
			slog.String("path", path),
			slog.Int64("size", info.Size()))
		return errors.NewValidationError(fmt.Sprintf(
			"%s file %s exceeds the %d MiB limit", label, filepath.Base(path), MaxInputFileSize>>20))
	}

	return nil
}
