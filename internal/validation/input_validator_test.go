package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"otta/internal/errors"
)

func writeFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("LOAD_ID\nL1\n"), 0o644))
	return path
}

func TestValidateTableFile(t *testing.T) {
	v := NewInputValidator(nil)

	t.Run("accepts csv", func(t *testing.T) {
		assert.NoError(t, v.ValidateTableFile("shipment", writeFile(t, "loads.csv")))
	})

	t.Run("accepts xlsx", func(t *testing.T) {
		assert.NoError(t, v.ValidateTableFile("tariff", writeFile(t, "rates.xlsx")))
	})

	t.Run("rejects unsupported extension", func(t *testing.T) {
		err := v.ValidateTableFile("shipment", writeFile(t, "loads.txt"))
		require.Error(t, err)
		var appErr *errors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, errors.ErrTypeValidation, appErr.Type)
		assert.Contains(t, err.Error(), "unsupported format")
	})

	t.Run("rejects missing file", func(t *testing.T) {
		err := v.ValidateTableFile("shipment", filepath.Join(t.TempDir(), "gone.csv"))
		require.Error(t, err)
		var appErr *errors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, errors.ErrTypeNotFound, appErr.Type)
	})

	t.Run("rejects empty path", func(t *testing.T) {
		assert.Error(t, v.ValidateTableFile("shipment", ""))
	})

	t.Run("rejects directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "loads.csv")
		require.NoError(t, os.Mkdir(dir, 0o755))
		err := v.ValidateTableFile("shipment", dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "is a directory")
	})
}

func TestValidateCSVFile(t *testing.T) {
	v := NewInputValidator(nil)

	t.Run("empty path is allowed", func(t *testing.T) {
		assert.NoError(t, v.ValidateCSVFile("exclusion", ""))
	})

	t.Run("accepts csv", func(t *testing.T) {
		assert.NoError(t, v.ValidateCSVFile("remap", writeFile(t, "remap.csv")))
	})

	t.Run("rejects xlsx", func(t *testing.T) {
		err := v.ValidateCSVFile("exclusion", writeFile(t, "skip.xlsx"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported format")
	})
}
