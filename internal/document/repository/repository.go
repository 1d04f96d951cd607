// Package repository holds the row store backends. Every backend exposes the same
// two calls, AppendRow and ReadRows, and returns the header row at index 0.
package repository

import (
	"errors"
	"fmt"

	"github.com/swetasamaddar-clear/document-finder/internal/document"
)

// Backend names, used as metric labels.
const (
	BackendSheets = "sheets"
	BackendMongo  = "mongo"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

const (
	OpAppend = "append"
	OpRead   = "read"
)

var ErrInvalidRow = errors.New("invalid row")

func validateRow(row []string) error {
	if len(row) != document.NumColumns {
		return fmt.Errorf("%w: want %d fields, got %d", ErrInvalidRow, document.NumColumns, len(row))
	}
	return nil
}
