package repository

import (
	"context"
	"sync"

	"github.com/swetasamaddar-clear/document-finder/internal/document"
	"github.com/swetasamaddar-clear/document-finder/pkg/metrics"
)

// MemoryRepo is an in-process row log used for local development and unit tests.
// ReadRows prepends document.HeaderRow so it behaves like a sheet tab.
type MemoryRepo struct {
	mu   sync.RWMutex
	rows [][]string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (m *MemoryRepo) AppendRow(ctx context.Context, row []string) error {
	if err := validateRow(row); err != nil {
		metrics.ObserveStore(BackendMemory, OpAppend, err)
		return err
	}
	cp := append([]string(nil), row...)
	m.mu.Lock()
	m.rows = append(m.rows, cp)
	m.mu.Unlock()
	metrics.ObserveStore(BackendMemory, OpAppend, nil)
	return nil
}

func (m *MemoryRepo) ReadRows(ctx context.Context) ([][]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([][]string, 0, len(m.rows)+1)
	out = append(out, append([]string(nil), document.HeaderRow...))
	for _, r := range m.rows {
		out = append(out, append([]string(nil), r...))
	}
	metrics.ObserveStore(BackendMemory, OpRead, nil)
	return out, nil
}

// Len reports how many records have been appended.
func (m *MemoryRepo) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows)
}
