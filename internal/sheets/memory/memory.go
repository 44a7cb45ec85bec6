// Package memory is an in-process SnapshotMirror for local runs and
// tests where no spreadsheet is available.
package memory

import (
	"context"
	"sync"

	ports "rentbook/internal/sheets"
)

type Mirror struct {
	mu   sync.Mutex
	tabs map[string][][]any
}

var _ ports.SnapshotMirror = (*Mirror)(nil)

func New() *Mirror {
	return &Mirror{tabs: make(map[string][][]any)}
}

func (m *Mirror) ReplaceRows(_ context.Context, tab string, header []string, rows [][]any) error {
	values := make([][]any, 0, len(rows)+1)
	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	values = append(values, headerRow)
	values = append(values, rows...)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.tabs[tab] = values
	return nil
}

// Rows returns the current contents of a tab, header row included.
func (m *Mirror) Rows(tab string) [][]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, ok := m.tabs[tab]
	if !ok {
		return nil
	}
	out := make([][]any, len(rows))
	copy(out, rows)
	return out
}
