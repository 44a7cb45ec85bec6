package sheets

import "context"

// SnapshotMirror replaces the full contents of a named tab with a
// header row followed by data rows. Snapshots mirror whole, never as
// diffs, so replacing the tab is the only write the worker needs.
type SnapshotMirror interface {
	ReplaceRows(ctx context.Context, tab string, header []string, rows [][]any) error
}
