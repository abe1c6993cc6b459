package sync

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/modelsync/pkg/adapter"
)

// Snapshot is the synchronizer's view of actual database structure. It is
// rebuilt on every sync call and never persisted.
type Snapshot struct {
	// Tables maps table name to its live structure. Only tables known to
	// the registry carry column metadata; unrelated tables are recorded by
	// name alone.
	Tables map[string]*adapter.TableMetadata
}

// Has reports whether a table exists in the snapshot.
func (s *Snapshot) Has(table string) bool {
	_, ok := s.Tables[table]
	return ok
}

// TakeSnapshot reads the live database structure. Column metadata is
// fetched only for the tables in describe, the ones the registry knows.
func TakeSnapshot(ctx context.Context, conn adapter.Adapter, describe []string) (*Snapshot, error) {
	tables, err := conn.ListTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}

	wanted := make(map[string]struct{}, len(describe))
	for _, t := range describe {
		wanted[t] = struct{}{}
	}

	snap := &Snapshot{Tables: make(map[string]*adapter.TableMetadata, len(tables))}
	for _, t := range tables {
		if _, ok := wanted[t]; !ok {
			snap.Tables[t] = &adapter.TableMetadata{Name: t}
			continue
		}
		meta, err := conn.TableMetadata(ctx, t)
		if err != nil {
			return nil, fmt.Errorf("describing table %s: %w", t, err)
		}
		snap.Tables[t] = meta
	}
	return snap, nil
}
