package sync

import (
	"fmt"
	"strings"
)

// CycleError is returned when model references form a cycle; no DDL has
// been issued when it is raised.
type CycleError struct {
	Cycle []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("reference cycle between tables: %s", strings.Join(e.Cycle, " -> "))
}

// SyncError wraps a DDL failure with the table it happened on. Tables
// already created or dropped before the failure keep their new state; the
// caller decides remediation and re-invokes Sync.
type SyncError struct {
	Table string
	Err   error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync failed on table %q: %v", e.Table, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }
