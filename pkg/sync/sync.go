// Package sync reconciles declared model descriptors against live database
// structure. Reconcile mode creates missing tables and never alters existing
// ones; Force mode drops and recreates every known table, discarding rows.
//
// A failed sync stops at the first DDL error and performs no rollback;
// tables changed before the failure keep their new state and the caller
// re-invokes Sync after remediation.
package sync

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/leapstack-labs/modelsync/pkg/adapter"
	"github.com/leapstack-labs/modelsync/pkg/model"
)

// Mode selects how Sync treats existing structure.
type Mode int

const (
	// ModeReconcile creates missing tables only.
	ModeReconcile Mode = iota
	// ModeForce drops and recreates every known table. Irreversible.
	ModeForce
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeReconcile:
		return "reconcile"
	case ModeForce:
		return "force"
	default:
		return "unknown"
	}
}

// Result summarizes one sync run.
type Result struct {
	ID          string
	Mode        Mode
	Created     []string
	Dropped     []string
	Skipped     []string
	StartedAt   time.Time
	CompletedAt time.Time
}

// Synchronizer reconciles a model registry against one database connection.
// It issues one blocking statement at a time and starts no goroutines.
type Synchronizer struct {
	conn     adapter.Adapter
	registry *model.Registry
	logger   *slog.Logger
}

// New creates a synchronizer for the given connection and registry.
// If logger is nil, a discard logger is used.
func New(conn adapter.Adapter, registry *model.Registry, logger *slog.Logger) *Synchronizer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Synchronizer{conn: conn, registry: registry, logger: logger}
}

// Plan computes the operations Sync would execute without touching the
// database structure.
func (s *Synchronizer) Plan(ctx context.Context, mode Mode) (*Plan, error) {
	descriptors := s.registry.All()

	tables := make([]string, 0, len(descriptors))
	for _, d := range descriptors {
		tables = append(tables, d.Table())
	}

	snap, err := TakeSnapshot(ctx, s.conn, tables)
	if err != nil {
		return nil, err
	}

	s.reportDrift(descriptors, snap)

	return buildPlan(descriptors, snap, mode, s.conn.DialectName())
}

// Sync makes the database match the registry's descriptors. Any DDL error
// aborts the run with a SyncError naming the failing table.
func (s *Synchronizer) Sync(ctx context.Context, mode Mode) (*Result, error) {
	result := &Result{
		ID:        uuid.New().String(),
		Mode:      mode,
		StartedAt: time.Now().UTC(),
	}

	plan, err := s.Plan(ctx, mode)
	if err != nil {
		return nil, err
	}
	result.Skipped = plan.Skipped

	for _, op := range plan.Ops {
		s.logger.Debug("executing ddl",
			slog.String("run", result.ID),
			slog.String("op", string(op.Type)),
			slog.String("table", op.Table))

		if err := s.conn.Exec(ctx, op.SQL); err != nil {
			return nil, &SyncError{Table: op.Table, Err: err}
		}

		switch op.Type {
		case OpCreateTable:
			result.Created = append(result.Created, op.Table)
		case OpDropTable:
			result.Dropped = append(result.Dropped, op.Table)
		}
	}

	result.CompletedAt = time.Now().UTC()
	s.logger.Info("sync complete",
		slog.String("run", result.ID),
		slog.String("mode", mode.String()),
		slog.Int("created", len(result.Created)),
		slog.Int("dropped", len(result.Dropped)),
		slog.Int("skipped", len(result.Skipped)))
	return result, nil
}

// reportDrift logs columns that differ between an existing table and its
// descriptor. Reconcile mode leaves such tables alone, so surfacing drift
// in the log is the only signal the operator gets.
func (s *Synchronizer) reportDrift(descriptors []*model.Descriptor, snap *Snapshot) {
	for _, d := range descriptors {
		meta, ok := snap.Tables[d.Table()]
		if !ok || len(meta.Columns) == 0 {
			continue
		}

		live := make(map[string]struct{}, len(meta.Columns))
		for _, c := range meta.Columns {
			live[c.Name] = struct{}{}
		}

		for _, f := range d.Fields() {
			if _, ok := live[f.Name]; !ok {
				s.logger.Warn("declared field missing from live table",
					slog.String("model", d.Name()),
					slog.String("table", d.Table()),
					slog.String("field", f.Name))
			}
		}
	}
}
