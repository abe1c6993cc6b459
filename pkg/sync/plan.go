package sync

import (
	"fmt"

	"github.com/leapstack-labs/modelsync/internal/dag"
	"github.com/leapstack-labs/modelsync/pkg/model"
)

// OpType identifies a planned DDL operation.
type OpType string

const (
	OpCreateTable OpType = "CREATE_TABLE"
	OpDropTable   OpType = "DROP_TABLE"
)

// Operation is one DDL statement the synchronizer will execute.
type Operation struct {
	Type  OpType
	Table string
	SQL   string
}

// Plan is the ordered list of operations a Sync call would execute, plus
// the tables it would leave alone.
type Plan struct {
	Mode    Mode
	Ops     []Operation
	Skipped []string
}

// buildPlan computes the operations for the given descriptors, snapshot and
// mode. Creation order respects references; force mode drops in reverse
// creation order before recreating everything.
func buildPlan(descriptors []*model.Descriptor, snap *Snapshot, mode Mode, dialect string) (*Plan, error) {
	byTable := make(map[string]*model.Descriptor, len(descriptors))
	g := dag.New()
	for _, d := range descriptors {
		byTable[d.Table()] = d
		g.AddNode(d.Table())
	}

	for _, d := range descriptors {
		for _, refModel := range d.References() {
			refTable := model.TableName(refModel)
			if _, ok := byTable[refTable]; !ok {
				return nil, fmt.Errorf("model %q references unknown model %q", d.Name(), refModel)
			}
			if refTable == d.Table() {
				// Self-references need no ordering edge.
				continue
			}
			if err := g.AddEdge(refTable, d.Table()); err != nil {
				return nil, err
			}
		}
	}

	if cyclic, cycle := g.HasCycle(); cyclic {
		return nil, &CycleError{Cycle: cycle}
	}

	order, err := g.Sort()
	if err != nil {
		return nil, err
	}

	plan := &Plan{Mode: mode}

	if mode == ModeForce {
		// Drop referencers before the tables they reference.
		for i := len(order) - 1; i >= 0; i-- {
			plan.Ops = append(plan.Ops, Operation{
				Type:  OpDropTable,
				Table: order[i],
				SQL:   DropTableSQL(order[i]),
			})
		}
	}

	for _, table := range order {
		if mode == ModeReconcile && snap.Has(table) {
			// Non-force sync never alters existing structure.
			plan.Skipped = append(plan.Skipped, table)
			continue
		}
		stmt, err := CreateTableSQL(byTable[table], dialect)
		if err != nil {
			return nil, err
		}
		plan.Ops = append(plan.Ops, Operation{
			Type:  OpCreateTable,
			Table: table,
			SQL:   stmt,
		})
	}

	return plan, nil
}
