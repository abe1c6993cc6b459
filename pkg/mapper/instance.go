package mapper

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/leapstack-labs/modelsync/pkg/model"
)

// State is the persistence state of an instance.
type State int

const (
	// StateTransient means the instance has never been written.
	StateTransient State = iota
	// StatePersisted means the instance is backed by a database row.
	StatePersisted
	// StateDeleted is terminal; the backing row is gone.
	StateDeleted
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateTransient:
		return "transient"
	case StatePersisted:
		return "persisted"
	case StateDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Instance is a live, typed record bound to a descriptor. Its field set is
// exactly the descriptor's fields plus the identity. Mutation goes through
// Set followed by an explicit Mapper.Save.
type Instance struct {
	desc   *model.Descriptor
	id     int64
	values map[string]any
	state  State
}

// NewInstance builds a transient instance with every declared field unset.
// Assign fields with Set, then persist with Mapper.Insert.
func NewInstance(desc *model.Descriptor) *Instance {
	values := make(map[string]any, len(desc.Fields()))
	for _, f := range desc.Fields() {
		values[f.Name] = nil
	}
	return &Instance{desc: desc, values: values, state: StateTransient}
}

// Descriptor returns the owning model descriptor.
func (i *Instance) Descriptor() *model.Descriptor { return i.desc }

// ID returns the generated identity, zero while transient.
func (i *Instance) ID() int64 { return i.id }

// State returns the persistence state.
func (i *Instance) State() State { return i.state }

// Get returns the current value of a declared field.
func (i *Instance) Get(field string) (any, bool) {
	if _, ok := i.desc.Field(field); !ok {
		return nil, false
	}
	return i.values[field], true
}

// Set assigns a declared field after validating the value against its type.
// The change is in-memory until Mapper.Save. Deleted instances reject
// mutation.
func (i *Instance) Set(field string, value any) error {
	if i.state == StateDeleted {
		return &StateError{Op: "mutate", State: i.state}
	}
	ft, ok := i.desc.Field(field)
	if !ok {
		return &UnknownFieldError{Model: i.desc.Name(), Field: field}
	}
	v, err := model.Coerce(ft, value)
	if err != nil {
		return &ValidationError{Model: i.desc.Name(), Field: field, Reason: err.Error()}
	}
	i.values[field] = v
	return nil
}

// FieldValue is one name/value pair of a serialized instance.
type FieldValue struct {
	Name  string
	Value any
}

// Snapshot is a value-only view of an instance: no behavior, no descriptor
// reference. Keys follow the descriptor's declared order with the identity
// first.
type Snapshot []FieldValue

// Get returns the value for a field name.
func (s Snapshot) Get(name string) (any, bool) {
	for _, fv := range s {
		if fv.Name == name {
			return fv.Value, true
		}
	}
	return nil, false
}

// MarshalJSON renders the snapshot as a JSON object preserving field order.
// Dates render as "2006-01-02" strings.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, fv := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(fv.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		v := fv.Value
		if t, ok := v.(time.Time); ok {
			v = t.Format(model.DateFormat)
		}
		val, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshal field %s: %w", fv.Name, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Snapshot serializes the instance's current field values. It is a pure,
// deterministic function of the instance: calling it twice on an unmutated
// instance yields identical output.
func (i *Instance) Snapshot() Snapshot {
	fields := i.desc.Fields()
	out := make(Snapshot, 0, len(fields)+1)
	out = append(out, FieldValue{Name: model.IdentityColumn, Value: i.id})
	for _, f := range fields {
		out = append(out, FieldValue{Name: f.Name, Value: i.values[f.Name]})
	}
	return out
}
