package plan

import (
	"bytes"
	"encoding/gob"
)

// NodeSnapshot is a gob-friendly flattening of one NodePlan: the
// pointer-heavy *graph.Node/*value.Value graph is reduced to the
// identifiers and flags a debugging tool or snapshot test actually
// needs, the same way bytecode/serialize.go only ever needed to
// round-trip bytecode.Program's flat Constants/Functions slices.
type NodeSnapshot struct {
	BlockID               string
	InstantiationID       uint64
	HasParent             bool
	ParentBlockID         string
	ParentInstantiationID uint64
	Bindings              []BindingSnapshot
	ConsumerFingerprints  []string
}

type BindingSnapshot struct {
	Name       string
	Trampoline bool
}

// StepSnapshot mirrors Step but with PropertyKey reduced to its
// display string (gob cannot encode PropKey's unexported fields
// without a custom GobEncode, and a snapshot only needs to be
// human-diffable, not reconstructible back into a live Plan).
type StepSnapshot struct {
	Op          string
	NodeIndex   int
	ValueID     uint64
	PropertyKey string
	BindingName string
	TargetID    uint64
	GetterID    uint64
	SetterID    uint64

	Writable     bool
	Enumerable   bool
	Configurable bool
}

type PlanSnapshot struct {
	Nodes  []NodeSnapshot
	Steps  []StepSnapshot
	RootID uint64
}

// Snapshot flattens a Plan for serialization or golden-file
// comparison.
func Snapshot(p *Plan) PlanSnapshot {
	snap := PlanSnapshot{
		Nodes:  make([]NodeSnapshot, len(p.NodePlans)),
		Steps:  make([]StepSnapshot, len(p.Steps)),
		RootID: uint64(p.RootID),
	}
	for i, np := range p.NodePlans {
		ns := NodeSnapshot{
			BlockID:         np.Node.Frame.Key.BlockID,
			InstantiationID: np.Node.Frame.Key.InstantiationID,
		}
		if np.Node.Parent != nil {
			ns.HasParent = true
			ns.ParentBlockID = np.Node.Parent.Frame.Key.BlockID
			ns.ParentInstantiationID = np.Node.Parent.Frame.Key.InstantiationID
		}
		for _, b := range np.Bindings {
			ns.Bindings = append(ns.Bindings, BindingSnapshot{Name: b.Name, Trampoline: b.Trampoline})
		}
		for _, c := range np.Node.Consumers {
			if c.Record != nil {
				ns.ConsumerFingerprints = append(ns.ConsumerFingerprints, c.Record.Fingerprint)
			}
		}
		snap.Nodes[i] = ns
	}
	for i, s := range p.Steps {
		snap.Steps[i] = StepSnapshot{
			Op:          s.Op.String(),
			NodeIndex:   s.NodeIndex,
			ValueID:     uint64(s.ValueID),
			PropertyKey: s.PropertyKey.String(),
			BindingName: s.BindingName,
			TargetID:    uint64(s.TargetID),
			GetterID:    uint64(s.GetterID),
			SetterID:    uint64(s.SetterID),

			Writable:     s.Writable,
			Enumerable:   s.Enumerable,
			Configurable: s.Configurable,
		}
	}
	return snap
}

func SerializeSnapshot(snap PlanSnapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func DeserializeSnapshot(data []byte) (PlanSnapshot, error) {
	var snap PlanSnapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&snap); err != nil {
		return PlanSnapshot{}, err
	}
	return snap, nil
}
