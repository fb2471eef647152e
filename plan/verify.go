package plan

import "github.com/reviv-lang/reviv/faults"

// Verify performs the invariant checks spec §4.4/§7 require of a
// Plan before the Emitter is allowed to walk it, grounded directly on
// bytecode/verifier.go's VerifyProgram/verifyFunction (range-check
// jump targets, check arity) — repurposed here to range-check node
// indices and check declare-before-use instead of stack effects,
// since a Plan has no stack to misbalance.
func Verify(p *Plan) error {
	if err := verifyNodeOrder(p); err != nil {
		return err
	}
	return verifySteps(p)
}

// verifyNodeOrder checks spec §4.3 rule 2 survived translation into
// Plan.NodePlans: every node's parent appears at an earlier index
// than the node itself (or has no parent at all).
func verifyNodeOrder(p *Plan) error {
	indexOf := make(map[*NodePlan]int, len(p.NodePlans))
	nodeToPlan := make(map[interface{}]*NodePlan, len(p.NodePlans))
	for i, np := range p.NodePlans {
		indexOf[np] = i
		nodeToPlan[np.Node] = np
	}
	for i, np := range p.NodePlans {
		if np.Node.Parent == nil {
			continue
		}
		parentPlan, ok := nodeToPlan[np.Node.Parent]
		if !ok {
			return internalError("node %s has a parent not present in the plan", np.Node.Frame.Key.BlockID)
		}
		if indexOf[parentPlan] >= i {
			return internalError("node %s is not declared after its parent", np.Node.Frame.Key.BlockID)
		}
	}
	return nil
}

// verifySteps checks that every NodeIndex a Step references is in
// range and that every value-referencing Step follows the
// OpConstructValue step for the value it touches — the Plan-level
// analogue of verifier.go's jump-target bounds check, generalized
// from "does this jump land inside the function" to "does this
// reference land after its target was constructed".
func verifySteps(p *Plan) error {
	constructed := make(map[uint64]bool)
	for i, s := range p.Steps {
		switch s.Op {
		case OpDeclareFactory, OpInvokeFactory:
			if s.NodeIndex < 0 || s.NodeIndex >= len(p.NodePlans) {
				return internalError("step %d (%s): node index %d out of range", i, s.Op, s.NodeIndex)
			}
		case OpConstructValue:
			constructed[uint64(s.ValueID)] = true
		case OpInstallTrampoline:
			if s.NodeIndex < 0 || s.NodeIndex >= len(p.NodePlans) {
				return internalError("step %d (%s): node index %d out of range", i, s.Op, s.NodeIndex)
			}
			if !constructed[uint64(s.ValueID)] {
				return internalError("step %d (%s): value %d installed before it was constructed", i, s.Op, s.ValueID)
			}
		case OpAssignProperty, OpDefineAccessor, OpSetPrototype, OpFreeze, OpSeal, OpPreventExtensions:
			if !constructed[uint64(s.ValueID)] {
				return internalError("step %d (%s): value %d referenced before it was constructed", i, s.Op, s.ValueID)
			}
			if s.TargetID != 0 && !constructed[uint64(s.TargetID)] {
				return internalError("step %d (%s): target %d referenced before it was constructed", i, s.Op, s.TargetID)
			}
			if s.GetterID != 0 && !constructed[uint64(s.GetterID)] {
				return internalError("step %d (%s): getter %d referenced before it was constructed", i, s.Op, s.GetterID)
			}
			if s.SetterID != 0 && !constructed[uint64(s.SetterID)] {
				return internalError("step %d (%s): setter %d referenced before it was constructed", i, s.Op, s.SetterID)
			}
		}
	}
	if len(p.Steps) == 0 || p.Steps[len(p.Steps)-1].Op != OpReturnRoot {
		return internalError("plan does not end with OpReturnRoot")
	}
	return nil
}

func internalError(format string, args ...any) error {
	return faults.New(faults.KindInternalInvariant, nil, format, args...)
}
