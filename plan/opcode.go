package plan

// StepOp tags one action in a Plan's flat step sequence. Grounded on
// bytecode/opcode.go + bytecode/opcode_meta.go's enum-plus-String()
// shape, repurposed from executable bytecode opcodes to inspectable
// emission actions: nothing in this repository ever interprets a
// Step, the Emitter only walks and renders it.
type StepOp uint8

const (
	// OpDeclareFactory precedes a Scope Node's OpInvokeFactory when
	// some binding inside the node is a Trampoline target. The Emitter
	// renders the node's factory declaration and its invocation
	// together, at whichever of the two steps it reaches first.
	OpDeclareFactory StepOp = iota
	// OpInvokeFactory calls a Scope Node's factory with its
	// non-trampoline bindings, producing the runtime scope object
	// consumers close over.
	OpInvokeFactory
	// OpConstructValue allocates the bare shell for an object, array,
	// function, RegExp, or Date value (spec §4.4: values are
	// constructed before their properties are wired, so cyclic
	// property graphs never need the target to be "finished").
	OpConstructValue
	// OpAssignProperty performs `target[key] = value` for a default
	// (writable/enumerable/configurable) data descriptor.
	OpAssignProperty
	// OpDefineAccessor performs the Object.defineProperty(ies) form
	// required for a getter/setter or any non-default descriptor.
	OpDefineAccessor
	// OpSetPrototype performs Object.setPrototypeOf (or
	// Object.create at construction time, at the Emitter's
	// discretion) to restore a non-default prototype.
	OpSetPrototype
	// OpInstallTrampoline performs the deferred assignment that
	// closes a cycle spec §4.4 documents: `name = value;` run after
	// the referenced value exists, patching a binding that could not
	// be supplied as a plain factory parameter.
	OpInstallTrampoline
	OpFreeze
	OpSeal
	OpPreventExtensions
	// OpReturnRoot marks the step whose constructed value is the
	// serialization's result expression.
	OpReturnRoot
)

func (o StepOp) String() string {
	switch o {
	case OpDeclareFactory:
		return "DECLARE_FACTORY"
	case OpInvokeFactory:
		return "INVOKE_FACTORY"
	case OpConstructValue:
		return "CONSTRUCT_VALUE"
	case OpAssignProperty:
		return "ASSIGN_PROPERTY"
	case OpDefineAccessor:
		return "DEFINE_ACCESSOR"
	case OpSetPrototype:
		return "SET_PROTOTYPE"
	case OpInstallTrampoline:
		return "INSTALL_TRAMPOLINE"
	case OpFreeze:
		return "FREEZE"
	case OpSeal:
		return "SEAL"
	case OpPreventExtensions:
		return "PREVENT_EXTENSIONS"
	case OpReturnRoot:
		return "RETURN_ROOT"
	default:
		return "UNKNOWN"
	}
}
