// Package fixture loads JSON-described value graphs for tests and the
// CLI's `run` subcommand, so a scenario from spec §8 can be written
// once as data instead of hand-assembled *value.Value/*scope.Tracker
// Go literals in every test file.
//
// Grounded on ffi/decoders.go's JsonToDynamic (parse external JSON
// into the runtime's own value shape, encoding/json plus a small
// post-parse walk) and ffi/fs.go's os.ReadFile-based loaders,
// repurposed from "decode arbitrary JSON into a Dynamic" to "decode a
// fixture's node list into *value.Value plus a stub Tracker per
// function node".
package fixture

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/reviv-lang/reviv/scope"
	"github.com/reviv-lang/reviv/value"
)

// Node is one entry in a fixture file's node list, keyed by a
// fixture-local integer id that other nodes reference to build edges
// (props, prototype, bound-function fields) without needing real
// pointers in the JSON text.
type Node struct {
	ID   uint64 `json:"id"`
	Kind string `json:"kind"` // object, array, function, bound, string, number, bool, bigint, undefined, null, regexp, date

	// Primitive payloads.
	Str      string  `json:"str,omitempty"`
	Number   float64 `json:"number,omitempty"`
	Bool     bool    `json:"bool,omitempty"`
	BigInt   string  `json:"bigint,omitempty"`
	DateMs   float64 `json:"dateMs,omitempty"`
	RegexSrc string  `json:"regexSource,omitempty"`
	RegexFl  string  `json:"regexFlags,omitempty"`

	// Array-only.
	Length uint32 `json:"length,omitempty"`

	// Object-shaped common fields.
	Props           map[string]PropFixture `json:"props,omitempty"`
	Prototype       *uint64                `json:"prototype,omitempty"`
	PrototypeIsNull bool                   `json:"prototypeIsNull,omitempty"`
	Frozen          bool                   `json:"frozen,omitempty"`
	Sealed          bool                   `json:"sealed,omitempty"`
	NotExtensible   bool                   `json:"notExtensible,omitempty"`

	// Function-only.
	SubKind     string          `json:"subKind,omitempty"` // plain, arrow, method, getter, setter, generator, async, asyncGenerator, classMethod, bound
	Name        string          `json:"name,omitempty"`
	FnLength    int             `json:"fnLength,omitempty"`
	Fingerprint string          `json:"fingerprint,omitempty"`
	SourceText  string          `json:"sourceText,omitempty"`
	Frames      []FrameFixture  `json:"frames,omitempty"`
	BoundTarget *uint64         `json:"boundTarget,omitempty"`
	BoundThis   *uint64         `json:"boundThis,omitempty"`
	BoundArgs   []uint64        `json:"boundArgs,omitempty"`
	Home        *uint64         `json:"home,omitempty"`
}

// PropFixture is one own-property descriptor, referencing its value
// (or getter/setter) by fixture node id.
type PropFixture struct {
	Value        *uint64 `json:"value,omitempty"`
	Getter       *uint64 `json:"getter,omitempty"`
	Setter       *uint64 `json:"setter,omitempty"`
	Writable     bool    `json:"writable,omitempty"`
	Enumerable   bool    `json:"enumerable,omitempty"`
	Configurable bool    `json:"configurable,omitempty"`
}

// FrameFixture is one Scope Frame a function node closes over, in the
// shape scope.RawFrame expects: which block instantiation, which
// bindings it captures (by fixture node id), and which of those this
// particular function reads/writes.
type FrameFixture struct {
	BlockID         string            `json:"blockId"`
	InstantiationID uint64            `json:"instantiationId"`
	Bindings        map[string]uint64 `json:"bindings"`
	Writes          []string          `json:"writes,omitempty"`
}

// File is the top-level shape of a fixture JSON document: every node
// in the graph plus which one is the root.
type File struct {
	Root  uint64 `json:"root"`
	Nodes []Node `json:"nodes"`
}

// Load reads and decodes a fixture file from disk.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fixture: reading %s: %w", path, err)
	}
	return Decode(data)
}

// Decode parses fixture JSON text already in memory (tests prefer this
// over writing a temp file per case).
func Decode(data []byte) (*File, error) {
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("fixture: decoding: %w", err)
	}
	return &f, nil
}

// Build realizes a decoded File into a root *value.Value plus one
// scope.Tracker per function node, ready to hand to graph.NewBuilder.
// Every *value.Value sharing the same fixture id is reused across
// every reference (this is how a fixture expresses object identity
// and cycles), matching spec §3's identity-preservation requirement.
func (f *File) Build() (*value.Value, map[value.Identity]scope.Tracker, error) {
	byID := make(map[uint64]*Node, len(f.Nodes))
	for i := range f.Nodes {
		byID[f.Nodes[i].ID] = &f.Nodes[i]
	}

	values := make(map[uint64]*value.Value, len(f.Nodes))
	trackers := make(map[value.Identity]scope.Tracker, len(f.Nodes))

	var resolve func(id uint64) (*value.Value, error)
	resolve = func(id uint64) (*value.Value, error) {
		if v, ok := values[id]; ok {
			return v, nil
		}
		n, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("fixture: node %d not defined", id)
		}
		return build(n, resolve, values, trackers)
	}

	root, err := resolve(f.Root)
	if err != nil {
		return nil, nil, err
	}
	for _, n := range f.Nodes {
		if _, err := resolve(n.ID); err != nil {
			return nil, nil, err
		}
	}
	return root, trackers, nil
}

func build(n *Node, resolve func(uint64) (*value.Value, error), values map[uint64]*value.Value, trackers map[value.Identity]scope.Tracker) (*value.Value, error) {
	id := value.Identity(n.ID)
	var v *value.Value
	switch n.Kind {
	case "undefined":
		v = value.Undefined()
	case "null":
		v = value.Null()
	case "bool":
		v = value.Bool(n.Bool)
	case "number":
		v = value.Number(n.Number)
	case "string":
		v = value.String(n.Str)
	case "bigint":
		v = &value.Value{Kind: value.KindBigInt, BigInt: n.BigInt}
	case "symbol":
		v = &value.Value{Kind: value.KindSymbol, Identity: id, Str: n.Str, Props: value.NewPropertyMap(), Extensible: true}
	case "object":
		v = value.NewObject(id)
	case "array":
		v = value.NewArray(id, n.Length)
	case "regexp":
		v = &value.Value{Kind: value.KindRegExp, Identity: id, Props: value.NewPropertyMap(), Extensible: true, RegexSource: n.RegexSrc, RegexFlags: n.RegexFl}
	case "date":
		v = &value.Value{Kind: value.KindDate, Identity: id, Props: value.NewPropertyMap(), Extensible: true, DateMillis: n.DateMs}
	case "function":
		fn := &value.FunctionValue{
			SubKind: parseFunctionKind(n.SubKind),
			Name:    n.Name,
			Length:  n.FnLength,
		}
		v = value.NewFunction(id, fn)
		values[n.ID] = v // registered early: a self-referencing frame binding needs this before its own tracker is built
		if n.Home != nil {
			home, err := resolve(*n.Home)
			if err != nil {
				return nil, err
			}
			fn.Home = home
		}
		tr, err := buildTracker(n, resolve)
		if err != nil {
			return nil, err
		}
		trackers[id] = tr
	case "bound":
		fn := &value.FunctionValue{SubKind: value.FnBound, Name: n.Name, Length: n.FnLength}
		v = value.NewFunction(id, fn)
		values[n.ID] = v
		if n.BoundTarget != nil {
			target, err := resolve(*n.BoundTarget)
			if err != nil {
				return nil, err
			}
			fn.BoundTarget = target
		}
		if n.BoundThis != nil {
			this, err := resolve(*n.BoundThis)
			if err != nil {
				return nil, err
			}
			fn.BoundThis = this
		}
		for _, argID := range n.BoundArgs {
			arg, err := resolve(argID)
			if err != nil {
				return nil, err
			}
			fn.BoundArgs = append(fn.BoundArgs, arg)
		}
	default:
		return nil, fmt.Errorf("fixture: node %d has unknown kind %q", n.ID, n.Kind)
	}

	values[n.ID] = v
	v.Frozen = n.Frozen
	v.Sealed = n.Sealed
	v.Extensible = !n.NotExtensible && !n.Frozen && !n.Sealed
	v.PrototypeIsNull = n.PrototypeIsNull

	if n.Prototype != nil {
		proto, err := resolve(*n.Prototype)
		if err != nil {
			return nil, err
		}
		v.Prototype = proto
	}
	if v.Props != nil {
		for key, pf := range n.Props {
			desc, err := buildDescriptor(pf, resolve)
			if err != nil {
				return nil, err
			}
			v.Props.Set(value.StringKey(key), desc)
		}
	}
	return v, nil
}

func buildDescriptor(pf PropFixture, resolve func(uint64) (*value.Value, error)) (value.Descriptor, error) {
	desc := value.Descriptor{Writable: pf.Writable, Enumerable: pf.Enumerable, Configurable: pf.Configurable}
	if pf.Value != nil {
		v, err := resolve(*pf.Value)
		if err != nil {
			return desc, err
		}
		desc.Value = v
	}
	if pf.Getter != nil {
		v, err := resolve(*pf.Getter)
		if err != nil {
			return desc, err
		}
		desc.Getter = v
	}
	if pf.Setter != nil {
		v, err := resolve(*pf.Setter)
		if err != nil {
			return desc, err
		}
		desc.Setter = v
	}
	return desc, nil
}

// buildTracker assembles a fixed scope.TrackResult for a function
// node and wraps it in a Tracker that always succeeds — fixtures
// describe closures statically, so there is no "missing tracker" case
// to simulate (that path is covered directly in scope's own tests).
func buildTracker(n *Node, resolve func(uint64) (*value.Value, error)) (scope.Tracker, error) {
	result := scope.TrackResult{Fingerprint: n.Fingerprint, SourceText: n.SourceText}
	for _, ff := range n.Frames {
		raw := scope.RawFrame{BlockID: ff.BlockID, InstantiationID: ff.InstantiationID, Writes: ff.Writes}
		raw.Bindings = make(map[string]*value.Value, len(ff.Bindings))
		for name, refID := range ff.Bindings {
			bv, err := resolve(refID)
			if err != nil {
				return nil, err
			}
			raw.Bindings[name] = bv
		}
		result.Frames = append(result.Frames, raw)
	}
	return fixedTracker{result: result}, nil
}

type fixedTracker struct{ result scope.TrackResult }

func (t fixedTracker) Track(scope.Token) (scope.TrackResult, bool) { return t.result, true }

func parseFunctionKind(s string) value.FunctionKind {
	switch s {
	case "arrow":
		return value.FnArrow
	case "method":
		return value.FnMethod
	case "classMethod":
		return value.FnClassMethod
	case "getter":
		return value.FnGetter
	case "setter":
		return value.FnSetter
	case "generator":
		return value.FnGenerator
	case "async":
		return value.FnAsync
	case "asyncGenerator":
		return value.FnAsyncGenerator
	default:
		return value.FnPlain
	}
}
