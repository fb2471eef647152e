package value

import "testing"

func TestPropertyMapOrdering(t *testing.T) {
	tests := []struct {
		name string
		keys []PropKey
		want []string
	}{
		{
			name: "integers before strings before symbols",
			keys: []PropKey{
				StringKey("b"),
				IndexKey(2),
				SymbolKey(1),
				StringKey("a"),
				IndexKey(0),
			},
			want: []string{"0", "2", "b", "a", "@@symbol"},
		},
		{
			name: "integers sort ascending regardless of insertion",
			keys: []PropKey{IndexKey(10), IndexKey(1), IndexKey(5)},
			want: []string{"1", "5", "10"},
		},
		{
			name: "strings keep insertion order",
			keys: []PropKey{StringKey("z"), StringKey("a"), StringKey("m")},
			want: []string{"z", "a", "m"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPropertyMap()
			for _, k := range tt.keys {
				p.Set(k, Descriptor{Value: Undefined(), Writable: true, Enumerable: true, Configurable: true})
			}
			got := p.Keys()
			if len(got) != len(tt.want) {
				t.Fatalf("got %d keys, want %d", len(got), len(tt.want))
			}
			for i, k := range got {
				if k.String() != tt.want[i] {
					t.Errorf("key[%d] = %q, want %q", i, k.String(), tt.want[i])
				}
			}
		})
	}
}

func TestPropertyMapOverwritePreservesPosition(t *testing.T) {
	p := NewPropertyMap()
	p.Set(StringKey("a"), Descriptor{Value: Number(1), Writable: true, Enumerable: true, Configurable: true})
	p.Set(StringKey("b"), Descriptor{Value: Number(2), Writable: true, Enumerable: true, Configurable: true})
	p.Set(StringKey("a"), Descriptor{Value: Number(99), Writable: true, Enumerable: true, Configurable: true})

	keys := p.Keys()
	if keys[0].String() != "a" || keys[1].String() != "b" {
		t.Fatalf("expected order [a b], got %v", keys)
	}
	d, ok := p.Get(StringKey("a"))
	if !ok || d.Value.Number != 99 {
		t.Fatalf("expected overwritten value 99, got %+v", d)
	}
}

func TestDescriptorIsDefault(t *testing.T) {
	def := Descriptor{Value: Undefined(), Writable: true, Enumerable: true, Configurable: true}
	if !def.IsDefault() {
		t.Errorf("expected default descriptor to report IsDefault")
	}
	nonDef := Descriptor{Value: Undefined(), Writable: false, Enumerable: true, Configurable: true}
	if nonDef.IsDefault() {
		t.Errorf("expected non-writable descriptor to not be default")
	}
	accessor := Descriptor{Getter: Undefined(), Enumerable: true, Configurable: true}
	if accessor.IsDefault() {
		t.Errorf("accessor descriptors are never default")
	}
}

func TestClassifierMemoizes(t *testing.T) {
	c := NewClassifier()
	obj := NewObject(42)
	first := c.Classify(obj)
	obj.Frozen = true // mutate after first classification
	second := c.Classify(obj)
	if first.Special != second.Special {
		t.Fatalf("classification should be memoized and not reflect the later mutation")
	}
	if second.Special {
		t.Fatalf("memoized classification should reflect pre-mutation state (not special)")
	}
}

func TestClassifierFlagsUnreconstructableFunction(t *testing.T) {
	c := NewClassifier()
	fn := NewFunction(7, &FunctionValue{SubKind: FnPlain})
	cl := c.Classify(fn)
	if !cl.Unreconstructable {
		t.Fatalf("function with empty fingerprint should be flagged unreconstructable")
	}
}
