package host

import (
	"testing"

	"github.com/reviv-lang/reviv/scope"
)

func TestBlockCatalogAncestors(t *testing.T) {
	cat := NewBlockCatalog([]scope.Block{
		{ID: "module", ParentBlockID: ""},
		{ID: "fn1", ParentBlockID: "module"},
		{ID: "block1", ParentBlockID: "fn1"},
	})

	ancestors := cat.Ancestors("block1")
	if len(ancestors) != 2 {
		t.Fatalf("expected 2 ancestors, got %d", len(ancestors))
	}
	if ancestors[0].ID != "fn1" || ancestors[1].ID != "module" {
		t.Fatalf("expected [fn1 module], got %v", ancestors)
	}

	if _, ok := cat.Parent("module"); ok {
		t.Fatalf("module-top block should have no parent")
	}
}

func TestBuiltinsBlocked(t *testing.T) {
	b := NewBuiltins("myGlobal")
	cases := map[string]bool{
		"Object":    true,
		"myGlobal":  true,
		"class":     true,
		"const":     true,
		"a":         false,
		"extA":      false,
	}
	for name, want := range cases {
		if got := b.Blocked(name); got != want {
			t.Errorf("Blocked(%q) = %v, want %v", name, got, want)
		}
	}
}
