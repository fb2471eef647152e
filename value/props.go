package value

import (
	"fmt"
	"sort"

	"github.com/Velocidex/ordereddict"
)

// entry pairs a property key with its descriptor. It is the value
// type stored in the backing ordereddict.Dict; the dict's own key is
// a string encoding of PropKey so that index/string/symbol keys can
// all live in one insertion-ordered structure (see encodeKey).
type entry struct {
	key  PropKey
	desc Descriptor
}

// PropertyMap holds a value's own properties in insertion order,
// the way a real object's [[OwnPropertyKeys]] does, backed by
// github.com/Velocidex/ordereddict instead of a plain Go map so
// iteration order is a structural guarantee rather than something
// every caller has to remember to sort.
type PropertyMap struct {
	dict *ordereddict.Dict
}

func NewPropertyMap() *PropertyMap {
	return &PropertyMap{dict: ordereddict.NewDict()}
}

func encodeKey(k PropKey) string {
	switch {
	case k.IsIndex():
		return fmt.Sprintf("#%020d", k.Index())
	case k.IsSymbol():
		return fmt.Sprintf("@%020d", uint64(k.Symbol()))
	default:
		return "$" + k.str
	}
}

// Set inserts or overwrites the descriptor for key, preserving its
// original insertion position on overwrite (own-property redefinition
// does not move a key in [[OwnPropertyKeys]] order).
func (p *PropertyMap) Set(key PropKey, desc Descriptor) {
	p.dict.Set(encodeKey(key), entry{key: key, desc: desc})
}

func (p *PropertyMap) Get(key PropKey) (Descriptor, bool) {
	raw, ok := p.dict.Get(encodeKey(key))
	if !ok {
		return Descriptor{}, false
	}
	return raw.(entry).desc, true
}

func (p *PropertyMap) Len() int {
	if p.dict == nil {
		return 0
	}
	return p.dict.Len()
}

// Keys returns own-property keys in spec §8 order: integer keys
// ascending, then string keys in insertion order, then symbol keys in
// insertion order. ordereddict.Dict already preserves insertion
// order for the raw traversal; this layers the integer-keys-first
// rule on top with a stable sort so ties (same category) keep their
// relative insertion order.
func (p *PropertyMap) Keys() []PropKey {
	if p.dict == nil {
		return nil
	}
	raw := p.dict.Keys()
	keys := make([]PropKey, 0, len(raw))
	for _, k := range raw {
		v, ok := p.dict.Get(k)
		if !ok {
			continue
		}
		keys = append(keys, v.(entry).key)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		ci, cj := keys[i].category(), keys[j].category()
		if ci != cj {
			return ci < cj
		}
		if ci == categoryIndex {
			return keys[i].Index() < keys[j].Index()
		}
		return false // preserve insertion order within a category
	})
	return keys
}

// Entries returns (key, descriptor) pairs in the same order as Keys.
func (p *PropertyMap) Entries() []struct {
	Key  PropKey
	Desc Descriptor
} {
	keys := p.Keys()
	out := make([]struct {
		Key  PropKey
		Desc Descriptor
	}, 0, len(keys))
	for _, k := range keys {
		d, _ := p.Get(k)
		out = append(out, struct {
			Key  PropKey
			Desc Descriptor
		}{Key: k, Desc: d})
	}
	return out
}
