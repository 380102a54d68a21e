package logpool

import (
	"strings"

	"github.com/Aleph-Alpha/logpool/pkg/emitter"
)

// RootCategory is the implicit ancestor of every category.
const RootCategory = ""

// categorySeparator splits a category into its path segments.
const categorySeparator = "."

// ParentOf returns the category one level up: everything before the last
// separator, or the root when there is none.
//
//	ParentOf("a.b.c") // "a.b"
//	ParentOf("a")     // ""
//	ParentOf("")      // ErrRootHasNoParent
func ParentOf(category string) (string, error) {
	if category == RootCategory {
		return "", ErrRootHasNoParent
	}
	idx := strings.LastIndex(category, categorySeparator)
	if idx < 0 {
		return RootCategory, nil
	}
	return category[:idx], nil
}

// Ancestry returns the chain from the root down to category, inclusive.
// Every parent is a strict prefix of its child, so the walk always ends.
func Ancestry(category string) []string {
	chain := []string{category}
	for c := category; c != RootCategory; {
		parent, _ := ParentOf(c)
		chain = append(chain, parent)
		c = parent
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// Resolver computes effective configurations from the explicit per-category
// entries. It is immutable after construction.
type Resolver struct {
	root       emitter.Config
	categories map[string]emitter.Config
}

// NewResolver copies root and categories. A root entry inside categories is
// merged over root.
func NewResolver(root emitter.Config, categories map[string]emitter.Config) *Resolver {
	r := &Resolver{
		root:       emitter.DefaultConfig(),
		categories: make(map[string]emitter.Config, len(categories)),
	}
	if root != nil {
		r.root = root.Clone()
	}
	for category, cfg := range categories {
		if category == RootCategory {
			r.root = r.root.Merge(cfg)
			continue
		}
		r.categories[category] = cfg.Clone()
	}
	return r
}

// EffectiveConfig merges the explicit entries along the ancestry of category,
// root first, so the deepest entry wins.
func (r *Resolver) EffectiveConfig(category string) emitter.Config {
	cfg := r.root.Clone()
	for _, c := range Ancestry(category)[1:] {
		if explicit, ok := r.categories[c]; ok {
			cfg = cfg.Merge(explicit)
		}
	}
	return cfg
}
