package functions

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Catalog holds the declared scalar and aggregate function variants and user defined types.
// It's immutable once created, so it can be shared between goroutines without locking.
type Catalog struct {
	scalar          []*Variant
	aggregate       []*Variant
	scalarByName    map[string][]*Variant
	aggregateByName map[string][]*Variant
	types           []TypeAnchor
}

// NewCatalog groups the variants by kind and name. Declaration order is preserved.
func NewCatalog(variants []*Variant, typeAnchors []TypeAnchor) *Catalog {
	c := &Catalog{
		scalarByName:    make(map[string][]*Variant),
		aggregateByName: make(map[string][]*Variant),
		types:           append([]TypeAnchor(nil), typeAnchors...),
	}
	for _, variant := range variants {
		switch variant.Kind {
		case VariantKindScalar:
			c.scalar = append(c.scalar, variant)
			c.scalarByName[variant.Name] = append(c.scalarByName[variant.Name], variant)
		case VariantKindAggregate:
			c.aggregate = append(c.aggregate, variant)
			c.aggregateByName[variant.Name] = append(c.aggregateByName[variant.Name], variant)
		default:
			panic("impossible, variant kind switch bug")
		}
	}
	return c
}

// Merge returns a new catalog containing the declarations of both catalogs.
func (c *Catalog) Merge(other *Catalog) *Catalog {
	variants := make([]*Variant, 0, len(c.scalar)+len(c.aggregate)+len(other.scalar)+len(other.aggregate))
	variants = append(variants, c.scalar...)
	variants = append(variants, c.aggregate...)
	variants = append(variants, other.scalar...)
	variants = append(variants, other.aggregate...)
	typeAnchors := append(append([]TypeAnchor(nil), c.types...), other.types...)
	return NewCatalog(variants, typeAnchors)
}

func (c *Catalog) ScalarVariants() []*Variant {
	return c.scalar
}

func (c *Catalog) AggregateVariants() []*Variant {
	return c.aggregate
}

func (c *Catalog) Variants(kind VariantKind) []*Variant {
	switch kind {
	case VariantKindScalar:
		return c.scalar
	case VariantKindAggregate:
		return c.aggregate
	}
	panic("impossible, variant kind switch bug")
}

// Function returns all variants declared under the given name.
func (c *Catalog) Function(kind VariantKind, name string) []*Variant {
	switch kind {
	case VariantKindScalar:
		return c.scalarByName[name]
	case VariantKindAggregate:
		return c.aggregateByName[name]
	}
	panic("impossible, variant kind switch bug")
}

// Names returns the sorted function names of the given kind.
func (c *Catalog) Names(kind VariantKind) []string {
	var out []string
	switch kind {
	case VariantKindScalar:
		out = maps.Keys(c.scalarByName)
	case VariantKindAggregate:
		out = maps.Keys(c.aggregateByName)
	default:
		panic("impossible, variant kind switch bug")
	}
	slices.Sort(out)
	return out
}

func (c *Catalog) Types() []TypeAnchor {
	return c.types
}
