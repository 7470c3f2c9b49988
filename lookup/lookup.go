package lookup

import (
	"go.uber.org/zap"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/cube2222/octosubstrait/functions"
	"github.com/cube2222/octosubstrait/logs"
)

// FunctionLookup resolves function calls with concrete argument types to declared function variants.
// It's immutable after construction and safe for concurrent use.
type FunctionLookup struct {
	forAggregate bool
	mappings     map[string]string
	finders      map[string]*finder
	anchors      map[functions.Anchor]*functions.Variant
	// uriFinders resolve anchor keys within the extension declaring them.
	uriFinders map[declarationScope]*finder
}

type declarationScope struct {
	uri  string
	name string
}

// NewFunctionLookup creates a lookup over the given variants, which should all be
// aggregates if forAggregate is set, and scalars otherwise.
func NewFunctionLookup(forAggregate bool, variants []*functions.Variant, mappings Mappings) *FunctionLookup {
	byName := make(map[string][]*functions.Variant)
	var names []string
	byScope := make(map[declarationScope][]*functions.Variant)
	var scopes []declarationScope
	anchors := make(map[functions.Anchor]*functions.Variant, len(variants))
	for _, variant := range variants {
		if _, ok := byName[variant.Name]; !ok {
			names = append(names, variant.Name)
		}
		byName[variant.Name] = append(byName[variant.Name], variant)
		scope := declarationScope{uri: variant.URI, name: variant.Name}
		if _, ok := byScope[scope]; !ok {
			scopes = append(scopes, scope)
		}
		byScope[scope] = append(byScope[scope], variant)
		if _, ok := anchors[variant.Anchor()]; !ok {
			anchors[variant.Anchor()] = variant
		}
	}

	finders := make(map[string]*finder, len(byName))
	for _, name := range names {
		finders[name] = newFinder(name, forAggregate, byName[name])
	}
	uriFinders := make(map[declarationScope]*finder, len(byScope))
	for _, scope := range scopes {
		uriFinders[scope] = newFinder(scope.name, forAggregate, byScope[scope])
	}

	var nameMappings map[string]string
	if mappings != nil {
		if forAggregate {
			nameMappings = mappings.AggregateMappings()
		} else {
			nameMappings = mappings.ScalarMappings()
		}
	}

	return &FunctionLookup{
		forAggregate: forAggregate,
		mappings:     nameMappings,
		finders:      finders,
		anchors:      anchors,
		uriFinders:   uriFinders,
	}
}

func NewScalarFunctionLookup(catalog *functions.Catalog, mappings Mappings) *FunctionLookup {
	return NewFunctionLookup(false, catalog.ScalarVariants(), mappings)
}

func NewAggregateFunctionLookup(catalog *functions.Catalog, mappings Mappings) *FunctionLookup {
	return NewFunctionLookup(true, catalog.AggregateVariants(), mappings)
}

// LookupFunction returns the best matching variant for the query.
// Exact signature matches take precedence over intermediate type matches, which take precedence over wildcard matches.
// A wildcard match returns a copy of the declaration instantiated with the query's argument types.
func (l *FunctionLookup) LookupFunction(query Signature) (*functions.Variant, bool) {
	name := mappedName(l.mappings, query.Name)
	f, ok := l.finders[name]
	if !ok {
		logs.Logger().Debug("no function declared with name", zap.String("name", name))
		return nil, false
	}
	query.Name = name

	variant, ok := f.lookup(query)
	if !ok {
		logs.Logger().Debug("no function variant matched", zap.String("query", query.String()))
	}
	return variant, ok
}

// FindAnchor returns the variant a serialized function anchor refers to.
// Anchors of instantiated wildcard variants are resolved by matching the anchor key against the declarations.
func (l *FunctionLookup) FindAnchor(anchor functions.Anchor) (*functions.Variant, bool) {
	if variant, ok := l.anchors[anchor]; ok {
		return variant, true
	}

	query, err := ParseSignature(anchor.Key)
	if err != nil {
		logs.Logger().Debug("couldn't parse anchor key", zap.String("key", anchor.Key), zap.Error(err))
		return nil, false
	}
	f, ok := l.uriFinders[declarationScope{uri: anchor.URI, name: query.Name}]
	if !ok {
		return nil, false
	}
	return f.lookup(query)
}

// Names returns the sorted declared function names known to the lookup.
func (l *FunctionLookup) Names() []string {
	out := maps.Keys(l.finders)
	slices.Sort(out)
	return out
}

// finder resolves queries for a single declared function name.
type finder struct {
	name         string
	forAggregate bool
	direct       map[string]*functions.Variant
	intermediate map[string][]*functions.Variant
	wildcards    []*wildcardVariant
}

func newFinder(name string, forAggregate bool, variants []*functions.Variant) *finder {
	f := &finder{
		name:         name,
		forAggregate: forAggregate,
		direct:       make(map[string]*functions.Variant),
		intermediate: make(map[string][]*functions.Variant),
	}
	for _, variant := range variants {
		f.addDirect(variant.Signature(), variant)
		if required := variant.RequiredArguments(); len(required) != len(variant.Arguments) {
			f.addDirect(functions.Signature(variant.Name, required), variant)
		}
		if forAggregate && variant.Intermediate != nil {
			key := variant.IntermediateSignature()
			f.intermediate[key] = append(f.intermediate[key], variant)
		}
	}
	for _, variant := range variants {
		if variant.HasWildcardArgument() {
			f.wildcards = append(f.wildcards, newWildcardVariant(variant))
		}
	}
	return f
}

// addDirect keeps the first variant registered under a key.
func (f *finder) addDirect(key string, variant *functions.Variant) {
	if _, ok := f.direct[key]; !ok {
		f.direct[key] = variant
	}
}

func (f *finder) lookup(query Signature) (*functions.Variant, bool) {
	signature := query.Signature()

	if variant, ok := f.direct[signature]; ok {
		if !returnTypeMatches(query, variant) {
			return nil, false
		}
		return variant, true
	}

	if f.forAggregate {
		if candidates, ok := f.intermediate[signature]; ok {
			for _, variant := range candidates {
				if returnTypeMatches(query, variant) {
					return variant, true
				}
			}
			return nil, false
		}
	}

	if len(query.Arguments) == 0 {
		return nil, false
	}

	for _, wildcard := range f.wildcards {
		if variant, ok := wildcard.tryMatch(query); ok {
			return variant, true
		}
	}
	return nil, false
}

func returnTypeMatches(query Signature, variant *functions.Variant) bool {
	return query.Return == nil || query.Return.Equals(variant.Return)
}
