package functions

import (
	"strings"

	"github.com/cube2222/octosubstrait/types"
)

type VariantKind int

const (
	VariantKindScalar VariantKind = iota
	VariantKindAggregate
)

func (kind VariantKind) String() string {
	switch kind {
	case VariantKindScalar:
		return "scalar"
	case VariantKindAggregate:
		return "aggregate"
	}
	panic("impossible, variant kind switch bug")
}

// Variant is a single declared implementation of a function.
// Variants are created when a catalog is loaded and are never modified afterwards.
type Variant struct {
	Name        string
	URI         string
	Description string
	Kind        VariantKind
	Arguments   []Argument
	Return      types.Type
	// Intermediate is the partial aggregation state type, only set for aggregates.
	Intermediate *types.Type

	// Declared is the generic declaration this variant was instantiated from.
	// It's nil for declared variants.
	Declared *Variant
}

// Anchor identifies a function variant within its declaring extension.
type Anchor struct {
	URI string
	Key string
}

// TypeAnchor identifies a user defined type within its declaring extension.
type TypeAnchor struct {
	URI  string
	Name string
}

// Signature renders name:arg_arg..., or just the name for argument-less functions.
func Signature(name string, arguments []Argument) string {
	if len(arguments) == 0 {
		return name
	}
	parts := make([]string, len(arguments))
	for i := range arguments {
		parts[i] = arguments[i].TypeString()
	}
	return name + ":" + strings.Join(parts, "_")
}

func (v *Variant) Signature() string {
	return Signature(v.Name, v.Arguments)
}

func (v *Variant) Anchor() Anchor {
	return Anchor{
		URI: v.URI,
		Key: v.Signature(),
	}
}

// DeclaredSignature is the signature of the declaration the variant comes from.
// For instantiated wildcard variants it differs from Signature.
func (v *Variant) DeclaredSignature() string {
	if v.Declared != nil {
		return v.Declared.Signature()
	}
	return v.Signature()
}

// IntermediateSignature renders name:intermediate for aggregates.
func (v *Variant) IntermediateSignature() string {
	if v.Intermediate == nil {
		return v.Name
	}
	return v.Name + ":" + v.Intermediate.Signature()
}

func (v *Variant) IsAggregate() bool {
	return v.Kind == VariantKindAggregate
}

func (v *Variant) RequiredArguments() []Argument {
	out := make([]Argument, 0, len(v.Arguments))
	for i := range v.Arguments {
		if v.Arguments[i].IsRequired() {
			out = append(out, v.Arguments[i])
		}
	}
	return out
}

func (v *Variant) HasWildcardArgument() bool {
	for i := range v.Arguments {
		if v.Arguments[i].IsWildcard() {
			return true
		}
	}
	return false
}

// ValueArguments returns the types of all value arguments, in order.
func (v *Variant) ValueArguments() []types.Type {
	var out []types.Type
	for i := range v.Arguments {
		if v.Arguments[i].IsValue() {
			out = append(out, v.Arguments[i].Type)
		}
	}
	return out
}

// Instantiate returns a copy of the variant with its value arguments replaced by the given concrete types.
func (v *Variant) Instantiate(argTypes []types.Type) *Variant {
	out := *v
	out.Arguments = make([]Argument, len(argTypes))
	for i := range argTypes {
		out.Arguments[i] = NewValueArgument("", argTypes[i])
	}
	out.Declared = v
	return &out
}

// BoundReturn returns the return type, with a wildcard return type of an instantiated variant
// replaced by the concrete type of the first argument declared with the same wildcard.
func (v *Variant) BoundReturn() types.Type {
	if !v.Return.IsWildcard() || v.Declared == nil {
		return v.Return
	}
	declared := v.Declared.ValueArguments()
	concrete := v.ValueArguments()
	for i := range declared {
		if i < len(concrete) && declared[i].IsWildcard() && declared[i].Wildcard.Tag == v.Return.Wildcard.Tag {
			return concrete[i]
		}
	}
	return v.Return
}

func (v *Variant) String() string {
	return v.Signature() + " -> " + v.Return.Signature()
}
