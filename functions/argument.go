package functions

import (
	"github.com/cube2222/octosubstrait/types"
)

type ArgumentKind int

const (
	// ArgumentKindEnum is a non-type option argument, such as an overflow mode.
	ArgumentKindEnum ArgumentKind = iota
	// ArgumentKindType accepts a type, not a typed value.
	ArgumentKindType
	// ArgumentKindValue is an ordinary typed value argument.
	ArgumentKindValue
)

// Argument is a single declared function argument.
// Required is only meaningful for enum arguments, Type only for value arguments.
type Argument struct {
	Kind     ArgumentKind
	Name     string
	Required bool
	Options  []string
	Type     types.Type
}

func NewEnumArgument(name string, required bool, options ...string) Argument {
	return Argument{
		Kind:     ArgumentKindEnum,
		Name:     name,
		Required: required,
		Options:  options,
	}
}

func NewTypeArgument(name string) Argument {
	return Argument{
		Kind: ArgumentKindType,
		Name: name,
	}
}

func NewValueArgument(name string, t types.Type) Argument {
	return Argument{
		Kind: ArgumentKindValue,
		Name: name,
		Type: t,
	}
}

func (arg Argument) IsRequired() bool {
	switch arg.Kind {
	case ArgumentKindEnum:
		return arg.Required
	case ArgumentKindType, ArgumentKindValue:
		return true
	}
	panic("impossible, argument kind switch bug")
}

// TypeString is the fragment the argument contributes to a function signature.
// See https://substrait.io/extensions/#function-signature-compound-names
func (arg Argument) TypeString() string {
	switch arg.Kind {
	case ArgumentKindEnum:
		if arg.Required {
			return "req"
		}
		return "opt"
	case ArgumentKindType:
		return "type"
	case ArgumentKindValue:
		return arg.Type.Signature()
	}
	panic("impossible, argument kind switch bug")
}

func (arg Argument) IsWildcard() bool {
	return arg.Kind == ArgumentKindValue && arg.Type.IsWildcard()
}

func (arg Argument) IsValue() bool {
	return arg.Kind == ArgumentKindValue
}
