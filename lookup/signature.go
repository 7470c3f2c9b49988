package lookup

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/cube2222/octosubstrait/types"
)

// Signature is a function lookup query: a function name with concrete argument types
// and optionally the expected return type.
type Signature struct {
	Name      string
	Arguments []types.Type
	Return    *types.Type
}

func (s Signature) Signature() string {
	if len(s.Arguments) == 0 {
		return s.Name
	}
	return s.Name + ":" + types.Signatures(s.Arguments)
}

func (s Signature) String() string {
	if s.Return == nil {
		return s.Signature()
	}
	return s.Signature() + " -> " + s.Return.Signature()
}

// ParseSignature parses a function signature key like add:opt_i8_i8 into a query.
// Enum and type argument placeholders are skipped.
func ParseSignature(key string) (Signature, error) {
	name, args, found := strings.Cut(key, ":")
	if name == "" {
		return Signature{}, errors.Errorf("function signature '%s' has no name", key)
	}
	if !found {
		return Signature{Name: name}, nil
	}

	var argTypes []types.Type
	for _, fragment := range splitFragments(args) {
		switch fragment {
		case "opt", "req", "type":
			continue
		}
		t, err := types.Decode(fragment)
		if err != nil {
			return Signature{}, errors.Wrapf(err, "couldn't decode argument '%s' of '%s'", fragment, key)
		}
		argTypes = append(argTypes, t)
	}
	return Signature{Name: name, Arguments: argTypes}, nil
}

// splitFragments splits on underscores outside of type parameter lists.
func splitFragments(args string) []string {
	var out []string
	depth := 0
	start := 0
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case '<':
			depth++
		case '>':
			depth--
		case '_':
			if depth == 0 {
				out = append(out, args[start:i])
				start = i + 1
			}
		}
	}
	return append(out, args[start:])
}
