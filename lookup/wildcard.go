package lookup

import (
	"github.com/cube2222/octosubstrait/functions"
	"github.com/cube2222/octosubstrait/types"
)

// wildcardVariant is a declaration with wildcard arguments, together with the partition
// of its value argument positions into classes of positions which must share a type.
type wildcardVariant struct {
	underlying *functions.Variant
	partition  []int
}

func newWildcardVariant(variant *functions.Variant) *wildcardVariant {
	valueTypes := variant.ValueArguments()
	signatures := make([]string, len(valueTypes))
	for i := range valueTypes {
		signatures[i] = valueTypes[i].Signature()
	}
	return &wildcardVariant{
		underlying: variant,
		partition:  partition(signatures),
	}
}

// partition numbers distinct values by order of first occurrence and returns the number of each position.
func partition(values []string) []int {
	classes := make(map[string]int, len(values))
	out := make([]int, len(values))
	for i, value := range values {
		class, ok := classes[value]
		if !ok {
			class = len(classes)
			classes[value] = class
		}
		out[i] = class
	}
	return out
}

func (w *wildcardVariant) tryMatch(query Signature) (*functions.Variant, bool) {
	if !w.matches(query.Arguments) {
		return nil, false
	}
	return w.underlying.Instantiate(query.Arguments), true
}

// matches compares only the shape of the partitions, not the types themselves.
func (w *wildcardVariant) matches(argTypes []types.Type) bool {
	if len(argTypes) != len(w.partition) {
		return false
	}
	signatures := make([]string, len(argTypes))
	for i := range argTypes {
		signatures[i] = argTypes[i].Signature()
	}
	queryPartition := partition(signatures)
	for i := range w.partition {
		if w.partition[i] != queryPartition[i] {
			return false
		}
	}
	return true
}
