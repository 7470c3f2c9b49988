package collector

import (
	"github.com/pkg/errors"

	"github.com/cube2222/octosubstrait/lookup"
	"github.com/cube2222/octosubstrait/types"
)

// TypeResolver resolves user defined types through the declared type anchors,
// allocating plan references in the collector.
type TypeResolver struct {
	Collector *Collector
	Types     *lookup.TypeLookup
}

func (r *TypeResolver) TypeReference(name string) (uint32, error) {
	anchor, ok := r.Types.LookupType(name)
	if !ok {
		return 0, errors.Wrapf(types.ErrUnsupportedType, "user defined type '%s' isn't declared", name)
	}
	return r.Collector.TypeReference(anchor), nil
}

func (r *TypeResolver) TypeName(reference uint32) (string, error) {
	anchor, err := r.Collector.TypeAnchor(reference)
	if err != nil {
		return "", err
	}
	return anchor.Name, nil
}
