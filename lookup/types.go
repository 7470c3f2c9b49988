package lookup

import (
	"github.com/cube2222/octosubstrait/functions"
	"github.com/cube2222/octosubstrait/types"
)

// TypeLookup finds declared user defined types by name.
type TypeLookup struct {
	anchors map[string]functions.TypeAnchor
}

// NewTypeLookup indexes the anchors by name. The first declaration of a name wins.
func NewTypeLookup(anchors []functions.TypeAnchor) *TypeLookup {
	out := &TypeLookup{
		anchors: make(map[string]functions.TypeAnchor, len(anchors)),
	}
	for _, anchor := range anchors {
		if _, ok := out.anchors[anchor.Name]; !ok {
			out.anchors[anchor.Name] = anchor
		}
	}
	return out
}

func (l *TypeLookup) LookupType(name string) (functions.TypeAnchor, bool) {
	anchor, ok := l.anchors[name]
	return anchor, ok
}

func (l *TypeLookup) LookupUnknownType() (functions.TypeAnchor, bool) {
	return l.LookupType(types.UnknownTypeName)
}
