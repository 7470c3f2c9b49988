package collector

import (
	"github.com/pkg/errors"
	substraitpb "github.com/substrait-io/substrait-go/proto"
	"github.com/substrait-io/substrait-go/proto/extensions"
	"go.uber.org/zap"

	"github.com/cube2222/octosubstrait/functions"
	"github.com/cube2222/octosubstrait/logs"
)

var (
	ErrUnknownFunctionReference = errors.New("unknown function reference")
	ErrUnknownTypeReference     = errors.New("unknown type reference")
	ErrUnknownExtensionURI      = errors.New("unknown extension uri reference")
	ErrDuplicateReference       = errors.New("reference declared more than once")
)

// AnchorFinder resolves function anchors to declared variants. It's implemented by lookup.FunctionLookup.
type AnchorFinder interface {
	FindAnchor(anchor functions.Anchor) (*functions.Variant, bool)
}

// Collector assigns plan-local references to the functions and types used in a plan,
// and writes them out as the plan's extension declarations.
// A Collector is meant for a single plan and is not safe for concurrent use.
type Collector struct {
	functions    *BiMap[uint32, functions.Anchor]
	types        *BiMap[uint32, functions.TypeAnchor]
	nextFunction uint32
	nextType     uint32

	// Plans may declare the same anchor under several references.
	// The first one is kept in the BiMap, the others only resolve forward.
	functionAliases map[uint32]functions.Anchor
	typeAliases     map[uint32]functions.TypeAnchor
}

// New creates an empty collector. References start at 1, as 0 is the unset value on the wire.
func New() *Collector {
	return &Collector{
		functions:       NewBiMap[uint32, functions.Anchor](),
		types:           NewBiMap[uint32, functions.TypeAnchor](),
		nextFunction:    1,
		nextType:        1,
		functionAliases: make(map[uint32]functions.Anchor),
		typeAliases:     make(map[uint32]functions.TypeAnchor),
	}
}

// FunctionReference returns the reference of the variant's anchor, allocating one on first use.
func (c *Collector) FunctionReference(variant *functions.Variant) uint32 {
	anchor := variant.Anchor()
	if reference, ok := c.functions.Key(anchor); ok {
		return reference
	}
	reference := c.nextFunction
	c.nextFunction++
	c.functions.Put(reference, anchor)
	return reference
}

// TypeReference returns the reference of the type anchor, allocating one on first use.
func (c *Collector) TypeReference(anchor functions.TypeAnchor) uint32 {
	if reference, ok := c.types.Key(anchor); ok {
		return reference
	}
	reference := c.nextType
	c.nextType++
	c.types.Put(reference, anchor)
	return reference
}

func (c *Collector) FunctionAnchor(reference uint32) (functions.Anchor, error) {
	if anchor, ok := c.functions.Value(reference); ok {
		return anchor, nil
	}
	if anchor, ok := c.functionAliases[reference]; ok {
		return anchor, nil
	}
	return functions.Anchor{}, errors.Wrapf(ErrUnknownFunctionReference, "%d", reference)
}

func (c *Collector) TypeAnchor(reference uint32) (functions.TypeAnchor, error) {
	if anchor, ok := c.types.Value(reference); ok {
		return anchor, nil
	}
	if anchor, ok := c.typeAliases[reference]; ok {
		return anchor, nil
	}
	return functions.TypeAnchor{}, errors.Wrapf(ErrUnknownTypeReference, "%d", reference)
}

// FunctionVariant resolves a function reference read from a plan to the declared variant.
func (c *Collector) FunctionVariant(reference uint32, finder AnchorFinder) (*functions.Variant, error) {
	anchor, err := c.FunctionAnchor(reference)
	if err != nil {
		return nil, err
	}
	variant, ok := finder.FindAnchor(anchor)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownFunctionReference, "%d refers to %s in %s, which isn't declared", reference, anchor.Key, anchor.URI)
	}
	return variant, nil
}

// FunctionCount returns the number of distinct function anchors, aliases aren't counted.
func (c *Collector) FunctionCount() int {
	return c.functions.Len()
}

func (c *Collector) TypeCount() int {
	return c.types.Len()
}

type declaredFunction struct {
	reference uint32
	anchor    functions.Anchor
}

type declaredType struct {
	reference uint32
	anchor    functions.TypeAnchor
}

// Flush appends the extension declarations of all collected anchors to the plan.
// Each distinct URI is declared once, URIs already declared in the plan are reused.
// Declarations the plan already contains are not repeated, so flushing again is a no-op.
func (c *Collector) Flush(plan *substraitpb.Plan) {
	uriAnchors := make(map[string]uint32, len(plan.ExtensionUris))
	uris := make(map[uint32]string, len(plan.ExtensionUris))
	var nextURIAnchor uint32 = 1
	for _, uri := range plan.ExtensionUris {
		if _, ok := uriAnchors[uri.Uri]; !ok {
			uriAnchors[uri.Uri] = uri.ExtensionUriAnchor
		}
		uris[uri.ExtensionUriAnchor] = uri.Uri
		if uri.ExtensionUriAnchor >= nextURIAnchor {
			nextURIAnchor = uri.ExtensionUriAnchor + 1
		}
	}

	declaredFunctions := make(map[declaredFunction]bool)
	declaredTypes := make(map[declaredType]bool)
	for _, decl := range plan.Extensions {
		switch mapping := decl.MappingType.(type) {
		case *extensions.SimpleExtensionDeclaration_ExtensionFunction_:
			declaredFunctions[declaredFunction{
				reference: mapping.ExtensionFunction.FunctionAnchor,
				anchor:    functions.Anchor{URI: uris[mapping.ExtensionFunction.ExtensionUriReference], Key: mapping.ExtensionFunction.Name},
			}] = true
		case *extensions.SimpleExtensionDeclaration_ExtensionType_:
			declaredTypes[declaredType{
				reference: mapping.ExtensionType.TypeAnchor,
				anchor:    functions.TypeAnchor{URI: uris[mapping.ExtensionType.ExtensionUriReference], Name: mapping.ExtensionType.Name},
			}] = true
		}
	}
	uriReference := func(uri string) uint32 {
		if anchor, ok := uriAnchors[uri]; ok {
			return anchor
		}
		anchor := nextURIAnchor
		nextURIAnchor++
		uriAnchors[uri] = anchor
		plan.ExtensionUris = append(plan.ExtensionUris, &extensions.SimpleExtensionURI{
			ExtensionUriAnchor: anchor,
			Uri:                uri,
		})
		return anchor
	}

	c.functions.Scan(func(reference uint32, anchor functions.Anchor) bool {
		if declaredFunctions[declaredFunction{reference: reference, anchor: anchor}] {
			return true
		}
		plan.Extensions = append(plan.Extensions, &extensions.SimpleExtensionDeclaration{
			MappingType: &extensions.SimpleExtensionDeclaration_ExtensionFunction_{
				ExtensionFunction: &extensions.SimpleExtensionDeclaration_ExtensionFunction{
					ExtensionUriReference: uriReference(anchor.URI),
					FunctionAnchor:        reference,
					Name:                  anchor.Key,
				},
			},
		})
		return true
	})
	c.types.Scan(func(reference uint32, anchor functions.TypeAnchor) bool {
		if declaredTypes[declaredType{reference: reference, anchor: anchor}] {
			return true
		}
		plan.Extensions = append(plan.Extensions, &extensions.SimpleExtensionDeclaration{
			MappingType: &extensions.SimpleExtensionDeclaration_ExtensionType_{
				ExtensionType: &extensions.SimpleExtensionDeclaration_ExtensionType{
					ExtensionUriReference: uriReference(anchor.URI),
					TypeAnchor:            reference,
					Name:                  anchor.Name,
				},
			},
		})
		return true
	})

	logs.Logger().Debug("flushed extension declarations",
		zap.Int("functions", c.functions.Len()),
		zap.Int("types", c.types.Len()),
		zap.Int("uris", len(plan.ExtensionUris)),
	)
}

// FromPlan reads the extension declarations of a plan, so references found in it can be resolved.
func FromPlan(plan *substraitpb.Plan) (*Collector, error) {
	uris := make(map[uint32]string, len(plan.ExtensionUris))
	for _, uri := range plan.ExtensionUris {
		uris[uri.ExtensionUriAnchor] = uri.Uri
	}

	c := New()
	for i, decl := range plan.Extensions {
		switch mapping := decl.MappingType.(type) {
		case *extensions.SimpleExtensionDeclaration_ExtensionFunction_:
			uri, ok := uris[mapping.ExtensionFunction.ExtensionUriReference]
			if !ok {
				return nil, errors.Wrapf(ErrUnknownExtensionURI, "function declaration %d references uri %d", i, mapping.ExtensionFunction.ExtensionUriReference)
			}
			reference := mapping.ExtensionFunction.FunctionAnchor
			if _, err := c.FunctionAnchor(reference); err == nil {
				return nil, errors.Wrapf(ErrDuplicateReference, "function declaration %d redeclares function reference %d", i, reference)
			}
			anchor := functions.Anchor{URI: uri, Key: mapping.ExtensionFunction.Name}
			if _, ok := c.functions.Key(anchor); ok {
				c.functionAliases[reference] = anchor
			} else {
				c.functions.Put(reference, anchor)
			}
			if reference >= c.nextFunction {
				c.nextFunction = reference + 1
			}
		case *extensions.SimpleExtensionDeclaration_ExtensionType_:
			uri, ok := uris[mapping.ExtensionType.ExtensionUriReference]
			if !ok {
				return nil, errors.Wrapf(ErrUnknownExtensionURI, "type declaration %d references uri %d", i, mapping.ExtensionType.ExtensionUriReference)
			}
			reference := mapping.ExtensionType.TypeAnchor
			if _, err := c.TypeAnchor(reference); err == nil {
				return nil, errors.Wrapf(ErrDuplicateReference, "type declaration %d redeclares type reference %d", i, reference)
			}
			anchor := functions.TypeAnchor{URI: uri, Name: mapping.ExtensionType.Name}
			if _, ok := c.types.Key(anchor); ok {
				c.typeAliases[reference] = anchor
			} else {
				c.types.Put(reference, anchor)
			}
			if reference >= c.nextType {
				c.nextType = reference + 1
			}
		default:
			logs.Logger().Debug("skipping unsupported extension declaration", zap.Int("index", i))
		}
	}
	return c, nil
}
