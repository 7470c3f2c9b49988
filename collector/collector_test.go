package collector

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	substraitpb "github.com/substrait-io/substrait-go/proto"
	"github.com/substrait-io/substrait-go/proto/extensions"
	"google.golang.org/protobuf/proto"

	"github.com/cube2222/octosubstrait/functions"
	"github.com/cube2222/octosubstrait/lookup"
	"github.com/cube2222/octosubstrait/types"
)

const (
	arithmeticURI = "/functions_arithmetic.yaml"
	comparisonURI = "/functions_comparison.yaml"
	unknownURI    = "/types_unknown.yaml"
)

func variant(uri, name string, argTypes ...types.Type) *functions.Variant {
	arguments := make([]functions.Argument, len(argTypes))
	for i := range argTypes {
		arguments[i] = functions.NewValueArgument("", argTypes[i])
	}
	return &functions.Variant{Name: name, URI: uri, Arguments: arguments, Return: types.Boolean}
}

func functionDeclaration(uriReference, reference uint32, name string) *extensions.SimpleExtensionDeclaration {
	return &extensions.SimpleExtensionDeclaration{
		MappingType: &extensions.SimpleExtensionDeclaration_ExtensionFunction_{
			ExtensionFunction: &extensions.SimpleExtensionDeclaration_ExtensionFunction{
				ExtensionUriReference: uriReference,
				FunctionAnchor:        reference,
				Name:                  name,
			},
		},
	}
}

func typeDeclaration(uriReference, reference uint32, name string) *extensions.SimpleExtensionDeclaration {
	return &extensions.SimpleExtensionDeclaration{
		MappingType: &extensions.SimpleExtensionDeclaration_ExtensionType_{
			ExtensionType: &extensions.SimpleExtensionDeclaration_ExtensionType{
				ExtensionUriReference: uriReference,
				TypeAnchor:            reference,
				Name:                  name,
			},
		},
	}
}

func TestFunctionReference(t *testing.T) {
	c := New()

	add := variant(arithmeticURI, "add", types.Int8, types.Int8)
	lt := variant(comparisonURI, "lt", types.Int8, types.Int8)
	sameAdd := variant(arithmeticURI, "add", types.Int8, types.Int8)
	otherURIAdd := variant("/functions_other.yaml", "add", types.Int8, types.Int8)

	assert.Equal(t, uint32(1), c.FunctionReference(add))
	assert.Equal(t, uint32(2), c.FunctionReference(lt))
	assert.Equal(t, uint32(1), c.FunctionReference(add))
	assert.Equal(t, uint32(1), c.FunctionReference(sameAdd))
	assert.Equal(t, uint32(3), c.FunctionReference(otherURIAdd))
	assert.Equal(t, 3, c.FunctionCount())
	assertInverse(t, c.functions)

	anchor, err := c.FunctionAnchor(2)
	require.NoError(t, err)
	assert.Equal(t, functions.Anchor{URI: comparisonURI, Key: "lt:i8_i8"}, anchor)

	_, err = c.FunctionAnchor(4)
	assert.Equal(t, ErrUnknownFunctionReference, errors.Cause(err))
	_, err = c.FunctionAnchor(0)
	assert.Equal(t, ErrUnknownFunctionReference, errors.Cause(err))
}

func TestTypeReference(t *testing.T) {
	c := New()
	unknown := functions.TypeAnchor{URI: unknownURI, Name: "unknown"}
	point := functions.TypeAnchor{URI: "/types_geo.yaml", Name: "point"}

	assert.Equal(t, uint32(1), c.TypeReference(unknown))
	assert.Equal(t, uint32(2), c.TypeReference(point))
	assert.Equal(t, uint32(1), c.TypeReference(unknown))
	assert.Equal(t, 2, c.TypeCount())

	// Function and type references are independent.
	assert.Equal(t, uint32(1), c.FunctionReference(variant(arithmeticURI, "add", types.Int8, types.Int8)))

	anchor, err := c.TypeAnchor(2)
	require.NoError(t, err)
	assert.Equal(t, point, anchor)
	_, err = c.TypeAnchor(3)
	assert.Equal(t, ErrUnknownTypeReference, errors.Cause(err))
}

func TestFlush(t *testing.T) {
	c := New()
	c.FunctionReference(variant(comparisonURI, "lt", types.Int8, types.Int8))
	c.FunctionReference(variant(arithmeticURI, "add", types.Int8, types.Int8))
	c.FunctionReference(variant(comparisonURI, "gt", types.Int32, types.Int32))
	c.TypeReference(functions.TypeAnchor{URI: unknownURI, Name: "unknown"})

	plan := &substraitpb.Plan{}
	c.Flush(plan)

	want := &substraitpb.Plan{
		ExtensionUris: []*extensions.SimpleExtensionURI{
			{ExtensionUriAnchor: 1, Uri: comparisonURI},
			{ExtensionUriAnchor: 2, Uri: arithmeticURI},
			{ExtensionUriAnchor: 3, Uri: unknownURI},
		},
		Extensions: []*extensions.SimpleExtensionDeclaration{
			functionDeclaration(1, 1, "lt:i8_i8"),
			functionDeclaration(2, 2, "add:i8_i8"),
			functionDeclaration(1, 3, "gt:i32_i32"),
			typeDeclaration(3, 1, "unknown"),
		},
	}
	assert.True(t, proto.Equal(want, plan), "got %v", plan)
}

func TestFlushExistingURIs(t *testing.T) {
	c := New()
	c.FunctionReference(variant(arithmeticURI, "add", types.Int8, types.Int8))
	c.FunctionReference(variant(comparisonURI, "lt", types.Int8, types.Int8))

	plan := &substraitpb.Plan{
		ExtensionUris: []*extensions.SimpleExtensionURI{
			{ExtensionUriAnchor: 5, Uri: arithmeticURI},
		},
	}
	c.Flush(plan)

	want := &substraitpb.Plan{
		ExtensionUris: []*extensions.SimpleExtensionURI{
			{ExtensionUriAnchor: 5, Uri: arithmeticURI},
			{ExtensionUriAnchor: 6, Uri: comparisonURI},
		},
		Extensions: []*extensions.SimpleExtensionDeclaration{
			functionDeclaration(5, 1, "add:i8_i8"),
			functionDeclaration(6, 2, "lt:i8_i8"),
		},
	}
	assert.True(t, proto.Equal(want, plan), "got %v", plan)
}

func TestFromPlan(t *testing.T) {
	c := New()
	add := variant(arithmeticURI, "add", types.Int8, types.Int8)
	lt := variant(comparisonURI, "lt", types.Int8, types.Int8)
	c.FunctionReference(add)
	c.FunctionReference(lt)
	c.TypeReference(functions.TypeAnchor{URI: unknownURI, Name: "unknown"})

	plan := &substraitpb.Plan{}
	c.Flush(plan)

	read, err := FromPlan(plan)
	require.NoError(t, err)
	assert.Equal(t, 2, read.FunctionCount())
	assert.Equal(t, 1, read.TypeCount())
	for _, v := range []*functions.Variant{add, lt} {
		reference, ok := c.functions.Key(v.Anchor())
		require.True(t, ok)
		anchor, err := read.FunctionAnchor(reference)
		require.NoError(t, err)
		assert.Equal(t, v.Anchor(), anchor)
	}
	typeAnchor, err := read.TypeAnchor(1)
	require.NoError(t, err)
	assert.Equal(t, functions.TypeAnchor{URI: unknownURI, Name: "unknown"}, typeAnchor)

	// Existing references are kept, new ones continue after them.
	assert.Equal(t, uint32(2), read.FunctionReference(lt))
	assert.Equal(t, uint32(3), read.FunctionReference(variant(comparisonURI, "gt", types.Int8, types.Int8)))
	assert.Equal(t, uint32(2), read.TypeReference(functions.TypeAnchor{URI: "/types_geo.yaml", Name: "point"}))
}

func TestFromPlanErrors(t *testing.T) {
	plan := &substraitpb.Plan{
		ExtensionUris: []*extensions.SimpleExtensionURI{
			{ExtensionUriAnchor: 1, Uri: arithmeticURI},
		},
		Extensions: []*extensions.SimpleExtensionDeclaration{
			functionDeclaration(1, 1, "add:i8_i8"),
			functionDeclaration(2, 2, "lt:i8_i8"),
		},
	}
	_, err := FromPlan(plan)
	assert.Equal(t, ErrUnknownExtensionURI, errors.Cause(err))

	plan.Extensions = []*extensions.SimpleExtensionDeclaration{typeDeclaration(3, 1, "unknown")}
	_, err = FromPlan(plan)
	assert.Equal(t, ErrUnknownExtensionURI, errors.Cause(err))

	plan.Extensions = []*extensions.SimpleExtensionDeclaration{
		functionDeclaration(1, 1, "add:i8_i8"),
		functionDeclaration(1, 1, "subtract:i8_i8"),
	}
	_, err = FromPlan(plan)
	assert.Equal(t, ErrDuplicateReference, errors.Cause(err))

	plan.Extensions = []*extensions.SimpleExtensionDeclaration{
		typeDeclaration(1, 1, "unknown"),
		typeDeclaration(1, 1, "point"),
	}
	_, err = FromPlan(plan)
	assert.Equal(t, ErrDuplicateReference, errors.Cause(err))
}

func TestFlushTwice(t *testing.T) {
	c := New()
	c.FunctionReference(variant(comparisonURI, "lt", types.Int8, types.Int8))
	c.TypeReference(functions.TypeAnchor{URI: unknownURI, Name: "unknown"})

	plan := &substraitpb.Plan{}
	c.Flush(plan)
	once := proto.Clone(plan)
	c.Flush(plan)
	assert.True(t, proto.Equal(once, plan), "got %v", plan)

	// Only the anchors added in between are appended.
	c.FunctionReference(variant(arithmeticURI, "add", types.Int8, types.Int8))
	c.Flush(plan)
	want := &substraitpb.Plan{
		ExtensionUris: []*extensions.SimpleExtensionURI{
			{ExtensionUriAnchor: 1, Uri: comparisonURI},
			{ExtensionUriAnchor: 2, Uri: unknownURI},
			{ExtensionUriAnchor: 3, Uri: arithmeticURI},
		},
		Extensions: []*extensions.SimpleExtensionDeclaration{
			functionDeclaration(1, 1, "lt:i8_i8"),
			typeDeclaration(2, 1, "unknown"),
			functionDeclaration(3, 2, "add:i8_i8"),
		},
	}
	assert.True(t, proto.Equal(want, plan), "got %v", plan)
}

func TestFromPlanRepeatedAnchor(t *testing.T) {
	plan := &substraitpb.Plan{
		ExtensionUris: []*extensions.SimpleExtensionURI{
			{ExtensionUriAnchor: 1, Uri: arithmeticURI},
			{ExtensionUriAnchor: 2, Uri: unknownURI},
		},
		Extensions: []*extensions.SimpleExtensionDeclaration{
			functionDeclaration(1, 1, "add:i8_i8"),
			functionDeclaration(1, 2, "add:i8_i8"),
			typeDeclaration(2, 1, "unknown"),
			typeDeclaration(2, 4, "unknown"),
		},
	}
	read, err := FromPlan(plan)
	require.NoError(t, err)

	add := functions.Anchor{URI: arithmeticURI, Key: "add:i8_i8"}
	for _, reference := range []uint32{1, 2} {
		anchor, err := read.FunctionAnchor(reference)
		require.NoError(t, err)
		assert.Equal(t, add, anchor)
	}
	for _, reference := range []uint32{1, 4} {
		anchor, err := read.TypeAnchor(reference)
		require.NoError(t, err)
		assert.Equal(t, functions.TypeAnchor{URI: unknownURI, Name: "unknown"}, anchor)
	}
	assert.Equal(t, 1, read.FunctionCount())
	assert.Equal(t, 1, read.TypeCount())

	v := variant(arithmeticURI, "add", types.Int8, types.Int8)
	assert.Equal(t, uint32(1), read.FunctionReference(v))
	got, err := read.FunctionVariant(2, anchorSet{v.Anchor(): v})
	require.NoError(t, err)
	assert.Same(t, v, got)
	assert.Equal(t, uint32(3), read.FunctionReference(variant(arithmeticURI, "add", types.Int16, types.Int16)))
	assert.Equal(t, uint32(5), read.TypeReference(functions.TypeAnchor{URI: "/types_geo.yaml", Name: "point"}))

	// Flushing back into the plan it was read from only appends the new references.
	before := proto.Clone(plan)
	read.Flush(plan)
	assert.Len(t, plan.Extensions, len(before.(*substraitpb.Plan).Extensions)+2)
}

type anchorSet map[functions.Anchor]*functions.Variant

func (s anchorSet) FindAnchor(anchor functions.Anchor) (*functions.Variant, bool) {
	v, ok := s[anchor]
	return v, ok
}

func TestFunctionVariant(t *testing.T) {
	add := variant(arithmeticURI, "add", types.Int8, types.Int8)
	finder := anchorSet{add.Anchor(): add}

	c := New()
	addReference := c.FunctionReference(add)
	ltReference := c.FunctionReference(variant(comparisonURI, "lt", types.Int8, types.Int8))

	got, err := c.FunctionVariant(addReference, finder)
	require.NoError(t, err)
	assert.Same(t, add, got)

	_, err = c.FunctionVariant(ltReference, finder)
	assert.Equal(t, ErrUnknownFunctionReference, errors.Cause(err))

	_, err = c.FunctionVariant(42, finder)
	assert.Equal(t, ErrUnknownFunctionReference, errors.Cause(err))
}

func TestTypeResolver(t *testing.T) {
	c := New()
	resolver := &TypeResolver{
		Collector: c,
		Types:     lookup.NewTypeLookup([]functions.TypeAnchor{{URI: unknownURI, Name: types.UnknownTypeName}}),
	}

	pt, err := types.ToProto(types.NewList(types.Unknown), resolver)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), pt.GetList().GetType().GetUserDefined().GetTypeReference())
	anchor, err := c.TypeAnchor(1)
	require.NoError(t, err)
	assert.Equal(t, types.UnknownTypeName, anchor.Name)

	back, err := types.FromProto(pt, resolver)
	require.NoError(t, err)
	assert.True(t, types.NewList(types.Unknown).Equals(back))

	_, err = types.ToProto(types.NewUserDefined("point"), resolver)
	assert.Equal(t, types.ErrUnsupportedType, errors.Cause(err))

	_, err = resolver.TypeName(9)
	assert.Equal(t, ErrUnknownTypeReference, errors.Cause(err))
}
