package expressions

import (
	"github.com/apache/arrow/go/v13/arrow"
	"github.com/pkg/errors"
	substraitpb "github.com/substrait-io/substrait-go/proto"

	"github.com/cube2222/octosubstrait/collector"
	"github.com/cube2222/octosubstrait/functions"
	"github.com/cube2222/octosubstrait/lookup"
	"github.com/cube2222/octosubstrait/types"
)

var ErrNoMatchingVariant = errors.New("no matching function variant")

// Converter translates function calls between Arrow typed expressions and Substrait expressions.
// It shares its Collector with the rest of the plan conversion, so a Converter is used for a single plan.
type Converter struct {
	Scalar    *lookup.FunctionLookup
	Aggregate *lookup.FunctionLookup
	Types     *lookup.TypeLookup
	Collector *collector.Collector
}

// Call is a function call read back from a plan.
type Call struct {
	Name       string
	Variant    *functions.Variant
	Arguments  []*substraitpb.Expression
	ReturnType arrow.DataType
}

func (c *Converter) resolver() *collector.TypeResolver {
	return &collector.TypeResolver{
		Collector: c.Collector,
		Types:     c.Types,
	}
}

// ScalarFunction creates a scalar function call expression.
// If returnType is nil, the return type of the matched variant is used.
func (c *Converter) ScalarFunction(name string, argTypes []arrow.DataType, args []*substraitpb.Expression, returnType arrow.DataType) (*substraitpb.Expression, error) {
	variant, outputType, err := c.resolve(c.Scalar, name, argTypes, args, returnType)
	if err != nil {
		return nil, err
	}
	return &substraitpb.Expression{
		RexType: &substraitpb.Expression_ScalarFunction_{
			ScalarFunction: &substraitpb.Expression_ScalarFunction{
				FunctionReference: c.Collector.FunctionReference(variant),
				Arguments:         valueArguments(args),
				OutputType:        outputType,
			},
		},
	}, nil
}

// AggregateFunction creates an aggregate function call computing the final result from the input rows.
func (c *Converter) AggregateFunction(name string, argTypes []arrow.DataType, args []*substraitpb.Expression, returnType arrow.DataType) (*substraitpb.AggregateFunction, error) {
	variant, outputType, err := c.resolve(c.Aggregate, name, argTypes, args, returnType)
	if err != nil {
		return nil, err
	}
	return &substraitpb.AggregateFunction{
		FunctionReference: c.Collector.FunctionReference(variant),
		Arguments:         valueArguments(args),
		OutputType:        outputType,
		Phase:             substraitpb.AggregationPhase_AGGREGATION_PHASE_INITIAL_TO_RESULT,
	}, nil
}

func (c *Converter) resolve(functionLookup *lookup.FunctionLookup, name string, argTypes []arrow.DataType, args []*substraitpb.Expression, returnType arrow.DataType) (*functions.Variant, *substraitpb.Type, error) {
	if len(argTypes) != len(args) {
		return nil, nil, errors.Errorf("%s: got %d argument types for %d arguments", name, len(argTypes), len(args))
	}

	query := lookup.Signature{
		Name:      name,
		Arguments: make([]types.Type, len(argTypes)),
	}
	for i := range argTypes {
		t, err := types.FromArrow(argTypes[i])
		if err != nil {
			return nil, nil, errors.Wrapf(err, "couldn't map type of argument %d of %s", i, name)
		}
		query.Arguments[i] = t
	}
	if returnType != nil {
		t, err := types.FromArrow(returnType)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "couldn't map return type of %s", name)
		}
		query.Return = &t
	}

	variant, ok := functionLookup.LookupFunction(query)
	if !ok {
		return nil, nil, errors.Wrapf(ErrNoMatchingVariant, "%s", query)
	}

	output := variant.BoundReturn()
	if query.Return != nil {
		output = *query.Return
	}
	outputType, err := types.ToProto(output, c.resolver())
	if err != nil {
		return nil, nil, errors.Wrapf(err, "couldn't encode output type of %s", variant.Signature())
	}
	return variant, outputType, nil
}

func valueArguments(args []*substraitpb.Expression) []*substraitpb.FunctionArgument {
	out := make([]*substraitpb.FunctionArgument, len(args))
	for i := range args {
		out[i] = &substraitpb.FunctionArgument{
			ArgType: &substraitpb.FunctionArgument_Value{Value: args[i]},
		}
	}
	return out
}

func (c *Converter) ScalarFunctionFromProto(fn *substraitpb.Expression_ScalarFunction) (*Call, error) {
	return c.callFromProto(c.Scalar, fn.FunctionReference, fn.Arguments, fn.OutputType)
}

func (c *Converter) AggregateFunctionFromProto(fn *substraitpb.AggregateFunction) (*Call, error) {
	return c.callFromProto(c.Aggregate, fn.FunctionReference, fn.Arguments, fn.OutputType)
}

func (c *Converter) callFromProto(functionLookup *lookup.FunctionLookup, reference uint32, args []*substraitpb.FunctionArgument, outputType *substraitpb.Type) (*Call, error) {
	variant, err := c.Collector.FunctionVariant(reference, functionLookup)
	if err != nil {
		return nil, err
	}

	returnType, err := types.FromProto(outputType, c.resolver())
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't decode output type of %s", variant.Signature())
	}
	arrowReturnType, err := types.ToArrow(returnType)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't map output type of %s", variant.Signature())
	}

	var values []*substraitpb.Expression
	for _, arg := range args {
		if value := arg.GetValue(); value != nil {
			values = append(values, value)
		}
	}

	return &Call{
		Name:       variant.Name,
		Variant:    variant,
		Arguments:  values,
		ReturnType: arrowReturnType,
	}, nil
}
