package extensions

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cube2222/octosubstrait/functions"
	"github.com/cube2222/octosubstrait/types"
)

func signatures(variants []*functions.Variant) []string {
	out := make([]string, len(variants))
	for i := range variants {
		out[i] = variants[i].Signature()
	}
	return out
}

func TestParse(t *testing.T) {
	data := []byte(`
types:
  - name: point
scalar_functions:
  - name: add
    description: Add two values.
    impls:
      - args:
          - options: [SILENT, SATURATE, ERROR]
            required: false
          - name: x
            value: i8
          - name: y
            value: i8
        return: i8
      - args:
          - name: x
            value: decimal<P1,S1>
          - name: y
            value: decimal<P2,S2>
        return: |-
          init_scale = max(S1,S2)
          DECIMAL<38, init_scale>
aggregate_functions:
  - name: sum
    impls:
      - args:
          - name: x
            value: i32
        intermediate: i64?
        return: i64?
`)
	catalog, err := Parse("/functions_arithmetic.yaml", data)
	require.NoError(t, err)

	assert.Equal(t, []string{"add:opt_i8_i8", "add:dec<P1,S1>_dec<P2,S2>"}, signatures(catalog.ScalarVariants()))
	assert.Equal(t, []string{"sum:i32"}, signatures(catalog.AggregateVariants()))
	assert.Equal(t, []functions.TypeAnchor{{URI: "/functions_arithmetic.yaml", Name: "point"}}, catalog.Types())

	add := catalog.ScalarVariants()[0]
	assert.Equal(t, "/functions_arithmetic.yaml", add.URI)
	assert.Equal(t, "Add two values.", add.Description)
	assert.Equal(t, []string{"SILENT", "SATURATE", "ERROR"}, add.Arguments[0].Options)
	assert.False(t, add.Arguments[0].IsRequired())
	assert.Equal(t, "x", add.Arguments[1].Name)

	decimalAdd := catalog.ScalarVariants()[1]
	assert.Equal(t, "dec<38,init_scale>", decimalAdd.Return.Signature())

	sum := catalog.AggregateVariants()[0]
	assert.Equal(t, functions.VariantKindAggregate, sum.Kind)
	require.NotNil(t, sum.Intermediate)
	assert.Equal(t, "sum:i64", sum.IntermediateSignature())
	assert.True(t, types.Int64.Equals(sum.Return))
}

func TestParseVersionDirective(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "directive", data: "%YAML 1.2\n---\nscalar_functions:\n  - name: not\n    impls:\n      - args:\n          - value: boolean\n        return: boolean\n"},
		{name: "comment before directive", data: "# boolean functions\n%YAML 1.2\n---\nscalar_functions:\n  - name: not\n    impls:\n      - args:\n          - value: boolean\n        return: boolean\n"},
		{name: "no directive", data: "scalar_functions:\n  - name: not\n    impls:\n      - args:\n          - value: boolean\n        return: boolean\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog, err := Parse("/functions_boolean.yaml", []byte(tt.data))
			require.NoError(t, err)
			assert.Equal(t, []string{"not:bool"}, signatures(catalog.ScalarVariants()))
		})
	}

	catalog, err := Parse("/x.yaml", []byte("%YAML 1.2\n---\nscalar_functions: []\n"))
	require.NoError(t, err)
	assert.Empty(t, catalog.ScalarVariants())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{
			name: "missing return",
			data: `
scalar_functions:
  - name: f
    impls:
      - args:
          - value: i8
`,
			wantErr: ErrInvalidDeclaration,
		},
		{
			name: "empty argument",
			data: `
scalar_functions:
  - name: f
    impls:
      - args:
          - name: x
        return: i8
`,
			wantErr: ErrInvalidDeclaration,
		},
		{
			name: "unnamed function",
			data: `
scalar_functions:
  - impls:
      - return: i8
`,
			wantErr: ErrInvalidDeclaration,
		},
		{
			name: "unnamed type",
			data: `
types:
  - structure: i8
`,
			wantErr: ErrInvalidDeclaration,
		},
		{
			name: "unsupported argument type",
			data: `
scalar_functions:
  - name: f
    impls:
      - args:
          - value: tensor<i8>
        return: i8
`,
			wantErr: types.ErrUnsupportedType,
		},
		{
			name: "malformed return type",
			data: `
scalar_functions:
  - name: f
    impls:
      - return: list<i8,i16>
`,
			wantErr: types.ErrMalformedType,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("/test.yaml", []byte(tt.data))
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, errors.Cause(err))
		})
	}
}

func TestLoad(t *testing.T) {
	catalog, err := Load("testdata/functions_test.yaml")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"test_fn:any1_any1",
		"test_fn:any1_any2",
		"test_fn:i8_any1_any1_any2",
		"test_fn:any1_any1_any2_any2_i8",
		"test_fn:any1_i8_any1_i16_any2",
	}, signatures(catalog.Function(functions.VariantKindScalar, "test_fn")))
	assert.Equal(t, []string{"cast_to:any1_type"}, signatures(catalog.Function(functions.VariantKindScalar, "cast_to")))
	assert.Equal(t, "/functions_test.yaml", catalog.ScalarVariants()[0].URI)

	_, err = Load("testdata/missing.yaml")
	assert.Error(t, err)
}

func TestLoadDefault(t *testing.T) {
	catalog, err := LoadDefault()
	require.NoError(t, err)

	tests := []struct {
		kind      functions.VariantKind
		signature string
		uri       string
	}{
		{kind: functions.VariantKindScalar, signature: "add:opt_i8_i8", uri: "/functions_arithmetic.yaml"},
		{kind: functions.VariantKindScalar, signature: "divide:opt_opt_fp32_fp32", uri: "/functions_arithmetic.yaml"},
		{kind: functions.VariantKindScalar, signature: "lt:any1_any1", uri: "/functions_comparison.yaml"},
		{kind: functions.VariantKindScalar, signature: "between:any1_any1_any1", uri: "/functions_comparison.yaml"},
		{kind: functions.VariantKindScalar, signature: "and:bool_bool", uri: "/functions_boolean.yaml"},
		{kind: functions.VariantKindScalar, signature: "substring:str_i32_i32", uri: "/functions_string.yaml"},
		{kind: functions.VariantKindAggregate, signature: "sum:opt_i32", uri: "/functions_arithmetic.yaml"},
		{kind: functions.VariantKindAggregate, signature: "count:opt_any", uri: "/functions_aggregate_generic.yaml"},
		{kind: functions.VariantKindAggregate, signature: "count", uri: "/functions_aggregate_generic.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.signature, func(t *testing.T) {
			var found *functions.Variant
			for _, variant := range catalog.Variants(tt.kind) {
				if variant.Signature() == tt.signature {
					found = variant
					break
				}
			}
			require.NotNil(t, found)
			assert.Equal(t, tt.uri, found.URI)
		})
	}

	assert.Contains(t, catalog.Types(), functions.TypeAnchor{URI: "/types_unknown.yaml", Name: types.UnknownTypeName})
	assert.Len(t, catalog.Function(functions.VariantKindScalar, "add"), 7)
}
