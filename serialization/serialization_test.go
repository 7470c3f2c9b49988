package serialization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	substraitpb "github.com/substrait-io/substrait-go/proto"
	"github.com/substrait-io/substrait-go/proto/extensions"
	"google.golang.org/protobuf/proto"

	"github.com/cube2222/octosubstrait/collector"
	"github.com/cube2222/octosubstrait/functions"
	"github.com/cube2222/octosubstrait/types"
)

func testPlan(t *testing.T) *substraitpb.Plan {
	c := collector.New()
	c.FunctionReference(&functions.Variant{
		Name:      "lt",
		URI:       "/functions_comparison.yaml",
		Arguments: []functions.Argument{functions.NewValueArgument("x", types.Int8), functions.NewValueArgument("y", types.Int8)},
		Return:    types.Boolean,
	})
	c.TypeReference(functions.TypeAnchor{URI: "/types_unknown.yaml", Name: types.UnknownTypeName})

	plan := &substraitpb.Plan{}
	c.Flush(plan)
	require.Len(t, plan.Extensions, 2)
	return plan
}

func TestSerialize(t *testing.T) {
	plan := testPlan(t)

	data, err := Serialize(plan)
	require.NoError(t, err)
	got, err := Deserialize(data)
	require.NoError(t, err)
	assert.True(t, proto.Equal(plan, got))

	_, err = Deserialize([]byte{0xff, 0xff, 0xff})
	assert.Error(t, err)
}

func TestJSON(t *testing.T) {
	plan := testPlan(t)

	data, err := MarshalJSON(plan)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"extensionUris"`)
	assert.Contains(t, string(data), `"lt:i8_i8"`)

	var got substraitpb.Plan
	require.NoError(t, UnmarshalJSON(data, &got))
	assert.True(t, proto.Equal(plan, &got))

	var uri extensions.SimpleExtensionURI
	assert.Error(t, UnmarshalJSON([]byte(`{"uri": 5}`), &uri))

	pt, err := types.ToProto(types.NewDecimal(types.NewStringLiteral("10"), types.NewStringLiteral("2")), nil)
	require.NoError(t, err)
	data, err = MarshalJSON(pt)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"precision"`)
}
