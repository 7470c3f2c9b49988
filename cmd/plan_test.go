package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCall(t *testing.T) {
	tests := []struct {
		call      string
		name      string
		signature string
		wantErr   bool
	}{
		{call: "count", name: "count", signature: "count"},
		{call: "count:", name: "count", signature: "count"},
		{call: "plus:i8,i8", name: "plus", signature: "plus:i8_i8"},
		{call: "lt:decimal<10,2>,decimal<10,2>", name: "lt", signature: "lt:dec<10,2>_dec<10,2>"},
		{call: "f:map<string,list<i32>>,boolean", name: "f", signature: "f:map<str,list<i32>>_bool"},
		{call: "f:i8,", wantErr: true},
		{call: "f:list<i8", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.call, func(t *testing.T) {
			got, err := parseCall(tt.call)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.name, got.Name)
			assert.Equal(t, tt.signature, got.Signature())
		})
	}
}
