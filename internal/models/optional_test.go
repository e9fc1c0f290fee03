package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type optionalPayload struct {
	Name Optional[string] `json:"name"`
}

func TestOptional_Unmarshal(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantSet   bool
		wantValue string
	}{
		{name: "omitted", body: `{}`},
		{name: "null", body: `{"name":null}`},
		{name: "empty string", body: `{"name":""}`, wantSet: true},
		{name: "value", body: `{"name":"bob"}`, wantSet: true, wantValue: "bob"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p optionalPayload
			require.NoError(t, json.Unmarshal([]byte(tt.body), &p))

			v, ok := p.Name.Get()
			assert.Equal(t, tt.wantSet, ok)
			assert.Equal(t, tt.wantValue, v)
		})
	}
}

func TestOptional_WrongType(t *testing.T) {
	var p optionalPayload
	assert.Error(t, json.Unmarshal([]byte(`{"name":42}`), &p))
}

func TestSome(t *testing.T) {
	o := Some("x")
	assert.True(t, o.Set)
	assert.Equal(t, "x", o.Value)
}
