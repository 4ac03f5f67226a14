package client

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResult(t *testing.T) {
	ok := Ok(5)
	v, got := ok.Value()
	assert.True(t, got)
	assert.Equal(t, 5, v)
	assert.Equal(t, FailureNone, ok.Kind())
	assert.Equal(t, "fallback", ok.ReasonOr("fallback"))

	failed := Fail[int](FailureRejected, "nope")
	v, got = failed.Value()
	assert.False(t, got)
	assert.Zero(t, v)
	assert.Equal(t, "nope", failed.ReasonOr("fallback"))
}

func TestFlexString(t *testing.T) {
	var out struct {
		A flexString `json:"a"`
		B flexString `json:"b"`
		C flexString `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"x1","b":123,"c":null}`), &out))
	assert.Equal(t, flexString("x1"), out.A)
	assert.Equal(t, flexString("123"), out.B)
	assert.Equal(t, flexString(""), out.C)
}

func TestFlexInt(t *testing.T) {
	var out struct {
		A flexInt `json:"a"`
		B flexInt `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":45,"b":" 60 "}`), &out))
	assert.Equal(t, flexInt(45), out.A)
	assert.Equal(t, flexInt(60), out.B)

	assert.Error(t, json.Unmarshal([]byte(`{"a":"soon"}`), &out))
}

func TestDetailText(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty", ``, ""},
		{"string", `"  Slot taken "`, "Slot taken"},
		{"list", `[{"msg":"a"},{"msg":""},{"msg":"b"}]`, "a; b"},
		{"object", `{"msg":"a"}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detailText(json.RawMessage(tt.raw)))
		})
	}
}
