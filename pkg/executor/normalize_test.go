package executor

import (
	"encoding/json"
	"testing"

	"github.com/soundprediction/stix-qa/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want types.QueryResult
	}{
		{"absent", ``, types.QueryResult{}},
		{"null", `null`, types.QueryResult{}},
		{"empty array", `[]`, types.QueryResult{}},
		{"empty string", `""`, types.QueryResult{}},
		{"records", `[{"name":"APT29"},{"name":"APT28"}]`, types.QueryResult{{"name": "APT29"}, {"name": "APT28"}}},
		{"scalar elements", `["a", 1]`, types.QueryResult{{"value": "a"}, {"value": json.Number("1")}}},
		{"single object", `{"count": 3}`, types.QueryResult{{"count": json.Number("3")}}},
		{"json string", `"[{\"name\":\"Emotet\"}]"`, types.QueryResult{{"name": "Emotet"}}},
		{"plain string", `"Query returned no structured rows"`, types.QueryResult{{"text": "Query returned no structured rows"}}},
		{"string that only looks like json", `"[not json"`, types.QueryResult{{"text": "[not json"}}},
		{"false", `false`, types.QueryResult{}},
		{"zero", `0`, types.QueryResult{}},
		{"zero float", `0.0`, types.QueryResult{}},
		{"true", `true`, types.QueryResult{{"value": true}}},
		{"bare number", `42`, types.QueryResult{{"value": json.Number("42")}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(json.RawMessage(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_PreservesLargeIntegers(t *testing.T) {
	got, err := Normalize(json.RawMessage(`[{"id": 9007199254740993}]`))
	require.NoError(t, err)

	out, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":9007199254740993}]`, string(out))
}

func TestNormalize_Invalid(t *testing.T) {
	_, err := Normalize(json.RawMessage(`{"unterminated"`))
	assert.Error(t, err)
}
