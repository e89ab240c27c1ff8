package executor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/soundprediction/stix-qa/pkg/types"
)

// Normalize converts a JSON-RPC result member into records.
//
// Absent, null, false, zero, empty-string and empty-array results are empty. Arrays yield one
// record per element, wrapping non-object elements as {"value": v}. A single
// object is one record. A string holding JSON is decoded the same way; any other
// string becomes {"text": s}. Numbers are kept as json.Number so values survive
// re-serialization unchanged.
func Normalize(raw json.RawMessage) (types.QueryResult, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return types.QueryResult{}, nil
	}

	var value interface{}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	if err := dec.Decode(&value); err != nil {
		return nil, fmt.Errorf("failed to decode query result: %w", err)
	}

	return fromValue(value, true), nil
}

func fromValue(value interface{}, decodeStrings bool) types.QueryResult {
	switch v := value.(type) {
	case nil:
		return types.QueryResult{}
	case bool:
		if !v {
			return types.QueryResult{}
		}
	case json.Number:
		if f, err := v.Float64(); err == nil && f == 0 {
			return types.QueryResult{}
		}
	case []interface{}:
		records := make(types.QueryResult, 0, len(v))
		for _, elem := range v {
			records = append(records, toRecord(elem))
		}
		return records
	case map[string]interface{}:
		return types.QueryResult{types.Record(v)}
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return types.QueryResult{}
		}
		if decodeStrings && (strings.HasPrefix(s, "[") || strings.HasPrefix(s, "{")) {
			var inner interface{}
			dec := json.NewDecoder(strings.NewReader(s))
			dec.UseNumber()
			if err := dec.Decode(&inner); err == nil && !dec.More() {
				return fromValue(inner, false)
			}
		}
		return types.QueryResult{{"text": v}}
	}
	return types.QueryResult{{"value": value}}
}

func toRecord(elem interface{}) types.Record {
	if m, ok := elem.(map[string]interface{}); ok {
		return types.Record(m)
	}
	return types.Record{"value": elem}
}
