package mcp

import (
	"encoding/json"
	"math"

	"github.com/gouniverse/maputils"
)

// toolArgs is the decoded "arguments" object of a tools/call request.
type toolArgs struct {
	raw     map[string]any
	strings map[string]string
}

func newToolArgs(raw map[string]any) toolArgs {
	return toolArgs{
		raw:     raw,
		strings: maputils.MapStringAnyToMapStringString(raw),
	}
}

func (a toolArgs) String(key string) string {
	if v, ok := a.raw[key]; !ok || v == nil {
		return ""
	}
	return a.strings[key]
}

// Int accepts whole JSON numbers only.
func (a toolArgs) Int(key string) (int, bool) {
	v, ok := a.raw[key]
	if !ok || v == nil {
		return 0, false
	}

	switch t := v.(type) {
	case json.Number:
		i64, err := t.Int64()
		if err != nil {
			return 0, false
		}
		return int(i64), true
	case float64:
		if t != math.Trunc(t) {
			return 0, false
		}
		return int(t), true
	case int:
		return t, true
	default:
		return 0, false
	}
}
