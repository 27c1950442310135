package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Count is a non-negative quantity that tolerates the loose shapes found in
// exported form data: numbers, numeric strings, or nothing at all. Anything
// unparseable decodes to zero rather than failing the whole record. Values
// above MaxCount are clamped so they fit the INTEGER columns of the store.
type Count int

// MaxCount is the largest quantity a record can carry.
const MaxCount = math.MaxInt32

func clampCount(f float64) Count {
	switch {
	case math.IsNaN(f), math.IsInf(f, 0), f <= 0:
		return 0
	case f >= MaxCount:
		return MaxCount
	}
	return Count(int(f))
}

func parseCount(s string) Count {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return clampCount(float64(n))
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return clampCount(f)
	}
	return 0
}

func (c *Count) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		*c = 0
		return nil
	}
	switch v := raw.(type) {
	case float64:
		*c = clampCount(v)
	case string:
		*c = parseCount(v)
	default:
		*c = 0
	}
	return nil
}

func (c *Count) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		*c = 0
		return nil
	}
	*c = parseCount(node.Value)
	return nil
}

func (c Count) Int() int { return int(c) }
