package roster

import (
	"encoding/json"
	"math"
)

// IDField is the reserved key holding a person's identifier.
const IDField = "Id"

// Person is an open set of fields plus the store-assigned Id.
type Person map[string]any

// ID extracts the integer identifier. Non-integral or missing values report false.
func (p Person) ID() (int64, bool) {
	switch v := p[IDField].(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, true
		}
		if f, err := v.Float64(); err == nil {
			return floatID(f)
		}
	case int:
		return int64(v), true
	case int64:
		return v, true
	case int32:
		return int64(v), true
	case uint64:
		if v <= math.MaxInt64 {
			return int64(v), true
		}
	case float64:
		return floatID(v)
	}
	return 0, false
}

func floatID(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

// Clone returns a shallow copy.
func (p Person) Clone() Person {
	out := make(Person, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// WithID returns a copy of p whose Id is set to id.
func (p Person) WithID(id int64) Person {
	out := p.Clone()
	out[IDField] = id
	return out
}

// Merge overlays every top-level field of patch onto a copy of p. Nested values
// are replaced, never combined. The Id of p is kept.
func (p Person) Merge(patch Person) Person {
	out := p.Clone()
	for k, v := range patch {
		if k == IDField {
			continue
		}
		out[k] = v
	}
	return out
}
