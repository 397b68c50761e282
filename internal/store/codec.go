package store

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zhouzirui/roster/backend/internal/model/roster"
)

// Codec converts between the data file bytes and a Dataset.
type Codec interface {
	Name() string
	Decode(data []byte, ds *roster.Dataset) error
	Encode(ds *roster.Dataset) ([]byte, error)
}

// CodecFor picks a codec from the file extension. Unknown extensions use JSON.
func CodecFor(path string) Codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAMLCodec{}
	default:
		return JSONCodec{}
	}
}

// JSONCodec keeps numbers as json.Number so integers round-trip exactly.
type JSONCodec struct{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Decode(data []byte, ds *roster.Dataset) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(ds)
}

func (JSONCodec) Encode(ds *roster.Dataset) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(ds); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// YAMLCodec stores the same layout as YAML.
type YAMLCodec struct{}

func (YAMLCodec) Name() string { return "yaml" }

func (YAMLCodec) Decode(data []byte, ds *roster.Dataset) error {
	return yaml.Unmarshal(data, ds)
}

func (YAMLCodec) Encode(ds *roster.Dataset) ([]byte, error) {
	out := roster.Dataset{
		People:      make([]roster.Person, len(ds.People)),
		Departments: make([]roster.Department, len(ds.Departments)),
	}
	for i, p := range ds.People {
		out.People[i] = roster.Person(plainMap(p))
	}
	for i, d := range ds.Departments {
		out.Departments[i] = plain(d)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// plain turns json.Number values (from request bodies) into native numbers so
// yaml does not write them as quoted strings.
func plain(v any) any {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return string(t)
	case map[string]any:
		return plainMap(t)
	case roster.Person:
		return plainMap(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = plain(item)
		}
		return out
	default:
		return v
	}
}

func plainMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = plain(v)
	}
	return out
}
