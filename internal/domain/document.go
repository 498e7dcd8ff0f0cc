package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Kind is the shape of a persisted JSON document.
type Kind int

const (
	// KindArray documents grow by concatenation.
	KindArray Kind = iota
	// KindObject documents grow by shallow merge.
	KindObject
	// KindPrimitive documents are replaced wholesale by the next write.
	KindPrimitive
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindPrimitive:
		return "primitive"
	default:
		return "unknown"
	}
}

// Document is a parsed JSON value tagged by its shape.
// Values are generic JSON values: []any, map[string]any, string,
// json.Number, bool or nil.
type Document struct {
	kind   Kind
	array  []any
	object map[string]any
	value  any
}

// DocumentOf classifies a generic JSON value.
func DocumentOf(v any) Document {
	switch t := v.(type) {
	case []any:
		return Document{kind: KindArray, array: t}
	case map[string]any:
		return Document{kind: KindObject, object: t}
	default:
		return Document{kind: KindPrimitive, value: t}
	}
}

// EmptyFor returns the empty container a new file starts from:
// an object for object data, an array for everything else.
func EmptyFor(data any) Document {
	if _, ok := data.(map[string]any); ok {
		return Document{kind: KindObject, object: map[string]any{}}
	}
	return Document{kind: KindArray, array: []any{}}
}

// ParseDocument parses raw file content. Whitespace-only content yields
// EmptyFor(data). Invalid JSON is reported as ErrCorruptDocument.
func ParseDocument(raw []byte, data any) (Document, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return EmptyFor(data), nil
	}
	v, err := DecodeJSON(raw)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %w", ErrCorruptDocument, err)
	}
	return DocumentOf(v), nil
}

// Kind returns the document shape.
func (d Document) Kind() Kind { return d.kind }

// Value returns the document as a generic JSON value.
func (d Document) Value() any {
	switch d.kind {
	case KindArray:
		return d.array
	case KindObject:
		return d.object
	default:
		return d.value
	}
}

// Merge folds data into the document and returns the result.
// The receiver is not modified.
func (d Document) Merge(data any) Document {
	switch d.kind {
	case KindArray:
		return mergeArray(d.array, data)
	case KindObject:
		return mergeObject(d.object, data)
	default:
		return DocumentOf(data)
	}
}

func mergeArray(current []any, data any) Document {
	next := make([]any, 0, len(current)+1)
	next = append(next, current...)
	if items, ok := data.([]any); ok {
		next = append(next, items...)
	} else {
		next = append(next, data)
	}
	return Document{kind: KindArray, array: next}
}

func mergeObject(current map[string]any, data any) Document {
	add, ok := data.(map[string]any)
	if !ok {
		add = map[string]any{"value": data}
	}
	next := make(map[string]any, len(current)+len(add))
	for k, v := range current {
		next[k] = v
	}
	for k, v := range add {
		next[k] = v
	}
	return Document{kind: KindObject, object: next}
}

// Normalize converts any marshalable Go value into its generic JSON form,
// so structs merge the same way as the objects they encode to.
func Normalize(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return DecodeJSON(b)
}

// DecodeJSON decodes exactly one JSON value, keeping numbers as json.Number
// so they round-trip without precision loss.
func DecodeJSON(b []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("invalid character after top-level value")
	}
	return v, nil
}

// EncodeJSON encodes v without HTML escaping. A non-empty indent
// pretty-prints. The result has no trailing newline.
func EncodeJSON(v any, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
