package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_Merge(t *testing.T) {
	tests := []struct {
		name     string
		current  any
		data     any
		wantKind Kind
		want     any
	}{
		{
			name:     "array concatenates array data",
			current:  []any{"a"},
			data:     []any{"b", "c"},
			wantKind: KindArray,
			want:     []any{"a", "b", "c"},
		},
		{
			name:     "array appends scalar data as one element",
			current:  []any{"a"},
			data:     "b",
			wantKind: KindArray,
			want:     []any{"a", "b"},
		},
		{
			name:     "array appends object data as one element",
			current:  []any{},
			data:     map[string]any{"k": "v"},
			wantKind: KindArray,
			want:     []any{map[string]any{"k": "v"}},
		},
		{
			name:     "object overlays object data",
			current:  map[string]any{"a": "1", "b": "2"},
			data:     map[string]any{"b": "3", "c": "4"},
			wantKind: KindObject,
			want:     map[string]any{"a": "1", "b": "3", "c": "4"},
		},
		{
			name:     "object wraps non-object data under value",
			current:  map[string]any{"a": "1"},
			data:     []any{"x"},
			wantKind: KindObject,
			want:     map[string]any{"a": "1", "value": []any{"x"}},
		},
		{
			name:     "primitive is replaced",
			current:  "old",
			data:     map[string]any{"new": true},
			wantKind: KindObject,
			want:     map[string]any{"new": true},
		},
		{
			name:     "null is replaced",
			current:  nil,
			data:     []any{"x"},
			wantKind: KindArray,
			want:     []any{"x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DocumentOf(tt.current).Merge(tt.data)
			assert.Equal(t, tt.wantKind, got.Kind())
			assert.Equal(t, tt.want, got.Value())
		})
	}
}

func TestDocument_MergeDoesNotModifyReceiver(t *testing.T) {
	current := map[string]any{"a": "1"}
	doc := DocumentOf(current)

	_ = doc.Merge(map[string]any{"a": "2"})

	assert.Equal(t, map[string]any{"a": "1"}, doc.Value())
}

func TestEmptyFor(t *testing.T) {
	assert.Equal(t, KindArray, EmptyFor([]any{1}).Kind())
	assert.Equal(t, KindObject, EmptyFor(map[string]any{}).Kind())
	assert.Equal(t, KindArray, EmptyFor("text").Kind())
	assert.Equal(t, KindArray, EmptyFor(nil).Kind())
}

func TestParseDocument(t *testing.T) {
	doc, err := ParseDocument([]byte("  \n\t"), map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, KindObject, doc.Kind())

	doc, err = ParseDocument([]byte(`{"n": 12345678901234567890}`), nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"n": json.Number("12345678901234567890")}, doc.Value())

	doc, err = ParseDocument([]byte(`42`), nil)
	require.NoError(t, err)
	assert.Equal(t, KindPrimitive, doc.Kind())

	_, err = ParseDocument([]byte(`{"broken":`), nil)
	assert.True(t, errors.Is(err, ErrCorruptDocument))

	_, err = ParseDocument([]byte(`[] []`), nil)
	assert.True(t, errors.Is(err, ErrCorruptDocument))
}

func TestNormalize(t *testing.T) {
	entry := NewLogEntry(
		mustTime(t, "2024-05-01T10:00:00.123Z"),
		"rejected",
		NewPayload(map[string]any{"app": "shop"}, "data", ErrorProperties{Name: "TypeError", Message: "boom"}),
		ErrorProperties{Name: "TypeError", Message: "boom", Fields: map[string]any{"route": "/cart"}},
	)

	v, err := Normalize([]LogEntry{entry})
	require.NoError(t, err)

	want := []any{
		map[string]any{
			"when":    "2024-05-01T10:00:00.123Z",
			"message": "rejected",
			"payload": map[string]any{
				"app":  "shop",
				"data": map[string]any{"name": "TypeError", "message": "boom"},
			},
			"error": map[string]any{"name": "TypeError", "message": "boom", "route": "/cart"},
		},
	}
	assert.Equal(t, want, v)
}

func TestEncodeJSON(t *testing.T) {
	b, err := EncodeJSON(map[string]any{"html": "<b>&</b>"}, "")
	require.NoError(t, err)
	assert.Equal(t, `{"html":"<b>&</b>"}`, string(b))

	b, err = EncodeJSON([]any{"a"}, "  ")
	require.NoError(t, err)
	assert.Equal(t, "[\n  \"a\"\n]", string(b))
}
