package quiz

import (
	"encoding/json"
	"testing"
)

func TestNormalizeOptions_StringArray(t *testing.T) {
	opts := NormalizeOptions(json.RawMessage(`["red","green","blue"]`))
	if len(opts) != 3 {
		t.Fatalf("expected 3 options, got %d", len(opts))
	}
	if opts[0].Key != "red" || opts[0].Label != "red" {
		t.Fatalf("string entries should use the text as key and label: %+v", opts[0])
	}
	if opts[2].Key != "blue" {
		t.Fatalf("array order must be preserved, got %+v", opts)
	}
}

func TestNormalizeOptions_ObjectArray(t *testing.T) {
	raw := json.RawMessage(`[{"key":"A","label":"Apple"},{"id":"B","text":"Banana"}]`)
	opts := NormalizeOptions(raw)
	if len(opts) != 2 {
		t.Fatalf("expected 2 options, got %d", len(opts))
	}
	if opts[0].Key != "A" || opts[0].Label != "Apple" {
		t.Fatalf("unexpected first option: %+v", opts[0])
	}
	if opts[1].Key != "B" || opts[1].Label != "Banana" {
		t.Fatalf("id/text fallback broken: %+v", opts[1])
	}
}

func TestNormalizeOptions_KeyedObjectSorted(t *testing.T) {
	raw := json.RawMessage(`{"C":"third","A":"first","B":"second"}`)
	opts := NormalizeOptions(raw)
	if len(opts) != 3 {
		t.Fatalf("expected 3 options, got %d", len(opts))
	}
	for i, want := range []string{"A", "B", "C"} {
		if opts[i].Key != want {
			t.Fatalf("keyed options must sort by key, got %+v", opts)
		}
	}
}

func TestNormalizeOptions_EmptyAndGarbage(t *testing.T) {
	for _, raw := range []string{"", "null", "[]", "{}", "12", `"oops"`} {
		if got := NormalizeOptions(json.RawMessage(raw)); got != nil {
			t.Fatalf("raw %q should normalize to nil, got %+v", raw, got)
		}
	}
}
