package docstore

import (
	"testing"
	"time"
)

func TestValueHelpers(t *testing.T) {
	data := map[string]any{
		"title":   "X",
		"empty":   "",
		"number":  int64(7),
		"float":   4.9,
		"flag":    true,
		"list":    []any{"a", "b"},
		"wrong":   42,
		"nothing": nil,
	}

	if s, ok := String(data, "title"); !ok || s != "X" {
		t.Fatalf("String title = %q %v", s, ok)
	}
	if s, ok := String(data, "empty"); !ok || s != "" {
		t.Fatalf("empty string must be kept as present")
	}
	if _, ok := String(data, "wrong"); ok {
		t.Fatalf("number must not pass as string")
	}
	if _, ok := String(data, "nothing"); ok {
		t.Fatalf("nil must be treated as missing")
	}
	if n, ok := Int(data, "number"); !ok || n != 7 {
		t.Fatalf("Int number = %d %v", n, ok)
	}
	if n, ok := Int(data, "float"); !ok || n != 4 {
		t.Fatalf("Int float = %d %v", n, ok)
	}
	if _, ok := Int(data, "title"); ok {
		t.Fatalf("string must not pass as int")
	}
	if b, ok := Bool(data, "flag"); !ok || !b {
		t.Fatalf("Bool flag = %v %v", b, ok)
	}
	if l, ok := Slice(data, "list"); !ok || len(l) != 2 {
		t.Fatalf("Slice list = %v %v", l, ok)
	}
	if _, ok := Slice(data, "title"); ok {
		t.Fatalf("string must not pass as list")
	}
}

func TestTimeCoercion(t *testing.T) {
	want := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	cases := map[string]any{
		"time":    want,
		"rfc3339": "2024-05-01T10:00:00Z",
		"seconds": map[string]any{"seconds": want.Unix(), "nanoseconds": 0},
		"millis":  want.UnixMilli(),
	}
	for name, v := range cases {
		got, ok := Time(map[string]any{"t": v}, "t")
		if !ok {
			t.Fatalf("%s: not coerced", name)
		}
		if !got.Equal(want) {
			t.Fatalf("%s: got %v want %v", name, got, want)
		}
	}
	if _, ok := Time(map[string]any{"t": "yesterday"}, "t"); ok {
		t.Fatalf("free text must not parse as time")
	}
}

func TestCompare(t *testing.T) {
	if Compare(1, 2.5) >= 0 {
		t.Fatalf("numbers must compare numerically")
	}
	if Compare("2024-01-02T00:00:00Z", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) <= 0 {
		t.Fatalf("timestamps must compare chronologically")
	}
	if Compare("b", "a") <= 0 {
		t.Fatalf("strings must compare lexically")
	}
}

func TestPlain(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	in := map[string]any{
		"columns": int64(3),
		"ratio":   float32(0.5),
		"title":   "Gallery",
		"show":    true,
		"none":    nil,
		"updated": time.Date(2024, 2, 1, 10, 30, 0, 0, ist),
		"nested":  map[any]any{"count": 2},
		"list":    []any{1, "a"},
	}

	got, ok := Plain(in).(map[string]any)
	if !ok {
		t.Fatalf("expected a map, got %#v", Plain(in))
	}
	if got["columns"] != float64(3) || got["ratio"] != float64(0.5) {
		t.Fatalf("numbers must become float64, got %#v %#v", got["columns"], got["ratio"])
	}
	if got["updated"] != "2024-02-01T05:00:00Z" {
		t.Fatalf("timestamps must become UTC strings, got %#v", got["updated"])
	}
	if nested, ok := got["nested"].(map[string]any); !ok || nested["count"] != float64(2) {
		t.Fatalf("unexpected nested value %#v", got["nested"])
	}
	if list, ok := got["list"].([]any); !ok || list[0] != float64(1) || list[1] != "a" {
		t.Fatalf("unexpected list %#v", got["list"])
	}
	if got["title"] != "Gallery" || got["show"] != true || got["none"] != nil {
		t.Fatalf("plain values must pass through, got %#v", got)
	}
}
