package inertia

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type money struct{ cents int }

func (m money) ExportProp() any { return map[string]any{"cents": m.cents, "currency": "EUR"} }

type level int

func (l level) String() string { return "level-" + string(rune('0'+int(l))) }

type user struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Password string `json:"-"`
	Email    string `json:"email,omitempty"`
}

type ctxKey struct{}

func TestResolveValueLazyForms(t *testing.T) {
	ctx := context.WithValue(context.Background(), ctxKey{}, "from-ctx")

	tests := []struct {
		name  string
		value any
		want  any
	}{
		{"plain", 1, 1},
		{"nil", nil, nil},
		{"func any", func() any { return "a" }, "a"},
		{"func any error", func() (any, error) { return "b", nil }, "b"},
		{"func ctx", func(ctx context.Context) (any, error) { return ctx.Value(ctxKey{}), nil }, "from-ctx"},
		{"typed func", func() []string { return []string{"x"} }, []any{"x"}},
		{"typed func error", func() (int, error) { return 3, nil }, 3},
		{"typed ctx func", func(ctx context.Context) string { return ctx.Value(ctxKey{}).(string) }, "from-ctx"},
		{"nested lazy", func() any { return func() int { return 4 } }, 4},
		{"wrapped", Defer(func() int { return 5 }), 5},
		{"double wrapped", Always(Once(6)), 6},
		{"map", map[string]any{"a": func() int { return 1 }}, map[string]any{"a": 1}},
		{"props", Props{"a": Optional(2)}, map[string]any{"a": 2}},
		{"list", []any{func() int { return 1 }, 2}, []any{1, 2}},
		{"typed map list", []map[string]any{{"x": func() any { return 1 }}}, []any{map[string]any{"x": 1}}},
		{"props list", []Props{{"y": Optional(2)}}, []any{map[string]any{"y": 2}}},
		{"map of props", map[string]Props{"k": {"z": func() int { return 3 }}}, map[string]any{"k": map[string]any{"z": 3}}},
		{"wrapper list", []*OptionalProp{Optional(4), Optional(func() int { return 5 })}, []any{4, 5}},
		{"array", [2]any{Always(6), func() int { return 7 }}, []any{6, 7}},
		{"bytes untouched", []byte("hi"), []byte("hi")},
		{"nil typed slice", []Props(nil), []Props(nil)},
		{"nil func any", (func() any)(nil), nil},
		{"nil func any error", (func() (any, error))(nil), nil},
		{"nil func ctx", (func(context.Context) (any, error))(nil), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveValue(ctx, tt.value)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("resolveValue() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveValueNestedErrors(t *testing.T) {
	boom := errors.New("boom")
	_, err := resolveValue(context.Background(), []Props{{"a": 1}, {"b": func() (int, error) { return 0, boom }}})
	if !errors.Is(err, boom) {
		t.Fatalf("resolveValue() error = %v, want %v", err, boom)
	}
	if !strings.Contains(err.Error(), "index 1") {
		t.Errorf("error %q does not name the failing index", err)
	}
}

func TestResolveValueUnsupportedFuncPassesThrough(t *testing.T) {
	fn := func(a, b int) int { return a + b }
	got, err := resolveValue(context.Background(), fn)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestResolveMapPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	_, err := resolveMap(context.Background(), map[string]any{
		"stats": func() (int, error) { return 0, boom },
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `prop "stats"`)
}

func TestNormalizeValue(t *testing.T) {
	f, err := os.Open(os.DevNull)
	require.NoError(t, err)
	defer f.Close()

	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name  string
		value any
		want  any
	}{
		{"string", "x", "x"},
		{"int", 3, 3},
		{"bool", true, true},
		{"nil", nil, nil},
		{"exporter", money{cents: 100}, map[string]any{"cents": 100, "currency": "EUR"}},
		{"stringer", level(2), "level-2"},
		{"struct record", user{ID: 1, Name: "Ada", Password: "secret"}, map[string]any{"id": float64(1), "name": "Ada"}},
		{"struct pointer", &user{ID: 2, Name: "Bob"}, map[string]any{"id": float64(2), "name": "Bob"}},
		{"nil pointer", (*user)(nil), nil},
		{"typed map", map[string]int{"a": 1}, map[string]any{"a": 1}},
		{"typed slice", []string{"a", "b"}, []any{"a", "b"}},
		{"nested", map[string]any{"u": []user{{ID: 3, Name: "C"}}}, map[string]any{"u": []any{map[string]any{"id": float64(3), "name": "C"}}}},
		{"non-string map keys", map[int]string{1: "a"}, "map[int]string"},
		{"file handle", f, "resource"},
		{"channel", make(chan int), "resource"},
		{"nil slice", []string(nil), nil},
		{"named int", level(0) + 0, "level-0"},
		{"error", errors.New("disk full"), "disk full"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeValue(tt.value)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("normalizeValue() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	// json.Marshaler values such as time.Time keep their own encoding.
	assert.Equal(t, ts, normalizeValue(ts))
}

func TestNormalizeValueUnencodableStruct(t *testing.T) {
	type withFunc struct {
		Fn func()
	}
	assert.Equal(t, "inertia.withFunc", normalizeValue(withFunc{Fn: func() {}}))
}
