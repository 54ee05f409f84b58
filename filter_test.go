package inertia

import (
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestNewVisit(t *testing.T) {
	r := httptest.NewRequest("GET", "/users", nil)
	r.Header.Set(HeaderInertia, "true")
	r.Header.Set(HeaderPartialComponent, "Users/Index")
	r.Header.Set(HeaderPartialData, "users, , filters")
	r.Header.Set(HeaderErrorBag, " login ")

	v := newVisit(r, "Users/Index")
	if !v.inertia {
		t.Error("expected a protocol visit")
	}
	if !v.partial {
		t.Error("expected a partial visit")
	}
	if diff := cmp.Diff([]string{"users", "filters"}, v.only); diff != "" {
		t.Errorf("only mismatch (-want +got):\n%s", diff)
	}
	if v.errorBag != "login" {
		t.Errorf("errorBag = %q, want %q", v.errorBag, "login")
	}

	if other := newVisit(r, "Users/Show"); other.partial {
		t.Error("partial reload must only apply to the targeted component")
	}
}

func TestFilterPartial(t *testing.T) {
	tests := []struct {
		name  string
		props Props
		visit visit
		want  Props
	}{
		{
			name:  "full load drops optional",
			props: Props{"a": Optional(1), "b": "x"},
			visit: visit{},
			want:  Props{"b": "x"},
		},
		{
			name:  "full load unwraps always",
			props: Props{"a": Always(3), "b": "x"},
			visit: visit{},
			want:  Props{"a": 3, "b": "x"},
		},
		{
			name:  "only keeps requested and always",
			props: Props{"a": Optional(1), "b": Optional(2), "c": Always(3)},
			visit: visit{partial: true, only: []string{"a"}},
			want:  Props{"a": 1, "c": 3},
		},
		{
			name:  "except removes listed keys",
			props: Props{"a": 1, "b": 2, "c": Always(3)},
			visit: visit{partial: true, except: []string{"b", "c"}},
			want:  Props{"a": 1, "c": 3},
		},
		{
			name:  "except drops unrequested optional",
			props: Props{"a": Optional(1), "b": 2},
			visit: visit{partial: true, except: []string{"x"}},
			want:  Props{"b": 2},
		},
		{
			name:  "only wins over except",
			props: Props{"a": 1, "b": 2},
			visit: visit{partial: true, only: []string{"a"}, except: []string{"a"}},
			want:  Props{"a": 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filterPartial(tt.props, tt.visit)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("filterPartial() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilterDeferred(t *testing.T) {
	stats := Defer(42, "stats")
	props := Props{"stats": stats, "name": "x"}

	full := filterDeferred(props, visit{})
	if diff := cmp.Diff(Props{"name": "x"}, full); diff != "" {
		t.Errorf("full load mismatch (-want +got):\n%s", diff)
	}

	partial := filterDeferred(props, visit{partial: true})
	if partial["stats"] != any(stats) {
		t.Errorf("partial reload stats = %v, want the deferred prop", partial["stats"])
	}
}

func TestFilterOnce(t *testing.T) {
	plans := Once("p")
	fresh := Once("f").Fresh(true)
	keyed := Once("k").As("cached-key")
	props := Props{"plans": plans, "fresh": fresh, "keyed": keyed, "name": "x"}

	tests := []struct {
		name  string
		visit visit
		want  []string
	}{
		{"no except-once list", visit{inertia: true}, []string{"fresh", "keyed", "name", "plans"}},
		{"not a protocol visit", visit{exceptOnce: []string{"plans"}}, []string{"fresh", "keyed", "name", "plans"}},
		{"partial reload", visit{inertia: true, partial: true, exceptOnce: []string{"plans"}}, []string{"fresh", "keyed", "name", "plans"}},
		{"map key", visit{inertia: true, exceptOnce: []string{"plans", "fresh"}}, []string{"fresh", "keyed", "name"}},
		{"explicit key", visit{inertia: true, exceptOnce: []string{"cached-key"}}, []string{"fresh", "name", "plans"}},
		{"explicit key hides map key", visit{inertia: true, exceptOnce: []string{"keyed"}}, []string{"fresh", "keyed", "name", "plans"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sortedKeys(filterOnce(props, tt.visit))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterPropsDeferredPartialReload(t *testing.T) {
	props := Props{"key": Defer(7, "stats"), "name": "x"}

	full := filterProps(props, visit{})
	assert.NotContains(t, full, "key")

	partial := filterProps(props, visit{inertia: true, partial: true, only: []string{"key"}})
	assert.Contains(t, partial, "key")
	assert.NotContains(t, partial, "name")
}

func TestFilterPropsDoesNotMutateInput(t *testing.T) {
	props := Props{"a": Optional(1), "b": Defer(2)}
	_ = filterProps(props, visit{})
	assert.Len(t, props, 2)
}
