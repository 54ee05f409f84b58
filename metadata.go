package inertia

import (
	"slices"
	"sort"
)

// OnceMeta describes a resolve-once prop in the page object.
type OnceMeta struct {
	Prop      string `json:"prop"`
	ExpiresAt *int64 `json:"expiresAt"`
}

// mergeMeta holds the merge fields of the page object.
type mergeMeta struct {
	append  []string
	prepend []string
	deep    []string
	match   []string
}

// sortedKeys returns the keys of props in ascending order. Metadata is
// built in this order so the page object is deterministic.
func sortedKeys(props Props) []string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// buildOnceMeta lists the resolve-once props included in this visit,
// keyed by their client cache key.
func buildOnceMeta(props Props, v visit) map[string]OnceMeta {
	meta := make(map[string]OnceMeta)
	for _, key := range sortedKeys(props) {
		o, ok := props[key].(Onceable)
		if !ok || !o.ShouldResolveOnce() || !v.includes(key) {
			continue
		}
		m := OnceMeta{Prop: key}
		if at, ok := o.ExpiresAt(); ok {
			m.ExpiresAt = &at
		}
		meta[onceKey(o, key)] = m
	}
	return meta
}

// buildDeferredMeta groups deferred prop names by group. Partial reloads
// never advertise deferred props, and props the client has cached as
// once are skipped.
func buildDeferredMeta(props Props, v visit) map[string][]string {
	meta := make(map[string][]string)
	if v.partial {
		return meta
	}
	for _, key := range sortedKeys(props) {
		d, ok := props[key].(Deferrable)
		if !ok || !d.ShouldDefer() {
			continue
		}
		cacheKey := key
		if o, ok := props[key].(Onceable); ok {
			cacheKey = onceKey(o, key)
		}
		if slices.Contains(v.exceptOnce, cacheKey) {
			continue
		}
		meta[d.Group()] = append(meta[d.Group()], key)
	}
	return meta
}

// buildMergeMeta collects the append, prepend, deep-merge and match-on
// targets of mergeable props. Props listed in the reset header are
// replaced this visit and contribute nothing.
func buildMergeMeta(props Props, v visit) mergeMeta {
	var meta mergeMeta
	for _, key := range sortedKeys(props) {
		m, ok := props[key].(Mergeable)
		if !ok || !m.ShouldMerge() || !v.includes(key) || slices.Contains(v.reset, key) {
			continue
		}

		if m.ShouldDeepMerge() {
			meta.deep = append(meta.deep, key)
		} else {
			if m.AppendsAtRoot() {
				meta.append = append(meta.append, key)
			} else {
				for _, path := range m.AppendsAtPaths() {
					meta.append = append(meta.append, key+"."+path)
				}
			}
			if m.PrependsAtRoot() {
				meta.prepend = append(meta.prepend, key)
			} else {
				for _, path := range m.PrependsAtPaths() {
					meta.prepend = append(meta.prepend, key+"."+path)
				}
			}
		}

		for _, path := range m.MatchesOn() {
			meta.match = append(meta.match, key+"."+path)
		}
	}

	meta.append = dedupe(meta.append)
	meta.prepend = dedupe(meta.prepend)
	meta.deep = dedupe(meta.deep)
	meta.match = dedupe(meta.match)
	return meta
}

// dedupe removes repeated entries, keeping first occurrences. Empty
// input yields nil so the page field is omitted.
func dedupe(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
