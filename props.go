package inertia

import "time"

// Props is the prop map handed to a page component.
type Props map[string]any

// DefaultGroup is the deferred group used when none is given.
const DefaultGroup = "default"

// Prop is implemented by every prop wrapper. Value returns the wrapped
// value, which may itself be a lazy func resolved during the build.
type Prop interface {
	Value() any
}

// Deferrable is implemented by props that can be loaded in a follow-up
// request after the first paint.
type Deferrable interface {
	ShouldDefer() bool
	Group() string
}

// Mergeable is implemented by props the client merges into its existing
// state instead of replacing it.
//
// AppendsAtRoot and PrependsAtRoot are only true when no explicit append
// or prepend paths were set: root-level and path-level merges are
// mutually exclusive per prop.
type Mergeable interface {
	ShouldMerge() bool
	ShouldDeepMerge() bool
	MatchesOn() []string
	AppendsAtRoot() bool
	PrependsAtRoot() bool
	AppendsAtPaths() []string
	PrependsAtPaths() []string
}

// Onceable is implemented by props the client resolves once and then
// caches.
//
// Key returns the explicit cache key, if any; callers fall back to the
// prop's map key. ExpiresAt returns the expiry in epoch milliseconds.
type Onceable interface {
	ShouldResolveOnce() bool
	ShouldBeRefreshed() bool
	Key() (string, bool)
	ExpiresAt() (int64, bool)
}

// OptionalProp is never included on a full page load. It is only sent
// when a partial reload lists it explicitly.
//
//	"users": inertia.Optional(func() any { return repo.AllUsers() })
type OptionalProp struct {
	value any
}

// Optional wraps v as an optional prop.
func Optional(v any) *OptionalProp {
	return &OptionalProp{value: v}
}

// Value returns the wrapped value.
func (p *OptionalProp) Value() any { return p.value }

// AlwaysProp is included in every response, even partial reloads that
// did not ask for it.
type AlwaysProp struct {
	value any
}

// Always wraps v as an always-included prop.
func Always(v any) *AlwaysProp {
	return &AlwaysProp{value: v}
}

// Value returns the wrapped value.
func (p *AlwaysProp) Value() any { return p.value }

// OnceProp is sent once and cached by the client. Subsequent visits that
// report the key in X-Inertia-Except-Once-Props skip it until it expires
// or is marked Fresh.
type OnceProp struct {
	onceState
	value any
}

// Once wraps v as a resolve-once prop.
func Once(v any) *OnceProp {
	p := &OnceProp{value: v}
	p.once = true
	return p
}

// Value returns the wrapped value.
func (p *OnceProp) Value() any { return p.value }

// Once toggles resolve-once behaviour.
func (p *OnceProp) Once(on bool) *OnceProp {
	p.setOnce(on)
	return p
}

// As sets the cache key reported by the client instead of the map key.
func (p *OnceProp) As(key string) *OnceProp {
	p.setKey(key)
	return p
}

// Fresh forces the prop to be sent even if the client has it cached.
func (p *OnceProp) Fresh(on bool) *OnceProp {
	p.setFresh(on)
	return p
}

// Until expires the cached value after d.
func (p *OnceProp) Until(d time.Duration) *OnceProp {
	p.setTTL(d)
	return p
}

// UntilTime expires the cached value at t.
func (p *OnceProp) UntilTime(t time.Time) *OnceProp {
	p.setDeadline(t)
	return p
}

// MergeProp is merged into the client's existing value. Appending at the
// root is the default.
//
//	"posts": inertia.Merge(page.Items).AppendAt("data", "id")
type MergeProp struct {
	mergeState
	value any
}

// Merge wraps v as a mergeable prop.
func Merge(v any) *MergeProp {
	p := &MergeProp{value: v}
	p.mergeState = newMergeState()
	p.merge = true
	return p
}

// DeepMerge wraps v as a deep-merged prop.
func DeepMerge(v any) *MergeProp {
	return Merge(v).DeepMerge()
}

// Value returns the wrapped value.
func (p *MergeProp) Value() any { return p.value }

// Merge marks the prop as mergeable.
func (p *MergeProp) Merge() *MergeProp {
	p.setMerge()
	return p
}

// DeepMerge switches the prop to deep merging. It implies Merge.
func (p *MergeProp) DeepMerge() *MergeProp {
	p.setDeepMerge()
	return p
}

// MatchOn replaces the match keys used to de-duplicate merged items.
func (p *MergeProp) MatchOn(paths ...string) *MergeProp {
	p.setMatchOn(paths)
	return p
}

// Append merges at the root by appending (the default).
func (p *MergeProp) Append() *MergeProp {
	p.setAppend(true)
	return p
}

// Prepend merges at the root by prepending.
func (p *MergeProp) Prepend() *MergeProp {
	p.setAppend(false)
	return p
}

// AppendAt appends at a nested path. An optional match key is recorded
// as path.matchOn.
func (p *MergeProp) AppendAt(path string, matchOn ...string) *MergeProp {
	p.addAppendPath(path, matchOn)
	return p
}

// PrependAt prepends at a nested path. An optional match key is recorded
// as path.matchOn.
func (p *MergeProp) PrependAt(path string, matchOn ...string) *MergeProp {
	p.addPrependPath(path, matchOn)
	return p
}

// DeferredProp is left out of the first page load and fetched by the
// client in a follow-up partial reload of its group. It can also merge
// and resolve once.
//
//	"stats": inertia.Defer(loadStats, "sidebar")
type DeferredProp struct {
	deferState
	mergeState
	onceState
	value any
}

// Defer wraps v as a deferred prop in the given group (DefaultGroup when
// omitted or empty).
func Defer(v any, group ...string) *DeferredProp {
	p := &DeferredProp{value: v}
	p.mergeState = newMergeState()
	g := ""
	if len(group) > 0 {
		g = group[0]
	}
	p.setDeferred(g)
	return p
}

// Value returns the wrapped value.
func (p *DeferredProp) Value() any { return p.value }

// Defer moves the prop to another group.
func (p *DeferredProp) Defer(group string) *DeferredProp {
	p.setDeferred(group)
	return p
}

// Merge marks the prop as mergeable.
func (p *DeferredProp) Merge() *DeferredProp {
	p.setMerge()
	return p
}

// DeepMerge switches the prop to deep merging. It implies Merge.
func (p *DeferredProp) DeepMerge() *DeferredProp {
	p.setDeepMerge()
	return p
}

// MatchOn replaces the match keys used to de-duplicate merged items.
func (p *DeferredProp) MatchOn(paths ...string) *DeferredProp {
	p.setMatchOn(paths)
	return p
}

// Append merges at the root by appending.
func (p *DeferredProp) Append() *DeferredProp {
	p.setAppend(true)
	return p
}

// Prepend merges at the root by prepending.
func (p *DeferredProp) Prepend() *DeferredProp {
	p.setAppend(false)
	return p
}

// AppendAt appends at a nested path.
func (p *DeferredProp) AppendAt(path string, matchOn ...string) *DeferredProp {
	p.addAppendPath(path, matchOn)
	return p
}

// PrependAt prepends at a nested path.
func (p *DeferredProp) PrependAt(path string, matchOn ...string) *DeferredProp {
	p.addPrependPath(path, matchOn)
	return p
}

// Once toggles resolve-once behaviour.
func (p *DeferredProp) Once(on bool) *DeferredProp {
	p.setOnce(on)
	return p
}

// As sets the once cache key.
func (p *DeferredProp) As(key string) *DeferredProp {
	p.setKey(key)
	return p
}

// Fresh forces the prop to be sent even if the client has it cached.
func (p *DeferredProp) Fresh(on bool) *DeferredProp {
	p.setFresh(on)
	return p
}

// Until expires the cached value after d.
func (p *DeferredProp) Until(d time.Duration) *DeferredProp {
	p.setTTL(d)
	return p
}

// UntilTime expires the cached value at t.
func (p *DeferredProp) UntilTime(t time.Time) *DeferredProp {
	p.setDeadline(t)
	return p
}

var (
	_ Onceable   = (*OnceProp)(nil)
	_ Mergeable  = (*MergeProp)(nil)
	_ Deferrable = (*DeferredProp)(nil)
	_ Mergeable  = (*DeferredProp)(nil)
	_ Onceable   = (*DeferredProp)(nil)
)
