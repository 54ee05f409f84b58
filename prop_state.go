package inertia

import "time"

// now is swapped in tests to pin expiry calculations.
var now = time.Now

type deferState struct {
	deferred bool
	group    string
}

func (s *deferState) setDeferred(group string) {
	s.deferred = true
	s.group = group
}

// ShouldDefer reports whether the prop is left out of the first load.
func (s *deferState) ShouldDefer() bool { return s.deferred }

// Group returns the deferred group the client fetches the prop with.
func (s *deferState) Group() string {
	if s.group == "" {
		return DefaultGroup
	}
	return s.group
}

type mergeState struct {
	merge        bool
	deepMerge    bool
	appendMode   bool
	matchOn      []string
	appendPaths  []string
	prependPaths []string
}

func newMergeState() mergeState {
	return mergeState{appendMode: true}
}

func (s *mergeState) setMerge() { s.merge = true }

func (s *mergeState) setDeepMerge() {
	s.deepMerge = true
	s.merge = true
}

func (s *mergeState) setMatchOn(paths []string) {
	s.matchOn = append([]string(nil), paths...)
}

func (s *mergeState) setAppend(on bool) { s.appendMode = on }

func (s *mergeState) addAppendPath(path string, matchOn []string) {
	s.appendPaths = append(s.appendPaths, path)
	s.addPathMatch(path, matchOn)
}

func (s *mergeState) addPrependPath(path string, matchOn []string) {
	s.prependPaths = append(s.prependPaths, path)
	s.addPathMatch(path, matchOn)
}

func (s *mergeState) addPathMatch(path string, matchOn []string) {
	for _, m := range matchOn {
		if m != "" {
			s.matchOn = append(s.matchOn, path+"."+m)
		}
	}
}

func (s *mergeState) mergesAtRoot() bool {
	return len(s.appendPaths) == 0 && len(s.prependPaths) == 0
}

// ShouldMerge reports whether the client merges the prop.
func (s *mergeState) ShouldMerge() bool { return s.merge }

// ShouldDeepMerge reports whether the client deep-merges the prop.
func (s *mergeState) ShouldDeepMerge() bool { return s.deepMerge }

// MatchesOn returns the paths used to match merged items.
func (s *mergeState) MatchesOn() []string { return s.matchOn }

// AppendsAtRoot reports whether the whole value is appended.
func (s *mergeState) AppendsAtRoot() bool { return s.appendMode && s.mergesAtRoot() }

// PrependsAtRoot reports whether the whole value is prepended.
func (s *mergeState) PrependsAtRoot() bool { return !s.appendMode && s.mergesAtRoot() }

// AppendsAtPaths returns the nested paths that are appended.
func (s *mergeState) AppendsAtPaths() []string { return s.appendPaths }

// PrependsAtPaths returns the nested paths that are prepended.
func (s *mergeState) PrependsAtPaths() []string { return s.prependPaths }

type onceState struct {
	once    bool
	refresh bool
	key     string
	ttl     int64
	hasTTL  bool
}

func (s *onceState) setOnce(on bool)   { s.once = on }
func (s *onceState) setFresh(on bool)  { s.refresh = on }
func (s *onceState) setKey(key string) { s.key = key }

// setTTL stores d as whole seconds. Negative durations clamp to zero.
func (s *onceState) setTTL(d time.Duration) {
	s.ttl = max(0, int64(d/time.Second))
	s.hasTTL = true
}

func (s *onceState) setDeadline(t time.Time) {
	s.ttl = max(0, t.Unix()-now().Unix())
	s.hasTTL = true
}

// ShouldResolveOnce reports whether the client caches the prop.
func (s *onceState) ShouldResolveOnce() bool { return s.once }

// ShouldBeRefreshed reports whether the prop is sent even when cached.
func (s *onceState) ShouldBeRefreshed() bool { return s.refresh }

// Key returns the explicit cache key.
func (s *onceState) Key() (string, bool) { return s.key, s.key != "" }

// ExpiresAt returns the expiry in epoch milliseconds, measured from the
// time of the call.
func (s *onceState) ExpiresAt() (int64, bool) {
	if !s.hasTTL {
		return 0, false
	}
	return (now().Unix() + s.ttl) * 1000, true
}
