package inertia

import (
	"net/http"
	"slices"
)

// visit holds the request signals that drive prop filtering.
type visit struct {
	inertia    bool
	partial    bool
	only       []string
	except     []string
	exceptOnce []string
	reset      []string
	errorBag   string
}

// newVisit reads the protocol headers of r for a response rendering
// component. A visit is partial only when the client targets exactly
// this component.
func newVisit(r *http.Request, component string) visit {
	target := PartialComponent(r)
	return visit{
		inertia:    IsInertia(r),
		partial:    target != "" && target == component,
		only:       OnlyProps(r),
		except:     ExceptProps(r),
		exceptOnce: ExceptOnceProps(r),
		reset:      ResetProps(r),
		errorBag:   ErrorBag(r),
	}
}

// includes reports whether key passes the only/except test used by the
// metadata builders.
func (v visit) includes(key string) bool {
	if len(v.only) > 0 && !slices.Contains(v.only, key) {
		return false
	}
	if len(v.except) > 0 && slices.Contains(v.except, key) {
		return false
	}
	return true
}

// filterProps runs the partial, deferred and once stages in order.
func filterProps(props Props, v visit) Props {
	out := filterPartial(props, v)
	out = filterDeferred(out, v)
	return filterOnce(out, v)
}

// filterPartial applies only/except on a partial reload of this
// component and drops optional props on full loads. Optional and always
// props are unwrapped; other wrappers pass through for later stages.
func filterPartial(props Props, v visit) Props {
	out := make(Props, len(props))
	if !v.partial {
		for key, value := range props {
			if _, ok := value.(*OptionalProp); ok {
				continue
			}
			out[key] = unwrapMarker(value)
		}
		return out
	}

	for key, value := range props {
		_, always := value.(*AlwaysProp)
		_, optional := value.(*OptionalProp)

		if len(v.only) > 0 {
			if always || slices.Contains(v.only, key) {
				out[key] = unwrapMarker(value)
			}
			continue
		}
		if !always && slices.Contains(v.except, key) {
			continue
		}
		if optional {
			continue
		}
		out[key] = unwrapMarker(value)
	}
	return out
}

// filterDeferred drops deferred props from full loads. Partial reloads
// request them explicitly, so they pass through unchanged.
func filterDeferred(props Props, v visit) Props {
	if v.partial {
		return props
	}
	out := make(Props, len(props))
	for key, value := range props {
		if d, ok := value.(Deferrable); ok && d.ShouldDefer() {
			continue
		}
		out[key] = value
	}
	return out
}

// filterOnce drops once props the client reported as cached. It only
// applies to full protocol visits that sent an except-once list.
func filterOnce(props Props, v visit) Props {
	if !v.inertia || v.partial || len(v.exceptOnce) == 0 {
		return props
	}
	out := make(Props, len(props))
	for key, value := range props {
		if o, ok := value.(Onceable); ok && v.skipsOnce(o, key) {
			continue
		}
		out[key] = value
	}
	return out
}

func (v visit) skipsOnce(o Onceable, key string) bool {
	if !o.ShouldResolveOnce() || o.ShouldBeRefreshed() {
		return false
	}
	return slices.Contains(v.exceptOnce, onceKey(o, key))
}

// onceKey returns the client cache key of a once prop: its explicit key,
// or the map key it was registered under.
func onceKey(o Onceable, key string) string {
	if k, ok := o.Key(); ok {
		return k
	}
	return key
}

func unwrapMarker(value any) any {
	switch p := value.(type) {
	case *OptionalProp:
		return p.Value()
	case *AlwaysProp:
		return p.Value()
	}
	return value
}
