package inertia

import (
	"net/http"
	"strings"
)

// Protocol headers.
const (
	HeaderInertia          = "X-Inertia"
	HeaderVersion          = "X-Inertia-Version"
	HeaderLocation         = "X-Inertia-Location"
	HeaderPartialComponent = "X-Inertia-Partial-Component"
	HeaderPartialData      = "X-Inertia-Partial-Data"
	HeaderPartialExcept    = "X-Inertia-Partial-Except"
	HeaderExceptOnceProps  = "X-Inertia-Except-Once-Props"
	HeaderReset            = "X-Inertia-Reset"
	HeaderErrorBag         = "X-Inertia-Error-Bag"

	HeaderPrecognition             = "Precognition"
	HeaderPrecognitionSuccess      = "Precognition-Success"
	HeaderPrecognitionValidateOnly = "Precognition-Validate-Only"
)

// DefaultErrorBag is the error bag used when the client names none.
const DefaultErrorBag = "default"

// IsInertia returns true if the request came from the Inertia client.
//
// The client sends X-Inertia: true on every visit after the first page
// load. Any non-empty value counts.
func IsInertia(r *http.Request) bool {
	return r.Header.Get(HeaderInertia) != ""
}

// IsPrecognition returns true if the request is a validation probe.
func IsPrecognition(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get(HeaderPrecognition), "true")
}

// PartialComponent returns the component a partial reload targets.
//
// Returns empty string on full page loads.
func PartialComponent(r *http.Request) string {
	return r.Header.Get(HeaderPartialComponent)
}

// OnlyProps returns the keys requested by a partial reload.
func OnlyProps(r *http.Request) []string {
	return splitHeader(r.Header.Get(HeaderPartialData))
}

// ExceptProps returns the keys excluded by a partial reload.
func ExceptProps(r *http.Request) []string {
	return splitHeader(r.Header.Get(HeaderPartialExcept))
}

// ExceptOnceProps returns the once keys the client already has cached.
func ExceptOnceProps(r *http.Request) []string {
	return splitHeader(r.Header.Get(HeaderExceptOnceProps))
}

// ResetProps returns the keys the client wants replaced instead of merged.
func ResetProps(r *http.Request) []string {
	return splitHeader(r.Header.Get(HeaderReset))
}

// ClientVersion returns the asset version the client was built against.
func ClientVersion(r *http.Request) string {
	return r.Header.Get(HeaderVersion)
}

// ErrorBag returns the error bag named by the client, or DefaultErrorBag.
func ErrorBag(r *http.Request) string {
	if bag := strings.TrimSpace(r.Header.Get(HeaderErrorBag)); bag != "" {
		return bag
	}
	return DefaultErrorBag
}

// ValidateOnly returns the fields a precognition probe asks to validate.
func ValidateOnly(r *http.Request) []string {
	return splitHeader(r.Header.Get(HeaderPrecognitionValidateOnly))
}

// splitHeader splits a comma-separated header value, trimming each token
// and dropping empty ones.
func splitHeader(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
