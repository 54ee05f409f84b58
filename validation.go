package inertia

import (
	"net/http"
	"slices"

	"go.uber.org/zap"
)

// ValidationErrors maps field names to their error messages.
type ValidationErrors map[string][]string

// Add appends a message for field.
func (e ValidationErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Only returns the errors of the listed fields. An empty list returns e
// unchanged.
func (e ValidationErrors) Only(fields []string) ValidationErrors {
	if len(fields) == 0 {
		return e
	}
	out := make(ValidationErrors)
	for field, msgs := range e {
		if slices.Contains(fields, field) {
			out[field] = msgs
		}
	}
	return out
}

// ProcessValidation decides what to send after validating a submission
// into errs for error bag bag (DefaultErrorBag when empty).
//
// Precognition probes always get a response: 204 when errs is empty,
// otherwise 422 with {"errors": errs}. A probe naming fields in
// Precognition-Validate-Only only reports those fields.
//
// Regular submissions continue when errs is empty or when the client
// asked for a different error bag. Otherwise the outcome redirects back,
// flashing errs under the bag and input as old input.
func (in *Inertia) ProcessValidation(r *http.Request, errs ValidationErrors, bag string, input map[string]any) Outcome {
	if bag == "" {
		bag = DefaultErrorBag
	}

	if IsPrecognition(r) {
		return RespondWith(in.precognitionReply(errs.Only(ValidateOnly(r))))
	}

	if len(errs) == 0 || ErrorBag(r) != bag {
		return Continue()
	}

	in.logger.Debug("validation failed",
		zap.String("bag", bag),
		zap.Int("fields", len(errs)))
	return RespondWith(in.Back().
		FlashRaw(SessionErrors, map[string]any{bag: map[string][]string(errs)}).
		WithInput(input))
}

func (in *Inertia) precognitionReply(errs ValidationErrors) *Reply {
	if len(errs) == 0 {
		rp := NewReply(http.StatusNoContent)
		rp.header.Set(HeaderPrecognition, "true")
		rp.header.Set(HeaderPrecognitionSuccess, "true")
		return rp
	}
	rp, err := jsonReply(http.StatusUnprocessableEntity, map[string]any{"errors": errs})
	if err != nil {
		// map[string][]string always encodes
		panic(err)
	}
	rp.header.Set(HeaderPrecognition, "true")
	return rp
}
