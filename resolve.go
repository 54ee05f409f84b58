package inertia

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
)

// Exporter is implemented by host types that control how they appear in
// the page props. ExportProp may return any value, including maps,
// slices or other Exporters; the result is normalized again.
type Exporter interface {
	ExportProp() any
}

var (
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
)

// resolveValue unwraps prop wrappers and calls lazy funcs until a
// concrete value remains, descending into maps and slices.
//
// Supported lazy forms are any func with no arguments (or a single
// context.Context argument) returning T or (T, error).
func resolveValue(ctx context.Context, value any) (any, error) {
	for {
		p, ok := value.(Prop)
		if !ok {
			break
		}
		value = p.Value()
	}

	switch v := value.(type) {
	case nil:
		return nil, nil
	case func() any:
		if v == nil {
			return nil, nil
		}
		return resolveValue(ctx, v())
	case func() (any, error):
		if v == nil {
			return nil, nil
		}
		out, err := v()
		if err != nil {
			return nil, err
		}
		return resolveValue(ctx, out)
	case func(context.Context) (any, error):
		if v == nil {
			return nil, nil
		}
		out, err := v(ctx)
		if err != nil {
			return nil, err
		}
		return resolveValue(ctx, out)
	case Props:
		return resolveMap(ctx, v)
	case map[string]any:
		return resolveMap(ctx, v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			r, err := resolveValue(ctx, item)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Func:
		out, ok, err := callLazy(ctx, rv)
		if err != nil {
			return nil, err
		}
		if ok {
			return resolveValue(ctx, out)
		}
	case reflect.Map:
		if rv.IsNil() || rv.Type().Key().Kind() != reflect.String {
			return value, nil
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := iter.Key().String()
			r, err := resolveValue(ctx, iter.Value().Interface())
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			out[k] = r
		}
		return out, nil
	case reflect.Slice:
		if rv.IsNil() || rv.Type().Elem().Kind() == reflect.Uint8 {
			return value, nil
		}
		return resolveList(ctx, rv)
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return value, nil
		}
		return resolveList(ctx, rv)
	}
	return value, nil
}

// resolveList rebuilds a typed slice or array as []any so lazy elements
// and wrappers nested in it are resolved.
func resolveList(ctx context.Context, rv reflect.Value) ([]any, error) {
	out := make([]any, rv.Len())
	for i := range out {
		r, err := resolveValue(ctx, rv.Index(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		out[i] = r
	}
	return out, nil
}

func resolveMap(ctx context.Context, m map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(m))
	for k, item := range m {
		r, err := resolveValue(ctx, item)
		if err != nil {
			return nil, fmt.Errorf("prop %q: %w", k, err)
		}
		out[k] = r
	}
	return out, nil
}

// callLazy invokes a typed lazy func through reflection. ok is false
// when fn does not have a supported shape.
func callLazy(ctx context.Context, fn reflect.Value) (out any, ok bool, err error) {
	t := fn.Type()
	if fn.IsNil() || t.IsVariadic() {
		return nil, false, nil
	}

	var args []reflect.Value
	switch {
	case t.NumIn() == 0:
	case t.NumIn() == 1 && t.In(0) == contextType:
		args = []reflect.Value{reflect.ValueOf(ctx)}
	default:
		return nil, false, nil
	}

	switch {
	case t.NumOut() == 1:
		res := fn.Call(args)
		return res[0].Interface(), true, nil
	case t.NumOut() == 2 && t.Out(1) == errorType:
		res := fn.Call(args)
		if e, _ := res[1].Interface().(error); e != nil {
			return nil, true, e
		}
		return res[0].Interface(), true, nil
	}
	return nil, false, nil
}

// normalizeValue coerces a resolved value into something encoding/json
// renders faithfully:
//   - nil, booleans, numbers and strings pass through
//   - maps with string keys and slices recurse
//   - Exporters are exported and normalized again
//   - json.Marshaler values pass through
//   - fmt.Stringer values are stringified
//   - structs are exported as records through their JSON encoding
//   - open handles (readers, writers, closers, channels) become "resource"
//   - anything else becomes its type name
func normalizeValue(value any) any {
	switch v := value.(type) {
	case nil, bool, string, json.Number,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return v
	case Exporter:
		return normalizeValue(v.ExportProp())
	case json.Marshaler:
		return v
	case fmt.Stringer:
		return v.String()
	case error:
		return v.Error()
	case io.Reader, io.Writer, io.Closer:
		return "resource"
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return rv.Type().String()
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = normalizeValue(iter.Value().Interface())
		}
		return out
	case reflect.Slice:
		if rv.IsNil() {
			return nil
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			// []byte marshals as base64.
			return value
		}
		return normalizeList(rv)
	case reflect.Array:
		return normalizeList(rv)
	case reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
		if rv.Elem().Kind() == reflect.Struct {
			return exportRecord(value)
		}
		return normalizeValue(rv.Elem().Interface())
	case reflect.Struct:
		return exportRecord(value)
	case reflect.Chan, reflect.UnsafePointer:
		return "resource"
	case reflect.Bool:
		return rv.Bool()
	case reflect.String:
		return rv.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint()
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	}
	return rv.Type().String()
}

func normalizeList(rv reflect.Value) []any {
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = normalizeValue(rv.Index(i).Interface())
	}
	return out
}

// exportRecord converts a struct into a map through its JSON encoding so
// json tags and omitempty are honoured. Structs that cannot be encoded
// degrade to their type name.
func exportRecord(value any) any {
	data, err := json.Marshal(value)
	if err != nil {
		return reflect.TypeOf(value).String()
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return reflect.TypeOf(value).String()
	}
	return out
}
