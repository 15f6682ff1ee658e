// Package sanitize converts arbitrary values into trees that survive
// JSON encoding unchanged: maps keyed by strings, slices, strings,
// bools, finite numbers, and nil. Times, UUIDs, and paths become
// strings; NaN and the infinities are dropped to nil unless configured
// otherwise.
package sanitize

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// Options control Clean's behavior.
type Options struct {
	// Strict makes Clean fail on values with no JSON-clean form
	// instead of falling back to their string representation.
	Strict bool

	// NaNAsString renders NaN and the infinities as strings ("nan",
	// "inf", "-inf") instead of nil.
	NaNAsString bool
}

// Option mutates Options.
type Option func(*Options)

// Strict enables strict mode.
func Strict() Option { return func(o *Options) { o.Strict = true } }

// NaNAsString renders non-finite floats as strings.
func NaNAsString() Option { return func(o *Options) { o.NaNAsString = true } }

// Clean returns a JSON-clean copy of v.
func Clean(v any, opts ...Option) (any, error) {
	var options Options
	for _, opt := range opts {
		opt(&options)
	}
	return clean(reflect.ValueOf(v), options)
}

func clean(rv reflect.Value, opts Options) (any, error) {
	if !rv.IsValid() {
		return nil, nil
	}

	// Concrete well-known types first.
	switch v := rv.Interface().(type) {
	case nil:
		return nil, nil
	case time.Time:
		return v.Format(time.RFC3339Nano), nil
	case uuid.UUID:
		return v.String(), nil
	case json.Number:
		return v.String(), nil
	case error:
		return v.Error(), nil
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return clean(rv.Elem(), opts)

	case reflect.Bool:
		return rv.Bool(), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint()), nil

	case reflect.Float32, reflect.Float64:
		return cleanFloat(rv.Float(), opts)

	case reflect.String:
		return rv.String(), nil

	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil, nil
		}
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			item, err := clean(rv.Index(i), opts)
			if err != nil {
				return nil, err
			}
			out[i] = item
		}
		return out, nil

	case reflect.Map:
		if rv.IsNil() {
			return nil, nil
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key, err := stringifyKey(iter.Key(), opts)
			if err != nil {
				return nil, err
			}
			value, err := clean(iter.Value(), opts)
			if err != nil {
				return nil, err
			}
			out[key] = value
		}
		return out, nil

	case reflect.Struct:
		return cleanStruct(rv, opts)
	}

	if opts.Strict {
		return nil, fmt.Errorf("cannot sanitize value of type %s", rv.Type())
	}
	return fmt.Sprint(rv.Interface()), nil
}

func cleanFloat(f float64, opts Options) (any, error) {
	if !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f, nil
	}
	if opts.NaNAsString {
		switch {
		case math.IsInf(f, 1):
			return "inf", nil
		case math.IsInf(f, -1):
			return "-inf", nil
		}
		return "nan", nil
	}
	if opts.Strict {
		return nil, fmt.Errorf("non-finite float %v has no JSON form", f)
	}
	return nil, nil
}

// stringifyKey renders a map key as a string, the only key type JSON
// objects support.
func stringifyKey(rv reflect.Value, opts Options) (string, error) {
	cleaned, err := clean(rv, opts)
	if err != nil {
		return "", err
	}
	if s, ok := cleaned.(string); ok {
		return s, nil
	}
	if opts.Strict && !isScalar(cleaned) {
		return "", fmt.Errorf("map key of type %s has no string form", rv.Type())
	}
	return fmt.Sprint(cleaned), nil
}

func isScalar(v any) bool {
	switch v.(type) {
	case bool, int64, float64, string, nil:
		return true
	}
	return false
}

// cleanStruct goes through the struct's JSON form so tags, omitempty,
// and custom marshalers all apply.
func cleanStruct(rv reflect.Value, opts Options) (any, error) {
	data, err := json.Marshal(rv.Interface())
	if err != nil {
		if opts.Strict {
			return nil, fmt.Errorf("cannot sanitize struct %s: %w", rv.Type(), err)
		}
		return fmt.Sprint(rv.Interface()), nil
	}

	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return clean(reflect.ValueOf(out), opts)
}
