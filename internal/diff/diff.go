// Package diff computes sparse field-level deltas between an entity's
// current values and a proposed update.
package diff

import (
	"fmt"
	"reflect"
	"sort"
	"time"

	"github.com/google/go-cmp/cmp"
)

const dateLayout = "2006-01-02"

// Change is the before/after pair of one field.
type Change struct {
	Old any `json:"old"`
	New any `json:"new"`
}

// Changes maps field names to their changes. Only differing fields appear.
type Changes map[string]Change

// Empty reports whether nothing changed.
func (c Changes) Empty() bool { return len(c) == 0 }

// Fields returns the changed field names in sorted order.
func (c Changes) Fields() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Compute compares every key of proposed against current. A key missing from
// current compares against nil. Both sides are normalized first, so a
// *time.Time and a date string for the same day are equal.
func Compute(current, proposed map[string]any) Changes {
	out := Changes{}
	for field, next := range proposed {
		oldN := Normalize(current[field])
		newN := Normalize(next)
		if !cmp.Equal(oldN, newN) {
			out[field] = Change{Old: oldN, New: newN}
		}
	}
	return out
}

// Normalize reduces v to a comparable, JSON-friendly form: dates become
// YYYY-MM-DD strings, pointers are dereferenced, named string and integer
// types collapse to string and int64. Structs become their String() form
// when they have one, else a map of their exported fields.
func Normalize(v any) any {
	if v == nil {
		return nil
	}
	switch t := v.(type) {
	case time.Time:
		return t.UTC().Format(dateLayout)
	case *time.Time:
		if t == nil {
			return nil
		}
		return t.UTC().Format(dateLayout)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return Normalize(rv.Elem().Interface())
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return []any{}
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = Normalize(rv.Index(i).Interface())
		}
		return out
	case reflect.Struct:
		if str, ok := v.(fmt.Stringer); ok {
			return str.String()
		}
		rt := rv.Type()
		out := make(map[string]any, rt.NumField())
		for i := range rt.NumField() {
			if f := rt.Field(i); f.IsExported() {
				out[f.Name] = Normalize(rv.Field(i).Interface())
			}
		}
		return out
	case reflect.Map:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key, ok := Normalize(iter.Key().Interface()).(string)
			if !ok {
				continue
			}
			out[key] = Normalize(iter.Value().Interface())
		}
		return out
	default:
		return v
	}
}
