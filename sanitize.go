// File: themekit/sanitize.go
package themekit

import (
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// SanitizeFunc normalizes a raw stored value. Returning Undefined signals that
// the value could not be sanitized and the definition default should be used
// instead. Extra arguments are injected by the sanitize-args hook point.
type SanitizeFunc func(value any, args ...any) Value

// Transforms is an explicit registry of named sanitize functions. Definitions
// may reference a transform by name; the name is resolved and validated when
// the definition is added.
type Transforms struct {
	mu sync.RWMutex
	m  map[string]SanitizeFunc
}

// NewTransforms creates an empty transform registry.
func NewTransforms() *Transforms {
	return &Transforms{m: make(map[string]SanitizeFunc)}
}

// DefaultTransforms returns a registry pre-seeded with the builtin sanitizers
// under the names "int", "float", "bool", "string", "hexcolor" and "url".
func DefaultTransforms() *Transforms {
	t := NewTransforms()
	t.m["int"] = SanitizeInt
	t.m["float"] = SanitizeFloat
	t.m["bool"] = SanitizeBool
	t.m["string"] = SanitizeString
	t.m["hexcolor"] = SanitizeHexColor
	t.m["url"] = SanitizeURL
	return t
}

// Register associates a name with a sanitize function. Re-registering an
// existing name is rejected.
func (t *Transforms) Register(name string, fn SanitizeFunc) error {
	if name == "" {
		return ErrEmptyName
	}
	if fn == nil {
		return ErrNilTransform
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.m[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTransform, name)
	}
	t.m[name] = fn
	return nil
}

// Resolve returns the transform registered under name.
func (t *Transforms) Resolve(name string) (SanitizeFunc, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	fn, ok := t.m[name]
	return fn, ok
}

// Names returns the registered transform names, sorted.
func (t *Transforms) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.m))
	for name := range t.m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SanitizeInt coerces numeric types, parsable strings, and booleans to int64.
func SanitizeInt(value any, _ ...any) Value {
	n, ok := toInt64(value)
	if !ok {
		return Undefined
	}
	return Some(n)
}

// SanitizeFloat coerces numeric types, parsable strings, and booleans to
// float64.
func SanitizeFloat(value any, _ ...any) Value {
	f, ok := toFloat64(value)
	if !ok {
		return Undefined
	}
	return Some(f)
}

// SanitizeBool coerces booleans, numbers (zero is false), and parsable strings
// to bool.
func SanitizeBool(value any, _ ...any) Value {
	b, ok := toBool(value)
	if !ok {
		return Undefined
	}
	return Some(b)
}

// SanitizeString coerces common scalar types to a string.
func SanitizeString(value any, _ ...any) Value {
	s, ok := toString(value)
	if !ok {
		return Undefined
	}
	return Some(s)
}

var hexColorPattern = regexp.MustCompile(`^#?([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// SanitizeHexColor normalizes a 3- or 6-digit hex color to lowercase with a
// leading hash. Anything else is Undefined.
func SanitizeHexColor(value any, _ ...any) Value {
	s, ok := toString(value)
	if !ok {
		return Undefined
	}
	s = strings.TrimSpace(s)
	if !hexColorPattern.MatchString(s) {
		return Undefined
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	return Some(strings.ToLower(s))
}

// SanitizeURL accepts absolute http(s) URLs and returns their normalized form.
func SanitizeURL(value any, _ ...any) Value {
	s, ok := toString(value)
	if !ok {
		return Undefined
	}
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Undefined
	}
	return Some(u.String())
}

// ChoiceOf builds a sanitizer that only accepts one of the given choices.
func ChoiceOf(choices ...string) SanitizeFunc {
	allowed := make(map[string]bool, len(choices))
	for _, c := range choices {
		allowed[c] = true
	}
	return func(value any, _ ...any) Value {
		s, ok := toString(value)
		if !ok || !allowed[s] {
			return Undefined
		}
		return Some(s)
	}
}

// toInt64 converts common scalar types to int64.
func toInt64(val any) (int64, bool) {
	if val == nil {
		return 0, false
	}
	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := v.Uint()
		if u > uint64(^uint64(0)>>1) {
			return 0, false
		}
		return int64(u), true
	case reflect.Float32, reflect.Float64:
		return int64(v.Float()), true
	case reflect.String:
		s := v.String()
		if i, err := strconv.ParseInt(s, 0, 64); err == nil {
			return i, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int64(f), true
		}
		return 0, false
	case reflect.Bool:
		if v.Bool() {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// toFloat64 converts common scalar types to float64.
func toFloat64(val any) (float64, bool) {
	if val == nil {
		return 0, false
	}
	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	case reflect.String:
		if f, err := strconv.ParseFloat(v.String(), 64); err == nil {
			return f, true
		}
		return 0, false
	case reflect.Bool:
		if v.Bool() {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// toBool converts common scalar types to bool.
func toBool(val any) (bool, bool) {
	if val == nil {
		return false, false
	}
	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Bool:
		return v.Bool(), true
	case reflect.String:
		if b, err := strconv.ParseBool(v.String()); err == nil {
			return b, true
		}
		return false, false
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() != 0, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() != 0, true
	case reflect.Float32, reflect.Float64:
		return v.Float() != 0, true
	}
	return false, false
}

// toString converts common scalar types to a string.
func toString(val any) (string, bool) {
	switch v := val.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case []byte:
		return string(v), true
	case fmt.Stringer:
		return v.String(), true
	case error:
		return v.Error(), true
	case bool:
		return strconv.FormatBool(v), true
	}
	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32), true
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), true
	}
	return "", false
}
