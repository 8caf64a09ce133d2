// File: themekit/settings.go
package themekit

import (
	"fmt"
	"reflect"
	"strings"
)

// Property names with registry-level meaning for settings definitions.
const (
	// PropDefault holds the value returned when nothing is stored or
	// sanitization rejects the stored value.
	PropDefault = "default"

	// PropSanitize holds the generic sanitize callback, either a SanitizeFunc
	// or the name of a registered transform.
	PropSanitize = "sanitize"

	// propContextPrefix prefixes context-specific sanitize properties, e.g.
	// "sanitize_html". A context callback wins over the generic one.
	propContextPrefix = "sanitize_"
)

// SettingsOptions configures a Settings instance.
type SettingsOptions struct {
	// Store supplies and persists raw values. Required.
	Store Store

	// Populate registers the built-in setting definitions during Load.
	Populate func(*Settings)

	// Transforms resolves sanitize callbacks referenced by name. Defaults to
	// DefaultTransforms.
	Transforms *Transforms

	// Hooks are the extension points applied during resolution. Optional.
	Hooks *Hooks

	// Errors receives validation failures. A nil collector is replaced with a
	// fresh one.
	Errors *ErrorCollector

	// Required overrides the required property set. Defaults to
	// {default, sanitize}.
	Required []string

	// Defaults are merged under every added definition's properties.
	Defaults Properties
}

// Settings manages setting definitions and resolves their effective values.
// Resolution always terminates in either a sanitized value or the declared
// default; a half-sanitized value is never returned.
type Settings struct {
	reg        *Registry
	store      Store
	hooks      *Hooks
	transforms *Transforms
	errs       *ErrorCollector
}

// NewSettings creates a Settings instance over the given store.
func NewSettings(opts SettingsOptions) (*Settings, error) {
	if opts.Store == nil {
		return nil, ErrNilStore
	}
	errs := opts.Errors
	if errs == nil {
		errs = NewErrorCollector()
	}
	transforms := opts.Transforms
	if transforms == nil {
		transforms = DefaultTransforms()
	}
	required := opts.Required
	if required == nil {
		required = []string{PropDefault, PropSanitize}
	}

	s := &Settings{
		store:      opts.Store,
		hooks:      opts.Hooks,
		transforms: transforms,
		errs:       errs,
	}
	populate := opts.Populate
	s.reg = NewRegistry(RegistryOptions{
		Required: required,
		Defaults: opts.Defaults,
		Errors:   errs,
		Populate: func(*Registry) {
			if populate != nil {
				populate(s)
			}
		},
		checkProps: s.resolveCallbackProps,
	})
	return s, nil
}

// Errors returns the collector receiving this instance's failures.
func (s *Settings) Errors() *ErrorCollector {
	return s.errs
}

// Store returns the raw value backend.
func (s *Settings) Store() Store {
	return s.store
}

// Hooks returns the hook set, creating one on first use.
func (s *Settings) Hooks() *Hooks {
	if s.hooks == nil {
		s.hooks = NewHooks()
	}
	return s.hooks
}

// Load populates the built-in definitions. Idempotent.
func (s *Settings) Load() {
	s.reg.Load()
}

// OnLoad registers fn to run once loading completes.
func (s *Settings) OnLoad(fn func(*Settings)) {
	if fn == nil {
		return
	}
	s.reg.OnLoad(func(*Registry) { fn(s) })
}

// Add registers a setting definition. Sanitize-valued properties must resolve
// to a SanitizeFunc (directly or through the transform registry); a definition
// that does not resolve is rejected with an invalid_callback record.
func (s *Settings) Add(key string, props Properties, overwrite bool) bool {
	return s.reg.Add(key, props, overwrite)
}

// Remove deletes a setting definition.
func (s *Settings) Remove(key string) bool {
	return s.reg.Remove(key)
}

// Exists reports whether a setting is defined, optionally scoped to
// definitions carrying a property.
func (s *Settings) Exists(key string) bool {
	return s.reg.Exists(key)
}

// ExistsWith reports whether a setting is defined and carries the property.
func (s *Settings) ExistsWith(key, property string) bool {
	return s.reg.ExistsWith(key, property)
}

// Definitions returns the full definition mapping.
func (s *Settings) Definitions() map[string]Properties {
	return s.reg.Definitions()
}

// DefinitionsWith returns the definitions carrying the named property.
func (s *Settings) DefinitionsWith(property string) map[string]Properties {
	return s.reg.DefinitionsWith(property)
}

// Keys returns the defined setting keys in registration order.
func (s *Settings) Keys() []string {
	return s.reg.Keys()
}

// Raw returns the stored value for key without sanitization.
func (s *Settings) Raw(key string) Value {
	return s.store.Read(key)
}

// Default returns the declared default of a setting, or Undefined when the
// definition or property is absent, after the default-value hooks.
func (s *Settings) Default(key string) Value {
	def := Undefined
	if props, ok := s.reg.Get(key); ok {
		if v, ok := props[PropDefault]; ok {
			def = Some(v)
		}
	}
	return s.hooks.applyDefault(key, def)
}

// Get resolves the effective value of a setting: the sanitized stored value,
// or the declared default when nothing is stored or sanitization rejects the
// stored value. A stored falsy value does not fall back to the default.
func (s *Settings) Get(key, context string) any {
	out := Undefined
	if raw := s.Raw(key); raw.Defined() {
		out = s.Sanitize(raw.Interface(), key, context)
	}
	if !out.Defined() {
		out = s.Default(key)
	}
	out = s.hooks.applyCurrent(key, context, out)
	return out.Interface()
}

// Sanitize runs a value through the setting's sanitize callback. A context
// names the "sanitize_<context>" property, which wins over the generic
// callback. When no callback resolves, an invalid_callback record is added and
// Undefined returned.
func (s *Settings) Sanitize(value any, key, context string) Value {
	fn := s.callbackFor(key, context)
	fn = s.hooks.applyCallback(key, context, fn)
	if fn == nil {
		s.errs.Addf(CodeInvalidCallback, "no sanitize callback resolves for setting %q (context %q)", key, context)
		return Undefined
	}
	args := s.hooks.applyArgs(key, context, nil)
	result := fn(value, args...)
	return s.hooks.applyResult(key, context, result)
}

// IsDefault reports whether the current resolved value of key strictly equals
// its declared default.
func (s *Settings) IsDefault(key string) bool {
	return s.IsDefaultValue(key, s.Get(key, ""))
}

// IsDefaultValue reports whether value strictly equals the declared default of
// key. An undeclared default never matches.
func (s *Settings) IsDefaultValue(key string, value any) bool {
	def := s.Default(key)
	if !def.Defined() {
		return false
	}
	return equalValues(def.Interface(), value)
}

// Set sanitizes value and persists the result. A value the callback rejects is
// not persisted.
func (s *Settings) Set(key string, value any) bool {
	v := s.Sanitize(value, key, "")
	if !v.Defined() {
		return false
	}
	return s.store.Write(key, v.Interface())
}

// Unset removes the stored value for key, falling the setting back to its
// default. A key with no stored value is recorded as a failure.
func (s *Settings) Unset(key string) bool {
	if !s.store.Delete(key) {
		s.errs.Addf(CodeCannotUnset, "no stored value for setting %q", key)
		return false
	}
	return true
}

// String resolves key and converts the result to a string.
func (s *Settings) String(key string) (string, error) {
	val, err := s.resolved(key)
	if err != nil {
		return "", err
	}
	if val == nil {
		return "", nil
	}
	str, ok := toString(val)
	if !ok {
		return "", fmt.Errorf("cannot convert type %T to string for setting %s", val, key)
	}
	return str, nil
}

// Int64 resolves key and converts the result to an int64.
func (s *Settings) Int64(key string) (int64, error) {
	val, err := s.resolved(key)
	if err != nil {
		return 0, err
	}
	n, ok := toInt64(val)
	if !ok {
		return 0, fmt.Errorf("cannot convert type %T to int64 for setting %s", val, key)
	}
	return n, nil
}

// Float64 resolves key and converts the result to a float64.
func (s *Settings) Float64(key string) (float64, error) {
	val, err := s.resolved(key)
	if err != nil {
		return 0, err
	}
	f, ok := toFloat64(val)
	if !ok {
		return 0, fmt.Errorf("cannot convert type %T to float64 for setting %s", val, key)
	}
	return f, nil
}

// Bool resolves key and converts the result to a bool.
func (s *Settings) Bool(key string) (bool, error) {
	val, err := s.resolved(key)
	if err != nil {
		return false, err
	}
	b, ok := toBool(val)
	if !ok {
		return false, fmt.Errorf("cannot convert type %T to bool for setting %s", val, key)
	}
	return b, nil
}

func (s *Settings) resolved(key string) (any, error) {
	if !s.reg.Exists(key) {
		return nil, fmt.Errorf("setting not registered: %s", key)
	}
	return s.Get(key, ""), nil
}

// callbackFor selects the sanitize callback for a key. The context-specific
// property wins; callers fall through to the generic callback otherwise.
func (s *Settings) callbackFor(key, context string) SanitizeFunc {
	props, ok := s.reg.Get(key)
	if !ok {
		return nil
	}
	if context != "" {
		if fn, ok := props[propContextPrefix+context].(SanitizeFunc); ok {
			return fn
		}
	}
	fn, _ := props[PropSanitize].(SanitizeFunc)
	return fn
}

// resolveCallbackProps normalizes every sanitize-valued property of a
// candidate definition to a SanitizeFunc, rejecting the definition when one
// does not resolve.
func (s *Settings) resolveCallbackProps(key string, props Properties) bool {
	for name, raw := range props {
		if name != PropSanitize && !strings.HasPrefix(name, propContextPrefix) {
			continue
		}
		fn, ok := s.resolveCallback(raw)
		if !ok {
			s.errs.Addf(CodeInvalidCallback, "setting %q property %q does not resolve to a sanitize function", key, name)
			return false
		}
		props[name] = fn
	}
	return true
}

func (s *Settings) resolveCallback(raw any) (SanitizeFunc, bool) {
	switch v := raw.(type) {
	case SanitizeFunc:
		return v, v != nil
	case func(any, ...any) Value:
		return SanitizeFunc(v), v != nil
	case string:
		return s.transforms.Resolve(v)
	}
	return nil, false
}

// equalValues is the strict equality used by IsDefault: same dynamic type and
// equal value, with reflect.DeepEqual for non-comparable kinds.
func equalValues(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	if reflect.TypeOf(a).Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}
