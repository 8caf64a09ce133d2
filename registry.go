// File: themekit/registry.go
package themekit

import (
	"slices"
	"strings"
	"sync"
)

// Properties is the attribute map attached to a definition. Callback-valued
// properties hold typed function references (SanitizeFunc, ViewPredicate);
// they are validated when the definition is added, never at call time.
type Properties map[string]any

// Definition pairs a unique slug key with its properties.
type Definition struct {
	Key   string
	Props Properties
}

// RegistryOptions configures a Registry.
type RegistryOptions struct {
	// Required lists property names that every definition must carry (as keys)
	// after the registry defaults have been merged in.
	Required []string

	// Defaults are merged under each added definition's properties.
	Defaults Properties

	// Populate registers the built-in definitions during Load.
	Populate func(*Registry)

	// Errors receives all validation failures. A nil collector is replaced
	// with a fresh one.
	Errors *ErrorCollector

	// checkProps lets specializations veto a candidate after the required
	// check passes. It records its own error and returns false to reject.
	checkProps func(key string, props Properties) bool
}

// Registry stores named definitions. It is an explicit instance passed to its
// consumers; there is no package-level registry. Reads before Load trigger
// loading exactly once.
type Registry struct {
	mu         sync.RWMutex
	required   []string
	defaults   Properties
	items      map[string]Properties
	order      []string
	loaded     bool
	populate   func(*Registry)
	afterLoad  []func(*Registry)
	checkProps func(key string, props Properties) bool
	errs       *ErrorCollector
}

// NewRegistry creates a registry. Load is deferred until the first read or an
// explicit Load call.
func NewRegistry(opts RegistryOptions) *Registry {
	errs := opts.Errors
	if errs == nil {
		errs = NewErrorCollector()
	}
	return &Registry{
		required:   slices.Clone(opts.Required),
		defaults:   opts.Defaults,
		items:      make(map[string]Properties),
		populate:   opts.Populate,
		checkProps: opts.checkProps,
		errs:       errs,
	}
}

// Errors returns the collector receiving this registry's failures.
func (r *Registry) Errors() *ErrorCollector {
	return r.errs
}

// Load populates the built-in definitions and fires the after-load
// notifications. It is idempotent: repeated calls are no-ops.
func (r *Registry) Load() {
	r.mu.Lock()
	if r.loaded {
		r.mu.Unlock()
		return
	}
	r.loaded = true
	populate := r.populate
	callbacks := slices.Clone(r.afterLoad)
	r.mu.Unlock()

	if populate != nil {
		populate(r)
	}
	for _, fn := range callbacks {
		fn(r)
	}
}

// Loaded reports whether Load has run.
func (r *Registry) Loaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loaded
}

// OnLoad registers fn to run once loading completes, the single extensibility
// point for adding or modifying definitions. If the registry is already
// loaded, fn runs immediately.
func (r *Registry) OnLoad(fn func(*Registry)) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	if r.loaded {
		r.mu.Unlock()
		fn(r)
		return
	}
	r.afterLoad = append(r.afterLoad, fn)
	r.mu.Unlock()
}

// Add validates and inserts a definition. With overwrite and an existing key,
// the new properties are merged over the old (new values win, old-only keys
// survive). Failures are recorded on the collector and leave the registry
// unchanged.
func (r *Registry) Add(key string, props Properties, overwrite bool) bool {
	r.Load()

	if key == "" {
		r.errs.Add(CodeMissingRequired, "definition key cannot be empty")
		return false
	}

	merged := mergeProperties(r.defaults, props)
	if missing := missingRequired(r.required, merged); len(missing) > 0 {
		r.errs.Addf(CodeMissingRequired, "definition %q is missing required properties: %s",
			key, strings.Join(missing, ", "))
		return false
	}
	if r.checkProps != nil && !r.checkProps(key, merged) {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.items[key]; ok {
		if !overwrite {
			r.errs.Addf(CodeAlreadyExists, "definition %q already exists", key)
			return false
		}
		r.items[key] = mergeProperties(existing, merged)
		return true
	}

	r.items[key] = merged
	r.order = append(r.order, key)
	return true
}

// Remove deletes a definition. A missing key is recorded and reported as
// failure.
func (r *Registry) Remove(key string) bool {
	r.Load()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[key]; !ok {
		r.errs.Addf(CodeCannotRemove, "no definition named %q to remove", key)
		return false
	}
	delete(r.items, key)
	if i := slices.Index(r.order, key); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
	return true
}

// Get returns the properties of a single definition.
func (r *Registry) Get(key string) (Properties, bool) {
	r.Load()

	r.mu.RLock()
	defer r.mu.RUnlock()
	props, ok := r.items[key]
	return props, ok
}

// Definitions returns the full key-to-properties mapping. The outer map is a
// copy; the property maps are shared and must be treated as read-only.
func (r *Registry) Definitions() map[string]Properties {
	r.Load()

	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]Properties, len(r.items))
	for k, v := range r.items {
		out[k] = v
	}
	return out
}

// DefinitionsWith returns the definitions that carry the named property.
// Entries lacking it are omitted, not defaulted.
func (r *Registry) DefinitionsWith(property string) map[string]Properties {
	r.Load()

	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]Properties)
	for k, v := range r.items {
		if _, ok := v[property]; ok {
			out[k] = v
		}
	}
	return out
}

// Exists reports whether a definition is registered.
func (r *Registry) Exists(key string) bool {
	r.Load()

	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.items[key]
	return ok
}

// ExistsWith reports whether a definition is registered and carries the named
// property.
func (r *Registry) ExistsWith(key, property string) bool {
	r.Load()

	r.mu.RLock()
	defer r.mu.RUnlock()
	props, ok := r.items[key]
	if !ok {
		return false
	}
	_, ok = props[property]
	return ok
}

// Keys returns the definition keys in insertion order.
func (r *Registry) Keys() []string {
	r.Load()

	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// Len returns the number of definitions.
func (r *Registry) Len() int {
	r.Load()

	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// missingRequired returns the required property names absent from props as
// keys. Property values never participate in the comparison.
func missingRequired(required []string, props Properties) []string {
	var missing []string
	for _, name := range required {
		if _, ok := props[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// mergeProperties layers overlay over base into a new map. Nested string-keyed
// maps merge recursively; any other overlay value replaces the base value.
func mergeProperties(base, overlay Properties) Properties {
	out := make(Properties, len(base)+len(overlay))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overlay {
		if bm, ok := asPropertyMap(out[k]); ok {
			if om, ok := asPropertyMap(v); ok {
				out[k] = mergeProperties(bm, om)
				continue
			}
		}
		out[k] = v
	}
	return out
}

func asPropertyMap(v any) (Properties, bool) {
	switch m := v.(type) {
	case Properties:
		return m, true
	case map[string]any:
		return Properties(m), true
	}
	return nil, false
}
