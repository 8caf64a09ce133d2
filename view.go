// File: themekit/view.go
package themekit

import (
	"slices"
	"sync/atomic"
)

// ViewPredicate decides whether a view applies to the given subject. The
// subject carries whatever request or page state the caller resolves views
// against; predicates never reach for ambient state.
type ViewPredicate func(subject any) bool

// Property names with registry-level meaning for view definitions.
const (
	// PropLabel is the human-readable name of a view.
	PropLabel = "label"

	// PropCallback holds the view's ViewPredicate.
	PropCallback = "callback"

	// PropPriority orders view evaluation; higher priorities evaluate later
	// and override earlier matches.
	PropPriority = "priority"
)

// DefaultViewPriority is merged into definitions that omit a priority.
const DefaultViewPriority = 10

// ViewsOptions configures a view registry.
type ViewsOptions struct {
	// DefaultView is returned by CurrentView when no predicate matches.
	DefaultView string

	// Populate registers the built-in views during Load.
	Populate func(*Views)

	// Errors receives validation failures. A nil collector is replaced with a
	// fresh one.
	Errors *ErrorCollector

	// Deprecations reports calls made before the registry is ready. A nil
	// reporter logs through slog.Default.
	Deprecations *Deprecations
}

// Views is the view registry: named view definitions with display predicates,
// evaluated in priority order to pick the current view.
type Views struct {
	reg          *Registry
	errs         *ErrorCollector
	deprecations *Deprecations
	defaultView  string
	ready        atomic.Bool
}

// NewViews creates a view registry. Load is deferred until the first read or
// an explicit Load call.
func NewViews(opts ViewsOptions) *Views {
	errs := opts.Errors
	if errs == nil {
		errs = NewErrorCollector()
	}
	v := &Views{
		errs:         errs,
		deprecations: opts.Deprecations,
		defaultView:  opts.DefaultView,
	}
	if v.deprecations == nil {
		v.deprecations = NewDeprecations(nil)
	}
	populate := opts.Populate
	v.reg = NewRegistry(RegistryOptions{
		Required: []string{PropLabel, PropCallback, PropPriority},
		Defaults: Properties{PropPriority: DefaultViewPriority},
		Errors:   errs,
		Populate: func(*Registry) {
			if populate != nil {
				populate(v)
			}
		},
		checkProps: v.checkCallback,
	})
	return v
}

// Errors returns the collector receiving this registry's failures.
func (v *Views) Errors() *ErrorCollector {
	return v.errs
}

// Load populates the built-in views. Idempotent.
func (v *Views) Load() {
	v.reg.Load()
}

// OnLoad registers fn to run once loading completes.
func (v *Views) OnLoad(fn func(*Views)) {
	if fn == nil {
		return
	}
	v.reg.OnLoad(func(*Registry) { fn(v) })
}

// Add registers a view definition. The callback property must hold an
// invocable ViewPredicate; a definition with all required properties but an
// invalid callback is still rejected.
func (v *Views) Add(key string, props Properties, overwrite bool) bool {
	return v.reg.Add(key, props, overwrite)
}

// Remove deletes a view definition.
func (v *Views) Remove(key string) bool {
	return v.reg.Remove(key)
}

// Exists reports whether a view is registered.
func (v *Views) Exists(key string) bool {
	return v.reg.Exists(key)
}

// ExistsWith reports whether a view is registered and carries the property.
func (v *Views) ExistsWith(key, property string) bool {
	return v.reg.ExistsWith(key, property)
}

// Definitions returns the full view mapping.
func (v *Views) Definitions() map[string]Properties {
	return v.reg.Definitions()
}

// DefinitionsWith returns the views carrying the named property.
func (v *Views) DefinitionsWith(property string) map[string]Properties {
	return v.reg.DefinitionsWith(property)
}

// Sorted returns all views ordered by ascending priority. The sort is stable:
// views sharing a priority keep their registration order.
func (v *Views) Sorted() []Definition {
	keys := v.reg.Keys()
	defs := make([]Definition, 0, len(keys))
	for _, key := range keys {
		if props, ok := v.reg.Get(key); ok {
			defs = append(defs, Definition{Key: key, Props: props})
		}
	}
	slices.SortStableFunc(defs, func(a, b Definition) int {
		return priorityOf(a.Props) - priorityOf(b.Props)
	})
	return defs
}

// MarkReady records that view registration is complete and CurrentView may be
// called. Calling CurrentView earlier is reported as misuse but still
// evaluated best-effort.
func (v *Views) MarkReady() {
	v.ready.Store(true)
}

// CurrentView evaluates every view predicate against subject in priority
// order and returns the key of the last one that matches; higher-priority
// views evaluate later and override earlier matches. With no match the
// default view is returned.
func (v *Views) CurrentView(subject any) string {
	if !v.ready.Load() {
		v.deprecations.Warn("Views.CurrentView",
			"called before MarkReady; not all views may be registered yet", "1.0.0")
		v.errs.Add(CodeCalledTooEarly, "CurrentView called before the view registry was marked ready")
	}

	current := v.defaultView
	for _, def := range v.Sorted() {
		fn, ok := def.Props[PropCallback].(ViewPredicate)
		if !ok {
			continue
		}
		if fn(subject) {
			current = def.Key
		}
	}
	return current
}

// checkCallback rejects candidates whose callback property is not an
// invocable ViewPredicate.
func (v *Views) checkCallback(key string, props Properties) bool {
	fn, ok := viewPredicate(props[PropCallback])
	if !ok {
		v.errs.Addf(CodeInvalidCallback, "view %q callback is not an invocable predicate", key)
		return false
	}
	props[PropCallback] = fn
	return true
}

func viewPredicate(raw any) (ViewPredicate, bool) {
	switch fn := raw.(type) {
	case ViewPredicate:
		return fn, fn != nil
	case func(any) bool:
		return ViewPredicate(fn), fn != nil
	}
	return nil, false
}

// priorityOf reads a definition's numeric priority, tolerating the common
// integer and float representations.
func priorityOf(props Properties) int {
	switch p := props[PropPriority].(type) {
	case int:
		return p
	case int64:
		return int(p)
	case float64:
		return int(p)
	}
	return DefaultViewPriority
}
