// File: themekit/doc.go

// Package themekit provides definition registries and settings resolution for
// template-driven sites: named setting definitions with defaults and sanitize
// pipelines, and named view definitions with priority-ordered display
// predicates.
//
// Features:
//   - Explicit registry instances with required-property validation
//   - Non-fatal error reporting through an append-only collector
//   - Value resolution with default fallback and a strict undefined sentinel
//   - Named sanitize transforms validated at registration time
//   - Ordered extension hooks for defaults, callbacks, arguments and results
//   - Pluggable raw stores: in-memory, TOML/JSON/YAML file, SQLite per-object
//   - File store watching with debounced reloads
//
// Quick Start:
//
//	store, _ := themekit.NewFileStore("settings.toml")
//	s, err := themekit.NewBuilder().
//	    WithStore(store).
//	    WithDefinition("width", themekit.Properties{
//	        "default":  int64(960),
//	        "sanitize": "int",
//	    }).
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	width, _ := s.Int64("width")
//
// Value Resolution:
// Get reads the raw stored value, sanitizes it through the definition's
// callback, and falls back to the declared default only when the value is
// absent or rejected. A stored empty string or zero is a defined value and is
// returned in sanitized form, never replaced by the default.
//
// Views:
//
//	views := themekit.NewViews(themekit.ViewsOptions{DefaultView: "index"})
//	views.Add("page", themekit.Properties{
//	    "label":    "Page",
//	    "priority": 20,
//	    "callback": themekit.ViewPredicate(isPage),
//	}, false)
//	views.MarkReady()
//	current := views.CurrentView(request)
//
// Predicates evaluate in ascending priority order and the last match wins, so
// higher-priority views override earlier matches.
package themekit
