// File: themekit/hooks.go
package themekit

import "sync"

// Hook signatures for the named extension points. Each hook receives the
// current value for its point and returns the (possibly transformed)
// replacement; hooks run synchronously in registration order.
type (
	// DefaultValueHook transforms the declared default of a setting.
	DefaultValueHook func(key string, def Value) Value

	// CallbackHook swaps or wraps the sanitize callback chosen for a setting.
	CallbackHook func(key, context string, fn SanitizeFunc) SanitizeFunc

	// ArgsHook edits the extra arguments passed to the sanitize callback.
	ArgsHook func(key, context string, args []any) []any

	// ResultHook transforms the sanitized result before it is returned.
	ResultHook func(key, context string, result Value) Value

	// CurrentValueHook transforms the fully resolved value of a setting.
	CurrentValueHook func(key, context string, value Value) Value
)

// Hooks holds the ordered middleware chains for a Settings instance.
// Registration is explicit; there is no ambient hook table.
type Hooks struct {
	mu           sync.RWMutex
	defaultValue []DefaultValueHook
	callback     []CallbackHook
	args         []ArgsHook
	result       []ResultHook
	current      []CurrentValueHook
}

// NewHooks creates an empty hook set.
func NewHooks() *Hooks {
	return &Hooks{}
}

// OnDefaultValue appends a hook to the default-value chain.
func (h *Hooks) OnDefaultValue(fn DefaultValueHook) {
	if fn == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.defaultValue = append(h.defaultValue, fn)
}

// OnCallback appends a hook to the callback-selection chain.
func (h *Hooks) OnCallback(fn CallbackHook) {
	if fn == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.callback = append(h.callback, fn)
}

// OnArgs appends a hook to the sanitize-arguments chain.
func (h *Hooks) OnArgs(fn ArgsHook) {
	if fn == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.args = append(h.args, fn)
}

// OnResult appends a hook to the sanitized-result chain.
func (h *Hooks) OnResult(fn ResultHook) {
	if fn == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.result = append(h.result, fn)
}

// OnCurrentValue appends a hook to the current-value chain.
func (h *Hooks) OnCurrentValue(fn CurrentValueHook) {
	if fn == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.current = append(h.current, fn)
}

func (h *Hooks) applyDefault(key string, def Value) Value {
	if h == nil {
		return def
	}
	h.mu.RLock()
	chain := h.defaultValue
	h.mu.RUnlock()
	for _, fn := range chain {
		def = fn(key, def)
	}
	return def
}

func (h *Hooks) applyCallback(key, context string, fn SanitizeFunc) SanitizeFunc {
	if h == nil {
		return fn
	}
	h.mu.RLock()
	chain := h.callback
	h.mu.RUnlock()
	for _, hook := range chain {
		fn = hook(key, context, fn)
	}
	return fn
}

func (h *Hooks) applyArgs(key, context string, args []any) []any {
	if h == nil {
		return args
	}
	h.mu.RLock()
	chain := h.args
	h.mu.RUnlock()
	for _, fn := range chain {
		args = fn(key, context, args)
	}
	return args
}

func (h *Hooks) applyResult(key, context string, result Value) Value {
	if h == nil {
		return result
	}
	h.mu.RLock()
	chain := h.result
	h.mu.RUnlock()
	for _, fn := range chain {
		result = fn(key, context, result)
	}
	return result
}

func (h *Hooks) applyCurrent(key, context string, value Value) Value {
	if h == nil {
		return value
	}
	h.mu.RLock()
	chain := h.current
	h.mu.RUnlock()
	for _, fn := range chain {
		value = fn(key, context, value)
	}
	return value
}
