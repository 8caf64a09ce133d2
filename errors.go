// File: themekit/errors.go
package themekit

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Error codes recorded by registries and settings instances. Validation
// failures are never fatal: callers check boolean results and inspect the
// collector for details.
const (
	CodeAlreadyExists   = "already_exists"
	CodeMissingRequired = "missing_required_properties"
	CodeInvalidCallback = "invalid_callback"
	CodeCannotRemove    = "cannot_remove_missing"
	CodeCannotUnset     = "cannot_unset_missing"
	CodeCalledTooEarly  = "misuse_called_too_early"
)

var (
	// ErrNilStore is returned when a Settings instance is built without a store.
	ErrNilStore = errors.New("themekit: nil store")
	// ErrEmptyName is returned when registering a transform without a name.
	ErrEmptyName = errors.New("themekit: empty transform name")
	// ErrNilTransform is returned when registering a nil transform function.
	ErrNilTransform = errors.New("themekit: nil transform function")
	// ErrDuplicateTransform indicates an attempt to re-register a transform name.
	ErrDuplicateTransform = errors.New("themekit: transform already registered")
)

// ErrorRecord is a single structured failure reported by a registry or
// settings instance.
type ErrorRecord struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (r ErrorRecord) Error() string {
	return r.Code + ": " + r.Message
}

// ErrorCollector accumulates non-fatal failures. It is append-only for its
// lifetime; registries sharing a collector interleave their records.
type ErrorCollector struct {
	mu      sync.Mutex
	records []ErrorRecord
}

// NewErrorCollector creates an empty collector.
func NewErrorCollector() *ErrorCollector {
	return &ErrorCollector{}
}

// Add appends a record with the given code and message.
func (c *ErrorCollector) Add(code, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, ErrorRecord{Code: code, Message: message})
}

// Addf appends a record with a formatted message.
func (c *ErrorCollector) Addf(code, format string, args ...any) {
	c.Add(code, fmt.Sprintf(format, args...))
}

// Records returns a copy of all accumulated records in order.
func (c *ErrorCollector) Records() []ErrorRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ErrorRecord, len(c.records))
	copy(out, c.records)
	return out
}

// Len returns the number of accumulated records.
func (c *ErrorCollector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}

// HasErrors reports whether any record has been added.
func (c *ErrorCollector) HasErrors() bool {
	return c.Len() > 0
}

// Err joins all records into a single error, or returns nil if none.
func (c *ErrorCollector) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.records) == 0 {
		return nil
	}
	errs := make([]error, len(c.records))
	for i, r := range c.records {
		errs[i] = r
	}
	return errors.Join(errs...)
}

// Deprecations reports advisory misuse of order-dependent operations. Reports
// are log-only and never alter control flow.
type Deprecations struct {
	logger *slog.Logger
}

// NewDeprecations creates a reporter writing to logger. A nil logger falls
// back to slog.Default.
func NewDeprecations(logger *slog.Logger) *Deprecations {
	if logger == nil {
		logger = slog.Default()
	}
	return &Deprecations{logger: logger}
}

// Warn records that function was used incorrectly. since names the release in
// which the call pattern became incorrect.
func (d *Deprecations) Warn(function, message, since string) {
	if d == nil || d.logger == nil {
		slog.Warn("incorrect usage", "function", function, "reason", message, "since", since)
		return
	}
	d.logger.Warn("incorrect usage", "function", function, "reason", message, "since", since)
}
