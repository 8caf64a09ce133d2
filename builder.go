// File: themekit/builder.go
package themekit

import (
	"errors"
	"fmt"
)

// ValidatorFunc validates a fully built Settings instance and returns an
// error if it is unusable.
type ValidatorFunc func(s *Settings) error

type definitionSpec struct {
	key       string
	props     Properties
	overwrite bool
}

// Builder provides a fluent interface for assembling a Settings instance.
type Builder struct {
	opts        SettingsOptions
	definitions []definitionSpec
	validators  []ValidatorFunc
}

// NewBuilder creates a settings builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// WithStore sets the raw value backend.
func (b *Builder) WithStore(store Store) *Builder {
	b.opts.Store = store
	return b
}

// WithTransforms sets the named transform registry.
func (b *Builder) WithTransforms(t *Transforms) *Builder {
	b.opts.Transforms = t
	return b
}

// WithHooks sets the extension hook set.
func (b *Builder) WithHooks(h *Hooks) *Builder {
	b.opts.Hooks = h
	return b
}

// WithErrorCollector shares an existing collector with the instance.
func (b *Builder) WithErrorCollector(c *ErrorCollector) *Builder {
	b.opts.Errors = c
	return b
}

// WithRequired overrides the required property set for definitions.
func (b *Builder) WithRequired(names ...string) *Builder {
	b.opts.Required = names
	return b
}

// WithDefaultProperties merges props under every added definition.
func (b *Builder) WithDefaultProperties(props Properties) *Builder {
	b.opts.Defaults = props
	return b
}

// WithPopulate sets the built-in definition loader.
func (b *Builder) WithPopulate(fn func(*Settings)) *Builder {
	b.opts.Populate = fn
	return b
}

// WithDefinition queues a definition to add after loading.
func (b *Builder) WithDefinition(key string, props Properties) *Builder {
	b.definitions = append(b.definitions, definitionSpec{key: key, props: props})
	return b
}

// WithOverwrite queues a definition that replaces (merges over) an existing
// one of the same key.
func (b *Builder) WithOverwrite(key string, props Properties) *Builder {
	b.definitions = append(b.definitions, definitionSpec{key: key, props: props, overwrite: true})
	return b
}

// WithValidator adds a validation function run at the end of Build. Multiple
// validators run in the order they were added.
func (b *Builder) WithValidator(fn ValidatorFunc) *Builder {
	if fn != nil {
		b.validators = append(b.validators, fn)
	}
	return b
}

// Build assembles the Settings instance, loads it, adds the queued
// definitions, and runs the validators. Definitions rejected during the build
// surface as an error carrying the collector records.
func (b *Builder) Build() (*Settings, error) {
	s, err := NewSettings(b.opts)
	if err != nil {
		return nil, err
	}

	before := s.Errors().Len()
	s.Load()
	for _, def := range b.definitions {
		s.Add(def.key, def.props, def.overwrite)
	}
	if records := s.Errors().Records(); len(records) > before {
		errs := make([]error, 0, len(records)-before)
		for _, r := range records[before:] {
			errs = append(errs, r)
		}
		return nil, fmt.Errorf("settings build rejected definitions: %w", errors.Join(errs...))
	}

	for _, validator := range b.validators {
		if err := validator(s); err != nil {
			return nil, fmt.Errorf("settings validation failed: %w", err)
		}
	}
	return s, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *Settings {
	s, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("settings build failed: %v", err))
	}
	return s
}
