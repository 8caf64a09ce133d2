// File: themekit/scan.go
package themekit

import (
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// Scan resolves every defined setting and decodes the results into target,
// which must be a non-nil struct pointer. Fields map to setting keys through
// the "setting" struct tag, falling back to the lowercased field name.
func (s *Settings) Scan(target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("scan target must be a non-nil pointer, got %T", target)
	}

	resolved := make(map[string]any)
	for _, key := range s.Keys() {
		resolved[key] = s.Get(key, "")
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "setting",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(resolved); err != nil {
		return fmt.Errorf("failed to scan settings into %T: %w", target, err)
	}
	return nil
}
