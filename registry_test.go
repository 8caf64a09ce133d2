// File: themekit/registry_test.go
package themekit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRegistryAdd tests definition validation and insertion
func TestRegistryAdd(t *testing.T) {
	t.Run("MissingRequiredLeavesRegistryUnchanged", func(t *testing.T) {
		reg := NewRegistry(RegistryOptions{Required: []string{"label", "weight"}})

		ok := reg.Add("incomplete", Properties{"label": "Incomplete"}, false)
		assert.False(t, ok)
		assert.Equal(t, 0, reg.Len())

		records := reg.Errors().Records()
		require.Len(t, records, 1)
		assert.Equal(t, CodeMissingRequired, records[0].Code)
		assert.Contains(t, records[0].Message, "weight")
	})

	t.Run("RequiredSatisfiedByRegistryDefaults", func(t *testing.T) {
		reg := NewRegistry(RegistryOptions{
			Required: []string{"label", "weight"},
			Defaults: Properties{"weight": 10},
		})

		ok := reg.Add("item", Properties{"label": "Item"}, false)
		assert.True(t, ok)

		props, found := reg.Get("item")
		require.True(t, found)
		assert.Equal(t, 10, props["weight"])
	})

	t.Run("EmptyKeyRejected", func(t *testing.T) {
		reg := NewRegistry(RegistryOptions{})
		assert.False(t, reg.Add("", Properties{}, false))
		assert.Equal(t, 1, reg.Errors().Len())
	})

	t.Run("DuplicateWithoutOverwriteRejected", func(t *testing.T) {
		reg := NewRegistry(RegistryOptions{})
		require.True(t, reg.Add("item", Properties{"a": 1}, false))

		ok := reg.Add("item", Properties{"a": 2}, false)
		assert.False(t, ok)

		props, _ := reg.Get("item")
		assert.Equal(t, 1, props["a"])

		records := reg.Errors().Records()
		require.Len(t, records, 1)
		assert.Equal(t, CodeAlreadyExists, records[0].Code)
	})

	t.Run("OverwriteMergesNewOverOld", func(t *testing.T) {
		reg := NewRegistry(RegistryOptions{})
		require.True(t, reg.Add("item", Properties{"a": 1, "keep": "old"}, false))

		ok := reg.Add("item", Properties{"a": 2, "extra": true}, true)
		assert.True(t, ok)

		props, found := reg.Get("item")
		require.True(t, found)
		assert.Equal(t, 2, props["a"])        // new value wins
		assert.Equal(t, "old", props["keep"]) // old-only key preserved
		assert.Equal(t, true, props["extra"]) // new-only key added
		assert.Equal(t, 0, reg.Errors().Len())
	})

	t.Run("OverwriteMergesNestedMapsRecursively", func(t *testing.T) {
		reg := NewRegistry(RegistryOptions{})
		require.True(t, reg.Add("item", Properties{
			"meta": map[string]any{"color": "red", "size": "large"},
		}, false))

		require.True(t, reg.Add("item", Properties{
			"meta": map[string]any{"color": "blue"},
		}, true))

		props, _ := reg.Get("item")
		meta, ok := props["meta"].(Properties)
		require.True(t, ok)
		assert.Equal(t, "blue", meta["color"])
		assert.Equal(t, "large", meta["size"])
	})
}

// TestRegistryRemove tests deletion and missing-key reporting
func TestRegistryRemove(t *testing.T) {
	t.Run("RemoveExisting", func(t *testing.T) {
		reg := NewRegistry(RegistryOptions{})
		require.True(t, reg.Add("item", Properties{}, false))
		assert.True(t, reg.Remove("item"))
		assert.False(t, reg.Exists("item"))
	})

	t.Run("RemoveMissingEmitsExactlyOneRecord", func(t *testing.T) {
		reg := NewRegistry(RegistryOptions{})
		assert.False(t, reg.Remove("never-added"))

		records := reg.Errors().Records()
		require.Len(t, records, 1)
		assert.Equal(t, CodeCannotRemove, records[0].Code)
	})
}

// TestRegistryQuery tests full and property-restricted lookups
func TestRegistryQuery(t *testing.T) {
	reg := NewRegistry(RegistryOptions{})
	require.True(t, reg.Add("one", Properties{"label": "One", "icon": "circle"}, false))
	require.True(t, reg.Add("two", Properties{"label": "Two"}, false))

	t.Run("AllDefinitions", func(t *testing.T) {
		defs := reg.Definitions()
		assert.Len(t, defs, 2)
	})

	t.Run("RestrictedToProperty", func(t *testing.T) {
		defs := reg.DefinitionsWith("icon")
		require.Len(t, defs, 1)
		_, ok := defs["one"]
		assert.True(t, ok)
	})

	t.Run("Exists", func(t *testing.T) {
		assert.True(t, reg.Exists("one"))
		assert.False(t, reg.Exists("three"))
		assert.True(t, reg.ExistsWith("one", "icon"))
		assert.False(t, reg.ExistsWith("two", "icon"))
		assert.False(t, reg.ExistsWith("three", "icon"))
	})

	t.Run("KeysInInsertionOrder", func(t *testing.T) {
		assert.Equal(t, []string{"one", "two"}, reg.Keys())
	})
}

// TestRegistryLoad tests idempotent loading and lazy initialization
func TestRegistryLoad(t *testing.T) {
	t.Run("LoadIsIdempotent", func(t *testing.T) {
		calls := 0
		reg := NewRegistry(RegistryOptions{
			Populate: func(r *Registry) {
				calls++
				r.Add("builtin", Properties{}, false)
			},
		})

		reg.Load()
		reg.Load()
		assert.Equal(t, 1, calls)
		assert.Equal(t, 1, reg.Len())
		assert.Equal(t, 0, reg.Errors().Len())
	})

	t.Run("ReadTriggersLoadExactlyOnce", func(t *testing.T) {
		calls := 0
		reg := NewRegistry(RegistryOptions{
			Populate: func(r *Registry) {
				calls++
				r.Add("builtin", Properties{}, false)
			},
		})

		assert.False(t, reg.Loaded())
		assert.True(t, reg.Exists("builtin"))
		assert.True(t, reg.Loaded())
		reg.Definitions()
		assert.Equal(t, 1, calls)
	})

	t.Run("OnLoadRunsAfterPopulate", func(t *testing.T) {
		var order []string
		reg := NewRegistry(RegistryOptions{
			Populate: func(r *Registry) { order = append(order, "populate") },
		})
		reg.OnLoad(func(r *Registry) { order = append(order, "onload") })

		reg.Load()
		assert.Equal(t, []string{"populate", "onload"}, order)
	})

	t.Run("OnLoadAfterLoadedRunsImmediately", func(t *testing.T) {
		reg := NewRegistry(RegistryOptions{})
		reg.Load()

		ran := false
		reg.OnLoad(func(r *Registry) { ran = true })
		assert.True(t, ran)
	})

	t.Run("OnLoadCanAddDefinitions", func(t *testing.T) {
		reg := NewRegistry(RegistryOptions{
			Populate: func(r *Registry) { r.Add("builtin", Properties{}, false) },
		})
		reg.OnLoad(func(r *Registry) { r.Add("extension", Properties{}, false) })

		assert.Equal(t, 2, reg.Len())
	})
}
