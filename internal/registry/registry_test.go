package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for TableRegistry:
// - Register under a namespace qualifies the reference
// - Register under an empty namespace yields the bare table name
// - Unregistered names do not resolve
// - Re-registering replaces the entry
// - Entries are sorted by table name

func TestRegister_WithNamespace(t *testing.T) {
	t.Parallel()

	r := New()
	e := r.Register("Item", "examples")
	assert.Equal(t, "ItemTable", e.TableName)
	assert.Equal(t, "Item", e.BeanName)

	ref, ok := r.ResolveRef("Item")
	require.True(t, ok)
	assert.Equal(t, "examples.ItemTable", ref)
}

func TestRegister_EmptyNamespace(t *testing.T) {
	t.Parallel()

	r := New()
	r.Register("Item", "")

	ref, ok := r.ResolveRef("Item")
	require.True(t, ok)
	assert.Equal(t, "ItemTable", ref)
}

func TestResolveRef_Unregistered(t *testing.T) {
	t.Parallel()

	r := New()
	r.Register("Item", "examples")

	ref, ok := r.ResolveRef("Hero")
	assert.False(t, ok)
	assert.Empty(t, ref)
}

func TestRegister_Replaces(t *testing.T) {
	t.Parallel()

	r := New()
	r.Register("Item", "a")
	r.Register("Item", "b")

	ref, _ := r.ResolveRef("Item")
	assert.Equal(t, "b.ItemTable", ref)
	assert.Equal(t, 1, r.Len())
}

func TestEntries_Sorted(t *testing.T) {
	t.Parallel()

	r := New()
	r.Register("Zed", "")
	r.Register("Alpha", "m")
	r.Register("Mid", "")

	entries := r.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "AlphaTable", entries[0].TableName)
	assert.Equal(t, "MidTable", entries[1].TableName)
	assert.Equal(t, "ZedTable", entries[2].TableName)
	assert.Equal(t, NewEntry("Alpha", "m"), entries[0])
}
