package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_All(t *testing.T) {
	r := NewRegistry()
	all := r.All()
	require.Len(t, all, 12)
	assert.Equal(t, "bbc_world", all[0].Key)

	// All returns a copy, not the registry's own slice.
	all[0].Key = "mutated"
	assert.Equal(t, "bbc_world", r.All()[0].Key)
}

func TestRegistry_Select(t *testing.T) {
	r := NewRegistry()

	t.Run("empty selects everything", func(t *testing.T) {
		assert.Len(t, r.Select(nil), 12)
		assert.Len(t, r.Select([]string{"", "  "}), 12)
	})

	t.Run("all keyword selects everything", func(t *testing.T) {
		assert.Len(t, r.Select([]string{"all"}), 12)
		assert.Len(t, r.Select([]string{"bbc_world", "ALL"}), 12)
	})

	t.Run("filters by key", func(t *testing.T) {
		got := r.Select([]string{"npr", "dw"})
		require.Len(t, got, 2)
		assert.Equal(t, "npr", got[0].Key)
		assert.Equal(t, "dw", got[1].Key)
	})

	t.Run("unknown keys yield empty selection", func(t *testing.T) {
		assert.Empty(t, r.Select([]string{"nope", "missing"}))
	})
}

func TestRegistry_Extras(t *testing.T) {
	r := NewRegistry(
		Source{Key: "custom", Name: "Custom Feed", URL: "https://example.com/rss"},
		Source{Key: "npr", Name: "NPR Override", URL: "https://example.com/npr"},
		Source{Key: "", Name: "dropped", URL: "https://example.com/x"},
	)
	all := r.All()
	require.Len(t, all, 13)

	got := r.Select([]string{"npr"})
	require.Len(t, got, 1)
	assert.Equal(t, "NPR Override", got[0].Name)
}
