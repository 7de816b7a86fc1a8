package catalog

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestNewCategory(t *testing.T) {
	t.Run("creates root category with valid inputs", func(t *testing.T) {
		category, err := NewCategory("Electronics", "Gadgets and devices", "icon-tv", testNow)
		require.NoError(t, err)
		require.NotNil(t, category)

		assert.Equal(t, "Electronics", category.Name)
		assert.Equal(t, "electronics", category.Slug)
		assert.Equal(t, "Gadgets and devices", category.Description)
		assert.Nil(t, category.ParentID)
		assert.Equal(t, 0, category.Level)
		assert.True(t, category.IsActive)
		assert.False(t, category.IsFeatured)
		assert.True(t, category.IsRoot())
		assert.NotEmpty(t, category.ID)
	})

	t.Run("trims name before validating", func(t *testing.T) {
		category, err := NewCategory("  Electronics  ", "", "", testNow)
		require.NoError(t, err)
		assert.Equal(t, "Electronics", category.Name)
	})

	t.Run("publishes CategoryCreated event", func(t *testing.T) {
		category, err := NewCategory("Books", "", "", testNow)
		require.NoError(t, err)

		events := category.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeCategoryCreated, events[0].EventType())
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewCategory("   ", "", "", testNow)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name cannot be empty")
	})

	t.Run("fails with name over 100 characters", func(t *testing.T) {
		_, err := NewCategory(strings.Repeat("x", 101), "", "", testNow)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed 100 characters")
	})

	t.Run("fails with description over 500 characters", func(t *testing.T) {
		_, err := NewCategory("Electronics", strings.Repeat("x", 501), "", testNow)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed 500 characters")
	})
}

func TestNewChildCategory(t *testing.T) {
	parent, err := NewCategory("Electronics", "", "", testNow)
	require.NoError(t, err)

	t.Run("creates child with level parent+1", func(t *testing.T) {
		child, err := NewChildCategory("Laptops", "", "", parent, testNow)
		require.NoError(t, err)

		require.NotNil(t, child.ParentID)
		assert.Equal(t, parent.ID, *child.ParentID)
		assert.Equal(t, 1, child.Level)
		assert.False(t, child.IsRoot())
	})

	t.Run("fails with nil parent", func(t *testing.T) {
		_, err := NewChildCategory("Laptops", "", "", nil, testNow)
		require.Error(t, err)
	})

	t.Run("level follows the chain down to the cap", func(t *testing.T) {
		current := parent
		for level := 1; level <= MaxCategoryLevel; level++ {
			child, err := NewChildCategory("Level", "", "", current, testNow)
			require.NoError(t, err)
			assert.Equal(t, level, child.Level)
			current = child
		}

		// current is now at MaxCategoryLevel; one more must be rejected
		_, err := NewChildCategory("Too Deep", "", "", current, testNow)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "depth cannot exceed")
	})
}

func TestCategoryUpdate(t *testing.T) {
	category, _ := NewCategory("Electronics", "old", "", testNow)
	category.ClearDomainEvents()

	t.Run("rename re-derives slug", func(t *testing.T) {
		err := category.Update("Audio & Video", "new description", testNow)
		require.NoError(t, err)

		assert.Equal(t, "Audio & Video", category.Name)
		assert.Equal(t, "audio-video", category.Slug)
		assert.Equal(t, "new description", category.Description)

		events := category.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeCategoryUpdated, events[0].EventType())
	})

	t.Run("fails with empty name", func(t *testing.T) {
		err := category.Update("", "description", testNow)
		require.Error(t, err)
	})
}

func TestCategoryReparent(t *testing.T) {
	t.Run("moves under new parent", func(t *testing.T) {
		oldParent, _ := NewCategory("Electronics", "", "", testNow)
		newParent, _ := NewCategory("Computers", "", "", testNow)
		child, _ := NewChildCategory("Laptops", "", "", oldParent, testNow)

		err := child.Reparent(newParent, testNow)
		require.NoError(t, err)
		assert.Equal(t, newParent.ID, *child.ParentID)
		assert.Equal(t, 1, child.Level)
	})

	t.Run("moves to root", func(t *testing.T) {
		parent, _ := NewCategory("Electronics", "", "", testNow)
		child, _ := NewChildCategory("Laptops", "", "", parent, testNow)

		err := child.Reparent(nil, testNow)
		require.NoError(t, err)
		assert.Nil(t, child.ParentID)
		assert.Equal(t, 0, child.Level)
	})

	t.Run("rejects self as parent", func(t *testing.T) {
		category, _ := NewCategory("Electronics", "", "", testNow)
		err := category.Reparent(category, testNow)
		require.Error(t, err)
	})

	t.Run("rejects parent at max level", func(t *testing.T) {
		deep, _ := NewCategory("Deep", "", "", testNow)
		deep.Level = MaxCategoryLevel
		other, _ := NewCategory("Other", "", "", testNow)

		err := other.Reparent(deep, testNow)
		require.Error(t, err)
	})
}

func TestCategoryAttributes(t *testing.T) {
	category, _ := NewCategory("Laptops", "", "", testNow)

	t.Run("sets valid attributes", func(t *testing.T) {
		err := category.SetAttributes(AttributeList{
			{Name: "Screen Size", Type: AttributeTypeNumber, Filterable: true},
			{Name: "Color", Type: AttributeTypeSelect, Options: []string{"Silver", "Black"}},
		}, testNow)
		require.NoError(t, err)
		assert.Len(t, category.Attributes, 2)
	})

	t.Run("rejects empty attribute name", func(t *testing.T) {
		err := category.SetAttributes(AttributeList{{Name: " ", Type: AttributeTypeText}}, testNow)
		require.Error(t, err)
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		err := category.SetAttributes(AttributeList{{Name: "Weight", Type: "range"}}, testNow)
		require.Error(t, err)
	})

	t.Run("rejects select without options", func(t *testing.T) {
		err := category.SetAttributes(AttributeList{{Name: "Color", Type: AttributeTypeSelect}}, testNow)
		require.Error(t, err)
	})
}

func TestCategoryStatus(t *testing.T) {
	t.Run("deactivate then activate", func(t *testing.T) {
		category, _ := NewCategory("Books", "", "", testNow)
		category.ClearDomainEvents()

		require.NoError(t, category.Deactivate(testNow))
		assert.False(t, category.IsActive)

		require.NoError(t, category.Activate(testNow))
		assert.True(t, category.IsActive)

		assert.Len(t, category.GetDomainEvents(), 2)
	})

	t.Run("fails to activate active category", func(t *testing.T) {
		category, _ := NewCategory("Books", "", "", testNow)
		require.Error(t, category.Activate(testNow))
	})

	t.Run("fails to deactivate inactive category", func(t *testing.T) {
		category, _ := NewCategory("Books", "", "", testNow)
		require.NoError(t, category.Deactivate(testNow))
		require.Error(t, category.Deactivate(testNow))
	})
}

func TestCategoryFeatureFlags(t *testing.T) {
	category, _ := NewCategory("Books", "", "", testNow)

	category.Feature(testNow)
	assert.True(t, category.IsFeatured)

	category.Unfeature(testNow)
	assert.False(t, category.IsFeatured)
}

func TestCategoryProductCount(t *testing.T) {
	category, _ := NewCategory("Books", "", "", testNow)
	category.SetProductCount(42, testNow)
	assert.Equal(t, int64(42), category.ProductCount)
}
