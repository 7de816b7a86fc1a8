package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	vendorID := uuid.New()
	categoryID := uuid.New()

	t.Run("creates active product", func(t *testing.T) {
		product, err := NewProduct("ThinkPad X1", "TP-X1", vendorID, categoryID, decimal.NewFromInt(1299), testNow)
		require.NoError(t, err)

		assert.Equal(t, "ThinkPad X1", product.Name)
		assert.Equal(t, "thinkpad-x1", product.Slug)
		assert.Equal(t, vendorID, product.VendorID)
		assert.Equal(t, categoryID, product.CategoryID)
		assert.True(t, product.IsActive())
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewProduct("", "SKU", vendorID, categoryID, decimal.NewFromInt(10), testNow)
		require.Error(t, err)
	})

	t.Run("fails with nil vendor", func(t *testing.T) {
		_, err := NewProduct("Mouse", "SKU", uuid.Nil, categoryID, decimal.NewFromInt(10), testNow)
		require.Error(t, err)
	})

	t.Run("fails with nil category", func(t *testing.T) {
		_, err := NewProduct("Mouse", "SKU", vendorID, uuid.Nil, decimal.NewFromInt(10), testNow)
		require.Error(t, err)
	})

	t.Run("fails with negative price", func(t *testing.T) {
		_, err := NewProduct("Mouse", "SKU", vendorID, categoryID, decimal.NewFromInt(-1), testNow)
		require.Error(t, err)
	})
}

func TestProductLifecycle(t *testing.T) {
	product, err := NewProduct("Mouse", "SKU", uuid.New(), uuid.New(), decimal.NewFromInt(25), testNow)
	require.NoError(t, err)

	product.Deactivate(testNow)
	assert.False(t, product.IsActive())

	product.Activate(testNow)
	assert.True(t, product.IsActive())

	require.NoError(t, product.UpdatePrice(decimal.NewFromInt(30), testNow))
	assert.True(t, product.Price.Equal(decimal.NewFromInt(30)))

	require.Error(t, product.UpdatePrice(decimal.NewFromInt(-5), testNow))
}
