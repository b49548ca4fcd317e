package inventory

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIncreaseQuantity(t *testing.T) {
	p := Product{Quantity: 5}

	require.NoError(t, p.IncreaseQuantity(3))
	require.Equal(t, 8, p.Quantity)

	require.NoError(t, p.IncreaseQuantity(0))
	require.Equal(t, 8, p.Quantity)
}

func TestIncreaseQuantityRejectsNegativeAmount(t *testing.T) {
	p := Product{Quantity: 5}

	require.ErrorIs(t, p.IncreaseQuantity(-1), ErrNegativeAmount)
	require.Equal(t, 5, p.Quantity)
}

func TestDecreaseQuantity(t *testing.T) {
	p := Product{Quantity: 5}

	require.NoError(t, p.DecreaseQuantity(3))
	require.Equal(t, 2, p.Quantity)

	require.NoError(t, p.DecreaseQuantity(2))
	require.Equal(t, 0, p.Quantity)
}

func TestDecreaseQuantityGuards(t *testing.T) {
	p := Product{Quantity: 5}

	require.ErrorIs(t, p.DecreaseQuantity(6), ErrInsufficientStock)
	require.Equal(t, 5, p.Quantity)

	require.ErrorIs(t, p.DecreaseQuantity(-1), ErrNegativeAmount)
	require.Equal(t, 5, p.Quantity)
}
