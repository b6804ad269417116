package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		a, b string
	}{
		{"Widget", "widget"},
		{"  Widget  ", "WIDGET"},
		{"Ñandú", "ñANDÚ"},
		{"Caf\u00e9", "Cafe\u0301"}, // NFC vs NFD
	}
	for _, tc := range cases {
		assert.Equal(t, inventory.NormalizeName(tc.a), inventory.NormalizeName(tc.b), "%q vs %q", tc.a, tc.b)
	}
	assert.Empty(t, inventory.NormalizeName(" \t "))
	assert.NotEqual(t, inventory.NormalizeName("Widget"), inventory.NormalizeName("Widgets"))
}

func TestValuation(t *testing.T) {
	assert.True(t, inventory.Valuation(15, decimal.RequireFromString("2.50")).Equal(decimal.RequireFromString("37.5")))
	assert.True(t, inventory.Valuation(0, decimal.RequireFromString("9.99")).IsZero())
	assert.Equal(t, 6, inventory.CurrentStock(5, 2, 1))
}
