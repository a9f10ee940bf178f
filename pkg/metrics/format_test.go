package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/minedash-admin/pkg/api"
)

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "0", FormatNumber(0))
	assert.Equal(t, "999", FormatNumber(999))
	assert.Equal(t, "1.0K", FormatNumber(1000))
	assert.Equal(t, "1.5K", FormatNumber(1500))
	assert.Equal(t, "999.9K", FormatNumber(999900))
	assert.Equal(t, "1.0M", FormatNumber(1_000_000))
	assert.Equal(t, "2.5M", FormatNumber(2_500_000))
	// Two significant decimals survive; only a trailing zero is trimmed.
	assert.Equal(t, "2.25M", FormatNumber(2_250_000))
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "₹999", FormatCurrency(999))
	assert.Equal(t, "₹50.0K", FormatCurrency(50_000))
	// Lakh takes precedence over K for the whole [1e5, 1e6) band.
	assert.Equal(t, "₹1.00L", FormatCurrency(100_000))
	assert.Equal(t, "₹1.50L", FormatCurrency(150_000))
	assert.Equal(t, "₹9.99L", FormatCurrency(999_000))
	assert.Equal(t, "₹1.0M", FormatCurrency(1_000_000))
}

func TestPageWindow(t *testing.T) {
	assert.Equal(t, "Showing 1 to 10 of 47",
		PageWindow(api.Pagination{Current: 1, Pages: 5, Total: 47}, 10))
	assert.Equal(t, "Showing 11 to 20 of 47",
		PageWindow(api.Pagination{Current: 2, Pages: 5, Total: 47}, 10))
	// Last partial page clamps the upper bound to the total.
	assert.Equal(t, "Showing 41 to 47 of 47",
		PageWindow(api.Pagination{Current: 5, Pages: 5, Total: 47}, 10))
	assert.Equal(t, "Showing 0 to 0 of 0",
		PageWindow(api.Pagination{}, 10))
}

func TestTransactionIsCredit(t *testing.T) {
	assert.True(t, api.Transaction{Type: "credit", Amount: -1}.IsCredit())
	assert.True(t, api.Transaction{Type: "debit", Amount: 5}.IsCredit())
	assert.False(t, api.Transaction{Type: "debit", Amount: -5}.IsCredit())
}
