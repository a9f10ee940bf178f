package metrics

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/minedash-admin/pkg/api"
)

// FormatNumber compacts large counts: millions to 1-2 decimals + "M",
// thousands to 1 decimal + "K", everything below rendered plain.
func FormatNumber(n float64) string {
	switch {
	case n >= 1_000_000:
		return mantissa(n/1_000_000) + "M"
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", n/1_000)
	default:
		return plain(n)
	}
}

// FormatCurrency is the rupee variant. The lakh check sits between the M and
// K checks; reordering it changes every display in [100000, 999999].
func FormatCurrency(n float64) string {
	switch {
	case n >= 1_000_000:
		return "₹" + mantissa(n/1_000_000) + "M"
	case n >= 100_000:
		return fmt.Sprintf("₹%.2fL", n/100_000)
	case n >= 1_000:
		return fmt.Sprintf("₹%.1fK", n/1_000)
	default:
		return "₹" + plain(n)
	}
}

// mantissa renders to two decimals then drops one trailing zero, so 2.50
// reads "2.5" but 1.00 keeps a decimal as "1.0".
func mantissa(v float64) string {
	return strings.TrimSuffix(fmt.Sprintf("%.2f", v), "0")
}

func plain(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// PageWindow renders the "Showing X to Y of Z" line from the server's
// pagination block and the requested page size. The bounds are derived, never
// the totals; those come verbatim from the backend.
func PageWindow(p api.Pagination, pageSize int) string {
	if p.Total <= 0 || pageSize <= 0 {
		return "Showing 0 to 0 of 0"
	}
	start := (p.Current-1)*pageSize + 1
	end := p.Current * pageSize
	if end > p.Total {
		end = p.Total
	}
	return fmt.Sprintf("Showing %d to %d of %d", start, end, p.Total)
}
