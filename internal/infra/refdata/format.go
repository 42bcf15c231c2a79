package refdata

import (
	"fmt"

	"github.com/sandtoninsights/api/internal/entity"
)

// FormatPrice renders an amount in rand the way the site displays it,
// e.g. 5200000 -> "R5.2M", 950000 -> "R950K".
func FormatPrice(amount int64) string {
	if amount >= 1_000_000 {
		return fmt.Sprintf("R%.1fM", float64(amount)/1_000_000)
	}
	return fmt.Sprintf("R%.0fK", float64(amount)/1_000)
}

func FormatPriceBand(band entity.PriceBand) string {
	return FormatPrice(band.Min) + " - " + FormatPrice(band.Max)
}
