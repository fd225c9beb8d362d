package domain

import (
	"fmt"
	"time"
)

// tierDurationDays maps each product to its entitlement length.
var tierDurationDays = map[Product]int{
	ProductWeekly:  7,
	ProductMonthly: 30,
	ProductYearly:  365,
}

// UnknownProductError reports a product outside the supported tiers.
type UnknownProductError struct {
	Product Product
}

func (e *UnknownProductError) Error() string {
	return fmt.Sprintf("unknown subscription product: %s", e.Product)
}

// ExpiryDate returns the entitlement end for a purchase: the tier duration
// added to the purchase time, then extended to the last millisecond of that
// day in the process-local timezone, so access never lapses mid-day.
func ExpiryDate(purchase time.Time, product Product) (time.Time, error) {
	days, ok := tierDurationDays[product]
	if !ok {
		return time.Time{}, &UnknownProductError{Product: product}
	}

	t := purchase.Add(time.Duration(days) * 24 * time.Hour).In(time.Local)
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999_000_000, time.Local), nil
}

// KnownProduct reports whether product is a supported tier.
func KnownProduct(product Product) bool {
	_, ok := tierDurationDays[product]
	return ok
}
