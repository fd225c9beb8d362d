package domain

import (
	"errors"
	"testing"
	"time"
)

func TestExpiryDateTierDurations(t *testing.T) {
	purchase := time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		product Product
		days    int
	}{
		{ProductWeekly, 7},
		{ProductMonthly, 30},
		{ProductYearly, 365},
	}

	for _, tc := range tests {
		got, err := ExpiryDate(purchase, tc.product)
		if err != nil {
			t.Fatalf("ExpiryDate(%s): %v", tc.product, err)
		}

		shifted := purchase.Add(time.Duration(tc.days) * 24 * time.Hour).In(time.Local)
		want := time.Date(shifted.Year(), shifted.Month(), shifted.Day(), 23, 59, 59, 999_000_000, time.Local)
		if !got.Equal(want) {
			t.Fatalf("ExpiryDate(%s) = %v, want %v", tc.product, got, want)
		}
	}
}

func TestExpiryDateEndOfDayClamp(t *testing.T) {
	purchase := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	got, err := ExpiryDate(purchase, ProductWeekly)
	if err != nil {
		t.Fatalf("ExpiryDate: %v", err)
	}

	if got.Hour() != 23 || got.Minute() != 59 || got.Second() != 59 || got.Nanosecond() != 999_000_000 {
		t.Fatalf("expiry not clamped to end of day: %v", got)
	}
	if got.Location() != time.Local {
		t.Fatalf("expiry location = %v, want local", got.Location())
	}
	if !got.After(purchase.Add(6 * 24 * time.Hour)) {
		t.Fatalf("weekly expiry too early: %v", got)
	}
}

func TestExpiryDateUnknownProduct(t *testing.T) {
	_, err := ExpiryDate(time.Now(), Product("com.unsentpro.lifetime"))
	if err == nil {
		t.Fatal("expected error for unknown product")
	}

	var unknownErr *UnknownProductError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("expected UnknownProductError, got %T", err)
	}
	if unknownErr.Product != "com.unsentpro.lifetime" {
		t.Fatalf("unexpected product in error: %s", unknownErr.Product)
	}
}

func TestKnownProduct(t *testing.T) {
	if !KnownProduct(ProductMonthly) {
		t.Fatal("monthly tier should be known")
	}
	if KnownProduct(Product("pro")) {
		t.Fatal("arbitrary product should be unknown")
	}
}
